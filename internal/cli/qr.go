package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newQRCmd() *cobra.Command {
	var path, outFile string

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Download a share QR code as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFile == "" {
				return errors.New("--out is required")
			}
			png, err := client.Raw("/api/v1/share/qr?path="+url.QueryEscape(path), "image/png")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Wrote %s (%d bytes)", outFile, len(png)))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "Page to link to")
	cmd.Flags().StringVar(&outFile, "out", "", "PNG file to write")

	return cmd
}
