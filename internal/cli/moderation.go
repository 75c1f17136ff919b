package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newModerationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderation",
		Short: "Inspect moderation standing",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status <username>",
		Short: "Show violations and any active ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ModerationStatus
			if err := client.Get("/api/v1/moderation/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	return cmd
}
