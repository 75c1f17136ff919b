package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "nsctl",
		Short: "CLI tool for the nightshift server",
		Long: `nsctl is a CLI tool for inspecting and driving a nightshift server.

It reads profiles, friendships, the comment feed and moderation status over
the REST API, and posts or watches realtime events over the WebSocket endpoint.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			if cfg.Verbose {
				client.SetTrace(cmd.ErrOrStderr())
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: NSCTL_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Username, "user", "u", cfg.Username, "Act as this user for realtime commands (env: NSCTL_USER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Password, "password", cfg.Password, "Password for --user (env: NSCTL_PASSWORD)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newCommentsCmd())
	rootCmd.AddCommand(newModerationCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newQRCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
