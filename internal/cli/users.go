package cli

import (
	"errors"
	"net/url"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse player profiles",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersSearchCmd())
	cmd.AddCommand(newUsersShowCmd())
	cmd.AddCommand(newUsersFriendsCmd())
	cmd.AddCommand(newUsersVerifyCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UserList
			if err := client.Get("/api/v1/users", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newUsersSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find users whose name contains the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result UserList
			if err := client.Get("/api/v1/users/search?q="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newUsersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile
			if err := client.Get("/api/v1/users/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newUsersFriendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends <username>",
		Short: "Show a user's friends and open requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Friends
			if err := client.Get("/api/v1/users/"+url.PathEscape(args[0])+"/friends", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newUsersVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <username>",
		Short: "Check a user's password (uses --password or NSCTL_PASSWORD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Password == "" {
				return errors.New("--password is required")
			}
			body := map[string]string{"password": cfg.Password}
			if err := client.Post("/api/v1/users/"+url.PathEscape(args[0])+"/verify", body, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Password OK")
			return nil
		},
	}
}
