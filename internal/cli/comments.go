package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and post on the global comment feed",
	}

	cmd.AddCommand(newCommentsListCmd())
	cmd.AddCommand(newCommentsPostCmd())

	return cmd
}

func newCommentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the comment feed, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CommentList
			if err := client.Get("/api/v1/comments", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newCommentsPostCmd() *cobra.Command {
	var replyTo string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "post <text>",
		Short: "Post a comment as --user",
		Long: `Connect to the realtime endpoint, register as --user and post a comment.

The comment is printed as the server broadcast it, after censoring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Username == "" {
				return errors.New("--user is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			comment, err := postComment(ctx, args[0], replyTo)
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(comment)
			return nil
		},
	}

	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Username being replied to")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for the server")

	return cmd
}

func postComment(ctx context.Context, text, replyTo string) (Comment, error) {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return Comment{}, err
	}
	conn, err := Dial(ctx, wsURL)
	if err != nil {
		return Comment{}, err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Register(ctx, cfg.Username, cfg.Password); err != nil {
		return Comment{}, fmt.Errorf("register: %w", err)
	}

	payload := map[string]any{"username": cfg.Username, "text": text}
	if replyTo != "" {
		payload["replyTo"] = replyTo
	}
	if err := conn.Send(ctx, "send_comment", payload); err != nil {
		return Comment{}, err
	}

	for {
		f, err := conn.Await(ctx, "new_comment", "banned_notice")
		if err != nil {
			return Comment{}, err
		}
		if f.Event == "banned_notice" {
			var msg string
			_ = json.Unmarshal(f.Data, &msg)
			return Comment{}, errors.New(msg)
		}
		var c Comment
		if err := json.Unmarshal(f.Data, &c); err != nil {
			return Comment{}, fmt.Errorf("failed to parse comment: %w", err)
		}
		if c.Username == cfg.Username {
			return c, nil
		}
	}
}
