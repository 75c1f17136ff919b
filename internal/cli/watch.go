package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream realtime events",
		Long: `Connect to the realtime endpoint and print every event as it arrives.

With --user the connection registers first, so friend requests and private
messages for that user are shown as well. Events include:
  - init_comments: Comment backlog, sent on connect
  - new_comment: A comment was posted
  - all_users: The user list changed
  - new_friend_request / friend_request_accepted
  - new_private_message

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchEvents(cmd, jsonOutput, limit)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVar(&limit, "limit", 0, "Exit after this many events (0 streams until interrupted)")

	return cmd
}

// WatchedEvent is one line of watch output
type WatchedEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func watchEvents(cmd *cobra.Command, jsonOutput bool, limit int) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}
	conn, err := Dial(ctx, wsURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if cfg.Username != "" {
		if err := conn.Send(ctx, "register_user", map[string]string{"username": cfg.Username}); err != nil {
			return err
		}
	}

	if !jsonOutput {
		_, _ = fmt.Fprintf(w, "Connected to %s\n", wsURL)
	}

	for seen := 0; limit == 0 || seen < limit; seen++ {
		f, err := conn.Next(ctx)
		if err != nil {
			// Cancellation and server close are expected
			if ctx.Err() != nil || IsClosed(err) {
				if !jsonOutput {
					_, _ = fmt.Fprintln(w, "Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printEvent(w, f, jsonOutput)
	}
	return nil
}

func printEvent(w io.Writer, f Frame, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		data := f.Data
		if len(data) == 0 {
			data = json.RawMessage("null")
		}
		line, _ := json.Marshal(WatchedEvent{Time: now, Event: f.Event, Data: data})
		_, _ = fmt.Fprintln(w, string(line))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	// Truncate data if it's too long for display
	displayData := string(f.Data)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, f.Event, displayData)
}
