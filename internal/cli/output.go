package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer

	// text styles, plain unless w is a color terminal
	userStyle   lipgloss.Style
	headerStyle lipgloss.Style
	alertStyle  lipgloss.Style
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	r := lipgloss.NewRenderer(w)
	return &Output{
		format:      format,
		w:           w,
		userStyle:   r.NewStyle().Foreground(lipgloss.Color("#ff8")),
		headerStyle: r.NewStyle().Bold(true),
		alertStyle:  r.NewStyle().Foreground(lipgloss.Color("#f55")).Bold(true),
	}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	case Profile:
		o.printProfile(v)
	case UserList:
		o.printUserList(v)
	case Friends:
		o.printFriends(v)
	case Comment:
		o.printComment(v)
	case CommentList:
		o.printCommentList(v)
	case ModerationStatus:
		o.printModerationStatus(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Profile response type (matches API)
type Profile struct {
	Username         string         `json:"username"`
	AvatarURL        *string        `json:"avatarUrl"`
	Description      string         `json:"description,omitempty"`
	MaxUnlockedNight int            `json:"maxUnlockedNight"`
	HighScores       map[string]int `json:"highScores"`
}

// UserList response type
type UserList struct {
	Users []Profile `json:"users"`
	Count int       `json:"count"`
}

// FriendRequest response type
type FriendRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

// Friends response type
type Friends struct {
	Username string          `json:"username"`
	Friends  []string        `json:"friends"`
	Requests []FriendRequest `json:"requests"`
}

// Comment response type
type Comment struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
	Text      string  `json:"text"`
	Timestamp int64   `json:"timestamp"`
	ReplyTo   string  `json:"replyTo,omitempty"`
}

// CommentList response type
type CommentList struct {
	Comments []Comment `json:"comments"`
	Count    int       `json:"count"`
}

// ModerationStatus response type
type ModerationStatus struct {
	Username      string     `json:"username"`
	Violations    int        `json:"violations"`
	Banned        bool       `json:"banned"`
	BannedUntil   *time.Time `json:"banned_until"`
	RemainingDays int        `json:"remaining_days,omitempty"`
	Privileged    bool       `json:"privileged,omitempty"`
}

func (o *Output) printProfile(p Profile) {
	o.printf("User: %s\n", o.userStyle.Render(p.Username))
	if p.Description != "" {
		o.printf("About: %s\n", p.Description)
	}
	o.printf("Night: %d\n", p.MaxUnlockedNight)
	if len(p.HighScores) > 0 {
		nights := make([]string, 0, len(p.HighScores))
		for night := range p.HighScores {
			nights = append(nights, night)
		}
		sort.Strings(nights)
		o.printf("%s\n", o.headerStyle.Render("High Scores:"))
		for _, night := range nights {
			o.printf("  night %s: %d\n", night, p.HighScores[night])
		}
	}
}

func (o *Output) printUserList(l UserList) {
	o.printf("%s\n", o.headerStyle.Render(fmt.Sprintf("Users (%d):", l.Count)))
	for _, u := range l.Users {
		o.printf("  - %s (night %d)\n", o.userStyle.Render(u.Username), u.MaxUnlockedNight)
	}
}

func (o *Output) printFriends(f Friends) {
	if len(f.Friends) == 0 {
		o.printf("%s has no friends yet\n", f.Username)
	} else {
		o.printf("Friends of %s: %s\n", f.Username, strings.Join(f.Friends, ", "))
	}

	var pending []string
	for _, r := range f.Requests {
		if r.Status == "pending" {
			pending = append(pending, fmt.Sprintf("%s -> %s", r.From, r.To))
		}
	}
	if len(pending) > 0 {
		o.printf("%s\n", o.headerStyle.Render("Pending:"))
		for _, p := range pending {
			o.printf("  - %s\n", p)
		}
	}
}

func (o *Output) printComment(c Comment) {
	ts := time.UnixMilli(c.Timestamp).Format("2006-01-02 15:04")
	if c.ReplyTo != "" {
		o.printf("[%s] %s (re %s): %s\n", ts, o.userStyle.Render(c.Username), c.ReplyTo, c.Text)
		return
	}
	o.printf("[%s] %s: %s\n", ts, o.userStyle.Render(c.Username), c.Text)
}

func (o *Output) printCommentList(l CommentList) {
	if l.Count == 0 {
		o.printf("No comments\n")
		return
	}
	for _, c := range l.Comments {
		o.printComment(c)
	}
}

func (o *Output) printModerationStatus(s ModerationStatus) {
	o.printf("User: %s\n", s.Username)
	if s.Privileged {
		o.printf("Privileged: yes\n")
	}
	o.printf("Violations: %d\n", s.Violations)
	if s.Banned && s.BannedUntil != nil {
		o.printf("%s\n", o.alertStyle.Render(fmt.Sprintf("Banned until %s (%d days left)", s.BannedUntil.Format(time.RFC3339), s.RemainingDays)))
	} else {
		o.printf("Banned: no\n")
	}
}
