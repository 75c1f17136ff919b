package moderation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"time"

	"github.com/mcoot/nightshift/internal/dependencies/clock"
	"github.com/mcoot/nightshift/internal/model"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Config holds the moderation policy
type Config struct {
	Denylist     []string
	Privileged   []string
	Mask         string
	BanThreshold int
	BanDuration  time.Duration
}

// DefaultConfig returns the policy the game has always shipped with
func DefaultConfig() Config {
	return Config{
		Denylist:     []string{"fuck", "shit", "ass", "bitch", "cunt", "dick", "pussy", "nigger", "faggot"},
		Privileged:   []string{"blamer_508", "ellieblockman"},
		Mask:         "****",
		BanThreshold: 10,
		BanDuration:  7 * 24 * time.Hour,
	}
}

// Verdict is the outcome of censoring one message
type Verdict struct {
	Text         string
	Flagged      bool // at least one denylisted term matched
	Counted      bool // a violation was recorded against the author
	BanInstalled bool
}

// BanError is returned for authors with an active ban
type BanError struct {
	Username      string
	Until         int64
	RemainingDays int
}

func (e *BanError) Error() string {
	return fmt.Sprintf("You have been banned for repeated violations. Remaining: %d days.", e.RemainingDays)
}

func (e *BanError) Unwrap() error {
	return model.ErrBanned
}

// AsBanError extracts a BanError from err
func AsBanError(err error) (*BanError, bool) {
	var be *BanError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Status is a read-only view of a user's standing
type Status struct {
	Username      string
	Violations    int
	Banned        bool
	BannedUntil   *time.Time
	RemainingDays int
	Privileged    bool
}

// Engine applies the moderation policy to a ledger.
// It holds no state of its own; callers pass the ledger they own.
type Engine struct {
	patterns   []*regexp.Regexp
	privileged map[string]bool
	mask       string
	threshold  int
	duration   time.Duration
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a moderation engine
func New(cfg Config, clock clock.Clock, logger *slog.Logger) *Engine {
	defaults := DefaultConfig()
	if cfg.Mask == "" {
		cfg.Mask = defaults.Mask
	}
	if cfg.BanThreshold <= 0 {
		cfg.BanThreshold = defaults.BanThreshold
	}
	if cfg.BanDuration <= 0 {
		cfg.BanDuration = defaults.BanDuration
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.Denylist))
	for _, word := range cfg.Denylist {
		if word == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}

	privileged := make(map[string]bool, len(cfg.Privileged))
	for _, name := range cfg.Privileged {
		privileged[name] = true
	}

	return &Engine{
		patterns:   patterns,
		privileged: privileged,
		mask:       cfg.Mask,
		threshold:  cfg.BanThreshold,
		duration:   cfg.BanDuration,
		clock:      clock,
		logger:     logger.With(slog.String("component", "moderation")),
	}
}

// IsPrivileged reports whether the user is exempt from violation counting
func (e *Engine) IsPrivileged(username string) bool {
	return e.privileged[username]
}

// Redact masks every denylisted term without touching any ledger
func (e *Engine) Redact(text string) (string, bool) {
	flagged := false
	for _, re := range e.patterns {
		if re.MatchString(text) {
			flagged = true
			text = re.ReplaceAllLiteralString(text, e.mask)
		}
	}
	return text, flagged
}

// Censor redacts text and records at most one violation against the author
func (e *Engine) Censor(ledger *model.Ledger, text, username string) Verdict {
	censored, flagged := e.Redact(text)
	v := Verdict{Text: censored, Flagged: flagged}
	if !flagged || e.IsPrivileged(username) {
		return v
	}

	ledger.Violations[username]++
	v.Counted = true
	count := ledger.Violations[username]

	if count >= e.threshold {
		until := e.clock.Now().Add(e.duration).UnixMilli()
		ledger.Banned[username] = until
		v.BanInstalled = true
		e.logger.Info("ban installed",
			slog.String("username", username),
			slog.Int("violations", count),
			slog.Int64("until", until))
	} else {
		e.logger.Debug("violation recorded",
			slog.String("username", username),
			slog.Int("violations", count))
	}
	return v
}

// ExpireBanIfDue lifts a ban whose expiry has passed and resets the user's violations
func (e *Engine) ExpireBanIfDue(ledger *model.Ledger, username string) bool {
	until, ok := ledger.Banned[username]
	if !ok {
		return false
	}
	if clock.Millis(e.clock) <= until {
		return false
	}
	delete(ledger.Banned, username)
	ledger.Violations[username] = 0
	e.logger.Info("ban expired", slog.String("username", username))
	return true
}

// IsBanned expires a due ban then reports whether one is still active
func (e *Engine) IsBanned(ledger *model.Ledger, username string) bool {
	e.ExpireBanIfDue(ledger, username)
	_, ok := ledger.Banned[username]
	return ok
}

// RemainingDays rounds the time left until the given expiry up to whole days
func (e *Engine) RemainingDays(until int64) int {
	ms := until - clock.Millis(e.clock)
	return int(math.Ceil(float64(ms) / float64(dayMillis)))
}

// Check returns a BanError if the user is banned. changed reports whether an
// expired ban was lifted, which the caller must persist.
func (e *Engine) Check(ledger *model.Ledger, username string) (changed bool, err error) {
	changed = e.ExpireBanIfDue(ledger, username)
	until, ok := ledger.Banned[username]
	if !ok {
		return changed, nil
	}
	return changed, &BanError{
		Username:      username,
		Until:         until,
		RemainingDays: e.RemainingDays(until),
	}
}

// Status describes the user's standing without modifying the ledger
func (e *Engine) Status(ledger *model.Ledger, username string) Status {
	st := Status{
		Username:   username,
		Violations: ledger.Violations[username],
		Privileged: e.IsPrivileged(username),
	}
	until, ok := ledger.Banned[username]
	if !ok {
		return st
	}
	if clock.Millis(e.clock) > until {
		// due to expire on the next check
		st.Violations = 0
		return st
	}
	t := clock.FromMillis(until).UTC()
	st.Banned = true
	st.BannedUntil = &t
	st.RemainingDays = e.RemainingDays(until)
	return st
}
