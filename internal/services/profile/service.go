package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/state"
)

// Config holds configuration for the profile service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default profile configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// UpdateResult describes what an update_profile call changed
type UpdateResult struct {
	OldUsername string
	Username    string
	Renamed     bool
	Profile     model.UserProfile // sanitized
	All         []model.UserProfile
}

// Service manages user profiles
type Service struct {
	store  *state.Store
	cost   int
	logger *slog.Logger
}

// New creates a new profile service
func New(store *state.Store, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		store:  store,
		cost:   cfg.BcryptCost,
		logger: logger.With(slog.String("component", "profile")),
	}
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates the profile or merges the incoming one into the stored one.
// Returns the sanitized resulting profile and the full sanitized user list.
func (s *Service) Register(ctx context.Context, in model.RegisterUserPayload) (model.UserProfile, []model.UserProfile, error) {
	if in.Username == "" {
		return model.UserProfile{}, nil, model.ErrInvalidPayload
	}

	var hash string
	if in.Password != "" {
		h, err := s.hash(in.Password)
		if err != nil {
			return model.UserProfile{}, nil, err
		}
		hash = h
	}

	var result model.UserProfile
	var all []model.UserProfile
	err := s.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		stored, exists := snap.Users[in.Username]
		if exists {
			mergeInto(stored, in, hash)
		} else {
			stored = newProfile(in, hash)
			snap.Users[in.Username] = stored
			s.logger.Info("user registered", slog.String("username", in.Username))
		}
		result = stored.Sanitized()
		all = sanitizedUsers(snap)
		return true, nil
	})
	return result, all, err
}

func newProfile(in model.RegisterUserPayload, hash string) *model.UserProfile {
	p := &model.UserProfile{
		Username:         in.Username,
		AvatarURL:        in.AvatarURL,
		Description:      in.Description,
		PasswordHash:     hash,
		MaxUnlockedNight: in.MaxUnlockedNight,
		HighScores:       make(map[string]int, len(in.HighScores)),
	}
	if p.MaxUnlockedNight < 1 {
		p.MaxUnlockedNight = 1
	}
	for k, v := range in.HighScores {
		p.HighScores[k] = v
	}
	return p
}

// mergeInto keeps stored values except where the stored profile is empty.
// Progress fields only ever move forward.
func mergeInto(stored *model.UserProfile, in model.RegisterUserPayload, hash string) {
	if stored.AvatarURL == nil || *stored.AvatarURL == "" {
		if in.AvatarURL != nil && *in.AvatarURL != "" {
			avatar := *in.AvatarURL
			stored.AvatarURL = &avatar
		}
	}
	if stored.Description == "" {
		stored.Description = in.Description
	}
	if stored.PasswordHash == "" && stored.LegacyPassword == "" {
		stored.PasswordHash = hash
	}
	stored.MaxUnlockedNight = max(atLeastOne(in.MaxUnlockedNight), atLeastOne(stored.MaxUnlockedNight))

	if stored.HighScores == nil {
		stored.HighScores = make(map[string]int)
	}
	for k, v := range in.HighScores {
		if cur, ok := stored.HighScores[k]; !ok || v > cur {
			stored.HighScores[k] = v
		}
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Update applies an optional rename and then any field changes
func (s *Service) Update(ctx context.Context, in model.UpdateProfilePayload) (*UpdateResult, error) {
	var hash *string
	if in.Password != nil {
		h := ""
		if *in.Password != "" {
			var err error
			if h, err = s.hash(*in.Password); err != nil {
				return nil, err
			}
		}
		hash = &h
	}

	var res *UpdateResult
	err := s.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		user, ok := snap.Users[in.Username]
		if !ok {
			return false, model.ErrUserNotFound
		}

		target := in.Username
		renamed := false
		if in.NewUsername != nil && *in.NewUsername != "" && *in.NewUsername != in.Username {
			if _, taken := snap.Users[*in.NewUsername]; taken {
				return false, model.ErrUsernameTaken
			}
			target = *in.NewUsername
			delete(snap.Users, in.Username)
			user.Username = target
			snap.Users[target] = user
			snap.Ledger.Rename(in.Username, target)
			renamed = true
			s.logger.Info("user renamed",
				slog.String("from", in.Username),
				slog.String("to", target))
		}

		if in.Description != nil {
			user.Description = *in.Description
		}
		if hash != nil {
			user.PasswordHash = *hash
			user.LegacyPassword = ""
		}
		if in.AvatarURL != nil {
			avatar := *in.AvatarURL
			user.AvatarURL = &avatar
		}

		res = &UpdateResult{
			OldUsername: in.Username,
			Username:    target,
			Renamed:     renamed,
			Profile:     user.Sanitized(),
			All:         sanitizedUsers(snap),
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AllUsers returns every profile, sanitized and sorted by username
func (s *Service) AllUsers() []model.UserProfile {
	var all []model.UserProfile
	s.store.Read(func(snap *model.Snapshot) {
		all = sanitizedUsers(snap)
	})
	return all
}

// Search returns profiles whose username contains query, ignoring case
func (s *Service) Search(query string) []model.UserProfile {
	results := []model.UserProfile{}
	s.store.Read(func(snap *model.Snapshot) {
		for _, name := range sortedNames(snap) {
			if p := snap.Users[name]; p.MatchesQuery(query) {
				results = append(results, p.Sanitized())
			}
		}
	})
	return results
}

// Get returns one sanitized profile
func (s *Service) Get(username string) (model.UserProfile, error) {
	var out model.UserProfile
	err := model.ErrUserNotFound
	s.store.Read(func(snap *model.Snapshot) {
		if p, ok := snap.Users[username]; ok {
			out = p.Sanitized()
			err = nil
		}
	})
	return out, err
}

// Exists reports whether a profile is registered under username
func (s *Service) Exists(username string) bool {
	_, err := s.Get(username)
	return err == nil
}

// VerifyPassword checks a password against the stored hash
func (s *Service) VerifyPassword(username, password string) error {
	var hash string
	found := false
	s.store.Read(func(snap *model.Snapshot) {
		if p, ok := snap.Users[username]; ok {
			found = true
			hash = p.PasswordHash
		}
	})
	if !found {
		return model.ErrUserNotFound
	}
	if hash == "" {
		return model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return model.ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// MigrateLegacyPasswords replaces plaintext passwords from older data with hashes
func (s *Service) MigrateLegacyPasswords(ctx context.Context) (int, error) {
	migrated := 0
	err := s.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		for _, name := range sortedNames(snap) {
			p := snap.Users[name]
			if p.LegacyPassword == "" {
				continue
			}
			hash, err := s.hash(p.LegacyPassword)
			if err != nil {
				return migrated > 0, err
			}
			p.PasswordHash = hash
			p.LegacyPassword = ""
			migrated++
		}
		return migrated > 0, nil
	})
	if migrated > 0 {
		s.logger.Info("migrated legacy passwords", slog.Int("count", migrated))
	}
	return migrated, err
}

func sortedNames(snap *model.Snapshot) []string {
	names := make([]string, 0, len(snap.Users))
	for name := range snap.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sanitizedUsers(snap *model.Snapshot) []model.UserProfile {
	out := make([]model.UserProfile, 0, len(snap.Users))
	for _, name := range sortedNames(snap) {
		out = append(out, snap.Users[name].Sanitized())
	}
	return out
}
