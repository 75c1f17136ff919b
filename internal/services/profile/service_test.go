package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/state"
	"github.com/mcoot/nightshift/internal/storage/memory"
	"github.com/mcoot/nightshift/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	store   *state.Store
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.store = state.New(s.storage, false, testutil.NopLogger())
	s.service = New(s.store, Config{BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	s.ctx = context.Background()
}

func strPtr(v string) *string { return &v }

func (s *ServiceSuite) register(in model.RegisterUserPayload) model.UserProfile {
	p, _, err := s.service.Register(s.ctx, in)
	s.Require().NoError(err)
	return p
}

// Register tests

func (s *ServiceSuite) TestRegisterNewUserDefaults() {
	p, all, err := s.service.Register(s.ctx, model.RegisterUserPayload{Username: "alice"})
	s.Require().NoError(err)

	s.Equal("alice", p.Username)
	s.Equal(1, p.MaxUnlockedNight)
	s.NotNil(p.HighScores)
	s.Nil(p.AvatarURL)
	s.Len(all, 1)
	s.Equal(1, s.storage.SaveCount())
}

func (s *ServiceSuite) TestRegisterRejectsEmptyUsername() {
	_, _, err := s.service.Register(s.ctx, model.RegisterUserPayload{})
	s.ErrorIs(err, model.ErrInvalidPayload)
}

func (s *ServiceSuite) TestRegisterHashesPasswordAndSanitizes() {
	p := s.register(model.RegisterUserPayload{Username: "alice", Password: "hunter2"})
	s.Empty(p.PasswordHash)

	s.store.Read(func(snap *model.Snapshot) {
		stored := snap.Users["alice"]
		s.NotEmpty(stored.PasswordHash)
		s.NotEqual("hunter2", stored.PasswordHash)
	})
	s.NoError(s.service.VerifyPassword("alice", "hunter2"))
}

func (s *ServiceSuite) TestRegisterMergePrefersStoredValues() {
	s.register(model.RegisterUserPayload{
		Username:         "alice",
		AvatarURL:        strPtr("a.png"),
		Description:      "first",
		Password:         "one",
		MaxUnlockedNight: 3,
		HighScores:       map[string]int{"Easy": 10, "Hard": 2},
	})

	p := s.register(model.RegisterUserPayload{
		Username:         "alice",
		AvatarURL:        strPtr("b.png"),
		Description:      "second",
		Password:         "two",
		MaxUnlockedNight: 2,
		HighScores:       map[string]int{"Easy": 4, "Hard": 8, "Nightmare": 1},
	})

	s.Equal("a.png", *p.AvatarURL)
	s.Equal("first", p.Description)
	s.Equal(3, p.MaxUnlockedNight)
	s.Equal(map[string]int{"Easy": 10, "Hard": 8, "Nightmare": 1}, p.HighScores)
	s.NoError(s.service.VerifyPassword("alice", "one"))
	s.ErrorIs(s.service.VerifyPassword("alice", "two"), model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestRegisterMergeFillsEmptyFields() {
	s.register(model.RegisterUserPayload{Username: "alice"})

	p := s.register(model.RegisterUserPayload{
		Username:         "alice",
		AvatarURL:        strPtr("b.png"),
		Description:      "hello",
		MaxUnlockedNight: 4,
	})

	s.Equal("b.png", *p.AvatarURL)
	s.Equal("hello", p.Description)
	s.Equal(4, p.MaxUnlockedNight)
}

// Update tests

func (s *ServiceSuite) TestUpdateUnknownUser() {
	_, err := s.service.Update(s.ctx, model.UpdateProfilePayload{Username: "ghost"})
	s.ErrorIs(err, model.ErrUserNotFound)
	s.Equal(0, s.storage.SaveCount())
}

func (s *ServiceSuite) TestUpdateFields() {
	s.register(model.RegisterUserPayload{Username: "alice", Description: "old"})

	res, err := s.service.Update(s.ctx, model.UpdateProfilePayload{
		Username:    "alice",
		Description: strPtr("new"),
		AvatarURL:   strPtr("c.png"),
		Password:    strPtr("secret"),
	})
	s.Require().NoError(err)
	s.False(res.Renamed)
	s.Equal("alice", res.Username)
	s.Equal("new", res.Profile.Description)
	s.Equal("c.png", *res.Profile.AvatarURL)
	s.Empty(res.Profile.PasswordHash)
	s.NoError(s.service.VerifyPassword("alice", "secret"))
}

func (s *ServiceSuite) TestUpdateRenameMovesProfileAndLedger() {
	s.register(model.RegisterUserPayload{Username: "alice", MaxUnlockedNight: 5})
	s.Require().NoError(s.store.Mutate(s.ctx, func(snap *model.Snapshot) (bool, error) {
		snap.Ledger.Violations["alice"] = 4
		return true, nil
	}))

	res, err := s.service.Update(s.ctx, model.UpdateProfilePayload{
		Username:    "alice",
		NewUsername: strPtr("alicia"),
	})
	s.Require().NoError(err)
	s.True(res.Renamed)
	s.Equal("alice", res.OldUsername)
	s.Equal("alicia", res.Username)
	s.Equal(5, res.Profile.MaxUnlockedNight)

	_, err = s.service.Get("alice")
	s.ErrorIs(err, model.ErrUserNotFound)
	s.True(s.service.Exists("alicia"))

	s.store.Read(func(snap *model.Snapshot) {
		s.Equal(4, snap.Ledger.Violations["alicia"])
		s.NotContains(snap.Ledger.Violations, "alice")
	})
}

func (s *ServiceSuite) TestUpdateRenameToTakenNameFails() {
	s.register(model.RegisterUserPayload{Username: "alice", Description: "a"})
	s.register(model.RegisterUserPayload{Username: "bob"})
	saves := s.storage.SaveCount()

	_, err := s.service.Update(s.ctx, model.UpdateProfilePayload{
		Username:    "alice",
		NewUsername: strPtr("bob"),
		Description: strPtr("changed"),
	})
	s.ErrorIs(err, model.ErrUsernameTaken)
	s.Equal(saves, s.storage.SaveCount())

	p, err := s.service.Get("alice")
	s.Require().NoError(err)
	s.Equal("a", p.Description)
}

func (s *ServiceSuite) TestUpdateRenameToSameNameIsNotARename() {
	s.register(model.RegisterUserPayload{Username: "alice"})

	res, err := s.service.Update(s.ctx, model.UpdateProfilePayload{
		Username:    "alice",
		NewUsername: strPtr("alice"),
	})
	s.Require().NoError(err)
	s.False(res.Renamed)
}

// Query tests

func (s *ServiceSuite) TestAllUsersSortedAndSanitized() {
	s.register(model.RegisterUserPayload{Username: "zed", Password: "x"})
	s.register(model.RegisterUserPayload{Username: "amy"})

	all := s.service.AllUsers()
	s.Require().Len(all, 2)
	s.Equal("amy", all[0].Username)
	s.Equal("zed", all[1].Username)
	s.Empty(all[1].PasswordHash)
}

func (s *ServiceSuite) TestSearchIsCaseInsensitiveSubstring() {
	s.register(model.RegisterUserPayload{Username: "NightGuard"})
	s.register(model.RegisterUserPayload{Username: "dayshift"})
	s.register(model.RegisterUserPayload{Username: "knight"})

	results := s.service.Search("NIGHT")
	s.Require().Len(results, 2)
	s.Equal("NightGuard", results[0].Username)
	s.Equal("knight", results[1].Username)

	s.Empty(s.service.Search("zzz"))
}

func (s *ServiceSuite) TestVerifyPasswordErrors() {
	s.ErrorIs(s.service.VerifyPassword("ghost", "x"), model.ErrUserNotFound)

	s.register(model.RegisterUserPayload{Username: "nopass"})
	s.ErrorIs(s.service.VerifyPassword("nopass", ""), model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestMigrateLegacyPasswords() {
	s.Require().NoError(s.store.Mutate(s.ctx, func(snap *model.Snapshot) (bool, error) {
		snap.Users["old"] = &model.UserProfile{Username: "old", LegacyPassword: "plain", MaxUnlockedNight: 1, HighScores: map[string]int{}}
		return true, nil
	}))

	n, err := s.service.MigrateLegacyPasswords(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
	s.NoError(s.service.VerifyPassword("old", "plain"))

	s.store.Read(func(snap *model.Snapshot) {
		s.Empty(snap.Users["old"].LegacyPassword)
	})

	n, err = s.service.MigrateLegacyPasswords(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}
