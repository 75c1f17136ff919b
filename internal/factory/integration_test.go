package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/storage"
)

// IntegrationSuite tests complete flows across the wired services
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.Load(s.ctx))
}

func (s *IntegrationSuite) register(username string) model.UserProfile {
	profile, _, err := s.app.Profiles.Register(s.ctx, model.RegisterUserPayload{
		Username: username,
		Password: "secret",
	})
	s.Require().NoError(err)
	return profile
}

// Test: repeated profanity leads to a ban that lifts after seven days
func (s *IntegrationSuite) TestViolationsEscalateToBanAndExpire() {
	s.register("mallory")

	for i := 0; i < 10; i++ {
		c, err := s.app.Chat.PostComment(s.ctx, model.Comment{Username: "mallory", Text: "well shit"})
		s.Require().NoError(err)
		s.Equal("well ****", c.Text)
	}

	_, err := s.app.Chat.PostComment(s.ctx, model.Comment{Username: "mallory", Text: "hello"})
	ban, ok := moderation.AsBanError(err)
	s.Require().True(ok)
	s.Equal(7, ban.RemainingDays)
	s.Len(s.app.Chat.Comments(), 10)

	// Friend requests from a banned user vanish
	s.register("bob")
	_, created, err := s.app.Social.SendRequest(s.ctx, "mallory", "bob")
	s.Require().NoError(err)
	s.False(created)

	s.app.MockClock.Advance(7*24*time.Hour + time.Millisecond)

	_, err = s.app.Chat.PostComment(s.ctx, model.Comment{Username: "mallory", Text: "hello"})
	s.Require().NoError(err)
	s.Len(s.app.Chat.Comments(), 11)
}

// Test: privileged users are never censored or counted
func (s *IntegrationSuite) TestPrivilegedUserBypassesCensor() {
	c, err := s.app.Chat.PostComment(s.ctx, model.Comment{Username: "blamer_508", Text: "oh shit"})
	s.Require().NoError(err)
	s.Equal("oh shit", c.Text)

	snap := s.app.Store.Snapshot()
	s.Zero(snap.Ledger.Violations["blamer_508"])
}

// Test: friends are established through request and acceptance
func (s *IntegrationSuite) TestFriendshipFlow() {
	s.register("alice")
	s.register("bob")

	req, created, err := s.app.Social.SendRequest(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(model.FriendRequestPending, req.Status)

	matched, err := s.app.Social.Respond(s.ctx, "alice", "bob", model.FriendRequestAccepted)
	s.Require().NoError(err)
	s.True(matched)

	s.Equal([]string{"bob"}, s.app.Social.Friends("alice"))
	s.Equal([]string{"alice"}, s.app.Social.Friends("bob"))
}

// Test: a rename carries moderation history to the new name
func (s *IntegrationSuite) TestRenameCarriesViolations() {
	s.register("carol")
	_, err := s.app.Chat.PostComment(s.ctx, model.Comment{Username: "carol", Text: "shit"})
	s.Require().NoError(err)

	newName := "caroline"
	res, err := s.app.Profiles.Update(s.ctx, model.UpdateProfilePayload{Username: "carol", NewUsername: &newName})
	s.Require().NoError(err)
	s.True(res.Renamed)

	snap := s.app.Store.Snapshot()
	s.Equal(1, snap.Ledger.Violations["caroline"])
	s.NotContains(snap.Ledger.Violations, "carol")
}

// Test: state written by one app is visible to the next one over the same storage
func (s *IntegrationSuite) TestStateSurvivesRestart() {
	s.register("dave")
	_, err := s.app.Chat.PostComment(s.ctx, model.Comment{Username: "dave", Text: "first"})
	s.Require().NoError(err)
	_, err = s.app.Chat.SendPrivateMessage(s.ctx, model.PrivateMessage{From: "dave", To: "erin", Text: "hi"})
	s.Require().NoError(err)

	restarted := NewTestAppWithStorage(s.app.MemoryStore)
	s.Require().NoError(restarted.Load(s.ctx))

	s.True(restarted.Profiles.Exists("dave"))
	s.Require().NoError(restarted.Profiles.VerifyPassword("dave", "secret"))
	s.Len(restarted.Chat.Comments(), 1)
	s.Len(restarted.Chat.Conversation("erin", "dave"), 1)
}

// Test: plaintext passwords from older data files are hashed on load
func (s *IntegrationSuite) TestLoadUpgradesLegacyPasswords() {
	snap := model.NewSnapshot()
	snap.Users["frank"] = &model.UserProfile{
		Username:         "frank",
		LegacyPassword:   "hunter2",
		MaxUnlockedNight: 1,
		HighScores:       map[string]int{},
	}
	docs, err := storage.Encode(snap)
	s.Require().NoError(err)
	for name, data := range docs {
		s.app.MemoryStore.PutDocument(name, data)
	}

	restarted := NewTestAppWithStorage(s.app.MemoryStore)
	s.Require().NoError(restarted.Load(s.ctx))

	s.Require().NoError(restarted.Profiles.VerifyPassword("frank", "hunter2"))
	stored := restarted.Store.Snapshot().Users["frank"]
	s.Empty(stored.LegacyPassword)
	s.NotEmpty(stored.PasswordHash)
}

// Test: New rejects unknown storage types
func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(Config{StorageType: "tape"})
	s.Error(err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}
