package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nightshift/internal/dependencies/mocks"
	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/state"
	"github.com/mcoot/nightshift/internal/storage/memory"
	"github.com/mcoot/nightshift/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	storage *memory.Storage
	store   *state.Store
	clock   *mocks.MockClock
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.store = state.New(s.storage, false, logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.manager = New(s.store, moderation.New(moderation.DefaultConfig(), s.clock, logger), logger)
	s.ctx = context.Background()

	s.Require().NoError(s.store.Mutate(s.ctx, func(snap *model.Snapshot) (bool, error) {
		for _, name := range []string{"alice", "bob", "carol"} {
			snap.Users[name] = &model.UserProfile{Username: name, MaxUnlockedNight: 1, HighScores: map[string]int{}}
		}
		return true, nil
	}))
}

func (s *ManagerSuite) requests() []model.FriendRequest {
	var out []model.FriendRequest
	s.store.Read(func(snap *model.Snapshot) {
		out = append(out, snap.Requests...)
	})
	return out
}

// SendRequest tests

func (s *ManagerSuite) TestSendRequestCreatesPending() {
	req, created, err := s.manager.SendRequest(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(model.FriendRequest{From: "alice", To: "bob", Status: model.FriendRequestPending}, req)
	s.Len(s.requests(), 1)
}

func (s *ManagerSuite) TestSendRequestToSelfFails() {
	_, created, err := s.manager.SendRequest(s.ctx, "alice", "alice")
	s.ErrorIs(err, model.ErrSelfFriendRequest)
	s.False(created)
	s.Empty(s.requests())
}

func (s *ManagerSuite) TestSendRequestToUnknownUserFails() {
	_, created, err := s.manager.SendRequest(s.ctx, "alice", "ghost")
	s.ErrorIs(err, model.ErrUserNotFound)
	s.False(created)
}

func (s *ManagerSuite) TestDuplicateRequestIsDroppedEitherDirection() {
	_, _, err := s.manager.SendRequest(s.ctx, "alice", "bob")
	s.Require().NoError(err)

	_, created, err := s.manager.SendRequest(s.ctx, "alice", "bob")
	s.NoError(err)
	s.False(created)

	_, created, err = s.manager.SendRequest(s.ctx, "bob", "alice")
	s.NoError(err)
	s.False(created)

	s.Len(s.requests(), 1)
}

func (s *ManagerSuite) TestRequestAfterAcceptIsDropped() {
	_, _, _ = s.manager.SendRequest(s.ctx, "alice", "bob")
	_, err := s.manager.Respond(s.ctx, "alice", "bob", model.FriendRequestAccepted)
	s.Require().NoError(err)

	_, created, err := s.manager.SendRequest(s.ctx, "bob", "alice")
	s.NoError(err)
	s.False(created)
}

func (s *ManagerSuite) TestRejectedPairMayRequestAgain() {
	_, _, _ = s.manager.SendRequest(s.ctx, "alice", "bob")
	_, err := s.manager.Respond(s.ctx, "alice", "bob", model.FriendRequestRejected)
	s.Require().NoError(err)

	req, created, err := s.manager.SendRequest(s.ctx, "bob", "alice")
	s.Require().NoError(err)
	s.True(created)
	s.Equal("bob", req.From)
	s.Equal("alice", req.To)

	reqs := s.requests()
	s.Require().Len(reqs, 1)
	s.Equal(model.FriendRequestPending, reqs[0].Status)
}

func (s *ManagerSuite) TestBannedSenderIsDroppedSilently() {
	s.Require().NoError(s.store.Mutate(s.ctx, func(snap *model.Snapshot) (bool, error) {
		snap.Ledger.Banned["alice"] = s.clock.Now().Add(time.Hour).UnixMilli()
		return true, nil
	}))

	_, created, err := s.manager.SendRequest(s.ctx, "alice", "bob")
	s.NoError(err)
	s.False(created)
	s.Empty(s.requests())
}

func (s *ManagerSuite) TestExpiredBanIsLiftedOnRequest() {
	s.Require().NoError(s.store.Mutate(s.ctx, func(snap *model.Snapshot) (bool, error) {
		snap.Ledger.Banned["alice"] = s.clock.Now().UnixMilli()
		snap.Ledger.Violations["alice"] = 10
		return true, nil
	}))
	s.clock.Advance(time.Second)

	_, created, err := s.manager.SendRequest(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.True(created)

	s.store.Read(func(snap *model.Snapshot) {
		s.NotContains(snap.Ledger.Banned, "alice")
		s.Equal(0, snap.Ledger.Violations["alice"])
	})
}

// Respond tests

func (s *ManagerSuite) TestRespondUsesExactOrderedPair() {
	_, _, _ = s.manager.SendRequest(s.ctx, "alice", "bob")

	matched, err := s.manager.Respond(s.ctx, "bob", "alice", model.FriendRequestAccepted)
	s.Require().NoError(err)
	s.False(matched)
	s.Equal(model.FriendRequestPending, s.requests()[0].Status)

	matched, err = s.manager.Respond(s.ctx, "alice", "bob", model.FriendRequestAccepted)
	s.Require().NoError(err)
	s.True(matched)
	s.Equal(model.FriendRequestAccepted, s.requests()[0].Status)
}

func (s *ManagerSuite) TestRespondRejectsPendingStatus() {
	_, err := s.manager.Respond(s.ctx, "alice", "bob", model.FriendRequestPending)
	s.ErrorIs(err, model.ErrInvalidPayload)
}

func (s *ManagerSuite) TestRespondLeavesOtherRecordsAlone() {
	_, _, _ = s.manager.SendRequest(s.ctx, "alice", "bob")
	_, _, _ = s.manager.SendRequest(s.ctx, "carol", "bob")

	_, err := s.manager.Respond(s.ctx, "alice", "bob", model.FriendRequestRejected)
	s.Require().NoError(err)

	reqs := s.requests()
	s.Equal(model.FriendRequestRejected, reqs[0].Status)
	s.Equal(model.FriendRequestPending, reqs[1].Status)
}

// Query tests

func (s *ManagerSuite) TestFriends() {
	_, _, _ = s.manager.SendRequest(s.ctx, "alice", "bob")
	_, _, _ = s.manager.SendRequest(s.ctx, "carol", "alice")
	_, _ = s.manager.Respond(s.ctx, "alice", "bob", model.FriendRequestAccepted)
	_, _ = s.manager.Respond(s.ctx, "carol", "alice", model.FriendRequestAccepted)

	s.Equal([]string{"bob", "carol"}, s.manager.Friends("alice"))
	s.Equal([]string{"alice"}, s.manager.Friends("bob"))
	s.Empty(s.manager.Friends("nobody"))
	s.Len(s.manager.Requests("alice"), 2)
}
