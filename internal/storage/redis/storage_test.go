package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
	"github.com/mcoot/nightshift/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestLoadEmptyDatabase() {
	snap, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Users)
	s.NotNil(snap.Comments)
}

func (s *StorageSuite) TestSaveAndLoad() {
	snap := model.NewSnapshot()
	snap.Users["alice"] = &model.UserProfile{Username: "alice", MaxUnlockedNight: 5, HighScores: map[string]int{"Hard": 9}}
	snap.Comments = append(snap.Comments, model.Comment{ID: "c1", Username: "alice", Text: "hi", Timestamp: 1})
	snap.Ledger.Violations["alice"] = 1

	s.Require().NoError(s.storage.Save(s.ctx, snap))

	loaded, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(snap.Users, loaded.Users)
	s.Equal(snap.Comments, loaded.Comments)
	s.Equal(1, loaded.Ledger.Violations["alice"])
}

func (s *StorageSuite) TestSaveWritesOneKeyPerDocument() {
	s.Require().NoError(s.storage.Save(s.ctx, model.NewSnapshot()))

	for _, name := range storage.Documents {
		s.True(s.mini.Exists(documentKey(name)), name)
	}
	s.True(s.mini.Exists(savedAtKey()))

	val, err := s.mini.Get(documentKey(storage.DocComments))
	s.Require().NoError(err)
	s.Equal("[]", val)
}

func (s *StorageSuite) TestCorruptKeyIsSwallowed() {
	snap := model.NewSnapshot()
	snap.Requests = append(snap.Requests, model.FriendRequest{From: "a", To: "b", Status: model.FriendRequestRejected})
	s.Require().NoError(s.storage.Save(s.ctx, snap))

	s.Require().NoError(s.mini.Set(documentKey(storage.DocRequests), "not json"))
	s.Require().NoError(s.mini.Set(documentKey(storage.DocUsers), `{"bob":{"username":"bob","avatarUrl":null,"maxUnlockedNight":1,"highScores":{}}}`))

	loaded, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded.Requests)
	s.Contains(loaded.Users, "bob")
}

func (s *StorageSuite) TestLoadFailsWhenServerUnavailable() {
	s.mini.Close()
	_, err := s.storage.Load(s.ctx)
	s.Error(err)
}
