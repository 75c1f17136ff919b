package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/testutil"
)

func sampleSnapshot() *model.Snapshot {
	avatar := "https://picsum.photos/seed/dev/200/200"
	snap := model.NewSnapshot()
	snap.Users["alice"] = &model.UserProfile{
		Username:         "alice",
		AvatarURL:        &avatar,
		Description:      "night guard",
		PasswordHash:     "$2a$04$hash",
		MaxUnlockedNight: 4,
		HighScores:       map[string]int{"Easy": 10, "Hard": 3},
	}
	snap.Users["bob"] = &model.UserProfile{Username: "bob", MaxUnlockedNight: 1, HighScores: map[string]int{}}
	snap.Comments = []model.Comment{
		{ID: "c1", Username: "alice", AvatarURL: &avatar, Text: "hello", Timestamp: 1000},
		{ID: "c2", Username: "bob", Text: "hey", Timestamp: 2000, ReplyTo: "c1"},
	}
	snap.Messages = []model.PrivateMessage{{ID: "m1", From: "alice", To: "bob", Text: "psst", Timestamp: 3000}}
	snap.Requests = []model.FriendRequest{{From: "alice", To: "bob", Status: model.FriendRequestAccepted}}
	snap.Ledger.Banned["eve"] = 999999
	snap.Ledger.Violations["eve"] = 10
	return snap
}

func TestEncodeProducesEveryDocument(t *testing.T) {
	docs, err := Encode(model.NewSnapshot())
	require.NoError(t, err)

	for _, name := range Documents {
		assert.Contains(t, docs, name)
	}
	assert.Equal(t, "[]", string(docs[DocComments]))
	assert.JSONEq(t, `{"banned":{},"violations":{}}`, string(docs[DocBans]))
}

func TestEncodeIsPrettyPrinted(t *testing.T) {
	docs, err := Encode(sampleSnapshot())
	require.NoError(t, err)
	assert.Contains(t, string(docs[DocBans]), "\n  \"banned\": {\n    \"eve\": 999999\n  }")
}

func TestRoundTripIsByteEquivalent(t *testing.T) {
	first, err := Encode(sampleSnapshot())
	require.NoError(t, err)

	decoded := Decode(first, testutil.NopLogger())
	second, err := Encode(decoded)
	require.NoError(t, err)

	for _, name := range Documents {
		assert.Equal(t, string(first[name]), string(second[name]), name)
	}
}

func TestDecodeMissingDocumentsDefaultEmpty(t *testing.T) {
	snap := Decode(map[string][]byte{}, testutil.NopLogger())
	assert.NotNil(t, snap.Users)
	assert.NotNil(t, snap.Comments)
	assert.NotNil(t, snap.Ledger.Violations)
}

func TestDecodeFailuresAreIndependent(t *testing.T) {
	docs, err := Encode(sampleSnapshot())
	require.NoError(t, err)
	docs[DocComments] = []byte(`{"not": "an array"}`)
	docs[DocBans] = []byte(`garbage`)

	logger, logs := testutil.CaptureLogger()
	snap := Decode(docs, logger)

	assert.Empty(t, snap.Comments)
	assert.Empty(t, snap.Ledger.Banned)
	assert.Len(t, snap.Users, 2)
	assert.Len(t, snap.Messages, 1)
	assert.Len(t, snap.Requests, 1)
	assert.Contains(t, logs.String(), `"document":"comments"`)
	assert.Contains(t, logs.String(), `"document":"bans"`)
}

func TestDecodeNullCollections(t *testing.T) {
	snap := Decode(map[string][]byte{
		DocUsers: []byte("null"),
		DocBans:  []byte(`{"banned": null}`),
	}, testutil.NopLogger())
	assert.NotNil(t, snap.Users)
	assert.NotNil(t, snap.Ledger.Banned)
	assert.NotNil(t, snap.Ledger.Violations)
}
