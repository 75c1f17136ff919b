package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mcoot/nightshift/internal/model"
)

// Document names
const (
	DocComments = "comments"
	DocUsers    = "users"
	DocMessages = "messages"
	DocRequests = "requests"
	DocBans     = "bans"
)

// Documents lists every document in save order
var Documents = []string{DocComments, DocUsers, DocMessages, DocRequests, DocBans}

// FileName returns the on-disk file name of a document
func FileName(doc string) string {
	return doc + ".json"
}

// Encode serializes each collection of the snapshot into its own pretty-printed document
func Encode(snap *model.Snapshot) (map[string][]byte, error) {
	values := map[string]any{
		DocComments: snap.Comments,
		DocUsers:    snap.Users,
		DocMessages: snap.Messages,
		DocRequests: snap.Requests,
		DocBans:     snap.Ledger,
	}

	docs := make(map[string][]byte, len(values))
	for _, name := range Documents {
		data, err := json.MarshalIndent(values[name], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		docs[name] = data
	}
	return docs, nil
}

// Decode builds a snapshot from whichever documents are present.
// Each document is decoded independently; a broken one is logged and left empty.
func Decode(docs map[string][]byte, logger *slog.Logger) *model.Snapshot {
	snap := model.NewSnapshot()

	targets := map[string]any{
		DocComments: &snap.Comments,
		DocUsers:    &snap.Users,
		DocMessages: &snap.Messages,
		DocRequests: &snap.Requests,
		DocBans:     &snap.Ledger,
	}

	for _, name := range Documents {
		data, ok := docs[name]
		if !ok || len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		if err := decodeInto(data, targets[name]); err != nil {
			logger.Warn("document could not be decoded, starting empty",
				slog.String("document", name),
				slog.String("error", err.Error()))
			resetCollection(snap, name)
		}
	}

	snap.Normalize()
	return snap
}

func decodeInto(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(target); err != nil {
		return err
	}
	return nil
}

// resetCollection discards anything a failed decode may have partially written
func resetCollection(snap *model.Snapshot, name string) {
	fresh := model.NewSnapshot()
	switch name {
	case DocComments:
		snap.Comments = fresh.Comments
	case DocUsers:
		snap.Users = fresh.Users
	case DocMessages:
		snap.Messages = fresh.Messages
	case DocRequests:
		snap.Requests = fresh.Requests
	case DocBans:
		snap.Ledger = fresh.Ledger
	}
}
