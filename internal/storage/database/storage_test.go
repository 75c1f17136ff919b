package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
	"github.com/mcoot/nightshift/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	cfg     Config
	storage *Storage
	ctx     context.Context
}

func TestSQLiteStorageSuite(t *testing.T) {
	suite.Run(t, &StorageSuite{cfg: Config{Dialect: DialectSQLite}})
}

func TestPostgresStorageSuite(t *testing.T) {
	dsn := os.Getenv("NIGHTSHIFT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NIGHTSHIFT_TEST_POSTGRES_DSN not set")
	}
	suite.Run(t, &StorageSuite{cfg: Config{Dialect: DialectPostgres, DSN: dsn}})
}

func (s *StorageSuite) SetupTest() {
	cfg := s.cfg
	if cfg.Dialect == DialectSQLite {
		cfg.DSN = filepath.Join(s.T().TempDir(), "data", "test.sqlite")
	}

	st, err := New(cfg, testutil.NopLogger())
	s.Require().NoError(err)
	s.storage = st
	s.ctx = context.Background()

	if cfg.Dialect == DialectPostgres {
		_, err := st.db.ExecContext(s.ctx, "DELETE FROM documents")
		s.Require().NoError(err)
	}
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestLoadEmpty() {
	snap, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Users)
	s.Empty(snap.Requests)
	s.NotNil(snap.Ledger.Banned)
}

func (s *StorageSuite) TestSaveAndLoad() {
	snap := model.NewSnapshot()
	snap.Users["alice"] = &model.UserProfile{Username: "alice", MaxUnlockedNight: 2, HighScores: map[string]int{}}
	snap.Messages = append(snap.Messages, model.PrivateMessage{ID: "m1", From: "alice", To: "bob", Text: "yo", Timestamp: 5})
	snap.Ledger.Banned["eve"] = 42

	s.Require().NoError(s.storage.Save(s.ctx, snap))

	loaded, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(snap.Users, loaded.Users)
	s.Equal(snap.Messages, loaded.Messages)
	s.Equal(int64(42), loaded.Ledger.Banned["eve"])
}

func (s *StorageSuite) TestSaveReplacesDocuments() {
	snap := model.NewSnapshot()
	snap.Comments = append(snap.Comments, model.Comment{ID: "c1", Username: "a", Text: "one"})
	s.Require().NoError(s.storage.Save(s.ctx, snap))

	snap.Comments = []model.Comment{}
	s.Require().NoError(s.storage.Save(s.ctx, snap))

	body, err := s.storage.Document(s.ctx, storage.DocComments)
	s.Require().NoError(err)
	s.Equal("[]", body)
}

func (s *StorageSuite) TestMigrationsAreIdempotent() {
	s.Require().NoError(s.storage.applyMigrations(s.ctx))

	var count int
	s.Require().NoError(s.storage.db.QueryRowContext(s.ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	s.Equal(1, count)
}

func (s *StorageSuite) TestMissingDocument() {
	_, err := s.storage.Document(s.ctx, "nope")
	s.True(errors.Is(err, sql.ErrNoRows))
}

func (s *StorageSuite) TestCorruptRowIsSwallowed() {
	s.Require().NoError(s.storage.Save(s.ctx, model.NewSnapshot()))

	q := "UPDATE documents SET body = " + s.storage.bind(1) + " WHERE name = " + s.storage.bind(2)
	_, err := s.storage.db.ExecContext(s.ctx, q, "{broken", storage.DocBans)
	s.Require().NoError(err)

	loaded, err := s.storage.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded.Ledger.Banned)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("Postgres")
	if err != nil || d != DialectPostgres {
		t.Fatalf("expected postgres, got %q (%v)", d, err)
	}
	d, err = ParseDialect("")
	if err != nil || d != DialectSQLite {
		t.Fatalf("expected sqlite default, got %q (%v)", d, err)
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}
