package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Storage keeps each JSON document as one row of the documents table
type Storage struct {
	dialect Dialect
	db      *sql.DB
	logger  *slog.Logger
}

// New opens the database, verifies connectivity and applies pending migrations
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	if cfg.Dialect == DialectSQLite {
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s storage requires a DSN", cfg.Dialect)
	}

	db, err := sql.Open(cfg.Dialect.driverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Dialect, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConfig().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Dialect, err)
	}

	s := &Storage{
		dialect: cfg.Dialect,
		db:      db,
		logger:  logger.With(slog.String("component", "database_storage"), slog.String("dialect", string(cfg.Dialect))),
	}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) bind(pos int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}

func (s *Storage) applyMigrations(ctx context.Context) error {
	create := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan schema migration: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate schema migrations: %w", err)
	}
	rows.Close()

	files, err := fs.Glob(migrationFS, fmt.Sprintf("migrations/%s/*.sql", s.dialect))
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		version := filepath.Base(file)
		if applied[version] {
			continue
		}
		body, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration tx %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		q := fmt.Sprintf("INSERT INTO schema_migrations (version, applied_at) VALUES (%s, %s)", s.bind(1), s.bind(2))
		if _, err := tx.ExecContext(ctx, q, version, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
		s.logger.Info("applied migration", slog.String("version", version))
	}
	return nil
}

func (s *Storage) Load(ctx context.Context) (*model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, body FROM documents")
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[string][]byte)
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs[name] = []byte(body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return storage.Decode(docs, s.logger), nil
}

func (s *Storage) Save(ctx context.Context, snap *model.Snapshot) error {
	docs, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}

	q := fmt.Sprintf(
		"INSERT INTO documents (name, body, updated_at) VALUES (%s, %s, %s) "+
			"ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at",
		s.bind(1), s.bind(2), s.bind(3),
	)
	now := time.Now().UTC()
	for _, name := range storage.Documents {
		if _, err := tx.ExecContext(ctx, q, name, string(docs[name]), now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}

// Document returns the stored body of a single document
func (s *Storage) Document(ctx context.Context, name string) (string, error) {
	var body string
	q := fmt.Sprintf("SELECT body FROM documents WHERE name = %s", s.bind(1))
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&body); err != nil {
		return "", err
	}
	return body, nil
}
