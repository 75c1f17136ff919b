package database

import (
	"fmt"
	"strings"
	"time"
)

// Dialect selects the SQL driver and placeholder style
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts a case-insensitive dialect name
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case DialectSQLite, "":
		return DialectSQLite, nil
	case DialectPostgres:
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database dialect %q", s)
	}
}

// Config holds database connection settings
type Config struct {
	Dialect Dialect
	// DSN is a file path for sqlite or a connection URL for postgres
	DSN string

	ConnectTimeout time.Duration
}

// DefaultConfig returns a sqlite database under the storage directory
func DefaultConfig() Config {
	return Config{
		Dialect:        DialectSQLite,
		DSN:            "storage/nightshift.sqlite",
		ConnectTimeout: 10 * time.Second,
	}
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}
