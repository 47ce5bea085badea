// Package store provides the durable artifact ledger backing the
// generated-artifact sink. Uses SQLite with WAL mode.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Ledger records emitted artifacts, keyed by descriptor identity.
// Each Open starts a new session; an artifact emitted twice (in any
// session) is silently ignored, which makes emission write-once per
// descriptor ID.
type Ledger struct {
	db      *sql.DB
	session string
	seq     int64
}

// Open creates or opens a ledger database at the given path and starts
// a new session.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	l := &Ledger{db: db, session: uuid.Must(uuid.NewV7()).String()}
	if err := l.beginSession(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// SessionID returns the UUIDv7 identity of the current session.
func (l *Ledger) SessionID() string {
	return l.session
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *Ledger) beginSession() error {
	var last sql.NullInt64
	if err := l.db.QueryRow(`SELECT MAX(seq) FROM sessions`).Scan(&last); err != nil {
		return fmt.Errorf("reading session counter: %w", err)
	}
	_, err := l.db.Exec(`INSERT INTO sessions (id, seq) VALUES (?, ?)`, l.session, last.Int64+1)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
