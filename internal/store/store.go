// Package store provides the SQLite-backed record store for Othala.
// Every operation is scoped to one account; ownership checks funnel
// through contactForUser so tenant isolation lives in a single place.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	email        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	api_token    TEXT NOT NULL UNIQUE,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS contacts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL DEFAULT '',
	nickname   TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	birthday   TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);

CREATE TABLE IF NOT EXISTS relationships (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_id         INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	related_contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	relationship_type  TEXT NOT NULL,
	category           TEXT NOT NULL DEFAULT 'personal',
	notes              TEXT NOT NULL DEFAULT '',
	created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(contact_id, related_contact_id),
	CHECK(contact_id <> related_contact_id)
);

CREATE INDEX IF NOT EXISTS idx_relationships_contact ON relationships(contact_id);
CREATE INDEX IF NOT EXISTS idx_relationships_related ON relationships(related_contact_id);

CREATE TABLE IF NOT EXISTS journal_entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	date       TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_journal_contact ON journal_entries(contact_id);

CREATE TABLE IF NOT EXISTS business_info (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	company    TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	work_email TEXT NOT NULL DEFAULT '',
	work_phone TEXT NOT NULL DEFAULT '',
	linkedin   TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	is_current INTEGER NOT NULL DEFAULT 1,
	start_date TEXT NOT NULL DEFAULT '',
	end_date   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_business_contact ON business_info(contact_id);

CREATE TABLE IF NOT EXISTS custom_fields (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	contact_id  INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
	field_name  TEXT NOT NULL,
	field_value TEXT NOT NULL DEFAULT '',
	field_type  TEXT NOT NULL DEFAULT 'text',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_fields_contact ON custom_fields(contact_id);
`

// Store wraps a sql.DB with account-scoped CRM operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx so that every
// operation can run standalone or inside an explicit transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx exposes store operations bound to one transaction.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on error or panic; nothing partial is ever
// visible to a concurrent read.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// contactForUser resolves a contact id under an account. It is the one
// place tenant isolation is enforced: every write that names a contact
// id goes through here first.
func contactForUser(ctx context.Context, q querier, userID, contactID int64) (models.Contact, error) {
	var c models.Contact
	err := q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, nickname, email, phone, address,
		       birthday, notes, avatar_url, created_at, updated_at
		FROM contacts WHERE id = ? AND user_id = ?
	`, contactID, userID).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Nickname, &c.Email, &c.Phone,
		&c.Address, &c.Birthday, &c.Notes, &c.AvatarURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contact{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Contact{}, fmt.Errorf("store: resolve contact: %w", err)
	}
	return c, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
