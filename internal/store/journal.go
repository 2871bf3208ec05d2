package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// JournalParams carries the caller-supplied fields for a journal entry.
type JournalParams struct {
	Title   string
	Content string
	Date    string
	Tags    string
}

// JournalPatch carries a partial update; nil fields keep their value.
type JournalPatch struct {
	Title   *string
	Content *string
	Date    *string
	Tags    *string
}

// CreateJournalEntry adds an entry to a contact. Date defaults to today.
func (s *Store) CreateJournalEntry(ctx context.Context, userID, contactID int64, p JournalParams) (models.JournalEntry, error) {
	c, err := contactForUser(ctx, s.conn, userID, contactID)
	if err != nil {
		return models.JournalEntry{}, err
	}
	date := p.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO journal_entries (contact_id, title, content, date, tags)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, p.Title, p.Content, date, p.Tags)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("store: insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("store: journal entry id: %w", err)
	}
	return getJournalEntry(ctx, s.conn, id)
}

// GetJournalEntry returns one entry owned (via its contact) by the account.
func (s *Store) GetJournalEntry(ctx context.Context, userID, entryID int64) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := s.conn.QueryRowContext(ctx, `
		SELECT j.id, j.contact_id, j.title, j.content, j.date, j.tags, j.created_at, j.updated_at
		FROM journal_entries j
		JOIN contacts c ON c.id = j.contact_id
		WHERE j.id = ? AND c.user_id = ?
	`, entryID, userID).Scan(&e.ID, &e.ContactID, &e.Title, &e.Content, &e.Date, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JournalEntry{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("store: get journal entry: %w", err)
	}
	return e, nil
}

// ListJournalEntries returns a contact's entries, newest first.
// limit <= 0 means no limit.
func (s *Store) ListJournalEntries(ctx context.Context, userID, contactID int64, limit int) ([]models.JournalEntry, error) {
	if _, err := contactForUser(ctx, s.conn, userID, contactID); err != nil {
		return nil, err
	}
	return listJournalEntries(ctx, s.conn, contactID, limit)
}

func listJournalEntries(ctx context.Context, q querier, contactID int64, limit int) ([]models.JournalEntry, error) {
	query := `
		SELECT id, contact_id, title, content, date, tags, created_at, updated_at
		FROM journal_entries
		WHERE contact_id = ?
		ORDER BY date DESC, created_at DESC`
	args := []any{contactID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list journal entries: %w", err)
	}
	defer rows.Close()

	out := []models.JournalEntry{}
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.ContactID, &e.Title, &e.Content, &e.Date,
			&e.Tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func getJournalEntry(ctx context.Context, q querier, id int64) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := q.QueryRowContext(ctx, `
		SELECT id, contact_id, title, content, date, tags, created_at, updated_at
		FROM journal_entries WHERE id = ?
	`, id).Scan(&e.ID, &e.ContactID, &e.Title, &e.Content, &e.Date, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("store: read journal entry: %w", err)
	}
	return e, nil
}

// UpdateJournalEntry applies a partial update.
func (s *Store) UpdateJournalEntry(ctx context.Context, userID, entryID int64, p JournalPatch) (models.JournalEntry, error) {
	e, err := s.GetJournalEntry(ctx, userID, entryID)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	_, err = s.conn.ExecContext(ctx, `
		UPDATE journal_entries
		SET title = ?, content = ?, date = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, e.Title, e.Content, e.Date, e.Tags, e.ID)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("store: update journal entry: %w", err)
	}
	return getJournalEntry(ctx, s.conn, e.ID)
}

// DeleteJournalEntry removes one entry.
func (s *Store) DeleteJournalEntry(ctx context.Context, userID, entryID int64) error {
	e, err := s.GetJournalEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, e.ID); err != nil {
		return fmt.Errorf("store: delete journal entry: %w", err)
	}
	return nil
}
