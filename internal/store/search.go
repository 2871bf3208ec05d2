package store

import (
	"context"
	"fmt"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// JournalHit is a journal search result with the contact's name attached.
type JournalHit struct {
	models.JournalEntry
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// BusinessHit is a business search result with the contact's name attached.
type BusinessHit struct {
	models.BusinessRecord
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// SearchResults groups hits per record kind.
type SearchResults struct {
	Contacts        []models.Contact `json:"contacts"`
	JournalEntries  []JournalHit     `json:"journalEntries"`
	BusinessRecords []BusinessHit    `json:"businessInfo"`
}

// Search runs a substring search across the account's contacts, journal
// entries, and business records. The per-person dataset is small, so a
// LIKE scan over a handful of columns is the whole engine.
func (s *Store) Search(ctx context.Context, userID int64, query string, limit int) (*SearchResults, error) {
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", apperr.ErrValidation)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	like := "%" + query + "%"
	out := &SearchResults{
		Contacts:        []models.Contact{},
		JournalEntries:  []JournalHit{},
		BusinessRecords: []BusinessHit{},
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, first_name, last_name, nickname, email, phone, address,
		       birthday, notes, avatar_url, created_at, updated_at
		FROM contacts
		WHERE user_id = ?
		  AND (first_name LIKE ? OR last_name LIKE ? OR nickname LIKE ?
		       OR email LIKE ? OR notes LIKE ?)
		LIMIT ?
	`, userID, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search contacts: %w", err)
	}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Nickname, &c.Email,
			&c.Phone, &c.Address, &c.Birthday, &c.Notes, &c.AvatarURL,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out.Contacts = append(out.Contacts, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.conn.QueryContext(ctx, `
		SELECT j.id, j.contact_id, j.title, j.content, j.date, j.tags,
		       j.created_at, j.updated_at, c.first_name, c.last_name
		FROM journal_entries j
		JOIN contacts c ON c.id = j.contact_id
		WHERE c.user_id = ? AND (j.title LIKE ? OR j.content LIKE ? OR j.tags LIKE ?)
		ORDER BY j.date DESC
		LIMIT ?
	`, userID, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search journal: %w", err)
	}
	for rows.Next() {
		var h JournalHit
		if err := rows.Scan(&h.ID, &h.ContactID, &h.Title, &h.Content, &h.Date,
			&h.Tags, &h.CreatedAt, &h.UpdatedAt, &h.FirstName, &h.LastName); err != nil {
			rows.Close()
			return nil, err
		}
		out.JournalEntries = append(out.JournalEntries, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.conn.QueryContext(ctx, `
		SELECT b.id, b.contact_id, b.company, b.title, b.department, b.work_email,
		       b.work_phone, b.linkedin, b.notes, b.is_current, b.start_date, b.end_date,
		       b.created_at, b.updated_at, c.first_name, c.last_name
		FROM business_info b
		JOIN contacts c ON c.id = b.contact_id
		WHERE c.user_id = ? AND (b.company LIKE ? OR b.title LIKE ? OR b.department LIKE ?)
		LIMIT ?
	`, userID, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search business: %w", err)
	}
	for rows.Next() {
		var h BusinessHit
		if err := rows.Scan(&h.ID, &h.ContactID, &h.Company, &h.Title, &h.Department,
			&h.WorkEmail, &h.WorkPhone, &h.LinkedIn, &h.Notes, &h.IsCurrent,
			&h.StartDate, &h.EndDate, &h.CreatedAt, &h.UpdatedAt,
			&h.FirstName, &h.LastName); err != nil {
			rows.Close()
			return nil, err
		}
		out.BusinessRecords = append(out.BusinessRecords, h)
	}
	rows.Close()
	return out, rows.Err()
}
