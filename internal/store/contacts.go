package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// ContactParams carries the caller-supplied fields for a new contact.
type ContactParams struct {
	FirstName string
	LastName  string
	Nickname  string
	Email     string
	Phone     string
	Address   string
	Birthday  string
	Notes     string
	AvatarURL string
}

// ContactPatch carries a partial update; nil fields keep their value.
type ContactPatch struct {
	FirstName *string
	LastName  *string
	Nickname  *string
	Email     *string
	Phone     *string
	Address   *string
	Birthday  *string
	Notes     *string
	AvatarURL *string
}

// Stats summarizes an account's record counts.
type Stats struct {
	Contacts        int `json:"contacts"`
	Relationships   int `json:"relationships"`
	JournalEntries  int `json:"journalEntries"`
	BusinessRecords int `json:"businessRecords"`
}

// CreateContact inserts a new contact under the account.
func (s *Store) CreateContact(ctx context.Context, userID int64, p ContactParams) (models.Contact, error) {
	if strings.TrimSpace(p.FirstName) == "" {
		return models.Contact{}, fmt.Errorf("%w: first name is required", apperr.ErrValidation)
	}
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO contacts (user_id, first_name, last_name, nickname, email,
		                      phone, address, birthday, notes, avatar_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, p.FirstName, p.LastName, p.Nickname, p.Email,
		p.Phone, p.Address, p.Birthday, p.Notes, p.AvatarURL)
	if err != nil {
		return models.Contact{}, fmt.Errorf("store: insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Contact{}, fmt.Errorf("store: contact id: %w", err)
	}
	return contactForUser(ctx, s.conn, userID, id)
}

// GetContact returns a single contact owned by the account.
func (s *Store) GetContact(ctx context.Context, userID, contactID int64) (models.Contact, error) {
	return contactForUser(ctx, s.conn, userID, contactID)
}

// ListContacts returns a page of the account's contacts ordered by
// name, with an optional name/nickname/email filter, plus the total.
func (s *Store) ListContacts(ctx context.Context, userID int64, limit, offset int, search string) ([]models.Contact, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := `user_id = ?`
	args := []any{userID}
	if search != "" {
		like := "%" + search + "%"
		where += ` AND (first_name LIKE ? OR last_name LIKE ? OR nickname LIKE ? OR email LIKE ?)`
		args = append(args, like, like, like, like)
	}

	var total int
	if err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count contacts: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, first_name, last_name, nickname, email, phone, address,
		       birthday, notes, avatar_url, created_at, updated_at
		FROM contacts WHERE `+where+`
		ORDER BY first_name COLLATE NOCASE, last_name COLLATE NOCASE
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list contacts: %w", err)
	}
	defer rows.Close()

	out := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Nickname, &c.Email,
			&c.Phone, &c.Address, &c.Birthday, &c.Notes, &c.AvatarURL,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// ContactDetail returns a contact enriched with its bidirectional
// relationship view, its ten most recent journal entries, business
// records, and custom fields.
func (s *Store) ContactDetail(ctx context.Context, userID, contactID int64) (*models.ContactDetail, error) {
	c, err := contactForUser(ctx, s.conn, userID, contactID)
	if err != nil {
		return nil, err
	}

	rels, err := listRelationships(ctx, s.conn, contactID)
	if err != nil {
		return nil, err
	}
	entries, err := listJournalEntries(ctx, s.conn, contactID, 10)
	if err != nil {
		return nil, err
	}
	business, err := listBusinessRecords(ctx, s.conn, contactID)
	if err != nil {
		return nil, err
	}
	fields, err := listCustomFields(ctx, s.conn, contactID)
	if err != nil {
		return nil, err
	}

	return &models.ContactDetail{
		Contact:         c,
		Relationships:   rels,
		JournalEntries:  entries,
		BusinessRecords: business,
		CustomFields:    fields,
	}, nil
}

// UpdateContact applies a partial update to a contact.
func (s *Store) UpdateContact(ctx context.Context, userID, contactID int64, p ContactPatch) (models.Contact, error) {
	c, err := contactForUser(ctx, s.conn, userID, contactID)
	if err != nil {
		return models.Contact{}, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&c.FirstName, p.FirstName)
	apply(&c.LastName, p.LastName)
	apply(&c.Nickname, p.Nickname)
	apply(&c.Email, p.Email)
	apply(&c.Phone, p.Phone)
	apply(&c.Address, p.Address)
	apply(&c.Birthday, p.Birthday)
	apply(&c.Notes, p.Notes)
	apply(&c.AvatarURL, p.AvatarURL)

	if strings.TrimSpace(c.FirstName) == "" {
		return models.Contact{}, fmt.Errorf("%w: first name is required", apperr.ErrValidation)
	}

	_, err = s.conn.ExecContext(ctx, `
		UPDATE contacts
		SET first_name = ?, last_name = ?, nickname = ?, email = ?, phone = ?,
		    address = ?, birthday = ?, notes = ?, avatar_url = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, c.FirstName, c.LastName, c.Nickname, c.Email, c.Phone,
		c.Address, c.Birthday, c.Notes, c.AvatarURL, c.ID)
	if err != nil {
		return models.Contact{}, fmt.Errorf("store: update contact: %w", err)
	}
	return contactForUser(ctx, s.conn, userID, contactID)
}

// DeleteContact removes a contact. Foreign keys cascade the delete to
// every relationship touching it and every record it owns.
func (s *Store) DeleteContact(ctx context.Context, userID, contactID int64) error {
	c, err := contactForUser(ctx, s.conn, userID, contactID)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, c.ID); err != nil {
		return fmt.Errorf("store: delete contact: %w", err)
	}
	return nil
}

// Stats returns record counts for the account.
func (s *Store) Stats(ctx context.Context, userID int64) (Stats, error) {
	var st Stats
	err := s.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM contacts WHERE user_id = ?),
			(SELECT COUNT(*) FROM relationships r JOIN contacts c ON c.id = r.contact_id WHERE c.user_id = ?),
			(SELECT COUNT(*) FROM journal_entries j JOIN contacts c ON c.id = j.contact_id WHERE c.user_id = ?),
			(SELECT COUNT(*) FROM business_info b JOIN contacts c ON c.id = b.contact_id WHERE c.user_id = ?)
	`, userID, userID, userID, userID).Scan(
		&st.Contacts, &st.Relationships, &st.JournalEntries, &st.BusinessRecords)
	if err != nil {
		return Stats{}, fmt.Errorf("store: stats: %w", err)
	}
	return st, nil
}
