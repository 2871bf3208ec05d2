package store

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/othala/internal/snapshot"
)

// The methods in this file run inside one transaction held by the
// import/export engine, so a snapshot can never span two states of the
// store and an import is all-or-nothing.

// AccountContacts reads every contact of the account for export.
func (t *Tx) AccountContacts(ctx context.Context, userID int64) ([]snapshot.Contact, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, first_name, last_name, nickname, email, phone, address,
		       birthday, notes, avatar_url, created_at, updated_at
		FROM contacts WHERE user_id = ? ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: export contacts: %w", err)
	}
	defer rows.Close()

	out := []snapshot.Contact{}
	for rows.Next() {
		var c snapshot.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Nickname, &c.Email,
			&c.Phone, &c.Address, &c.Birthday, &c.Notes, &c.AvatarURL,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AccountRelationships reads every stored edge of the account for export.
func (t *Tx) AccountRelationships(ctx context.Context, userID int64) ([]snapshot.Relationship, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT r.id, r.contact_id, r.related_contact_id, r.relationship_type,
		       r.category, r.notes, r.created_at
		FROM relationships r
		JOIN contacts c ON c.id = r.contact_id
		WHERE c.user_id = ? ORDER BY r.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: export relationships: %w", err)
	}
	defer rows.Close()

	out := []snapshot.Relationship{}
	for rows.Next() {
		var r snapshot.Relationship
		if err := rows.Scan(&r.ID, &r.ContactID, &r.RelatedContactID, &r.Type,
			&r.Category, &r.Notes, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AccountJournalEntries reads every journal entry of the account for export.
func (t *Tx) AccountJournalEntries(ctx context.Context, userID int64) ([]snapshot.JournalEntry, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT j.id, j.contact_id, j.title, j.content, j.date, j.tags, j.created_at, j.updated_at
		FROM journal_entries j
		JOIN contacts c ON c.id = j.contact_id
		WHERE c.user_id = ? ORDER BY j.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: export journal entries: %w", err)
	}
	defer rows.Close()

	out := []snapshot.JournalEntry{}
	for rows.Next() {
		var e snapshot.JournalEntry
		if err := rows.Scan(&e.ID, &e.ContactID, &e.Title, &e.Content, &e.Date,
			&e.Tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AccountBusinessRecords reads every business record of the account for export.
func (t *Tx) AccountBusinessRecords(ctx context.Context, userID int64) ([]snapshot.BusinessRecord, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT b.id, b.contact_id, b.company, b.title, b.department, b.work_email,
		       b.work_phone, b.linkedin, b.notes, b.is_current, b.start_date, b.end_date,
		       b.created_at, b.updated_at
		FROM business_info b
		JOIN contacts c ON c.id = b.contact_id
		WHERE c.user_id = ? ORDER BY b.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: export business records: %w", err)
	}
	defer rows.Close()

	out := []snapshot.BusinessRecord{}
	for rows.Next() {
		var b snapshot.BusinessRecord
		if err := rows.Scan(&b.ID, &b.ContactID, &b.Company, &b.Title, &b.Department,
			&b.WorkEmail, &b.WorkPhone, &b.LinkedIn, &b.Notes, &b.IsCurrent,
			&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AccountCustomFields reads every custom field of the account for export.
func (t *Tx) AccountCustomFields(ctx context.Context, userID int64) ([]snapshot.CustomField, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT f.id, f.contact_id, f.field_name, f.field_value, f.field_type, f.created_at, f.updated_at
		FROM custom_fields f
		JOIN contacts c ON c.id = f.contact_id
		WHERE c.user_id = ? ORDER BY f.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: export custom fields: %w", err)
	}
	defer rows.Close()

	out := []snapshot.CustomField{}
	for rows.Next() {
		var f snapshot.CustomField
		if err := rows.Scan(&f.ID, &f.ContactID, &f.FieldName, &f.FieldValue,
			&f.FieldType, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CSVContacts reads the account's contacts in CSV-export shape, with
// current company/title joined from business records flagged active.
func (t *Tx) CSVContacts(ctx context.Context, userID int64) ([]snapshot.CSVContact, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT c.first_name, c.last_name, c.nickname, c.email, c.phone, c.address,
		       c.birthday, c.notes,
		       COALESCE((SELECT GROUP_CONCAT(company, '; ') FROM business_info
		                 WHERE contact_id = c.id AND is_current = 1 AND company <> ''), ''),
		       COALESCE((SELECT GROUP_CONCAT(title, '; ') FROM business_info
		                 WHERE contact_id = c.id AND is_current = 1 AND title <> ''), ''),
		       c.created_at
		FROM contacts c
		WHERE c.user_id = ?
		ORDER BY c.first_name, c.last_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: export csv contacts: %w", err)
	}
	defer rows.Close()

	out := []snapshot.CSVContact{}
	for rows.Next() {
		var r snapshot.CSVContact
		if err := rows.Scan(&r.FirstName, &r.LastName, &r.Nickname, &r.Email, &r.Phone,
			&r.Address, &r.Birthday, &r.Notes, &r.CurrentCompany, &r.CurrentTitle,
			&r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteAccountData wipes everything the account owns, child tables
// first (custom fields, business records, journal entries,
// relationships, contacts). The explicit order keeps the wipe correct
// even on databases created before the cascade constraints existed.
func (t *Tx) DeleteAccountData(ctx context.Context, userID int64) error {
	for _, stmt := range []string{
		`DELETE FROM custom_fields WHERE contact_id IN (SELECT id FROM contacts WHERE user_id = ?)`,
		`DELETE FROM business_info WHERE contact_id IN (SELECT id FROM contacts WHERE user_id = ?)`,
		`DELETE FROM journal_entries WHERE contact_id IN (SELECT id FROM contacts WHERE user_id = ?)`,
		`DELETE FROM relationships WHERE contact_id IN (SELECT id FROM contacts WHERE user_id = ?)`,
		`DELETE FROM contacts WHERE user_id = ?`,
	} {
		if _, err := t.tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("store: wipe account data: %w", err)
		}
	}
	return nil
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// InsertContact inserts an imported contact under the account and
// returns its new identifier. Empty timestamps default to now.
func (t *Tx) InsertContact(ctx context.Context, userID int64, c snapshot.Contact) (int64, error) {
	created := c.CreatedAt
	if created == "" {
		created = nowISO()
	}
	updated := c.UpdatedAt
	if updated == "" {
		updated = nowISO()
	}
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO contacts (user_id, first_name, last_name, nickname, email, phone,
		                      address, birthday, notes, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, c.FirstName, c.LastName, c.Nickname, c.Email, c.Phone,
		c.Address, c.Birthday, c.Notes, c.AvatarURL, created, updated)
	if err != nil {
		return 0, fmt.Errorf("store: import contact: %w", err)
	}
	return res.LastInsertId()
}

// InsertJournalEntry inserts an imported journal entry under a contact.
func (t *Tx) InsertJournalEntry(ctx context.Context, contactID int64, e snapshot.JournalEntry) error {
	created := e.CreatedAt
	if created == "" {
		created = nowISO()
	}
	updated := e.UpdatedAt
	if updated == "" {
		updated = nowISO()
	}
	date := e.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO journal_entries (contact_id, title, content, date, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, contactID, e.Title, e.Content, date, e.Tags, created, updated)
	if err != nil {
		return fmt.Errorf("store: import journal entry: %w", err)
	}
	return nil
}

// InsertBusinessRecord inserts an imported business record under a contact.
func (t *Tx) InsertBusinessRecord(ctx context.Context, contactID int64, b snapshot.BusinessRecord) error {
	created := b.CreatedAt
	if created == "" {
		created = nowISO()
	}
	updated := b.UpdatedAt
	if updated == "" {
		updated = nowISO()
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO business_info (contact_id, company, title, department, work_email, work_phone,
		                           linkedin, notes, is_current, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contactID, b.Company, b.Title, b.Department, b.WorkEmail, b.WorkPhone,
		b.LinkedIn, b.Notes, b.IsCurrent, b.StartDate, b.EndDate, created, updated)
	if err != nil {
		return fmt.Errorf("store: import business record: %w", err)
	}
	return nil
}

// InsertCustomField inserts an imported custom field under a contact.
func (t *Tx) InsertCustomField(ctx context.Context, contactID int64, f snapshot.CustomField) error {
	created := f.CreatedAt
	if created == "" {
		created = nowISO()
	}
	updated := f.UpdatedAt
	if updated == "" {
		updated = nowISO()
	}
	fieldType := f.FieldType
	if fieldType == "" {
		fieldType = "text"
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO custom_fields (contact_id, field_name, field_value, field_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, contactID, f.FieldName, f.FieldValue, fieldType, created, updated)
	if err != nil {
		return fmt.Errorf("store: import custom field: %w", err)
	}
	return nil
}
