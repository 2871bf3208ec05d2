package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// BusinessParams carries the caller-supplied fields for a business record.
type BusinessParams struct {
	Company    string
	Title      string
	Department string
	WorkEmail  string
	WorkPhone  string
	LinkedIn   string
	Notes      string
	IsCurrent  *bool // nil defaults to true
	StartDate  string
	EndDate    string
}

// BusinessPatch carries a partial update; nil fields keep their value.
type BusinessPatch struct {
	Company    *string
	Title      *string
	Department *string
	WorkEmail  *string
	WorkPhone  *string
	LinkedIn   *string
	Notes      *string
	IsCurrent  *bool
	StartDate  *string
	EndDate    *string
}

// CreateBusinessRecord adds an employment record to a contact.
func (s *Store) CreateBusinessRecord(ctx context.Context, userID, contactID int64, p BusinessParams) (models.BusinessRecord, error) {
	c, err := contactForUser(ctx, s.conn, userID, contactID)
	if err != nil {
		return models.BusinessRecord{}, err
	}
	isCurrent := true
	if p.IsCurrent != nil {
		isCurrent = *p.IsCurrent
	}
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO business_info (contact_id, company, title, department, work_email,
		                           work_phone, linkedin, notes, is_current, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, p.Company, p.Title, p.Department, p.WorkEmail,
		p.WorkPhone, p.LinkedIn, p.Notes, isCurrent, p.StartDate, p.EndDate)
	if err != nil {
		return models.BusinessRecord{}, fmt.Errorf("store: insert business record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.BusinessRecord{}, fmt.Errorf("store: business record id: %w", err)
	}
	return getBusinessRecord(ctx, s.conn, id)
}

// GetBusinessRecord returns one record owned (via its contact) by the account.
func (s *Store) GetBusinessRecord(ctx context.Context, userID, recordID int64) (models.BusinessRecord, error) {
	var b models.BusinessRecord
	err := s.conn.QueryRowContext(ctx, `
		SELECT b.id, b.contact_id, b.company, b.title, b.department, b.work_email,
		       b.work_phone, b.linkedin, b.notes, b.is_current, b.start_date, b.end_date,
		       b.created_at, b.updated_at
		FROM business_info b
		JOIN contacts c ON c.id = b.contact_id
		WHERE b.id = ? AND c.user_id = ?
	`, recordID, userID).Scan(&b.ID, &b.ContactID, &b.Company, &b.Title, &b.Department,
		&b.WorkEmail, &b.WorkPhone, &b.LinkedIn, &b.Notes, &b.IsCurrent,
		&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BusinessRecord{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.BusinessRecord{}, fmt.Errorf("store: get business record: %w", err)
	}
	return b, nil
}

// ListBusinessRecords returns a contact's records, current first.
func (s *Store) ListBusinessRecords(ctx context.Context, userID, contactID int64) ([]models.BusinessRecord, error) {
	if _, err := contactForUser(ctx, s.conn, userID, contactID); err != nil {
		return nil, err
	}
	return listBusinessRecords(ctx, s.conn, contactID)
}

func listBusinessRecords(ctx context.Context, q querier, contactID int64) ([]models.BusinessRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, contact_id, company, title, department, work_email, work_phone,
		       linkedin, notes, is_current, start_date, end_date, created_at, updated_at
		FROM business_info
		WHERE contact_id = ?
		ORDER BY is_current DESC, start_date DESC
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("store: list business records: %w", err)
	}
	defer rows.Close()

	out := []models.BusinessRecord{}
	for rows.Next() {
		var b models.BusinessRecord
		if err := rows.Scan(&b.ID, &b.ContactID, &b.Company, &b.Title, &b.Department,
			&b.WorkEmail, &b.WorkPhone, &b.LinkedIn, &b.Notes, &b.IsCurrent,
			&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func getBusinessRecord(ctx context.Context, q querier, id int64) (models.BusinessRecord, error) {
	var b models.BusinessRecord
	err := q.QueryRowContext(ctx, `
		SELECT id, contact_id, company, title, department, work_email, work_phone,
		       linkedin, notes, is_current, start_date, end_date, created_at, updated_at
		FROM business_info WHERE id = ?
	`, id).Scan(&b.ID, &b.ContactID, &b.Company, &b.Title, &b.Department,
		&b.WorkEmail, &b.WorkPhone, &b.LinkedIn, &b.Notes, &b.IsCurrent,
		&b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return models.BusinessRecord{}, fmt.Errorf("store: read business record: %w", err)
	}
	return b, nil
}

// UpdateBusinessRecord applies a partial update.
func (s *Store) UpdateBusinessRecord(ctx context.Context, userID, recordID int64, p BusinessPatch) (models.BusinessRecord, error) {
	b, err := s.GetBusinessRecord(ctx, userID, recordID)
	if err != nil {
		return models.BusinessRecord{}, err
	}

	applyStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyStr(&b.Company, p.Company)
	applyStr(&b.Title, p.Title)
	applyStr(&b.Department, p.Department)
	applyStr(&b.WorkEmail, p.WorkEmail)
	applyStr(&b.WorkPhone, p.WorkPhone)
	applyStr(&b.LinkedIn, p.LinkedIn)
	applyStr(&b.Notes, p.Notes)
	applyStr(&b.StartDate, p.StartDate)
	applyStr(&b.EndDate, p.EndDate)
	if p.IsCurrent != nil {
		b.IsCurrent = *p.IsCurrent
	}

	_, err = s.conn.ExecContext(ctx, `
		UPDATE business_info
		SET company = ?, title = ?, department = ?, work_email = ?, work_phone = ?,
		    linkedin = ?, notes = ?, is_current = ?, start_date = ?, end_date = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, b.Company, b.Title, b.Department, b.WorkEmail, b.WorkPhone,
		b.LinkedIn, b.Notes, b.IsCurrent, b.StartDate, b.EndDate, b.ID)
	if err != nil {
		return models.BusinessRecord{}, fmt.Errorf("store: update business record: %w", err)
	}
	return getBusinessRecord(ctx, s.conn, b.ID)
}

// DeleteBusinessRecord removes one record.
func (s *Store) DeleteBusinessRecord(ctx context.Context, userID, recordID int64) error {
	b, err := s.GetBusinessRecord(ctx, userID, recordID)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM business_info WHERE id = ?`, b.ID); err != nil {
		return fmt.Errorf("store: delete business record: %w", err)
	}
	return nil
}
