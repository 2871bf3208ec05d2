package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// FieldParams carries the caller-supplied fields for a custom field.
type FieldParams struct {
	FieldName  string
	FieldValue string
	FieldType  string
}

// FieldPatch carries a partial update; nil fields keep their value.
type FieldPatch struct {
	FieldName  *string
	FieldValue *string
	FieldType  *string
}

// CreateCustomField attaches a custom field to a contact.
func (s *Store) CreateCustomField(ctx context.Context, userID, contactID int64, p FieldParams) (models.CustomField, error) {
	if strings.TrimSpace(p.FieldName) == "" {
		return models.CustomField{}, fmt.Errorf("%w: field name is required", apperr.ErrValidation)
	}
	c, err := contactForUser(ctx, s.conn, userID, contactID)
	if err != nil {
		return models.CustomField{}, err
	}
	fieldType := p.FieldType
	if fieldType == "" {
		fieldType = "text"
	}
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO custom_fields (contact_id, field_name, field_value, field_type)
		VALUES (?, ?, ?, ?)
	`, c.ID, p.FieldName, p.FieldValue, fieldType)
	if err != nil {
		return models.CustomField{}, fmt.Errorf("store: insert custom field: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.CustomField{}, fmt.Errorf("store: custom field id: %w", err)
	}
	return getCustomField(ctx, s.conn, id)
}

// GetCustomField returns one field owned (via its contact) by the account.
func (s *Store) GetCustomField(ctx context.Context, userID, fieldID int64) (models.CustomField, error) {
	var f models.CustomField
	err := s.conn.QueryRowContext(ctx, `
		SELECT f.id, f.contact_id, f.field_name, f.field_value, f.field_type, f.created_at, f.updated_at
		FROM custom_fields f
		JOIN contacts c ON c.id = f.contact_id
		WHERE f.id = ? AND c.user_id = ?
	`, fieldID, userID).Scan(&f.ID, &f.ContactID, &f.FieldName, &f.FieldValue,
		&f.FieldType, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CustomField{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.CustomField{}, fmt.Errorf("store: get custom field: %w", err)
	}
	return f, nil
}

// ListCustomFields returns a contact's custom fields.
func (s *Store) ListCustomFields(ctx context.Context, userID, contactID int64) ([]models.CustomField, error) {
	if _, err := contactForUser(ctx, s.conn, userID, contactID); err != nil {
		return nil, err
	}
	return listCustomFields(ctx, s.conn, contactID)
}

func listCustomFields(ctx context.Context, q querier, contactID int64) ([]models.CustomField, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, contact_id, field_name, field_value, field_type, created_at, updated_at
		FROM custom_fields WHERE contact_id = ?
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("store: list custom fields: %w", err)
	}
	defer rows.Close()

	out := []models.CustomField{}
	for rows.Next() {
		var f models.CustomField
		if err := rows.Scan(&f.ID, &f.ContactID, &f.FieldName, &f.FieldValue,
			&f.FieldType, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func getCustomField(ctx context.Context, q querier, id int64) (models.CustomField, error) {
	var f models.CustomField
	err := q.QueryRowContext(ctx, `
		SELECT id, contact_id, field_name, field_value, field_type, created_at, updated_at
		FROM custom_fields WHERE id = ?
	`, id).Scan(&f.ID, &f.ContactID, &f.FieldName, &f.FieldValue, &f.FieldType, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return models.CustomField{}, fmt.Errorf("store: read custom field: %w", err)
	}
	return f, nil
}

// UpdateCustomField applies a partial update.
func (s *Store) UpdateCustomField(ctx context.Context, userID, fieldID int64, p FieldPatch) (models.CustomField, error) {
	f, err := s.GetCustomField(ctx, userID, fieldID)
	if err != nil {
		return models.CustomField{}, err
	}
	if p.FieldName != nil {
		f.FieldName = *p.FieldName
	}
	if p.FieldValue != nil {
		f.FieldValue = *p.FieldValue
	}
	if p.FieldType != nil {
		f.FieldType = *p.FieldType
	}
	if strings.TrimSpace(f.FieldName) == "" {
		return models.CustomField{}, fmt.Errorf("%w: field name is required", apperr.ErrValidation)
	}

	_, err = s.conn.ExecContext(ctx, `
		UPDATE custom_fields
		SET field_name = ?, field_value = ?, field_type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, f.FieldName, f.FieldValue, f.FieldType, f.ID)
	if err != nil {
		return models.CustomField{}, fmt.Errorf("store: update custom field: %w", err)
	}
	return getCustomField(ctx, s.conn, f.ID)
}

// DeleteCustomField removes one field.
func (s *Store) DeleteCustomField(ctx context.Context, userID, fieldID int64) error {
	f, err := s.GetCustomField(ctx, userID, fieldID)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM custom_fields WHERE id = ?`, f.ID); err != nil {
		return fmt.Errorf("store: delete custom field: %w", err)
	}
	return nil
}
