package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/relation"
)

// RelationshipParams carries the caller-supplied fields for a new edge.
// Category may be empty, in which case it defaults from the type table.
type RelationshipParams struct {
	ContactID        int64
	RelatedContactID int64
	Type             relation.Type
	Category         string
	Notes            string
}

// AddRelationship stores one directed edge between two contacts of the
// account. No reverse row is written; the opposite view is inferred at
// read time. Fails with ErrValidation on a self edge or empty type,
// ErrNotFound when either endpoint does not resolve under the account,
// and ErrConflict when the ordered pair already exists.
func (s *Store) AddRelationship(ctx context.Context, userID int64, p RelationshipParams) (models.Relationship, error) {
	return addRelationship(ctx, s.conn, userID, p)
}

// AddRelationship is the transactional variant used by the import engine.
func (t *Tx) AddRelationship(ctx context.Context, userID int64, p RelationshipParams) (models.Relationship, error) {
	return addRelationship(ctx, t.tx, userID, p)
}

func addRelationship(ctx context.Context, q querier, userID int64, p RelationshipParams) (models.Relationship, error) {
	if p.Type == "" {
		return models.Relationship{}, fmt.Errorf("%w: relationship type is required", apperr.ErrValidation)
	}
	if p.ContactID == p.RelatedContactID {
		return models.Relationship{}, fmt.Errorf("%w: cannot create relationship with self", apperr.ErrValidation)
	}
	if _, err := contactForUser(ctx, q, userID, p.ContactID); err != nil {
		return models.Relationship{}, err
	}
	if _, err := contactForUser(ctx, q, userID, p.RelatedContactID); err != nil {
		return models.Relationship{}, err
	}

	category := p.Category
	if category == "" {
		category = relation.DefaultCategory(p.Type)
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO relationships (contact_id, related_contact_id, relationship_type, category, notes)
		VALUES (?, ?, ?, ?, ?)
	`, p.ContactID, p.RelatedContactID, string(p.Type), category, p.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Relationship{}, fmt.Errorf("%w: relationship already exists", apperr.ErrConflict)
		}
		return models.Relationship{}, fmt.Errorf("store: insert relationship: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Relationship{}, fmt.Errorf("store: relationship id: %w", err)
	}
	return getRelationship(ctx, q, id)
}

func getRelationship(ctx context.Context, q querier, id int64) (models.Relationship, error) {
	var r models.Relationship
	err := q.QueryRowContext(ctx, `
		SELECT id, contact_id, related_contact_id, relationship_type, category, notes, created_at
		FROM relationships WHERE id = ?
	`, id).Scan(&r.ID, &r.ContactID, &r.RelatedContactID, &r.Type, &r.Category, &r.Notes, &r.CreatedAt)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("store: read relationship: %w", err)
	}
	return r, nil
}

// ListRelationships returns the bidirectional view for one contact:
// every stored edge where it is the source, unchanged, plus every edge
// where it is the target rewritten with the inverse type and swapped
// endpoints. Storage stays one row per relationship; the caller always
// sees "the other contact".
func (s *Store) ListRelationships(ctx context.Context, userID, contactID int64) ([]models.RelationshipView, error) {
	if _, err := contactForUser(ctx, s.conn, userID, contactID); err != nil {
		return nil, err
	}
	return listRelationships(ctx, s.conn, contactID)
}

func listRelationships(ctx context.Context, q querier, contactID int64) ([]models.RelationshipView, error) {
	out := []models.RelationshipView{}

	// Stored direction: contact is the source.
	rows, err := q.QueryContext(ctx, `
		SELECT r.id, r.contact_id, r.related_contact_id, r.relationship_type,
		       r.category, r.notes, r.created_at,
		       c.first_name, c.last_name, c.nickname, c.avatar_url
		FROM relationships r
		JOIN contacts c ON c.id = r.related_contact_id
		WHERE r.contact_id = ?
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("store: list relationships: %w", err)
	}
	if err := scanRelationshipViews(rows, &out, false); err != nil {
		return nil, err
	}

	// Inferred direction: contact is the target. The endpoints are
	// swapped and the type replaced by its inverse so the entry reads
	// from this contact's point of view.
	rows, err = q.QueryContext(ctx, `
		SELECT r.id, r.related_contact_id, r.contact_id, r.relationship_type,
		       r.category, r.notes, r.created_at,
		       c.first_name, c.last_name, c.nickname, c.avatar_url
		FROM relationships r
		JOIN contacts c ON c.id = r.contact_id
		WHERE r.related_contact_id = ?
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("store: list inverse relationships: %w", err)
	}
	if err := scanRelationshipViews(rows, &out, true); err != nil {
		return nil, err
	}

	return out, nil
}

func scanRelationshipViews(rows *sql.Rows, out *[]models.RelationshipView, inferred bool) error {
	defer rows.Close()
	for rows.Next() {
		var v models.RelationshipView
		if err := rows.Scan(&v.ID, &v.ContactID, &v.RelatedContactID, &v.Type,
			&v.Category, &v.Notes, &v.CreatedAt,
			&v.FirstName, &v.LastName, &v.Nickname, &v.AvatarURL); err != nil {
			return err
		}
		if inferred {
			v.Type = string(relation.Inverse(relation.Type(v.Type)))
			v.Inferred = true
		}
		*out = append(*out, v)
	}
	return rows.Err()
}

// DeleteRelationship removes exactly the stored directed row. It fails
// with ErrNotFound unless the edge's source contact belongs to the
// account. Inferred views of other edges are untouched.
func (s *Store) DeleteRelationship(ctx context.Context, userID, relationshipID int64) error {
	var id int64
	err := s.conn.QueryRowContext(ctx, `
		SELECT r.id FROM relationships r
		JOIN contacts c ON c.id = r.contact_id
		WHERE r.id = ? AND c.user_id = ?
	`, relationshipID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: resolve relationship: %w", err)
	}

	if _, err := s.conn.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete relationship: %w", err)
	}
	return nil
}
