package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// UpsertAccount creates or refreshes an account keyed by email and
// returns it. Called at startup for every configured account.
func (s *Store) UpsertAccount(ctx context.Context, email, displayName, token string) (models.User, error) {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO users (email, display_name, api_token)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			display_name = excluded.display_name,
			api_token    = excluded.api_token
	`, email, displayName, token)
	if err != nil {
		return models.User{}, fmt.Errorf("store: upsert account: %w", err)
	}

	var u models.User
	err = s.conn.QueryRowContext(ctx, `
		SELECT id, email, display_name FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.DisplayName)
	if err != nil {
		return models.User{}, fmt.Errorf("store: read account: %w", err)
	}
	return u, nil
}

// AccountByToken resolves an API token to its account.
func (s *Store) AccountByToken(ctx context.Context, token string) (models.User, error) {
	var u models.User
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, email, display_name FROM users WHERE api_token = ?
	`, token).Scan(&u.ID, &u.Email, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("store: account by token: %w", err)
	}
	return u, nil
}

// AccountByEmail resolves an email to its account.
func (s *Store) AccountByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, email, display_name FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("store: account by email: %w", err)
	}
	return u, nil
}
