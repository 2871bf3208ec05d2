// Package api implements the Othala REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/store"
)

type ctxKey int

const accountKey ctxKey = iota

// AuthMiddleware returns middleware that resolves a Bearer token to its
// account and injects it into the request context. Requests without a
// valid token are rejected. Token-to-account resolution is the entire
// authentication boundary; everything past it is keyed by account id.
func AuthMiddleware(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			account, err := st.AccountByToken(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), accountKey, account)))
		})
	}
}

// accountFrom returns the authenticated account set by AuthMiddleware.
func accountFrom(r *http.Request) models.User {
	u, _ := r.Context().Value(accountKey).(models.User)
	return u
}
