// Package testutil provides shared test helpers for setting up stores
// and accounts.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/store"
)

var accountSeq atomic.Int64

// TestStore creates a temporary SQLite store that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "othala-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	st, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestAccount creates a fresh account with a unique email and token.
func TestAccount(t *testing.T, st *store.Store) models.User {
	t.Helper()
	n := accountSeq.Add(1)
	u, err := st.UpsertAccount(context.Background(),
		fmt.Sprintf("user%d@example.com", n),
		fmt.Sprintf("User %d", n),
		fmt.Sprintf("token-%d", n))
	if err != nil {
		t.Fatal(err)
	}
	return u
}
