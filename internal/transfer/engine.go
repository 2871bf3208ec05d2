// Package transfer implements the import/export engine: it serializes
// an account's entire graph to a portable snapshot and re-ingests one,
// remapping every contact reference, inside a single transaction.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/relation"
	"github.com/starford/othala/internal/snapshot"
	"github.com/starford/othala/internal/store"
)

// Import modes.
const (
	ModeMerge   = "merge"   // add snapshot records alongside existing ones
	ModeReplace = "replace" // wipe the account first, then import
)

// Engine drives snapshot export and import against the store.
type Engine struct {
	store *store.Store

	// One lock per account: concurrent imports for the same account are
	// serialized for the duration of the transaction; different
	// accounts proceed independently.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewEngine creates an import/export engine backed by the store.
func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st, locks: make(map[int64]*sync.Mutex)}
}

func (e *Engine) accountLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}

// Export reads the account's full graph into a snapshot. All five
// entity reads happen in one transaction, so a concurrent writer cannot
// produce a torn view spanning tables. The result is a complete copy,
// independent of later store mutations.
func (e *Engine) Export(ctx context.Context, account models.User) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{
		Version:    snapshot.FormatVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		User: snapshot.Identity{
			Email:       account.Email,
			DisplayName: account.DisplayName,
		},
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if snap.Data.Contacts, err = tx.AccountContacts(ctx, account.ID); err != nil {
			return err
		}
		if snap.Data.Relationships, err = tx.AccountRelationships(ctx, account.ID); err != nil {
			return err
		}
		if snap.Data.JournalEntries, err = tx.AccountJournalEntries(ctx, account.ID); err != nil {
			return err
		}
		if snap.Data.BusinessInfo, err = tx.AccountBusinessRecords(ctx, account.ID); err != nil {
			return err
		}
		snap.Data.CustomFields, err = tx.AccountCustomFields(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: export: %w", err)
	}
	return snap, nil
}

// ExportJSON exports the account as snapshot JSON bytes.
func (e *Engine) ExportJSON(ctx context.Context, account models.User) ([]byte, error) {
	snap, err := e.Export(ctx, account)
	if err != nil {
		return nil, err
	}
	return snapshot.Encode(snap)
}

// ExportCSV exports the account's contacts as CSV bytes.
func (e *Engine) ExportCSV(ctx context.Context, account models.User) ([]byte, error) {
	var rows []snapshot.CSVContact
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		rows, err = tx.CSVContacts(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: export csv: %w", err)
	}
	return snapshot.EncodeCSV(rows), nil
}

// Import ingests snapshot data for the account in one atomic
// transaction and returns the number of contacts imported.
//
// In replace mode every existing record of the account is wiped first,
// child tables before parents. Contacts are then inserted in snapshot
// order with no dedup against existing rows (merge mode may create
// duplicates by design), building a transaction-local arena of
// oldID → newID. Dependent records resolve their contact references
// through the arena: a reference to a contact missing from the
// snapshot drops that record silently rather than aborting — partial
// snapshots are expected. A duplicate relationship pair is likewise
// swallowed. Any other failure rolls the whole transaction back and
// surfaces as ErrImportFailed.
func (e *Engine) Import(ctx context.Context, account models.User, data *snapshot.Data, mode string) (int, error) {
	switch mode {
	case ModeMerge, ModeReplace:
	default:
		return 0, fmt.Errorf("%w: unknown import mode %q", apperr.ErrValidation, mode)
	}
	if data == nil {
		return 0, fmt.Errorf("%w: missing data", apperr.ErrParse)
	}

	lock := e.accountLock(account.ID)
	lock.Lock()
	defer lock.Unlock()

	imported := 0
	dropped := 0
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if mode == ModeReplace {
			if err := tx.DeleteAccountData(ctx, account.ID); err != nil {
				return err
			}
		}

		// Identifier arena, local to this transaction.
		arena := make(map[int64]int64, len(data.Contacts))

		for _, c := range data.Contacts {
			if c.FirstName == "" {
				return fmt.Errorf("%w: contact %d is missing first_name", apperr.ErrValidation, c.ID)
			}
			newID, err := tx.InsertContact(ctx, account.ID, c)
			if err != nil {
				return err
			}
			arena[c.ID] = newID
		}
		imported = len(arena)

		for _, r := range data.Relationships {
			src, okSrc := arena[r.ContactID]
			dst, okDst := arena[r.RelatedContactID]
			if !okSrc || !okDst {
				// Endpoint not part of this import: the snapshot was
				// filtered or partial. Drop the edge, keep going.
				dropped++
				continue
			}
			_, err := tx.AddRelationship(ctx, account.ID, store.RelationshipParams{
				ContactID:        src,
				RelatedContactID: dst,
				Type:             relation.Type(r.Type),
				Category:         r.Category,
				Notes:            r.Notes,
			})
			if errors.Is(err, apperr.ErrConflict) {
				// Same pair twice in one snapshot, or a merge landing on
				// an existing edge. Not a failure.
				dropped++
				continue
			}
			if err != nil {
				return err
			}
		}

		for _, entry := range data.JournalEntries {
			contactID, ok := arena[entry.ContactID]
			if !ok {
				dropped++
				continue
			}
			if err := tx.InsertJournalEntry(ctx, contactID, entry); err != nil {
				return err
			}
		}

		for _, rec := range data.BusinessInfo {
			contactID, ok := arena[rec.ContactID]
			if !ok {
				dropped++
				continue
			}
			if err := tx.InsertBusinessRecord(ctx, contactID, rec); err != nil {
				return err
			}
		}

		for _, f := range data.CustomFields {
			contactID, ok := arena[f.ContactID]
			if !ok {
				dropped++
				continue
			}
			if f.FieldName == "" {
				return fmt.Errorf("%w: custom field %d is missing field_name", apperr.ErrValidation, f.ID)
			}
			if err := tx.InsertCustomField(ctx, contactID, f); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// Everything that escapes the transaction is an import failure;
		// the rollback already happened.
		return 0, fmt.Errorf("%w: %v", apperr.ErrImportFailed, err)
	}

	if dropped > 0 {
		slog.Info("import dropped records with unresolved contact references",
			slog.Int64("account_id", account.ID), slog.Int("dropped", dropped))
	}
	return imported, nil
}
