package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/testutil"
)

func TestCreateContactRequiresFirstName(t *testing.T) {
	st := testutil.TestStore(t)
	u := testutil.TestAccount(t, st)

	_, err := st.CreateContact(context.Background(), u.ID, store.ContactParams{LastName: "Nobody"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestListContactsPaginationAndFilter(t *testing.T) {
	st := testutil.TestStore(t)
	u := testutil.TestAccount(t, st)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol", "Albert"} {
		mustContact(t, st, u.ID, name)
	}

	page, total, err := st.ListContacts(ctx, u.ID, 2, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || len(page) != 2 {
		t.Errorf("total = %d len = %d, want 4/2", total, len(page))
	}
	// Ordered by name: Albert before Alice.
	if page[0].FirstName != "Albert" || page[1].FirstName != "Alice" {
		t.Errorf("page order = %s, %s", page[0].FirstName, page[1].FirstName)
	}

	hits, total, err := st.ListContacts(ctx, u.ID, 50, 0, "Al")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(hits) != 2 {
		t.Errorf("filtered total = %d, want 2", total)
	}
}

func TestUpdateContactPartial(t *testing.T) {
	st := testutil.TestStore(t)
	u := testutil.TestAccount(t, st)
	ctx := context.Background()

	c, err := st.CreateContact(ctx, u.ID, store.ContactParams{FirstName: "Ada", Email: "ada@old.example"})
	if err != nil {
		t.Fatal(err)
	}

	email := "ada@new.example"
	got, err := st.UpdateContact(ctx, u.ID, c.ID, store.ContactPatch{Email: &email})
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != email {
		t.Errorf("email = %q", got.Email)
	}
	if got.FirstName != "Ada" {
		t.Errorf("first name changed by partial update: %q", got.FirstName)
	}
}

func TestContactDetailIncludesOwnedRecords(t *testing.T) {
	st := testutil.TestStore(t)
	u := testutil.TestAccount(t, st)
	ctx := context.Background()

	c := mustContact(t, st, u.ID, "Ada")
	if _, err := st.CreateJournalEntry(ctx, u.ID, c.ID, store.JournalParams{Title: "met up", Date: "2026-02-01"}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.CreateBusinessRecord(ctx, u.ID, c.ID, store.BusinessParams{Company: "Analytical Engines Ltd"}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.CreateCustomField(ctx, u.ID, c.ID, store.FieldParams{FieldName: "irc", FieldValue: "ada"}); err != nil {
		t.Fatal(err)
	}

	detail, err := st.ContactDetail(ctx, u.ID, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.JournalEntries) != 1 || detail.JournalEntries[0].Title != "met up" {
		t.Errorf("journal = %+v", detail.JournalEntries)
	}
	if len(detail.BusinessRecords) != 1 || !detail.BusinessRecords[0].IsCurrent {
		t.Errorf("business = %+v", detail.BusinessRecords)
	}
	if len(detail.CustomFields) != 1 || detail.CustomFields[0].FieldType != "text" {
		t.Errorf("fields = %+v", detail.CustomFields)
	}
}

func TestSearchScopedToAccount(t *testing.T) {
	st := testutil.TestStore(t)
	u1 := testutil.TestAccount(t, st)
	u2 := testutil.TestAccount(t, st)
	ctx := context.Background()

	mustContact(t, st, u1.ID, "Greta")
	mustContact(t, st, u2.ID, "Gretchen")

	res, err := st.Search(ctx, u1.ID, "Gret", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Contacts) != 1 || res.Contacts[0].FirstName != "Greta" {
		t.Errorf("contacts = %+v", res.Contacts)
	}

	if _, err := st.Search(ctx, u1.ID, "G", 20); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("short query err = %v, want ErrValidation", err)
	}
}
