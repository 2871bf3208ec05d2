package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st := testutil.TestStore(t)
	account := testutil.TestAccount(t, st)
	return New(st, account), st
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_contacts":
		result, err = srv.searchContacts(ctx, req)
	case "get_contact":
		result, err = srv.getContact(ctx, req)
	case "list_contacts":
		result, err = srv.listContacts(ctx, req)
	case "list_relationships":
		result, err = srv.listRelationships(ctx, req)
	case "create_journal_entry":
		result, err = srv.createJournalEntry(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedContact(t *testing.T, srv *Server, st *store.Store, firstName string) int64 {
	t.Helper()
	c, err := st.CreateContact(context.Background(), srv.account.ID, store.ContactParams{FirstName: firstName})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	return c.ID
}

func TestListAndGetContact(t *testing.T) {
	srv, st := testServer(t)
	id := seedContact(t, srv, st, "Marie")

	r := callTool(t, srv, "list_contacts", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Marie") {
		t.Errorf("list output = %q", resultText(r))
	}

	r = callTool(t, srv, "get_contact", map[string]interface{}{"id": float64(id)})
	if r.IsError {
		t.Fatalf("get_contact error: %q", resultText(r))
	}
	if !strings.Contains(resultText(r), "Marie") {
		t.Errorf("get output = %q", resultText(r))
	}
}

func TestGetContactMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_contact", map[string]interface{}{"id": float64(999)})
	if !r.IsError {
		t.Error("expected error for missing contact")
	}
}

func TestSearchContacts(t *testing.T) {
	srv, st := testServer(t)
	seedContact(t, srv, st, "Zelda")

	r := callTool(t, srv, "search_contacts", map[string]interface{}{"query": "zel"})
	if r.IsError {
		t.Fatalf("search error: %q", resultText(r))
	}
	if !strings.Contains(resultText(r), "Zelda") {
		t.Errorf("search output = %q", resultText(r))
	}
}

func TestListRelationshipsInferred(t *testing.T) {
	srv, st := testServer(t)
	parent := seedContact(t, srv, st, "Marie")
	child := seedContact(t, srv, st, "Irene")

	if _, err := st.AddRelationship(context.Background(), srv.account.ID, store.RelationshipParams{
		ContactID:        parent,
		RelatedContactID: child,
		Type:             "parent",
	}); err != nil {
		t.Fatalf("AddRelationship: %v", err)
	}

	r := callTool(t, srv, "list_relationships", map[string]interface{}{"contact_id": float64(child)})
	text := resultText(r)
	if !strings.Contains(text, `"child"`) {
		t.Errorf("inferred type missing from %q", text)
	}
}

func TestCreateJournalEntry(t *testing.T) {
	srv, st := testServer(t)
	id := seedContact(t, srv, st, "Journaled")

	r := callTool(t, srv, "create_journal_entry", map[string]interface{}{
		"contact_id": float64(id),
		"content":    "Caught up over coffee.",
	})
	if r.IsError {
		t.Fatalf("create error: %q", resultText(r))
	}

	entries, err := st.ListJournalEntries(context.Background(), srv.account.ID, id, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Content != "Caught up over coffee." {
		t.Errorf("entries = %+v", entries)
	}
}

func TestCreateJournalEntryMissingContent(t *testing.T) {
	srv, st := testServer(t)
	id := seedContact(t, srv, st, "Quiet")

	r := callTool(t, srv, "create_journal_entry", map[string]interface{}{
		"contact_id": float64(id),
	})
	if !r.IsError {
		t.Error("expected error when content is missing")
	}
}
