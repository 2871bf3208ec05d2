package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/testutil"
	"github.com/starford/othala/internal/transfer"
)

type env struct {
	st      *store.Store
	router  http.Handler
	token   string
	uploads string
}

// testEnv sets up a temp SQLite store, one account, and the full router.
func testEnv(t *testing.T) *env {
	t.Helper()

	st := testutil.TestStore(t)
	if _, err := st.UpsertAccount(context.Background(), "ada@example.com", "Ada", "tok-ada"); err != nil {
		t.Fatalf("UpsertAccount: %v", err)
	}

	uploads := t.TempDir()
	router := NewRouter(st, transfer.NewEngine(st), nil, uploads)
	return &env{st: st, router: router, token: "tok-ada", uploads: uploads}
}

// do sends an authenticated JSON request through the router.
func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createContact posts a minimal contact and returns its id.
func (e *env) createContact(t *testing.T, firstName string) int64 {
	t.Helper()
	w := e.do(t, http.MethodPost, "/contacts", map[string]string{"firstName": firstName})
	if w.Code != http.StatusCreated {
		t.Fatalf("create contact = %d, body = %s", w.Code, w.Body.String())
	}
	var c models.Contact
	_ = json.Unmarshal(w.Body.Bytes(), &c)
	return c.ID
}

func TestCreateAndGetContact(t *testing.T) {
	e := testEnv(t)

	w := e.do(t, http.MethodPost, "/contacts", map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "grace@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Contact
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = e.do(t, http.MethodGet, "/contacts/"+itoa(created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var detail models.ContactDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.FirstName != "Grace" || detail.LastName != "Hopper" {
		t.Errorf("name = %q %q", detail.FirstName, detail.LastName)
	}
	if detail.Relationships == nil || detail.JournalEntries == nil {
		t.Error("detail sections should be non-nil")
	}
}

func TestCreateContact_MissingFirstName(t *testing.T) {
	e := testEnv(t)

	w := e.do(t, http.MethodPost, "/contacts", map[string]string{"lastName": "Only"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without first name = %d, want 400", w.Code)
	}
}

func TestUpdateContact_Partial(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Alan")

	w := e.do(t, http.MethodPut, "/contacts/"+itoa(id), map[string]string{"phone": "555-0100"})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
	var c models.Contact
	_ = json.Unmarshal(w.Body.Bytes(), &c)
	if c.FirstName != "Alan" {
		t.Errorf("first name clobbered: %q", c.FirstName)
	}
	if c.Phone != "555-0100" {
		t.Errorf("phone = %q", c.Phone)
	}
}

func TestDeleteContact(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Gone")

	w := e.do(t, http.MethodDelete, "/contacts/"+itoa(id), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	w = e.do(t, http.MethodGet, "/contacts/"+itoa(id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestListContacts(t *testing.T) {
	e := testEnv(t)
	e.createContact(t, "Alice")
	e.createContact(t, "Bob")

	w := e.do(t, http.MethodGet, "/contacts?limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp struct {
		Contacts []models.Contact `json:"contacts"`
		Total    int              `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Contacts) != 2 || resp.Total != 2 {
		t.Errorf("contacts = %d, total = %d, want 2/2", len(resp.Contacts), resp.Total)
	}

	w = e.do(t, http.MethodGet, "/contacts?search=ali", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Contacts) != 1 || resp.Contacts[0].FirstName != "Alice" {
		t.Errorf("filtered list = %+v", resp.Contacts)
	}
}

func TestRelationshipFlow(t *testing.T) {
	e := testEnv(t)
	parent := e.createContact(t, "Marie")
	child := e.createContact(t, "Irene")

	w := e.do(t, http.MethodPost, "/relationships/contact/"+itoa(parent), map[string]any{
		"relatedContactId": child,
		"relationshipType": "parent",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create relationship = %d, body = %s", w.Code, w.Body.String())
	}

	// Stored direction.
	w = e.do(t, http.MethodGet, "/relationships/contact/"+itoa(parent), nil)
	var resp struct {
		Relationships []models.RelationshipView `json:"relationships"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Relationships) != 1 {
		t.Fatalf("parent view = %d entries, want 1", len(resp.Relationships))
	}
	if resp.Relationships[0].Type != "parent" || resp.Relationships[0].Inferred {
		t.Errorf("stored edge = %+v", resp.Relationships[0])
	}

	// Inferred direction carries the inverse type.
	w = e.do(t, http.MethodGet, "/relationships/contact/"+itoa(child), nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Relationships) != 1 {
		t.Fatalf("child view = %d entries, want 1", len(resp.Relationships))
	}
	got := resp.Relationships[0]
	if got.Type != "child" || !got.Inferred || got.RelatedContactID != parent {
		t.Errorf("inferred edge = %+v", got)
	}

	// Duplicate edge → 409.
	w = e.do(t, http.MethodPost, "/relationships/contact/"+itoa(parent), map[string]any{
		"relatedContactId": child,
		"relationshipType": "parent",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate edge = %d, want 409", w.Code)
	}

	// Delete.
	w = e.do(t, http.MethodDelete, "/relationships/"+itoa(got.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete relationship = %d, want 204", w.Code)
	}
}

func TestRelationshipSelfEdge(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Solo")

	w := e.do(t, http.MethodPost, "/relationships/contact/"+itoa(id), map[string]any{
		"relatedContactId": id,
		"relationshipType": "friend",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("self edge = %d, want 400", w.Code)
	}
}

func TestRelationshipTypes(t *testing.T) {
	e := testEnv(t)

	w := e.do(t, http.MethodGet, "/relationships/types", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("types = %d", w.Code)
	}
	var resp struct {
		Types []map[string]string `json:"types"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Types) != 11 {
		t.Errorf("types = %d, want 11", len(resp.Types))
	}
	for _, entry := range resp.Types {
		if entry["type"] == "parent" && entry["inverse"] != "child" {
			t.Errorf("parent inverse = %q", entry["inverse"])
		}
	}
}

func TestJournalFlow(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Journaled")

	w := e.do(t, http.MethodPost, "/journal/contact/"+itoa(id), map[string]string{
		"title":   "Coffee",
		"content": "Talked about the move.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create entry = %d, body = %s", w.Code, w.Body.String())
	}
	var entry models.JournalEntry
	_ = json.Unmarshal(w.Body.Bytes(), &entry)
	if entry.Date == "" {
		t.Error("date should default to today")
	}

	w = e.do(t, http.MethodPut, "/journal/"+itoa(entry.ID), map[string]string{"tags": "catchup"})
	if w.Code != http.StatusOK {
		t.Fatalf("update entry = %d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &entry)
	if entry.Title != "Coffee" || entry.Tags != "catchup" {
		t.Errorf("entry after update = %+v", entry)
	}

	w = e.do(t, http.MethodDelete, "/journal/"+itoa(entry.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete entry = %d, want 204", w.Code)
	}
	w = e.do(t, http.MethodGet, "/journal/"+itoa(entry.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestBusinessFlow(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Worker")

	w := e.do(t, http.MethodPost, "/business/contact/"+itoa(id), map[string]string{
		"company": "Initech",
		"title":   "Engineer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create record = %d, body = %s", w.Code, w.Body.String())
	}
	var record models.BusinessRecord
	_ = json.Unmarshal(w.Body.Bytes(), &record)
	if !record.IsCurrent {
		t.Error("record should default to current")
	}

	w = e.do(t, http.MethodPut, "/business/"+itoa(record.ID), map[string]any{
		"isCurrent": false,
		"endDate":   "2024-06-01",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update record = %d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &record)
	if record.IsCurrent || record.EndDate != "2024-06-01" {
		t.Errorf("record after update = %+v", record)
	}

	w = e.do(t, http.MethodDelete, "/business/"+itoa(record.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete record = %d, want 204", w.Code)
	}
}

func TestCustomFieldFlow(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Fielded")

	// Missing name → 400.
	w := e.do(t, http.MethodPost, "/fields/contact/"+itoa(id), map[string]string{"fieldValue": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("field without name = %d, want 400", w.Code)
	}

	w = e.do(t, http.MethodPost, "/fields/contact/"+itoa(id), map[string]string{
		"fieldName":  "favorite_color",
		"fieldValue": "green",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create field = %d, body = %s", w.Code, w.Body.String())
	}
	var field models.CustomField
	_ = json.Unmarshal(w.Body.Bytes(), &field)
	if field.FieldType != "text" {
		t.Errorf("field type = %q, want default text", field.FieldType)
	}

	w = e.do(t, http.MethodDelete, "/fields/"+itoa(field.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete field = %d, want 204", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	e := testEnv(t)
	e.createContact(t, "Zelda")

	w := e.do(t, http.MethodGet, "/search?q=zel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Contacts []models.Contact `json:"contacts"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Contacts) != 1 {
		t.Errorf("search contacts = %d, want 1", len(resp.Contacts))
	}

	// Too-short query → 400.
	w = e.do(t, http.MethodGet, "/search?q=z", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("short query = %d, want 400", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	e := testEnv(t)
	a := e.createContact(t, "One")
	b := e.createContact(t, "Two")
	e.do(t, http.MethodPost, "/relationships/contact/"+itoa(a), map[string]any{
		"relatedContactId": b,
		"relationshipType": "friend",
	})

	w := e.do(t, http.MethodGet, "/data/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	var stats store.Stats
	_ = json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Contacts != 2 || stats.Relationships != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	e := testEnv(t)
	a := e.createContact(t, "Marie")
	b := e.createContact(t, "Irene")
	e.do(t, http.MethodPost, "/relationships/contact/"+itoa(a), map[string]any{
		"relatedContactId": b,
		"relationshipType": "parent",
	})

	w := e.do(t, http.MethodGet, "/data/export/json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("export should set Content-Disposition")
	}
	var snap struct {
		Version string          `json:"version"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("export body: %v", err)
	}
	if snap.Version == "" {
		t.Error("export missing version")
	}

	// Replace-import the snapshot into the same account.
	w = e.do(t, http.MethodPost, "/data/import/json", map[string]any{
		"data": json.RawMessage(snap.Data),
		"mode": "replace",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ImportResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success || resp.ImportedContacts != 2 {
		t.Errorf("import response = %+v", resp)
	}

	// The graph survived the round trip.
	w = e.do(t, http.MethodGet, "/data/stats", nil)
	var stats store.Stats
	_ = json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Contacts != 2 || stats.Relationships != 1 {
		t.Errorf("stats after round trip = %+v", stats)
	}
}

func TestImportRejectsUnknownMode(t *testing.T) {
	e := testEnv(t)

	w := e.do(t, http.MethodPost, "/data/import/json", map[string]any{
		"data": map[string]any{"contacts": []any{}},
		"mode": "sideways",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown mode = %d, want 400", w.Code)
	}
}

func TestImportRejectsMalformedData(t *testing.T) {
	e := testEnv(t)

	w := e.do(t, http.MethodPost, "/data/import/json", map[string]any{
		"data": map[string]any{"contacts": "not-an-array"},
		"mode": "merge",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed data = %d, want 400", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	e := testEnv(t)
	e.createContact(t, "Csv")

	w := e.do(t, http.MethodGet, "/data/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("csv export = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("First Name,")) {
		t.Errorf("csv body = %q", w.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	e := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestTenantIsolation(t *testing.T) {
	e := testEnv(t)
	id := e.createContact(t, "Private")

	if _, err := e.st.UpsertAccount(context.Background(), "bob@example.com", "Bob", "tok-bob"); err != nil {
		t.Fatal(err)
	}
	other := &env{st: e.st, router: e.router, token: "tok-bob"}

	w := other.do(t, http.MethodGet, "/contacts/"+itoa(id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-account get = %d, want 404", w.Code)
	}
	w = other.do(t, http.MethodDelete, "/contacts/"+itoa(id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-account delete = %d, want 404", w.Code)
	}
}

// Avatar tests.

func uploadAvatar(t *testing.T, e *env, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(part, bytes.NewReader(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/avatars", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUploadAvatar(t *testing.T) {
	e := testEnv(t)

	w := uploadAvatar(t, e, "me.png", []byte("fake-png-data"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	name, _ := resp["filename"].(string)
	if name == "" || filepath.Ext(name) != ".png" {
		t.Fatalf("filename = %v", resp["filename"])
	}

	data, err := os.ReadFile(filepath.Join(e.uploads, "avatars", name))
	if err != nil {
		t.Fatalf("file not on disk: %v", err)
	}
	if string(data) != "fake-png-data" {
		t.Errorf("content mismatch")
	}
}

func TestUploadAvatar_UnsupportedType(t *testing.T) {
	e := testEnv(t)

	w := uploadAvatar(t, e, "script.sh", []byte("#!/bin/sh"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unsupported type = %d, want 400", w.Code)
	}
}

func TestServeAvatar_TraversalBlocked(t *testing.T) {
	ah := NewAvatarHandler(t.TempDir())
	r := chi.NewRouter()
	r.Get("/avatars/{filename}", ah.ServeFile)

	for _, name := range []string{"../secret.db", "../../etc/passwd"} {
		req := httptest.NewRequest(http.MethodGet, "/avatars/"+name, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			t.Errorf("traversal %q should not return 200", name)
		}
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
