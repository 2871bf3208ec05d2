package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/othala/internal/apperr"
)

func TestParseRoundTrip(t *testing.T) {
	snap := &Snapshot{
		Version:    FormatVersion,
		ExportedAt: "2026-02-14T10:00:00Z",
		User:       Identity{Email: "ada@example.com", DisplayName: "Ada"},
		Data: Data{
			Contacts: []Contact{
				{ID: 1, FirstName: "Grace", LastName: "Hopper"},
				{ID: 2, FirstName: "Alan"},
			},
			Relationships: []Relationship{
				{ID: 1, ContactID: 1, RelatedContactID: 2, Type: "manager", Category: "business"},
			},
			JournalEntries: []JournalEntry{
				{ID: 1, ContactID: 1, Title: "Lunch", Date: "2026-01-10"},
			},
		},
	}

	b, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Version != FormatVersion {
		t.Errorf("version = %q", got.Version)
	}
	if len(got.Data.Contacts) != 2 || got.Data.Contacts[0].FirstName != "Grace" {
		t.Errorf("contacts = %+v", got.Data.Contacts)
	}
	if len(got.Data.Relationships) != 1 || got.Data.Relationships[0].Type != "manager" {
		t.Errorf("relationships = %+v", got.Data.Relationships)
	}
}

func TestParseRejectsBadShape(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"version": `,
		"missing version":   `{"data": {"contacts": []}}`,
		"missing data":      `{"version": "1.0"}`,
		"contacts absent":   `{"version": "1.0", "data": {}}`,
		"contacts not list": `{"version": "1.0", "data": {"contacts": {"id": 1}}}`,
	}
	for name, input := range cases {
		if _, err := Parse([]byte(input)); !errors.Is(err, apperr.ErrParse) {
			t.Errorf("%s: err = %v, want ErrParse", name, err)
		}
	}
}

func TestParseDataStandalone(t *testing.T) {
	data, err := ParseData([]byte(`{"contacts": [{"id": 7, "first_name": "Ada"}]}`))
	if err != nil {
		t.Fatalf("ParseData: %v", err)
	}
	if len(data.Contacts) != 1 || data.Contacts[0].ID != 7 {
		t.Errorf("contacts = %+v", data.Contacts)
	}

	if _, err := ParseData([]byte(`{"contacts": null}`)); !errors.Is(err, apperr.ErrParse) {
		t.Errorf("null contacts: err = %v, want ErrParse", err)
	}
}

func TestEncodeCSV(t *testing.T) {
	rows := []CSVContact{
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", CurrentCompany: "US Navy", CurrentTitle: "Rear Admiral"},
		{FirstName: "Ada", Notes: "loves math, \"poetry\"\nand engines"},
	}
	out := string(EncodeCSV(rows))

	lines := strings.Split(out, "\n")
	if lines[0] != "First Name,Last Name,Nickname,Email,Phone,Address,Birthday,Notes,Current Company,Current Title,Created At" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Grace,Hopper,,grace@navy.mil") {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Quoted field keeps its embedded newline, doubling internal quotes.
	if !strings.Contains(out, `"loves math, ""poetry""`) {
		t.Errorf("escaping missing: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("trailing newline in CSV output")
	}
}
