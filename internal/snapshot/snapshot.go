// Package snapshot defines the portable export format for one account's
// full graph and the codec that reads and writes it.
//
// A snapshot is a value, not a live view: it carries complete copies of
// every record with their original identifiers, so it stays valid no
// matter what happens to the store afterwards.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/starford/othala/internal/apperr"
)

// FormatVersion is the snapshot format this build writes.
const FormatVersion = "1.0"

// Snapshot is the complete exported representation of one account.
type Snapshot struct {
	Version    string   `json:"version"`
	ExportedAt string   `json:"exportedAt"`
	User       Identity `json:"user"`
	Data       Data     `json:"data"`
}

// Identity names the exporting account.
type Identity struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Data holds every record of the account, keyed by original ids.
type Data struct {
	Contacts       []Contact        `json:"contacts"`
	Relationships  []Relationship   `json:"relationships"`
	JournalEntries []JournalEntry   `json:"journalEntries"`
	BusinessInfo   []BusinessRecord `json:"businessInfo"`
	CustomFields   []CustomField    `json:"customFields"`
}

// Contact is one exported contact row. Timestamps stay strings so a
// snapshot round-trips whatever the source stored.
type Contact struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	Notes     string `json:"notes,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Relationship is one exported directed edge.
type Relationship struct {
	ID               int64  `json:"id"`
	ContactID        int64  `json:"contact_id"`
	RelatedContactID int64  `json:"related_contact_id"`
	Type             string `json:"relationship_type"`
	Category         string `json:"category,omitempty"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// JournalEntry is one exported journal row.
type JournalEntry struct {
	ID        int64  `json:"id"`
	ContactID int64  `json:"contact_id"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	Date      string `json:"date,omitempty"`
	Tags      string `json:"tags,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// BusinessRecord is one exported employment row.
type BusinessRecord struct {
	ID         int64  `json:"id"`
	ContactID  int64  `json:"contact_id"`
	Company    string `json:"company,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	WorkEmail  string `json:"work_email,omitempty"`
	WorkPhone  string `json:"work_phone,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsCurrent  bool   `json:"is_current"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// CustomField is one exported custom field row.
type CustomField struct {
	ID         int64  `json:"id"`
	ContactID  int64  `json:"contact_id"`
	FieldName  string `json:"field_name"`
	FieldValue string `json:"field_value,omitempty"`
	FieldType  string `json:"field_type,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// Encode serializes a snapshot as indented JSON.
func Encode(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Parse validates the top-level shape of a snapshot and decodes it.
// Shape errors (missing version, missing data, contacts not a list)
// fail with apperr.ErrParse; field-level validation is the import
// engine's job.
func Parse(b []byte) (*Snapshot, error) {
	var raw struct {
		Version    *string         `json:"version"`
		ExportedAt string          `json:"exportedAt"`
		User       Identity        `json:"user"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	if raw.Version == nil || *raw.Version == "" {
		return nil, fmt.Errorf("%w: missing version", apperr.ErrParse)
	}
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("%w: missing data", apperr.ErrParse)
	}

	data, err := ParseData(raw.Data)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:    *raw.Version,
		ExportedAt: raw.ExportedAt,
		User:       raw.User,
		Data:       *data,
	}, nil
}

// ParseData validates and decodes the data object on its own; the
// import request carries it without the snapshot envelope.
func ParseData(b []byte) (*Data, error) {
	var shape struct {
		Contacts json.RawMessage `json:"contacts"`
	}
	if err := json.Unmarshal(b, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	trimmed := bytes.TrimSpace(shape.Contacts)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: contacts must be a list", apperr.ErrParse)
	}

	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	return &data, nil
}
