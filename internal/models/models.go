// Package models defines the domain types for Othala.
package models

import "time"

// User is an account: the ownership boundary for every other record.
// A contact belongs to exactly one user for its entire lifetime.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Contact is the root of an account's graph.
type Contact struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Nickname  string    `json:"nickname,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Birthday  string    `json:"birthday,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Relationship is a stored directed edge between two contacts of the
// same account. Only one row exists per relationship; the reverse
// direction is inferred at read time (see RelationshipView).
type Relationship struct {
	ID               int64     `json:"id"`
	ContactID        int64     `json:"contact_id"`
	RelatedContactID int64     `json:"related_contact_id"`
	Type             string    `json:"relationship_type"`
	Category         string    `json:"category"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RelationshipView is one entry of the bidirectional relationship view
// for a contact: either a stored edge, or an edge stored in the other
// direction rewritten with the inverse type and swapped endpoints.
// RelatedContactID is always "the other contact".
type RelationshipView struct {
	ID               int64     `json:"id"`
	ContactID        int64     `json:"contact_id"`
	RelatedContactID int64     `json:"related_contact_id"`
	Type             string    `json:"relationship_type"`
	Category         string    `json:"category"`
	Notes            string    `json:"notes,omitempty"`
	Inferred         bool      `json:"inferred"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name,omitempty"`
	Nickname         string    `json:"nickname,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// JournalEntry is a dated note attached to a contact.
type JournalEntry struct {
	ID        int64     `json:"id"`
	ContactID int64     `json:"contact_id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	Date      string    `json:"date"`
	Tags      string    `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessRecord is one employment/engagement entry for a contact.
type BusinessRecord struct {
	ID         int64     `json:"id"`
	ContactID  int64     `json:"contact_id"`
	Company    string    `json:"company,omitempty"`
	Title      string    `json:"title,omitempty"`
	Department string    `json:"department,omitempty"`
	WorkEmail  string    `json:"work_email,omitempty"`
	WorkPhone  string    `json:"work_phone,omitempty"`
	LinkedIn   string    `json:"linkedin,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsCurrent  bool      `json:"is_current"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CustomField is an account-defined key/value attached to a contact.
type CustomField struct {
	ID         int64     `json:"id"`
	ContactID  int64     `json:"contact_id"`
	FieldName  string    `json:"field_name"`
	FieldValue string    `json:"field_value,omitempty"`
	FieldType  string    `json:"field_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ContactDetail is a contact enriched with everything it owns plus the
// bidirectional relationship view.
type ContactDetail struct {
	Contact
	Relationships   []RelationshipView `json:"relationships"`
	JournalEntries  []JournalEntry     `json:"journalEntries"`
	BusinessRecords []BusinessRecord   `json:"businessInfo"`
	CustomFields    []CustomField      `json:"customFields"`
}
