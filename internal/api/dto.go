package api

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/othala/internal/relation"
)

// CreateContactRequest is the request body for creating a contact.
type CreateContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Birthday  string `json:"birthday"`
	Notes     string `json:"notes"`
	AvatarURL string `json:"avatarUrl"`
}

// Validate validates the request.
func (r CreateContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.Email, validation.Length(0, 254)),
	)
}

// UpdateContactRequest is a partial contact update; absent fields keep
// their stored value.
type UpdateContactRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Nickname  *string `json:"nickname"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Birthday  *string `json:"birthday"`
	Notes     *string `json:"notes"`
	AvatarURL *string `json:"avatarUrl"`
}

// CreateRelationshipRequest is the request body for creating an edge.
type CreateRelationshipRequest struct {
	RelatedContactID int64  `json:"relatedContactId"`
	RelationshipType string `json:"relationshipType"`
	Category         string `json:"category"`
	Notes            string `json:"notes"`
}

// Validate validates the request.
func (r CreateRelationshipRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RelatedContactID, validation.Required),
		validation.Field(&r.RelationshipType, validation.Required),
		validation.Field(&r.Category,
			validation.In(relation.CategoryPersonal, relation.CategoryBusiness)),
	)
}

// JournalEntryRequest is the request body for creating or updating a
// journal entry. On update, absent fields keep their stored value.
type JournalEntryRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Date    *string `json:"date"`
	Tags    *string `json:"tags"`
}

// BusinessRecordRequest is the request body for creating or updating a
// business record.
type BusinessRecordRequest struct {
	Company    *string `json:"company"`
	Title      *string `json:"title"`
	Department *string `json:"department"`
	WorkEmail  *string `json:"workEmail"`
	WorkPhone  *string `json:"workPhone"`
	LinkedIn   *string `json:"linkedin"`
	Notes      *string `json:"notes"`
	IsCurrent  *bool   `json:"isCurrent"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
}

// CustomFieldRequest is the request body for creating or updating a
// custom field.
type CustomFieldRequest struct {
	FieldName  *string `json:"fieldName"`
	FieldValue *string `json:"fieldValue"`
	FieldType  *string `json:"fieldType"`
}

// ImportRequest is the request body for a snapshot import.
type ImportRequest struct {
	Data json.RawMessage `json:"data"`
	Mode string          `json:"mode"`
}

// ImportResponse reports a completed import.
type ImportResponse struct {
	Success          bool `json:"success"`
	ImportedContacts int  `json:"importedContacts"`
}
