package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/transfer"
)

// NewRouter creates a chi router with all API routes mounted behind
// Bearer token auth. broker, if non-nil, is mounted at GET /events.
// uploadsRoot is used to resolve the avatars directory.
func NewRouter(st *store.Store, engine *transfer.Engine, broker *sse.Broker, uploadsRoot string) chi.Router {
	h := NewHandler(st, engine, broker)
	ah := NewAvatarHandler(uploadsRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(st))

	// Contacts CRUD.
	r.Get("/contacts", h.ListContacts)
	r.Post("/contacts", h.CreateContact)
	r.Get("/contacts/{id}", h.GetContact)
	r.Put("/contacts/{id}", h.UpdateContact)
	r.Delete("/contacts/{id}", h.DeleteContact)

	// Relationships.
	r.Get("/relationships/types", h.RelationshipTypes)
	r.Get("/relationships/contact/{contactId}", h.ListRelationships)
	r.Post("/relationships/contact/{contactId}", h.CreateRelationship)
	r.Delete("/relationships/{id}", h.DeleteRelationship)

	// Journal entries.
	r.Get("/journal/contact/{contactId}", h.ListJournalEntries)
	r.Post("/journal/contact/{contactId}", h.CreateJournalEntry)
	r.Get("/journal/{id}", h.GetJournalEntry)
	r.Put("/journal/{id}", h.UpdateJournalEntry)
	r.Delete("/journal/{id}", h.DeleteJournalEntry)

	// Business records.
	r.Get("/business/contact/{contactId}", h.ListBusinessRecords)
	r.Post("/business/contact/{contactId}", h.CreateBusinessRecord)
	r.Get("/business/{id}", h.GetBusinessRecord)
	r.Put("/business/{id}", h.UpdateBusinessRecord)
	r.Delete("/business/{id}", h.DeleteBusinessRecord)

	// Custom fields.
	r.Get("/fields/contact/{contactId}", h.ListCustomFields)
	r.Post("/fields/contact/{contactId}", h.CreateCustomField)
	r.Put("/fields/{id}", h.UpdateCustomField)
	r.Delete("/fields/{id}", h.DeleteCustomField)

	// Search.
	r.Get("/search", h.Search)

	// Snapshot export/import and stats.
	r.Get("/data/export/json", h.ExportJSON)
	r.Get("/data/export/csv", h.ExportCSV)
	r.Post("/data/import/json", h.Import)
	r.Get("/data/stats", h.Stats)

	// Avatar upload (auth-protected; files served outside /api).
	r.Post("/avatars", ah.Upload)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", broker.ServeHTTP)
	}

	return r
}
