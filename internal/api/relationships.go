package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/othala/internal/relation"
	"github.com/starford/othala/internal/store"
)

// ListRelationships handles GET /api/relationships/contact/{contactId}.
// The view includes edges stored in either direction; inferred rows
// carry the inverse type.
//
//	@Summary		List a contact's relationships, both stored and inferred
//	@Tags			relationships
//	@Produce		json
//	@Param			contactId	path		int	true	"Contact id"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/relationships/contact/{contactId} [get]
func (h *Handler) ListRelationships(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	views, err := h.store.ListRelationships(r.Context(), account.ID, contactID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"relationships": views,
	})
}

// CreateRelationship handles POST /api/relationships/contact/{contactId}.
//
//	@Summary		Link two contacts
//	@Tags			relationships
//	@Accept			json
//	@Produce		json
//	@Param			contactId	path		int							true	"Contact id"
//	@Param			body		body		CreateRelationshipRequest	true	"Edge to create"
//	@Success		201			{object}	models.Relationship
//	@Failure		400			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/relationships/contact/{contactId} [post]
func (h *Handler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	rel, err := h.store.AddRelationship(r.Context(), account.ID, store.RelationshipParams{
		ContactID:        contactID,
		RelatedContactID: req.RelatedContactID,
		Type:             relation.Type(req.RelationshipType),
		Category:         req.Category,
		Notes:            req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("relationship.created", rel.ID)
	writeJSON(w, http.StatusCreated, rel)
}

// DeleteRelationship handles DELETE /api/relationships/{id}.
//
//	@Summary		Remove a relationship edge
//	@Tags			relationships
//	@Param			id	path	int	true	"Relationship id"
//	@Success		204	"Relationship deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/relationships/{id} [delete]
func (h *Handler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.store.DeleteRelationship(r.Context(), account.ID, id); err != nil {
		respondError(w, err)
		return
	}
	h.publish("relationship.deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// RelationshipTypes handles GET /api/relationships/types.
//
//	@Summary		List the known relationship types
//	@Tags			relationships
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/relationships/types [get]
func (h *Handler) RelationshipTypes(w http.ResponseWriter, r *http.Request) {
	types := relation.Types()
	out := make([]map[string]string, 0, len(types))
	for _, t := range types {
		out = append(out, map[string]string{
			"type":     string(t),
			"inverse":  string(relation.Inverse(t)),
			"category": relation.DefaultCategory(t),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"types": out,
	})
}
