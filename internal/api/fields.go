package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/othala/internal/store"
)

// ListCustomFields handles GET /api/fields/contact/{contactId}.
//
//	@Summary		List a contact's custom fields
//	@Tags			fields
//	@Produce		json
//	@Param			contactId	path		int	true	"Contact id"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/contact/{contactId} [get]
func (h *Handler) ListCustomFields(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	fields, err := h.store.ListCustomFields(r.Context(), account.ID, contactID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": fields,
	})
}

// CreateCustomField handles POST /api/fields/contact/{contactId}.
//
//	@Summary		Attach a custom field to a contact
//	@Tags			fields
//	@Accept			json
//	@Produce		json
//	@Param			contactId	path		int					true	"Contact id"
//	@Param			body		body		CustomFieldRequest	true	"Field to create"
//	@Success		201			{object}	models.CustomField
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/contact/{contactId} [post]
func (h *Handler) CreateCustomField(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CustomFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	field, err := h.store.CreateCustomField(r.Context(), account.ID, contactID, store.FieldParams{
		FieldName:  strVal(req.FieldName),
		FieldValue: strVal(req.FieldValue),
		FieldType:  strVal(req.FieldType),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("field.created", field.ID)
	writeJSON(w, http.StatusCreated, field)
}

// UpdateCustomField handles PUT /api/fields/{id}.
//
//	@Summary		Update a custom field
//	@Tags			fields
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Field id"
//	@Param			body	body		CustomFieldRequest	true	"Fields to change"
//	@Success		200		{object}	models.CustomField
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{id} [put]
func (h *Handler) UpdateCustomField(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CustomFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	field, err := h.store.UpdateCustomField(r.Context(), account.ID, id, store.FieldPatch{
		FieldName:  req.FieldName,
		FieldValue: req.FieldValue,
		FieldType:  req.FieldType,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("field.updated", field.ID)
	writeJSON(w, http.StatusOK, field)
}

// DeleteCustomField handles DELETE /api/fields/{id}.
//
//	@Summary		Delete a custom field
//	@Tags			fields
//	@Param			id	path	int	true	"Field id"
//	@Success		204	"Field deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fields/{id} [delete]
func (h *Handler) DeleteCustomField(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.store.DeleteCustomField(r.Context(), account.ID, id); err != nil {
		respondError(w, err)
		return
	}
	h.publish("field.deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
