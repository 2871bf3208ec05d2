package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/othala/internal/store"
)

// ListJournalEntries handles GET /api/journal/contact/{contactId}.
//
//	@Summary		List a contact's journal entries, newest first
//	@Tags			journal
//	@Produce		json
//	@Param			contactId	path		int	true	"Contact id"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/contact/{contactId} [get]
func (h *Handler) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	entries, err := h.store.ListJournalEntries(r.Context(), account.ID, contactID, 0)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
	})
}

// CreateJournalEntry handles POST /api/journal/contact/{contactId}.
//
//	@Summary		Add a journal entry to a contact
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			contactId	path		int					true	"Contact id"
//	@Param			body		body		JournalEntryRequest	true	"Entry to create"
//	@Success		201			{object}	models.JournalEntry
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/contact/{contactId} [post]
func (h *Handler) CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	entry, err := h.store.CreateJournalEntry(r.Context(), account.ID, contactID, store.JournalParams{
		Title:   strVal(req.Title),
		Content: strVal(req.Content),
		Date:    strVal(req.Date),
		Tags:    strVal(req.Tags),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("journal.created", entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

// GetJournalEntry handles GET /api/journal/{id}.
//
//	@Summary		Get a single journal entry
//	@Tags			journal
//	@Produce		json
//	@Param			id	path		int	true	"Entry id"
//	@Success		200	{object}	models.JournalEntry
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/{id} [get]
func (h *Handler) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	entry, err := h.store.GetJournalEntry(r.Context(), account.ID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdateJournalEntry handles PUT /api/journal/{id}.
//
//	@Summary		Update a journal entry
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Entry id"
//	@Param			body	body		JournalEntryRequest	true	"Fields to change"
//	@Success		200		{object}	models.JournalEntry
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/{id} [put]
func (h *Handler) UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	entry, err := h.store.UpdateJournalEntry(r.Context(), account.ID, id, store.JournalPatch{
		Title:   req.Title,
		Content: req.Content,
		Date:    req.Date,
		Tags:    req.Tags,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("journal.updated", entry.ID)
	writeJSON(w, http.StatusOK, entry)
}

// DeleteJournalEntry handles DELETE /api/journal/{id}.
//
//	@Summary		Delete a journal entry
//	@Tags			journal
//	@Param			id	path	int	true	"Entry id"
//	@Success		204	"Entry deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/journal/{id} [delete]
func (h *Handler) DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.store.DeleteJournalEntry(r.Context(), account.ID, id); err != nil {
		respondError(w, err)
		return
	}
	h.publish("journal.deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
