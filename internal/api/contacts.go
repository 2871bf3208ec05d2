package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/othala/internal/store"
)

// ListContacts handles GET /api/contacts.
//
//	@Summary		List contacts with optional pagination and name filtering
//	@Tags			contacts
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			search	query		string	false	"Filter by name or email"
//	@Success		200		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	contacts, total, err := h.store.ListContacts(r.Context(), account.ID, limit, offset, q.Get("search"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"total":    total,
	})
}

// CreateContact handles POST /api/contacts.
//
//	@Summary		Create a new contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateContactRequest	true	"Contact to create"
//	@Success		201		{object}	models.Contact
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts [post]
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	contact, err := h.store.CreateContact(r.Context(), account.ID, store.ContactParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Nickname:  req.Nickname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Birthday:  req.Birthday,
		Notes:     req.Notes,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("contact.created", contact.ID)
	writeJSON(w, http.StatusCreated, contact)
}

// GetContact handles GET /api/contacts/{id}. The response bundles the
// contact with its relationship view, recent journal entries, business
// records, and custom fields.
//
//	@Summary		Get a contact with its related records
//	@Tags			contacts
//	@Produce		json
//	@Param			id	path		int	true	"Contact id"
//	@Success		200	{object}	models.ContactDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [get]
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	detail, err := h.store.ContactDetail(r.Context(), account.ID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateContact handles PUT /api/contacts/{id}. Absent fields keep
// their stored value.
//
//	@Summary		Update a contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Contact id"
//	@Param			body	body		UpdateContactRequest	true	"Fields to change"
//	@Success		200		{object}	models.Contact
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [put]
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	contact, err := h.store.UpdateContact(r.Context(), account.ID, id, store.ContactPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Nickname:  req.Nickname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Birthday:  req.Birthday,
		Notes:     req.Notes,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("contact.updated", contact.ID)
	writeJSON(w, http.StatusOK, contact)
}

// DeleteContact handles DELETE /api/contacts/{id}. Related records go
// with the contact.
//
//	@Summary		Delete a contact and everything attached to it
//	@Tags			contacts
//	@Param			id	path	int	true	"Contact id"
//	@Success		204	"Contact deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [delete]
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.store.DeleteContact(r.Context(), account.ID, id); err != nil {
		respondError(w, err)
		return
	}
	h.publish("contact.deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Search contacts, journal entries, and business records
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query (min 2 characters)"
//	@Param			limit	query		int		false	"Max results per section"
//	@Success		200		{object}	store.SearchResults
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.store.Search(r.Context(), account.ID, q, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Stats handles GET /api/data/stats.
//
//	@Summary		Record counts for the account
//	@Tags			data
//	@Produce		json
//	@Success		200	{object}	store.Stats
//	@Security		BearerAuth
//	@Router			/data/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	stats, err := h.store.Stats(r.Context(), account.ID)
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
