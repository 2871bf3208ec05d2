package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/othala/internal/store"
)

// ListBusinessRecords handles GET /api/business/contact/{contactId}.
//
//	@Summary		List a contact's employment records
//	@Tags			business
//	@Produce		json
//	@Param			contactId	path		int	true	"Contact id"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/business/contact/{contactId} [get]
func (h *Handler) ListBusinessRecords(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	records, err := h.store.ListBusinessRecords(r.Context(), account.ID, contactID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
	})
}

// CreateBusinessRecord handles POST /api/business/contact/{contactId}.
// A record with no isCurrent flag is treated as current.
//
//	@Summary		Add an employment record to a contact
//	@Tags			business
//	@Accept			json
//	@Produce		json
//	@Param			contactId	path		int						true	"Contact id"
//	@Param			body		body		BusinessRecordRequest	true	"Record to create"
//	@Success		201			{object}	models.BusinessRecord
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/business/contact/{contactId} [post]
func (h *Handler) CreateBusinessRecord(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	contactID, err := idParam(r, "contactId")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req BusinessRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	record, err := h.store.CreateBusinessRecord(r.Context(), account.ID, contactID, store.BusinessParams{
		Company:    strVal(req.Company),
		Title:      strVal(req.Title),
		Department: strVal(req.Department),
		WorkEmail:  strVal(req.WorkEmail),
		WorkPhone:  strVal(req.WorkPhone),
		LinkedIn:   strVal(req.LinkedIn),
		Notes:      strVal(req.Notes),
		IsCurrent:  req.IsCurrent,
		StartDate:  strVal(req.StartDate),
		EndDate:    strVal(req.EndDate),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("business.created", record.ID)
	writeJSON(w, http.StatusCreated, record)
}

// GetBusinessRecord handles GET /api/business/{id}.
//
//	@Summary		Get a single employment record
//	@Tags			business
//	@Produce		json
//	@Param			id	path		int	true	"Record id"
//	@Success		200	{object}	models.BusinessRecord
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/business/{id} [get]
func (h *Handler) GetBusinessRecord(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	record, err := h.store.GetBusinessRecord(r.Context(), account.ID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// UpdateBusinessRecord handles PUT /api/business/{id}.
//
//	@Summary		Update an employment record
//	@Tags			business
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Record id"
//	@Param			body	body		BusinessRecordRequest	true	"Fields to change"
//	@Success		200		{object}	models.BusinessRecord
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/business/{id} [put]
func (h *Handler) UpdateBusinessRecord(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req BusinessRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	record, err := h.store.UpdateBusinessRecord(r.Context(), account.ID, id, store.BusinessPatch{
		Company:    req.Company,
		Title:      req.Title,
		Department: req.Department,
		WorkEmail:  req.WorkEmail,
		WorkPhone:  req.WorkPhone,
		LinkedIn:   req.LinkedIn,
		Notes:      req.Notes,
		IsCurrent:  req.IsCurrent,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("business.updated", record.ID)
	writeJSON(w, http.StatusOK, record)
}

// DeleteBusinessRecord handles DELETE /api/business/{id}.
//
//	@Summary		Delete an employment record
//	@Tags			business
//	@Param			id	path	int	true	"Record id"
//	@Success		204	"Record deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/business/{id} [delete]
func (h *Handler) DeleteBusinessRecord(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.store.DeleteBusinessRecord(r.Context(), account.ID, id); err != nil {
		respondError(w, err)
		return
	}
	h.publish("business.deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
