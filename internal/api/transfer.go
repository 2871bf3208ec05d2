package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/starford/othala/internal/snapshot"
)

// ExportJSON handles GET /api/data/export/json. The snapshot is a
// complete copy of the account's records.
//
//	@Summary		Download the account as a JSON snapshot
//	@Tags			data
//	@Produce		json
//	@Success		200	{object}	snapshot.Snapshot
//	@Security		BearerAuth
//	@Router			/data/export/json [get]
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	payload, err := h.engine.ExportJSON(r.Context(), account)
	if err != nil {
		respondError(w, err)
		return
	}
	name := fmt.Sprintf("contacts-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// ExportCSV handles GET /api/data/export/csv. Only contacts are
// included; current employment is flattened into two columns.
//
//	@Summary		Download the account's contacts as CSV
//	@Tags			data
//	@Produce		text/csv
//	@Success		200	{string}	string
//	@Security		BearerAuth
//	@Router			/data/export/csv [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	payload, err := h.engine.ExportCSV(r.Context(), account)
	if err != nil {
		respondError(w, err)
		return
	}
	name := fmt.Sprintf("contacts-export-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// Import handles POST /api/data/import/json. The whole import runs in
// one transaction; a replace-mode import wipes the account first. Ids
// in the snapshot are remapped, so the same file can be imported more
// than once.
//
//	@Summary		Import a JSON snapshot into the account
//	@Tags			data
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"Snapshot data and mode (merge or replace)"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/data/import/json [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r)
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	data, err := snapshot.ParseData(req.Data)
	if err != nil {
		respondError(w, err)
		return
	}

	imported, err := h.engine.Import(r.Context(), account, data, req.Mode)
	if err != nil {
		respondError(w, err)
		return
	}
	h.publish("data.imported", int64(imported))
	writeJSON(w, http.StatusOK, ImportResponse{
		Success:          true,
		ImportedContacts: imported,
	})
}
