package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/transfer"
)

// Handler holds the API route handlers.
type Handler struct {
	store  *store.Store
	engine *transfer.Engine
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil when no SSE
// fan-out is wanted (tests).
func NewHandler(st *store.Store, engine *transfer.Engine, broker *sse.Broker) *Handler {
	return &Handler{store: st, engine: engine, broker: broker}
}

// publish broadcasts a record-change event to SSE clients.
func (h *Handler) publish(kind string, id int64) {
	if h.broker != nil {
		h.broker.PublishChange(kind, id)
	}
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperr.ErrValidation, name)
	}
	return id, nil
}
