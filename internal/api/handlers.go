package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/history"
	"github.com/peekproxy/peek/internal/store"
)

// Handlers serves the API endpoints from the live history and the
// persistent store.
type Handlers struct {
	history *history.History
	store   *store.Store // may be nil when persistence is disabled
	target  string
}

// NewHandlers creates the handler set.
func NewHandlers(h *history.History, st *store.Store, target string) *Handlers {
	return &Handlers{history: h, store: st, target: target}
}

// Status handles GET /api/v1/status
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Exchanges: h.history.Size(),
		Capacity:  h.history.Capacity(),
		Target:    h.target,
	}
	if h.store != nil {
		if n, err := h.store.Count(); err == nil {
			resp.Stored = n
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListExchanges handles GET /api/v1/exchanges?limit=N
func (h *Handlers) ListExchanges(w http.ResponseWriter, r *http.Request) {
	limit := h.history.Size()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	exchanges := h.history.GetRecent(limit)
	resp := make([]ExchangeResponse, 0, len(exchanges))
	for _, ex := range exchanges {
		resp = append(resp, ToExchangeResponse(ex, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetExchange handles GET /api/v1/exchanges/{id}. The live buffer is
// checked first; evicted exchanges are served from the store.
func (h *Handlers) GetExchange(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, ex := range h.history.GetAll() {
		if ex.ID == id {
			writeJSON(w, http.StatusOK, ToExchangeResponse(ex, true))
			return
		}
	}

	if h.store != nil {
		ex, err := h.store.Get(id)
		if err == nil {
			writeJSON(w, http.StatusOK, ToExchangeResponse(ex, true))
			return
		}
		if !errors.Is(err, domain.ErrExchangeNotFound) {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "exchange not found"})
}
