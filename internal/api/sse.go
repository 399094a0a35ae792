package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StreamExchanges handles GET /api/v1/exchanges/stream (SSE)
func (h *Handlers) StreamExchanges(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sub := h.history.Subscribe()
	defer h.history.Unsubscribe(sub.ID)

	// Initial comment establishes the connection
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	// Slow clients: the subscription channel is buffered and drops when
	// full; write errors end the stream and clean up the subscription.
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ex, ok := <-sub.Ch:
			if !ok {
				return
			}

			data, err := json.Marshal(ToExchangeResponse(ex, false))
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
