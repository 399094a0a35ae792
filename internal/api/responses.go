package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/peekproxy/peek/internal/domain"
)

// ExchangeResponse is the wire form of a captured exchange.
type ExchangeResponse struct {
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	StatusCode  *int              `json:"status_code,omitempty"`
	Category    string            `json:"category"`
	DurationMs  *int64            `json:"duration_ms,omitempty"`
	ReqHeaders  map[string]string `json:"request_headers,omitempty"`
	ReqBody     string            `json:"request_body,omitempty"`
	RespHeaders map[string]string `json:"response_headers,omitempty"`
	RespBody    string            `json:"response_body,omitempty"`
}

// StatusResponse summarizes the running capture.
type StatusResponse struct {
	Exchanges int    `json:"exchanges"`
	Capacity  int    `json:"capacity"`
	Stored    int    `json:"stored"`
	Target    string `json:"target"`
}

// ErrorResponse is the wire form of an error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToExchangeResponse converts an exchange, optionally including headers
// and bodies.
func ToExchangeResponse(ex domain.Exchange, includeDetail bool) ExchangeResponse {
	resp := ExchangeResponse{
		ID:        ex.ID,
		Timestamp: ex.Timestamp.UTC().Format(time.RFC3339Nano),
		Method:    ex.Request.Method,
		Path:      ex.Request.Path,
		Category:  string(domain.Categorize(ex.Response)),
	}
	if ex.Response != nil {
		code := ex.Response.StatusCode
		resp.StatusCode = &code
	}
	if ex.HasDuration() {
		d := ex.DurationMs
		resp.DurationMs = &d
	}
	if includeDetail {
		resp.ReqHeaders = ex.Request.Headers
		resp.ReqBody = ex.Request.Body
		if ex.Response != nil {
			resp.RespHeaders = ex.Response.Headers
			resp.RespBody = ex.Response.Body
		}
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
