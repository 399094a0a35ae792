package domain

import "time"

// Exchange represents a single captured request/response pair. A nil
// Response means the target was unreachable. Exchanges are immutable once
// created; nothing downstream of the proxy mutates one.
type Exchange struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Request   Request   `json:"request"`
	Response  *Response `json:"response,omitempty"`
	// DurationMs is the forward round-trip time in milliseconds.
	// -1 when unknown (target unreachable).
	DurationMs int64 `json:"duration_ms"`
}

// Request is the captured inbound request.
type Request struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

// Response is the captured upstream response.
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body,omitempty"`
}

// HasDuration reports whether a round-trip time was recorded.
func (e *Exchange) HasDuration() bool {
	return e.DurationMs >= 0
}

// StatusCategory is the coarse status bucket that drives color coding.
type StatusCategory string

const (
	CategoryInformational StatusCategory = "informational"
	CategorySuccess       StatusCategory = "success"
	CategoryRedirect      StatusCategory = "redirect"
	CategoryClientError   StatusCategory = "client-error"
	CategoryServerError   StatusCategory = "server-error"
	CategoryUnreachable   StatusCategory = "unreachable"
)

// Categorize maps a response to its status category. A nil response is
// unreachable; unknown codes fall into the server-error bucket.
func Categorize(resp *Response) StatusCategory {
	if resp == nil {
		return CategoryUnreachable
	}
	switch {
	case resp.StatusCode >= 100 && resp.StatusCode < 200:
		return CategoryInformational
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return CategorySuccess
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return CategoryRedirect
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return CategoryClientError
	default:
		return CategoryServerError
	}
}
