package proxy

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"
)

// captureBuffer retains up to maxSize bytes of a streamed body while
// letting the full stream pass through.
type captureBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	maxSize   int64
	truncated bool
}

func newCaptureBuffer(maxSize int64) *captureBuffer {
	return &captureBuffer{maxSize: maxSize}
}

func (cb *captureBuffer) Write(p []byte) (int, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.truncated {
		return len(p), nil // Discard but pretend we wrote it
	}

	remaining := cb.maxSize - int64(cb.buf.Len())
	if remaining <= 0 {
		cb.truncated = true
		return len(p), nil
	}

	toWrite := p
	if int64(len(p)) > remaining {
		toWrite = p[:remaining]
		cb.truncated = true
	}
	if _, err := cb.buf.Write(toWrite); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (cb *captureBuffer) Bytes() []byte {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.buf.Bytes()
}

// teeReadCloser feeds everything read from a request body into the
// capture buffer while preserving Close semantics.
type teeReadCloser struct {
	io.Reader
	io.Closer
}

func captureRequestBody(r *http.Request, maxSize int64) *captureBuffer {
	captured := newCaptureBuffer(maxSize)
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = &teeReadCloser{
			Reader: io.TeeReader(r.Body, captured),
			Closer: r.Body,
		}
	}
	return captured
}

// capturingResponseWriter wraps an http.ResponseWriter to retain the
// status code and up to maxBodySize bytes of the response body. It keeps
// http.Flusher and http.Hijacker working so streaming responses and
// upgraded connections pass through.
type capturingResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	body        bytes.Buffer
	maxBodySize int64
	truncated   bool
	wroteHeader bool
	failed      bool // set when the forward to the target failed
}

func newCapturingResponseWriter(w http.ResponseWriter, maxBodySize int64) *capturingResponseWriter {
	return &capturingResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		maxBodySize:    maxBodySize,
	}
}

func (crw *capturingResponseWriter) WriteHeader(code int) {
	if !crw.wroteHeader {
		crw.statusCode = code
		crw.wroteHeader = true
	}
	crw.ResponseWriter.WriteHeader(code)
}

func (crw *capturingResponseWriter) Write(p []byte) (int, error) {
	if !crw.truncated {
		remaining := crw.maxBodySize - int64(crw.body.Len())
		if remaining > 0 {
			toCapture := p
			if int64(len(p)) > remaining {
				toCapture = p[:remaining]
				crw.truncated = true
			}
			crw.body.Write(toCapture)
		} else {
			crw.truncated = true
		}
	}
	return crw.ResponseWriter.Write(p)
}

func (crw *capturingResponseWriter) Flush() {
	if f, ok := crw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (crw *capturingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := crw.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacking not supported")
}

func (crw *capturingResponseWriter) Unwrap() http.ResponseWriter {
	return crw.ResponseWriter
}

// flattenHeaders collapses multi-valued headers into a single display
// value per key.
func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(h))
	for k, v := range h {
		flat[k] = strings.Join(v, ", ")
	}
	return flat
}

// bodyText returns captured bytes as display text, or "" for binary data.
func bodyText(data []byte, contentType string) string {
	if len(data) == 0 || isBinaryContent(data, contentType) {
		return ""
	}
	return string(data)
}

// isBinaryContent determines if content appears to be binary based on data
// and content type.
func isBinaryContent(data []byte, contentType string) bool {
	if contentType != "" {
		ct := strings.ToLower(contentType)
		if strings.HasPrefix(ct, "text/") ||
			strings.Contains(ct, "json") ||
			strings.Contains(ct, "xml") ||
			strings.Contains(ct, "javascript") ||
			strings.Contains(ct, "html") {
			return false
		}
		if strings.HasPrefix(ct, "image/") ||
			strings.HasPrefix(ct, "audio/") ||
			strings.HasPrefix(ct, "video/") ||
			strings.Contains(ct, "octet-stream") ||
			strings.Contains(ct, "zip") ||
			strings.Contains(ct, "gzip") ||
			strings.Contains(ct, "tar") ||
			strings.Contains(ct, "pdf") {
			return true
		}
	}

	if len(data) == 0 {
		return false
	}

	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	if !utf8.Valid(sample) {
		return true
	}
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			return true
		}
	}
	return false
}
