package proxy

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekproxy/peek/internal/domain"
)

// collectSink gathers emitted exchanges for inspection.
type collectSink struct {
	mu        sync.Mutex
	exchanges []domain.Exchange
}

func (c *collectSink) sink(ex domain.Exchange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exchanges = append(c.exchanges, ex)
}

func (c *collectSink) last(t *testing.T) domain.Exchange {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.exchanges)
	return c.exchanges[len(c.exchanges)-1]
}

func newTestProxy(t *testing.T, target string, maxBody int64) (http.Handler, *collectSink) {
	t.Helper()
	sink := &collectSink{}
	s, err := New(Config{
		ListenAddr:  "127.0.0.1:0",
		Target:      target,
		MaxBodySize: maxBody,
	}, sink.sink, zerolog.Nop())
	require.NoError(t, err)
	return s.handler(), sink
}

func TestNew(t *testing.T) {
	t.Run("rejects a target without scheme", func(t *testing.T) {
		_, err := New(Config{Target: "localhost:3000"}, nil, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("accepts http targets", func(t *testing.T) {
		s, err := New(Config{ListenAddr: "127.0.0.1:0", Target: "http://localhost:3000"}, nil, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", s.Target())
	})
}

func TestProxy_Capture(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Backend", "yes")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"echo":%q}`, string(body))
	}))
	defer backend.Close()

	handler, sink := newTestProxy(t, backend.URL, 0)

	t.Run("forwards and captures a full exchange", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/things?x=1", strings.NewReader(`{"name":"a"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		ex := sink.last(t)
		assert.NotEmpty(t, ex.ID)
		assert.Equal(t, "POST", ex.Request.Method)
		assert.Equal(t, "/things?x=1", ex.Request.Path)
		assert.Equal(t, `{"name":"a"}`, ex.Request.Body)
		assert.Equal(t, "application/json", ex.Request.Headers["Content-Type"])

		require.NotNil(t, ex.Response)
		assert.Equal(t, http.StatusCreated, ex.Response.StatusCode)
		assert.Equal(t, "yes", ex.Response.Headers["X-Backend"])
		assert.Contains(t, ex.Response.Body, `"echo"`)
		assert.True(t, ex.HasDuration())
	})

	t.Run("client still receives the full response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("payload"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), "payload")
	})
}

func TestProxy_UnreachableTarget(t *testing.T) {
	// A backend that is immediately closed gives a connection refused.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	handler, sink := newTestProxy(t, backend.URL, 0)

	req := httptest.NewRequest(http.MethodGet, "/down", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	ex := sink.last(t)
	assert.Nil(t, ex.Response)
	assert.Equal(t, int64(-1), ex.DurationMs)
	assert.False(t, ex.HasDuration())
	assert.Equal(t, "GET", ex.Request.Method)
}

func TestProxy_BodyCap(t *testing.T) {
	large := strings.Repeat("z", 4096)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		io.WriteString(w, large)
	}))
	defer backend.Close()

	handler, sink := newTestProxy(t, backend.URL, 100)

	req := httptest.NewRequest(http.MethodPost, "/big", strings.NewReader(large))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// The wire is unaffected by the capture cap.
	assert.Len(t, rec.Body.String(), 4096)

	ex := sink.last(t)
	assert.Len(t, ex.Request.Body, 100)
	require.NotNil(t, ex.Response)
	assert.Len(t, ex.Response.Body, 100)
}

func TestProxy_BinaryBodies(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x00, 0x01, 0x02, 0xff})
	}))
	defer backend.Close()

	handler, sink := newTestProxy(t, backend.URL, 0)

	req := httptest.NewRequest(http.MethodGet, "/blob", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	ex := sink.last(t)
	require.NotNil(t, ex.Response)
	assert.Empty(t, ex.Response.Body, "binary bodies are not retained as text")
}

func TestFlattenHeaders(t *testing.T) {
	h := http.Header{}
	h.Add("Accept", "text/html")
	h.Add("Accept", "application/json")
	h.Set("Host", "example.com")

	flat := flattenHeaders(h)

	assert.Equal(t, "text/html, application/json", flat["Accept"])
	assert.Equal(t, "example.com", flat["Host"])
	assert.Empty(t, flattenHeaders(nil))
}

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        bool
	}{
		{"json by content type", []byte(`{}`), "application/json", false},
		{"text by content type", []byte("hi"), "text/plain; charset=utf-8", false},
		{"image by content type", []byte("GIF89a"), "image/gif", true},
		{"octet stream", []byte("anything"), "application/octet-stream", true},
		{"tar archive", []byte("readable"), "application/x-tar", true},
		{"invalid utf8 without type", []byte{0xff, 0xfe, 0x00}, "", true},
		{"plain ascii without type", []byte("hello\nworld"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBinaryContent(tt.data, tt.contentType))
		})
	}
}

func TestCaptureBuffer(t *testing.T) {
	t.Run("caps retained bytes but reports full writes", func(t *testing.T) {
		cb := newCaptureBuffer(5)

		n, err := cb.Write([]byte("abcdefgh"))
		require.NoError(t, err)
		assert.Equal(t, 8, n)
		assert.Equal(t, "abcde", string(cb.Bytes()))

		n, err = cb.Write([]byte("more"))
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "abcde", string(cb.Bytes()))
	})
}
