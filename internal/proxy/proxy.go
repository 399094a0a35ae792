// Package proxy accepts inbound connections, forwards them to the target,
// and emits one exchange record per completed or failed forward.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peekproxy/peek/internal/constants"
	"github.com/peekproxy/peek/internal/domain"
)

// Sink receives each captured exchange. It is called from request handler
// goroutines; receivers are responsible for their own synchronization.
type Sink func(domain.Exchange)

// Config holds the proxy's addressing and capture limits.
type Config struct {
	ListenAddr  string
	Target      string
	MaxBodySize int64
}

// Server is the capturing reverse proxy.
type Server struct {
	cfg        Config
	target     *url.URL
	sink       Sink
	log        zerolog.Logger
	httpServer *http.Server
}

// New creates a proxy server forwarding to cfg.Target.
func New(cfg Config, sink Sink, log zerolog.Logger) (*Server, error) {
	target, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("parsing target %q: %w", cfg.Target, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("target %q must include scheme and host", cfg.Target)
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = constants.DefaultCaptureMaxBodySize
	}

	s := &Server{
		cfg:    cfg,
		target: target,
		sink:   sink,
		log:    log,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.handler(),
	}
	return s, nil
}

// Target returns the forward address, for display.
func (s *Server) Target() string {
	return s.target.String()
}

// ListenAddr returns the inbound address, for display.
func (s *Server) ListenAddr() string {
	return s.cfg.ListenAddr
}

// Start serves until Shutdown is called. It blocks.
func (s *Server) Start() error {
	s.log.Info().Str("listen", s.cfg.ListenAddr).Str("target", s.target.String()).Msg("proxy listening")
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("proxy server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handler() http.Handler {
	rp := httputil.NewSingleHostReverseProxy(s.target)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if crw, ok := w.(*capturingResponseWriter); ok {
			crw.failed = true
		}
		s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("forward failed")
		w.WriteHeader(http.StatusBadGateway)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqHeaders := flattenHeaders(r.Header)
		reqContentType := r.Header.Get("Content-Type")
		reqBody := captureRequestBody(r, s.cfg.MaxBodySize)

		crw := newCapturingResponseWriter(w, s.cfg.MaxBodySize)
		rp.ServeHTTP(crw, r)

		ex := domain.Exchange{
			ID:        uuid.NewString(),
			Timestamp: start,
			Request: domain.Request{
				Method:  r.Method,
				Path:    r.URL.RequestURI(),
				Headers: reqHeaders,
				Body:    bodyText(reqBody.Bytes(), reqContentType),
			},
			DurationMs: -1,
		}

		if crw.failed {
			// Target unreachable: no response, no duration.
			s.emit(ex)
			return
		}

		ex.Response = &domain.Response{
			StatusCode: crw.statusCode,
			Headers:    flattenHeaders(crw.Header()),
			Body:       bodyText(crw.body.Bytes(), crw.Header().Get("Content-Type")),
		}
		ex.DurationMs = time.Since(start).Milliseconds()
		s.emit(ex)
	})
}

func (s *Server) emit(ex domain.Exchange) {
	s.log.Debug().
		Str("id", ex.ID).
		Str("method", ex.Request.Method).
		Str("path", ex.Request.Path).
		Int64("duration_ms", ex.DurationMs).
		Msg("captured exchange")
	if s.sink != nil {
		s.sink(ex)
	}
}
