// Package http implements the proxy with the HTTP server of the standard
// library. Every request gets a request ID and is logged.
package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/dela-pool"
	"golang.org/x/xerrors"
)

type key int

const (
	requestIDKey key = 0

	shutdownTimeout = 10 * time.Second
)

// HTTP defines a proxy http
//
// - implements proxy.Proxy
type HTTP struct {
	sync.Mutex

	mux        *http.ServeMux
	server     *http.Server
	ln         net.Listener
	logger     zerolog.Logger
	listenAddr string
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewHTTP creates a new proxy http. An empty address means a random port on
// all the interfaces.
func NewHTTP(listenAddr string) *HTTP {
	logger := dela.Logger.With().Str("role", "http proxy").Logger()

	nextRequestID := func() string {
		return xid.New().String()
	}

	mux := http.NewServeMux()

	return &HTTP{
		mux: mux,
		server: &http.Server{
			Handler:           tracing(nextRequestID)(logging(logger)(mux)),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:     logger,
		listenAddr: listenAddr,
		quit:       make(chan struct{}),
	}
}

// Listen implements proxy.Proxy. It returns once the server is stopped.
func (h *HTTP) Listen() error {
	ln, err := net.Listen("tcp", h.listenAddr)
	if err != nil {
		return xerrors.Errorf("failed to create conn '%s': %v", h.listenAddr, err)
	}

	h.Lock()
	h.ln = ln
	h.Unlock()

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-h.quit
		h.logger.Info().Msg("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		h.server.SetKeepAlivesEnabled(false)

		err := h.server.Shutdown(ctx)
		if err != nil {
			h.logger.Err(err).Msg("could not gracefully shutdown the server")
		}
	}()

	h.logger.Info().Msgf("server is ready to handle requests at http://%s", ln.Addr())

	err = h.server.Serve(ln)
	if err != nil && err != http.ErrServerClosed {
		return xerrors.Errorf("failed to serve: %v", err)
	}

	<-done
	h.logger.Info().Msg("server stopped")

	return nil
}

// Stop implements proxy.Proxy. It can be called multiple times.
func (h *HTTP) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

// GetAddr implements proxy.Proxy.
func (h *HTTP) GetAddr() net.Addr {
	h.Lock()
	defer h.Unlock()

	if h.ln == nil {
		return nil
	}

	return h.ln.Addr()
}

// RegisterHandler implements proxy.Proxy.
func (h *HTTP) RegisterHandler(path string, handler func(http.ResponseWriter,
	*http.Request)) {

	h.mux.HandleFunc(path, handler)
}

// logging is a utility function that logs the http server events
func logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				requestID, ok := r.Context().Value(requestIDKey).(string)
				if !ok {
					requestID = "unknown"
				}
				logger.Info().Str("requestID", requestID).
					Str("method", r.Method).
					Str("url", r.URL.Path).
					Str("remoteAddr", r.RemoteAddr).
					Str("agent", r.UserAgent()).Msg("")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// tracing is a utility function that adds header tracing
func tracing(nextRequestID func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = nextRequestID()
			}
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)
			w.Header().Set("X-Request-Id", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
