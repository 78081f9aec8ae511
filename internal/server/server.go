package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/berrythewa/clipqr/internal/app"
	"github.com/berrythewa/clipqr/internal/events"
)

const (
	defaultMaxMemory = 32 << 20
	// jsonEnvelope is the allowance for a JSON body beyond its base64 file data
	jsonEnvelope     = 64 << 10
	shutdownTimeout  = 5 * time.Second
)

// Config holds the dependencies of a Server
type Config struct {
	App        *app.App
	Dispatcher *events.Dispatcher
	Logger     *zap.Logger
	// MaxMemory bounds the in-memory part of multipart forms
	MaxMemory int64
}

// Server exposes the application over HTTP. Every interaction is turned
// into an event on the dispatcher, so the HTTP surface and the terminal UI
// drive the same handlers.
type Server struct {
	app        *app.App
	dispatcher *events.Dispatcher
	logger     *zap.Logger
	maxMemory  int64
	router     *mux.Router
}

// New creates a Server. A nil dispatcher gets one bound to the App.
func New(cfg Config) *Server {
	s := &Server{
		app:        cfg.App,
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		maxMemory:  cfg.MaxMemory,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxMemory <= 0 {
		s.maxMemory = defaultMaxMemory
	}
	if s.dispatcher == nil {
		s.dispatcher = events.NewDispatcher(s.logger)
		s.app.Bind(s.dispatcher)
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/ingest", s.handleIngest).Methods("POST")
	r.HandleFunc("/files", s.handleFiles).Methods("POST")

	r.HandleFunc("/input", s.handleInputChange).Methods("PUT")
	r.HandleFunc("/input/confirm", s.handleInputConfirm).Methods("POST")
	r.HandleFunc("/input/clear", s.handleInputClear).Methods("POST")

	r.HandleFunc("/history", s.handleHistory).Methods("GET")
	r.HandleFunc("/history/{id}/select", s.handleHistorySelect).Methods("POST")
	r.HandleFunc("/history/{id}", s.handleHistoryRemove).Methods("DELETE")

	r.HandleFunc("/qr", s.handleQR).Methods("GET")
	r.HandleFunc("/state", s.handleState).Methods("GET")

	r.HandleFunc("/panel", s.handlePanel).Methods("GET")
	r.HandleFunc("/panel/{gesture}", s.handlePanelGesture).Methods("POST")

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
