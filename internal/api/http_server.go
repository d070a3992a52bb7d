package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/events"
	"atelier/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Readiness is what the server needs from the background health worker.
type Readiness interface {
	Ready() bool
}

// HTTPServer exposes the REST surface over the document store.
type HTTPServer struct {
	cfg       *config.Config
	store     domain.Store
	auth      *BearerAuth
	readiness Readiness
	bus       domain.EventPublisher
	logger    zerolog.Logger
	server    *http.Server
	opTimeout time.Duration
}

func NewHTTPServer(
	cfg *config.Config,
	store domain.Store,
	readiness Readiness,
	bus domain.EventPublisher,
	logger *zerolog.Logger,
) *HTTPServer {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "http").Logger()
	}
	if bus == nil {
		bus = events.NewBus()
	}

	opTimeout := cfg.Store.OpTimeout()
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}

	srv := &HTTPServer{
		cfg:       cfg,
		store:     store,
		readiness: readiness,
		bus:       bus,
		logger:    base,
		opTimeout: opTimeout,
	}
	srv.auth = NewBearerAuth(cfg.Auth, cfg.RateLimit, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/jwt", srv.handleJWT)
	mux.HandleFunc("/services", srv.handleServices)
	mux.HandleFunc("/services/", srv.handleServiceByID)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/readyz", srv.handleReadyz)
	mux.HandleFunc("/", srv.handleRoot)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout(),
		WriteTimeout:      cfg.Server.WriteTimeout(),
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Server is running!"))
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.readiness != nil && !s.readiness.Ready() {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) handleJWT(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := s.auth.Issue(body.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// storeCtx bounds a store call with the configured operation timeout so a
// stalled database surfaces as an error instead of a hung request.
func (s *HTTPServer) storeCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.opTimeout)
}

// pathID extracts and decodes the identifier segment after prefix. A
// malformed identifier is a client error, never a server error; a path with
// extra segments is an unknown route.
func (s *HTTPServer) pathID(w http.ResponseWriter, r *http.Request, prefix string) (primitive.ObjectID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return primitive.NilObjectID, false
	}

	id, err := domain.ParseID(rest)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// decodeBody reads the request body into a free-form document.
func decodeBody(w http.ResponseWriter, r *http.Request) (domain.Document, bool) {
	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if doc == nil {
		doc = domain.Document{}
	}
	return doc, true
}

// serverError hides the store failure from the caller and logs it in full.
func (s *HTTPServer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		endpoint := endpointLabel(r.URL.Path)
		metrics.ObserveHTTP(endpoint, r.Method, recorder.status, dur)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// endpointLabel collapses identifier segments so metrics stay low-cardinality.
func endpointLabel(path string) string {
	for _, prefix := range []string{"/services/", "/bookings/"} {
		if strings.HasPrefix(path, prefix) {
			return prefix + ":id"
		}
	}
	return path
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
