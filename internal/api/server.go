// Package api serves the score service over HTTP: the leaderboard list, score
// submission and health probes.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/runner-go/internal/store"
)

// RequestTimeout bounds every request.
const RequestTimeout = 30 * time.Second

// Server handles HTTP requests
type Server struct {
	db           store.DB
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
	now          func() time.Time
}

// NewServer creates a new API server. A nil logger logs to stdout.
func NewServer(db store.DB, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	}

	server := &Server{
		db:           db,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
		now:          time.Now,
	}

	logger.Printf("server_init version=%s git_commit=%s database_enabled=%t", Version, GitCommit, db != nil)
	return server
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(s.CORSMiddleware)
	r.Use(BodyLimitMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/scores", s.handleListScores)
		r.Post("/scores", s.handleSubmitScore)
	})

	// Routes the game client calls directly
	r.Get("/scores", s.handleListScores)
	r.Post("/scores", s.handleSubmitScore)

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Runner-Version", Version)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("response_encode_failed status=%d err=%v", status, err)
	}
}
