package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/persist"
	"github.com/claude/liftlog/internal/storage"
)

// Parser turns raw workout text into a ParseResult. It never fails.
type Parser interface {
	Parse(ctx context.Context, text string, useAI bool) models.ParseResult
}

// Persister writes a parse result for a user.
type Persister interface {
	Persist(ctx context.Context, req persist.Request) (*persist.Result, error)
}

// Queries reads stored training data.
type Queries interface {
	QueryExerciseSets(ctx context.Context, q storage.SetQuery) ([]models.ExerciseSetResult, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, userID uuid.UUID) ([]models.TrainingSummaryPeriod, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	parser  Parser
	writer  Persister
	queries Queries
	tokens  TokenResolver
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(parser Parser, writer Persister, queries Queries, tokens TokenResolver, log *slog.Logger) *Server {
	s := &Server{
		parser:  parser,
		writer:  writer,
		queries: queries,
		tokens:  tokens,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handle serves h at pattern for any method behind bearer authentication.
// Used for the MCP endpoint.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.router.With(BearerAuth(s.tokens)).Handle(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(BearerAuth(s.tokens))
		r.Post("/api/v1/workouts/parse", s.handleParseWorkout)
		r.Get("/api/v1/exercise-sets", s.handleQueryExerciseSets)
		r.Get("/api/v1/training/summary", s.handleTrainingSummary)
	})
}
