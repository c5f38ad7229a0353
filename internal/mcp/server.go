// Package mcp exposes workout parsing, logging and queries as MCP tools.
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/persist"
	"github.com/claude/liftlog/internal/storage"
)

// Parser turns raw workout text into a ParseResult.
type Parser interface {
	Parse(ctx context.Context, text string, useAI bool) models.ParseResult
}

// Persister writes a parse result for a user.
type Persister interface {
	Persist(ctx context.Context, req persist.Request) (*persist.Result, error)
}

// DataSource abstracts the query side of the store. Both the PostgreSQL
// and SQLite stores satisfy it.
type DataSource interface {
	QueryExerciseSets(ctx context.Context, q storage.SetQuery) ([]models.ExerciseSetResult, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, userID uuid.UUID) ([]models.TrainingSummaryPeriod, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// New creates an MCP server with all tools registered.
func New(parser Parser, writer Persister, ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftlog", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("liftlog strength-training log. Parse free-text workouts such as "+
			"'Bankdrücken 4x10 80kg @7', save them, and query logged sets and weekly or monthly "+
			"training volume. All data is scoped to the authenticated user."),
	)

	h := &handlers{parser: parser, writer: writer, ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolParseWorkout, Handler: h.parseWorkout},
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
		server.ServerTool{Tool: toolGetExerciseSets, Handler: h.getExerciseSets},
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
	)

	return s
}

// NewHTTPHandler serves s over streamable HTTP. The user id placed in the
// request context by the auth middleware is carried into tool calls.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := auth.UserIDFrom(r.Context()); ok {
				return auth.WithUserID(ctx, id)
			}
			return ctx
		}),
	)
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	parser Parser
	writer Persister
	ds     DataSource
	log    *slog.Logger
}
