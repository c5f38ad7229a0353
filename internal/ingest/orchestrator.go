// Package ingest turns raw workout text into a ParseResult, choosing between
// the deterministic grammar and the AI fallback.
package ingest

import (
	"context"
	"log/slog"

	"github.com/claude/liftlog/internal/ingest/freetext"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/summary"
)

// WarnAIParsed is appended when the AI result replaces the grammar result.
const WarnAIParsed = "parsing performed via AI"

// Mode selects when the AI fallback runs.
type Mode int

const (
	// ModeDeterministicOnly never calls the fallback.
	ModeDeterministicOnly Mode = iota
	// ModeAIRequested always calls the fallback.
	ModeAIRequested
	// ModeAIFallbackOnEmpty calls the fallback only when the grammar found nothing.
	ModeAIFallbackOnEmpty
)

func (m Mode) String() string {
	switch m {
	case ModeDeterministicOnly:
		return "deterministic_only"
	case ModeAIRequested:
		return "ai_requested"
	case ModeAIFallbackOnEmpty:
		return "ai_fallback_on_empty"
	default:
		return "unknown"
	}
}

// Fallback parses text that the grammar could not handle. It returns nil
// when it has nothing usable.
type Fallback interface {
	Parse(ctx context.Context, text string) []models.ParsedExercise
}

// Orchestrator runs the parsers and picks the result. It is safe for
// concurrent use.
type Orchestrator struct {
	parser   *freetext.Parser
	fallback Fallback
	log      *slog.Logger
}

// NewOrchestrator creates an Orchestrator. fallback may be nil, which
// disables AI parsing entirely.
func NewOrchestrator(parser *freetext.Parser, fallback Fallback, log *slog.Logger) *Orchestrator {
	return &Orchestrator{parser: parser, fallback: fallback, log: log}
}

// ModeFor returns the mode a request runs in.
func (o *Orchestrator) ModeFor(useAI bool) Mode {
	switch {
	case o.fallback == nil:
		return ModeDeterministicOnly
	case useAI:
		return ModeAIRequested
	default:
		return ModeAIFallbackOnEmpty
	}
}

// Parse always returns a result; failures show up as warnings and an empty
// exercise list.
func (o *Orchestrator) Parse(ctx context.Context, text string, useAI bool) models.ParseResult {
	exercises, warnings := o.parser.Parse(text)
	primary := models.ParseResult{
		Exercises:   exercises,
		SessionMeta: summary.Summarize(exercises),
		Warnings:    warnings,
	}

	mode := o.ModeFor(useAI)
	switch mode {
	case ModeDeterministicOnly:
		return primary
	case ModeAIFallbackOnEmpty:
		if len(primary.Exercises) > 0 {
			return primary
		}
	}

	aiExercises := o.fallback.Parse(ctx, text)
	if len(aiExercises) == 0 {
		o.log.Info("ai fallback returned nothing, keeping grammar result",
			"mode", mode, "exercises", len(primary.Exercises))
		return primary
	}

	return models.ParseResult{
		Exercises:   aiExercises,
		SessionMeta: summary.Summarize(aiExercises),
		Warnings:    []string{WarnAIParsed},
	}
}
