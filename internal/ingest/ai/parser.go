// Package ai parses workout logs through an external language model when
// the deterministic grammar cannot read them.
package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/vocab"
)

// SystemPrompt instructs the model how to read German and English gym notes.
const SystemPrompt = `You convert hand-typed strength training logs into structured data by calling the record_workout tool.

Rules:
- One entry per exercise, in the order written.
- Correct obvious typos and expand abbreviations (e.g. "BD" = Bankdrücken, "KB" = Kniebeugen, "KH" = Kreuzheben, "OHP" = Schulterdrücken, "LH" = Langhantel).
- Keep German exercise names in German.
- "4x10 80kg" means 4 sets of 10 reps with 80 kg. If sets differ, use the most common reps and weight.
- "je Seite", "pro Seite" or "per side" means the stated weight is per limb or per side of the bar. Report that weight and mention it in notes.
- Convert pounds to kilograms (1 lb = 0.45359237 kg).
- If no RPE is given, use 7.
- Ignore lines that are not exercises.`

// Completer returns the raw tool input for a log.
type Completer interface {
	Complete(ctx context.Context, system, text string) (json.RawMessage, error)
}

// Parser turns a Completer response into validated exercises.
type Parser struct {
	completer Completer
	vocab     *vocab.Vocabulary
	timeout   time.Duration
	log       *slog.Logger
}

// NewParser creates a Parser. A zero timeout disables the deadline.
func NewParser(c Completer, v *vocab.Vocabulary, timeout time.Duration, log *slog.Logger) *Parser {
	return &Parser{completer: c, vocab: v, timeout: timeout, log: log}
}

// Parse returns the exercises found by the model, or nil when the call
// fails, the payload is invalid or it contains no exercises. Failures are
// logged, never returned.
func (p *Parser) Parse(ctx context.Context, text string) []models.ParsedExercise {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := p.completer.Complete(ctx, SystemPrompt, text)
	if err != nil {
		p.log.Warn("ai parse failed", "error", err, "duration", time.Since(start))
		return nil
	}

	payload, err := DecodePayload(raw)
	if err != nil {
		p.log.Warn("ai payload rejected", "error", err)
		return nil
	}
	if len(payload.Exercises) == 0 {
		p.log.Info("ai found no exercises")
		return nil
	}

	exercises := make([]models.ParsedExercise, 0, len(payload.Exercises))
	for _, it := range payload.Exercises {
		exercises = append(exercises, p.build(it))
	}
	p.log.Info("ai parse complete", "exercises", len(exercises), "duration", time.Since(start))
	return exercises
}

func (p *Parser) build(it Item) models.ParsedExercise {
	rpe := models.DefaultAIRPE
	if it.RPE != nil {
		rpe = *it.RPE
	}
	set := models.SetEntry{Reps: it.Reps, WeightKg: it.WeightKg, RPE: &rpe}

	ex := p.vocab.Build(it.Name, models.RepeatSet(set, it.Sets))
	ex.Notes = it.Notes
	return ex
}
