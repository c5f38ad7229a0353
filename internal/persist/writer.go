// Package persist writes a finalized ParseResult as a session summary, a
// detail container and per-set records.
//
// The writes are independent steps, not one transaction. Only the summary
// is required; the detail container and sets are best-effort.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// DefaultTrainingType is used when a request names none.
const DefaultTrainingType = "strength"

// Store holds the three record kinds the writer produces.
type Store interface {
	InsertTrainingSession(ctx context.Context, s *models.TrainingSessionRow) error
	InsertExerciseSession(ctx context.Context, s *models.ExerciseSessionRow) error
	InsertExerciseSet(ctx context.Context, s *models.ExerciseSetRow) error
}

// ExerciseResolver maps an exercise to a catalog id. It never fails.
type ExerciseResolver interface {
	Resolve(ctx context.Context, rawName, normalizedName string, muscleGroups []string, ownerID uuid.UUID) uuid.UUID
}

// Request is one persist call.
type Request struct {
	Result       *models.ParseResult
	RawText      string
	UserID       uuid.UUID
	SessionDate  time.Time
	TrainingType string
}

// Result reports what was written. ExerciseSessionID is nil when the
// detail container could not be written.
type Result struct {
	TrainingSessionID uuid.UUID
	ExerciseSessionID *uuid.UUID
	SetsWritten       int
	SetsFailed        int
}

// auditPayload is stored with the summary record.
type auditPayload struct {
	RawText     string                  `json:"raw_text"`
	Exercises   []models.ParsedExercise `json:"exercises"`
	SessionMeta models.SessionMeta      `json:"session_meta"`
	Warnings    []string                `json:"warnings"`
}

// Writer persists parse results.
type Writer struct {
	store    Store
	resolver ExerciseResolver
	log      *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(store Store, resolver ExerciseResolver, log *slog.Logger) *Writer {
	return &Writer{store: store, resolver: resolver, log: log}
}

// Persist writes the summary, then the detail container, then every set.
// It returns an error only when the summary write fails; nothing else is
// written in that case. Later failures are logged and reflected in Result.
// MatchedExerciseID is filled in on req.Result's exercises.
func (w *Writer) Persist(ctx context.Context, req Request) (*Result, error) {
	if req.TrainingType == "" {
		req.TrainingType = DefaultTrainingType
	}
	if req.SessionDate.IsZero() {
		req.SessionDate = time.Now().UTC()
	}
	req.SessionDate = truncateDay(req.SessionDate)

	summaryID, err := w.writeSummary(ctx, req)
	if err != nil {
		w.log.Error("training session write failed", "user", req.UserID, "error", err)
		return nil, err
	}
	res := &Result{TrainingSessionID: summaryID}

	detailID, err := w.writeDetail(ctx, req, summaryID)
	if err != nil {
		w.log.Warn("exercise session write failed, skipping sets",
			"training_session", summaryID, "error", err)
		return res, nil
	}
	res.ExerciseSessionID = &detailID

	res.SetsWritten, res.SetsFailed = w.writeSets(ctx, req, detailID)
	w.log.Info("workout persisted",
		"training_session", summaryID, "exercise_session", detailID,
		"sets_written", res.SetsWritten, "sets_failed", res.SetsFailed)
	return res, nil
}

func (w *Writer) writeSummary(ctx context.Context, req Request) (uuid.UUID, error) {
	payload, err := json.Marshal(auditPayload{
		RawText:     req.RawText,
		Exercises:   req.Result.Exercises,
		SessionMeta: req.Result.SessionMeta,
		Warnings:    req.Result.Warnings,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding session payload: %w", err)
	}

	meta := req.Result.SessionMeta
	row := &models.TrainingSessionRow{
		ID:              uuid.New(),
		UserID:          req.UserID,
		SessionDate:     req.SessionDate,
		TrainingType:    req.TrainingType,
		SplitType:       meta.SplitType,
		DurationMinutes: meta.EstimatedDurationMinutes,
		TotalVolumeKg:   meta.TotalVolumeKg,
		TotalSets:       meta.TotalSets,
		Payload:         payload,
	}
	if err := w.store.InsertTrainingSession(ctx, row); err != nil {
		return uuid.Nil, fmt.Errorf("writing training session: %w", err)
	}
	return row.ID, nil
}

func (w *Writer) writeDetail(ctx context.Context, req Request, summaryID uuid.UUID) (uuid.UUID, error) {
	row := &models.ExerciseSessionRow{
		ID:                uuid.New(),
		UserID:            req.UserID,
		TrainingSessionID: summaryID,
		SessionDate:       req.SessionDate,
		Name:              DisplayName(req.Result.SessionMeta.SplitType),
		TrainingType:      req.TrainingType,
	}
	if err := w.store.InsertExerciseSession(ctx, row); err != nil {
		return uuid.Nil, fmt.Errorf("writing exercise session: %w", err)
	}
	return row.ID, nil
}

func (w *Writer) writeSets(ctx context.Context, req Request, detailID uuid.UUID) (written, failed int) {
	for i := range req.Result.Exercises {
		ex := &req.Result.Exercises[i]
		exerciseID := w.resolver.Resolve(ctx, ex.RawName, ex.NormalizedName, ex.MuscleGroups, req.UserID)
		ex.MatchedExerciseID = &exerciseID

		for n, set := range ex.Sets {
			row := &models.ExerciseSetRow{
				ID:                uuid.New(),
				ExerciseSessionID: detailID,
				ExerciseID:        exerciseID,
				UserID:            req.UserID,
				SetNumber:         n + 1,
				WeightKg:          set.WeightKg,
				Reps:              set.Reps,
				RPE:               set.RPE,
				Source:            models.SetSourceTextParser,
			}
			if err := w.store.InsertExerciseSet(ctx, row); err != nil {
				failed++
				w.log.Warn("exercise set write failed",
					"exercise", ex.NormalizedName, "set", n+1, "error", err)
				continue
			}
			written++
		}
	}
	return written, failed
}

// DisplayName names the detail container, e.g. "Push Workout".
func DisplayName(split models.SplitType) string {
	return split.Label() + " Workout"
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
