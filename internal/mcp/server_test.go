package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/freetext"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/persist"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/vocab"
)

type fakeWriter struct {
	got *persist.Request
	err error
}

func (f *fakeWriter) Persist(_ context.Context, req persist.Request) (*persist.Result, error) {
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	return &persist.Result{TrainingSessionID: uuid.New(), SetsWritten: len(req.Result.Exercises)}, nil
}

type fakeSource struct {
	q      storage.SetQuery
	bucket string
}

func (f *fakeSource) QueryExerciseSets(_ context.Context, q storage.SetQuery) ([]models.ExerciseSetResult, error) {
	f.q = q
	return []models.ExerciseSetResult{{ExerciseName: "Bankdrücken", SetNumber: 1, WeightKg: 80, Reps: 10}}, nil
}

func (f *fakeSource) GetTrainingSummary(_ context.Context, _, _ time.Time, bucket string, _ uuid.UUID) ([]models.TrainingSummaryPeriod, error) {
	f.bucket = bucket
	return []models.TrainingSummaryPeriod{}, nil
}

func newHandlers(w *fakeWriter, ds *fakeSource) *handlers {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := ingest.NewOrchestrator(freetext.New(vocab.Default()), nil, log)
	return &handlers{parser: orch, writer: w, ds: ds, log: log}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestParseWorkoutTool verifies the preview tool returns the parse result.
func TestParseWorkoutTool(t *testing.T) {
	h := newHandlers(&fakeWriter{}, &fakeSource{})
	res, err := h.parseWorkout(context.Background(), callReq(map[string]any{"text": "Bankdrücken 4x10 80kg @7"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var got models.ParseResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Exercises) != 1 || got.SessionMeta.SplitType != models.SplitPush {
		t.Errorf("result = %+v", got)
	}
}

// TestParseWorkoutToolMissingText verifies the required argument is enforced.
func TestParseWorkoutToolMissingText(t *testing.T) {
	h := newHandlers(&fakeWriter{}, &fakeSource{})
	res, _ := h.parseWorkout(context.Background(), callReq(map[string]any{}))
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
}

// TestLogWorkoutTool verifies persistence uses the context user and arguments.
func TestLogWorkoutTool(t *testing.T) {
	w := &fakeWriter{}
	h := newHandlers(w, &fakeSource{})
	uid := uuid.New()
	ctx := auth.WithUserID(context.Background(), uid)

	res, err := h.logWorkout(ctx, callReq(map[string]any{
		"text":          "Kniebeugen 3x8 100kg",
		"training_type": "hypertrophy",
		"session_date":  "2026-03-02",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if w.got == nil {
		t.Fatal("Persist not called")
	}
	if w.got.UserID != uid {
		t.Errorf("UserID = %v, want %v", w.got.UserID, uid)
	}
	if w.got.TrainingType != "hypertrophy" {
		t.Errorf("TrainingType = %q", w.got.TrainingType)
	}
	if w.got.SessionDate.Format(time.DateOnly) != "2026-03-02" {
		t.Errorf("SessionDate = %v", w.got.SessionDate)
	}
	if !strings.Contains(resultText(t, res), "training_session_id") {
		t.Errorf("result missing training_session_id: %s", resultText(t, res))
	}
}

// TestLogWorkoutToolErrors verifies auth, date and persistence failures become tool errors.
func TestLogWorkoutToolErrors(t *testing.T) {
	authed := auth.WithUserID(context.Background(), uuid.New())
	tests := []struct {
		name string
		ctx  context.Context
		args map[string]any
		err  error
	}{
		{"unauthenticated", context.Background(), map[string]any{"text": "Kniebeugen 3x8 100kg"}, nil},
		{"bad date", authed, map[string]any{"text": "Kniebeugen 3x8 100kg", "session_date": "morgen"}, nil},
		{"persist failure", authed, map[string]any{"text": "Kniebeugen 3x8 100kg"}, errors.New("db down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(&fakeWriter{err: tt.err}, &fakeSource{})
			res, err := h.logWorkout(tt.ctx, callReq(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.IsError {
				t.Error("IsError = false, want true")
			}
		})
	}
}

// TestQueryTools verifies query tools pass the user and filters through.
func TestQueryTools(t *testing.T) {
	ds := &fakeSource{}
	h := newHandlers(&fakeWriter{}, ds)
	uid := uuid.New()
	ctx := auth.WithUserID(context.Background(), uid)

	res, _ := h.getExerciseSets(ctx, callReq(map[string]any{"exercise": "bank", "start": "2026-01-01"}))
	if res.IsError {
		t.Fatalf("get_exercise_sets error: %s", resultText(t, res))
	}
	if ds.q.UserID != uid || ds.q.Exercise != "bank" {
		t.Errorf("query = %+v", ds.q)
	}
	if ds.q.Start.Format(time.DateOnly) != "2026-01-01" {
		t.Errorf("Start = %v", ds.q.Start)
	}

	res, _ = h.getTrainingSummary(ctx, callReq(map[string]any{}))
	if res.IsError {
		t.Fatalf("get_training_summary error: %s", resultText(t, res))
	}
	if ds.bucket != "1 week" {
		t.Errorf("bucket = %q, want 1 week", ds.bucket)
	}

	res, _ = h.getExerciseSets(context.Background(), callReq(map[string]any{}))
	if !res.IsError {
		t.Error("unauthenticated query succeeded")
	}
}

// TestDefaultTimeRange verifies defaults and both accepted formats.
func TestDefaultTimeRange(t *testing.T) {
	start, end, err := defaultTimeRange("", "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := end.Sub(start).Hours(); diff < 167 || diff > 169 {
		t.Errorf("default range = %.0f hours, want ~168", diff)
	}

	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	if _, _, err := defaultTimeRange("gestern", "", 7); err == nil {
		t.Error("expected error for invalid start")
	}
}

// TestNewRegistersTools verifies the server builds with every tool.
func TestNewRegistersTools(t *testing.T) {
	h := newHandlers(&fakeWriter{}, &fakeSource{})
	s := New(h.parser, h.writer, h.ds, "test", h.log)
	if s == nil {
		t.Fatal("New returned nil")
	}
	if NewHTTPHandler(s) == nil {
		t.Error("NewHTTPHandler returned nil")
	}
}
