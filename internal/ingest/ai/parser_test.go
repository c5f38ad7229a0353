package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeCompleter struct {
	raw      string
	err      error
	calls    int
	system   string
	deadline bool
}

func (f *fakeCompleter) Complete(ctx context.Context, system, text string) (json.RawMessage, error) {
	f.calls++
	f.system = system
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestParser(c Completer) *Parser {
	return NewParser(c, vocab.Default(), time.Second, testLogger())
}

// ---------------------------------------------------------------------------
// Parser.Parse
// ---------------------------------------------------------------------------

func TestParser_Parse_Success(t *testing.T) {
	t.Parallel()

	fc := &fakeCompleter{raw: `{"exercises":[
		{"name":"Bankdrücken","sets":3,"reps":10,"weight_kg":60},
		{"name":"kurzhantel curls","sets":2,"reps":12,"weight_kg":14,"rpe":8.5,"notes":"je Seite"}
	]}`}

	got := newTestParser(fc).Parse(context.Background(), "bd 3x10 60, kh curls 2x12 14 je seite")
	require.Len(t, got, 2)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, SystemPrompt, fc.system)
	assert.True(t, fc.deadline, "completer context should carry a deadline")

	bench := got[0]
	assert.Equal(t, "Bankdrücken", bench.NormalizedName)
	require.Len(t, bench.Sets, 3)
	for _, s := range bench.Sets {
		assert.Equal(t, 10, s.Reps)
		assert.Equal(t, 60.0, s.WeightKg)
		require.NotNil(t, s.RPE)
		assert.Equal(t, 7.0, *s.RPE, "missing rpe defaults to 7")
	}
	assert.Equal(t, 1800.0, bench.TotalVolumeKg)
	assert.Contains(t, bench.MuscleGroups, "chest")

	curls := got[1]
	assert.Equal(t, "kurzhantel curls", curls.RawName)
	assert.Equal(t, "Kurzhantel Curls", curls.NormalizedName)
	assert.Equal(t, "je Seite", curls.Notes)
	require.Len(t, curls.Sets, 2)
	assert.Equal(t, 8.5, *curls.Sets[0].RPE)
	assert.Equal(t, 336.0, curls.TotalVolumeKg)
}

func TestParser_Parse_ReturnsNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fc   *fakeCompleter
	}{
		{name: "no credentials", fc: &fakeCompleter{err: ErrNoCredentials}},
		{name: "rate limited", fc: &fakeCompleter{err: ErrRateLimited}},
		{name: "quota exceeded", fc: &fakeCompleter{err: ErrQuotaExceeded}},
		{name: "transport error", fc: &fakeCompleter{err: errors.New("connection reset")}},
		{name: "empty exercises", fc: &fakeCompleter{raw: `{"exercises":[]}`}},
		{name: "not json", fc: &fakeCompleter{raw: `Here you go!`}},
		{name: "unknown field", fc: &fakeCompleter{raw: `{"exercises":[{"name":"Dips","sets":3,"reps":8,"weight_kg":0,"tempo":"3010"}]}`}},
		{name: "negative weight", fc: &fakeCompleter{raw: `{"exercises":[{"name":"Dips","sets":3,"reps":8,"weight_kg":-5}]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newTestParser(tt.fc).Parse(context.Background(), "irgendwas")
			assert.Nil(t, got)
			assert.Equal(t, 1, tt.fc.calls)
		})
	}
}

func TestParser_Parse_NoTimeout(t *testing.T) {
	t.Parallel()

	fc := &fakeCompleter{raw: `{"exercises":[{"name":"Dips","sets":1,"reps":5,"weight_kg":10}]}`}
	p := NewParser(fc, vocab.Default(), 0, testLogger())

	require.Len(t, p.Parse(context.Background(), "dips"), 1)
	assert.False(t, fc.deadline)
}

// ---------------------------------------------------------------------------
// DecodePayload
// ---------------------------------------------------------------------------

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid minimal", raw: `{"exercises":[{"name":"Dips","sets":1,"reps":1,"weight_kg":0}]}`},
		{name: "valid empty list", raw: `{"exercises":[]}`},
		{name: "valid rpe bounds", raw: `{"exercises":[{"name":"A","sets":50,"reps":1,"weight_kg":1,"rpe":10}]}`},
		{name: "missing exercises", raw: `{}`, wantErr: true},
		{name: "null exercises", raw: `{"exercises":null}`, wantErr: true},
		{name: "blank name", raw: `{"exercises":[{"name":"  ","sets":1,"reps":1,"weight_kg":0}]}`, wantErr: true},
		{name: "too many reps", raw: `{"exercises":[{"name":"A","sets":1,"reps":1001,"weight_kg":0}]}`, wantErr: true},
		{name: "zero sets", raw: `{"exercises":[{"name":"A","sets":0,"reps":1,"weight_kg":0}]}`, wantErr: true},
		{name: "too many sets", raw: `{"exercises":[{"name":"A","sets":51,"reps":1,"weight_kg":0}]}`, wantErr: true},
		{name: "zero reps", raw: `{"exercises":[{"name":"A","sets":1,"reps":0,"weight_kg":0}]}`, wantErr: true},
		{name: "rpe too low", raw: `{"exercises":[{"name":"A","sets":1,"reps":1,"weight_kg":0,"rpe":0.5}]}`, wantErr: true},
		{name: "rpe too high", raw: `{"exercises":[{"name":"A","sets":1,"reps":1,"weight_kg":0,"rpe":11}]}`, wantErr: true},
		{name: "fractional sets", raw: `{"exercises":[{"name":"A","sets":2.5,"reps":1,"weight_kg":0}]}`, wantErr: true},
		{name: "wrong type", raw: `{"exercises":"Dips 3x8"}`, wantErr: true},
		{name: "unknown top-level field", raw: `{"exercises":[],"comment":"hi"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodePayload(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrSchemaViolation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ReflectInputSchema
// ---------------------------------------------------------------------------

func TestReflectInputSchema(t *testing.T) {
	t.Parallel()

	s, err := ReflectInputSchema()
	require.NoError(t, err)
	assert.Equal(t, []string{"exercises"}, s.Required)

	exercises, ok := s.Properties["exercises"].(map[string]any)
	require.True(t, ok, "exercises property should be an object schema")
	assert.Equal(t, "array", exercises["type"])

	items, ok := exercises["items"].(map[string]any)
	require.True(t, ok, "items should be inlined")
	required, ok := items["required"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"name", "sets", "reps", "weight_kg"}, required)

	props := items["properties"].(map[string]any)
	sets := props["sets"].(map[string]any)
	assert.EqualValues(t, 50, sets["maximum"])
}
