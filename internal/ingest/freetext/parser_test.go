package freetext

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/claude/liftlog/internal/vocab"
)

func newParser() *Parser {
	return New(vocab.Default())
}

// TestParseSingleLine is the primary happy path: one straight-set line with RPE.
func TestParseSingleLine(t *testing.T) {
	exercises, warnings := newParser().Parse("Bankdrücken 4x10 80kg @7")

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(exercises))
	}

	ex := exercises[0]
	if ex.RawName != "Bankdrücken" {
		t.Errorf("RawName = %q, want Bankdrücken", ex.RawName)
	}
	if ex.NormalizedName != "Bankdrücken" {
		t.Errorf("NormalizedName = %q, want Bankdrücken", ex.NormalizedName)
	}
	if len(ex.Sets) != 4 {
		t.Fatalf("sets = %d, want 4", len(ex.Sets))
	}
	for i, s := range ex.Sets {
		if s.Reps != 10 || s.WeightKg != 80 {
			t.Errorf("set %d = %+v, want 10 reps @ 80kg", i, s)
		}
		if s.RPE == nil || *s.RPE != 7 {
			t.Errorf("set %d RPE = %v, want 7", i, s.RPE)
		}
	}
	if ex.TotalVolumeKg != 3200 {
		t.Errorf("TotalVolumeKg = %v, want 3200", ex.TotalVolumeKg)
	}
	for _, g := range []string{"chest", "triceps", "front_delts"} {
		if !slices.Contains(ex.MuscleGroups, g) {
			t.Errorf("MuscleGroups = %v, missing %q", ex.MuscleGroups, g)
		}
	}
}

// TestParseNotationVariants covers separators, units, decimal commas and RPE spellings.
func TestParseNotationVariants(t *testing.T) {
	rpe := func(v float64) *float64 { return &v }
	tests := []struct {
		line   string
		sets   int
		reps   int
		weight float64
		rpe    *float64
	}{
		{"Kniebeugen 3x8 100kg", 3, 8, 100, nil},
		{"Kniebeugen 3 x 8 100 kg", 3, 8, 100, nil},
		{"Kniebeugen 3×8 100", 3, 8, 100, nil},
		{"Kniebeugen 3*8 100KG", 3, 8, 100, nil},
		{"Kniebeugen 3X8 102,5kg", 3, 8, 102.5, nil},
		{"Kniebeugen 3x8 102.5 kgs RPE 8", 3, 8, 102.5, rpe(8)},
		{"Kniebeugen 3x8 100kg @ RPE 8.5", 3, 8, 100, rpe(8.5)},
		{"Kniebeugen: 3x8 100kg @9", 3, 8, 100, rpe(9)},
		{"Kniebeugen - 3x8 100kg", 3, 8, 100, nil},
		{"1. Kniebeugen 3x8 100kg", 3, 8, 100, nil},
		{"Kniebeugen 3x8 100 lbs", 3, 8, 45.4, nil},
		{"Kniebeugen 2x5 0kg", 2, 5, 0, nil},
	}
	p := newParser()
	for _, tt := range tests {
		exercises, warnings := p.Parse(tt.line)
		if len(exercises) != 1 {
			t.Errorf("%q: exercises = %d (warnings %v), want 1", tt.line, len(exercises), warnings)
			continue
		}
		ex := exercises[0]
		if len(ex.Sets) != tt.sets {
			t.Errorf("%q: sets = %d, want %d", tt.line, len(ex.Sets), tt.sets)
			continue
		}
		s := ex.Sets[0]
		if s.Reps != tt.reps {
			t.Errorf("%q: reps = %d, want %d", tt.line, s.Reps, tt.reps)
		}
		if s.WeightKg != tt.weight {
			t.Errorf("%q: weight = %v, want %v", tt.line, s.WeightKg, tt.weight)
		}
		switch {
		case tt.rpe == nil && s.RPE != nil:
			t.Errorf("%q: rpe = %v, want none", tt.line, *s.RPE)
		case tt.rpe != nil && (s.RPE == nil || *s.RPE != *tt.rpe):
			t.Errorf("%q: rpe = %v, want %v", tt.line, s.RPE, *tt.rpe)
		}
	}
}

// TestLbToKg verifies the one-decimal rounding of the pound conversion.
func TestLbToKg(t *testing.T) {
	tests := []struct {
		lb, kg float64
	}{
		{100, 45.4},
		{45, 20.4},
		{225, 102.1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := LbToKg(tt.lb); got != tt.kg {
			t.Errorf("LbToKg(%v) = %v, want %v", tt.lb, got, tt.kg)
		}
	}
}

// TestParseMultiLine verifies order preservation and aggregate volume.
func TestParseMultiLine(t *testing.T) {
	exercises, warnings := newParser().Parse("Kniebeugen 3x8 100kg\nKreuzheben 3x5 120kg")
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(exercises))
	}
	if exercises[0].NormalizedName != "Kniebeugen" || exercises[1].NormalizedName != "Kreuzheben" {
		t.Errorf("order = [%s %s], want [Kniebeugen Kreuzheben]", exercises[0].NormalizedName, exercises[1].NormalizedName)
	}
	if exercises[0].TotalVolumeKg != 2400 {
		t.Errorf("Kniebeugen volume = %v, want 2400", exercises[0].TotalVolumeKg)
	}
	if exercises[1].TotalVolumeKg != 1800 {
		t.Errorf("Kreuzheben volume = %v, want 1800", exercises[1].TotalVolumeKg)
	}
}

// TestParsePartialFailure keeps both the recognized exercise and the warning.
func TestParsePartialFailure(t *testing.T) {
	exercises, warnings := newParser().Parse("Bankdrücken 4x10 80kg\nheute war ich müde 123")
	if len(exercises) != 1 {
		t.Errorf("exercises = %d, want 1", len(exercises))
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", warnings)
	}
	if warnings[0] != "set format not recognized for: heute war ich müde" {
		t.Errorf("warning = %q", warnings[0])
	}
}

// TestParseWarnings distinguishes bad names from bad set notation.
func TestParseWarnings(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"4x10 80kg", "line not recognized: 4x10 80kg"},
		{"B 4x10 80kg", "line not recognized: B 4x10 80kg"},
		{"!!!", "line not recognized: !!!"},
		{"Bankdrücken", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 4x 80kg", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 4x10", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 4x10 80kg @11", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 4x10 80kg leicht", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 0x10 80kg", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 2.5x10 80kg", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 500x1 80kg", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 3x1001 80kg", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 3x99999999999999999999 80kg", "set format not recognized for: Bankdrücken"},
		{"Bankdrücken 3x10 " + strings.Repeat("9", 400) + "kg", "set format not recognized for: Bankdrücken"},
	}
	p := newParser()
	for _, tt := range tests {
		exercises, warnings := p.Parse(tt.line)
		if len(exercises) != 0 {
			t.Errorf("%q: exercises = %d, want 0", tt.line, len(exercises))
		}
		// per-line warning followed by the no-exercises notice
		if len(warnings) != 2 || warnings[0] != tt.want || warnings[1] != WarnNoExercises {
			t.Errorf("%q: warnings = %q, want [%q, %q]", tt.line, warnings, tt.want, WarnNoExercises)
		}
	}
}

// TestParseEmptyInput verifies blank input yields the no-exercises warning only.
func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		exercises, warnings := newParser().Parse(in)
		if exercises == nil || len(exercises) != 0 {
			t.Errorf("Parse(%q) exercises = %v, want empty non-nil", in, exercises)
		}
		if len(warnings) != 1 || warnings[0] != WarnNoExercises {
			t.Errorf("Parse(%q) warnings = %v, want [%q]", in, warnings, WarnNoExercises)
		}
	}
}

// TestParseSkipsCommentary verifies bullets and notes produce no warnings.
func TestParseSkipsCommentary(t *testing.T) {
	text := `# Push Tag
- locker angefangen
• gute Form
Notiz: Schulter zwickt
Aufwärmen 10 min Rad
Bankdrücken 4x10 80kg @7
Pausenkniebeugen 3x5 90kg`

	exercises, warnings := newParser().Parse(text)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(exercises))
	}
	if exercises[1].NormalizedName != "Pausenkniebeugen" {
		t.Errorf("second exercise = %q, want Pausenkniebeugen", exercises[1].NormalizedName)
	}
}

// TestParseAliasNormalization verifies alias lookup and title-casing of unknown names.
func TestParseAliasNormalization(t *testing.T) {
	exercises, _ := newParser().Parse("bench press 3x5 100kg\nzercher squats 3x5 80kg")
	if len(exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(exercises))
	}
	if exercises[0].RawName != "bench press" || exercises[0].NormalizedName != "Bankdrücken" {
		t.Errorf("exercise 0 = %q -> %q", exercises[0].RawName, exercises[0].NormalizedName)
	}
	if exercises[1].NormalizedName != "Zercher Squats" {
		t.Errorf("exercise 1 normalized = %q, want Zercher Squats", exercises[1].NormalizedName)
	}
	if !slices.Equal(exercises[1].MuscleGroups, []string{"other"}) {
		t.Errorf("unknown exercise groups = %v, want [other]", exercises[1].MuscleGroups)
	}
}

// TestVolumeEqualsSetSum checks total_volume_kg == Σ(reps×weight) for arbitrary lines.
func TestVolumeEqualsSetSum(t *testing.T) {
	lines := []string{
		"Curls 3x12 12,5kg", "Latzug 5x7 63.3 kg", "Dips 4x9 135 lbs", "Face Pulls 2x20 17.5",
	}
	p := newParser()
	for _, line := range lines {
		exercises, _ := p.Parse(line)
		if len(exercises) != 1 {
			t.Fatalf("%q: exercises = %d, want 1", line, len(exercises))
		}
		ex := exercises[0]
		var sum float64
		for _, s := range ex.Sets {
			sum += float64(s.Reps) * s.WeightKg
		}
		if ex.TotalVolumeKg != sum {
			t.Errorf("%q: TotalVolumeKg = %v, want %v", line, ex.TotalVolumeKg, sum)
		}
	}
}

// TestSetsAreIndependent verifies the repeated sets do not share RPE pointers.
func TestSetsAreIndependent(t *testing.T) {
	exercises, _ := newParser().Parse("Bankdrücken 2x10 80kg @7")
	sets := exercises[0].Sets
	*sets[0].RPE = 9
	if *sets[1].RPE != 7 {
		t.Errorf("set 2 RPE = %v after mutating set 1, want 7", *sets[1].RPE)
	}
}

// TestParseSetSpecErrors checks each grammar failure is reported distinctly.
func TestParseSetSpecErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", errExpectedSets},
		{"x10 80kg", errExpectedSets},
		{"4 10 80kg", errExpectedTimes},
		{"4x 80kg", errExpectedWeight},
		{"4x kg", errExpectedReps},
		{"4x10", errExpectedWeight},
		{"4x10 kg", errExpectedWeight},
		{"4x10 80kg @", errExpectedRPE},
		{"4x10 80kg @0", errExpectedRPE},
		{"4x10 80kg 7", errTrailing},
	}
	for _, tt := range tests {
		_, err := parseSetSpec(tt.in)
		if !errors.Is(err, tt.want) {
			t.Errorf("parseSetSpec(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

// TestLexNumbers verifies decimal handling in the lexer.
func TestLexNumbers(t *testing.T) {
	toks := lex("12,5 7.25 3")
	want := []float64{12.5, 7.25, 3}
	for i, w := range want {
		if toks[i].kind != tokNumber || math.Abs(toks[i].num-w) > 1e-9 {
			t.Errorf("token %d = %+v, want number %v", i, toks[i], w)
		}
	}
	if toks[0].isInt || !toks[2].isInt {
		t.Errorf("isInt flags wrong: %v %v", toks[0].isInt, toks[2].isInt)
	}
}

// TestLexOverflow verifies numbers beyond float64 range are not numbers.
func TestLexOverflow(t *testing.T) {
	toks := lex(strings.Repeat("9", 400))
	if toks[0].kind != tokOther {
		t.Errorf("token = %+v, want tokOther", toks[0])
	}
}
