// Package freetext parses hand-typed strength-training logs such as
// "Bankdrücken 4x10 80kg @7" into structured exercises.
//
// Each non-blank line is one exercise: a name followed by straight-set
// notation "<sets> x <reps> <weight> [unit] [@ <rpe>]". Lines that cannot be
// read produce a warning instead of an error.
package freetext

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/vocab"
)

// Warning texts.
const (
	WarnNoExercises = "no exercises recognized; expected format: '<exercise> 4x10 80kg @7'"

	warnLineFormat = "line not recognized: %s"
	warnSetFormat  = "set format not recognized for: %s"
)

// KgPerLb converts pounds to kilograms.
const KgPerLb = 0.45359237

const (
	minNameLen = 2
	maxSets    = 100
	maxReps    = 1000
)

var (
	errExpectedSets   = errors.New("expected set count")
	errExpectedTimes  = errors.New("expected x separator")
	errExpectedReps   = errors.New("expected rep count")
	errExpectedWeight = errors.New("expected weight")
	errExpectedRPE    = errors.New("expected RPE value")
	errTrailing       = errors.New("unexpected trailing input")
)

// listMarkerRe matches leading enumeration such as "1." or "2)".
var listMarkerRe = regexp.MustCompile(`^\d+[.)]\s+`)

// bulletPrefixes mark a line as commentary.
var bulletPrefixes = []string{"•", "·", "-", "–", "*", "#", ">", "//"}

// instructionPrefixes mark a line as instructional text. Matched
// case-insensitively at a word boundary.
var instructionPrefixes = []string{
	"notiz:", "note:", "notes:", "hinweis:", "tipp:", "tip:", "kommentar:", "comment:",
	"pause:", "rest:", "aufwärmen", "warm-up", "warmup",
}

// Parser reads free-text logs. It holds no per-call state.
type Parser struct {
	vocab *vocab.Vocabulary
}

// New creates a Parser backed by the given vocabulary.
func New(v *vocab.Vocabulary) *Parser {
	return &Parser{vocab: v}
}

// setSpec is the parsed set notation of one line.
type setSpec struct {
	sets     int
	reps     int
	weightKg float64
	rpe      *float64
}

// Parse splits text into exercises. It never fails: unreadable lines are
// reported as warnings and skipped. Both returned slices are non-nil.
func (p *Parser) Parse(text string) ([]models.ParsedExercise, []string) {
	exercises := []models.ParsedExercise{}
	warnings := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isCommentary(line) {
			continue
		}
		line = listMarkerRe.ReplaceAllString(line, "")

		name, rest := splitName(line)
		if utf8.RuneCountInString(name) < minNameLen {
			warnings = append(warnings, fmt.Sprintf(warnLineFormat, line))
			continue
		}

		spec, err := parseSetSpec(rest)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(warnSetFormat, name))
			continue
		}

		set := models.SetEntry{Reps: spec.reps, WeightKg: spec.weightKg, RPE: spec.rpe}
		exercises = append(exercises, p.vocab.Build(name, models.RepeatSet(set, spec.sets)))
	}

	if len(exercises) == 0 {
		warnings = append(warnings, WarnNoExercises)
	}
	return exercises, warnings
}

// isCommentary reports whether a line is a bullet or instructional note.
func isCommentary(line string) bool {
	for _, b := range bulletPrefixes {
		if strings.HasPrefix(line, b) {
			return true
		}
	}
	lower := strings.ToLower(line)
	for _, prefix := range instructionPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(lower[len(prefix):])
		if strings.HasSuffix(prefix, ":") || next == utf8.RuneError || !unicode.IsLetter(next) {
			return true
		}
	}
	return false
}

// splitName returns the longest leading run of letters, spaces and
// hyphens as the name, and the remainder of the line.
func splitName(line string) (name, rest string) {
	end := len(line)
	for i, r := range line {
		if !unicode.IsLetter(r) && r != ' ' && r != '\t' && r != '-' {
			end = i
			break
		}
	}
	name = strings.TrimRight(line[:end], " \t-")
	rest = strings.TrimLeft(line[end:], " \t:")
	return strings.TrimSpace(name), rest
}

// setParser is a recursive-descent parser over the set-notation tokens:
//
//	spec   = count times count weight [rpe] EOF
//	weight = NUMBER [UNIT]
//	rpe    = ("@" ["RPE"] | "RPE") NUMBER
type setParser struct {
	toks []token
	pos  int
}

func parseSetSpec(s string) (setSpec, error) {
	p := &setParser{toks: lex(s)}
	return p.spec()
}

func (p *setParser) peek() token { return p.toks[p.pos] }

func (p *setParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *setParser) spec() (setSpec, error) {
	var spec setSpec

	sets, ok := p.count(maxSets)
	if !ok {
		return spec, errExpectedSets
	}
	if p.next().kind != tokTimes {
		return spec, errExpectedTimes
	}
	reps, ok := p.count(maxReps)
	if !ok {
		return spec, errExpectedReps
	}
	weight, err := p.weight()
	if err != nil {
		return spec, err
	}
	rpe, err := p.rpe()
	if err != nil {
		return spec, err
	}
	if p.peek().kind != tokEOF {
		return spec, errTrailing
	}

	return setSpec{sets: sets, reps: reps, weightKg: weight, rpe: rpe}, nil
}

// count consumes an integer in [1, limit].
func (p *setParser) count(limit int) (int, bool) {
	t := p.next()
	if t.kind != tokNumber || !t.isInt || t.num < 1 || t.num > float64(limit) {
		return 0, false
	}
	return int(t.num), true
}

// weight consumes a non-negative number and an optional unit, returning kilograms.
func (p *setParser) weight() (float64, error) {
	t := p.next()
	if t.kind != tokNumber {
		return 0, errExpectedWeight
	}
	w := t.num
	if p.peek().kind == tokUnit {
		if p.next().unit == unitLb {
			w = LbToKg(w)
		}
	}
	return w, nil
}

// rpe consumes an optional RPE suffix. A nil result means none was given.
func (p *setParser) rpe() (*float64, error) {
	switch p.peek().kind {
	case tokAt:
		p.next()
		if p.peek().kind == tokRPE {
			p.next()
		}
	case tokRPE:
		p.next()
	default:
		return nil, nil
	}

	t := p.next()
	if t.kind != tokNumber || t.num < 1 || t.num > 10 {
		return nil, errExpectedRPE
	}
	v := t.num
	return &v, nil
}

// LbToKg converts pounds to kilograms rounded to one decimal place.
func LbToKg(lb float64) float64 {
	return math.Round(lb*KgPerLb*10) / 10
}
