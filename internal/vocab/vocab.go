// Package vocab maps colloquial exercise names to canonical names and
// canonical names to the muscle groups they train.
//
// A Vocabulary is immutable after construction and safe for concurrent use.
package vocab

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/claude/liftlog/internal/models"
)

// GroupOther is returned for canonical names with no known muscle groups.
const GroupOther = "other"

// Entry describes one canonical exercise.
type Entry struct {
	Name         string   `yaml:"name"`
	Aliases      []string `yaml:"aliases"`
	MuscleGroups []string `yaml:"muscle_groups"`
}

// Vocabulary is a lookup table of aliases and muscle groups.
type Vocabulary struct {
	aliases map[string]string   // key(alias) -> canonical name
	groups  map[string][]string // key(canonical) -> muscle groups
}

// New builds a Vocabulary from entries. Later entries override earlier ones.
// Every canonical name is registered as an alias of itself.
func New(entries []Entry) *Vocabulary {
	v := &Vocabulary{
		aliases: make(map[string]string),
		groups:  make(map[string][]string),
	}
	for _, e := range entries {
		name := strings.Join(strings.Fields(e.Name), " ")
		if name == "" {
			continue
		}
		v.aliases[key(name)] = name
		for _, a := range e.Aliases {
			if k := key(a); k != "" {
				v.aliases[k] = name
			}
		}
		if len(e.MuscleGroups) > 0 {
			v.groups[key(name)] = dedupe(e.MuscleGroups)
		}
	}
	return v
}

// Normalize returns the canonical name for raw. Unknown names are
// title-cased token by token. Normalize is total and idempotent.
func (v *Vocabulary) Normalize(raw string) string {
	k := key(raw)
	if canonical, ok := v.aliases[k]; ok {
		return canonical
	}
	fields := strings.Fields(raw)
	caser := cases.Title(language.Und)
	for i, f := range fields {
		fields[i] = caser.String(f)
	}
	return strings.Join(fields, " ")
}

// MuscleGroupsFor returns the muscle groups for a canonical name, or
// {"other"} if unknown. The result is never empty.
func (v *Vocabulary) MuscleGroupsFor(normalized string) []string {
	if g, ok := v.groups[key(normalized)]; ok {
		out := make([]string, len(g))
		copy(out, g)
		return out
	}
	return []string{GroupOther}
}

// Build turns a raw name and its sets into a ParsedExercise. Both parse
// paths go through Build so their output is indistinguishable.
func (v *Vocabulary) Build(rawName string, sets []models.SetEntry) models.ParsedExercise {
	normalized := v.Normalize(rawName)
	return models.ParsedExercise{
		RawName:        strings.TrimSpace(rawName),
		NormalizedName: normalized,
		Sets:           sets,
		TotalVolumeKg:  models.Volume(sets),
		MuscleGroups:   v.MuscleGroupsFor(normalized),
	}
}

// key folds s to its lookup form: lower-cased, trimmed, single-spaced.
func key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
