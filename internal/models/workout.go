package models

import "github.com/google/uuid"

// SplitType classifies which muscle groups a session targeted.
type SplitType string

const (
	SplitPush     SplitType = "push"
	SplitPull     SplitType = "pull"
	SplitLegs     SplitType = "legs"
	SplitUpper    SplitType = "upper"
	SplitLower    SplitType = "lower"
	SplitFullBody SplitType = "full_body"
)

// Label returns a human-readable name, e.g. "Full Body".
func (s SplitType) Label() string {
	switch s {
	case SplitPush:
		return "Push"
	case SplitPull:
		return "Pull"
	case SplitLegs:
		return "Legs"
	case SplitUpper:
		return "Upper Body"
	case SplitLower:
		return "Lower Body"
	default:
		return "Full Body"
	}
}

// DefaultAIRPE is applied to AI-parsed sets that carry no RPE.
const DefaultAIRPE = 7.0

// SetEntry is one performed set. WeightKg is always in kilograms.
type SetEntry struct {
	Reps     int      `json:"reps"`
	WeightKg float64  `json:"weight"`
	RPE      *float64 `json:"rpe,omitempty"`
}

// ParsedExercise is one exercise line after parsing and normalization.
type ParsedExercise struct {
	RawName           string     `json:"raw_name"`
	NormalizedName    string     `json:"normalized_name"`
	Sets              []SetEntry `json:"sets"`
	TotalVolumeKg     float64    `json:"total_volume_kg"`
	MuscleGroups      []string   `json:"muscle_groups"`
	MatchedExerciseID *uuid.UUID `json:"matched_exercise_id,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

// SessionMeta is aggregate metadata derived from a list of exercises.
type SessionMeta struct {
	SplitType                SplitType `json:"split_type"`
	TotalVolumeKg            float64   `json:"total_volume_kg"`
	TotalSets                int       `json:"total_sets"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes"`
}

// ParseResult is the output of one parse invocation.
type ParseResult struct {
	Exercises   []ParsedExercise `json:"exercises"`
	SessionMeta SessionMeta      `json:"session_meta"`
	Warnings    []string         `json:"warnings"`
}

// Volume returns Σ(reps × weight) over the given sets.
func Volume(sets []SetEntry) float64 {
	var v float64
	for _, s := range sets {
		v += float64(s.Reps) * s.WeightKg
	}
	return v
}

// RepeatSet returns n identical copies of s.
func RepeatSet(s SetEntry, n int) []SetEntry {
	sets := make([]SetEntry, n)
	for i := range sets {
		sets[i] = s
		if s.RPE != nil {
			rpe := *s.RPE
			sets[i].RPE = &rpe
		}
	}
	return sets
}
