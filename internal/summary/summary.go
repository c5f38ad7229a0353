// Package summary derives session-level metadata from parsed exercises.
package summary

import (
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/vocab"
)

// MinutesPerSet covers one working set plus the rest that follows it.
const MinutesPerSet = 2

var (
	pushGroups = []string{vocab.Chest, vocab.Triceps, vocab.FrontDelts}
	pullGroups = []string{vocab.Lats, vocab.Biceps, vocab.RearDelts}
	legGroups  = []string{vocab.Quads, vocab.Hamstrings, vocab.Glutes}
)

// Summarize computes totals, duration and split type for a session.
func Summarize(exercises []models.ParsedExercise) models.SessionMeta {
	var meta models.SessionMeta
	groups := make(map[string]bool)
	for _, ex := range exercises {
		meta.TotalVolumeKg += ex.TotalVolumeKg
		meta.TotalSets += len(ex.Sets)
		for _, g := range ex.MuscleGroups {
			groups[g] = true
		}
	}
	meta.EstimatedDurationMinutes = meta.TotalSets * MinutesPerSet
	meta.SplitType = InferSplit(groups)
	return meta
}

// InferSplit classifies a muscle-group union. The rules are checked in order:
//
//	push only               -> push
//	pull only               -> pull
//	legs only               -> legs
//	push + pull, no legs    -> upper
//	legs + one of push/pull -> lower
//	anything else           -> full_body
func InferSplit(groups map[string]bool) models.SplitType {
	push := anyOf(groups, pushGroups)
	pull := anyOf(groups, pullGroups)
	legs := anyOf(groups, legGroups)

	switch {
	case push && !pull && !legs:
		return models.SplitPush
	case pull && !push && !legs:
		return models.SplitPull
	case legs && !push && !pull:
		return models.SplitLegs
	case push && pull && !legs:
		return models.SplitUpper
	case legs && push != pull:
		return models.SplitLower
	default:
		return models.SplitFullBody
	}
}

func anyOf(groups map[string]bool, want []string) bool {
	for _, g := range want {
		if groups[g] {
			return true
		}
	}
	return false
}
