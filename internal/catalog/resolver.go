// Package catalog maps parsed exercise names onto catalog entries, creating
// private entries for names it has never seen.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// compoundThreshold is the muscle-group count above which an exercise is compound.
const compoundThreshold = 2

// Store is the catalog persistence the resolver needs. Lookups return
// storage.ErrNotFound when nothing matches.
type Store interface {
	FindExerciseByName(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error)
	FindExerciseByNameFragment(ctx context.Context, fragment string, ownerID uuid.UUID) (uuid.UUID, error)
	CreateExercise(ctx context.Context, e *models.ExerciseRow) error
}

// Resolver resolves exercise names to catalog ids.
type Resolver struct {
	store Store
	log   *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store Store, log *slog.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns a catalog id for the exercise. It tries an exact name
// match, then a substring match on the first word, then creates a custom
// entry owned by ownerID. It always returns an id: when creation fails the
// id is a fresh placeholder with no catalog row.
func (r *Resolver) Resolve(ctx context.Context, rawName, normalizedName string, muscleGroups []string, ownerID uuid.UUID) uuid.UUID {
	name := strings.TrimSpace(normalizedName)
	if name == "" {
		name = strings.TrimSpace(rawName)
	}

	if id, ok := r.lookup(ctx, "exact", name, ownerID, r.store.FindExerciseByName); ok {
		return id
	}

	if fields := strings.Fields(name); len(fields) > 0 {
		if id, ok := r.lookup(ctx, "fuzzy", fields[0], ownerID, r.store.FindExerciseByNameFragment); ok {
			return id
		}
	}

	e := &models.ExerciseRow{
		ID:           uuid.New(),
		Name:         name,
		MuscleGroups: muscleGroups,
		IsCompound:   len(muscleGroups) > compoundThreshold,
		IsCustom:     true,
		OwnerID:      &ownerID,
	}
	if err := r.store.CreateExercise(ctx, e); err != nil {
		placeholder := uuid.New()
		r.log.Warn("catalog create failed, using placeholder id",
			"name", name, "raw_name", rawName, "placeholder", placeholder, "error", err)
		return placeholder
	}
	r.log.Info("custom exercise created", "name", name, "id", e.ID, "owner", ownerID)
	return e.ID
}

type findFunc func(ctx context.Context, term string, ownerID uuid.UUID) (uuid.UUID, error)

func (r *Resolver) lookup(ctx context.Context, kind, term string, ownerID uuid.UUID, find findFunc) (uuid.UUID, bool) {
	id, err := find(ctx, term, ownerID)
	switch {
	case err == nil:
		return id, true
	case errors.Is(err, storage.ErrNotFound):
	default:
		r.log.Warn("catalog lookup failed", "match", kind, "term", term, "error", err)
	}
	return uuid.Nil, false
}
