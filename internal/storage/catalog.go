package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// visibleTo restricts catalog rows to shared entries and the owner's own.
func visibleTo(ownerID uuid.UUID) sq.Or {
	return sq.Or{sq.Eq{"owner_id": nil}, sq.Eq{"owner_id": ownerID}}
}

// FindExerciseByName returns the id of the entry whose name equals name,
// ignoring case. Shared entries win over custom ones.
func (db *DB) FindExerciseByName(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error) {
	q := psql.Select("id").From("exercises").
		Where("lower(name) = lower(?)", name).
		Where(visibleTo(ownerID)).
		OrderBy("is_custom ASC", "created_at ASC").
		Limit(1)
	return db.selectID(ctx, q)
}

// FindExerciseByNameFragment returns the first entry whose name contains
// fragment, ignoring case.
func (db *DB) FindExerciseByNameFragment(ctx context.Context, fragment string, ownerID uuid.UUID) (uuid.UUID, error) {
	q := psql.Select("id").From("exercises").
		Where("name ILIKE ?", ContainsPattern(fragment)).
		Where(visibleTo(ownerID)).
		OrderBy("is_custom ASC", "name ASC").
		Limit(1)
	return db.selectID(ctx, q)
}

// CreateExercise inserts a catalog entry. A zero ID or CreatedAt is filled in.
func (db *DB) CreateExercise(ctx context.Context, e *models.ExerciseRow) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	groups := e.MuscleGroups
	if groups == nil {
		groups = []string{}
	}

	q := psql.Insert("exercises").
		Columns("id", "name", "muscle_groups", "is_compound", "is_custom", "owner_id", "created_at").
		Values(e.ID, e.Name, groups, e.IsCompound, e.IsCustom, e.OwnerID, e.CreatedAt)
	if err := db.exec(ctx, q); err != nil {
		return fmt.Errorf("inserting exercise %q: %w", e.Name, err)
	}
	return nil
}

// ListExercises returns the catalog visible to ownerID, ordered by name.
func (db *DB) ListExercises(ctx context.Context, ownerID uuid.UUID) ([]models.ExerciseRow, error) {
	query, args, err := psql.
		Select("id", "name", "muscle_groups", "is_compound", "is_custom", "owner_id", "created_at").
		From("exercises").
		Where(visibleTo(ownerID)).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRow
	for rows.Next() {
		var e models.ExerciseRow
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroups, &e.IsCompound, &e.IsCustom, &e.OwnerID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (db *DB) selectID(ctx context.Context, q sq.SelectBuilder) (uuid.UUID, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("building query: %w", err)
	}
	var id uuid.UUID
	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, wrapDBError(err)
	}
	return id, nil
}
