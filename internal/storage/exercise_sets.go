package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// SetQuery filters QueryExerciseSets. Exercise, when set, matches catalog
// names containing it.
type SetQuery struct {
	UserID   uuid.UUID
	Start    time.Time
	End      time.Time
	Exercise string
}

func exerciseSetsQuery(q SetQuery) sq.SelectBuilder {
	sel := psql.Select("es.session_date", "es.name", "COALESCE(e.name, '')",
		"s.set_number", "s.weight_kg", "s.reps", "s.rpe").
		From("exercise_sets s").
		Join("exercise_sessions es ON es.id = s.exercise_session_id").
		LeftJoin("exercises e ON e.id = s.exercise_id").
		Where(sq.Eq{"s.user_id": q.UserID}).
		Where(sq.GtOrEq{"es.session_date": q.Start}).
		Where(sq.Lt{"es.session_date": q.End}).
		OrderBy("es.session_date DESC", "es.id", "e.name", "s.set_number ASC")
	if q.Exercise != "" {
		sel = sel.Where(sq.ILike{"e.name": ContainsPattern(q.Exercise)})
	}
	return sel
}

// QueryExerciseSets retrieves per-set records in a date range.
func (db *DB) QueryExerciseSets(ctx context.Context, q SetQuery) ([]models.ExerciseSetResult, error) {
	query, args, err := exerciseSetsQuery(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sets: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseSetResult
	for rows.Next() {
		var r models.ExerciseSetResult
		if err := rows.Scan(&r.SessionDate, &r.SessionName, &r.ExerciseName,
			&r.SetNumber, &r.WeightKg, &r.Reps, &r.RPE); err != nil {
			return nil, fmt.Errorf("scanning exercise set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
