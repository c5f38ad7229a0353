package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// InsertTrainingSession writes the session-summary record.
func (db *DB) InsertTrainingSession(ctx context.Context, s *models.TrainingSessionRow) error {
	q := psql.Insert("training_sessions").
		Columns("id", "user_id", "session_date", "training_type", "split_type",
			"duration_minutes", "total_volume_kg", "total_sets", "payload").
		Values(s.ID, s.UserID, s.SessionDate, s.TrainingType, string(s.SplitType),
			s.DurationMinutes, s.TotalVolumeKg, s.TotalSets, []byte(s.Payload))
	if err := db.exec(ctx, q); err != nil {
		return fmt.Errorf("inserting training session: %w", err)
	}
	return nil
}

// InsertExerciseSession writes the detail container for per-set rows.
func (db *DB) InsertExerciseSession(ctx context.Context, s *models.ExerciseSessionRow) error {
	q := psql.Insert("exercise_sessions").
		Columns("id", "user_id", "training_session_id", "session_date", "name", "training_type").
		Values(s.ID, s.UserID, s.TrainingSessionID, s.SessionDate, s.Name, s.TrainingType)
	if err := db.exec(ctx, q); err != nil {
		return fmt.Errorf("inserting exercise session: %w", err)
	}
	return nil
}

// InsertExerciseSet writes one per-set record.
func (db *DB) InsertExerciseSet(ctx context.Context, s *models.ExerciseSetRow) error {
	q := psql.Insert("exercise_sets").
		Columns("id", "exercise_session_id", "exercise_id", "user_id", "set_number",
			"weight_kg", "reps", "rpe", "source").
		Values(s.ID, s.ExerciseSessionID, s.ExerciseID, s.UserID, s.SetNumber,
			s.WeightKg, s.Reps, s.RPE, s.Source)
	if err := db.exec(ctx, q); err != nil {
		return fmt.Errorf("inserting exercise set %d: %w", s.SetNumber, err)
	}
	return nil
}
