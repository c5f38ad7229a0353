package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SetSourceTextParser tags per-set rows written from a parsed free-text log.
const SetSourceTextParser = "text_parser"

// ExerciseRow is a row in the exercises catalog table.
// OwnerID is nil for shared entries.
type ExerciseRow struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	MuscleGroups []string   `json:"muscle_groups"`
	IsCompound   bool       `json:"is_compound"`
	IsCustom     bool       `json:"is_custom"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TrainingSessionRow is the coarse session-summary record.
// Payload holds the raw text and parse result as an audit trail.
type TrainingSessionRow struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	SessionDate     time.Time       `json:"session_date"`
	TrainingType    string          `json:"training_type"`
	SplitType       SplitType       `json:"split_type"`
	DurationMinutes int             `json:"duration_minutes"`
	TotalVolumeKg   float64         `json:"total_volume_kg"`
	TotalSets       int             `json:"total_sets"`
	Payload         json.RawMessage `json:"payload,omitempty"`
}

// ExerciseSessionRow is the detail container that per-set rows hang off.
type ExerciseSessionRow struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	TrainingSessionID uuid.UUID `json:"training_session_id"`
	SessionDate       time.Time `json:"session_date"`
	Name              string    `json:"name"`
	TrainingType      string    `json:"training_type"`
}

// ExerciseSetRow is one per-set record. ExerciseID may reference a
// placeholder that has no catalog row.
type ExerciseSetRow struct {
	ID                uuid.UUID `json:"id"`
	ExerciseSessionID uuid.UUID `json:"exercise_session_id"`
	ExerciseID        uuid.UUID `json:"exercise_id"`
	UserID            uuid.UUID `json:"user_id"`
	SetNumber         int       `json:"set_number"`
	WeightKg          float64   `json:"weight_kg"`
	Reps              int       `json:"reps"`
	RPE               *float64  `json:"rpe,omitempty"`
	Source            string    `json:"source"`
}

// ExerciseSetResult is a per-set row joined with its session and catalog name.
type ExerciseSetResult struct {
	SessionDate  time.Time `json:"session_date"`
	SessionName  string    `json:"session_name"`
	ExerciseName string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
	RPE          *float64  `json:"rpe,omitempty"`
}

// TrainingSummaryPeriod holds aggregated session stats for one period.
type TrainingSummaryPeriod struct {
	Period        string            `json:"period"`
	Sessions      int               `json:"sessions"`
	TotalSets     int               `json:"total_sets"`
	TotalVolumeKg float64           `json:"total_volume_kg"`
	TotalMinutes  int               `json:"total_minutes"`
	Splits        map[SplitType]int `json:"splits"`
}
