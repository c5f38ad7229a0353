// Package sqlite is a single-file store with the same operations as the
// PostgreSQL store, for running liftlog locally.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/vocab"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS exercises (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	name_key      TEXT NOT NULL,
	muscle_groups TEXT NOT NULL DEFAULT '[]',
	is_compound   INTEGER NOT NULL DEFAULT 0,
	is_custom     INTEGER NOT NULL DEFAULT 0,
	owner_id      TEXT,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS exercises_name_key_idx ON exercises (name_key);

CREATE TABLE IF NOT EXISTS training_sessions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	session_date     TEXT NOT NULL,
	training_type    TEXT NOT NULL,
	split_type       TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	total_volume_kg  REAL NOT NULL,
	total_sets       INTEGER NOT NULL,
	payload          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_sessions (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	training_session_id TEXT NOT NULL REFERENCES training_sessions (id),
	session_date        TEXT NOT NULL,
	name                TEXT NOT NULL,
	training_type       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_sets (
	id                  TEXT PRIMARY KEY,
	exercise_session_id TEXT NOT NULL REFERENCES exercise_sessions (id),
	exercise_id         TEXT NOT NULL,
	user_id             TEXT NOT NULL,
	set_number          INTEGER NOT NULL,
	weight_kg           REAL NOT NULL,
	reps                INTEGER NOT NULL,
	rpe                 REAL,
	source              TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS exercise_sets_user_idx ON exercise_sets (user_id);
`

// Store is a SQLite-backed store.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// catalogNamespace derives stable ids for shared catalog entries so
// seeding the same name twice hits the primary key.
var catalogNamespace = uuid.MustParse("0b9e3f4a-6f2e-4a51-9c1d-1a0000000000")

// Open opens (or creates) the database at path, applies the schema and
// seeds the shared catalog with the built-in vocabulary.
func Open(path string) (*Store, error) {
	s, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := s.seedCatalog(context.Background(), vocab.Builtin); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection: writes are serialized and :memory: stays a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db)}, nil
}

// seedCatalog inserts one shared entry per vocabulary entry. Existing
// entries are left alone.
func (s *Store) seedCatalog(ctx context.Context, entries []vocab.Entry) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, e := range entries {
		groups, err := json.Marshal(e.MuscleGroups)
		if err != nil {
			return fmt.Errorf("encoding muscle groups: %w", err)
		}
		_, err = s.sb.Insert("exercises").Options("OR IGNORE").
			Columns("id", "name", "name_key", "muscle_groups", "is_compound", "is_custom", "owner_id", "created_at").
			Values(uuid.NewSHA1(catalogNamespace, []byte(e.Name)).String(), e.Name, nameKey(e.Name),
				string(groups), len(e.MuscleGroups) > 2, false, nil, now).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("seeding exercise %q: %w", e.Name, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func visibleTo(ownerID uuid.UUID) sq.Or {
	return sq.Or{sq.Eq{"owner_id": nil}, sq.Eq{"owner_id": ownerID.String()}}
}

// FindExerciseByName returns the id of the entry whose name equals name,
// ignoring case. Shared entries win over custom ones.
func (s *Store) FindExerciseByName(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error) {
	q := s.sb.Select("id").From("exercises").
		Where(sq.Eq{"name_key": nameKey(name)}).
		Where(visibleTo(ownerID)).
		OrderBy("is_custom ASC", "created_at ASC").
		Limit(1)
	return scanID(q.QueryRowContext(ctx))
}

// FindExerciseByNameFragment returns the first entry whose name contains
// fragment, ignoring case.
func (s *Store) FindExerciseByNameFragment(ctx context.Context, fragment string, ownerID uuid.UUID) (uuid.UUID, error) {
	q := s.sb.Select("id").From("exercises").
		Where(`name_key LIKE ? ESCAPE '\'`, storage.ContainsPattern(nameKey(fragment))).
		Where(visibleTo(ownerID)).
		OrderBy("is_custom ASC", "name ASC").
		Limit(1)
	return scanID(q.QueryRowContext(ctx))
}

func scanID(row sq.RowScanner) (uuid.UUID, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, storage.ErrNotFound
		}
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

// CreateExercise inserts a catalog entry. A zero ID or CreatedAt is filled in.
func (s *Store) CreateExercise(ctx context.Context, e *models.ExerciseRow) error {
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
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encoding muscle groups: %w", err)
	}
	var owner any
	if e.OwnerID != nil {
		owner = e.OwnerID.String()
	}

	_, err = s.sb.Insert("exercises").
		Columns("id", "name", "name_key", "muscle_groups", "is_compound", "is_custom", "owner_id", "created_at").
		Values(e.ID.String(), e.Name, nameKey(e.Name), string(groupsJSON), e.IsCompound, e.IsCustom, owner,
			e.CreatedAt.Format(time.RFC3339Nano)).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting exercise %q: %w", e.Name, err)
	}
	return nil
}

// ListExercises returns the catalog visible to ownerID, ordered by name.
func (s *Store) ListExercises(ctx context.Context, ownerID uuid.UUID) ([]models.ExerciseRow, error) {
	rows, err := s.sb.
		Select("id", "name", "muscle_groups", "is_compound", "is_custom", "owner_id", "created_at").
		From("exercises").
		Where(visibleTo(ownerID)).
		OrderBy("name ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRow
	for rows.Next() {
		var (
			e                   models.ExerciseRow
			id, groups, created string
			owner               sql.NullString
		)
		if err := rows.Scan(&id, &e.Name, &groups, &e.IsCompound, &e.IsCustom, &owner, &created); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing exercise id: %w", err)
		}
		if err := json.Unmarshal([]byte(groups), &e.MuscleGroups); err != nil {
			return nil, fmt.Errorf("decoding muscle groups: %w", err)
		}
		if owner.Valid {
			o, err := uuid.Parse(owner.String)
			if err != nil {
				return nil, fmt.Errorf("parsing owner id: %w", err)
			}
			e.OwnerID = &o
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		result = append(result, e)
	}
	return result, rows.Err()
}

// InsertTrainingSession writes the session-summary record.
func (s *Store) InsertTrainingSession(ctx context.Context, t *models.TrainingSessionRow) error {
	_, err := s.sb.Insert("training_sessions").
		Columns("id", "user_id", "session_date", "training_type", "split_type",
			"duration_minutes", "total_volume_kg", "total_sets", "payload").
		Values(t.ID.String(), t.UserID.String(), t.SessionDate.Format(time.DateOnly), t.TrainingType,
			string(t.SplitType), t.DurationMinutes, t.TotalVolumeKg, t.TotalSets, string(t.Payload)).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting training session: %w", err)
	}
	return nil
}

// InsertExerciseSession writes the detail container for per-set rows.
func (s *Store) InsertExerciseSession(ctx context.Context, e *models.ExerciseSessionRow) error {
	_, err := s.sb.Insert("exercise_sessions").
		Columns("id", "user_id", "training_session_id", "session_date", "name", "training_type").
		Values(e.ID.String(), e.UserID.String(), e.TrainingSessionID.String(),
			e.SessionDate.Format(time.DateOnly), e.Name, e.TrainingType).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting exercise session: %w", err)
	}
	return nil
}

// InsertExerciseSet writes one per-set record.
func (s *Store) InsertExerciseSet(ctx context.Context, r *models.ExerciseSetRow) error {
	_, err := s.sb.Insert("exercise_sets").
		Columns("id", "exercise_session_id", "exercise_id", "user_id", "set_number",
			"weight_kg", "reps", "rpe", "source").
		Values(r.ID.String(), r.ExerciseSessionID.String(), r.ExerciseID.String(), r.UserID.String(),
			r.SetNumber, r.WeightKg, r.Reps, r.RPE, r.Source).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("inserting exercise set %d: %w", r.SetNumber, err)
	}
	return nil
}

// endKey is the exclusive date bound for end. A bound inside a day keeps
// that day in range.
func endKey(end time.Time) string {
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	if day.Before(end) {
		day = day.AddDate(0, 0, 1)
	}
	return day.Format(time.DateOnly)
}

// QueryExerciseSets retrieves per-set records in a date range.
func (s *Store) QueryExerciseSets(ctx context.Context, q storage.SetQuery) ([]models.ExerciseSetResult, error) {
	sel := s.sb.Select("es.session_date", "es.name", "COALESCE(e.name, '')",
		"s.set_number", "s.weight_kg", "s.reps", "s.rpe").
		From("exercise_sets s").
		Join("exercise_sessions es ON es.id = s.exercise_session_id").
		LeftJoin("exercises e ON e.id = s.exercise_id").
		Where(sq.Eq{"s.user_id": q.UserID.String()}).
		Where(sq.GtOrEq{"es.session_date": q.Start.Format(time.DateOnly)}).
		Where(sq.Lt{"es.session_date": endKey(q.End)}).
		OrderBy("es.session_date DESC", "es.id", "e.name", "s.set_number ASC")
	if q.Exercise != "" {
		sel = sel.Where(`e.name_key LIKE ? ESCAPE '\'`, storage.ContainsPattern(nameKey(q.Exercise)))
	}

	rows, err := sel.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sets: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseSetResult
	for rows.Next() {
		var (
			r    models.ExerciseSetResult
			date string
			rpe  sql.NullFloat64
		)
		if err := rows.Scan(&date, &r.SessionName, &r.ExerciseName, &r.SetNumber, &r.WeightKg, &r.Reps, &rpe); err != nil {
			return nil, fmt.Errorf("scanning exercise set: %w", err)
		}
		if r.SessionDate, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("parsing session date: %w", err)
		}
		if rpe.Valid {
			r.RPE = &rpe.Float64
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetTrainingSummary returns session counts, sets, volume and split mix per
// period. Periods are computed in Go since SQLite has no date_trunc.
func (s *Store) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, userID uuid.UUID) ([]models.TrainingSummaryPeriod, error) {
	rows, err := s.sb.Select("session_date", "split_type", "total_sets", "total_volume_kg", "duration_minutes").
		From("training_sessions").
		Where(sq.Eq{"user_id": userID.String()}).
		Where(sq.GtOrEq{"session_date": start.Format(time.DateOnly)}).
		Where(sq.Lt{"session_date": endKey(end)}).
		OrderBy("session_date DESC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var acc storage.SummaryAccumulator
	for rows.Next() {
		var (
			date, split string
			r           storage.SummaryRow
		)
		if err := rows.Scan(&date, &split, &r.TotalSets, &r.TotalVolumeKg, &r.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		d, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("parsing session date: %w", err)
		}
		r.Period = storage.PeriodStart(d, bucket).Format(time.DateOnly)
		r.SplitType = models.SplitType(split)
		r.Sessions = 1
		acc.Add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return acc.Periods(), nil
}
