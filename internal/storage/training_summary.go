package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// GetTrainingSummary returns session counts, sets, volume and split mix per period.
func (db *DB) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, userID uuid.UUID) ([]models.TrainingSummaryPeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, session_date)::date AS period,
		        split_type,
		        COUNT(*)::int,
		        COALESCE(SUM(total_sets), 0)::int,
		        COALESCE(SUM(total_volume_kg), 0),
		        COALESCE(SUM(duration_minutes), 0)::int
		 FROM training_sessions
		 WHERE session_date >= $2 AND session_date < $3 AND user_id = $4
		 GROUP BY period, split_type
		 ORDER BY period DESC, split_type`,
		TruncInterval(bucket), start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var acc SummaryAccumulator
	for rows.Next() {
		var (
			periodTime time.Time
			split      string
			r          SummaryRow
		)
		if err := rows.Scan(&periodTime, &split, &r.Sessions, &r.TotalSets, &r.TotalVolumeKg, &r.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		r.Period = periodTime.Format("2006-01-02")
		r.SplitType = models.SplitType(split)
		acc.Add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return acc.Periods(), nil
}

// SummaryRow is one (period, split) aggregate.
type SummaryRow struct {
	Period        string
	SplitType     models.SplitType
	Sessions      int
	TotalSets     int
	TotalVolumeKg float64
	TotalMinutes  int
}

// SummaryAccumulator folds per-split rows into periods, keeping first-seen
// period order.
type SummaryAccumulator struct {
	byPeriod map[string]*models.TrainingSummaryPeriod
	order    []string
}

// Add merges one row.
func (a *SummaryAccumulator) Add(r SummaryRow) {
	if a.byPeriod == nil {
		a.byPeriod = make(map[string]*models.TrainingSummaryPeriod)
	}
	p, ok := a.byPeriod[r.Period]
	if !ok {
		p = &models.TrainingSummaryPeriod{Period: r.Period, Splits: make(map[models.SplitType]int)}
		a.byPeriod[r.Period] = p
		a.order = append(a.order, r.Period)
	}
	p.Sessions += r.Sessions
	p.TotalSets += r.TotalSets
	p.TotalVolumeKg += r.TotalVolumeKg
	p.TotalMinutes += r.TotalMinutes
	p.Splits[r.SplitType] += r.Sessions
}

// Periods returns the accumulated periods. Never nil.
func (a *SummaryAccumulator) Periods() []models.TrainingSummaryPeriod {
	result := make([]models.TrainingSummaryPeriod, 0, len(a.order))
	for _, key := range a.order {
		result = append(result, *a.byPeriod[key])
	}
	return result
}

// TruncInterval converts bucket strings like "1 month" to the interval name
// that date_trunc expects (e.g. "month", "week").
func TruncInterval(bucket string) string {
	switch bucket {
	case "1 week":
		return "week"
	case "1 month":
		return "month"
	default:
		return "month"
	}
}

// PeriodStart truncates t to the start of its bucket the way date_trunc
// does: weeks start on Monday, months on the first.
func PeriodStart(t time.Time, bucket string) time.Time {
	y, m, d := t.Date()
	if TruncInterval(bucket) == "week" {
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
