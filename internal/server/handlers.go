package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/persist"
	"github.com/claude/liftlog/internal/storage"
)

const maxBodyBytes = 1 << 20

// parseRequest is the body of POST /api/v1/workouts/parse.
type parseRequest struct {
	RawText      *string `json:"raw_text"`
	TrainingType string  `json:"training_type"`
	Persist      bool    `json:"persist"`
	UseAI        bool    `json:"use_ai"`
	SessionDate  string  `json:"session_date"`
}

// parseResponse is the parse result plus the ids written in persist mode.
type parseResponse struct {
	Success bool `json:"success"`
	models.ParseResult
	TrainingSessionID *uuid.UUID `json:"training_session_id,omitempty"`
	ExerciseSessionID *uuid.UUID `json:"exercise_session_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParseWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}

	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.RawText == nil || *req.RawText == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "raw_text is required"})
		return
	}

	var sessionDate time.Time
	if req.SessionDate != "" {
		d, err := time.Parse(time.DateOnly, req.SessionDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_date must be YYYY-MM-DD"})
			return
		}
		sessionDate = d
	}

	result := s.parser.Parse(r.Context(), *req.RawText, req.UseAI)
	resp := parseResponse{Success: true, ParseResult: result}

	if req.Persist {
		res, err := s.writer.Persist(r.Context(), persist.Request{
			Result:       &resp.ParseResult,
			RawText:      *req.RawText,
			UserID:       userID,
			SessionDate:  sessionDate,
			TrainingType: req.TrainingType,
		})
		if err != nil {
			s.log.Error("persist workout", "user", userID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "failed to save workout",
				"details": err.Error(),
			})
			return
		}
		resp.TrainingSessionID = &res.TrainingSessionID
		resp.ExerciseSessionID = res.ExerciseSessionID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueryExerciseSets(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	start, end, err := parseTimeRange(r, 30)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.queries.QueryExerciseSets(r.Context(), storage.SetQuery{
		UserID:   userID,
		Start:    start,
		End:      end,
		Exercise: r.URL.Query().Get("exercise"),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []models.ExerciseSetResult{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleTrainingSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	start, end, err := parseTimeRange(r, 180)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := r.URL.Query().Get("bucket")
	switch bucket {
	case "":
		bucket = "1 week"
	case "1 week", "1 month":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bucket must be '1 week' or '1 month'"})
		return
	}

	periods, err := s.queries.GetTrainingSummary(r.Context(), start, end, bucket, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if periods == nil {
		periods = []models.TrainingSummaryPeriod{}
	}
	writeJSON(w, http.StatusOK, periods)
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

var errRangeOrder = errors.New("start must be before end")

// parseTimeRange reads start and end query parameters (RFC 3339 or
// YYYY-MM-DD). A missing start defaults to defaultDays before end; a
// missing end defaults to now. Date-only ends include the whole day.
func parseTimeRange(r *http.Request, defaultDays int) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse(time.DateOnly, endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			end = end.Add(24 * time.Hour)
		}
	}

	if startStr == "" {
		start = end.AddDate(0, 0, -defaultDays)
	} else {
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			start, err = time.Parse(time.DateOnly, startStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, errRangeOrder
	}
	return start, end, nil
}
