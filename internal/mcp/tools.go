package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/persist"
	"github.com/claude/liftlog/internal/storage"
)

// defaultTimeRange returns start/end, with start defaulting to days before end.
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// --- Tool definitions ---

var toolParseWorkout = mcp.NewTool("parse_workout",
	mcp.WithDescription("Parse a free-text strength workout into exercises, sets and session metadata without saving it. One exercise per line, e.g. 'Bankdrücken 4x10 80kg @7' or 'Squats 3x5 225lb'."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Workout text, one exercise per line")),
	mcp.WithBoolean("use_ai", mcp.Description("Parse with the AI model even if the grammar recognizes the text. Defaults to false.")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Parse a free-text strength workout and save it. Returns the parse result plus the ids of the stored training session and exercise session."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Workout text, one exercise per line")),
	mcp.WithBoolean("use_ai", mcp.Description("Parse with the AI model even if the grammar recognizes the text. Defaults to false.")),
	mcp.WithString("training_type", mcp.Description("Workout category. Defaults to 'strength'.")),
	mcp.WithString("session_date", mcp.Description("Session date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetExerciseSets = mcp.NewTool("get_exercise_sets",
	mcp.WithDescription("Query logged sets with weight, reps and RPE, newest session first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bank')")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Weekly or monthly training totals: session count, sets, volume in kg, estimated minutes and split histogram per period."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 6 months ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to '1 week'."), mcp.Enum("1 week", "1 month")),
)

// --- Tool handlers ---

func (h *handlers) parseWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil || text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	result := h.parser.Parse(ctx, text, req.GetBool("use_ai", false))
	return jsonResult(result), nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := auth.UserIDFrom(ctx)
	if !ok {
		return mcp.NewToolResultError("unauthenticated"), nil
	}
	text, err := req.RequireString("text")
	if err != nil || text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	var sessionDate time.Time
	if s := req.GetString("session_date", ""); s != "" {
		sessionDate, err = time.Parse(time.DateOnly, s)
		if err != nil {
			return mcp.NewToolResultError("session_date must be YYYY-MM-DD"), nil
		}
	}

	result := h.parser.Parse(ctx, text, req.GetBool("use_ai", false))
	res, err := h.writer.Persist(ctx, persist.Request{
		Result:       &result,
		RawText:      text,
		UserID:       uid,
		SessionDate:  sessionDate,
		TrainingType: req.GetString("training_type", ""),
	})
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("failed to save workout: " + err.Error()), nil
	}

	return jsonResult(map[string]any{
		"result":              result,
		"training_session_id": res.TrainingSessionID,
		"exercise_session_id": res.ExerciseSessionID,
		"sets_written":        res.SetsWritten,
		"sets_failed":         res.SetsFailed,
	}), nil
}

func (h *handlers) getExerciseSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := auth.UserIDFrom(ctx)
	if !ok {
		return mcp.NewToolResultError("unauthenticated"), nil
	}
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sets, err := h.ds.QueryExerciseSets(ctx, storage.SetQuery{
		UserID:   uid,
		Start:    start,
		End:      end,
		Exercise: req.GetString("exercise", ""),
	})
	if err != nil {
		h.log.Error("mcp get_exercise_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sets), nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := auth.UserIDFrom(ctx)
	if !ok {
		return mcp.NewToolResultError("unauthenticated"), nil
	}
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 180)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	bucket := req.GetString("bucket", "1 week")
	periods, err := h.ds.GetTrainingSummary(ctx, start, end, bucket, uid)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(periods), nil
}

func jsonResult(v any) *mcp.CallToolResult {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed")
	}
	return result
}
