// Package client calls the liftlog REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// ParseRequest is the body of POST /api/v1/workouts/parse.
type ParseRequest struct {
	RawText      string `json:"raw_text"`
	TrainingType string `json:"training_type,omitempty"`
	Persist      bool   `json:"persist"`
	UseAI        bool   `json:"use_ai"`
	SessionDate  string `json:"session_date,omitempty"`
}

// ParseResponse is the server's answer to a parse request.
type ParseResponse struct {
	Success bool `json:"success"`
	models.ParseResult
	TrainingSessionID *uuid.UUID `json:"training_session_id,omitempty"`
	ExerciseSessionID *uuid.UUID `json:"exercise_session_id,omitempty"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("server returned %d: %s (%s)", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client sends requests to a liftlog server. Requests are not retried.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for serverURL that authenticates with token.
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		token:     token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ParseWorkout submits text for parsing and, if req.Persist is set, saving.
func (c *Client) ParseWorkout(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var resp ParseResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/workouts/parse", nil, bytes.NewReader(data), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExerciseSets lists logged sets. Empty arguments use server defaults.
func (c *Client) ExerciseSets(ctx context.Context, start, end, exercise string) ([]models.ExerciseSetResult, error) {
	params := url.Values{}
	setIf(params, "start", start)
	setIf(params, "end", end)
	setIf(params, "exercise", exercise)

	var rows []models.ExerciseSetResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercise-sets", params, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TrainingSummary returns per-period totals.
func (c *Client) TrainingSummary(ctx context.Context, start, end, bucket string) ([]models.TrainingSummaryPeriod, error) {
	params := url.Values{}
	setIf(params, "start", start)
	setIf(params, "end", end)
	setIf(params, "bucket", bucket)

	var periods []models.TrainingSummaryPeriod
	if err := c.do(ctx, http.MethodGet, "/api/v1/training/summary", params, nil, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, out any) error {
	u := c.serverURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			apiErr.Message, apiErr.Details = e.Error, e.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
