package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alcyxob/fitness-routines/internal/domain"
	"alcyxob/fitness-routines/internal/service"
)

const defaultTimeout = 30 * time.Second

// HTTPDoer describes the HTTP client used to reach the API.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client talks to the /api/v1 endpoints with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
}

type Option func(*Client)

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// NewClient builds a client for the server at baseURL, e.g. http://localhost:8080.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/api/v1",
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(raw, &payload) != nil || payload.Error == "" {
			payload.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

// === Auth ===

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// === Routines ===

func (c *Client) ListRoutines(ctx context.Context) ([]service.RoutineView, error) {
	var routines []service.RoutineView
	if err := c.do(ctx, http.MethodGet, "/routines", nil, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

func (c *Client) GetRoutine(ctx context.Context, routineID string) (*service.RoutineView, error) {
	var routine service.RoutineView
	if err := c.do(ctx, http.MethodGet, "/routines/"+escape(routineID), nil, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (c *Client) CreateRoutine(ctx context.Context, draft domain.RoutineDraft) (*service.RoutineView, error) {
	var routine service.RoutineView
	if err := c.do(ctx, http.MethodPost, "/routines", draft, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (c *Client) GetProgress(ctx context.Context, routineID string) (*service.RoutineProgressView, error) {
	var progress service.RoutineProgressView
	if err := c.do(ctx, http.MethodGet, "/routines/"+escape(routineID)+"/progress", nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (c *Client) ResetRoutine(ctx context.Context, routineID string) (*service.RoutineView, error) {
	var routine service.RoutineView
	if err := c.do(ctx, http.MethodPost, "/routines/"+escape(routineID)+"/reset", nil, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (c *Client) ResetDay(ctx context.Context, dayID string) (*service.DayView, error) {
	var day service.DayView
	if err := c.do(ctx, http.MethodPost, "/days/"+escape(dayID)+"/reset", nil, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// === Exercises ===

func (c *Client) GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := c.do(ctx, http.MethodGet, "/exercises/"+escape(exerciseID), nil, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (c *Client) ToggleExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := c.do(ctx, http.MethodPost, "/exercises/"+escape(exerciseID)+"/toggle", nil, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (c *Client) UpdateExercise(ctx context.Context, exerciseID string, patch domain.ExercisePatch) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := c.do(ctx, http.MethodPatch, "/exercises/"+escape(exerciseID), patch, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}
