// Package client is the Go consumer of the notes API: a typed HTTP client,
// a reducer-driven state store over it and a search debouncer.
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
	"strconv"
	"strings"
	"sync"
	"time"

	"notes-be/internal/apperror"
	"notes-be/internal/entities"
	"notes-be/internal/models"
	"notes-be/internal/query"
)

// Client provides typed access to the notes API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithToken starts the client with an existing bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New constructs a Client pointing at the API base URL, without the /api suffix.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:5000"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// Token returns the bearer token currently attached to requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token. An empty token signs the client out.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// APIError represents an error envelope returned by the API.
type APIError struct {
	Status  int
	Message string
	Fields  []apperror.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("api request failed (%d): %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError carrying the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	if v == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.AuthResponse, error) {
	body := models.RegisterRequest{Name: name, Email: email, Password: password}
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Login exchanges credentials for a token and keeps it.
func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	body := models.LoginRequest{Email: email, Password: password}
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (models.UserResponse, error) {
	var resp models.UserData
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return models.UserResponse{}, err
	}
	return resp.User, nil
}

// ListNotes fetches one page of the caller's notes.
func (c *Client) ListNotes(ctx context.Context, f query.NoteFilter) (models.NoteListData, error) {
	var resp models.NoteListData
	if err := c.do(ctx, http.MethodGet, "/api/notes?"+EncodeFilter(f).Encode(), nil, &resp); err != nil {
		return models.NoteListData{}, err
	}
	return resp, nil
}

// GetNote fetches a single note.
func (c *Client) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	return c.noteCall(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil)
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*entities.Note, error) {
	return c.noteCall(ctx, http.MethodPost, "/api/notes", req)
}

// UpdateNote applies a partial update to a note.
func (c *Client) UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (*entities.Note, error) {
	return c.noteCall(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), req)
}

// DeleteNote soft deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
}

// TogglePin flips the pinned flag of a note.
func (c *Client) TogglePin(ctx context.Context, id string) (*entities.Note, error) {
	return c.noteCall(ctx, http.MethodPatch, "/api/notes/"+url.PathEscape(id)+"/pin", nil)
}

// ToggleArchive flips the archived flag of a note.
func (c *Client) ToggleArchive(ctx context.Context, id string) (*entities.Note, error) {
	return c.noteCall(ctx, http.MethodPatch, "/api/notes/"+url.PathEscape(id)+"/archive", nil)
}

func (c *Client) noteCall(ctx context.Context, method, path string, body any) (*entities.Note, error) {
	var resp models.NoteData
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Note, nil
}

// EncodeFilter renders f as the query string accepted by GET /api/notes.
func EncodeFilter(f query.NoteFilter) url.Values {
	f = f.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("sortBy", string(f.SortBy))
	v.Set("sortOrder", string(f.SortOrder))
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if len(f.Tags) > 0 {
		v.Set("tags", strings.Join(f.Tags, ","))
	}
	if f.Archived != nil {
		v.Set("archived", strconv.FormatBool(*f.Archived))
	}
	if f.Pinned != nil {
		v.Set("pinned", strconv.FormatBool(*f.Pinned))
	}
	return v
}
