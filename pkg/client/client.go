// Package client is a Go client for the tasks API. A Client holds the
// session token obtained from Register or Login and attaches it as a bearer
// token to every subsequent call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned when an authenticated call is made before login.
var ErrNoSession = errors.New("no active session")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Task mirrors the server's task representation.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Owner       uuid.UUID `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch carries a partial task update. Nil fields are omitted from the
// request body and left untouched by the server.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// Session describes the authenticated user as returned by register/login.
type Session struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

// Profile is the /auth/profile response.
type Profile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Client talks to the tasks API. It is not safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	return c.token
}

// SetToken resumes a previously stored session.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Logout drops the session token. The token itself stays valid until expiry;
// the server keeps no session state.
func (c *Client) Logout() {
	c.token = ""
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &session, false); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &session, false); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Tasks lists the authenticated user's tasks.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task owned by the authenticated user.
func (c *Client) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	body := map[string]string{"title": title, "description": description}
	var task Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+id.String(), nil, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id.String(), patch, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	if authed && c.token == "" {
		return ErrNoSession
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeErrorMessage pulls a single-line message out of an error body. Error
// bodies vary in shape, so anything unparseable falls back to the status text.
func decodeErrorMessage(resp *http.Response) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Message) > 0 {
		var msg string
		if err := json.Unmarshal(body.Message, &msg); err == nil {
			return msg
		}
		var nested struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body.Message, &nested); err == nil && nested.Error != "" {
			return nested.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}
