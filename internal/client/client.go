// Package client talks to the planning API and keeps a calendar view in
// sync with it.
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
	"sync"
	"time"

	"github.com/humia/planning/internal/calendar"
)

// APIError is a non-2xx answer of the API. Message carries the server's
// French error text.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("planning API: status %d", e.Status)
}

// ErrUnauthorized matches APIError values with status 401.
var ErrUnauthorized = errors.New("client: unauthorized")

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Session is a planning session as returned by the API.
type Session struct {
	ID          string  `json:"id"`
	ClassroomID string  `json:"classroomId"`
	TrainerID   string  `json:"trainerId"`
	SchoolID    string  `json:"schoolId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Location    *string `json:"location"`
	Color       string  `json:"color"`
	Status      string  `json:"status"`
	Classroom   struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"classroom"`
	Trainer struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"trainer"`
	School struct {
		Name string `json:"name"`
	} `json:"school"`
}

// View projects s for the layout engine.
func (s Session) View() calendar.Session {
	return calendar.Session{
		ID:            s.ID,
		Title:         s.Title,
		Description:   deref(s.Description),
		Date:          s.Date,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Location:      deref(s.Location),
		Color:         s.Color,
		ClassroomName: s.Classroom.Name,
		TrainerName:   strings.TrimSpace(s.Trainer.FirstName + " " + s.Trainer.LastName),
		SchoolName:    s.School.Name,
	}
}

// Classroom is an entry of /classes/list.
type Classroom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	SchoolID string `json:"schoolId"`
	School   struct {
		Name string `json:"name"`
	} `json:"school"`
}

// Trainer is an entry of /trainers/list.
type Trainer struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Specialty string  `json:"specialty"`
	SchoolID  *string `json:"schoolId"`
}

// Login is the answer of POST /login.
type Login struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Client is a JSON client of the planning API. It is safe for concurrent
// use.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 15s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken authenticates requests with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("client: base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns the session token in use.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login opens a session and keeps its token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (Login, error) {
	var out Login
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return Login{}, err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return out, nil
}

// Logout revokes the current session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	return nil
}

// ListSessions fetches the sessions of r.
func (c *Client) ListSessions(ctx context.Context, r calendar.Range) ([]Session, error) {
	var out []Session
	if err := c.do(ctx, http.MethodGet, "/planning", r.Query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession submits the creation form.
func (c *Client) CreateSession(ctx context.Context, form calendar.Form) (Session, error) {
	body := createRequest{
		ClassroomID: form.ClassroomID,
		TrainerID:   form.TrainerID,
		Title:       form.Title,
		Description: optional(form.Description),
		Date:        form.Date,
		StartTime:   form.StartTime,
		EndTime:     form.EndTime,
		Location:    optional(form.Location),
		Color:       form.Color,
	}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/planning", nil, body, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

// DeleteSession deletes the session id.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodDelete, "/planning", nil, map[string]string{"id": id}, &out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("client: delete %s not acknowledged", id)
	}
	return nil
}

// ListClassrooms fetches the classrooms offered by the creation form.
func (c *Client) ListClassrooms(ctx context.Context) ([]Classroom, error) {
	var out []Classroom
	if err := c.do(ctx, http.MethodGet, "/classes/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrainers fetches the active trainers offered by the creation form.
func (c *Client) ListTrainers(ctx context.Context) ([]Trainer, error) {
	var out []Trainer
	if err := c.do(ctx, http.MethodGet, "/trainers/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createRequest struct {
	ClassroomID string  `json:"classroomId"`
	TrainerID   string  `json:"trainerId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Location    *string `json:"location,omitempty"`
	Color       string  `json:"color,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
