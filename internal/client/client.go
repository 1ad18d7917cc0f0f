// Package client is a typed HTTP client for the todo API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"todolist/internal/stats"
	"todolist/internal/todo"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("todo api: %d %s", e.Status, e.Message)
}

// UserMessage returns the server's message for errors the user caused
// (400 and 404); other failures have no user-facing message.
func (e *APIError) UserMessage() (string, bool) {
	switch e.Status {
	case http.StatusBadRequest, http.StatusNotFound:
		return e.Message, e.Message != ""
	default:
		return "", false
	}
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for baseURL, e.g. "http://localhost:8081/api".
// Cookies are kept between requests, matching a browser client with
// credentials enabled.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

func (c *Client) Create(ctx context.Context, title string) (todo.Todo, error) {
	var created todo.Todo
	err := c.do(ctx, http.MethodPost, "/todos", map[string]string{"title": title}, &created)
	return created, err
}

func (c *Client) Update(ctx context.Context, id int64, patch todo.Patch) (todo.Todo, error) {
	var updated todo.Todo
	err := c.do(ctx, http.MethodPatch, "/todos/"+strconv.FormatInt(id, 10), patch, &updated)
	return updated, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	var res struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodDelete, "/todos/"+strconv.FormatInt(id, 10), nil, &res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New("todo api: delete not acknowledged")
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (stats.Summary, error) {
	var summary stats.Summary
	err := c.do(ctx, http.MethodGet, "/stats", nil, &summary)
	return summary, err
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
