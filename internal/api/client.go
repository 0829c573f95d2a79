package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"teamboard/internal/models"
)

// Client talks to the teamboard HTTP API. It is used by the operator CLI.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs a client for the given base URL. The token is sent as
// a bearer credential on every request; pass "" for login-only use.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (SessionResponse, error) {
	var out struct {
		Session SessionResponse `json:"session"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: password}, &out)
	return out.Session, err
}

// ListUsers returns all profiles.
func (c *Client) ListUsers(ctx context.Context) ([]models.Profile, error) {
	var out struct {
		Users []models.Profile `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &out)
	return out.Users, err
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, req UserCreateRequest) (models.Profile, error) {
	var out struct {
		User models.Profile `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users", req, &out)
	return out.User, err
}

// SetRole changes a user's role.
func (c *Client) SetRole(ctx context.Context, userID int64, role string) (models.Profile, error) {
	var out struct {
		User models.Profile `json:"user"`
	}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/users/%d/role", userID), RoleUpdateRequest{Role: role}, &out)
	return out.User, err
}

// ListTasks returns all tasks on the board.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var out struct {
		Tasks []models.Task `json:"tasks"`
	}
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out)
	return out.Tasks, err
}

// ListNotifications returns the calling user's notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var out struct {
		Notifications []models.Notification `json:"notifications"`
	}
	err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &out)
	return out.Notifications, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr ErrorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
