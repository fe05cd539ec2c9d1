// Package client is the HTTP consumer of the WellnessHub API. It
// separates transport failures (NetworkError, retryable) from the
// API's own error kinds (APIError, not retryable), so callers can tell
// "try again" from "fix your input".
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kanishk-singh19/Wellness/internal/models"
)

const defaultTimeout = 30 * time.Second

// APIError is a decoded error envelope from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// NetworkError wraps a transport-level failure (timeout, refused
// connection, broken pipe). The request may have never reached the
// server.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Register(ctx context.Context, fullName, email, password, role string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"full_name": fullName,
		"email":     email,
		"password":  password,
		"role":      role,
	}, &result)
	if err == nil {
		c.token = result.Token
	}
	return result, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err == nil {
		c.token = result.Token
	}
	return result, err
}

func (c *Client) Verify(ctx context.Context) (models.User, error) {
	var result struct {
		User models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/verify", nil, &result)
	return result.User, err
}

func (c *Client) PublishedSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := c.do(ctx, http.MethodGet, "/api/sessions/published", nil, &sessions)
	return sessions, err
}

func (c *Client) UserSessions(ctx context.Context, userID string) ([]models.Session, error) {
	var sessions []models.Session
	err := c.do(ctx, http.MethodGet, "/api/sessions/user/"+userID, nil, &sessions)
	return sessions, err
}

type SaveSessionInput struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	JSONFileURL string   `json:"json_file_url"`
	Status      string   `json:"status,omitempty"`
}

func (c *Client) SaveSession(ctx context.Context, input SaveSessionInput) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/api/sessions/create", input, &session)
	return session, err
}

func (c *Client) GetSession(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &session)
	return session, err
}

func (c *Client) PublishSession(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPut, "/api/sessions/"+id+"/publish", nil, &session)
	return session, err
}

func (c *Client) UnpublishSession(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPut, "/api/sessions/"+id+"/unpublish", nil, &session)
	return session, err
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, target interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{Status: resp.StatusCode, Code: "unknown", Message: strings.TrimSpace(string(raw))}
	}
	return &APIError{Status: resp.StatusCode, Code: envelope.Error.Code, Message: envelope.Error.Message}
}
