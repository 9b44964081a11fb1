// Package api is the client side of the admin REST surface. Views and
// console commands talk to the server exclusively through it.
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

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client wraps the admin API. Every request carries the stored bearer
// token, and any 401 response wipes the stored credentials and fires
// the onUnauthorized callback so the caller can drop back to login.
type Client struct {
	baseURL        string
	http           *http.Client
	creds          CredentialStore
	onUnauthorized func()
}

func NewClient(config Config, creds CredentialStore, onUnauthorized func()) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		creds:          creds,
		onUnauthorized: onUnauthorized,
	}
}

// Token returns the stored bearer token, empty when logged out.
func (c *Client) Token() string {
	creds, err := c.creds.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.Token
}

// CurrentUser returns the stored login identity, nil when logged out.
func (c *Client) CurrentUser() *models.User {
	creds, err := c.creds.Load()
	if err != nil || creds == nil {
		return nil
	}
	user := creds.User
	return &user
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var out models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}

	if err := c.creds.Save(Credentials{Token: out.Token, User: out.User}); err != nil {
		return nil, fmt.Errorf("failed to persist credentials: %w", err)
	}
	return &out.User, nil
}

// Logout revokes the session server-side and clears local credentials.
// A stale token is not an error: the session is gone either way.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil && !IsUnauthorized(err) {
		return err
	}
	return c.creds.Clear()
}

func (c *Client) Summary(ctx context.Context) (*models.StatsSummary, error) {
	var summary models.StatsSummary
	if err := c.do(ctx, http.MethodGet, "/stats/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout()
		return decodeAPIError(resp)
	}
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// forceLogout clears stored credentials after a 401. It only acts when
// credentials exist, so a plain rejected login does not trigger the
// session-expired path.
func (c *Client) forceLogout() {
	creds, err := c.creds.Load()
	if err != nil || creds == nil {
		return
	}

	if err := c.creds.Clear(); err != nil {
		logger.Error.Printf("Failed to clear credentials: %v", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error
		apiErr.Fields = body.Fields
	}
	return apiErr
}
