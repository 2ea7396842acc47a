// Package supabase is a minimal client for the managed backend: GoTrue
// authentication plus PostgREST row access. Only the calls the gateway
// needs are wrapped; the query grammar stays inside this package.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MansiJagta/echo-forge-create/models"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a backend client. httpClient carries the per-call
// timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// User is the slice of the remote identity the gateway cares about.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates credentials in the remote identity service.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	return c.authRequest(ctx, "/auth/v1/signup", credentials{Email: email, Password: password})
}

// SignIn verifies credentials via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	return c.authRequest(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
}

func (c *Client) authRequest(ctx context.Context, path string, creds credentials) (*User, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// GoTrue returns the user either at the top level (signup) or nested
	// next to the access token (password grant).
	var envelope struct {
		User
		Nested *User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	user := envelope.User
	if envelope.Nested != nil && envelope.Nested.ID != "" {
		user = *envelope.Nested
	}
	if user.ID == "" {
		return nil, &models.UpstreamError{Service: "supabase", Status: resp.StatusCode, Body: "auth response missing user id"}
	}
	return &user, nil
}

// Insert adds a row to table.
func (c *Client) Insert(ctx context.Context, table string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding %s row: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/"+table, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	c.setAuthHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Select fetches rows matching the PostgREST filters into out.
func (c *Client) Select(ctx context.Context, table string, filters url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/"+table+"?"+filters.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s rows: %w", table, err)
	}
	return nil
}

// Delete removes rows matching the filters and reports how many went away.
func (c *Client) Delete(ctx context.Context, table string, filters url.Values) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/rest/v1/"+table+"?"+filters.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	// return=representation makes PostgREST echo the deleted rows, which is
	// the only way to tell "deleted" from "matched nothing".
	req.Header.Set("Prefer", "return=representation")
	c.setAuthHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var deleted []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return 0, fmt.Errorf("decoding delete response: %w", err)
	}
	return len(deleted), nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		ue := &models.UpstreamError{Service: "supabase", Body: err.Error()}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			ue.Timeout = true
		}
		return nil, ue
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &models.UpstreamError{Service: "supabase", Status: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}
