package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the two Supabase surfaces the application consumes:
// PostgREST for table rows and GoTrue for password-based sessions.
type Client struct {
	httpClient *resty.Client

	mu          sync.RWMutex
	accessToken string
}

// Filter narrows a table read, update or delete to matching rows. Op is a
// PostgREST operator such as eq, lt, gte or lte.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter { return Filter{Column: column, Op: "eq", Value: value} }

// Lt builds a strictly-less-than filter.
func Lt(column, value string) Filter { return Filter{Column: column, Op: "lt", Value: value} }

// Gte builds a greater-or-equal filter.
func Gte(column, value string) Filter { return Filter{Column: column, Op: "gte", Value: value} }

// Lte builds a less-or-equal filter.
func Lte(column, value string) Filter { return Filter{Column: column, Op: "lte", Value: value} }

// NewClient builds a Supabase client for the given project URL and anon key.
func NewClient(projectURL, anonKey string) *Client {
	base := strings.TrimSuffix(projectURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient:  restyClient,
		accessToken: anonKey,
	}
}

// UseToken switches the Authorization bearer used for subsequent calls.
// Pass the anon key again on sign-out to drop back to anonymous access.
func (c *Client) UseToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return "Bearer " + c.accessToken
}

// apiError mirrors a PostgREST error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Select reads rows from a table into dest, which must be a pointer to a
// slice of row structs. Order is a PostgREST order expression such as
// "name.asc" and may be empty.
func (c *Client) Select(ctx context.Context, table, columns string, filters []Filter, order string, dest any) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", c.bearer()).
		SetQueryParam("select", columns).
		SetResult(dest)

	for _, f := range filters {
		req.SetQueryParam(f.Column, fmt.Sprintf("%s.%s", f.Op, f.Value))
	}
	if order != "" {
		req.SetQueryParam("order", order)
	}

	apiErr := new(apiError)
	resp, err := req.SetError(apiErr).Get("/rest/v1/" + table)
	if err != nil {
		return fmt.Errorf("select from %s: %w", table, err)
	}
	return checkStatus(resp, apiErr, table)
}

// Insert writes one row or a slice of rows into a table.
func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", c.bearer()).
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		SetError(apiErr).
		Post("/rest/v1/" + table)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return checkStatus(resp, apiErr, table)
}

// Update patches every row matching the filters.
func (c *Client) Update(ctx context.Context, table string, patch any, filters []Filter) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", c.bearer()).
		SetHeader("Prefer", "return=minimal").
		SetBody(patch)

	for _, f := range filters {
		req.SetQueryParam(f.Column, fmt.Sprintf("%s.%s", f.Op, f.Value))
	}

	apiErr := new(apiError)
	resp, err := req.SetError(apiErr).Patch("/rest/v1/" + table)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return checkStatus(resp, apiErr, table)
}

// Delete removes every row matching the filters.
func (c *Client) Delete(ctx context.Context, table string, filters []Filter) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", c.bearer())

	for _, f := range filters {
		req.SetQueryParam(f.Column, fmt.Sprintf("%s.%s", f.Op, f.Value))
	}

	apiErr := new(apiError)
	resp, err := req.SetError(apiErr).Delete("/rest/v1/" + table)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return checkStatus(resp, apiErr, table)
}

func checkStatus(resp *resty.Response, apiErr *apiError, table string) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	return fmt.Errorf("postgrest error on %s: status=%d, code=%s, message=%s", table, resp.StatusCode(), apiErr.Code, apiErr.Message)
}

// Session is a GoTrue session as returned by the password grant.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// authError mirrors a GoTrue error payload, which uses a different shape
// than PostgREST depending on the endpoint.
type authError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

func (e *authError) text() string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	session := new(Session)
	authErr := new(authError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(session).
		SetError(authErr).
		Post("/auth/v1/token")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("gotrue error: status=%d, message=%s", resp.StatusCode(), authErr.text())
	}

	return session, nil
}

// SignOut revokes the given access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	authErr := new(authError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+accessToken).
		SetError(authErr).
		Post("/auth/v1/logout")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("gotrue error: status=%d, message=%s", resp.StatusCode(), authErr.text())
	}

	return nil
}
