// Package client talks to the remote notes service.
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

	"github.com/rs/zerolog"

	"example.com/notesin/internal/stringsx"
)

const maxBodyBytes = 1 << 20

// APIError is a non-2xx answer from the service.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string // server-supplied text, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// ServerMessage returns the server-supplied text of err when err is an
// APIError carrying one.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// IsAPIError reports whether err came from a non-2xx response rather than
// from the transport.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Login(ctx context.Context, cr Credentials) (LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", cr, &res); err != nil {
		return LoginResult{}, err
	}
	if res.OwnerID == "" {
		res.OwnerID = res.User.ID
	}
	if res.OwnerID == "" {
		return LoginResult{}, errors.New("login response carries no user id")
	}
	if res.User.ID == "" {
		res.User.ID = res.OwnerID
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, cr Credentials) (RegisterResult, error) {
	var res RegisterResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", cr, &res); err != nil {
		return RegisterResult{}, err
	}
	return res, nil
}

// ListNotes returns the owner's notes in server order.
func (c *Client) ListNotes(ctx context.Context, ownerID string) ([]Note, error) {
	var res listNotesResponse
	if err := c.do(ctx, http.MethodGet, "/api/note/notebyuid/"+url.PathEscape(ownerID), nil, &res); err != nil {
		return nil, err
	}
	if res.Notes == nil {
		res.Notes = []Note{}
	}
	return res.Notes, nil
}

func (c *Client) CreateNote(ctx context.Context, ownerID, title, description string) error {
	body := createNoteRequest{Title: title, Msg: description, PostedBy: ownerID}
	return c.do(ctx, http.MethodPost, "/api/note/addnew", body, nil)
}

func (c *Client) UpdateNote(ctx context.Context, id, title, description string) error {
	body := updateNoteRequest{Title: title, Msg: description}
	return c.do(ctx, http.MethodPut, "/api/note/update/"+url.PathEscape(id), body, nil)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/note/delete/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(data)}
		c.log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
			Str("message", apiErr.Message).Msg("request rejected")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the human text out of an error body: the JSON "message"
// (or "error") field when present, otherwise the raw text.
func errorMessage(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
		return ""
	}
	return stringsx.Clip(stringsx.OneLine(string(data)), 200)
}
