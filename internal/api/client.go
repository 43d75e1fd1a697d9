package api

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

	"github.com/google/uuid"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/logbook"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// HeaderSource supplies the headers of authenticated requests. The session
// store implements it.
type HeaderSource interface {
	AuthHeaders() http.Header
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogbook records one line per request.
func WithLogbook(book *logbook.Logbook) Option {
	return func(c *Client) {
		c.log = book
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Client performs the typed API calls. It never retries and applies no
// timeout of its own; callers bound calls through the context.
type Client struct {
	gateway Gateway
	headers HeaderSource
	http    *http.Client
	log     *logbook.Logbook
	newID   func() string
}

// NewClient builds a client over gateway. headers may be nil, in which case
// every request is anonymous.
func NewClient(gateway Gateway, headers HeaderSource, opts ...Option) *Client {
	c := &Client{
		gateway: gateway,
		headers: headers,
		http:    http.DefaultClient,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gateway returns the gateway the client resolves URLs with.
func (c *Client) Gateway() Gateway { return c.gateway }

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Token, error) {
	var token domain.Token
	if err := c.do(ctx, http.MethodPost, EndpointLogin, nil, creds, &token, false); err != nil {
		return domain.Token{}, err
	}
	if token.AccessToken == "" {
		return domain.Token{}, fmt.Errorf("api: login: response carried no access token")
	}
	return token, nil
}

// Register creates an account and returns the server's confirmation.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, EndpointRegister, nil, reg, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me returns the caller's profile.
func (c *Client) Me(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, http.MethodGet, EndpointProfileMe, nil, nil, &p, true)
	return p, err
}

// UpdateMe replaces the caller's profile fields and returns the stored copy.
func (c *Client) UpdateMe(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, http.MethodPut, EndpointProfileMe, nil, update, &p, true)
	return p, err
}

// Profile returns another researcher's profile.
func (c *Client) Profile(ctx context.Context, id int) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, http.MethodGet, EndpointProfile(id), nil, nil, &p, true)
	return p, err
}

// Match submits a search and returns the ranked candidates. The server
// answers either {"matches": [...]} or a bare list.
func (c *Client) Match(ctx context.Context, req domain.MatchRequest) ([]domain.MatchRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, EndpointMatch, nil, req, &raw, true); err != nil {
		return nil, err
	}
	return decodeMatches(raw)
}

func decodeMatches(raw json.RawMessage) ([]domain.MatchRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var matches []domain.MatchRecord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &matches); err != nil {
			return nil, fmt.Errorf("api: decode matches: %w", err)
		}
		return matches, nil
	}
	var wrapped struct {
		Matches []domain.MatchRecord `json:"matches"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("api: decode matches: %w", err)
	}
	return wrapped.Matches, nil
}

// SavedMatches lists the caller's saved matches.
func (c *Client) SavedMatches(ctx context.Context) ([]domain.SavedMatch, error) {
	var saved []domain.SavedMatch
	err := c.do(ctx, http.MethodGet, EndpointSavedMatches, nil, nil, &saved, true)
	return saved, err
}

// SaveMatch saves profile id with the score string shown to the user. An
// empty score leaves the query parameter out.
func (c *Client) SaveMatch(ctx context.Context, id int, score string) (string, error) {
	var query url.Values
	if score = strings.TrimSpace(score); score != "" {
		query = url.Values{"match_score": {score}}
	}
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, EndpointSaveMatch(id), query, nil, &resp, true); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DeleteSavedMatch removes profile id from the caller's saved list.
func (c *Client) DeleteSavedMatch(ctx context.Context, id int) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodDelete, EndpointDeleteSavedMatch(id), nil, nil, &resp, true); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	target := c.gateway.URL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}

	if authed && c.headers != nil {
		for key, values := range c.headers.AuthHeaders() {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("%s %s failed request_id=%s: %v", method, path, requestID, err)
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()
	c.log.Info("%s %s -> %d request_id=%s", method, path, resp.StatusCode, requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Detail: decodeDetail(data)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
