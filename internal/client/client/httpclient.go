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
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/logging"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 64 << 10
	maxDetailLen    = 512
)

// Credentials is the session as seen by the transport: it reads the token
// and reports a 401 together with the token the request carried.
// *session.Session implements it.
type Credentials interface {
	Token() string
	Expire(ctx context.Context, token string)
}

// Config configures an HTTPClient.
type Config struct {
	// BaseURL of the backend, e.g. "http://127.0.0.1:8000".
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client without its own
	// timeout is created; Timeout below bounds each call instead.
	HTTPClient *http.Client
	// Timeout bounds a single request. Zero means no extra bound.
	Timeout time.Duration
	Logger  logging.Logger
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	creds      Credentials
	log        logging.Logger
}

// NewHTTPClient validates cfg and binds the client to creds.
func NewHTTPClient(cfg Config, creds Credentials) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: BaseURL %q must be http or https", cfg.BaseURL)
	}
	if creds == nil {
		return nil, errors.New("client: credentials are required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
		timeout:    cfg.Timeout,
		creds:      creds,
		log:        log,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SendConnectionRequest(ctx context.Context, in models.SendRequestInput) (*models.SendRequestResult, error) {
	var out models.SendRequestResult
	if err := c.do(ctx, http.MethodPost, "/api/connection-requests", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ReceivedRequests(ctx context.Context) (*models.ReceivedRequests, error) {
	var out models.ReceivedRequests
	if err := c.do(ctx, http.MethodGet, "/api/connection-requests/received", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RespondToRequest(ctx context.Context, requestID string, action models.RespondAction) (string, error) {
	var out models.MessageResponse
	path := "/api/connection-requests/" + url.PathEscape(requestID) + "/respond"
	if err := c.do(ctx, http.MethodPost, path, nil, models.RespondInput{Action: action}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) Connections(ctx context.Context) ([]models.Profile, error) {
	var out models.ConnectionsList
	if err := c.do(ctx, http.MethodGet, "/api/connections", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Connections, nil
}

func (c *HTTPClient) RemoveConnection(ctx context.Context, userID string) (string, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/connections/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) TeamSearch(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	var out models.SearchResult
	if err := c.do(ctx, http.MethodPost, "/api/team-search", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateConversation(ctx context.Context, targetUserID string) (*models.Conversation, error) {
	var out models.Conversation
	in := models.CreateConversationInput{TargetUserID: targetUserID}
	if err := c.do(ctx, http.MethodPost, "/api/conversations", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Messages(ctx context.Context, conversationID string, skip, limit int) ([]models.Message, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out models.MessagesPage
	if err := c.do(ctx, http.MethodGet, "/api/messages/"+url.PathEscape(conversationID), q, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, in models.SendMessageInput) (*models.Message, error) {
	if in.MessageType == "" {
		in.MessageType = models.MessageTypeText
	}
	var out models.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodPost, "/profile", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodPut, "/profile", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges email and password for an access token. It does not touch
// the session: a rejected login is not an expiry.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	in := models.LoginInput{Email: email, Password: password}
	if err := c.roundTrip(ctx, http.MethodPost, "/auth/login", nil, in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one authenticated JSON round trip. A nil out discards the
// response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	return c.roundTrip(ctx, method, path, query, in, out, true)
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, query url.Values, in, out any, authed bool) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("client: build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var token string
	if authed {
		if token = c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.log.With("request_id", requestID, "method", method, "path", path)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Detail: parseDetail(raw)}
		if authed && resp.StatusCode == http.StatusUnauthorized {
			c.creds.Expire(ctx, token)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		log.Warn(ctx, "unexpected response shape", "error", err)
		return fmt.Errorf("client: decode %s %s response: %w", method, path, err)
	}
	return nil
}

// parseDetail extracts a human-readable message from an error body.
// Backends answer {"detail": "..."}; validation errors carry a structured
// detail, which is returned as compact JSON. Non-JSON bodies are returned
// trimmed.
func parseDetail(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return truncate(string(raw))
	}

	if len(envelope.Detail) > 0 && string(envelope.Detail) != "null" {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return truncate(s)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, envelope.Detail); err == nil {
			return truncate(compact.String())
		}
	}
	if envelope.Message != "" {
		return truncate(envelope.Message)
	}
	return truncate(envelope.Error)
}

// truncate cuts s to at most maxDetailLen bytes on a rune boundary.
func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	cut := maxDetailLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
