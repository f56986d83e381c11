// Package client is a typed HTTP client for the tally API. Identity is the
// sessionId cookie: the client captures the cookie minted by the first create
// and replays it on every later call, optionally persisting it to a file so a
// session survives process restarts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

const sessionCookie = "sessionId"

// Transaction mirrors the API's transaction shape.
type Transaction struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTransactionRequest is the payload for creating a transaction.
// Amount is the unsigned magnitude in cents; Type is "credit" or "debit".
type CreateTransactionRequest struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
	Type   string `json:"type"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	sessionID   string
	sessionPath string
}

type Option func(*Client)

// WithSessionID seeds the client with an existing session token.
func WithSessionID(token string) Option {
	return func(c *Client) {
		c.sessionID = token
	}
}

// WithSessionFile persists the session token at path. An existing file seeds
// the client; tokens minted by the server are written back.
func WithSessionFile(path string) Option {
	return func(c *Client) {
		c.sessionPath = path

		if data, err := os.ReadFile(path); err == nil {
			c.sessionID = strings.TrimSpace(string(data))
		}
	}
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SessionID returns the token currently held, if any.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sessionID
}

// CreateTransaction creates a transaction. On a first call without a session
// the server mints one and the client keeps it.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}

	var envelope struct {
		Transaction Transaction `json:"transaction"`
	}

	if err := c.do(ctx, http.MethodPost, "/transactions", "application/json", bytes.NewReader(body), &envelope); err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}

	return &envelope.Transaction, nil
}

// ListTransactions fetches every transaction of the current session.
func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var envelope struct {
		Transactions []Transaction `json:"transactions"`
	}

	if err := c.do(ctx, http.MethodGet, "/transactions", "", nil, &envelope); err != nil {
		return nil, fmt.Errorf("client.ListTransactions: %w", err)
	}

	return envelope.Transactions, nil
}

// GetTransaction fetches a single transaction by id.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var envelope struct {
		Transaction Transaction `json:"transaction"`
	}

	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), "", nil, &envelope); err != nil {
		return nil, fmt.Errorf("client.GetTransaction: %w", err)
	}

	return &envelope.Transaction, nil
}

// Summary returns the signed sum of the session's amounts, in cents.
func (c *Client) Summary(ctx context.Context) (int64, error) {
	var envelope struct {
		Summary struct {
			Amount int64 `json:"amount"`
		} `json:"summary"`
	}

	if err := c.do(ctx, http.MethodGet, "/transactions/summary", "", nil, &envelope); err != nil {
		return 0, fmt.Errorf("client.Summary: %w", err)
	}

	return envelope.Summary.Amount, nil
}

// ImportCSV uploads a CSV statement and returns how many rows were created.
func (c *Client) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	var envelope struct {
		Imported int `json:"imported"`
	}

	if err := c.do(ctx, http.MethodPost, "/transactions/import", "text/csv", r, &envelope); err != nil {
		return 0, fmt.Errorf("client.ImportCSV: %w", err)
	}

	return envelope.Imported, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token := c.SessionID(); token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	c.captureSession(res)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newHTTPError(res)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) captureSession(res *http.Response) {
	for _, cookie := range res.Cookies() {
		if cookie.Name != sessionCookie || cookie.Value == "" {
			continue
		}

		c.mu.Lock()
		c.sessionID = cookie.Value
		path := c.sessionPath
		c.mu.Unlock()

		if path != "" {
			// Best effort: a failed write only costs session continuity.
			_ = os.WriteFile(path, []byte(cookie.Value+"\n"), 0o600)
		}
	}
}

func newHTTPError(res *http.Response) error {
	httpErr := &HTTPError{StatusCode: res.StatusCode}

	var body struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error != "" {
		httpErr.Message = body.Error
	} else {
		httpErr.Message = http.StatusText(res.StatusCode)
	}

	return httpErr
}
