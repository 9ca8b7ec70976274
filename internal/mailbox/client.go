// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package mailbox reads one-time verification codes from a disposable
// tempmail.plus style mailbox.
package mailbox

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

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
)

// DefaultBaseURL is the public mailbox API.
const DefaultBaseURL = "https://tempmail.plus/api"

const (
	listLimit             = 20
	defaultDeleteAttempts = 5
	defaultDeleteInterval = 500 * time.Millisecond
	defaultTimeout        = 30 * time.Second
)

var (
	// ErrUpstream covers transport failures, non-2xx answers, undecodable
	// payloads and responses reporting result=false.
	ErrUpstream = errors.New("mailbox upstream error")
	// ErrCleanup is returned when a message could not be deleted.
	ErrCleanup = errors.New("mailbox cleanup failed")
	// ErrEmpty is returned by ListMessages when the mailbox holds no message.
	ErrEmpty = fmt.Errorf("%w: mailbox is empty", ErrUpstream)
)

// Client talks to the mailbox API on behalf of a single session.
type Client struct {
	BaseURL string
	Session model.MailboxSession
	HTTP    *http.Client
	// Limiter, when set, spaces consecutive requests.
	Limiter        *rate.Limiter
	DeleteAttempts int
	DeleteInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTP = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit allows at most rps requests per second. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithDeleteRetry sets how often and how far apart deletion is attempted.
func WithDeleteRetry(attempts int, interval time.Duration) Option {
	return func(c *Client) {
		c.DeleteAttempts = attempts
		c.DeleteInterval = interval
	}
}

// NewClient returns a Client for session.
func NewClient(session model.MailboxSession, opts ...Option) *Client {
	c := &Client{
		BaseURL:        DefaultBaseURL,
		Session:        session,
		HTTP:           &http.Client{Timeout: defaultTimeout},
		DeleteAttempts: defaultDeleteAttempts,
		DeleteInterval: defaultDeleteInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type listResponse struct {
	Result  bool            `json:"result"`
	FirstID json.RawMessage `json:"first_id"`
}

type detailResponse struct {
	Result bool   `json:"result"`
	Text   string `json:"text"`
	HTML   string `json:"html"`
}

type deleteResponse struct {
	Result bool `json:"result"`
}

// ListMessages returns the id of the newest message.
func (c *Client) ListMessages(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("email", c.Session.Address())
	q.Set("limit", fmt.Sprint(listLimit))
	q.Set("epin", c.Session.Pin)

	var resp listResponse
	if err := c.getJSON(ctx, "/mails", q, &resp); err != nil {
		return "", err
	}
	if !resp.Result {
		return "", fmt.Errorf("%w: listing messages was refused", ErrUpstream)
	}
	id := parseMessageID(resp.FirstID)
	if id == "" {
		return "", ErrEmpty
	}
	return id, nil
}

// FetchBody returns the text of message id, or its HTML with tags removed
// when the message has no text part.
func (c *Client) FetchBody(ctx context.Context, id string) (string, error) {
	q := url.Values{}
	q.Set("email", c.Session.Address())
	q.Set("epin", c.Session.Pin)

	var resp detailResponse
	if err := c.getJSON(ctx, "/mails/"+url.PathEscape(id), q, &resp); err != nil {
		return "", err
	}
	if !resp.Result {
		return "", fmt.Errorf("%w: fetching message %s was refused", ErrUpstream, id)
	}
	if strings.TrimSpace(resp.Text) != "" {
		return resp.Text, nil
	}
	return stripTags(resp.HTML), nil
}

// DeleteMessage removes message id, retrying a bounded number of times.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	attempts := c.DeleteAttempts
	if attempts < 1 {
		attempts = 1
	}
	interval := c.DeleteInterval
	if interval <= 0 {
		interval = time.Millisecond
	}

	n := 0
	b := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(interval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		n++
		ok, err := c.deleteOnce(ctx, id)
		if err != nil {
			logging.Debugf("delete %s attempt %d: %v", id, n, err)
			return retry.RetryableError(err)
		}
		if !ok {
			logging.Debugf("delete %s attempt %d: refused", id, n)
			return retry.RetryableError(fmt.Errorf("%w: delete refused", ErrUpstream))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: message %s after %d attempts: %v", ErrCleanup, id, n, err)
	}
	return nil
}

func (c *Client) deleteOnce(ctx context.Context, id string) (bool, error) {
	form := url.Values{}
	form.Set("email", c.Session.Address())
	form.Set("first_id", id)
	form.Set("epin", c.Session.Pin)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.BaseURL+"/mails/", strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp deleteResponse
	if err := c.do(req, &resp); err != nil {
		return false, err
	}
	return resp.Result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("%w: rate limit: %w", ErrUpstream, err)
		}
	}
	req.Header.Set("Accept", "application/json")
	logging.Debugf("mailbox %s %s", req.Method, req.URL.Path)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", ErrUpstream, req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

// parseMessageID accepts first_id as a JSON string or number. Zero, empty
// and null mean there is no message.
func parseMessageID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var id string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &id); err != nil {
			return ""
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		id = n.String()
	}
	id = strings.TrimSpace(id)
	if id == "0" {
		return ""
	}
	return id
}
