// Package httpclient is the only sanctioned way views issue network
// calls. Its request phase attaches the bearer credential, its response
// phase classifies failures and performs the session-hygiene side effect
// for 401/403 before re-surfacing the error to the caller.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/notify"
)

const defaultTimeout = 10 * time.Second

// sessionStore is the slice of the token store the client needs: read on
// every request, cleared on 401/403.
type sessionStore interface {
	Get() models.Session
	Clear() error
}

type Client struct {
	BaseURL string

	store    sessionStore
	notifier notify.Notifier
	logger   logger.Logger
	http     *http.Client
	timeout  time.Duration
}

func New(baseURL string, store sessionStore, notifier notify.Notifier, logger logger.Logger) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		store:    store,
		notifier: notifier,
		logger:   logger,
		http:     &http.Client{},
		timeout:  defaultTimeout,
	}
}

type requestOptions struct {
	public bool
	silent bool
}

type Option func(*requestOptions)

// Public marks a request as unauthenticated: no bearer is attached, and a
// 401/4xx answer classifies without the session-teardown side effect and
// without a notification. The auth endpoints use it so a rejected
// credential cannot tear down an unrelated valid session.
func Public() Option {
	return func(o *requestOptions) { o.public = true }
}

// Silent suppresses the user-facing notification while keeping
// classification and session side effects. Used for best-effort calls
// whose failure the user must not be bothered with, e.g. sign-out.
func Silent() Option {
	return func(o *requestOptions) { o.silent = true }
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...Option) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, in any, out any, opts ...Option) error {
	return c.Do(ctx, http.MethodPost, path, in, out, opts...)
}

// Do sends one JSON request. On a 2xx answer the body is decoded into out
// (when out is non-nil). Anything else returns a *Failure; session and
// notification side effects have already been applied when it returns.
func (c *Client) Do(ctx context.Context, method string, path string, in any, out any, opts ...Option) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Request phase: attach the bearer credential when a session exists.
	// A missing token is not an error here, some endpoints are public.
	if !options.public {
		if s := c.store.Get(); s.Authenticated() {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed without response", "method", method, "path", path, "error", err)
		if !options.public && !options.silent {
			c.notifier.Notify(notify.SeverityError, "Cannot reach the server. Check your connection and try again.")
		}
		return &Failure{Kind: KindNetwork, Err: fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)}
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return c.classify(resp, method, path, options)
}

// classify is the response-phase interceptor: fixed-priority status
// handling, session teardown on 401/403, one notification per failure.
// The classified failure is always returned to the caller, never
// swallowed.
func (c *Client) classify(resp *http.Response, method string, path string, options requestOptions) error {
	message := backendMessage(resp)
	c.logger.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode, "message", message)

	var failure *Failure
	var notice string

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		failure = newFailure(KindUnauthorized, resp.StatusCode, message)
		notice = "Your session has expired. Please sign in again."
		if !options.public {
			// Teardown only; the next guard evaluation redirects, so an
			// in-flight unrelated request is never yanked mid-navigation.
			c.clearSession()
		}

	case resp.StatusCode == http.StatusForbidden:
		failure = newFailure(KindForbidden, resp.StatusCode, message)
		notice = "Access denied. Please sign in with an authorized account."
		if !options.public {
			c.clearSession()
		}

	case resp.StatusCode == http.StatusNotFound:
		failure = newFailure(KindNotFound, resp.StatusCode, message)
		notice = "The requested resource was not found."

	case resp.StatusCode >= http.StatusInternalServerError:
		failure = newFailure(KindServer, resp.StatusCode, message)
		notice = "The server reported an error. Please try again later."

	default:
		failure = newFailure(KindOther, resp.StatusCode, message)
		notice = "The request could not be completed."
		if message != "" {
			notice = message
		}
	}

	if !options.public && !options.silent {
		c.notifier.Notify(notify.SeverityError, notice)
	}

	return failure
}

func (c *Client) clearSession() {
	if err := c.store.Clear(); err != nil {
		c.logger.Error("failed to clear session store", "error", err)
	}
}

// backendMessage pulls the human-readable message out of an error body,
// tolerating bodies that are not the expected JSON shape.
func backendMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
