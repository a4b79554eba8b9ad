// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend implements the HTTP client for the chat backend.
//
// The backend exposes two endpoints: GET / for reachability and credential
// probing, and POST /request for chat exchanges streamed back as
// Server-Sent Events. Every request carries HTTP Basic credentials; the
// backend holds no session state, so each call authenticates independently.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL = "http://localhost:8000"

	// probeTimeout bounds the credential probe request.
	probeTimeout = 10 * time.Second
)

var (
	// sharedProbeClient serves short-lived requests such as the login probe.
	// Connection pooling is shared across all clients.
	sharedProbeClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: probeTimeout,
	}

	// sharedStreamingClient serves chat exchanges. No timeout: a streamed
	// response stays open as long as the backend keeps sending, and
	// cancellation goes through the request context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Sentinel errors for backend failures.
var (
	// ErrInvalidCredentials indicates the backend rejected the credentials.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrServerError indicates the backend answered with an internal error.
	ErrServerError = errors.New("server error")

	// ErrUnreachable indicates the backend could not be reached at all.
	ErrUnreachable = errors.New("server unreachable")
)

// ConnectionError reports a probe that reached the backend but came back
// with an unexpected status.
type ConnectionError struct {
	Status int
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (HTTP %d)", e.Status)
}

// RequestError reports a chat request the backend refused before any
// streaming began.
type RequestError struct {
	Status int
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (HTTP %d)", e.Status)
}

// StreamError reports a stream that broke after the response started.
// Partial holds the text assembled before the break.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("stream interrupted: %v", e.Err)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CLIENT
// =============================================================================

// Credentials carries the username and password sent with every request.
type Credentials struct {
	Username string
	Password string
}

// Client talks to the chat backend over HTTP Basic auth.
type Client struct {
	baseURL      string
	creds        Credentials
	probeClient  *http.Client
	streamClient *http.Client
}

// NewClient creates a client for the backend at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, creds Credentials) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		creds:        creds,
		probeClient:  sharedProbeClient,
		streamClient: sharedStreamingClient,
	}
}

// BaseURL returns the backend address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Username returns the username the client authenticates as.
func (c *Client) Username() string {
	return c.creds.Username
}

// setHeaders sets the headers common to all backend requests.
func (c *Client) setHeaders(req *http.Request) {
	req.SetBasicAuth(c.creds.Username, c.creds.Password)
	req.Header.Set("User-Agent", "gigachat-tui/0.1.0")
}

// =============================================================================
// CREDENTIAL PROBE
// =============================================================================

// Probe verifies reachability and credential validity with a GET to the
// backend root. The response body is irrelevant; only the status matters.
//
// Status mapping: 401 means bad credentials, 500 means backend failure,
// any other non-2xx is a connection error carrying the status. Transport
// failures map to ErrUnreachable.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.probeClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case resp.StatusCode == http.StatusInternalServerError:
		return ErrServerError
	default:
		return &ConnectionError{Status: resp.StatusCode}
	}
}
