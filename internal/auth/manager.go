// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth handles login and logout against the chat backend.
//
// The backend has no session endpoint: credentials are verified by probing
// the root endpoint with Basic auth, and a successful probe yields a
// session whose client carries the credentials on every later request.
// Local validation runs before any network traffic so obviously bad input
// never leaves the machine.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dkiselev/gigachat-tui/internal/backend"
)

// Validation thresholds for login input.
const (
	// MinUsernameLen is the minimum length of a trimmed username.
	MinUsernameLen = 3

	// MinPasswordLen is the minimum password length.
	MinPasswordLen = 6
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports login input rejected before any request was made.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// validateInput checks the credentials against the local thresholds.
// The username is trimmed before measuring; the password is taken as-is.
// Lengths are in runes, not bytes, so non-ASCII input is measured the way
// the user sees it.
func validateInput(username, password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(username)) < MinUsernameLen {
		return &ValidationError{
			Field:  "username",
			Reason: fmt.Sprintf("must be at least %d characters", MinUsernameLen),
		}
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen),
		}
	}
	return nil
}

// =============================================================================
// SESSION
// =============================================================================

// Session is an authenticated connection to the backend.
type Session struct {
	Username string
	Client   *backend.Client
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager performs login and logout for one backend address.
type Manager struct {
	baseURL string
	log     *slog.Logger

	session *Session
}

// NewManager creates a manager targeting the backend at baseURL.
func NewManager(baseURL string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		baseURL: baseURL,
		log:     logger,
	}
}

// Login validates the credentials locally, probes the backend with them,
// and on success returns the new session. The trimmed username becomes the
// session identity.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := validateInput(username, password); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	client := backend.NewClient(m.baseURL, backend.Credentials{
		Username: username,
		Password: password,
	})

	if err := client.Probe(ctx); err != nil {
		m.log.Warn("login failed", "username", username, "error", err)
		return nil, err
	}

	m.session = &Session{Username: username, Client: client}
	m.log.Info("login succeeded", "username", username)
	return m.session, nil
}

// Session returns the active session, or nil when logged out.
func (m *Manager) Session() *Session {
	return m.session
}

// LoggedIn reports whether a session is active.
func (m *Manager) LoggedIn() bool {
	return m.session != nil
}

// Logout drops the session. Credentials leave memory with it; the backend
// keeps no state to tear down.
func (m *Manager) Logout() {
	if m.session != nil {
		m.log.Info("logout", "username", m.session.Username)
	}
	m.session = nil
}
