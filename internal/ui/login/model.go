// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the login screen.
//
// Two fields, tab to move between them, enter to submit. Validation
// failures surface under the offending field without any network traffic;
// probe failures surface under the form. While a probe is in flight the
// form locks and a spinner runs.
package login

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkiselev/gigachat-tui/internal/auth"
	"github.com/dkiselev/gigachat-tui/internal/backend"
	"github.com/dkiselev/gigachat-tui/internal/ui/styles"
)

// probeTimeout bounds a single login attempt.
const probeTimeout = 15 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// SucceededMsg reports a completed login. The parent model switches to the
// chat screen when it sees this.
type SucceededMsg struct {
	Session *auth.Session
}

// failedMsg reports a failed probe, handled inside this screen.
type failedMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// focusField identifies the focused form element.
type focusField int

const (
	focusUsername focusField = iota
	focusPassword
)

// Model is the login screen state.
type Model struct {
	manager *auth.Manager

	username textinput.Model
	password textinput.Model
	focus    focusField
	spin     spinner.Model

	submitting bool
	fieldErrs  map[string]string
	formErr    string

	width  int
	height int
}

// New creates the login screen over the given auth manager.
func New(manager *auth.Manager) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Teal)

	return Model{
		manager:   manager,
		username:  username,
		password:  password,
		spin:      spin,
		fieldErrs: map[string]string{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m = m.toggleFocus()
			return m, nil
		case "ctrl+r":
			m = m.toggleReveal()
			return m, nil
		case "enter":
			return m.submit()
		}
		// Editing a field retracts its error so stale complaints do not
		// linger over corrected input.
		if m.focus == focusUsername {
			delete(m.fieldErrs, "username")
		} else {
			delete(m.fieldErrs, "password")
		}
		m.formErr = ""

	case failedMsg:
		m.submitting = false
		m.formErr = describeLoginError(msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// toggleFocus moves focus between the two fields.
func (m Model) toggleFocus() Model {
	if m.focus == focusUsername {
		m.focus = focusPassword
		m.username.Blur()
		m.password.Focus()
	} else {
		m.focus = focusUsername
		m.password.Blur()
		m.username.Focus()
	}
	return m
}

// toggleReveal switches the password field between masked and plain echo.
func (m Model) toggleReveal() Model {
	if m.password.EchoMode == textinput.EchoPassword {
		m.password.EchoMode = textinput.EchoNormal
	} else {
		m.password.EchoMode = textinput.EchoPassword
	}
	return m
}

// submit validates the form and launches the probe.
func (m Model) submit() (Model, tea.Cmd) {
	m.fieldErrs = map[string]string{}
	m.formErr = ""

	username := m.username.Value()
	password := m.password.Value()

	if utf8.RuneCountInString(strings.TrimSpace(username)) < auth.MinUsernameLen {
		m.fieldErrs["username"] = "username must be at least 3 characters"
	}
	if utf8.RuneCountInString(password) < auth.MinPasswordLen {
		m.fieldErrs["password"] = "password must be at least 6 characters"
	}
	if len(m.fieldErrs) > 0 {
		return m, nil
	}

	m.submitting = true
	manager := m.manager
	login := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()

		sess, err := manager.Login(ctx, username, password)
		if err != nil {
			return failedMsg{err: err}
		}
		return SucceededMsg{Session: sess}
	}
	return m, tea.Batch(login, m.spin.Tick)
}

// describeLoginError maps probe failures onto form text.
func describeLoginError(err error) string {
	var vErr *auth.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason
	}

	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, backend.ErrServerError):
		return "The server encountered an error. Try again later."
	case errors.Is(err, backend.ErrUnreachable):
		return "Could not reach the server. Is it running?"
	case errors.Is(err, context.DeadlineExceeded):
		return "The server did not answer in time."
	}

	var connErr *backend.ConnectionError
	if errors.As(err, &connErr) {
		return "Unexpected response from the server."
	}
	return "Login failed. Please try again."
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	title := styles.FormTitle.Render("GigaChat")

	var sb strings.Builder
	sb.WriteString(title + "\n")
	sb.WriteString(styles.FormLabel.Render("Username") + "\n")
	sb.WriteString(m.username.View() + "\n")
	if e := m.fieldErrs["username"]; e != "" {
		sb.WriteString(styles.FormError.Render(e) + "\n")
	}
	sb.WriteString("\n" + styles.FormLabel.Render("Password") + "\n")
	sb.WriteString(m.password.View() + "\n")
	if e := m.fieldErrs["password"]; e != "" {
		sb.WriteString(styles.FormError.Render(e) + "\n")
	}

	switch {
	case m.submitting:
		sb.WriteString("\n" + m.spin.View() + " signing in...")
	case m.formErr != "":
		sb.WriteString("\n" + styles.FormError.Render(m.formErr))
	default:
		sb.WriteString("\n" + styles.StatusBar.Render("enter sign in • ctrl+r show password"))
	}
	sb.WriteString("\n" + styles.StatusBar.Render("demo: admin / password123"))

	box := styles.FormBox.Render(sb.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
