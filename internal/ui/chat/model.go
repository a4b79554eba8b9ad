// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkiselev/gigachat-tui/internal/auth"
	"github.com/dkiselev/gigachat-tui/internal/config"
	"github.com/dkiselev/gigachat-tui/internal/exchange"
	"github.com/dkiselev/gigachat-tui/internal/store"
	"github.com/dkiselev/gigachat-tui/internal/ui/components"
	"github.com/dkiselev/gigachat-tui/internal/ui/styles"
)

// Layout constants.
const (
	sidebarWidth = 24
	inputHeight  = 3
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat screen state.
type Model struct {
	session *auth.Session
	store   *store.DialogStore
	engine  *exchange.Engine
	cfg     *config.Config

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model
	renderer *components.MessageRenderer

	busy  bool
	ready bool

	width  int
	height int
}

// New creates the chat screen for an authenticated session. The store
// already holds the initial dialog.
func New(session *auth.Session, st *store.DialogStore, engine *exchange.Engine, cfg *config.Config) Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.SetHeight(inputHeight - 2)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Teal)

	return Model{
		session: session,
		store:   st,
		engine:  engine,
		cfg:     cfg,
		input:   input,
		spin:    spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DialogUpdatedMsg:
		if msg.DialogID == m.store.CurrentID() {
			m.refreshViewport()
		}
		return m, nil

	case sendFinishedMsg:
		m.busy = false
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.forward(msg)
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.send()

	case "ctrl+n":
		name := fmt.Sprintf("Dialog %d", m.store.Count()+1)
		m.store.Create(name)
		m.refreshViewport()
		return m, func() tea.Msg { return DialogCreatedMsg{Name: name} }

	case "ctrl+j", "ctrl+down":
		m.switchDialog(1)
		return m, nil

	case "ctrl+k", "ctrl+up":
		m.switchDialog(-1)
		return m, nil

	case "ctrl+l":
		return m, func() tea.Msg { return LogoutMsg{} }

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m.forward(msg)
}

// forward passes a message to the input and viewport.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send launches an exchange with the input's content.
func (m Model) send() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	text := m.input.Value()
	dialogID := m.store.CurrentID()
	if dialogID == "" {
		return m, nil
	}

	m.input.Reset()
	m.busy = true

	engine := m.engine
	run := func() tea.Msg {
		err := engine.Send(context.Background(), dialogID, text)
		return sendFinishedMsg{DialogID: dialogID, Err: err}
	}
	return m, tea.Batch(run, m.spin.Tick)
}

// switchDialog moves the selection by delta within the dialog list.
func (m *Model) switchDialog(delta int) {
	dialogs := m.store.All()
	if len(dialogs) < 2 {
		return
	}
	cur := m.store.CurrentID()
	for i, d := range dialogs {
		if d.ID == cur {
			next := (i + delta + len(dialogs)) % len(dialogs)
			m.store.SwitchTo(dialogs[next].ID)
			m.refreshViewport()
			return
		}
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes the layout for a new terminal size.
func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	contentWidth := m.width - sidebarWidth
	if contentWidth < 20 {
		contentWidth = 20
	}
	viewportHeight := m.height - inputHeight - 2 // header and status bar
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}
	m.input.SetWidth(contentWidth - 2)

	if m.renderer == nil {
		m.renderer = components.NewMessageRenderer(contentWidth, m.cfg.UI.Theme, m.cfg.UI.MarkdownStyle, m.cfg.UI.SyntaxStyle)
	} else {
		m.renderer.SetWidth(contentWidth, m.cfg.UI.Theme, m.cfg.UI.MarkdownStyle)
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-renders the current dialog into the viewport and
// keeps the view pinned to the latest message.
func (m *Model) refreshViewport() {
	if !m.ready || m.renderer == nil {
		return
	}

	dialog := m.store.Current()
	if dialog == nil || dialog.IsEmpty() {
		m.viewport.SetContent(styles.StatusBar.Render("No messages yet. Say hello."))
		return
	}

	atBottom := m.viewport.AtBottom()
	var blocks []string
	for _, msg := range dialog.Messages {
		blocks = append(blocks, m.renderer.Render(msg))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	if atBottom {
		m.viewport.GotoBottom()
	}
}
