// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkiselev/gigachat-tui/internal/auth"
	"github.com/dkiselev/gigachat-tui/internal/config"
	"github.com/dkiselev/gigachat-tui/internal/exchange"
	"github.com/dkiselev/gigachat-tui/internal/notify"
	"github.com/dkiselev/gigachat-tui/internal/store"
	"github.com/dkiselev/gigachat-tui/internal/ui/chat"
	"github.com/dkiselev/gigachat-tui/internal/ui/components"
	"github.com/dkiselev/gigachat-tui/internal/ui/login"
)

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State is the active screen.
type State int

const (
	// StateLogin shows the login form.
	StateLogin State = iota

	// StateChat shows the chat screen.
	StateChat
)

// configReloadedMsg carries a hot-reloaded configuration.
type configReloadedMsg struct {
	cfg *config.Config
}

// App is the root model: it owns the active screen, the toast overlay,
// and the session lifecycle.
type App struct {
	state State
	cfg   *config.Config
	log   *slog.Logger

	authMgr    *auth.Manager
	store      *store.DialogStore
	dispatcher *notify.Dispatcher

	loginScreen login.Model
	chatScreen  chat.Model
	toasts      *components.ToastStack

	width  int
	height int
}

// newApp wires the root model and its long-lived services.
func newApp(cfg *config.Config, logger *slog.Logger) *App {
	authMgr := auth.NewManager(cfg.Server.BaseURL, logger.With("component", "auth"))
	return &App{
		state:       StateLogin,
		cfg:         cfg,
		log:         logger,
		authMgr:     authMgr,
		store:       store.New(),
		dispatcher:  notify.NewDispatcher(cfg.Notifications.Desktop, logger.With("component", "notify")),
		loginScreen: login.New(authMgr),
		toasts:      components.NewToastStack(),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loginScreen.Init(), a.waitForToast())
}

// waitForToast re-arms the toast channel subscription.
func (a *App) waitForToast() tea.Cmd {
	ch := a.dispatcher.Toasts()
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return components.ToastMsg(t)
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Both screens track the size so switching needs no resize.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.loginScreen, cmd = a.loginScreen.Update(msg)
		cmds = append(cmds, cmd)
		a.chatScreen, cmd = a.chatScreen.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.toasts.Len() > 0 {
				return a, a.toasts.DismissOldest()
			}
		}

	case components.ToastMsg:
		cmd := a.toasts.Update(msg)
		return a, tea.Batch(cmd, a.waitForToast())

	case login.SucceededMsg:
		return a, a.enterChat(msg.Session)

	case chat.DialogCreatedMsg:
		a.dispatcher.Notify(notify.KindInfo, "New dialog", msg.Name, 0)
		return a, nil

	case chat.LogoutMsg:
		a.leaveChat()
		return a, nil

	case configReloadedMsg:
		*a.cfg = *msg.cfg
		a.dispatcher.Notify(notify.KindInfo, "Settings reloaded", "", 0)
		return a, nil
	}

	if cmd := a.toasts.Update(msg); cmd != nil {
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.state {
	case StateChat:
		a.chatScreen, cmd = a.chatScreen.Update(msg)
	default:
		a.loginScreen, cmd = a.loginScreen.Update(msg)
	}
	return a, cmd
}

// enterChat builds the session-scoped state and switches screens.
func (a *App) enterChat(sess *auth.Session) tea.Cmd {
	a.store.CreateDefault("Main dialog")

	engine := exchange.NewEngine(a.store, sess.Client, a.dispatcher, a.log.With("component", "exchange"))
	engine.OnUpdate(func(dialogID string) {
		sendToProgram(chat.DialogUpdatedMsg{DialogID: dialogID})
	})

	a.chatScreen = chat.New(sess, a.store, engine, a.cfg)
	a.state = StateChat
	a.dispatcher.Notify(notify.KindSuccess, "Welcome", fmt.Sprintf("Signed in as %s", sess.Username), 0)

	return tea.Batch(
		a.chatScreen.Init(),
		func() tea.Msg { return tea.WindowSizeMsg{Width: a.width, Height: a.height} },
	)
}

// leaveChat tears the session down and returns to the login form.
func (a *App) leaveChat() {
	username := ""
	if s := a.authMgr.Session(); s != nil {
		username = s.Username
	}
	a.store.Reset()
	a.authMgr.Logout()
	a.loginScreen = login.New(a.authMgr)
	a.state = StateLogin
	a.dispatcher.Notify(notify.KindInfo, "Signed out", fmt.Sprintf("Goodbye, %s", username), 0)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a *App) View() string {
	var screen string
	switch a.state {
	case StateChat:
		screen = a.chatScreen.View()
	default:
		screen = a.loginScreen.View()
	}

	if a.toasts.Len() == 0 {
		return screen
	}

	overlay := a.toasts.View(a.toastWidth())
	return lipgloss.JoinVertical(lipgloss.Right, overlay, screen)
}

// toastWidth bounds the toast overlay width.
func (a *App) toastWidth() int {
	w := a.width / 3
	if w < 30 {
		w = 30
	}
	if a.width > 0 && w > a.width-2 {
		w = a.width - 2
	}
	return w
}
