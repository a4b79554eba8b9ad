// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the toast overlay. Toasts stack in a corner and
// dismiss in two phases: first the toast is marked removing and fades,
// then shortly after it leaves the stack. Error toasts never expire on
// their own.
package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkiselev/gigachat-tui/internal/notify"
	"github.com/dkiselev/gigachat-tui/internal/ui/styles"
)

// removeDelay is the gap between the removing mark and the actual drop.
const removeDelay = 300 * time.Millisecond

// =============================================================================
// MESSAGES
// =============================================================================

// ToastMsg delivers a new toast into the Bubble Tea loop.
type ToastMsg notify.Toast

// toastExpireMsg fires when a toast's display duration ran out.
type toastExpireMsg struct{ id int64 }

// toastDropMsg fires when a removing toast should leave the stack.
type toastDropMsg struct{ id int64 }

// =============================================================================
// TOAST STACK
// =============================================================================

// ToastStack holds the visible toasts, newest last.
type ToastStack struct {
	toasts []notify.Toast
}

// NewToastStack creates an empty stack.
func NewToastStack() *ToastStack {
	return &ToastStack{}
}

// Len returns the number of visible toasts.
func (s *ToastStack) Len() int {
	return len(s.toasts)
}

// Update handles toast lifecycle messages. Other messages pass through
// with a nil command.
func (s *ToastStack) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ToastMsg:
		return s.push(notify.Toast(msg))
	case toastExpireMsg:
		return s.beginRemove(msg.id)
	case toastDropMsg:
		s.drop(msg.id)
	}
	return nil
}

// DismissOldest starts removal of the oldest toast still fully visible.
// Bound to a key so error toasts, which never expire, can be cleared.
func (s *ToastStack) DismissOldest() tea.Cmd {
	for _, t := range s.toasts {
		if !t.Removing {
			return s.beginRemove(t.ID)
		}
	}
	return nil
}

// push adds a toast and schedules its expiry when it has a duration.
func (s *ToastStack) push(t notify.Toast) tea.Cmd {
	s.toasts = append(s.toasts, t)
	if t.Duration <= 0 {
		return nil
	}
	id := t.ID
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

// beginRemove marks a toast removing and schedules the final drop.
func (s *ToastStack) beginRemove(id int64) tea.Cmd {
	found := false
	for i := range s.toasts {
		if s.toasts[i].ID == id && !s.toasts[i].Removing {
			s.toasts[i].Removing = true
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return tea.Tick(removeDelay, func(time.Time) tea.Msg {
		return toastDropMsg{id: id}
	})
}

// drop deletes a toast from the stack.
func (s *ToastStack) drop(id int64) {
	for i := range s.toasts {
		if s.toasts[i].ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the stack for the overlay, newest at the bottom.
func (s *ToastStack) View(maxWidth int) string {
	if len(s.toasts) == 0 {
		return ""
	}

	var rendered []string
	for _, t := range s.toasts {
		rendered = append(rendered, renderToast(t, maxWidth))
	}
	return strings.Join(rendered, "\n")
}

// renderToast draws one toast in its kind's frame.
func renderToast(t notify.Toast, maxWidth int) string {
	var style lipgloss.Style
	var indicator string
	switch t.Kind {
	case notify.KindError:
		style = styles.ToastError
		indicator = styles.IndicatorError
	case notify.KindSuccess:
		style = styles.ToastSuccess
		indicator = styles.IndicatorSuccess
	case notify.KindWarning:
		style = styles.ToastWarning
		indicator = styles.IndicatorWarning
	default:
		style = styles.ToastInfo
		indicator = styles.IndicatorInfo
	}

	body := indicator + " " + t.Title
	if t.Message != "" {
		body += "\n" + t.Message
	}
	if t.Removing {
		style = style.Faint(true)
	}
	return style.MaxWidth(maxWidth).Render(body)
}
