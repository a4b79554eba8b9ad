// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify delivers user-facing notifications.
//
// Two delivery paths exist: desktop notifications through the operating
// system, and in-app toasts rendered by the UI. Notify tries the desktop
// first and falls back to a toast when the desktop path is unavailable or
// disabled. Toasts travel over a single-subscriber channel that the UI
// drains into its overlay.
package notify

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gen2brain/beeep"
)

// Toast display durations.
const (
	// DefaultToastDuration is how long info and success toasts stay up.
	DefaultToastDuration = 3 * time.Second

	// WarningToastDuration is how long warning toasts stay up. Longer than
	// the default so warnings are harder to miss.
	WarningToastDuration = 5 * time.Second

	// toastChanBuffer bounds pending toasts; overflow is dropped.
	toastChanBuffer = 16
)

// systemNotify is swappable for tests.
var systemNotify = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// =============================================================================
// TOASTS
// =============================================================================

// Kind classifies a notification.
type Kind int

const (
	// KindInfo is a neutral status notification.
	KindInfo Kind = iota

	// KindSuccess reports a completed action.
	KindSuccess

	// KindWarning flags something that needs attention but did not fail.
	KindWarning

	// KindError reports a failure.
	KindError
)

// Toast is one in-app notification.
//
// Duration zero means the toast never expires on its own; the user has to
// dismiss it. Error toasts always get zero so failures cannot scroll away
// unseen. Removing marks a toast in its dismiss animation; the UI drops it
// shortly after setting the flag.
type Toast struct {
	ID       int64
	Kind     Kind
	Title    string
	Message  string
	Duration time.Duration
	Removing bool
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher routes notifications to the desktop or the toast channel.
type Dispatcher struct {
	desktop bool
	toasts  chan Toast
	log     *slog.Logger
	seq     atomic.Int64
}

// NewDispatcher creates a dispatcher. desktop controls whether operating
// system notifications are attempted at all.
func NewDispatcher(desktop bool, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		desktop: desktop,
		toasts:  make(chan Toast, toastChanBuffer),
		log:     logger,
	}
}

// Toasts returns the channel the UI drains. Single subscriber.
func (d *Dispatcher) Toasts() <-chan Toast {
	return d.toasts
}

// Notify delivers a notification, preferring the desktop and falling back
// to a toast when the desktop path fails or is disabled. A zero duration
// means the kind's default; error toasts default to sticky.
func (d *Dispatcher) Notify(kind Kind, title, message string, duration time.Duration) {
	if d.desktop {
		if err := systemNotify(title, message); err == nil {
			return
		} else {
			d.log.Warn("desktop notification failed, falling back to toast", "error", err)
		}
	}
	d.ShowToast(kind, title, message, duration)
}

// ShowToast delivers an in-app toast without touching the desktop.
// A full channel drops the toast rather than blocking a caller.
func (d *Dispatcher) ShowToast(kind Kind, title, message string, duration time.Duration) {
	if duration == 0 {
		duration = durationFor(kind)
	}
	t := Toast{
		ID:       d.seq.Add(1),
		Kind:     kind,
		Title:    title,
		Message:  message,
		Duration: duration,
	}

	select {
	case d.toasts <- t:
	default:
		d.log.Warn("toast channel full, dropping notification", "title", title)
	}
}

// durationFor returns the default auto-dismiss duration for a toast kind.
func durationFor(kind Kind) time.Duration {
	switch kind {
	case KindError:
		return 0
	case KindWarning:
		return WarningToastDuration
	default:
		return DefaultToastDuration
	}
}
