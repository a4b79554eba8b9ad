// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange runs chat exchanges against the backend and keeps the
// dialog store current while a response streams in.
//
// One exchange is one Send call: the user message is recorded, the request
// goes out, and an assistant placeholder fills chunk by chunk until the
// stream finishes or breaks. Every store mutation is followed by an update
// notification so the UI can repaint. All updates target the placeholder by
// message ID, so exchanges landing in the same dialog never clobber each
// other.
package exchange

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dkiselev/gigachat-tui/internal/backend"
	"github.com/dkiselev/gigachat-tui/internal/model"
	"github.com/dkiselev/gigachat-tui/internal/notify"
	"github.com/dkiselev/gigachat-tui/internal/store"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine drives chat exchanges for a single authenticated session.
type Engine struct {
	store      *store.DialogStore
	client     *backend.Client
	dispatcher *notify.Dispatcher
	log        *slog.Logger

	// onUpdate is called after every store mutation with the affected
	// dialog ID. Nil means no one is listening.
	onUpdate func(dialogID string)
}

// NewEngine creates an engine over the given store and backend client.
// A nil dispatcher silences exchange notifications.
func NewEngine(st *store.DialogStore, client *backend.Client, dispatcher *notify.Dispatcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      st,
		client:     client,
		dispatcher: dispatcher,
		log:        logger,
	}
}

// OnUpdate registers the repaint callback. Must be set before the first
// Send; the callback may be invoked from exchange goroutines.
func (e *Engine) OnUpdate(fn func(dialogID string)) {
	e.onUpdate = fn
}

// notify signals that the named dialog changed.
func (e *Engine) notify(dialogID string) {
	if e.onUpdate != nil {
		e.onUpdate(dialogID)
	}
}

// announce sends a user-facing notification about the exchange outcome.
func (e *Engine) announce(kind notify.Kind, title, message string) {
	if e.dispatcher != nil {
		e.dispatcher.Notify(kind, title, message, 0)
	}
}

// =============================================================================
// SEND
// =============================================================================

// Send runs one full exchange: append the user message, stream the
// assistant response into a placeholder, and finalize it. Blocks until the
// exchange settles, so callers run it from their own goroutine.
//
// Blank input is a no-op. On failure the placeholder (if one was created)
// is removed and an error message is appended in its place; Send returns
// exactly once either way.
func (e *Engine) Send(ctx context.Context, dialogID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	user := model.NewUserMessage(text)
	e.store.Append(dialogID, user)
	e.notify(dialogID)

	frames, err := e.client.StreamChat(ctx, text, dialogID)
	if err != nil {
		e.log.Error("chat request failed", "dialog", dialogID, "error", err)
		e.store.Append(dialogID, model.NewErrorMessage(describeError(err)))
		e.notify(dialogID)
		e.announce(notify.KindError, "Send failed", describeError(err))
		return err
	}

	placeholder := model.NewAssistantPlaceholder()
	e.store.Append(dialogID, placeholder)
	e.notify(dialogID)

	var assembled strings.Builder
	for frame := range frames {
		switch frame.Kind {
		case backend.FrameChunk:
			assembled.WriteString(frame.Text)
			e.store.Update(dialogID, placeholder.WithContent(assembled.String(), true))
			e.notify(dialogID)

		case backend.FrameMalformed:
			e.log.Warn("skipping malformed stream frame", "dialog", dialogID, "payload", frame.Text)

		case backend.FrameDone:
			e.store.Update(dialogID, placeholder.Finalized(assembled.String()))
			e.notify(dialogID)
			e.announce(notify.KindSuccess, "Response received", "")
			return nil

		case backend.FrameError:
			return e.fail(dialogID, placeholder.ID, assembled.String(), frame.Err)
		}
	}

	// The channel closed without a terminal frame. Treat it as a break so
	// the dialog never keeps a streaming placeholder forever.
	return e.fail(dialogID, placeholder.ID, assembled.String(), errors.New("stream ended unexpectedly"))
}

// fail settles a broken exchange: the placeholder goes away and an error
// message takes its place.
func (e *Engine) fail(dialogID string, placeholderID int64, partial string, cause error) error {
	err := &backend.StreamError{Partial: partial, Err: cause}
	e.log.Error("stream interrupted", "dialog", dialogID, "partial_len", len(partial), "error", cause)

	e.store.Remove(dialogID, placeholderID)
	e.store.Append(dialogID, model.NewErrorMessage(describeError(err)))
	e.notify(dialogID)
	e.announce(notify.KindError, "Send failed", describeError(err))
	return err
}

// =============================================================================
// ERROR PRESENTATION
// =============================================================================

// describeError turns a backend failure into text fit for a dialog message.
func describeError(err error) string {
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		return "Authentication failed. Please log in again."
	case errors.Is(err, backend.ErrServerError):
		return "The server encountered an internal error. Please try again."
	case errors.Is(err, backend.ErrUnreachable):
		return "Could not reach the server. Check your connection and try again."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	}

	var streamErr *backend.StreamError
	if errors.As(err, &streamErr) {
		return "The response was interrupted before it finished. Please try again."
	}

	var reqErr *backend.RequestError
	if errors.As(err, &reqErr) {
		return "The server rejected the request. Please try again."
	}

	return "Something went wrong. Please try again."
}
