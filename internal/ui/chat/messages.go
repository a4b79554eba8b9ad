// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen: dialog sidebar, message view,
// and input line.
package chat

// DialogUpdatedMsg reports that a dialog's content changed. Emitted from
// exchange goroutines through program.Send; the screen re-renders the
// dialog if it is the one on display.
type DialogUpdatedMsg struct {
	DialogID string
}

// sendFinishedMsg reports that an exchange settled, successfully or not.
// Exactly one arrives per send, so the busy flag always clears.
type sendFinishedMsg struct {
	DialogID string
	Err      error
}

// DialogCreatedMsg reports a freshly created dialog so the application can
// announce it.
type DialogCreatedMsg struct {
	Name string
}

// LogoutMsg asks the application to end the session. The parent model
// tears down the store and returns to the login screen.
type LogoutMsg struct{}
