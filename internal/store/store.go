// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory dialog collection and the current
// selection.
//
// The store is the single shared mutable resource of the application: the
// streaming engine mutates it from exchange goroutines while the UI reads it
// from the Bubble Tea loop. Every operation runs under one mutex, so the
// dialog list and the current-dialog view always change in the same atomic
// transition and can never be observed out of step with each other.
//
// Mutations targeting an unknown dialog or message are silent no-ops, not
// errors: an exchange may complete after the user has navigated away or
// logged out, and a late update must not fault.
package store

import (
	"sync"

	"github.com/dkiselev/gigachat-tui/internal/model"
)

// =============================================================================
// DIALOG STORE
// =============================================================================

// DialogStore owns the dialog collection and the current selection.
type DialogStore struct {
	mu        sync.Mutex
	dialogs   []*model.Dialog
	currentID string
}

// New creates an empty dialog store with no current selection.
func New() *DialogStore {
	return &DialogStore{
		dialogs: make([]*model.Dialog, 0),
	}
}

// =============================================================================
// DIALOG LIFECYCLE
// =============================================================================

// Create adds a new dialog with the given name, makes it current, and
// returns a snapshot of it.
func (s *DialogStore) Create(name string) *model.Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := model.NewDialog(name)
	s.dialogs = append(s.dialogs, d)
	s.currentID = d.ID
	return d.Clone()
}

// CreateDefault adds the initial dialog materialized on login and makes it
// current.
func (s *DialogStore) CreateDefault(name string) *model.Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := model.NewDefaultDialog(name)
	s.dialogs = append(s.dialogs, d)
	s.currentID = d.ID
	return d.Clone()
}

// SwitchTo makes the dialog with the given ID current. Unknown IDs are a
// no-op so the selection never points at a dialog that does not exist.
func (s *DialogStore) SwitchTo(dialogID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(dialogID) != nil {
		s.currentID = dialogID
	}
}

// Reset drops every dialog and the current selection in one transition.
// Called on logout; dialogs are not persisted.
func (s *DialogStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dialogs = make([]*model.Dialog, 0)
	s.currentID = ""
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// Append adds a message to the end of the named dialog's message list.
// Unknown dialog IDs are a silent no-op.
func (s *DialogStore) Append(dialogID string, msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d := s.findLocked(dialogID); d != nil {
		d.Append(msg)
	}
}

// Update replaces the message sharing msg.ID within the named dialog.
// A no-op if either the dialog or the message is absent.
func (s *DialogStore) Update(dialogID string, msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d := s.findLocked(dialogID); d != nil {
		d.Update(msg)
	}
}

// Remove deletes the message with the given ID from the named dialog.
// A no-op if either the dialog or the message is absent.
func (s *DialogStore) Remove(dialogID string, messageID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d := s.findLocked(dialogID); d != nil {
		d.Remove(messageID)
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Current returns a snapshot of the currently selected dialog, or nil when
// nothing is selected.
func (s *DialogStore) Current() *model.Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d := s.findLocked(s.currentID); d != nil {
		return d.Clone()
	}
	return nil
}

// CurrentID returns the ID of the currently selected dialog, or "".
func (s *DialogStore) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Get returns a snapshot of the dialog with the given ID, or nil.
func (s *DialogStore) Get(dialogID string) *model.Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d := s.findLocked(dialogID); d != nil {
		return d.Clone()
	}
	return nil
}

// All returns snapshots of every dialog in creation order.
func (s *DialogStore) All() []*model.Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Dialog, len(s.dialogs))
	for i, d := range s.dialogs {
		out[i] = d.Clone()
	}
	return out
}

// Count returns the number of dialogs.
func (s *DialogStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dialogs)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// findLocked returns the dialog with the given ID, or nil.
// Caller must hold the mutex.
func (s *DialogStore) findLocked(dialogID string) *model.Dialog {
	if dialogID == "" {
		return nil
	}
	for _, d := range s.dialogs {
		if d.ID == dialogID {
			return d
		}
	}
	return nil
}
