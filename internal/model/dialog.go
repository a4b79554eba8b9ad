// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for dialogs and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDialogID is the ID of the dialog created automatically on login.
const DefaultDialogID = "default"

// =============================================================================
// DIALOG TYPE
// =============================================================================

// Dialog holds one conversation thread: an ordered message list plus metadata.
type Dialog struct {
	// Identity
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Messages, in arrival order.
	Messages []Message `json:"messages"`
}

// NewDialog creates a new dialog with a generated ID and an empty message list.
func NewDialog(name string) *Dialog {
	return &Dialog{
		ID:        generateDialogID(),
		Name:      name,
		CreatedAt: time.Now(),
		Messages:  make([]Message, 0),
	}
}

// NewDefaultDialog creates the initial dialog materialized on login.
func NewDefaultDialog(name string) *Dialog {
	d := NewDialog(name)
	d.ID = DefaultDialogID
	return d
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the dialog.
func (d *Dialog) Append(msg Message) {
	d.Messages = append(d.Messages, msg)
}

// Update replaces the message sharing msg.ID. Returns false if no message
// with that ID exists; the dialog is left unchanged in that case.
func (d *Dialog) Update(msg Message) bool {
	for i := range d.Messages {
		if d.Messages[i].ID == msg.ID {
			d.Messages[i] = msg
			return true
		}
	}
	return false
}

// Remove deletes the message with the given ID. Returns false if absent.
func (d *Dialog) Remove(messageID int64) bool {
	for i := range d.Messages {
		if d.Messages[i].ID == messageID {
			d.Messages = append(d.Messages[:i], d.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// MessageByID returns the message with the given ID and whether it exists.
func (d *Dialog) MessageByID(messageID int64) (Message, bool) {
	for i := range d.Messages {
		if d.Messages[i].ID == messageID {
			return d.Messages[i], true
		}
	}
	return Message{}, false
}

// MessageCount returns the number of messages.
func (d *Dialog) MessageCount() int {
	return len(d.Messages)
}

// IsEmpty returns true if there are no messages.
func (d *Dialog) IsEmpty() bool {
	return len(d.Messages) == 0
}

// LastMessage returns the most recent message, or a zero message if empty.
func (d *Dialog) LastMessage() (Message, bool) {
	if len(d.Messages) == 0 {
		return Message{}, false
	}
	return d.Messages[len(d.Messages)-1], true
}

// StreamingMessage returns the in-flight assistant reply, if any. At most
// one message per dialog carries the streaming flag at a time.
func (d *Dialog) StreamingMessage() (Message, bool) {
	for i := range d.Messages {
		if d.Messages[i].Streaming() {
			return d.Messages[i], true
		}
	}
	return Message{}, false
}

// Preview returns a short preview of the dialog for list display.
func (d *Dialog) Preview() string {
	if last, ok := d.LastMessage(); ok {
		return last.Preview(60)
	}
	return "Empty dialog"
}

// Clone creates a deep copy of the dialog. Messages are value types, so
// copying the slice is sufficient.
func (d *Dialog) Clone() *Dialog {
	clone := &Dialog{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		Messages:  make([]Message, len(d.Messages)),
	}
	copy(clone.Messages, d.Messages)
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateDialogID creates a unique dialog ID.
func generateDialogID() string {
	return "dialog-" + uuid.NewString()
}
