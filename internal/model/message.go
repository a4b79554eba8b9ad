// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for dialogs and messages.
package model

import (
	"sync/atomic"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleError:
		return "Error"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a dialog.
//
// IsStreaming is a tri-state flag: nil means the message never streamed or
// has finished streaming (the field is absent), a non-nil true marks the
// in-flight assistant reply. Finalizing a stream clears the pointer rather
// than setting it to false, so "completed" is indistinguishable from "never
// streamed", which is the intended contract.
type Message struct {
	// Identity
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Streaming state: nil when absent.
	IsStreaming *bool `json:"is_streaming,omitempty"`
}

// messageSeq is the process-wide message ID sequence, seeded from wall-clock
// time so IDs stay unique across exchanges within a session.
var messageSeq atomic.Int64

func init() {
	messageSeq.Store(time.Now().UnixMilli())
}

// NextMessageID allocates a fresh message ID.
func NextMessageID() int64 {
	return messageSeq.Add(1)
}

// NewUserMessage creates a new user message with a fresh ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NextMessageID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantPlaceholder creates the empty streaming placeholder that is
// appended before any content arrives and later merge-updated in place.
func NewAssistantPlaceholder() Message {
	streaming := true
	return Message{
		ID:          NextMessageID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: &streaming,
	}
}

// NewErrorMessage creates a new error-role message with a fresh ID.
func NewErrorMessage(content string) Message {
	return Message{
		ID:        NextMessageID(),
		Role:      RoleError,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Streaming reports whether the message is an in-flight assistant reply.
func (m Message) Streaming() bool {
	return m.IsStreaming != nil && *m.IsStreaming
}

// WithContent returns a merge-update copy of the message carrying the full
// accumulated content so far. The ID is preserved so consumers merge by ID;
// streaming indicates whether more content is expected.
func (m Message) WithContent(content string, streaming bool) Message {
	updated := m
	updated.Content = content
	updated.Timestamp = time.Now()
	if streaming {
		s := true
		updated.IsStreaming = &s
	} else {
		updated.IsStreaming = nil
	}
	return updated
}

// Finalized returns the terminal copy of the message: full content and no
// streaming flag at all.
func (m Message) Finalized(content string) Message {
	return m.WithContent(content, false)
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
