// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDialogGeneratesUniqueIDs(t *testing.T) {
	a := NewDialog("First")
	b := NewDialog("Second")

	assert.True(t, strings.HasPrefix(a.ID, "dialog-"))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "First", a.Name)
	assert.True(t, a.IsEmpty())
}

func TestNewDefaultDialog(t *testing.T) {
	d := NewDefaultDialog("Main dialog")
	assert.Equal(t, DefaultDialogID, d.ID)
	assert.Equal(t, "Main dialog", d.Name)
}

func TestUpdateMergesByID(t *testing.T) {
	d := NewDialog("Chat")
	p := NewAssistantPlaceholder()
	d.Append(NewUserMessage("hi"))
	d.Append(p)

	require.True(t, d.Update(p.WithContent("partial", true)))

	got, ok := d.MessageByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, "partial", got.Content)
	assert.Equal(t, 2, d.MessageCount(), "update must not append")
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	d := NewDialog("Chat")
	d.Append(NewUserMessage("hi"))

	ghost := NewAssistantPlaceholder()
	assert.False(t, d.Update(ghost.Finalized("nope")))
	assert.Equal(t, 1, d.MessageCount())
}

func TestRemove(t *testing.T) {
	d := NewDialog("Chat")
	p := NewAssistantPlaceholder()
	d.Append(p)

	assert.True(t, d.Remove(p.ID))
	assert.True(t, d.IsEmpty())
	assert.False(t, d.Remove(p.ID), "second remove must be a no-op")
}

func TestStreamingMessage(t *testing.T) {
	d := NewDialog("Chat")
	_, ok := d.StreamingMessage()
	assert.False(t, ok)

	p := NewAssistantPlaceholder()
	d.Append(p)
	got, ok := d.StreamingMessage()
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)

	d.Update(p.Finalized("done"))
	_, ok = d.StreamingMessage()
	assert.False(t, ok)
}

func TestPreview(t *testing.T) {
	d := NewDialog("Chat")
	assert.Equal(t, "Empty dialog", d.Preview())

	d.Append(NewUserMessage("short question"))
	assert.Equal(t, "short question", d.Preview())
}

func TestCloneIsDeep(t *testing.T) {
	d := NewDialog("Chat")
	d.Append(NewUserMessage("original"))

	c := d.Clone()
	c.Messages[0].Content = "mutated"
	c.Name = "renamed"

	assert.Equal(t, "original", d.Messages[0].Content)
	assert.Equal(t, "Chat", d.Name)
}
