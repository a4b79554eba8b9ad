// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/dkiselev/gigachat-tui/internal/notify"
)

func infoToast(id int64) notify.Toast {
	return notify.Toast{
		ID:       id,
		Kind:     notify.KindInfo,
		Title:    "note",
		Duration: notify.DefaultToastDuration,
	}
}

func errorToast(id int64) notify.Toast {
	return notify.Toast{ID: id, Kind: notify.KindError, Title: "boom"}
}

func TestPushSchedulesExpiryForTimedToasts(t *testing.T) {
	s := NewToastStack()

	if cmd := s.Update(ToastMsg(infoToast(1))); cmd == nil {
		t.Error("timed toast did not schedule expiry")
	}
	if cmd := s.Update(ToastMsg(errorToast(2))); cmd != nil {
		t.Error("error toast scheduled an expiry")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestTwoPhaseRemoval(t *testing.T) {
	s := NewToastStack()
	s.Update(ToastMsg(infoToast(1)))

	cmd := s.Update(toastExpireMsg{id: 1})
	if cmd == nil {
		t.Fatal("expiry did not schedule the drop")
	}
	if s.Len() != 1 {
		t.Fatal("toast dropped immediately instead of two-phase")
	}
	if !s.toasts[0].Removing {
		t.Error("toast not marked removing after expiry")
	}

	// Expiring again while removing must not reschedule.
	if cmd := s.Update(toastExpireMsg{id: 1}); cmd != nil {
		t.Error("second expiry scheduled another drop")
	}

	s.Update(toastDropMsg{id: 1})
	if s.Len() != 0 {
		t.Errorf("Len = %d after drop, want 0", s.Len())
	}
}

func TestDismissOldestSkipsRemoving(t *testing.T) {
	s := NewToastStack()
	s.Update(ToastMsg(errorToast(1)))
	s.Update(ToastMsg(errorToast(2)))

	s.Update(toastExpireMsg{id: 1}) // 1 is now removing

	if cmd := s.DismissOldest(); cmd == nil {
		t.Fatal("DismissOldest found nothing to dismiss")
	}
	if !s.toasts[1].Removing {
		t.Error("DismissOldest skipped toast 2")
	}
}

func TestDropUnknownIDIsNoOp(t *testing.T) {
	s := NewToastStack()
	s.Update(ToastMsg(infoToast(1)))
	s.Update(toastDropMsg{id: 99})
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestViewShowsTitlesAndIndicators(t *testing.T) {
	s := NewToastStack()
	s.Update(ToastMsg(notify.Toast{ID: 1, Kind: notify.KindError, Title: "login failed", Message: "check credentials"}))

	view := s.View(60)
	if !strings.Contains(view, "login failed") {
		t.Errorf("view missing title: %q", view)
	}
	if !strings.Contains(view, "check credentials") {
		t.Errorf("view missing message: %q", view)
	}
	if !strings.Contains(view, "[X]") {
		t.Errorf("view missing error indicator: %q", view)
	}
}

func TestViewRendersWarningIndicator(t *testing.T) {
	s := NewToastStack()
	s.Update(ToastMsg(notify.Toast{ID: 1, Kind: notify.KindWarning, Title: "slow network"}))

	view := s.View(60)
	if !strings.Contains(view, "[!]") {
		t.Errorf("view missing warning indicator: %q", view)
	}
}

func TestRemoveDelayIsShort(t *testing.T) {
	// The removing phase is an animation beat, not a dwell time.
	if removeDelay > time.Second {
		t.Errorf("removeDelay = %v, expected well under a second", removeDelay)
	}
}
