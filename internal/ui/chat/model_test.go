// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkiselev/gigachat-tui/internal/auth"
	"github.com/dkiselev/gigachat-tui/internal/backend"
	"github.com/dkiselev/gigachat-tui/internal/config"
	"github.com/dkiselev/gigachat-tui/internal/exchange"
	"github.com/dkiselev/gigachat-tui/internal/logging"
	"github.com/dkiselev/gigachat-tui/internal/model"
	"github.com/dkiselev/gigachat-tui/internal/store"
)

func newTestModel() (Model, *store.DialogStore) {
	st := store.New()
	st.CreateDefault("Main dialog")

	client := backend.NewClient("http://localhost:8000", backend.Credentials{Username: "admin", Password: "password123"})
	sess := &auth.Session{Username: "admin", Client: client}
	eng := exchange.NewEngine(st, client, nil, logging.Discard())

	m := New(sess, st, eng, config.Default())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, st
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestEnterSendsAndSetsBusy(t *testing.T) {
	m, _ := newTestModel()
	m = typeRunes(m, "hello")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	if !m.busy {
		t.Error("send did not set busy")
	}
	if m.input.Value() != "" {
		t.Error("input not cleared after send")
	}
}

func TestEnterWhileBusyIsIgnored(t *testing.T) {
	m, st := newTestModel()
	m.busy = true
	m = typeRunes(m, "queued")

	before := st.Current().MessageCount()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("busy screen launched another exchange")
	}
	if st.Current().MessageCount() != before {
		t.Error("busy send mutated the dialog")
	}
}

func TestSendFinishedClearsBusy(t *testing.T) {
	m, _ := newTestModel()
	m.busy = true

	m, _ = m.Update(sendFinishedMsg{DialogID: model.DefaultDialogID})
	if m.busy {
		t.Error("busy not cleared by sendFinishedMsg")
	}
}

func TestCtrlNCreatesAndSelectsDialog(t *testing.T) {
	m, st := newTestModel()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if st.Count() != 2 {
		t.Fatalf("dialog count = %d, want 2", st.Count())
	}
	if st.CurrentID() == model.DefaultDialogID {
		t.Error("new dialog not selected")
	}
	if cmd == nil {
		t.Fatal("ctrl+n produced no announcement")
	}
	if created, ok := cmd().(DialogCreatedMsg); !ok || created.Name != "Dialog 2" {
		t.Errorf("announcement = %#v, want DialogCreatedMsg{Name: \"Dialog 2\"}", cmd())
	}
}

func TestDialogSwitchingWraps(t *testing.T) {
	m, st := newTestModel()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	second := st.CurrentID()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	if st.CurrentID() != model.DefaultDialogID {
		t.Errorf("ctrl+j selected %q, want default", st.CurrentID())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	if st.CurrentID() != second {
		t.Errorf("ctrl+k selected %q, want %q", st.CurrentID(), second)
	}
}

func TestCtrlLEmitsLogout(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil {
		t.Fatal("ctrl+l produced no command")
	}
	if _, ok := cmd().(LogoutMsg); !ok {
		t.Error("ctrl+l command did not yield LogoutMsg")
	}
}

func TestDialogUpdatedRefreshesOnlyCurrent(t *testing.T) {
	m, st := newTestModel()
	st.Append(model.DefaultDialogID, model.NewUserMessage("visible"))

	m, _ = m.Update(DialogUpdatedMsg{DialogID: model.DefaultDialogID})
	if !strings.Contains(m.viewport.View(), "visible") {
		t.Error("update for current dialog not rendered")
	}

	// An update for another dialog must not replace the view.
	m, _ = m.Update(DialogUpdatedMsg{DialogID: "dialog-other"})
	if !strings.Contains(m.viewport.View(), "visible") {
		t.Error("update for another dialog clobbered the view")
	}
}

func TestViewShowsIdentityAndHints(t *testing.T) {
	m, _ := newTestModel()
	view := m.View()
	if !strings.Contains(view, "admin@") {
		t.Error("header missing session identity")
	}
	if !strings.Contains(view, "ctrl+n") {
		t.Error("status bar missing key hints")
	}

	m.busy = true
	if !strings.Contains(m.View(), "typing") {
		t.Error("busy view missing typing indicator")
	}
}
