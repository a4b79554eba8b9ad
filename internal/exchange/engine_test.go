// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dkiselev/gigachat-tui/internal/backend"
	"github.com/dkiselev/gigachat-tui/internal/model"
	"github.com/dkiselev/gigachat-tui/internal/notify"
	"github.com/dkiselev/gigachat-tui/internal/store"
)

// newTestEngine wires an engine to a fresh store and a backend at srvURL.
func newTestEngine(srvURL string) (*Engine, *store.DialogStore, *model.Dialog) {
	st := store.New()
	d := st.Create("Test dialog")
	client := backend.NewClient(srvURL, backend.Credentials{Username: "user", Password: "chat123"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(st, client, nil, logger), st, d
}

// streamServer responds to POST /request with the given SSE lines.
func streamServer(lines []string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
			flusher.Flush()
		}
	}))
}

func TestSendAssemblesChunksIntoOneMessage(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "Hel"}`,
		`data: {"chunk": "lo"}`,
		`data: {"done": true}`,
	})
	defer srv.Close()

	eng, st, d := newTestEngine(srv.URL)
	if err := eng.Send(context.Background(), d.ID, "greet me"); err != nil {
		t.Fatalf("Send() = %v, want nil", err)
	}

	cur := st.Get(d.ID)
	if cur.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2 (user + assistant)", cur.MessageCount())
	}

	user := cur.Messages[0]
	if user.Role != model.RoleUser || user.Content != "greet me" {
		t.Errorf("user message = %+v", user)
	}

	assistant := cur.Messages[1]
	if assistant.Role != model.RoleAssistant {
		t.Errorf("Role = %v, want assistant", assistant.Role)
	}
	if assistant.Content != "Hello" {
		t.Errorf("Content = %q, want %q", assistant.Content, "Hello")
	}
	if assistant.IsStreaming != nil {
		t.Error("IsStreaming should be absent after completion")
	}
}

func TestSendBlankInputIsNoOp(t *testing.T) {
	srv := streamServer(nil)
	defer srv.Close()

	eng, st, d := newTestEngine(srv.URL)
	if err := eng.Send(context.Background(), d.ID, "   \n\t "); err != nil {
		t.Fatalf("Send() = %v, want nil", err)
	}
	if st.Get(d.ID).MessageCount() != 0 {
		t.Error("blank input added messages")
	}
}

func TestSendMidStreamFailureReplacesPlaceholder(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "partial answer"}`,
		// no done frame, body just ends
	})
	defer srv.Close()

	eng, st, d := newTestEngine(srv.URL)
	err := eng.Send(context.Background(), d.ID, "doomed")

	var streamErr *backend.StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("Send() = %v, want *backend.StreamError", err)
	}
	if streamErr.Partial != "partial answer" {
		t.Errorf("Partial = %q, want %q", streamErr.Partial, "partial answer")
	}

	cur := st.Get(d.ID)
	if cur.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2 (user + error)", cur.MessageCount())
	}
	if cur.Messages[1].Role != model.RoleError {
		t.Errorf("second message role = %v, want error", cur.Messages[1].Role)
	}
	if streaming, ok := cur.StreamingMessage(); ok {
		t.Errorf("streaming placeholder survived the failure: %+v", streaming)
	}
}

func TestSendRejectedRequestAppendsErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	eng, st, d := newTestEngine(srv.URL)
	err := eng.Send(context.Background(), d.ID, "hi")
	if !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Fatalf("Send() = %v, want ErrInvalidCredentials", err)
	}

	cur := st.Get(d.ID)
	if cur.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2 (user + error)", cur.MessageCount())
	}
	if cur.Messages[1].Role != model.RoleError {
		t.Errorf("second message role = %v, want error", cur.Messages[1].Role)
	}
}

func TestSendMalformedFramesAreSkipped(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "good "}`,
		`data: {broken`,
		`data: {"chunk": "text"}`,
		`data: {"done": true}`,
	})
	defer srv.Close()

	eng, st, d := newTestEngine(srv.URL)
	if err := eng.Send(context.Background(), d.ID, "hi"); err != nil {
		t.Fatalf("Send() = %v, want nil", err)
	}

	assistant := st.Get(d.ID).Messages[1]
	if assistant.Content != "good text" {
		t.Errorf("Content = %q, want %q", assistant.Content, "good text")
	}
}

func TestSendNotifiesOnEveryMutation(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "a"}`,
		`data: {"chunk": "b"}`,
		`data: {"done": true}`,
	})
	defer srv.Close()

	eng, _, d := newTestEngine(srv.URL)

	var mu sync.Mutex
	var updates []string
	eng.OnUpdate(func(dialogID string) {
		mu.Lock()
		updates = append(updates, dialogID)
		mu.Unlock()
	})

	if err := eng.Send(context.Background(), d.ID, "hi"); err != nil {
		t.Fatalf("Send() = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// user + placeholder + two chunks + finalize
	if len(updates) != 5 {
		t.Errorf("updates = %d, want 5", len(updates))
	}
	for _, id := range updates {
		if id != d.ID {
			t.Errorf("update for dialog %q, want %q", id, d.ID)
		}
	}
}

func TestSendAnnouncesCompletion(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "done deal"}`,
		`data: {"done": true}`,
	})
	defer srv.Close()

	st := store.New()
	d := st.Create("Test dialog")
	client := backend.NewClient(srv.URL, backend.Credentials{Username: "user", Password: "chat123"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notify.NewDispatcher(false, logger)
	eng := NewEngine(st, client, dispatcher, logger)

	if err := eng.Send(context.Background(), d.ID, "hi"); err != nil {
		t.Fatalf("Send() = %v", err)
	}

	select {
	case tst := <-dispatcher.Toasts():
		if tst.Kind != notify.KindSuccess {
			t.Errorf("toast kind = %v, want success", tst.Kind)
		}
	default:
		t.Fatal("no notification after a completed exchange")
	}
}

func TestSendAnnouncesStreamFailure(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "partial"}`,
		// no done frame
	})
	defer srv.Close()

	st := store.New()
	d := st.Create("Test dialog")
	client := backend.NewClient(srv.URL, backend.Credentials{Username: "user", Password: "chat123"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notify.NewDispatcher(false, logger)
	eng := NewEngine(st, client, dispatcher, logger)

	if err := eng.Send(context.Background(), d.ID, "doomed"); err == nil {
		t.Fatal("Send() = nil, want a stream error")
	}

	select {
	case tst := <-dispatcher.Toasts():
		if tst.Kind != notify.KindError {
			t.Errorf("toast kind = %v, want error", tst.Kind)
		}
		if tst.Message == "" {
			t.Error("error notification carries no detail")
		}
	default:
		t.Fatal("no notification after a broken exchange")
	}
}

func TestConcurrentSendsIntoSameDialog(t *testing.T) {
	srv := streamServer([]string{
		`data: {"chunk": "reply"}`,
		`data: {"done": true}`,
	})
	defer srv.Close()

	eng, st, d := newTestEngine(srv.URL)

	var wg sync.WaitGroup
	const sends = 4
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := eng.Send(context.Background(), d.ID, fmt.Sprintf("question %d", i)); err != nil {
				t.Errorf("Send(%d) = %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	cur := st.Get(d.ID)
	if cur.MessageCount() != sends*2 {
		t.Fatalf("MessageCount = %d, want %d", cur.MessageCount(), sends*2)
	}
	for _, m := range cur.Messages {
		if m.Role == model.RoleAssistant {
			if m.Content != "reply" {
				t.Errorf("assistant content = %q, want %q", m.Content, "reply")
			}
			if m.IsStreaming != nil {
				t.Errorf("message %d still streaming after all sends settled", m.ID)
			}
		}
	}
}
