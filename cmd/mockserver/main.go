// mockserver - A stand-in chat backend for developing the TUI offline.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// Speaks the same protocol as the real backend: HTTP Basic auth on every
// endpoint, GET / for probes, POST /request streaming canned responses as
// Server-Sent Events. Responses are chunked a few words at a time with
// jittered delays so streaming behavior in the client is observable.
package main

import (
	"crypto/subtle"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Streaming pacing.
const (
	chunkDelayMin = 50 * time.Millisecond
	chunkDelayMax = 200 * time.Millisecond
)

// users holds the accepted credentials.
var users = map[string]string{
	"admin": "password123",
	"user":  "chat123",
}

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := newServer(logger)

	logger.Info("mockserver listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// =============================================================================
// SERVER
// =============================================================================

// server is the mock backend.
type server struct {
	log *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newServer(logger *slog.Logger) *server {
	return &server{
		log:      logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

// routes builds the handler chain.
func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("POST /request", s.handleRequest)
	return s.withRateLimit(s.withAuth(mux))
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// withAuth enforces HTTP Basic credentials with constant-time comparison.
func (s *server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || !checkCredentials(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="chat"`)
			http.Error(w, `{"detail": "Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkCredentials compares in constant time so a failed username and a
// failed password are indistinguishable.
func checkCredentials(user, pass string) bool {
	want, ok := users[user]
	if !ok {
		// Burn a comparison anyway.
		subtle.ConstantTimeCompare([]byte(pass), []byte("no-such-user"))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(want)) == 1
}

// withRateLimit applies a per-client token bucket: 5 requests per second
// with a burst of 10.
func (s *server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiterFor(clientKey(r)).Allow() {
			http.Error(w, `{"detail": "Too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limiterFor returns the limiter for a client key, creating it on first use.
func (s *server) limiterFor(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(5), 10)
		s.limiters[key] = l
	}
	return l
}

// clientKey identifies a client by address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// =============================================================================
// HANDLERS
// =============================================================================

// handleRoot answers credential probes.
func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	user, _, _ := r.BasicAuth()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Chat Proxy API",
		"user":    user,
	})
}

// chatRequest is the body of POST /request.
type chatRequest struct {
	Message  string `json:"message"`
	DialogID string `json:"dialog_id"`
	Stream   bool   `json:"stream"`
}

// ssePayload is one streamed frame.
type ssePayload struct {
	Chunk string `json:"chunk,omitempty"`
	Done  bool   `json:"done,omitempty"`
}

// handleRequest answers a chat message: streamed as SSE when the request
// asks for it, as one JSON body otherwise.
func (s *server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"detail": "Bad request"}`, http.StatusBadRequest)
		return
	}

	if !req.Stream {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"response": respondTo(req.Message)})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"detail": "Streaming unsupported"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.log.Info("streaming response", "dialog", req.DialogID, "message_len", len(req.Message))

	chunks := chunkWords(respondTo(req.Message))
	for i, chunk := range chunks {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(jitter()):
		}

		payload := ssePayload{Chunk: chunk + " ", Done: i == len(chunks)-1}
		data, _ := json.Marshal(payload)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// jitter returns a random inter-chunk delay.
func jitter() time.Duration {
	return chunkDelayMin + time.Duration(rand.Int63n(int64(chunkDelayMax-chunkDelayMin)))
}

// chunkWords groups a response into runs of one to three words.
func chunkWords(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var chunks []string
	for i := 0; i < len(words); {
		n := 1 + rand.Intn(3)
		if i+n > len(words) {
			n = len(words) - i
		}
		chunks = append(chunks, strings.Join(words[i:i+n], " "))
		i += n
	}
	return chunks
}

// =============================================================================
// CANNED RESPONSES
// =============================================================================

// respondTo picks a canned answer by keyword.
func respondTo(message string) string {
	lower := strings.ToLower(message)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("hello", "hi", "привет", "здравствуй"):
		return "Hello! I am a virtual assistant. Nice to see you! How can I help?"

	case containsAny("how are you", "как дела"):
		return pick(
			"I am doing great and ready to help with any question.",
			"All good here! How are you doing?",
			"Running normally. What can I do for you?",
		)

	case containsAny("weather", "погода"):
		return "In demo mode I cannot fetch live weather data, but a dedicated weather service can."

	case containsAny("time", "который час", "время"):
		return fmt.Sprintf("It is %s right now. Mind that this is server time, not yours.", time.Now().Format("15:04:05"))

	case containsAny("help", "помощь"):
		return "I answer questions in demo mode. Try asking me something! Full functionality needs a real API key."

	case containsAny("bye", "goodbye", "пока"):
		return "Goodbye! It was nice talking to you. Come back soon!"

	case containsAny("code", "example"):
		return "Here is a small example:\n```go\nfunc greet(name string) string {\n\treturn \"Hello, \" + name\n}\n```\nThat is all it takes."

	case strings.Contains(message, "?"):
		return pick(
			"Interesting question! With a real model behind me the answer would be more thorough.",
			"Good question. In demo mode my abilities are limited.",
			"A tough one! An exact answer needs the real model connected.",
		)

	default:
		return pick(
			fmt.Sprintf("You said: %q. Interesting! With a real model we could dig into this.", message),
			fmt.Sprintf("Got your message: %q. This is a demo chat; connect a real API key for more.", message),
			"Thanks for the message! In demo mode my replies are limited.",
		)
	}
}

// pick returns one of the options at random.
func pick(options ...string) string {
	return options[rand.Intn(len(options))]
}
