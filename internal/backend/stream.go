// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// frameChanBuffer is the buffer size for the frame channel.
// Buffering decouples network reads from consumer processing.
const frameChanBuffer = 100

// dataPrefix marks a Server-Sent Events payload line.
const dataPrefix = "data: "

// =============================================================================
// STREAM FRAMES
// =============================================================================

// FrameKind discriminates the frames delivered on a stream channel.
type FrameKind int

const (
	// FrameChunk carries a fragment of assistant text.
	FrameChunk FrameKind = iota

	// FrameDone marks the end of the response. Authoritative: frames after
	// it are not delivered.
	FrameDone

	// FrameMalformed carries a payload line that failed to parse. The raw
	// line is preserved for logging; consumers skip these.
	FrameMalformed

	// FrameError carries a terminal stream failure. Always the last frame.
	FrameError
)

// Frame is a single event from a chat response stream.
type Frame struct {
	Kind FrameKind
	Text string // chunk text, or the raw line for FrameMalformed
	Err  error  // set only for FrameError
}

// chunkPayload is the JSON body of one SSE data line.
type chunkPayload struct {
	Chunk string `json:"chunk"`
	Done  bool   `json:"done"`
}

// ChatRequest is the body of a POST /request call. Stream must be true:
// the backend falls back to a single JSON response when it is false.
type ChatRequest struct {
	Message  string `json:"message"`
	DialogID string `json:"dialog_id,omitempty"`
	Stream   bool   `json:"stream"`
}

// =============================================================================
// STREAMING
// =============================================================================

// StreamChat sends a chat message and returns a channel of response frames.
//
// The returned channel is closed when the stream ends for any reason: a
// done frame, a broken connection (delivered as FrameError), or context
// cancellation. Errors that occur before the response starts are returned
// directly and no channel is created.
//
// A chunk arriving in the same payload as done:true is delivered before
// the done frame.
func (c *Client) StreamChat(ctx context.Context, message, dialogID string) (<-chan Frame, error) {
	body, err := json.Marshal(ChatRequest{Message: message, DialogID: dialogID, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/request", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, ErrInvalidCredentials
		case http.StatusInternalServerError:
			return nil, ErrServerError
		default:
			return nil, &RequestError{Status: resp.StatusCode}
		}
	}

	frames := make(chan Frame, frameChanBuffer)
	go c.readFrames(ctx, resp.Body, frames)
	return frames, nil
}

// readFrames parses SSE lines from the response body into frames.
// Runs in its own goroutine; closes both the body and the channel.
func (c *Client) readFrames(ctx context.Context, body io.ReadCloser, frames chan<- Frame) {
	defer close(frames)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			frames <- Frame{Kind: FrameError, Err: ctx.Err()}
			return
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			// Blank separators and non-data fields carry nothing.
			continue
		}

		payload := strings.TrimPrefix(line, dataPrefix)
		var p chunkPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			frames <- Frame{Kind: FrameMalformed, Text: payload}
			continue
		}

		if p.Chunk != "" {
			frames <- Frame{Kind: FrameChunk, Text: p.Chunk}
		}
		if p.Done {
			frames <- Frame{Kind: FrameDone}
			return
		}
	}

	// The body ended without a done frame: either the scanner hit a read
	// error or the backend closed early. Both are stream breaks.
	if err := scanner.Err(); err != nil {
		frames <- Frame{Kind: FrameError, Err: err}
		return
	}
	frames <- Frame{Kind: FrameError, Err: io.ErrUnexpectedEOF}
}
