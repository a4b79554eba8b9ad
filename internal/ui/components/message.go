// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkiselev/gigachat-tui/internal/model"
	"github.com/dkiselev/gigachat-tui/internal/textproc"
	"github.com/dkiselev/gigachat-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer turns dialog messages into styled terminal output.
// One renderer serves the whole message list; glamour setup happens once.
type MessageRenderer struct {
	width       int
	syntaxStyle string
	markdown    *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer for the given content width.
// theme is "dark" or "light"; markdownStyle overrides it when non-empty.
func NewMessageRenderer(width int, theme, markdownStyle, syntaxStyle string) *MessageRenderer {
	r := &MessageRenderer{
		width:       width,
		syntaxStyle: syntaxStyle,
	}
	r.initMarkdown(theme, markdownStyle)
	return r
}

// initMarkdown builds the glamour renderer. A nil renderer is tolerated;
// prose then renders unstyled.
func (r *MessageRenderer) initMarkdown(theme, markdownStyle string) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(r.contentWidth()),
		glamour.WithEmoji(),
	}
	switch {
	case markdownStyle != "":
		opts = append(opts, glamour.WithStylePath(markdownStyle))
	case theme == "light":
		opts = append(opts, glamour.WithStandardStyle("light"))
	default:
		opts = append(opts, glamour.WithStandardStyle("dark"))
	}

	md, err := glamour.NewTermRenderer(opts...)
	if err == nil {
		r.markdown = md
	}
}

// SetWidth resizes the renderer. Cheap when the width did not change.
func (r *MessageRenderer) SetWidth(width int, theme, markdownStyle string) {
	if width == r.width {
		return
	}
	r.width = width
	r.initMarkdown(theme, markdownStyle)
}

// contentWidth is the width left for text inside a bubble.
func (r *MessageRenderer) contentWidth() int {
	w := r.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

// Render returns the full styled block for one message: sender label,
// timestamp, and the bubble with its content.
func (r *MessageRenderer) Render(msg model.Message) string {
	label := styles.SenderLabel.Render(msg.Role.DisplayName())
	ts := styles.Timestamp.Render(msg.Timestamp.Format("15:04"))
	head := label + " " + ts

	var bubble lipgloss.Style
	var body string
	switch msg.Role {
	case model.RoleUser:
		bubble = styles.UserBubble
		body = msg.Content
	case model.RoleError:
		bubble = styles.ErrorBubble
		body = styles.IndicatorError + " " + msg.Content
	default:
		bubble = styles.AssistantBubble
		body = r.renderAssistant(msg)
	}

	return head + "\n" + bubble.MaxWidth(r.width).Render(body)
}

// renderAssistant renders assistant content segment by segment: glamour
// for prose, chroma for code, plain styling for formulas. A message still
// streaming gets a typing marker instead of full segmentation, since the
// text may end mid-fence.
func (r *MessageRenderer) renderAssistant(msg model.Message) string {
	if msg.Streaming() {
		body := textproc.Clean(msg.Content)
		if body == "" {
			return styles.StreamingIndicator.Render("...")
		}
		return body + styles.StreamingIndicator.Render(" ▍")
	}

	segments := textproc.Split(msg.Content)
	if len(segments) == 0 {
		return ""
	}

	var parts []string
	for _, seg := range segments {
		switch seg.Kind {
		case textproc.KindCode:
			cb := NewCodeBlock(seg.Lang, seg.Content)
			cb.MaxWidth = r.contentWidth()
			cb.Style = r.syntaxStyle
			parts = append(parts, cb.Render())

		case textproc.KindFormula:
			parts = append(parts, renderFormula(seg))

		default:
			parts = append(parts, r.renderProse(seg.Content))
		}
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}

// renderProse renders markdown prose, falling back to the raw text when
// glamour is unavailable.
func (r *MessageRenderer) renderProse(text string) string {
	if r.markdown == nil {
		return text
	}
	out, err := r.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// renderFormula styles a LaTeX formula. No typesetting in a terminal;
// display formulas go on their own line, inline ones stay compact.
func renderFormula(seg textproc.Segment) string {
	style := lipgloss.NewStyle().Foreground(styles.Amber).Italic(true)
	if seg.Display {
		return style.Render("  " + seg.Content)
	}
	return style.Render("$" + seg.Content + "$")
}
