// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textproc normalizes assistant text and splits it into renderable
// segments.
//
// Streamed responses arrive with whatever the model emitted: stray ANSI
// color codes, control bytes, runs of whitespace. Clean strips that down to
// displayable text. Split goes further and separates fenced code blocks and
// LaTeX formulas from prose, so each can be rendered with the right tool.
// Code block contents pass through verbatim; cleaning never touches them.
package textproc

import (
	"regexp"
	"strings"
)

var (
	// ansiRe matches ANSI color and formatting escape sequences.
	ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// controlRe matches control characters other than newline and tab.
	controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	// collapseRe matches runs of two or more whitespace characters that
	// follow a non-space. Leading indentation is left alone.
	collapseRe = regexp.MustCompile(`([^ ])\s{2,}`)

	// trailingRe matches blanks at the end of a line.
	trailingRe = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Clean strips escape sequences and control bytes, collapses interior
// whitespace runs to a single space, trims line-trailing blanks, and
// normalizes line endings.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	cleaned := ansiRe.ReplaceAllString(text, "")
	cleaned = controlRe.ReplaceAllString(cleaned, "")
	cleaned = collapseRe.ReplaceAllString(cleaned, "${1} ")
	cleaned = trailingRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")
	return strings.TrimSpace(cleaned)
}
