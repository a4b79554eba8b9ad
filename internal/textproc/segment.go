// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import "regexp"

// =============================================================================
// SEGMENTS
// =============================================================================

// Kind identifies what a segment holds.
type Kind int

const (
	// KindText is plain prose.
	KindText Kind = iota

	// KindCode is the body of a fenced code block.
	KindCode

	// KindFormula is a LaTeX formula, inline or display.
	KindFormula
)

// Segment is one renderable piece of a message.
type Segment struct {
	Kind    Kind
	Content string

	// Lang is the fence language tag. Set only for KindCode; defaults to
	// "plaintext" when the fence had no tag.
	Lang string

	// Display marks a $$...$$ formula. Set only for KindFormula.
	Display bool
}

var (
	// codeRe matches a fenced code block with an optional language tag.
	// An unterminated fence does not match and stays plain text.
	codeRe = regexp.MustCompile("```(\\w*)\n((?s:.*?))```")

	// formulaRe matches $$...$$ display formulas (which may span lines)
	// or $...$ inline formulas (which may not). Display formulas win when
	// both could match. A lone unterminated $ stays plain text.
	formulaRe = regexp.MustCompile(`\$\$(?s:.*?)\$\$|\$[^$\n]+?\$`)
)

// =============================================================================
// SPLITTING
// =============================================================================

// Split cleans text and breaks it into prose, code, and formula segments,
// in document order. Code block bodies are taken verbatim from the input;
// only the prose between them is cleaned.
func Split(text string) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, loc := range codeRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, splitFormulas(Clean(text[last:loc[0]]))...)
		}

		lang := text[loc[2]:loc[3]]
		if lang == "" {
			lang = "plaintext"
		}
		segments = append(segments, Segment{
			Kind:    KindCode,
			Content: text[loc[4]:loc[5]],
			Lang:    lang,
		})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, splitFormulas(Clean(text[last:]))...)
	}

	return segments
}

// splitFormulas breaks cleaned prose into text and formula segments.
func splitFormulas(text string) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, loc := range formulaRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Kind: KindText, Content: text[last:loc[0]]})
		}

		formula := text[loc[0]:loc[1]]
		display := len(formula) >= 4 && formula[0] == '$' && formula[1] == '$'
		delim := 1
		if display {
			delim = 2
		}
		segments = append(segments, Segment{
			Kind:    KindFormula,
			Content: formula[delim : len(formula)-delim],
			Display: display,
		})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Kind: KindText, Content: text[last:]})
	}

	return segments
}

// =============================================================================
// PROBES
// =============================================================================

// HasFormulas reports whether text contains at least one formula.
func HasFormulas(text string) bool {
	return formulaRe.MatchString(text)
}

// HasCodeBlocks reports whether text contains at least one fenced block.
func HasCodeBlocks(text string) bool {
	return codeRe.MatchString(text)
}
