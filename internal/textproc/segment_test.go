// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import "testing"

func TestCleanStripsANSIAndControlBytes(t *testing.T) {
	in := "\x1b[31mred\x1b[0m text\x00 with\x07 noise"
	got := Clean(in)
	want := "red text with noise"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanCollapsesWhitespaceAndTrims(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"interior run", "a    b", "a b"},
		{"trailing blanks per line", "line one  \nline two\t", "line one\nline two"},
		{"surrounding blank lines", "\n\n  hello  \n\n", "hello"},
		{"crlf normalized", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitKeepsCodeBlocksVerbatim(t *testing.T) {
	in := "Before\n```go\nfunc main() {\n\tfmt.Println(\"hi\")     // spaced\n}\n```\nAfter"
	segs := Split(in)

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %+v", len(segs), segs)
	}
	if segs[0].Kind != KindText || segs[0].Content != "Before" {
		t.Errorf("segment 0 = %+v", segs[0])
	}

	code := segs[1]
	if code.Kind != KindCode {
		t.Fatalf("segment 1 kind = %v, want code", code.Kind)
	}
	if code.Lang != "go" {
		t.Errorf("Lang = %q, want %q", code.Lang, "go")
	}
	want := "func main() {\n\tfmt.Println(\"hi\")     // spaced\n}\n"
	if code.Content != want {
		t.Errorf("code content = %q, want %q (must be verbatim)", code.Content, want)
	}

	if segs[2].Kind != KindText || segs[2].Content != "After" {
		t.Errorf("segment 2 = %+v", segs[2])
	}
}

func TestSplitUntaggedFenceIsPlaintext(t *testing.T) {
	segs := Split("```\nraw\n```")
	if len(segs) != 1 || segs[0].Kind != KindCode {
		t.Fatalf("segments = %+v", segs)
	}
	if segs[0].Lang != "plaintext" {
		t.Errorf("Lang = %q, want %q", segs[0].Lang, "plaintext")
	}
}

func TestSplitUnterminatedFenceStaysText(t *testing.T) {
	segs := Split("```go\nfunc broken() {")
	for _, s := range segs {
		if s.Kind == KindCode {
			t.Errorf("unterminated fence produced a code segment: %+v", s)
		}
	}
}

func TestSplitFormulas(t *testing.T) {
	in := "Euler: $e^{i\\pi}+1=0$ and a display:\n$$\\int_0^1 x\\,dx$$\ndone"
	segs := Split(in)

	var formulas []Segment
	for _, s := range segs {
		if s.Kind == KindFormula {
			formulas = append(formulas, s)
		}
	}
	if len(formulas) != 2 {
		t.Fatalf("got %d formulas, want 2: %+v", len(formulas), segs)
	}

	if formulas[0].Display {
		t.Error("inline formula marked display")
	}
	if formulas[0].Content != "e^{i\\pi}+1=0" {
		t.Errorf("inline content = %q", formulas[0].Content)
	}

	if !formulas[1].Display {
		t.Error("display formula not marked display")
	}
	if formulas[1].Content != "\\int_0^1 x\\,dx" {
		t.Errorf("display content = %q", formulas[1].Content)
	}
}

func TestInlineFormulaCannotSpanLines(t *testing.T) {
	segs := Split("price is $5 and\nthat costs $10 total")
	for _, s := range segs {
		if s.Kind == KindFormula {
			t.Errorf("dollar signs across a newline parsed as formula: %+v", s)
		}
	}
}

func TestUnterminatedFormulaStaysText(t *testing.T) {
	segs := Split("an unmatched $ sign")
	if len(segs) != 1 || segs[0].Kind != KindText {
		t.Fatalf("segments = %+v", segs)
	}
	if segs[0].Content != "an unmatched $ sign" {
		t.Errorf("content = %q", segs[0].Content)
	}
}

func TestDisplayFormulaTakesPrecedence(t *testing.T) {
	segs := Split("$$a+b$$")
	if len(segs) != 1 {
		t.Fatalf("segments = %+v", segs)
	}
	if !segs[0].Display || segs[0].Content != "a+b" {
		t.Errorf("segment = %+v, want display formula a+b", segs[0])
	}
}

func TestSplitEmptyInput(t *testing.T) {
	if segs := Split(""); segs != nil {
		t.Errorf("Split(\"\") = %+v, want nil", segs)
	}
}

func TestProbes(t *testing.T) {
	if !HasCodeBlocks("```py\nx\n```") {
		t.Error("HasCodeBlocks missed a fence")
	}
	if HasCodeBlocks("no fences here") {
		t.Error("HasCodeBlocks false positive")
	}
	if !HasFormulas("inline $x$ math") {
		t.Error("HasFormulas missed a formula")
	}
	if HasFormulas("plain text") {
		t.Error("HasFormulas false positive")
	}
}
