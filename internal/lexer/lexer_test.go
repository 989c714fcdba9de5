package lexer

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		raw     string
		kind    Kind
		ordered bool
		text    string
		indent  int
	}{
		{"= Big Picture =", SectionHeader, false, "Big Picture", 0},
		{"== Sub ==", SectionHeader, false, "Sub", 0},
		{"# Ship the release", ProjectHeader, true, "Ship the release", 0},
		{"- Clean garage", ProjectHeader, false, "Clean garage", 0},
		{"  - Nested project", ProjectHeader, false, "Nested project", 2},
		{"@ Call plumber @@phone", ActionHeader, false, "Call plumber @@phone", 0},
		{"    @ Buy paint", ActionHeader, false, "Buy paint", 4},
		{"* support material here", Comment, false, "support material here", 0},
		{"", Blank, false, "", 0},
		{"   ", Blank, false, "", 0},
		{"just some words", Continuation, false, "just some words", 0},
		{"@after:foo", Continuation, false, "@after:foo", 0},
		{"#tag-without-space", Continuation, false, "#tag-without-space", 0},
		{"(LASTDONE 2013-08-16 21:00)", Continuation, false, "(LASTDONE 2013-08-16 21:00)", 0},
	}
	for _, tc := range cases {
		got := Classify(tc.raw, 1)
		if got.Kind != tc.kind {
			t.Fatalf("Classify(%q): kind = %v, want %v", tc.raw, got.Kind, tc.kind)
		}
		if got.Ordered != tc.ordered {
			t.Fatalf("Classify(%q): ordered = %v, want %v", tc.raw, got.Ordered, tc.ordered)
		}
		if got.Text != tc.text {
			t.Fatalf("Classify(%q): text = %q, want %q", tc.raw, got.Text, tc.text)
		}
		if got.Indent != tc.indent {
			t.Fatalf("Classify(%q): indent = %d, want %d", tc.raw, got.Indent, tc.indent)
		}
	}
}

func TestClassifyAllNumbersLines(t *testing.T) {
	lines := ClassifyAll("= A =\n@ task one\n\n@ task two\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0].Number != 1 || lines[3].Number != 4 {
		t.Fatalf("line numbers wrong: %d, %d", lines[0].Number, lines[3].Number)
	}
	if lines[2].Kind != Blank {
		t.Fatalf("expected blank third line, got %v", lines[2].Kind)
	}
}
