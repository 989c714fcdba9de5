// Package lexer classifies raw outline lines into tagged records.
//
// Classification is purely local: one line in, one record out. Anything
// that matches no marker degrades to continuation text rather than
// erroring, so a half-typed line never breaks a parse.
package lexer

import (
	"regexp"
	"strings"
)

type Kind int

const (
	Blank Kind = iota
	SectionHeader
	ProjectHeader
	ActionHeader
	Comment
	Continuation
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case SectionHeader:
		return "section"
	case ProjectHeader:
		return "project"
	case ActionHeader:
		return "action"
	case Comment:
		return "comment"
	case Continuation:
		return "continuation"
	}
	return "unknown"
}

// Line is one classified physical line.
type Line struct {
	Raw     string
	Number  int // 1-based
	Indent  int // leading whitespace columns (tab counts as one)
	Kind    Kind
	Ordered bool   // project headers: '#' list vs '-' list
	Text    string // content after the marker (or the raw line for continuations)
}

var (
	reSection = regexp.MustCompile(`^\s*(=+)\s+(.*?)\s+=+\s*$`)
	reProject = regexp.MustCompile(`^\s*([#-])\s+(\S.*)$`)
	reAction  = regexp.MustCompile(`^\s*@\s+(\S.*)$`)
	reComment = regexp.MustCompile(`^\s*\*\s+(.*)$`)
	reBlank   = regexp.MustCompile(`^\s*$`)
)

// Classify lexes a single physical line. num is its 1-based line number.
func Classify(raw string, num int) Line {
	l := Line{Raw: raw, Number: num, Indent: indentOf(raw)}

	switch {
	case reBlank.MatchString(raw):
		l.Kind = Blank
	case reSection.MatchString(raw):
		m := reSection.FindStringSubmatch(raw)
		l.Kind = SectionHeader
		l.Text = strings.TrimSpace(m[2])
	case reAction.MatchString(raw):
		m := reAction.FindStringSubmatch(raw)
		l.Kind = ActionHeader
		l.Text = m[1]
	case reProject.MatchString(raw):
		m := reProject.FindStringSubmatch(raw)
		l.Kind = ProjectHeader
		l.Ordered = m[1] == "#"
		l.Text = m[2]
	case reComment.MatchString(raw):
		m := reComment.FindStringSubmatch(raw)
		l.Kind = Comment
		l.Text = m[1]
	default:
		l.Kind = Continuation
		l.Text = strings.TrimSpace(raw)
	}
	return l
}

// ClassifyAll splits text into lines and classifies each. The trailing
// newline (if any) does not produce an extra blank record.
func ClassifyAll(text string) []Line {
	raw := strings.Split(text, "\n")
	if n := len(raw); n > 0 && raw[n-1] == "" {
		raw = raw[:n-1]
	}
	out := make([]Line, 0, len(raw))
	for i, r := range raw {
		out = append(out, Classify(r, i+1))
	}
	return out
}

func indentOf(s string) int {
	for i, r := range s {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return 0
}
