// Package outline assembles classified lines into the document tree.
//
// Nesting rule: marker type fixes the layer for sections (a section
// header always closes everything back to the document root). Below a
// section, projects and actions nest by indentation alone: a header
// attaches to the nearest open node with a strictly smaller indent.
// Continuation and comment lines attach to the innermost open node.
package outline

import (
	"strings"

	"vtd-cli/internal/lexer"
	"vtd-cli/internal/model"
)

// RawNode is a tree node before annotation extraction: the header text
// plus any continuation text, still carrying inline annotations.
type RawNode struct {
	Kind     model.NodeKind
	Ordered  bool
	Header   string
	Extra    []string // continuation lines
	Notes    []string // '*' support lines
	Line     int
	Indent   int
	Children []*RawNode
	Parent   *RawNode
}

// Text returns the node's full annotated text: header first, then each
// continuation line, newline separated.
func (n *RawNode) Text() string {
	if len(n.Extra) == 0 {
		return n.Header
	}
	return n.Header + "\n" + strings.Join(n.Extra, "\n")
}

// Build assembles the line records into a forest of raw nodes.
// Document-level free text (a continuation before any node is open) is
// ignored for modeling purposes.
func Build(lines []lexer.Line) []*RawNode {
	var roots []*RawNode
	var stack []*RawNode // open ancestors, outermost first

	attach := func(n *RawNode) {
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			p := stack[len(stack)-1]
			n.Parent = p
			p.Children = append(p.Children, n)
		}
		stack = append(stack, n)
	}

	for _, l := range lines {
		switch l.Kind {
		case lexer.Blank:
			// Blanks separate nothing structurally; indentation decides.
			continue

		case lexer.SectionHeader:
			stack = stack[:0]
			attach(&RawNode{
				Kind:   model.NodeSection,
				Header: l.Text,
				Line:   l.Number,
				Indent: -1,
			})

		case lexer.ProjectHeader, lexer.ActionHeader:
			// Close open nodes at the same or deeper indent. Sections
			// (indent -1) always survive this.
			for len(stack) > 0 && stack[len(stack)-1].Indent >= l.Indent {
				stack = stack[:len(stack)-1]
			}
			kind := model.NodeProject
			if l.Kind == lexer.ActionHeader {
				kind = model.NodeAction
			}
			attach(&RawNode{
				Kind:    kind,
				Ordered: l.Ordered,
				Header:  l.Text,
				Line:    l.Number,
				Indent:  l.Indent,
			})

		case lexer.Comment:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Notes = append(top.Notes, l.Text)
			}

		case lexer.Continuation:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Extra = append(top.Extra, l.Text)
			}
		}
	}
	return roots
}
