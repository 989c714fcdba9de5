// Package resolve computes effective attributes and the dependency
// blocking relation over a parsed document.
package resolve

import (
	"time"

	"vtd-cli/internal/model"
)

// Attributes fills in Resolved.Priority/Due/Visible/Contexts for every
// node in one pre-order pass. Parent values are final by the time a
// child reads them.
//
// Priority is override (own value wins, else parent's). Due is
// min-aggregated: the earlier deadline wins regardless of depth. Visible
// is max-aggregated: the later threshold wins. Contexts union.
func Attributes(doc *model.Document) {
	for _, n := range doc.Children {
		resolveNode(n, model.Resolved{})
	}
}

func resolveNode(n *model.Node, parent model.Resolved) {
	r := &n.Resolved

	r.Priority = parent.Priority
	if n.Priority != nil {
		r.Priority = *n.Priority
	}

	r.Due = minTime(n.Due, parent.Due)
	r.Visible = maxTime(n.Visible, parent.Visible)
	r.Contexts = unionContexts(parent.Contexts, n.Contexts)

	for _, c := range n.Children {
		resolveNode(c, *r)
	}
}

// minTime returns the earlier of a and b, ignoring nils.
func minTime(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Before(*b):
		return a
	default:
		return b
	}
}

// maxTime returns the later of a and b, ignoring nils.
func maxTime(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.After(*b):
		return a
	default:
		return b
	}
}

func unionContexts(parent, own []string) []string {
	if len(own) == 0 {
		return parent
	}
	out := make([]string, 0, len(parent)+len(own))
	seen := make(map[string]bool, len(parent)+len(own))
	for _, c := range parent {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range own {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
