// Package views filters and orders the resolved tree into the lists the
// host displays.
package views

import (
	"sort"
	"time"

	"vtd-cli/internal/model"
	"vtd-cli/internal/recur"
	"vtd-cli/internal/resolve"
)

type Kind string

const (
	Next      Kind = "next"
	Inboxes   Kind = "inboxes"
	Recurring Kind = "recurring"
	Waiting   Kind = "waiting"
	All       Kind = "all"
)

// InboxContext is the context that marks a recurring action as an
// inbox-style item for the Inboxes view.
const InboxContext = "inbox"

// Line is one view entry: display text plus enough metadata for a host
// to style it and jump to its source.
type Line struct {
	Text     string          `json:"text"`
	Status   string          `json:"status,omitempty"` // "due in 3 days", "overdue 2 hours", "blocked: ..."
	Ref      model.SourceRef `json:"ref"`
	Due      *time.Time      `json:"due,omitempty"`
	Priority int             `json:"priority"`

	seq int
}

// Filter selects which contexts a view includes. An empty Include set
// imposes no inclusion requirement; Exclude always dominates.
type Filter struct {
	Include []string
	Exclude []string
}

func (f Filter) admits(contexts []string) bool {
	for _, c := range contexts {
		for _, x := range f.Exclude {
			if c == x {
				return false
			}
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, c := range contexts {
		for _, i := range f.Include {
			if c == i {
				return true
			}
		}
	}
	return false
}

// Render produces the requested view, ordered by ascending effective due
// date (absent due last), then descending effective priority, then
// document order.
func Render(doc *model.Document, kind Kind, f Filter, now time.Time) []Line {
	var out []Line
	switch kind {
	case Next:
		out = nextActions(doc, f, now)
	case Inboxes:
		out = inboxes(doc, f, now)
	case Recurring:
		out = recurring(doc, f, now)
	case Waiting:
		out = waiting(doc, f)
	case All:
		out = all(doc, f, now)
	}
	sortLines(out)
	return out
}

func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		switch {
		case a.Due == nil && b.Due != nil:
			return false
		case a.Due != nil && b.Due == nil:
			return true
		case a.Due != nil && !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.seq < b.seq
	})
}

// nextActions: unblocked, non-recurring actions past their visibility
// and remind thresholds, context-admitted. Inside an ordered project
// only the first unfinished child may contribute.
func nextActions(doc *model.Document, f Filter, now time.Time) []Line {
	var out []Line
	walkEligible(doc, now, func(n *model.Node) {
		if n.Recur != nil || !f.admits(n.Resolved.Contexts) {
			return
		}
		out = append(out, line(n, dueStatus(n.Resolved.Due, now)))
	})
	return out
}

// walkEligible visits every action that resolve.Eligible admits,
// honoring ordered-project sequencing: siblings after the first
// unfinished child of an ordered project are suppressed regardless of
// their own state.
func walkEligible(doc *model.Document, now time.Time, fn func(*model.Node)) {
	var rec func(n *model.Node)
	rec = func(n *model.Node) {
		if n.Kind == model.NodeAction {
			if resolve.Eligible(n, now) {
				fn(n)
			}
			return
		}
		if n.Kind == model.NodeProject && n.IsDone() {
			return
		}
		if n.Kind == model.NodeProject && n.Ordered {
			for _, c := range n.Children {
				if c.IsDone() {
					continue
				}
				rec(c)
				return // only the first unfinished child
			}
			return
		}
		for _, c := range n.Children {
			rec(c)
		}
	}
	for _, c := range doc.Children {
		rec(c)
	}
}

// inboxes: recurring actions carrying the inbox context, shown once
// their window opens, with due/overdue status.
func inboxes(doc *model.Document, f Filter, now time.Time) []Line {
	var out []Line
	doc.Walk(func(n *model.Node) {
		if n.Recur == nil || !hasContext(n.Resolved.Contexts, InboxContext) {
			return
		}
		if !f.admits(n.Resolved.Contexts) {
			return
		}
		if !recur.DueNow(n.Recur, n.LastDone, now) {
			return
		}
		status := "due"
		if w := recur.NextDue(n.Recur, n.LastDone); w != nil {
			if now.After(w.Latest) {
				status = "overdue " + prettyDuration(now.Sub(w.Latest))
			} else {
				status = "due, " + prettyDuration(w.Latest.Sub(now)) + " left"
			}
		}
		out = append(out, line(n, status))
	})
	return out
}

// recurring: every recurring action with its computed window, due or not.
func recurring(doc *model.Document, f Filter, now time.Time) []Line {
	var out []Line
	doc.Walk(func(n *model.Node) {
		if n.Recur == nil || !f.admits(n.Resolved.Contexts) {
			return
		}
		w := recur.NextDue(n.Recur, n.LastDone)
		var status string
		switch {
		case w == nil:
			status = "due (never done)"
		case now.After(w.Latest):
			status = "overdue " + prettyDuration(now.Sub(w.Latest))
		case recur.DueNow(n.Recur, n.LastDone, now):
			status = "due"
		default:
			status = "next in " + prettyDuration(w.Earliest.Sub(now))
		}
		l := line(n, status)
		if w != nil {
			due := w.Earliest
			l.Due = &due
		}
		out = append(out, l)
	})
	return out
}

// waiting: every node flagged waiting, with its note.
func waiting(doc *model.Document, f Filter) []Line {
	var out []Line
	doc.Walk(func(n *model.Node) {
		if !n.Waiting || n.IsDone() || !f.admits(n.Resolved.Contexts) {
			return
		}
		out = append(out, line(n, n.WaitingNote))
	})
	return out
}

// all: union of next actions, inboxes, and recurring, de-duplicated by
// source line.
func all(doc *model.Document, f Filter, now time.Time) []Line {
	seen := make(map[model.SourceRef]bool)
	var out []Line
	for _, ls := range [][]Line{
		nextActions(doc, f, now),
		inboxes(doc, f, now),
		recurring(doc, f, now),
	} {
		for _, l := range ls {
			if !seen[l.Ref] {
				seen[l.Ref] = true
				out = append(out, l)
			}
		}
	}
	return out
}

func line(n *model.Node, status string) Line {
	return Line{
		Text:     n.Title,
		Status:   status,
		Ref:      n.Ref,
		Due:      n.Resolved.Due,
		Priority: n.Resolved.Priority,
		seq:      n.Seq,
	}
}

func hasContext(contexts []string, want string) bool {
	for _, c := range contexts {
		if c == want {
			return true
		}
	}
	return false
}

func dueStatus(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	if due.Before(now) {
		return "overdue " + prettyDuration(now.Sub(*due))
	}
	return "due in " + prettyDuration(due.Sub(now))
}
