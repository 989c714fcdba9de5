package views

import (
	"testing"
	"time"

	"vtd-cli/internal/annotate"
	"vtd-cli/internal/lexer"
	"vtd-cli/internal/model"
	"vtd-cli/internal/outline"
	"vtd-cli/internal/resolve"
)

var now = time.Date(2013, 8, 20, 12, 0, 0, 0, time.Local)

func parse(t *testing.T, text string, now time.Time) *model.Document {
	t.Helper()
	doc := &model.Document{FileID: "p"}
	seq := 0
	var convert func(r *outline.RawNode, parent *model.Node) *model.Node
	convert = func(r *outline.RawNode, parent *model.Node) *model.Node {
		n := &model.Node{
			Kind:    r.Kind,
			Ordered: r.Ordered,
			Notes:   r.Notes,
			Ref:     model.SourceRef{FileID: "p", Line: r.Line},
			Parent:  parent,
			Seq:     seq,
		}
		seq++
		doc.Warnings = append(doc.Warnings, annotate.Extract(n, r.Text())...)
		for _, c := range r.Children {
			n.Children = append(n.Children, convert(c, n))
		}
		return n
	}
	for _, r := range outline.Build(lexer.ClassifyAll(text)) {
		doc.Children = append(doc.Children, convert(r, nil))
	}
	resolve.Attributes(doc)
	doc.Warnings = append(doc.Warnings, resolve.Dependencies(doc, now)...)
	return doc
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestNextActionsFiltersAndOrders(t *testing.T) {
	doc := parse(t, `= S =
- P
  @ no due, low @p:1
  @ no due, high @p:5
  @ later due <2013-08-29
  @ sooner due <2013-08-23
  @ hidden until next century >2113-09-05
  @ blocked one @after:ghost
  @ on hold @@waiting for parts
  @ recurring thing EVERY day
`, now)
	got := texts(Render(doc, Next, Filter{}, now))
	want := []string{"sooner due", "later due", "no due, high", "no due, low"}
	if len(got) != len(want) {
		t.Fatalf("lines = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: got %v, want %v", got, want)
		}
	}
}

func TestContextFilterExcludeDominates(t *testing.T) {
	doc := parse(t, `- P
  @ at home @@home
  @ at home and errand @@home @@errand
  @ at work @@work
  @ anywhere
`, now)
	got := texts(Render(doc, Next, Filter{Include: []string{"home"}, Exclude: []string{"errand"}}, now))
	if len(got) != 1 || got[0] != "at home" {
		t.Fatalf("got %v", got)
	}

	// No include set: everything not excluded is admitted.
	got = texts(Render(doc, Next, Filter{Exclude: []string{"work"}}, now))
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestOrderedProjectSuppressesLaterSiblings(t *testing.T) {
	doc := parse(t, `# Seq
  @ first (DONE 2013-08-16 21:00)
  @ second
  @ third
`, now)
	got := texts(Render(doc, Next, Filter{}, now))
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("got %v", got)
	}

	// A blocked first child suppresses the rest; they are not promoted.
	doc = parse(t, `# Seq
  @ gate @after:ghost
  @ would be next
`, now)
	if got := texts(Render(doc, Next, Filter{}, now)); len(got) != 0 {
		t.Fatalf("expected nothing actionable, got %v", got)
	}
}

func TestWaitingView(t *testing.T) {
	doc := parse(t, `- P
  @ plain action
  @ lease @@waiting for signed copy
  @ done wait @@waiting (DONE 2013-08-16 21:00)
`, now)
	got := Render(doc, Waiting, Filter{}, now)
	if len(got) != 1 || got[0].Text != "lease" || got[0].Status != "for signed copy" {
		t.Fatalf("got %+v", got)
	}
}

func TestInboxesView(t *testing.T) {
	doc := parse(t, `- Routines
  @ Email inbox @@inbox EVERY 1-3 days
    (LASTDONE 2013-08-16 21:00)
  @ Paper tray @@inbox EVERY 1-3 days
    (LASTDONE 2013-08-18 21:00)
  @ Not an inbox EVERY 1 day
`, now)
	got := Render(doc, Inboxes, Filter{}, now)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	// Email: latest due 2013-08-19 21:00, already passed => overdue.
	// Paper: window 2013-08-19 21:00 .. 2013-08-21 21:00 => due.
	for _, l := range got {
		switch l.Text {
		case "Email inbox":
			if l.Status != "overdue 15 hours" {
				t.Fatalf("email status = %q", l.Status)
			}
		case "Paper tray":
			if l.Status != "due, 1 day left" {
				t.Fatalf("paper status = %q", l.Status)
			}
		default:
			t.Fatalf("unexpected line %+v", l)
		}
	}
}

func TestRecurringView(t *testing.T) {
	doc := parse(t, `- P
  @ Mow lawn EVERY 4-6 weeks
    (LASTDONE 2013-08-16 21:00)
  @ Never done EVERY 2 weeks
`, now)
	got := Render(doc, Recurring, Filter{}, now)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	for _, l := range got {
		switch l.Text {
		case "Mow lawn":
			if l.Status != "next in 3 weeks" {
				t.Fatalf("mow status = %q", l.Status)
			}
			if l.Due == nil {
				t.Fatalf("recurring line should carry its earliest-due instant")
			}
		case "Never done":
			if l.Status != "due (never done)" {
				t.Fatalf("never-done status = %q", l.Status)
			}
		default:
			t.Fatalf("unexpected line %+v", l)
		}
	}
}

func TestAllViewDeduplicates(t *testing.T) {
	doc := parse(t, `- P
  @ plain
  @ routine @@inbox EVERY 1 day
`, now)
	got := Render(doc, All, Filter{}, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 deduped lines, got %+v", got)
	}
}
