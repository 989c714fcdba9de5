package resolve

import (
	"testing"
	"time"

	"vtd-cli/internal/annotate"
	"vtd-cli/internal/lexer"
	"vtd-cli/internal/model"
	"vtd-cli/internal/outline"
)

// parse builds and resolves a document the way the engine does, without
// importing it (engine depends on this package).
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
	Attributes(doc)
	doc.Warnings = append(doc.Warnings, Dependencies(doc, now)...)
	return doc
}

func find(t *testing.T, doc *model.Document, title string) *model.Node {
	t.Helper()
	var hit *model.Node
	doc.Walk(func(n *model.Node) {
		if n.Title == title && hit == nil {
			hit = n
		}
	})
	if hit == nil {
		t.Fatalf("no node titled %q", title)
	}
	return hit
}

var now = time.Date(2013, 8, 20, 12, 0, 0, 0, time.Local)

func TestPriorityInheritance(t *testing.T) {
	doc := parse(t, `= Work @p:4 =
@ unset action
- sub @p:2
  @ sub unset
  @ sub zero @p:0
`, now)
	if got := find(t, doc, "unset action").Resolved.Priority; got != 4 {
		t.Fatalf("section priority should flow down, got %d", got)
	}
	if got := find(t, doc, "sub").Resolved.Priority; got != 2 {
		t.Fatalf("project override, got %d", got)
	}
	if got := find(t, doc, "sub unset").Resolved.Priority; got != 2 {
		t.Fatalf("project priority should flow down, got %d", got)
	}
	if got := find(t, doc, "sub zero").Resolved.Priority; got != 0 {
		t.Fatalf("explicit zero should override, got %d", got)
	}
}

func TestDueDateMinAggregation(t *testing.T) {
	doc := parse(t, `- P <2013-08-25
  @ childA
  @ childB <2013-08-23
  @ childC <2013-08-27
`, now)
	day := func(n *model.Node) string {
		if n.Resolved.Due == nil {
			t.Fatalf("no due on %q", n.Title)
		}
		return n.Resolved.Due.Format("2006-01-02")
	}
	if got := day(find(t, doc, "childA")); got != "2013-08-25" {
		t.Fatalf("childA due = %s", got)
	}
	if got := day(find(t, doc, "childB")); got != "2013-08-23" {
		t.Fatalf("childB due = %s", got)
	}
	if got := day(find(t, doc, "childC")); got != "2013-08-25" {
		t.Fatalf("childC: min must win over later literal, got %s", got)
	}
}

func TestVisibleDateMaxAggregation(t *testing.T) {
	doc := parse(t, `- P >2013-08-25
  @ later >2013-08-27
  @ earlier >2013-08-21
`, now)
	day := func(n *model.Node) string { return n.Resolved.Visible.Format("2006-01-02") }
	if got := day(find(t, doc, "later")); got != "2013-08-27" {
		t.Fatalf("later = %s", got)
	}
	if got := day(find(t, doc, "earlier")); got != "2013-08-25" {
		t.Fatalf("earlier: max must win over earlier literal, got %s", got)
	}
}

func TestContextUnion(t *testing.T) {
	doc := parse(t, `- P @@home
  @ act @@phone @@home
`, now)
	got := find(t, doc, "act").Resolved.Contexts
	if len(got) != 2 || got[0] != "home" || got[1] != "phone" {
		t.Fatalf("contexts = %v", got)
	}
}

func TestForwardTagReference(t *testing.T) {
	doc := parse(t, `- P
  @ second @after:firstAction
  @ first #firstAction
`, now)
	n := find(t, doc, "second")
	if !n.Resolved.Blocked || n.Resolved.Reason != model.BlockDependency {
		t.Fatalf("forward ref should resolve and block: %+v", n.Resolved)
	}

	// Once the definer is done the reference unblocks.
	doc = parse(t, `- P
  @ second @after:firstAction
  @ first #firstAction (DONE 2013-08-16 21:00)
`, now)
	if find(t, doc, "second").Resolved.Blocked {
		t.Fatalf("completed definer should unblock")
	}
}

func TestUnresolvedReference(t *testing.T) {
	doc := parse(t, "- P\n  @ act @after:ghost\n", now)
	n := find(t, doc, "act")
	if !n.Resolved.Blocked || n.Resolved.Reason != model.BlockUnresolvedRef {
		t.Fatalf("unresolved ref must block: %+v", n.Resolved)
	}
	if !hasWarning(doc, model.WarnUnresolvedRef) {
		t.Fatalf("expected unresolved warning, got %v", doc.Warnings)
	}
}

func TestDuplicateTagDefinition(t *testing.T) {
	doc := parse(t, `- P
  @ one #dup
  @ two #dup (DONE 2013-08-16 21:00)
  @ ref @after:dup
`, now)
	if !hasWarning(doc, model.WarnDuplicateTag) {
		t.Fatalf("expected duplicate warning, got %v", doc.Warnings)
	}
	// Later definition wins; it is done, so the reference is unblocked.
	if find(t, doc, "ref").Resolved.Blocked {
		t.Fatalf("later (done) definition should win")
	}
}

func TestCyclicDependency(t *testing.T) {
	doc := parse(t, `- P
  @ a #tagA @after:tagB
  @ b #tagB @after:tagA
  @ c @after:tagB
`, now)
	if !hasWarning(doc, model.WarnCyclicDependency) {
		t.Fatalf("expected cycle warning, got %v", doc.Warnings)
	}
	for _, title := range []string{"a", "b"} {
		n := find(t, doc, title)
		if !n.Resolved.Blocked || n.Resolved.Reason != model.BlockCycle {
			t.Fatalf("%s should be cycle-blocked: %+v", title, n.Resolved)
		}
	}
	// c depends on the cycle but is not on it: plain dependency block.
	if r := find(t, doc, "c").Resolved; !r.Blocked || r.Reason != model.BlockDependency {
		t.Fatalf("c: %+v", r)
	}
}

func TestWaitingSuppressesNoNextActionBlock(t *testing.T) {
	doc := parse(t, `# Stalled
  @ only child @@waiting for vendor
`, now)
	p := find(t, doc, "Stalled")
	if !p.Resolved.Blocked || p.Resolved.Reason != model.BlockNoNextAction {
		t.Fatalf("project with only waiting children must be flagged: %+v", p.Resolved)
	}

	doc = parse(t, `# Stalled @@waiting on budget
  @ only child @@waiting for vendor
`, now)
	if find(t, doc, "Stalled").Resolved.Blocked {
		t.Fatalf("waiting project must not get the no-next-action block")
	}
}

func TestRemindGatesEligibility(t *testing.T) {
	doc := parse(t, "- P\n  @ Ping accountant REMIND 2013-08-25 09:00\n", now)
	n := find(t, doc, "Ping accountant")
	if Eligible(n, now) {
		t.Fatalf("action must stay hidden before its remind instant")
	}
	if !Eligible(n, time.Date(2013, 8, 25, 9, 0, 0, 0, time.Local)) {
		t.Fatalf("action must surface at the remind instant")
	}
	if !Eligible(n, time.Date(2013, 8, 26, 9, 0, 0, 0, time.Local)) {
		t.Fatalf("action must stay eligible after the remind instant")
	}
}

func TestOrderedProjectSequencing(t *testing.T) {
	doc := parse(t, `# Seq
  @ first (DONE 2013-08-16 21:00)
  @ second
  @ third
`, now)
	p := find(t, doc, "Seq")
	if !p.Resolved.HasNextAction || p.Resolved.Blocked {
		t.Fatalf("second should be the next action: %+v", p.Resolved)
	}

	// First unfinished child hidden by visibility => no next action yet.
	doc = parse(t, `# Seq
  @ second >2113-01-01
  @ third
`, now)
	p = find(t, doc, "Seq")
	if p.Resolved.HasNextAction {
		t.Fatalf("ordered project must not skip past a hidden blocker")
	}
}

func hasWarning(doc *model.Document, kind model.WarningKind) bool {
	for _, w := range doc.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
