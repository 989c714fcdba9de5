package resolve

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vtd-cli/internal/model"
)

// Graph is the tag-based dependency relation: which node defines each
// tag, and which tags each referencing node waits on.
type Graph struct {
	Definers map[string]*model.Node
	Refs     map[*model.Node][]string
}

// Dependencies resolves every @after: reference against the tag
// definitions collected from the whole document (references may point
// forward), marks blocked nodes, and derives project next-action flags.
// now is needed because a project's "has an eligible next action" state
// depends on visibility.
func Dependencies(doc *model.Document, now time.Time) []model.Warning {
	var warns []model.Warning

	g := collect(doc, &warns)
	warns = append(warns, markCycles(g)...)

	doc.Walk(func(n *model.Node) {
		if n.Resolved.Blocked || len(n.After) == 0 {
			return // cycle members already marked
		}
		blockNode(n, g, &warns)
	})

	// Projects: bottom-up, so a parent sees its child projects' flags.
	for _, n := range doc.Children {
		deriveNextActions(n, now)
	}
	return warns
}

func collect(doc *model.Document, warns *[]model.Warning) *Graph {
	g := &Graph{
		Definers: make(map[string]*model.Node),
		Refs:     make(map[*model.Node][]string),
	}
	doc.Walk(func(n *model.Node) {
		for _, tag := range n.Defines {
			if prev, dup := g.Definers[tag]; dup {
				*warns = append(*warns, model.Warningf(model.WarnDuplicateTag, n.Ref.Line,
					"tag #%s already defined at line %d; this definition wins", tag, prev.Ref.Line))
			}
			g.Definers[tag] = n
		}
		if len(n.After) > 0 {
			g.Refs[n] = n.After
		}
	})
	return g
}

func blockNode(n *model.Node, g *Graph, warns *[]model.Warning) {
	var outstanding []string
	reason := model.BlockNone
	for _, tag := range n.After {
		definer, ok := g.Definers[tag]
		if !ok {
			*warns = append(*warns, model.Warningf(model.WarnUnresolvedRef, n.Ref.Line,
				"@after:%s has no #%s definition; node stays blocked", tag, tag))
			outstanding = append(outstanding, tag)
			reason = model.BlockUnresolvedRef
			continue
		}
		if !definer.IsDone() {
			outstanding = append(outstanding, tag)
			if reason == model.BlockNone {
				reason = model.BlockDependency
			}
		}
	}
	if len(outstanding) > 0 {
		n.Resolved.Blocked = true
		n.Resolved.Reason = reason
		n.Resolved.BlockedOn = outstanding
	}
}

// markCycles finds strongly connected components of the reference graph
// (edge: definer of a tag → node referencing that tag). Members of any
// component of size > 1 (or carrying a self-edge) stay blocked
// permanently; one warning names the tags involved. Nodes merely
// downstream of a cycle are left to ordinary dependency blocking.
func markCycles(g *Graph) []model.Warning {
	out := make(map[*model.Node][]*model.Node)
	selfLoop := make(map[*model.Node]bool)
	for n, tags := range g.Refs {
		for _, tag := range tags {
			definer, ok := g.Definers[tag]
			if !ok {
				continue
			}
			if definer == n {
				selfLoop[n] = true
			}
			out[definer] = append(out[definer], n)
		}
	}

	members := cycleMembers(out, selfLoop)
	if len(members) == 0 {
		return nil
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Seq < members[j].Seq })

	var tags []string
	for _, n := range members {
		n.Resolved.Blocked = true
		n.Resolved.Reason = model.BlockCycle
		n.Resolved.BlockedOn = append([]string(nil), n.After...)
		tags = append(tags, n.After...)
	}
	return []model.Warning{model.Warningf(model.WarnCyclicDependency, members[0].Ref.Line,
		"dependency cycle through %s", fmt.Sprintf("@after:{%s}", strings.Join(dedupe(tags), ", ")))}
}

// cycleMembers is Tarjan's SCC algorithm; it returns every node in a
// component of size > 1, plus self-loops.
func cycleMembers(out map[*model.Node][]*model.Node, selfLoop map[*model.Node]bool) []*model.Node {
	index := make(map[*model.Node]int)
	low := make(map[*model.Node]int)
	onStack := make(map[*model.Node]bool)
	var stack []*model.Node
	next := 0

	var members []*model.Node
	var strongconnect func(v *model.Node)
	strongconnect = func(v *model.Node) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range out[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}

		if low[v] == index[v] {
			var comp []*model.Node
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			if len(comp) > 1 || selfLoop[comp[0]] {
				members = append(members, comp...)
			}
		}
	}

	// Deterministic visit order keeps warning text stable across runs.
	var roots []*model.Node
	seen := make(map[*model.Node]bool)
	for v, ws := range out {
		if !seen[v] {
			seen[v] = true
			roots = append(roots, v)
		}
		for _, w := range ws {
			if !seen[w] {
				seen[w] = true
				roots = append(roots, w)
			}
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Seq < roots[j].Seq })
	for _, v := range roots {
		if _, done := index[v]; !done {
			strongconnect(v)
		}
	}
	return members
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// deriveNextActions computes Resolved.HasNextAction for projects,
// bottom-up, and applies the no-next-action block to projects that are
// neither waiting nor done.
func deriveNextActions(n *model.Node, now time.Time) {
	for _, c := range n.Children {
		deriveNextActions(c, now)
	}
	if n.Kind != model.NodeProject {
		return
	}

	n.Resolved.HasNextAction = projectHasNext(n, now)
	if n.IsDone() || n.Waiting || n.Resolved.Blocked {
		return
	}
	if !n.Resolved.HasNextAction {
		n.Resolved.Blocked = true
		n.Resolved.Reason = model.BlockNoNextAction
	}
}

func projectHasNext(p *model.Node, now time.Time) bool {
	if p.Ordered {
		// Sequential: only the first unfinished child can contribute.
		for _, c := range p.Children {
			if c.IsDone() {
				continue
			}
			return childEligible(c, now)
		}
		return false
	}
	for _, c := range p.Children {
		if !c.IsDone() && childEligible(c, now) {
			return true
		}
	}
	return false
}

func childEligible(c *model.Node, now time.Time) bool {
	switch c.Kind {
	case model.NodeAction:
		return Eligible(c, now)
	case model.NodeProject:
		return c.Resolved.HasNextAction
	}
	return false
}

// Eligible reports whether an action is currently actionable: not done,
// not blocked, not waiting, and past its visibility and remind
// thresholds. Recurring actions count; whether they are *due* is the
// scheduler's business.
func Eligible(n *model.Node, now time.Time) bool {
	if n.Kind != model.NodeAction || n.IsDone() {
		return false
	}
	if n.Resolved.Blocked || n.Waiting {
		return false
	}
	if n.Resolved.Visible != nil && n.Resolved.Visible.After(now) {
		return false
	}
	if n.Remind != nil && n.Remind.After(now) {
		return false
	}
	return true
}
