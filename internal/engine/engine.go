// Package engine ties the parse pipeline together behind the boundary
// the host calls: Parse, RenderView, Complete.
package engine

import (
	"crypto/sha256"
	"sync"
	"time"

	"vtd-cli/internal/annotate"
	"vtd-cli/internal/lexer"
	"vtd-cli/internal/model"
	"vtd-cli/internal/mutate"
	"vtd-cli/internal/outline"
	"vtd-cli/internal/recur"
	"vtd-cli/internal/resolve"
	"vtd-cli/internal/views"
)

// Parse runs the full pipeline over text: lex, build, annotate, resolve
// attributes, resolve dependencies, compute recurrence windows. It never
// fails; problems come back as warnings on the document.
func Parse(text, fileID string, now time.Time) *model.Document {
	doc := &model.Document{FileID: fileID}

	roots := outline.Build(lexer.ClassifyAll(text))
	if len(roots) == 0 {
		doc.Warnings = append(doc.Warnings,
			model.Warningf(model.WarnEmptyInput, 0, "no outline content found"))
		return doc
	}

	seq := 0
	var convert func(r *outline.RawNode, parent *model.Node) *model.Node
	convert = func(r *outline.RawNode, parent *model.Node) *model.Node {
		n := &model.Node{
			Kind:    r.Kind,
			Ordered: r.Ordered,
			Notes:   r.Notes,
			Ref:     model.SourceRef{FileID: fileID, Line: r.Line},
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
	for _, r := range roots {
		doc.Children = append(doc.Children, convert(r, nil))
	}

	resolve.Attributes(doc)
	doc.Warnings = append(doc.Warnings, resolve.Dependencies(doc, now)...)

	doc.Walk(func(n *model.Node) {
		if w := recur.NextDue(n.Recur, n.LastDone); w != nil {
			n.Resolved.EarliestDue = &w.Earliest
			n.Resolved.LatestDue = &w.Latest
		}
	})
	return doc
}

// RenderView filters the resolved document into one of the view kinds.
func RenderView(doc *model.Document, kind views.Kind, include, exclude []string, now time.Time) []views.Line {
	return views.Render(doc, kind, views.Filter{Include: include, Exclude: exclude}, now)
}

// Complete computes the completion edit for one source line.
func Complete(line string, now time.Time) (mutate.Edit, error) {
	return mutate.Complete(line, now)
}

// Engine memoizes parses by content hash. Purely an optimization: every
// request still sees a model derived from exactly the text it passed,
// and concurrent callers share nothing mutable (documents in the cache
// are treated as immutable once built).
type Engine struct {
	mu    sync.Mutex
	key   [sha256.Size]byte
	nowAt time.Time
	doc   *model.Document
}

// Parse returns the cached document when text (and the resolution
// instant, truncated to the minute) is unchanged since the last call.
func (e *Engine) Parse(text, fileID string, now time.Time) *model.Document {
	key := sha256.Sum256([]byte(text))
	minute := now.Truncate(time.Minute)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc != nil && e.key == key && e.nowAt.Equal(minute) && e.doc.FileID == fileID {
		return e.doc
	}
	doc := Parse(text, fileID, now)
	e.key = key
	e.nowAt = minute
	e.doc = doc
	return doc
}
