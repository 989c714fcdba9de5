package model

import "time"

type NodeKind string

const (
	NodeSection NodeKind = "section"
	NodeProject NodeKind = "project"
	NodeAction  NodeKind = "action"
)

// SourceRef locates a node's header line so a host can jump to it.
type SourceRef struct {
	FileID string `json:"fileId"`
	Line   int    `json:"line"`
}

// RecurUnit is the base unit of a recurrence interval.
type RecurUnit string

const (
	UnitDay   RecurUnit = "day"
	UnitWeek  RecurUnit = "week"
	UnitMonth RecurUnit = "month"
)

// WindowEdge is one boundary of a time-of-day (optionally weekday-anchored)
// actionability window, e.g. "Thu 17:00".
type WindowEdge struct {
	Weekday *time.Weekday `json:"weekday,omitempty"`
	Hour    int           `json:"hour"`
	Minute  int           `json:"minute"`
}

// TimeWindow restricts when during the day (or week) a recurring item is
// actionable once its interval has elapsed. A window parsed from a single
// time runs from that time to the end of the day.
type TimeWindow struct {
	Start WindowEdge `json:"start"`
	End   WindowEdge `json:"end"`
}

// RecurrenceSpec is a parsed EVERY clause. Fixed intervals have
// MinCount == MaxCount.
type RecurrenceSpec struct {
	MinCount int         `json:"minCount"`
	MaxCount int         `json:"maxCount"`
	Unit     RecurUnit   `json:"unit"`
	Window   *TimeWindow `json:"window,omitempty"`
}

// Node is one outline entry: a section, a project, or an action.
// Explicit fields hold what the text literally declares; Resolved holds
// what inheritance and dependency analysis conclude.
type Node struct {
	Kind    NodeKind  `json:"kind"`
	Ordered bool      `json:"ordered,omitempty"` // projects: '#' vs '-'
	Title   string    `json:"title"`             // display text, annotations stripped
	Notes   []string  `json:"notes,omitempty"`   // '*' support lines
	Ref     SourceRef `json:"ref"`

	Priority    *int            `json:"priority,omitempty"`
	Due         *time.Time      `json:"due,omitempty"`
	DueLeadDays int             `json:"dueLeadDays,omitempty"`
	Visible     *time.Time      `json:"visible,omitempty"`
	Remind      *time.Time      `json:"remind,omitempty"`
	Contexts    []string        `json:"contexts,omitempty"`
	Defines     []string        `json:"defines,omitempty"` // #tag definitions
	After       []string        `json:"after,omitempty"`   // @after: references
	Waiting     bool            `json:"waiting,omitempty"`
	WaitingNote string          `json:"waitingNote,omitempty"`
	Recur       *RecurrenceSpec `json:"recur,omitempty"`
	Done        *time.Time      `json:"done,omitempty"` // DONE or WONTDO stamp
	WontDo      bool            `json:"wontDo,omitempty"`
	LastDone    *time.Time      `json:"lastDone,omitempty"`

	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`

	// Seq is the node's position in document order, used as the final
	// sort tiebreaker in views.
	Seq int `json:"-"`

	Resolved Resolved `json:"resolved"`
}

// BlockReason distinguishes why a node is blocked.
type BlockReason string

const (
	BlockNone          BlockReason = ""
	BlockDependency    BlockReason = "dependency"
	BlockUnresolvedRef BlockReason = "unresolvedReference"
	BlockCycle         BlockReason = "cyclicDependency"
	BlockNoNextAction  BlockReason = "noNextAction"
)

// Resolved carries the effective attributes computed per parse pass.
// Values are immutable once the pass completes.
type Resolved struct {
	Priority  int         `json:"priority"`
	Due       *time.Time  `json:"due,omitempty"`
	Visible   *time.Time  `json:"visible,omitempty"`
	Contexts  []string    `json:"contexts,omitempty"`
	Blocked   bool        `json:"blocked"`
	Reason    BlockReason `json:"blockedReason,omitempty"`
	BlockedOn []string    `json:"blockedOn,omitempty"` // tags still outstanding

	// Projects only: an eligible next action exists somewhere below.
	HasNextAction bool `json:"hasNextAction,omitempty"`

	// Recurring actions only: computed due window.
	EarliestDue *time.Time `json:"earliestDue,omitempty"`
	LatestDue   *time.Time `json:"latestDue,omitempty"`
}

// Document is the parse result root.
type Document struct {
	FileID   string    `json:"fileId"`
	Children []*Node   `json:"children,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Walk visits every node in document order (pre-order).
func (d *Document) Walk(fn func(*Node)) {
	var rec func(*Node)
	rec = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			rec(c)
		}
	}
	for _, c := range d.Children {
		rec(c)
	}
}

// IsDone reports whether the node carries a terminal stamp. Recurring
// actions are never terminally done.
func (n *Node) IsDone() bool {
	if n.Recur != nil {
		return false
	}
	return n.Done != nil
}
