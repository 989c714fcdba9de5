// Package annotate pulls inline annotations out of a node's text.
//
// An annotation that matches a pattern shape but carries an impossible
// value (month 13, minute 61) is dropped with a warning; text that
// matches no pattern at all stays in the display text untouched.
package annotate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"vtd-cli/internal/model"
)

var (
	rePriority = regexp.MustCompile(`\s*@p:(-?\d+)\b`)
	reDue      = regexp.MustCompile(`\s*<(\d{4}-\d{2}-\d{2})(?:\s+(\d{2}:\d{2}))?(?:\((\d+)\))?`)
	reVisible  = regexp.MustCompile(`\s*>(\d{4}-\d{2}-\d{2})(?:\s+(\d{2}:\d{2}))?`)
	reRemind   = regexp.MustCompile(`\s*\bREMIND\s+(\d{4}-\d{2}-\d{2})(?:\s+(\d{2}:\d{2}))?`)
	reWaiting  = regexp.MustCompile(`(?i)\s*@@?waiting\b[ \t]*(.*)`)
	reContext  = regexp.MustCompile(`\s*@@(\w+)`)
	reAfter    = regexp.MustCompile(`\s*@after:(\w+)`)
	reTagDef   = regexp.MustCompile(`\s*#(\w+)`)
	reDone     = regexp.MustCompile(`\s*\((DONE|WONTDO)\s+(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2})\)`)
	reLastDone = regexp.MustCompile(`\s*\(LASTDONE\s+(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2})\)`)
	reRecur    = regexp.MustCompile(`(?i)\s*\bEVERY\s+(?:(\d+)(?:\s*-\s*(\d+))?\s+)?(day|week|month)s?\b(?:\s+\[([^\]]*)\])?`)

	reWindowEdge = regexp.MustCompile(`(?i)^(?:(mon|tue|wed|thu|fri|sat|sun)\w*\s+)?(\d{1,2}):(\d{2})$`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// Extract parses every annotation out of text and applies it to n,
// leaving n.Title holding the stripped display text. Warnings are
// reported against the node's header line.
func Extract(n *model.Node, text string) []model.Warning {
	var warns []model.Warning
	line := n.Ref.Line

	// Stamps first: their datestamps must not be mistaken for due or
	// visible dates once parens are gone.
	text = replaceEach(text, reDone, func(m []string) {
		ts, ok := parseStamp(m[2], m[3])
		if !ok {
			warns = append(warns, model.Warningf(model.WarnMalformedDate, line, "bad %s stamp %q", m[1], m[2]+" "+m[3]))
			return
		}
		n.Done = &ts
		n.WontDo = m[1] == "WONTDO"
	})
	text = replaceEach(text, reLastDone, func(m []string) {
		ts, ok := parseStamp(m[1], m[2])
		if !ok {
			warns = append(warns, model.Warningf(model.WarnMalformedDate, line, "bad LASTDONE stamp %q", m[1]+" "+m[2]))
			return
		}
		// Duplicate stamps can pile up in hand-edited files; the most
		// recent completion is the one that matters.
		if n.LastDone == nil || ts.After(*n.LastDone) {
			n.LastDone = &ts
		}
	})

	text = replaceEach(text, reRecur, func(m []string) {
		spec, err := parseRecur(m[1], m[2], m[3], m[4])
		if err != "" {
			warns = append(warns, model.Warningf(model.WarnMalformedRecurrence, line, "%s", err))
			return
		}
		n.Recur = spec
	})

	text = replaceEach(text, reDue, func(m []string) {
		ts, ok := parseDate(m[1], m[2], "23:59")
		if !ok {
			warns = append(warns, model.Warningf(model.WarnMalformedDate, line, "bad due date %q", m[1]))
			return
		}
		n.Due = &ts
		if m[3] != "" {
			lead, _ := strconv.Atoi(m[3])
			n.DueLeadDays = lead
		}
	})
	text = replaceEach(text, reVisible, func(m []string) {
		ts, ok := parseDate(m[1], m[2], "00:01")
		if !ok {
			warns = append(warns, model.Warningf(model.WarnMalformedDate, line, "bad visible date %q", m[1]))
			return
		}
		n.Visible = &ts
	})
	text = replaceEach(text, reRemind, func(m []string) {
		ts, ok := parseDate(m[1], m[2], "00:01")
		if !ok {
			warns = append(warns, model.Warningf(model.WarnMalformedDate, line, "bad remind date %q", m[1]))
			return
		}
		n.Remind = &ts
	})

	// Waiting before generic contexts so "@@waiting for X" becomes a flag
	// plus note rather than a context named waiting. The note capture runs
	// to end of line, so annotations inside it are pulled out here too.
	text = replaceEach(text, reWaiting, func(m []string) {
		n.Waiting = true
		if note := extractInline(n, m[1]); note != "" {
			n.WaitingNote = note
		}
	})
	text = extractInline(n, text)

	n.Title = tidy(text)
	return warns
}

// extractInline pulls the order-free annotations (priority, dependency
// references, contexts, tag definitions) out of s, records them on n,
// and returns the stripped remainder.
func extractInline(n *model.Node, s string) string {
	s = replaceEach(s, rePriority, func(m []string) {
		p, _ := strconv.Atoi(m[1])
		n.Priority = &p
	})
	s = replaceEach(s, reAfter, func(m []string) {
		n.After = append(n.After, m[1])
	})
	s = replaceEach(s, reContext, func(m []string) {
		n.Contexts = append(n.Contexts, m[1])
	})
	s = replaceEach(s, reTagDef, func(m []string) {
		n.Defines = append(n.Defines, m[1])
	})
	return tidy(s)
}

// replaceEach invokes fn for every match of re in text and removes the
// matches, returning what is left.
func replaceEach(text string, re *regexp.Regexp, fn func(m []string)) string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		fn(m)
	}
	return re.ReplaceAllString(text, "")
}

func tidy(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// parseDate parses a datestamp with optional HH:MM. Date-only stamps get
// defTime: end of day for due dates, start of day for visible dates,
// matching how the stamps read ("due by the 25th", "visible from the 25th").
func parseDate(date, clock, defTime string) (time.Time, bool) {
	if clock == "" {
		clock = defTime
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func parseStamp(date, clock string) (time.Time, bool) {
	return parseDate(date, clock, "00:00")
}

// parseRecur builds a RecurrenceSpec from the EVERY clause submatches:
// count (optional), range max (optional), unit, window body (optional).
// It returns a non-empty message on failure.
func parseRecur(count, max, unit, window string) (*model.RecurrenceSpec, string) {
	spec := &model.RecurrenceSpec{MinCount: 1, MaxCount: 1}

	switch strings.ToLower(unit) {
	case "day":
		spec.Unit = model.UnitDay
	case "week":
		spec.Unit = model.UnitWeek
	case "month":
		spec.Unit = model.UnitMonth
	default:
		return nil, "unknown recurrence unit " + strconv.Quote(unit)
	}

	if count != "" {
		c, _ := strconv.Atoi(count)
		if c < 1 {
			return nil, "recurrence count must be positive"
		}
		spec.MinCount, spec.MaxCount = c, c
	}
	if max != "" {
		m, _ := strconv.Atoi(max)
		if m < spec.MinCount {
			return nil, "recurrence range max below min"
		}
		spec.MaxCount = m
	}

	if window != "" {
		w, msg := parseWindow(window)
		if msg != "" {
			return nil, msg
		}
		spec.Window = w
	}
	return spec, ""
}

// parseWindow parses "[start - end]" bodies: each edge is HH:MM with an
// optional leading weekday name. A single edge means from that time to
// the end of the day.
func parseWindow(body string) (*model.TimeWindow, string) {
	parts := strings.Split(body, "-")
	if len(parts) > 2 {
		return nil, "time window has more than two edges"
	}

	start, ok := parseEdge(parts[0])
	if !ok {
		return nil, "bad window edge " + strconv.Quote(strings.TrimSpace(parts[0]))
	}
	w := &model.TimeWindow{Start: start}
	if len(parts) == 2 {
		end, ok := parseEdge(parts[1])
		if !ok {
			return nil, "bad window edge " + strconv.Quote(strings.TrimSpace(parts[1]))
		}
		w.End = end
	} else {
		w.End = model.WindowEdge{Weekday: start.Weekday, Hour: 23, Minute: 59}
	}
	return w, ""
}

func parseEdge(s string) (model.WindowEdge, bool) {
	m := reWindowEdge.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return model.WindowEdge{}, false
	}
	var e model.WindowEdge
	if m[1] != "" {
		wd := weekdays[strings.ToLower(m[1])]
		e.Weekday = &wd
	}
	e.Hour, _ = strconv.Atoi(m[2])
	e.Minute, _ = strconv.Atoi(m[3])
	if e.Hour > 23 || e.Minute > 59 {
		return model.WindowEdge{}, false
	}
	return e, true
}
