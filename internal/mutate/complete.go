// Package mutate produces the text edit that completes a single outline
// line. It is pure: classification mirrors the annotation grammar, the
// caller applies the returned edit however it manages text.
package mutate

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrNotCompletable marks lines that cannot take a completion stamp:
// blanks, section headers, free text, and lines already stamped.
var ErrNotCompletable = errors.New("line is not completable")

// Edit is a span-located replacement within the input line. Start and
// End are byte offsets; Line is the full result for hosts that prefer
// whole-line replacement.
type Edit struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
	Line        string `json:"line"`
}

const stampLayout = "2006-01-02 15:04"

var (
	reHeader    = regexp.MustCompile(`^\s*(?:[#-]|@)\s+\S`)
	reSection   = regexp.MustCompile(`^\s*=+\s+.*?\s+=+\s*$`)
	reStamped   = regexp.MustCompile(`\((?:DONE|WONTDO)\s+\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}\)`)
	reLastStamp = regexp.MustCompile(`\(LASTDONE\s+(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2})\)`)
	reRecurring = regexp.MustCompile(`(?i)\bEVERY\s+(?:\d+(?:\s*-\s*\d+)?\s+)?(?:day|week|month)s?\b`)
)

// Complete computes the edit completing line at now.
//
// A recurring line updates (or gains) its LASTDONE stamp; completing it
// again later just moves the stamp, so recurring items never go
// terminally done. A plain action or project header gains a DONE stamp;
// a line that already has one is not completable again.
func Complete(line string, now time.Time) (Edit, error) {
	if reLastStamp.MatchString(line) {
		// Replace the datetime substring in place, preserving everything
		// around it.
		loc := reLastStamp.FindStringSubmatchIndex(line)
		start, end := loc[2], loc[3]
		stamp := now.Format(stampLayout)
		return Edit{
			Start:       start,
			End:         end,
			Replacement: stamp,
			Line:        line[:start] + stamp + line[end:],
		}, nil
	}

	if reStamped.MatchString(line) {
		return Edit{}, ErrNotCompletable
	}
	if !reHeader.MatchString(line) {
		return Edit{}, ErrNotCompletable
	}

	word := "DONE"
	if reRecurring.MatchString(line) {
		// First completion of a recurring line: it gets a LASTDONE stamp
		// rather than a terminal DONE.
		word = "LASTDONE"
	}
	suffix := fmt.Sprintf(" (%s %s)", word, now.Format(stampLayout))
	return Edit{
		Start:       len(line),
		End:         len(line),
		Replacement: suffix,
		Line:        line + suffix,
	}, nil
}

// CompleteAt computes the completion edit for the node whose line sits
// at lines[idx]. Stamps often live on a continuation line below the
// header, and hosts usually address items by their header line; scanning
// the continuations keeps the edit on the line that already carries the
// stamp instead of stacking a second one onto the header. It returns the
// index of the line the edit applies to.
func CompleteAt(lines []string, idx int, now time.Time) (Edit, int, error) {
	if idx < 0 || idx >= len(lines) {
		return Edit{}, idx, ErrNotCompletable
	}
	target := idx
	if reHeader.MatchString(lines[idx]) &&
		!reLastStamp.MatchString(lines[idx]) && !reStamped.MatchString(lines[idx]) {
		for j := idx + 1; j < len(lines); j++ {
			if reHeader.MatchString(lines[j]) || reSection.MatchString(lines[j]) {
				break
			}
			if reStamped.MatchString(lines[j]) {
				return Edit{}, j, ErrNotCompletable
			}
			if reLastStamp.MatchString(lines[j]) {
				target = j
				break
			}
		}
	}
	edit, err := Complete(lines[target], now)
	return edit, target, err
}
