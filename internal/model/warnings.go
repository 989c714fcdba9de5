package model

import "fmt"

type WarningKind string

const (
	WarnMalformedDate       WarningKind = "malformedDate"
	WarnMalformedRecurrence WarningKind = "malformedRecurrence"
	WarnDuplicateTag        WarningKind = "duplicateTagDefinition"
	WarnUnresolvedRef       WarningKind = "unresolvedDependency"
	WarnCyclicDependency    WarningKind = "cyclicDependency"
	WarnEmptyInput          WarningKind = "emptyInput"
)

// Warning is a non-fatal parse or resolution problem. The engine never
// aborts on one; it attaches them to the Document and keeps going.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Line    int         `json:"line,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", w.Line, w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

func Warningf(kind WarningKind, line int, format string, args ...any) Warning {
	return Warning{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
