package format

import (
	"encoding/json"
	"fmt"
	"io"

	"vtd-cli/internal/views"
)

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - text
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText renders view lines one per row with their status and jump
// target; anything else falls back to pretty JSON.
func WriteText(w io.Writer, v any) error {
	lines, ok := v.([]views.Line)
	if !ok {
		return WriteJSON(w, v, true)
	}
	for _, l := range lines {
		if l.Status != "" {
			fmt.Fprintf(w, "- %s (%s) <<%s:%d>>\n", l.Text, l.Status, l.Ref.FileID, l.Ref.Line)
		} else {
			fmt.Fprintf(w, "- %s <<%s:%d>>\n", l.Text, l.Ref.FileID, l.Ref.Line)
		}
	}
	return nil
}
