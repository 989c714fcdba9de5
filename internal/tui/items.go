package tui

import (
	"fmt"

	"vtd-cli/internal/views"

	"github.com/charmbracelet/bubbles/list"
)

type lineItem struct {
	line views.Line
}

func (i lineItem) Title() string { return i.line.Text }

func (i lineItem) Description() string {
	desc := i.line.Status
	if desc == "" && i.line.Due != nil {
		desc = "due " + i.line.Due.Format("2006-01-02")
	}
	jump := fmt.Sprintf("<<%s:%d>>", i.line.Ref.FileID, i.line.Ref.Line)
	if desc == "" {
		return jump
	}
	return desc + "  " + jump
}

func (i lineItem) FilterValue() string { return i.line.Text }

func newList(title string) list.Model {
	d := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, d, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return l
}
