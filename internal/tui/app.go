// Package tui is an interactive browser over the engine's views. It is
// a host collaborator: it reads the outline file, hands text to the
// engine, and displays what comes back. It never mutates parse state.
package tui

import (
	"fmt"
	"os"
	"time"

	"vtd-cli/internal/engine"
	"vtd-cli/internal/views"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var viewOrder = []views.Kind{
	views.Next, views.Inboxes, views.Recurring, views.Waiting, views.All,
}

var viewTitles = map[views.Kind]string{
	views.Next:      "Next Actions",
	views.Inboxes:   "Inboxes",
	views.Recurring: "Recurring",
	views.Waiting:   "Waiting",
	views.All:       "Everything",
}

type reloadTickMsg struct{}

type appModel struct {
	path    string
	include []string
	exclude []string

	width  int
	height int

	kind     int // index into viewOrder
	list     list.Model
	warnings int
	loadErr  error

	eng         *engine.Engine
	lastModTime time.Time
}

func newAppModel(path string, include, exclude []string) appModel {
	m := appModel{
		path:    path,
		include: include,
		exclude: exclude,
		eng:     &engine.Engine{},
	}
	m.list = newList(viewTitles[viewOrder[0]])
	m.reload()
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		return m, nil

	case reloadTickMsg:
		if m.sourceChanged() {
			m.reload()
		}
		return m, tickReload()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			// Reload so edits in another terminal show up immediately.
			m.reload()
			return m, nil
		case "tab", "l", "right":
			m.kind = (m.kind + 1) % len(viewOrder)
			m.reload()
			return m, nil
		case "shift+tab", "h", "left":
			m.kind = (m.kind + len(viewOrder) - 1) % len(viewOrder)
			m.reload()
			return m, nil
		case "1", "2", "3", "4", "5":
			m.kind = int(msg.String()[0] - '1')
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	return m.tabLine() + "\n" + m.list.View() + "\n" + m.footerLine()
}

func (m *appModel) sourceChanged() bool {
	info, err := os.Stat(m.path)
	if err != nil {
		return false
	}
	return info.ModTime().After(m.lastModTime)
}

// reload re-reads the outline and repopulates the list for the current
// view kind. The engine memoizes by content hash, so switching views
// without an edit does not reparse.
func (m *appModel) reload() {
	b, err := os.ReadFile(m.path)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	if info, err := os.Stat(m.path); err == nil {
		m.lastModTime = info.ModTime()
	}

	now := time.Now()
	kind := viewOrder[m.kind]
	doc := m.eng.Parse(string(b), m.path, now)
	m.warnings = len(doc.Warnings)

	lines := engine.RenderView(doc, kind, m.include, m.exclude, now)
	items := make([]list.Item, len(lines))
	for i, l := range lines {
		items[i] = lineItem{line: l}
	}
	m.list.Title = viewTitles[kind]
	m.list.SetItems(items)
	m.resizeList()
}

func (m *appModel) resizeList() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// Tab bar above, help bar below.
	m.list.SetSize(m.width, m.height-2)
}

func (m appModel) tabLine() string {
	var s string
	for i, k := range viewOrder {
		label := fmt.Sprintf(" %d %s ", i+1, viewTitles[k])
		if i == m.kind {
			s += activeTabStyle.Render(label)
		} else {
			s += tabStyle.Render(label)
		}
	}
	return s
}

func (m appModel) footerLine() string {
	if m.loadErr != nil {
		return errorStyle.Render(fmt.Sprintf("  %v", m.loadErr))
	}
	s := fmt.Sprintf("  %s · tab/1-5 switch · r reload · q quit", m.path)
	if m.warnings > 0 {
		s += warnStyle.Render(fmt.Sprintf(" · %d warnings", m.warnings))
	}
	return helpStyle.Render(s)
}

func tickReload() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

// Run starts the browser over the outline at path.
func Run(path string, include, exclude []string) error {
	p := tea.NewProgram(newAppModel(path, include, exclude), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
