// Package browse provides an interactive browser over the registry catalog.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/registry"
	"github.com/strataml/strata/internal/ui/logview"
	"github.com/strataml/strata/internal/ui/styles"
)

// Model holds the browser state.
type Model struct {
	entries  []registry.Entry
	visible  []int // indices into entries matching the filter
	selected int   // index into visible
	offset   int   // first visible row of the list window

	filter    textinput.Model
	filtering bool

	logs     logview.Model
	listener *log.LogListener

	v2     bool
	width  int
	height int
}

// New creates a browser over the given entries. Entries are expected in
// the order Registry.Entries returns them.
func New(entries []registry.Entry, v2 bool) Model {
	input := textinput.New()
	input.Placeholder = "filter kinds..."
	input.Prompt = "/ "
	input.Width = 30

	m := Model{
		entries: entries,
		filter:  input,
		logs:    logview.New(),
		v2:      v2,
	}
	return m.applyFilter()
}

// NewWithLogs creates a browser that also captures log events for the
// ctrl+x log pane. A nil listener behaves like New.
func NewWithLogs(entries []registry.Entry, v2 bool, listener *log.LogListener) Model {
	m := New(entries, v2)
	m.listener = listener
	return m
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (registry.Entry, bool) {
	if len(m.visible) == 0 {
		return registry.Entry{}, false
	}
	return m.entries[m.visible[m.selected]], true
}

// Init implements tea.Model. With a listener attached it primes the
// first log receive.
func (m Model) Init() tea.Cmd {
	if m.listener != nil {
		return m.listener.Listen()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = m.listWidth() - 4
		m.logs.SetSize(msg.Width, msg.Height)
		return m.ensureVisible(), nil

	case log.LogEvent:
		m.logs.Append(msg.Payload)
		if m.listener != nil {
			return m, m.listener.Listen()
		}
		return m, nil

	case tea.KeyMsg:
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

// updateBrowsing handles keys while the list has focus.
func (m Model) updateBrowsing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.filtering = true
		return m, m.filter.Focus()

	case "j", "down", "ctrl+n":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		return m.ensureVisible(), nil

	case "k", "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
		return m.ensureVisible(), nil

	case "g", "home":
		m.selected = 0
		return m.ensureVisible(), nil

	case "G", "end":
		if len(m.visible) > 0 {
			m.selected = len(m.visible) - 1
		}
		return m.ensureVisible(), nil

	case "ctrl+d":
		m.selected = min(m.selected+m.listHeight()/2, max(len(m.visible)-1, 0))
		return m.ensureVisible(), nil

	case "ctrl+u":
		m.selected = max(m.selected-m.listHeight()/2, 0)
		return m.ensureVisible(), nil

	case "ctrl+x":
		if m.listener != nil {
			m.logs.Toggle()
		}
		return m, nil
	}

	return m, nil
}

// updateFiltering handles keys while the filter input has focus.
func (m Model) updateFiltering(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		return m.applyFilter(), nil

	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil

	case "down", "ctrl+n":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		return m.ensureVisible(), nil

	case "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
		return m.ensureVisible(), nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m.applyFilter(), cmd
}

// applyFilter recomputes the visible set from the filter text.
func (m Model) applyFilter() Model {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if query == "" || strings.Contains(strings.ToLower(e.Name), query) {
			m.visible = append(m.visible, i)
		}
	}

	m.selected = 0
	m.offset = 0
	return m
}

// ensureVisible scrolls the list window so the cursor stays on screen.
func (m Model) ensureVisible() Model {
	rows := m.listHeight()
	if rows <= 0 {
		return m
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	return m
}

func (m Model) listWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 44 {
		w = 44
	}
	return w
}

// listHeight is the number of list rows inside the pane border.
func (m Model) listHeight() int {
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	title := m.renderTitle()
	if m.logs.Visible() {
		return title + "\n" + m.logs.View()
	}

	filter := " " + m.filter.View()
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderDetail())
	status := m.renderStatusBar()

	return title + "\n" + filter + "\n" + panes + "\n" + status
}

func (m Model) renderTitle() string {
	mode := "v1"
	if m.v2 {
		mode = "v2"
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	countStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	return titleStyle.Render("Registry") + " " +
		countStyle.Render(fmt.Sprintf("%d kinds · %s", len(m.entries), mode))
}

func (m Model) renderList() string {
	width := m.listWidth()
	rows := m.listHeight()

	// Room for indicator, gap, and source badge
	badgeWidth := 9
	nameWidth := width - badgeWidth - 4
	if nameWidth < 8 {
		nameWidth = 8
	}

	var b strings.Builder
	if len(m.visible) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
		b.WriteString(emptyStyle.Render(" (no matches)"))
	}

	end := min(m.offset+rows, len(m.visible))
	for row := m.offset; row < end; row++ {
		e := m.entries[m.visible[row]]

		name := runewidth.Truncate(e.Name, nameWidth, "…")
		name = runewidth.FillRight(name, nameWidth)

		badgeStyle := lipgloss.NewStyle().Foreground(styles.SourceColor(string(e.Source)))
		badge := badgeStyle.Render(string(e.Source))

		if row == m.selected {
			nameStyle := lipgloss.NewStyle().Bold(true)
			b.WriteString(styles.SelectionIndicatorStyle.Render(">") + " " + nameStyle.Render(name) + " " + badge)
		} else {
			b.WriteString("  " + name + " " + badge)
		}
		if row < end-1 {
			b.WriteString("\n")
		}
	}

	border := styles.BorderDefaultColor
	if !m.filtering {
		border = styles.BorderFocusColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Height(rows).
		Render(b.String())
}

func (m Model) renderDetail() string {
	width := m.width - m.listWidth() - 4
	if width < 20 {
		width = 20
	}
	rows := m.listHeight()

	var b strings.Builder
	if e, ok := m.Selected(); ok {
		nameStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor)
		labelStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

		b.WriteString(nameStyle.Render(e.Name))
		b.WriteString("\n")
		if e.Descriptor != nil && e.Descriptor.Kind() != e.Name {
			b.WriteString(labelStyle.Render("kind   ") + e.Descriptor.Kind() + "\n")
		}
		b.WriteString(labelStyle.Render("source ") + string(e.Source))
		b.WriteString("\n\n")

		if e.Doc != "" {
			docStyle := lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)
			b.WriteString(docStyle.Render(wordwrap.String(e.Doc, width-2)))
		} else {
			b.WriteString(labelStyle.Render("(no documentation)"))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Width(width).
		Height(rows).
		PaddingLeft(1).
		Render(b.String())
}

func (m Model) renderStatusBar() string {
	hints := "j/k move · / filter · q quit"
	if m.listener != nil {
		hints = "j/k move · / filter · ctrl+x logs · q quit"
	}
	if m.filtering {
		hints = "enter keep filter · esc clear"
	}
	return styles.StatusBarStyle.Render(hints)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
