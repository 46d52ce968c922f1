package browse

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/pubsub"
	"github.com/strataml/strata/internal/registry"
)

func testEntries() []registry.Entry {
	build := func(component.Params) (component.Component, error) { return nil, nil }
	return []registry.Entry{
		{Name: "BatchNormalizationV1", Descriptor: component.Describe("BatchNormalization", "", build), Source: registry.SourceAlias},
		{Name: "Dense", Descriptor: component.Describe("Dense", "Densely connected layer.", build), Doc: "Densely connected layer.", Source: registry.SourceBaseline},
		{Name: "Dropout", Descriptor: component.Describe("Dropout", "", build), Source: registry.SourceBaseline},
		{Name: "LSTM", Descriptor: component.Describe("LSTM", "", build), Source: registry.SourceV2},
		{Name: "add", Source: registry.SourceShortcut},
	}
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update must return a browse.Model")
	return model, cmd
}

func TestBrowse_New(t *testing.T) {
	m := New(testEntries(), false)

	assert.Len(t, m.visible, 5, "expected all entries visible")
	assert.Equal(t, 0, m.selected, "expected default selection at 0")

	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "BatchNormalizationV1", e.Name)
}

func TestBrowse_Selected_Empty(t *testing.T) {
	m := New(nil, false)

	_, ok := m.Selected()
	assert.False(t, ok, "expected no selection for empty catalog")
}

func TestBrowse_Navigate(t *testing.T) {
	m := New(testEntries(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	// Navigate down with 'j'
	m, _ = update(t, m, keyRunes('j'))
	assert.Equal(t, 1, m.selected, "expected selection at 1 after 'j'")

	// Navigate down with arrow key
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.selected, "expected selection at 2 after down arrow")

	// Navigate up with 'k'
	m, _ = update(t, m, keyRunes('k'))
	assert.Equal(t, 1, m.selected, "expected selection at 1 after 'k'")

	// Jump to bottom and top
	m, _ = update(t, m, keyRunes('G'))
	assert.Equal(t, 4, m.selected, "expected selection at last entry after 'G'")
	m, _ = update(t, m, keyRunes('g'))
	assert.Equal(t, 0, m.selected, "expected selection at first entry after 'g'")
}

func TestBrowse_Navigate_Boundaries(t *testing.T) {
	m := New(testEntries(), false)

	// At top boundary - should not go past
	m, _ = update(t, m, keyRunes('k'))
	assert.Equal(t, 0, m.selected, "expected selection to stay at 0 (boundary)")

	// At bottom boundary - should not go past
	m, _ = update(t, m, keyRunes('G'))
	m, _ = update(t, m, keyRunes('j'))
	assert.Equal(t, 4, m.selected, "expected selection to stay at last entry (boundary)")
}

func TestBrowse_Filter(t *testing.T) {
	m := New(testEntries(), false)

	// "/" opens the filter input
	m, _ = update(t, m, keyRunes('/'))
	assert.True(t, m.filtering, "expected filtering mode after '/'")

	// Typing narrows the visible set, matching case-insensitively
	m, _ = update(t, m, keyRunes('d'))
	m, _ = update(t, m, keyRunes('r'))
	require.Len(t, m.visible, 1, "expected only Dropout to match 'dr'")

	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Dropout", e.Name)
}

func TestBrowse_Filter_EnterKeepsEscClears(t *testing.T) {
	m := New(testEntries(), false)

	m, _ = update(t, m, keyRunes('/'))
	m, _ = update(t, m, keyRunes('l'))
	m, _ = update(t, m, keyRunes('s'))
	require.Len(t, m.visible, 1, "expected only LSTM to match 'ls'")

	// Enter keeps the filter and returns focus to the list
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering, "expected filtering mode off after enter")
	assert.Len(t, m.visible, 1, "expected filter to persist after enter")

	// Esc inside the filter clears it
	m, _ = update(t, m, keyRunes('/'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filtering, "expected filtering mode off after esc")
	assert.Len(t, m.visible, 5, "expected all entries visible after clearing")
}

func TestBrowse_Filter_NoMatches(t *testing.T) {
	m := New(testEntries(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, _ = update(t, m, keyRunes('/'))
	m, _ = update(t, m, keyRunes('z'))
	m, _ = update(t, m, keyRunes('z'))
	assert.Empty(t, m.visible, "expected no matches for 'zz'")

	_, ok := m.Selected()
	assert.False(t, ok, "expected no selection with empty visible set")

	view := m.View()
	assert.Contains(t, view, "(no matches)", "expected empty-state hint")
}

func TestBrowse_Quit(t *testing.T) {
	m := New(testEntries(), false)

	_, cmd := update(t, m, keyRunes('q'))
	require.NotNil(t, cmd, "expected quit command")
	assert.IsType(t, tea.QuitMsg{}, cmd(), "expected tea.Quit")
}

func TestBrowse_EscDoesNotQuitWhileFiltering(t *testing.T) {
	m := New(testEntries(), false)

	m, _ = update(t, m, keyRunes('/'))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "expected esc to clear the filter, not quit")
	assert.False(t, m.filtering)
}

func TestBrowse_ScrollWindowFollowsSelection(t *testing.T) {
	entries := make([]registry.Entry, 40)
	for i := range entries {
		entries[i] = registry.Entry{
			Name:   string(rune('A'+i%26)) + "Layer",
			Source: registry.SourceBaseline,
		}
	}
	m := New(entries, false)
	// 12 terminal rows leave 7 list rows
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})

	m, _ = update(t, m, keyRunes('G'))
	assert.Equal(t, 39, m.selected)
	assert.Equal(t, 33, m.offset, "expected window to end at the last entry")

	m, _ = update(t, m, keyRunes('g'))
	assert.Equal(t, 0, m.offset, "expected window to snap back to the top")
}

func TestBrowse_View(t *testing.T) {
	m := New(testEntries(), true)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Registry", "expected view to contain title")
	assert.Contains(t, view, "v2", "expected view to show the active mode")
	assert.Contains(t, view, "Dense", "expected view to contain entry names")
	assert.Contains(t, view, ">", "expected view to contain selection indicator")
	assert.Contains(t, view, "q quit", "expected view to contain key hints")
}

func TestBrowse_View_DetailPane(t *testing.T) {
	m := New(testEntries(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	// Move to Dense, which carries a doc
	m, _ = update(t, m, keyRunes('j'))
	view := m.View()
	assert.Contains(t, view, "Densely connected", "expected detail pane to show the doc")

	// Alias entries expose their canonical kind
	m, _ = update(t, m, keyRunes('k'))
	view = m.View()
	assert.Contains(t, view, "BatchNormalizationV1", "expected alias name in list")
	assert.Contains(t, view, "kind", "expected canonical kind label for alias")
}

func TestBrowse_View_BeforeSize(t *testing.T) {
	m := New(testEntries(), false)
	assert.Equal(t, "loading...", m.View(), "expected placeholder before first size message")
}

func TestBrowse_View_Stability(t *testing.T) {
	m := New(testEntries(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view1 := m.View()
	view2 := m.View()
	assert.Equal(t, view1, view2, "expected stable output from same model")
}

func TestBrowse_Init_NoListener(t *testing.T) {
	m := New(testEntries(), false)
	assert.Nil(t, m.Init(), "expected no startup command without a listener")
}

func TestBrowse_CtrlXWithoutListenerIsNoop(t *testing.T) {
	m := New(testEntries(), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.logs.Visible(), "expected no log pane without a listener")
}

func TestBrowse_LogPane(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := pubsub.NewBroker[string]()
	defer broker.Close()

	listener := pubsub.NewContinuousListener(ctx, broker)
	m := NewWithLogs(testEntries(), false, listener)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	// Init primes the first receive
	cmd := m.Init()
	require.NotNil(t, cmd, "expected a listen command with a listener")

	broker.Publish(pubsub.CreatedEvent, "2026-01-02T10:00:00 [INFO] [registry] populated kinds=12\n")
	ev, ok := cmd().(log.LogEvent)
	require.True(t, ok, "expected a log event from the listener")

	m, next := update(t, m, ev)
	assert.NotNil(t, next, "expected the model to re-listen after an event")

	// ctrl+x shows the pane with the captured entry
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	view := m.View()
	assert.Contains(t, view, "Logs", "expected log pane header")
	assert.Contains(t, view, "populated kinds=12", "expected the captured entry")
	assert.NotContains(t, view, "Dropout", "expected list panes replaced by the log pane")

	// esc returns to the browser
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.logs.Visible())
	assert.Contains(t, m.View(), "Registry", "expected browser view after closing the pane")
}

func TestBrowse_StatusBarAdvertisesLogPane(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := pubsub.NewBroker[string]()
	defer broker.Close()

	m := NewWithLogs(testEntries(), false, pubsub.NewContinuousListener(ctx, broker))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Contains(t, m.View(), "ctrl+x logs")

	plain := New(testEntries(), false)
	plain, _ = update(t, plain, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.NotContains(t, plain.View(), "ctrl+x logs")
}
