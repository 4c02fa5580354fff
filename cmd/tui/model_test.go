package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/search"
)

type stubSearcher struct {
	mu      sync.Mutex
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) *search.Response {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	return &search.Response{
		Query: query,
		Results: []search.Result{
			{Title: "The Go Programming Language", Link: "https://go.dev/"},
			{Title: "Go Packages", Link: "https://pkg.go.dev/"},
		},
	}
}

func newTestModel(t *testing.T) (Model, *stubSearcher) {
	t.Helper()
	searcher := &stubSearcher{}
	h, err := hub.New(searcher)
	require.NoError(t, err)
	return NewModel(context.Background(), h), searcher
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// runSearch presses key and feeds the finished search back into the model.
func runSearch(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	m, cmd := send(t, m, key)
	require.NotNil(t, cmd)
	require.True(t, m.searching)
	require.Contains(t, m.View(), "Searching...")

	msg := cmd()
	done, ok := msg.(searchDoneMsg)
	require.True(t, ok)
	m, _ = send(t, m, done)
	require.False(t, m.searching)
	return m
}

func TestSearchTab(t *testing.T) {
	m, searcher := newTestModel(t)

	m = typeText(t, m, "golang")
	m = runSearch(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{"golang"}, searcher.queries)
	require.NotNil(t, m.outcome)
	require.Len(t, m.outcome.Results, 2)
	require.Nil(t, m.notice)
	require.Equal(t, []string{"golang"}, m.state.History.List())

	view := m.View()
	require.Contains(t, view, "About 2 results")
	require.Contains(t, view, "1. The Go Programming Language")
	require.Contains(t, view, "Powered by DuckDuckGo")
}

func TestEmptyQueryWarns(t *testing.T) {
	m, searcher := newTestModel(t)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.NotNil(t, m.notice)
	require.Equal(t, "Please enter a search query.", m.notice.Message)
	require.Empty(t, searcher.queries)
	require.Contains(t, m.View(), "Please enter a search query.")
}

func TestNewsTabAppendsSuffix(t *testing.T) {
	m, searcher := newTestModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, TabNews, m.tab)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "Please enter a news search query.", m.notice.Message)

	m = typeText(t, m, "election")
	m = runSearch(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"election news"}, searcher.queries)
	require.Contains(t, m.View(), "About 2 news results")
	require.Contains(t, m.View(), "📰 Go Packages")
}

func TestLucky(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeText(t, m, "golang")
	m = runSearch(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})

	require.Len(t, m.outcome.Results, 1)
	require.Contains(t, m.View(), "Lucky Pick!")
	require.NotContains(t, m.View(), "Go Packages")
}

func TestHistoryRecall(t *testing.T) {
	m, _ := newTestModel(t)

	for _, q := range []string{"first", "second"} {
		m.input.SetValue("")
		m = typeText(t, m, q)
		m = runSearch(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	require.Equal(t, []string{"second", "first"}, m.state.History.List())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "second", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "first", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "first", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "second", m.input.Value())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "", m.input.Value())
}

func TestSettingsTab(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeText(t, m, "golang")
	m = runSearch(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, TabSettings, m.tab)
	require.Contains(t, m.View(), "1. golang")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, session.SafeSearchStrict, m.state.Settings.SafeSearch)
	require.Equal(t, "Settings saved.", m.notice.Message)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, session.SafeSearchOff, m.state.Settings.SafeSearch)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	require.Equal(t, 11, m.state.Settings.ResultsPerPage)
	for i := 0; i < 20; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	}
	require.Equal(t, session.MinResultsPerPage, m.state.Settings.ResultsPerPage)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Equal(t, "Search history cleared!", m.notice.Message)
	require.Empty(t, m.state.History.List())
	require.Contains(t, m.View(), "No search history available.")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.True(t, m.quitting)
	require.Contains(t, m.View(), "Goodbye")
}
