// Package tui is the terminal front end of searchhub.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/search"
)

// Tab is one page of the TUI.
type Tab int

const (
	// TabSearch searches the web
	TabSearch Tab = iota
	// TabNews searches news
	TabNews
	// TabImages searches images
	TabImages
	// TabSettings edits preferences and history
	TabSettings
)

var tabs = []Tab{TabSearch, TabNews, TabImages, TabSettings}

// Title is the tab label.
func (t Tab) Title() string {
	switch t {
	case TabNews:
		return "📰 News"
	case TabImages:
		return "🖼️ Images"
	case TabSettings:
		return "⚙️ Settings"
	default:
		return "🔍 Search"
	}
}

// Variant is the search variant of a search tab.
func (t Tab) Variant() search.Variant {
	switch t {
	case TabNews:
		return search.VariantNews
	case TabImages:
		return search.VariantImages
	default:
		return search.VariantWeb
	}
}

// searchDoneMsg carries a finished search back to the update loop.
type searchDoneMsg struct {
	tab     Tab
	state   *session.State
	outcome *hub.Outcome
}

// Model is the main TUI model following the Bubble Tea architecture
type Model struct {
	ctx   context.Context
	hub   *hub.Hub
	state *session.State

	tab     Tab
	input   textinput.Model
	spinner spinner.Model

	searching bool
	outcome   *hub.Outcome
	notice    *search.Notice

	// historyCursor walks the recent searches with up/down, -1 is the typed text
	historyCursor int

	width  int
	height int

	quitting bool
}

// keyMap defines the key bindings for the TUI
type keyMap struct {
	NextTab      key.Binding
	PrevTab      key.Binding
	Search       key.Binding
	Lucky        key.Binding
	HistoryUp    key.Binding
	HistoryDown  key.Binding
	SafeNext     key.Binding
	SafePrev     key.Binding
	MoreResults  key.Binding
	LessResults  key.Binding
	ClearHistory key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous tab"),
	),
	Search: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search"),
	),
	Lucky: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "I'm feeling lucky"),
	),
	HistoryUp: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "older search"),
	),
	HistoryDown: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "newer search"),
	),
	SafeNext: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "safe search"),
	),
	SafePrev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "safe search"),
	),
	MoreResults: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more results"),
	),
	LessResults: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "fewer results"),
	),
	ClearHistory: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear history"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// NewModel returns a model searching through h with a fresh session.
func NewModel(ctx context.Context, h *hub.Hub) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	input := textinput.New()
	input.CharLimit = 256
	input.Width = 60
	input.Prompt = "🔍 "
	input.PromptStyle = GetInputLabelStyle()
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = GetProgressStyle()

	m := Model{
		ctx:           ctx,
		hub:           h,
		state:         session.NewState(session.NewID()),
		tab:           TabSearch,
		input:         input,
		spinner:       sp,
		historyCursor: -1,
	}
	m.input.Placeholder = placeholder(m.tab)
	return m
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		m.searching = false
		m.state = msg.state
		if msg.tab == m.tab {
			m.outcome = msg.outcome
			m.notice = msg.outcome.Notice
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.NextTab):
		return m.switchTab(1), nil
	case key.Matches(msg, keys.PrevTab):
		return m.switchTab(len(tabs) - 1), nil
	}

	if m.tab == TabSettings {
		return m.handleSettingsKey(msg), nil
	}

	switch {
	case key.Matches(msg, keys.Search):
		return m.submit(false)
	case key.Matches(msg, keys.Lucky) && m.tab == TabSearch:
		return m.submit(true)
	case key.Matches(msg, keys.HistoryUp):
		return m.recall(1), nil
	case key.Matches(msg, keys.HistoryDown):
		return m.recall(-1), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) switchTab(step int) Model {
	m.tab = tabs[(int(m.tab)+step)%len(tabs)]
	m.outcome = nil
	m.notice = nil
	m.historyCursor = -1
	m.input.SetValue("")
	m.input.Placeholder = placeholder(m.tab)
	if m.tab == TabSettings {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
	return m
}

// recall moves through the recent searches, newest first.
func (m Model) recall(step int) Model {
	recent := m.state.History.List()
	if len(recent) == 0 {
		return m
	}

	m.historyCursor += step
	if m.historyCursor >= len(recent) {
		m.historyCursor = len(recent) - 1
	}
	if m.historyCursor < 0 {
		m.historyCursor = -1
		m.input.SetValue("")
		return m
	}

	m.input.SetValue(recent[m.historyCursor])
	m.input.CursorEnd()
	return m
}

// submit runs the search off the update loop on a copy of the session.
func (m Model) submit(lucky bool) (tea.Model, tea.Cmd) {
	if m.searching {
		return m, nil
	}

	req := hub.Request{
		Query:   m.input.Value(),
		Variant: m.tab.Variant(),
		Lucky:   lucky,
	}
	if strings.TrimSpace(req.Query) == "" {
		m.outcome = m.hub.Submit(m.ctx, m.state, req)
		m.notice = m.outcome.Notice
		return m, nil
	}

	m.searching = true
	m.notice = nil
	m.historyCursor = -1
	h, ctx, tab, st := m.hub, m.ctx, m.tab, m.state.Clone()
	return m, func() tea.Msg {
		out := h.Submit(ctx, st, req)
		return searchDoneMsg{tab: tab, state: st, outcome: out}
	}
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	if m.searching {
		// the running search will replace m.state
		return m
	}
	settings := m.state.Settings

	switch {
	case key.Matches(msg, keys.SafeNext):
		settings.SafeSearch = shiftSafeSearch(settings.SafeSearch, 1)
	case key.Matches(msg, keys.SafePrev):
		settings.SafeSearch = shiftSafeSearch(settings.SafeSearch, -1)
	case key.Matches(msg, keys.MoreResults):
		settings.ResultsPerPage++
	case key.Matches(msg, keys.LessResults):
		settings.ResultsPerPage--
	case key.Matches(msg, keys.ClearHistory):
		m.notice = m.hub.ClearHistory(m.state)
		return m
	default:
		return m
	}

	if settings.ResultsPerPage < session.MinResultsPerPage || settings.ResultsPerPage > session.MaxResultsPerPage {
		return m
	}
	m.notice, _ = m.hub.UpdateSettings(m.state, string(settings.SafeSearch), settings.ResultsPerPage)
	return m
}

func shiftSafeSearch(cur session.SafeSearch, step int) session.SafeSearch {
	levels := session.SafeSearchLevels
	idx := 0
	for i, lvl := range levels {
		if lvl == cur {
			idx = i
		}
	}
	idx = (idx + step + len(levels)) % len(levels)
	return levels[idx]
}

func placeholder(t Tab) string {
	switch t {
	case TabNews:
		return "Search for news..."
	case TabImages:
		return "Search for images..."
	default:
		return "Search the web..."
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return GetSubtitleStyle().Render("Goodbye! 👋\n")
	}

	sections := []string{
		GetTitleStyle().Render("SearchHub"),
		m.renderTabs(),
	}
	if m.tab == TabSettings {
		sections = append(sections, m.renderSettings())
	} else {
		sections = append(sections, m.renderSearch())
	}
	if m.notice != nil {
		sections = append(sections, renderNotice(m.notice))
	}
	sections = append(sections,
		GetHelpStyle().Render(m.helpLine()),
		GetStatusBarStyle().Render("SearchHub - Powered by DuckDuckGo"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == m.tab {
			rendered = append(rendered, GetSelectedMenuItemStyle().Render(t.Title()))
		} else {
			rendered = append(rendered, GetMenuItemStyle().Render(t.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderSearch() string {
	var sb strings.Builder
	sb.WriteString(m.input.View() + "\n")

	if m.tab == TabSearch && m.outcome == nil && !m.searching {
		if recent := m.state.History.List(); len(recent) > 0 {
			sb.WriteString("\n" + GetInputLabelStyle().Render("Recent Searches") + "\n")
			for _, q := range recent {
				sb.WriteString(GetCursorStyle().Render("🕐 ") + q + "\n")
			}
		}
	}

	if m.searching {
		sb.WriteString("\n" + m.spinner.View() + " Searching...\n")
		return GetBoxStyle().Render(sb.String())
	}

	if m.outcome != nil && len(m.outcome.Results) > 0 {
		sb.WriteString("\n" + GetSubtitleStyle().Render(statsLine(m.tab, m.outcome.Total)) + "\n")
		for i, r := range m.outcome.Results {
			sb.WriteString("\n" + GetSuccessStyle().Render(resultTitle(m.tab, i, r.Title)) + "\n")
			sb.WriteString("   🔗 " + r.Link + "\n")
		}
		if m.outcome.Request.Lucky {
			sb.WriteString("\n" + GetSuccessStyle().Render("Lucky Pick!") + " Opening: " + m.outcome.Results[0].Link + "\n")
		}
	}

	return GetBoxStyle().Render(sb.String())
}

func (m Model) renderSettings() string {
	var sb strings.Builder
	sb.WriteString(GetInputLabelStyle().Render("Search Preferences") + "\n")
	sb.WriteString(fmt.Sprintf("Safe Search:      ← %s →\n", m.state.Settings.SafeSearch.Label()))
	sb.WriteString(fmt.Sprintf("Results per page: - %d + (%d-%d)\n",
		m.state.Settings.ResultsPerPage, session.MinResultsPerPage, session.MaxResultsPerPage))

	sb.WriteString("\n" + GetInputLabelStyle().Render("Search History") + "\n")
	recent := m.state.History.List()
	if len(recent) == 0 {
		sb.WriteString(GetSubtitleStyle().Render("No search history available.") + "\n")
	} else {
		sb.WriteString("Current History:\n")
		for i, q := range recent {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
		}
	}

	return GetBoxStyle().Render(sb.String())
}

func (m Model) helpLine() string {
	switch m.tab {
	case TabSettings:
		return "←/→ safe search • +/- results per page • c clear history • tab switch • esc quit"
	case TabSearch:
		return "enter search • ctrl+l lucky • ↑/↓ recent • tab switch • esc quit"
	default:
		return "enter search • ↑/↓ recent • tab switch • esc quit"
	}
}

func renderNotice(n *search.Notice) string {
	switch n.Level {
	case search.NoticeError:
		return GetErrorStyle().Render("❌ " + n.Message)
	case search.NoticeSuccess:
		return GetSuccessStyle().Render("✅ " + n.Message)
	case search.NoticeWarning:
		return GetWarningStyle().Render("⚠️ " + n.Message)
	default:
		return GetSubtitleStyle().Render(n.Message)
	}
}

func statsLine(t Tab, total int) string {
	switch t {
	case TabNews:
		return fmt.Sprintf("About %d news results", total)
	case TabImages:
		return fmt.Sprintf("About %d image results", total)
	default:
		return fmt.Sprintf("About %d results", total)
	}
}

func resultTitle(t Tab, i int, title string) string {
	switch t {
	case TabNews:
		return "📰 " + title
	case TabImages:
		return "🖼️ " + title
	default:
		return fmt.Sprintf("%d. %s", i+1, title)
	}
}
