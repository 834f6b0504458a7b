package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tabletop/internal/registry"
	"github.com/vovakirdan/tui-tabletop/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the sidebar
	sidebarWidth       = 22 // Width of the view/stats sidebar
	maxHistoryRows     = 100
)

// HistoryView selects which archive table is shown.
type HistoryView int

const (
	HistoryViewMatches HistoryView = iota // Recent local matches
	HistoryViewPlayers                    // Per-player tallies
	HistoryViewOnline                     // Online match results
)

// String returns the tab label for the view.
func (v HistoryView) String() string {
	switch v {
	case HistoryViewMatches:
		return "Matches"
	case HistoryViewPlayers:
		return "Players"
	case HistoryViewOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// HistoryKeyMap defines the key bindings for the match history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Left, k.Right, k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev game"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next game"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing archived matches.
type HistoryModel struct {
	games      []registry.GameInfo
	gameCursor int
	view       HistoryView
	store      *storage.Store
	stats      *storage.GameStats

	matches []storage.MatchRecord
	tallies []storage.PlayerTally
	online  []storage.OnlineMatchResult

	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a new match history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	keys := DefaultHistoryKeyMap()
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		games:       registry.List(),
		store:       store,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.loadData()

	return m
}

// gameID returns the currently selected game, or "" when none registered.
func (m *HistoryModel) gameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// createTable creates a table with columns for the current view.
func (m *HistoryModel) createTable() table.Model {
	var columns []table.Column
	switch m.view {
	case HistoryViewPlayers:
		columns = []table.Column{
			{Title: "Player", Width: 14},
			{Title: "Matches", Width: 8},
			{Title: "Wins", Width: 6},
			{Title: "Best", Width: 6},
		}
	case HistoryViewOnline:
		columns = []table.Column{
			{Title: "When", Width: 13},
			{Title: "Players", Width: 19},
			{Title: "Score", Width: 7},
			{Title: "Result", Width: 10},
		}
	default:
		columns = []table.Column{
			{Title: "When", Width: 13},
			{Title: "Preset", Width: 9},
			{Title: "Winner", Width: 11},
			{Title: "Top", Width: 5},
			{Title: "Turns", Width: 6},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-8), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadData loads rows and the stats block for the current game and view.
func (m *HistoryModel) loadData() {
	m.matches = nil
	m.tallies = nil
	m.online = nil
	m.stats = nil

	if m.store != nil && m.gameID() != "" {
		switch m.view {
		case HistoryViewPlayers:
			if tallies, err := m.store.PlayerTallies(m.gameID(), maxHistoryRows); err == nil {
				m.tallies = tallies
			}
		case HistoryViewOnline:
			if online, err := m.store.RecentOnlineMatches(maxHistoryRows); err == nil {
				m.online = online
			}
		default:
			if matches, err := m.store.RecentMatches(m.gameID(), maxHistoryRows); err == nil {
				m.matches = matches
			}
		}
		if stats, err := m.store.GetGameStats(m.gameID()); err == nil {
			m.stats = stats
		}
	}

	m.updateTableRows()
}

// updateTableRows fills the table for the current view.
func (m *HistoryModel) updateTableRows() {
	var rows []table.Row

	switch m.view {
	case HistoryViewPlayers:
		rows = make([]table.Row, len(m.tallies))
		for i, t := range m.tallies {
			rows[i] = table.Row{
				t.Name,
				fmt.Sprintf("%d", t.Matches),
				fmt.Sprintf("%d", t.Wins),
				fmt.Sprintf("%d", t.BestScore),
			}
		}

	case HistoryViewOnline:
		rows = make([]table.Row, len(m.online))
		for i, o := range m.online {
			result := o.EndReason
			if o.WinnerSession != "" {
				result = sessionUser(o.WinnerSession) + " won"
			}
			rows[i] = table.Row{
				o.CreatedAt.Format("Jan 02 15:04"),
				fmt.Sprintf("%s vs %s", sessionUser(o.Player1Session), sessionUser(o.Player2Session)),
				fmt.Sprintf("%d-%d", o.Score1, o.Score2),
				result,
			}
		}

	default:
		rows = make([]table.Row, len(m.matches))
		for i, rec := range m.matches {
			winner := rec.Winner
			if winner == "" {
				winner = "tie"
			}
			top := 0
			for _, p := range rec.Players {
				if p.Score > top {
					top = p.Score
				}
			}
			rows[i] = table.Row{
				rec.CreatedAt.Format("Jan 02 15:04"),
				rec.Preset,
				winner,
				fmt.Sprintf("%d", top),
				fmt.Sprintf("%d", rec.Turns),
			}
		}
	}

	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// sessionUser strips the timestamp suffix from a session ID for display.
func sessionUser(sessionID string) string {
	if i := strings.LastIndex(sessionID, "-"); i > 0 {
		sessionID = sessionID[:i]
	}
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return sessionID
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % 3
			m.table = m.createTable()
			m.loadData()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.view = (m.view + 2) % 3
			m.table = m.createTable()
			m.loadData()
			return m, nil

		case key.Matches(msg, m.keys.Right):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadData()
			}
			return m, nil

		case key.Matches(msg, m.keys.Left):
			if len(m.games) > 0 {
				m.gameCursor--
				if m.gameCursor < 0 {
					m.gameCursor = len(m.games) - 1
				}
				m.loadData()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "MATCH HISTORY"
	if len(m.games) > 0 {
		title = fmt.Sprintf("MATCH HISTORY - %s", m.games[m.gameCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: view tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the view list and stats next to the table.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for v := HistoryViewMatches; v <= HistoryViewOnline; v++ {
		cursor := "  "
		style := lipgloss.NewStyle()
		if v == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + v.String()))
		sidebar.WriteString("\n")
	}

	if m.stats != nil && m.stats.Matches > 0 {
		sidebar.WriteString("\nStats\n")
		sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
		sidebar.WriteString("\n")
		sidebar.WriteString(fmt.Sprintf("Matches  %d\n", m.stats.Matches))
		sidebar.WriteString(fmt.Sprintf("Best     %d\n", m.stats.HighScore))
		sidebar.WriteString(fmt.Sprintf("Avg win  %.1f\n", m.stats.AvgWinning))
		sidebar.WriteString("Last     " + m.stats.LastPlayed.Format("Jan 02") + "\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableContent := m.renderTableContent()
	tableRendered := tableStyle.Render(tableContent)

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders view tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, 3)
	for v := HistoryViewMatches; v <= HistoryViewOnline; v++ {
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(" "+v.String()+" "))
		}
	}

	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	empty := false
	switch m.view {
	case HistoryViewPlayers:
		empty = len(m.tallies) == 0
	case HistoryViewOnline:
		empty = len(m.online) == 0
	default:
		empty = len(m.matches) == 0
	}

	if empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("Nothing recorded yet.\nFinish a match to fill this table!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunMatchHistory runs the match history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunMatchHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
