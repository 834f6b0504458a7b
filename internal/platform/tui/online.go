package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tabletop/internal/multiplayer"
)

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateMatchStarting                    // Match is starting
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
)

// OnlineLobbyModel handles the online matchmaking flow.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	gameID      string
	gameTitle   string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Match state
	matchID    multiplayer.MatchID
	side       multiplayer.PlayerID
	opponentID multiplayer.SessionID

	// Result state
	backToMenu bool
	quitting   bool

	// For receiving events from coordinator
	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	gameID, gameTitle string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		gameID:      gameID,
		gameTitle:   gameTitle,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m OnlineLobbyModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, m.waitForEvent()
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentID = msg.OpponentID
		return m, m.waitForEvent()
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
		return m, m.waitForEvent()
	case multiplayer.LobbyPlayerLeftEvent:
		// If in host waiting state and joiner left, stay waiting
		return m, m.waitForEvent()
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.state = OnlineStateInMatch
		return m, nil // Exit to start game
	case multiplayer.MatchEndedEvent:
		m.state = OnlineStateMatchEnded
		return m, nil
	case multiplayer.SessionEvent:
		// Drop anything else but keep listening
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global quit
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "h", "H", "1":
		// Host
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
		return m, m.waitForEvent()
	case "j", "J", "2":
		// Join
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Cancel lobby
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.backToMenu = true
		return m, nil
	case "q":
		// Cancel and quit
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
			return m, m.waitForEvent()
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Accept alphanumeric input for code
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Leave lobby attempt
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.joinCodeInput,
		})
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.state {
	case OnlineStateChooseMode:
		b.WriteString(m.viewChooseMode())
	case OnlineStateHostWaiting:
		b.WriteString(m.viewHostWaiting())
	case OnlineStateJoinEnterCode:
		b.WriteString(m.viewJoinEnterCode())
	case OnlineStateJoinWaiting:
		b.WriteString(m.viewJoinWaiting())
	case OnlineStateMatchStarting:
		b.WriteString(m.viewMatchStarting())
	}

	return b.String()
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE "+strings.ToUpper(m.gameTitle), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose an option:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a game", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the game code:", m.width))
	b.WriteString("\n\n")

	// Display code input with cursor
	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < 6 {
		codeDisplay += "_"
		codeDisplay += strings.Repeat(" ", 5-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining game: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewMatchStarting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("MATCH STARTING", m.width))
	b.WriteString("\n\n")

	sideText := "Player 1 (host)"
	if m.side == multiplayer.Player2 {
		sideText = "Player 2"
	}
	b.WriteString(centerText(fmt.Sprintf("You are: %s", sideText), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Get ready!", m.width))

	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side (P1/P2) this session plays.
func (m OnlineLobbyModel) Side() multiplayer.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}
