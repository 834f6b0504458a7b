package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tabletop/internal/core"
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun"
	"github.com/vovakirdan/tui-tabletop/internal/multiplayer"
)

// OnlineMatchModel is the client side of an online match. It has no
// simulation loop of its own: the coordinator pushes snapshots and this
// model relays key presses back as turn commands.
type OnlineMatchModel struct {
	width        int
	height       int
	screen       *core.Screen
	sessionID    multiplayer.SessionID
	coordinator  *multiplayer.Coordinator
	eventChan    <-chan multiplayer.SessionEvent
	turnTickRate int // Coordinator ticks per second, for countdown display

	matchID multiplayer.MatchID
	side    multiplayer.PlayerID

	snap          tilerun.Snapshot
	hasSnap       bool
	turnTicksLeft int

	ended         bool
	endReason     multiplayer.MatchEndReason
	score1        int
	score2        int
	rematchSent   bool
	opponentReady bool
	opponentLeft  bool

	backToMenu bool
	quitting   bool
}

// NewOnlineMatchModel creates the client model for a started match.
func NewOnlineMatchModel(
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	matchID multiplayer.MatchID,
	side multiplayer.PlayerID,
	turnTickRate int,
	width, height int,
) OnlineMatchModel {
	return OnlineMatchModel{
		width:        width,
		height:       height,
		screen:       core.NewScreen(width, height),
		sessionID:    sessionID,
		coordinator:  coordinator,
		eventChan:    eventChan,
		turnTickRate: turnTickRate,
		matchID:      matchID,
		side:         side,
	}
}

// Init starts listening for coordinator events.
func (m OnlineMatchModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m OnlineMatchModel) waitForEvent() tea.Cmd {
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

// mySeat returns the zero-based seat this client controls.
func (m OnlineMatchModel) mySeat() int {
	return int(m.side) - 1
}

// myTurn reports whether the latest snapshot puts this client on the clock.
func (m OnlineMatchModel) myTurn() bool {
	return m.hasSnap && m.snap.ActiveSeat == m.mySeat()
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case multiplayer.SnapshotEvent:
		if msg.MatchID != m.matchID {
			return m, m.waitForEvent()
		}
		if snap, ok := msg.Snapshot.(tilerun.Snapshot); ok {
			m.snap = snap
			m.hasSnap = true
			m.turnTicksLeft = msg.TurnTicksLeft
		}
		return m, m.waitForEvent()

	case multiplayer.MatchEndedEvent:
		m.ended = true
		m.endReason = msg.Reason
		m.score1 = msg.Score1
		m.score2 = msg.Score2
		return m, m.waitForEvent()

	case multiplayer.RematchReadyEvent:
		if msg.Side != m.side {
			m.opponentReady = true
		}
		return m, m.waitForEvent()

	case multiplayer.MatchStartedEvent:
		// Rematch: same opponent, fresh match
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.ended = false
		m.rematchSent = false
		m.opponentReady = false
		m.hasSnap = false
		m.turnTicksLeft = 0
		return m, m.waitForEvent()

	case multiplayer.LobbyPlayerLeftEvent:
		m.opponentLeft = true
		return m, m.waitForEvent()

	case multiplayer.SessionEvent:
		// Drop anything else but keep listening
		return m, m.waitForEvent()
	}

	return m, nil
}

// handleKey relays input as turn commands.
func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		m.leaveMatch()
		m.quitting = true
		return m, tea.Quit
	case "esc", "b":
		m.leaveMatch()
		m.backToMenu = true
		return m, nil
	}

	if m.ended || (m.hasSnap && m.snap.Phase == tilerun.SnapGameOver) {
		if (key == " " || key == "enter") && !m.rematchSent && !m.opponentLeft {
			m.coordinator.Send(multiplayer.ReadyForRematchMsg{
				SessionID: m.sessionID,
				MatchID:   m.matchID,
			})
			m.rematchSent = true
		}
		return m, nil
	}

	if !m.myTurn() {
		return m, nil
	}

	switch m.snap.Phase {
	case tilerun.SnapWaitRoll:
		if key == " " || key == "enter" {
			m.sendCommand(multiplayer.TurnCommand{Kind: multiplayer.CommandRoll, Answer: -1})
		}
	case tilerun.SnapTrivia:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '4' {
			idx := int(key[0] - '1')
			if idx < m.snap.OptionCount {
				m.sendCommand(multiplayer.TurnCommand{Kind: multiplayer.CommandAnswer, Answer: idx})
			}
		}
	case tilerun.SnapResolved, tilerun.SnapTriviaResult:
		if key == " " || key == "enter" {
			m.sendCommand(multiplayer.TurnCommand{Kind: multiplayer.CommandContinue, Answer: -1})
		}
	}

	return m, nil
}

func (m OnlineMatchModel) sendCommand(cmd multiplayer.TurnCommand) {
	m.coordinator.Send(multiplayer.TurnCommandMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Command: cmd,
	})
}

func (m OnlineMatchModel) leaveMatch() {
	m.coordinator.Send(multiplayer.LeaveMatchMsg{
		SessionID: m.sessionID,
		MatchID:   m.matchID,
	})
}

// View renders the latest snapshot, or a waiting/ended screen.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	if m.ended && m.endReason != multiplayer.MatchEndReasonCompleted {
		return m.viewEndedAbnormally()
	}

	if !m.hasSnap {
		var b strings.Builder
		b.WriteString("\n\n")
		b.WriteString(centerText("Waiting for game state...", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Esc: Back to menu", m.width))
		return b.String()
	}

	tilerun.RenderSnapshot(m.screen, m.snap, m.mySeat())
	m.overlayStatus()
	return RenderScreen(m.screen)
}

// overlayStatus draws rematch state and the turn clock on top of the board.
func (m OnlineMatchModel) overlayStatus() {
	if m.snap.Phase == tilerun.SnapGameOver {
		if m.opponentLeft {
			m.screen.DrawTextCenteredWithColor(m.screen.Height()-1, "Opponent left, no rematch possible", core.ColorBrightRed)
		} else if m.rematchSent {
			m.screen.DrawTextCenteredWithColor(m.screen.Height()-1, "Waiting for opponent to accept...", core.ColorBrightYellow)
		} else if m.opponentReady {
			m.screen.DrawTextCenteredWithColor(m.screen.Height()-1, "Opponent wants a rematch! Space: Accept", core.ColorBrightGreen)
		}
		return
	}

	if m.turnTickRate > 0 && m.turnTicksLeft > 0 {
		secs := m.turnTicksLeft / m.turnTickRate
		label := fmt.Sprintf("Turn clock: %ds ", secs)
		color := core.ColorGray
		if secs <= 10 {
			color = core.ColorBrightRed
		}
		m.screen.DrawTextWithColor(m.screen.Width()-len(label)-1, m.screen.Height()-2, label, color)
	}
}

func (m OnlineMatchModel) viewEndedAbnormally() string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(centerText("MATCH ENDED", m.width))
	b.WriteString("\n\n")

	reason := "The match was cancelled."
	if m.endReason == multiplayer.MatchEndReasonDisconnect {
		reason = "Your opponent disconnected."
	}
	b.WriteString(centerText(reason, m.width))
	b.WriteString("\n\n")

	mine, theirs := m.score1, m.score2
	if m.side == multiplayer.Player2 {
		mine, theirs = theirs, mine
	}
	b.WriteString(centerText(fmt.Sprintf("Final score: you %d, opponent %d", mine, theirs), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back to menu", m.width))

	return b.String()
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}
