package multiplayer

import (
	"sync"
	"time"
)

// TurnBasedGame is the interface games must implement to support online play.
// The match owns the authoritative game state; sessions only relay commands.
type TurnBasedGame interface {
	// Apply handles one command from the given player. Commands from the
	// waiting player, or commands illegal in the current phase, return an
	// error and leave the game unchanged.
	Apply(player PlayerID, cmd TurnCommand) error

	// AutoAdvance forces progress when the active player misses the turn
	// deadline. Pending rolls happen automatically and open minigames are
	// recorded as failed.
	AutoAdvance()

	// ActivePlayer returns the side whose turn it is.
	ActivePlayer() PlayerID

	// Snapshot returns the current game state for network transmission.
	Snapshot() GameSnapshot

	// IsGameOver returns true if the game has ended.
	IsGameOver() bool

	// Winner returns the winning player (Player1/Player2) or 0 on a tie.
	Winner() PlayerID

	// Score1 returns Player 1's score.
	Score1() int

	// Score2 returns Player 2's score.
	Score2() int
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// OnlineMatch represents an active online match between two sessions.
// All game access happens on the Run goroutine; commands and disconnects
// arrive over channels, so the game itself needs no locking.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   TurnBasedGame

	player1Session SessionHandle
	player2Session SessionHandle

	cmdChan chan playerCommand

	// Match state
	tick      uint64
	tickRate  int
	turnTicks int // Deadline length for one turn, in ticks
	ticksLeft int
	done      chan struct{}
	doneOnce  sync.Once

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerCommand struct {
	player PlayerID
	cmd    TurnCommand
}

// NewOnlineMatch creates a new online match.
// turnTimeout bounds how long the active player may sit on their turn
// before the match auto-advances for them.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game TurnBasedGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
	turnTimeout time.Duration,
) *OnlineMatch {
	if tickRate < 1 {
		tickRate = 10
	}
	turnTicks := int(turnTimeout.Seconds() * float64(tickRate))
	if turnTicks < 1 {
		turnTicks = 1
	}
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		cmdChan:        make(chan playerCommand, 64),
		tick:           0,
		tickRate:       tickRate,
		turnTicks:      turnTicks,
		ticksLeft:      turnTicks,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// SendCommand relays a turn command to the match.
// Non-blocking, uses a buffered channel.
func (m *OnlineMatch) SendCommand(player PlayerID, cmd TurnCommand) {
	select {
	case m.cmdChan <- playerCommand{player: player, cmd: cmd}:
	default:
		// Channel full, drop command (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	tickDuration := time.Second / time.Duration(m.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	// Monitor session disconnects
	go m.monitorSessions()

	// Initial snapshot so both clients render the opening board
	m.broadcast()

	for {
		select {
		case <-ticker.C:
			m.tick++
			m.ticksLeft--
			if m.ticksLeft <= 0 {
				m.game.AutoAdvance()
				m.resetDeadline()
			}
			m.broadcast()
			if result, over := m.completedResult(); over {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case pc := <-m.cmdChan:
			if err := m.game.Apply(pc.player, pc.cmd); err != nil {
				// Out-of-turn or illegal command, ignore
				continue
			}
			m.resetDeadline()
			m.broadcast()
			if result, over := m.completedResult(); over {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

// resetDeadline restarts the turn countdown. Called after every applied
// command and every auto-advance, so slow stretches within one turn
// (reading a question, watching the pawn move) each get the full window.
func (m *OnlineMatch) resetDeadline() {
	m.ticksLeft = m.turnTicks
}

func (m *OnlineMatch) broadcast() {
	evt := SnapshotEvent{
		MatchID:       m.id,
		Tick:          m.tick,
		TurnTicksLeft: m.ticksLeft,
		Snapshot:      m.game.Snapshot(),
	}
	m.player1Session.Send(evt)
	m.player2Session.Send(evt)
}

func (m *OnlineMatch) completedResult() (MatchResult, bool) {
	if !m.game.IsGameOver() {
		return MatchResult{}, false
	}
	return MatchResult{
		MatchID: m.id,
		Reason:  MatchEndReasonCompleted,
		Winner:  m.game.Winner(),
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}, true
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	var winner PlayerID

	if sessionID == m.player1Session.ID() {
		winner = Player2
	} else {
		winner = Player1
	}

	return MatchResult{
		MatchID: m.id,
		Reason:  MatchEndReasonDisconnect,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		select {
		case m.disconnectChan <- m.player1Session.ID():
		default:
		}
	case <-m.player2Session.Done():
		select {
		case m.disconnectChan <- m.player2Session.ID():
		default:
		}
	case <-m.done:
	}
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
