// Package multiplayer provides session and match abstractions for online play.
// Hotseat matches run entirely inside one session; online matches pair two
// SSH sessions through a lobby and relay turn commands between them.
package multiplayer

// PlayerID identifies a side in a two-session online match.
// Player1 is always the lobby host, Player2 the joiner. The zero value
// means "no player" (used for draws and disconnects).
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// String returns a human-readable name for the player side.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "Nobody"
	}
}

// SessionID uniquely identifies a player's session (e.g., SSH connection).
// Used to track individual connections and potentially pair them for matches.
type SessionID string

// MatchID uniquely identifies a game match.
// A match can involve one or more sessions depending on mode.
type MatchID string

// MatchMode defines how a game match is configured.
type MatchMode int

const (
	// MatchModeHotseat is a local match where all seats share one keyboard.
	MatchModeHotseat MatchMode = iota

	// MatchModeOnlinePvP pairs two sessions over the network, host vs joiner.
	MatchModeOnlinePvP
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeHotseat:
		return "Hotseat"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// CommandKind discriminates the turn commands a session can relay.
type CommandKind int

const (
	// CommandRoll starts or advances the active player's turn
	// (start turn, roll the dice, move, resolve).
	CommandRoll CommandKind = iota + 1

	// CommandAnswer submits a minigame answer.
	CommandAnswer

	// CommandContinue acknowledges a resolved tile and ends the turn.
	CommandContinue
)

// String returns a human-readable name for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandRoll:
		return "Roll"
	case CommandAnswer:
		return "Answer"
	case CommandContinue:
		return "Continue"
	default:
		return "Unknown"
	}
}

// TurnCommand is one discrete action relayed from a session to a match.
// Commands are small and self-describing so the relay never needs to know
// game rules; the authoritative match applies them against the engine.
type TurnCommand struct {
	Kind CommandKind

	// Answer is the zero-based option index for CommandAnswer, -1 otherwise.
	Answer int
}

// MatchHandle provides access to match metadata.
// Games receive this to know their context without managing match lifecycle.
type MatchHandle interface {
	// ID returns the unique identifier for this match.
	ID() MatchID

	// Mode returns how this match is configured.
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
// Platform creates matches and passes handles to games.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	// For Hotseat: one session. For OnlinePvP: two sessions.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
