package core

// Phase names one state of the turn machine. A turn walks
// TurnStart -> RollDice -> Move -> ResolveTile -> (Minigame) -> EndTurn,
// then loops back to TurnStart for the next player or parks in the terminal
// GameEnd.
type Phase int

const (
	PhaseTurnStart Phase = iota
	PhaseRollDice
	PhaseMove
	PhaseResolveTile
	PhaseMinigame
	PhaseEndTurn
	PhaseGameEnd
)

// String returns the canonical phase name.
func (p Phase) String() string {
	switch p {
	case PhaseTurnStart:
		return "TURN_START"
	case PhaseRollDice:
		return "ROLL_DICE"
	case PhaseMove:
		return "MOVE"
	case PhaseResolveTile:
		return "RESOLVE_TILE"
	case PhaseMinigame:
		return "OPTIONAL_MINIGAME"
	case PhaseEndTurn:
		return "END_TURN"
	case PhaseGameEnd:
		return "GAME_END"
	default:
		return "UNKNOWN"
	}
}
