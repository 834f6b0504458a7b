package core

// The turn state machine. Every operation below checks the current phase
// first and returns an IllegalTransitionError when called out of order;
// a wrong-order call is a bug in the driving layer and must surface
// immediately rather than no-op.

// StartTurn opens the current seat's turn. Legal only from TurnStart.
// If the round counter has already passed the configured maximum the match
// ends here; otherwise the machine advances to RollDice and waits for the
// dice call. Drivers may skip StartTurn entirely and call RollDice straight
// from TurnStart; this operation exists so a UI can announce the turn before
// any dice are drawn.
func (m *Match) StartTurn() error {
	if m.phase != PhaseTurnStart {
		return &IllegalTransitionError{Op: "StartTurn", Phase: m.phase}
	}
	if m.turn > m.rules.MaxTurns {
		m.transition(PhaseGameEnd)
		return nil
	}
	m.transition(PhaseRollDice)
	return nil
}

// RollDice draws the current seat's movement roll. Legal from TurnStart or
// RollDice. Consumes exactly one RNG draw, records it as the turn's roll and
// advances to Move.
func (m *Match) RollDice() (int, error) {
	if m.phase != PhaseTurnStart && m.phase != PhaseRollDice {
		return 0, &IllegalTransitionError{Op: "RollDice", Phase: m.phase}
	}
	roll := m.rng.IntBetween(m.rules.DiceMin, m.rules.DiceMax)
	m.lastRoll = roll
	m.rolled = true
	m.transition(PhaseMove)
	return roll, nil
}

// MovePawn commits the current seat's movement: position advances by the
// recorded roll, wrapping around the loop, and the machine enters
// ResolveTile. Legal only from Move, and only after a roll has been recorded
// this turn.
//
// onMoved, if non-nil, is invoked with the new position before the
// transition. It is a notification hook for animation wiring, not a gate:
// the position update and the transition happen either way. A driver that
// wants to animate before resolution simply delays its ResolveTile call.
func (m *Match) MovePawn(onMoved func(position int)) error {
	if m.phase != PhaseMove {
		return &IllegalTransitionError{Op: "MovePawn", Phase: m.phase}
	}
	if !m.rolled {
		return &InvariantViolationError{Reason: "MovePawn called with no dice roll recorded"}
	}
	p := &m.players[m.current]
	p.Position = (p.Position + m.lastRoll) % m.rules.TrackLength
	if onMoved != nil {
		onMoved(p.Position)
	}
	m.transition(PhaseResolveTile)
	return nil
}

// TransitionToResolveTile enters ResolveTile without touching any state, for
// drivers that sequence the phase change separately from the movement
// commit. Legal only from Move.
func (m *Match) TransitionToResolveTile() error {
	if m.phase != PhaseMove {
		return &IllegalTransitionError{Op: "TransitionToResolveTile", Phase: m.phase}
	}
	m.transition(PhaseResolveTile)
	return nil
}

// ResolveTile applies the landed-on tile's effect. Legal only from
// ResolveTile. For scoring tiles the delta is recorded as pending, added to
// the seat's score, and the machine advances to EndTurn. For a minigame tile
// nothing is scored yet: the machine parks in Minigame, indefinitely, until
// CompleteMinigame delivers the external outcome. The landed tile is
// returned either way so the driver can narrate it.
func (m *Match) ResolveTile() (Tile, error) {
	if m.phase != PhaseResolveTile {
		return Tile{}, &IllegalTransitionError{Op: "ResolveTile", Phase: m.phase}
	}
	tile := m.tiles[m.players[m.current].Position]

	m.pendingDelta = 0
	m.hasPending = false

	effect := resolveTileEffect(tile.Kind, m.rng, m.rules)
	if effect.Minigame {
		m.transition(PhaseMinigame)
		return tile, nil
	}

	m.pendingDelta = effect.Delta
	m.hasPending = true
	m.players[m.current].Score += effect.Delta
	m.transition(PhaseEndTurn)
	return tile, nil
}

// CompleteMinigame delivers the external minigame outcome and scores it:
// success awards the configured points, failure awards zero (still recorded
// as a pending delta of zero). Legal only from Minigame. The engine has no
// timeout of its own; a driver that needs one calls this with false when its
// clock runs out.
func (m *Match) CompleteMinigame(success bool) error {
	if m.phase != PhaseMinigame {
		return &IllegalTransitionError{Op: "CompleteMinigame", Phase: m.phase}
	}
	delta := minigameDelta(success, m.rules)
	m.pendingDelta = delta
	m.hasPending = true
	m.minigameWon = success
	m.minigameDone = true
	m.players[m.current].Score += delta
	m.transition(PhaseEndTurn)
	return nil
}

// EndTurn closes the turn: the turn-scoped fields are cleared so nothing
// leaks into the next seat's turn, play passes to the next seat, and the
// round counter increments when play wraps back to seat 0. Legal only from
// EndTurn. When the counter passes the configured maximum the machine parks
// in the terminal GameEnd; otherwise it re-enters TurnStart for the new
// current seat.
func (m *Match) EndTurn() error {
	if m.phase != PhaseEndTurn {
		return &IllegalTransitionError{Op: "EndTurn", Phase: m.phase}
	}

	m.current = (m.current + 1) % len(m.players)
	if m.current == 0 {
		m.turn++
	}

	m.lastRoll = 0
	m.rolled = false
	m.pendingDelta = 0
	m.hasPending = false
	m.minigameWon = false
	m.minigameDone = false

	if m.turn > m.rules.MaxTurns {
		m.transition(PhaseGameEnd)
	} else {
		m.transition(PhaseTurnStart)
	}
	return nil
}

// ForceState jumps the machine straight to the given phase with no legality
// checks, no field updates and no listener notification.
//
// Test harnesses only. It exists so tests can reach deep states without
// replaying whole turns; calling it from production code voids every
// invariant the operations above enforce.
func (m *Match) ForceState(p Phase) {
	m.phase = p
}
