// Package core implements the deterministic turn engine for Tile Run:
// seeded randomness, track generation, per-seat scoring and the turn state
// machine. It is UI-agnostic and fully synchronous; everything asynchronous
// (animation, the minigame, network relay) lives in the layers that drive it.
//
// A Match must only ever be driven by one goroutine at a time. The engine
// holds no locks because it has no concurrency of its own: callers sequence
// their async work between calls.
package core

import (
	"fmt"
	"sort"
)

// Match is the complete state of one game plus the machine that mutates it.
// Construct with NewMatch, drive with the operation methods in machine.go,
// inspect through the query methods below. All mutation goes through the
// operations; the queries hand out copies.
type Match struct {
	rules   Rules
	seed    int64
	rng     *RNG
	players []Player
	tiles   []Tile

	phase   Phase
	current int // Index of the player whose turn it is
	turn    int // 1-based round counter

	// Turn-scoped fields, reset by EndTurn so nothing leaks between turns.
	lastRoll     int
	rolled       bool
	pendingDelta int
	hasPending   bool
	minigameWon  bool
	minigameDone bool

	onPhaseChange func(Phase)
}

// NewMatch validates the ruleset and roster, generates the track and returns
// a match parked in TurnStart for the first seat. Seed 0 means "mint one":
// a fresh high-entropy seed is drawn and exposed via Seed so the match can
// still be replayed.
//
// Roster entries contribute Name and Team; IDs are assigned in seat order
// and scores and positions start at zero. Seat order is turn order.
func NewMatch(seed int64, roster []Player, rules Rules) (*Match, error) {
	if len(roster) == 0 {
		return nil, &ConfigurationError{Reason: "player roster is empty"}
	}
	rules = rules.Clone()
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	if seed == 0 {
		seed = NewSeed()
	}
	rng := NewRNG(seed)

	tiles, err := GenerateTrack(rng, rules)
	if err != nil {
		return nil, err
	}

	players := make([]Player, len(roster))
	for i, p := range roster {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players[i] = Player{ID: i, Name: name, Team: p.Team}
	}

	return &Match{
		rules:   rules,
		seed:    seed,
		rng:     rng,
		players: players,
		tiles:   tiles,
		phase:   PhaseTurnStart,
		turn:    1,
	}, nil
}

// SetPhaseListener registers the callback invoked with the new phase after
// every transition. Pass nil to unsubscribe. The callback runs synchronously
// inside the operation that caused the transition, so it must not call back
// into the match.
func (m *Match) SetPhaseListener(fn func(Phase)) {
	m.onPhaseChange = fn
}

// transition is the single place the phase field changes outside ForceState.
func (m *Match) transition(to Phase) {
	m.phase = to
	if m.onPhaseChange != nil {
		m.onPhaseChange(to)
	}
}

// Phase returns the machine's current state.
func (m *Match) Phase() Phase {
	return m.phase
}

// Seed returns the seed this match was built from (the minted one if the
// caller passed 0).
func (m *Match) Seed() int64 {
	return m.seed
}

// Rules returns a copy of the active ruleset.
func (m *Match) Rules() Rules {
	return m.rules.Clone()
}

// TurnNumber returns the 1-based round counter. It increments once the last
// seat finishes its turn.
func (m *Match) TurnNumber() int {
	return m.turn
}

// CurrentPlayerIndex returns the seat whose turn it is.
func (m *Match) CurrentPlayerIndex() int {
	return m.current
}

// CurrentPlayer returns a copy of the seat whose turn it is.
func (m *Match) CurrentPlayer() Player {
	return m.players[m.current]
}

// PlayerCount returns the number of seats.
func (m *Match) PlayerCount() int {
	return len(m.players)
}

// Players returns a copy of every seat in turn order.
func (m *Match) Players() []Player {
	return clonePlayers(m.players)
}

// Tiles returns a copy of the generated track.
func (m *Match) Tiles() []Tile {
	out := make([]Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// TileAt returns the tile at the given track index.
// Panics if index is outside [0, TrackLength).
func (m *Match) TileAt(index int) Tile {
	return m.tiles[index]
}

// LastRoll returns the current turn's dice roll, if one has been made.
func (m *Match) LastRoll() (int, bool) {
	return m.lastRoll, m.rolled
}

// PendingDelta returns the not-yet-narrated score change from the most
// recently resolved tile. A failed minigame reports (0, true): a delta of
// zero was applied, which is different from no delta at all.
func (m *Match) PendingDelta() (int, bool) {
	return m.pendingDelta, m.hasPending
}

// MinigameOutcome returns the current turn's minigame result, if the turn
// had a minigame and it has completed.
func (m *Match) MinigameOutcome() (success, done bool) {
	return m.minigameWon, m.minigameDone
}

// GameOver reports whether the machine has reached its terminal phase.
func (m *Match) GameOver() bool {
	return m.phase == PhaseGameEnd
}

// Standings returns the seats ordered by score, highest first. Equal scores
// keep seat order, so earlier seats win ties deterministically.
func (m *Match) Standings() []Player {
	out := clonePlayers(m.players)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Leader returns the seat currently in first place.
func (m *Match) Leader() Player {
	return m.Standings()[0]
}
