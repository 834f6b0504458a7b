package core

import "fmt"

// Rules holds every tunable constant of a match. All values are plain data
// so presets and config files can override any of them; Validate catches the
// combinations that cannot produce a playable match.
type Rules struct {
	TrackLength int // Number of tiles on the loop
	MaxTurns    int // Rounds played before the match ends

	DiceMin int // Lowest die face
	DiceMax int // Highest die face

	// Tile distribution. The four counts must sum to TrackLength.
	PositiveTiles int
	NegativeTiles int
	RandomTiles   int
	MinigameTiles int

	PositiveDelta  int   // Score change on a fixed-positive tile
	NegativeDelta  int   // Score change on a fixed-negative tile
	RandomDeltas   []int // Candidate deltas for random-reward tiles
	MinigamePoints int   // Award for a successful minigame
}

// DefaultRules returns the classic ruleset: a 50-tile loop, 12 rounds,
// a six-sided die and a 20/15/10/5 tile split.
func DefaultRules() Rules {
	return Rules{
		TrackLength:    50,
		MaxTurns:       12,
		DiceMin:        1,
		DiceMax:        6,
		PositiveTiles:  20,
		NegativeTiles:  15,
		RandomTiles:    10,
		MinigameTiles:  5,
		PositiveDelta:  3,
		NegativeDelta:  -3,
		RandomDeltas:   []int{5, 2, -2, -5},
		MinigamePoints: 10,
	}
}

// Clone returns a deep copy, so callers can tweak a ruleset without
// aliasing the RandomDeltas slice.
func (r Rules) Clone() Rules {
	out := r
	out.RandomDeltas = make([]int, len(r.RandomDeltas))
	copy(out.RandomDeltas, r.RandomDeltas)
	return out
}

// Validate reports a ConfigurationError for any ruleset that cannot produce
// a playable match. It never mutates or repairs: a bad distribution fails
// here, before any turn is played, rather than being silently truncated.
func (r Rules) Validate() error {
	if r.TrackLength <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("track length must be positive, got %d", r.TrackLength)}
	}
	if r.MaxTurns <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("max turns must be positive, got %d", r.MaxTurns)}
	}
	if r.DiceMax < r.DiceMin {
		return &ConfigurationError{Reason: fmt.Sprintf("dice range [%d, %d] is empty", r.DiceMin, r.DiceMax)}
	}
	if r.PositiveTiles < 0 || r.NegativeTiles < 0 || r.RandomTiles < 0 || r.MinigameTiles < 0 {
		return &ConfigurationError{Reason: "tile counts must not be negative"}
	}
	sum := r.PositiveTiles + r.NegativeTiles + r.RandomTiles + r.MinigameTiles
	if sum != r.TrackLength {
		return &ConfigurationError{Reason: fmt.Sprintf("tile counts sum to %d, track length is %d", sum, r.TrackLength)}
	}
	if len(r.RandomDeltas) == 0 {
		return &ConfigurationError{Reason: "random-reward delta set is empty"}
	}
	return nil
}
