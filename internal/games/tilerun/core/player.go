package core

// Player is one seat at the table. A seat may stand for a single person or
// a whole team; the engine treats both identically and only the presentation
// layer cares about the difference.
//
// ID, Score and Position are owned by the match: NewMatch assigns IDs in
// seat order and zeroes the rest, and afterwards only the turn machine
// writes them. Score has no floor, it can go arbitrarily negative.
type Player struct {
	ID       int
	Name     string
	Team     bool
	Score    int
	Position int // Track index in [0, TrackLength)
}

func clonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	return out
}
