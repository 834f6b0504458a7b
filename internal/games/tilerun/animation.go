package tilerun

import (
	"math/rand"

	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
)

// animPhase identifies which animation is running.
type animPhase int

const (
	animNone animPhase = iota
	animDice
	animHop
)

// animState tracks the dice tumble and the pawn hops. The engine has
// already committed the outcome when an animation starts; the state here
// only paces how the outcome is revealed.
type animState struct {
	phase animPhase
	ticks int

	// Dice tumble
	face  int // Final face, fixed by the engine roll
	shown int // Face currently displayed

	// Pawn hops
	from  int
	to    int
	pos   int // Tile the pawn is displayed on
	step  int
	total int
	track int
}

// stepDice advances the tumble one tick. The displayed face flips quickly
// at first and slows toward the end, then settles on the rolled face.
// Returns true once the tumble is over.
func (a *animState) stepDice(jitter *rand.Rand, rules core.Rules) bool {
	a.ticks++
	if a.ticks >= diceAnimTicks {
		a.shown = a.face
		return true
	}

	cadence := 2
	if a.ticks > diceAnimTicks/2 {
		cadence = 3
	}
	if a.ticks%cadence == 0 {
		span := rules.DiceMax - rules.DiceMin + 1
		a.shown = rules.DiceMin + jitter.Intn(span)
	}
	return false
}

// startHops sets up the pawn movement animation from one tile to another,
// one hop per tile, wrapping at the end of the track.
func (a *animState) startHops(from, to, roll, track int) {
	*a = animState{
		phase: animHop,
		from:  from,
		to:    to,
		pos:   from,
		total: roll,
		track: track,
	}
}

// stepHops advances the pawn one tile every few ticks. Returns true once
// the pawn has landed.
func (a *animState) stepHops() bool {
	a.ticks++
	if a.ticks%hopEveryTicks != 0 {
		return false
	}
	a.pos = (a.pos + 1) % a.track
	a.step++
	return a.step >= a.total
}
