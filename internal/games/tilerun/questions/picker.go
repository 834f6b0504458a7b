package questions

import (
	"github.com/vovakirdan/tui-tabletop/internal/games/tilerun/core"
)

// Picker deals questions from a pack in a seed-determined order, without
// repeats until the pack is exhausted, then reshuffles and continues.
//
// The picker owns its RNG. Dealing questions must never disturb the dice
// stream of a running match, so drivers hand the picker a seed rather
// than the match RNG.
type Picker struct {
	pack  Pack
	rng   *core.RNG
	order []int
	next  int
}

// NewPicker creates a picker over the pack.
func NewPicker(pack Pack, seed int64) *Picker {
	if seed == 0 {
		seed = core.NewSeed()
	}
	p := &Picker{
		pack: pack,
		rng:  core.NewRNG(seed),
	}
	p.reshuffle()
	return p
}

func (p *Picker) reshuffle() {
	indices := make([]int, len(p.pack.Questions))
	for i := range indices {
		indices[i] = i
	}
	p.order = core.Shuffle(p.rng, indices)
	p.next = 0
}

// Next returns the next question in the dealt order.
func (p *Picker) Next() Question {
	if p.next >= len(p.order) {
		p.reshuffle()
	}
	q := p.pack.Questions[p.order[p.next]]
	p.next++
	return q
}

// Remaining reports how many questions are left before a reshuffle.
func (p *Picker) Remaining() int {
	return len(p.order) - p.next
}

// Pack returns the pack the picker deals from.
func (p *Picker) Pack() Pack {
	return p.pack
}
