package core

// TileEffect is the outcome of landing on a tile: either an immediate score
// delta, or a handoff to the external minigame (in which case Delta is zero
// and the eventual points come from CompleteMinigame).
type TileEffect struct {
	Delta    int
	Minigame bool
}

// resolveTileEffect is the rule table mapping a tile kind to its effect.
// Pure apart from the single RNG draw a random-reward tile consumes.
// The switch is exhaustive over TileKind; a kind added without a case here
// is a bug we want to surface immediately, hence the panic.
func resolveTileEffect(kind TileKind, rng *RNG, rules Rules) TileEffect {
	switch kind {
	case TileFixedPositive:
		return TileEffect{Delta: rules.PositiveDelta}
	case TileFixedNegative:
		return TileEffect{Delta: rules.NegativeDelta}
	case TileRandomReward:
		return TileEffect{Delta: Pick(rng, rules.RandomDeltas)}
	case TileMinigame:
		return TileEffect{Minigame: true}
	default:
		panic("tilerun: unhandled tile kind " + kind.String())
	}
}

// minigameDelta converts an external minigame outcome into points.
// Kept separate from resolveTileEffect because the minigame itself runs
// asynchronously outside the engine, so the two halves of a minigame tile's
// scoring never execute in the same call.
func minigameDelta(success bool, rules Rules) int {
	if success {
		return rules.MinigamePoints
	}
	return 0
}
