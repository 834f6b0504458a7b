package core

// TileKind identifies the effect class of a track tile.
type TileKind int

const (
	// TileFixedPositive awards a constant bonus.
	TileFixedPositive TileKind = iota
	// TileFixedNegative applies a constant penalty.
	TileFixedNegative
	// TileRandomReward draws its delta from the configured random set.
	TileRandomReward
	// TileMinigame suspends scoring until an external minigame reports
	// success or failure.
	TileMinigame
)

// String returns a stable lowercase name for transcripts and logs.
func (k TileKind) String() string {
	switch k {
	case TileFixedPositive:
		return "fixed-positive"
	case TileFixedNegative:
		return "fixed-negative"
	case TileRandomReward:
		return "random-reward"
	case TileMinigame:
		return "minigame"
	default:
		return "unknown"
	}
}

// Tile is one cell of the looped track. Tiles are immutable once generated.
type Tile struct {
	Index int // Position on the track, 0..TrackLength-1
	Kind  TileKind
}

// GenerateTrack builds the full tile track for a match: each kind repeated
// its configured count, shuffled with the match RNG, then assigned sequential
// indices. The kind counts are exactly preserved for every seed; only the
// ordering varies.
//
// Consumes TrackLength-1 RNG draws (one per Fisher-Yates step).
func GenerateTrack(rng *RNG, rules Rules) ([]Tile, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	kinds := make([]TileKind, 0, rules.TrackLength)
	for range rules.PositiveTiles {
		kinds = append(kinds, TileFixedPositive)
	}
	for range rules.NegativeTiles {
		kinds = append(kinds, TileFixedNegative)
	}
	for range rules.RandomTiles {
		kinds = append(kinds, TileRandomReward)
	}
	for range rules.MinigameTiles {
		kinds = append(kinds, TileMinigame)
	}

	shuffled := Shuffle(rng, kinds)

	tiles := make([]Tile, len(shuffled))
	for i, k := range shuffled {
		tiles[i] = Tile{Index: i, Kind: k}
	}
	return tiles, nil
}

// CountByKind tallies tiles per kind. Used by invariant checks and the
// track legend in the UI.
func CountByKind(tiles []Tile) map[TileKind]int {
	counts := make(map[TileKind]int, 4)
	for _, t := range tiles {
		counts[t.Kind]++
	}
	return counts
}
