package core

import (
	"errors"
	"testing"
)

func TestGenerateTrackHoldsDistribution(t *testing.T) {
	rules := DefaultRules()

	// The exact layout depends on the seed, the counts never do.
	for seed := int64(1); seed <= 20; seed++ {
		tiles, err := GenerateTrack(NewRNG(seed), rules)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if len(tiles) != rules.TrackLength {
			t.Fatalf("seed %d: expected %d tiles, got %d", seed, rules.TrackLength, len(tiles))
		}

		counts := CountByKind(tiles)
		if counts[TileFixedPositive] != rules.PositiveTiles {
			t.Errorf("seed %d: expected %d fixed-positive tiles, got %d", seed, rules.PositiveTiles, counts[TileFixedPositive])
		}
		if counts[TileFixedNegative] != rules.NegativeTiles {
			t.Errorf("seed %d: expected %d fixed-negative tiles, got %d", seed, rules.NegativeTiles, counts[TileFixedNegative])
		}
		if counts[TileRandomReward] != rules.RandomTiles {
			t.Errorf("seed %d: expected %d random-reward tiles, got %d", seed, rules.RandomTiles, counts[TileRandomReward])
		}
		if counts[TileMinigame] != rules.MinigameTiles {
			t.Errorf("seed %d: expected %d minigame tiles, got %d", seed, rules.MinigameTiles, counts[TileMinigame])
		}
	}
}

func TestGenerateTrackAssignsSequentialIndices(t *testing.T) {
	tiles, err := GenerateTrack(NewRNG(42), DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, tile := range tiles {
		if tile.Index != i {
			t.Fatalf("tile at position %d carries index %d", i, tile.Index)
		}
	}
}

func TestGenerateTrackDeterminism(t *testing.T) {
	rules := DefaultRules()

	first, err := GenerateTrack(NewRNG(42), rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateTrack(NewRNG(42), rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].Kind != second[i].Kind {
			t.Fatalf("index %d: same seed produced %s and %s", i, first[i].Kind, second[i].Kind)
		}
	}

	other, err := GenerateTrack(NewRNG(7), rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	same := true
	for i := range first {
		if first[i].Kind != other[i].Kind {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to produce different layouts")
	}
}

func TestGenerateTrackRejectsCountMismatch(t *testing.T) {
	rules := DefaultRules()
	rules.MinigameTiles = 4 // sums to 49 against a 50-tile track

	_, err := GenerateTrack(NewRNG(42), rules)
	if err == nil {
		t.Fatal("expected configuration error, got none")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestTileKindString(t *testing.T) {
	cases := []struct {
		kind TileKind
		want string
	}{
		{TileFixedPositive, "fixed-positive"},
		{TileFixedNegative, "fixed-negative"},
		{TileRandomReward, "random-reward"},
		{TileMinigame, "minigame"},
		{TileKind(99), "unknown"},
	}

	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("kind %d: expected %q, got %q", int(tc.kind), tc.want, got)
		}
	}
}
