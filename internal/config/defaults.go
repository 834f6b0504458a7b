package config

import (
	_ "embed"
)

//go:embed defaults/tilerun.yaml
var defaultTilerunYAML []byte

// DefaultTilerunConfig returns the default Tile Run configuration:
// the classic 50-tile board played over 12 rounds.
func DefaultTilerunConfig() TilerunConfig {
	return TilerunConfig{
		Board: BoardConfig{
			TrackLength:   50,
			MaxTurns:      12,
			DiceMin:       1,
			DiceMax:       6,
			PositiveTiles: 20,
			NegativeTiles: 15,
			RandomTiles:   10,
			MinigameTiles: 5,
		},
		Scoring: ScoringConfig{
			PositiveDelta:  3,
			NegativeDelta:  -3,
			RandomDeltas:   []int{5, 2, -2, -5},
			MinigamePoints: 10,
		},
		Trivia: TriviaConfig{
			AnswerTicks: 450, // 15 seconds at 30 ticks per second
		},
		Pacing: PacingConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Reduction:    240,
		},
	}
}

// ApplyGamePreset rewrites the board section for a named preset.
// Tile counts keep the classic 40/30/20/10 percent split.
func ApplyGamePreset(cfg *TilerunConfig, preset GamePreset) {
	switch preset {
	case PresetQuick:
		cfg.Board.TrackLength = 30
		cfg.Board.MaxTurns = 6
		cfg.Board.PositiveTiles = 12
		cfg.Board.NegativeTiles = 9
		cfg.Board.RandomTiles = 6
		cfg.Board.MinigameTiles = 3
	case PresetMarathon:
		cfg.Board.TrackLength = 80
		cfg.Board.MaxTurns = 20
		cfg.Board.PositiveTiles = 32
		cfg.Board.NegativeTiles = 24
		cfg.Board.RandomTiles = 16
		cfg.Board.MinigameTiles = 8
	default:
		cfg.Board.TrackLength = 50
		cfg.Board.MaxTurns = 12
		cfg.Board.PositiveTiles = 20
		cfg.Board.NegativeTiles = 15
		cfg.Board.RandomTiles = 10
		cfg.Board.MinigameTiles = 5
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "tilerun":
		return defaultTilerunYAML
	default:
		return nil
	}
}
