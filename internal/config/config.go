// Package config provides YAML-based game configuration loading and
// pacing management for the tabletop platform.
package config

// TilerunConfig contains all configuration for the Tile Run board game.
type TilerunConfig struct {
	Board   BoardConfig   `yaml:"board"`
	Scoring ScoringConfig `yaml:"scoring"`
	Trivia  TriviaConfig  `yaml:"trivia"`
	Pacing  PacingConfig  `yaml:"pacing"`
}

// BoardConfig defines the track shape and match length.
type BoardConfig struct {
	TrackLength   int `yaml:"track_length"`
	MaxTurns      int `yaml:"max_turns"`
	DiceMin       int `yaml:"dice_min"`
	DiceMax       int `yaml:"dice_max"`
	PositiveTiles int `yaml:"positive_tiles"`
	NegativeTiles int `yaml:"negative_tiles"`
	RandomTiles   int `yaml:"random_tiles"`
	MinigameTiles int `yaml:"minigame_tiles"`
}

// ScoringConfig defines tile payouts.
type ScoringConfig struct {
	PositiveDelta  int   `yaml:"positive_delta"`
	NegativeDelta  int   `yaml:"negative_delta"`
	RandomDeltas   []int `yaml:"random_deltas"`
	MinigamePoints int   `yaml:"minigame_points"`
}

// TriviaConfig defines the minigame question source and base countdown.
type TriviaConfig struct {
	PackDir     string `yaml:"pack_dir"`     // directory of extra packs; empty uses the built-in pack only
	Pack        string `yaml:"pack"`         // pack ID to play; empty picks the built-in pack
	AnswerTicks int    `yaml:"answer_ticks"` // base countdown per question, in simulation ticks
}

// PacingConfig defines how the trivia countdown tightens as a match
// progresses through its rounds.
type PacingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = relaxed, 1.0 = tight
	Reduction    int     `yaml:"reduction"`     // ticks removed from the countdown at full tightness
}

// GamePreset represents a named board layout.
type GamePreset string

const (
	PresetClassic  GamePreset = "classic"
	PresetQuick    GamePreset = "quick"
	PresetMarathon GamePreset = "marathon"
)

// GamePresets returns the known presets in menu order.
func GamePresets() []GamePreset {
	return []GamePreset{PresetClassic, PresetQuick, PresetMarathon}
}

// PacingPreset represents a named countdown tightness.
type PacingPreset string

const (
	PacingRelaxed PacingPreset = "relaxed"
	PacingNormal  PacingPreset = "normal"
	PacingTight   PacingPreset = "tight"
	PacingFixed   PacingPreset = "fixed"
)

// InitialLevelForPacing returns the initial_level for a pacing preset.
func InitialLevelForPacing(preset PacingPreset) float64 {
	switch preset {
	case PacingRelaxed:
		return 0.0
	case PacingNormal:
		return 0.3
	case PacingTight:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPacing returns true if the preset disables countdown tightening.
func IsFixedPacing(preset PacingPreset) bool {
	return preset == PacingFixed
}
