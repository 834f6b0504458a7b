package config

import "math"

// minAnswerTicks is the floor for the trivia countdown. Three seconds at
// 30 ticks per second stays answerable on a laggy SSH session.
const minAnswerTicks = 90

// PacingManager calculates the trivia countdown based on match progress.
type PacingManager struct {
	cfg          PacingConfig
	initialLevel float64
}

// NewPacingManager creates a new pacing manager.
func NewPacingManager(cfg PacingConfig) *PacingManager {
	return &PacingManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial tightness level (0.0 to 1.0).
func (p *PacingManager) SetInitialLevel(level float64) {
	p.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables countdown tightening.
func (p *PacingManager) SetEnabled(enabled bool) {
	p.cfg.Enabled = enabled
}

// IsEnabled returns whether countdown tightening is active.
func (p *PacingManager) IsEnabled() bool {
	return p.cfg.Enabled
}

// Level returns the current tightness (0.0 to 1.0) for a 1-based round
// number in a match of maxTurns rounds.
func (p *PacingManager) Level(turn, maxTurns int) float64 {
	if !p.cfg.Enabled {
		return p.initialLevel
	}

	span := float64(maxTurns - 1)
	if span <= 0 {
		span = 1 // Prevent division by zero
	}
	progress := clampF(float64(turn-1)/span, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return p.initialLevel + progress*(1.0-p.initialLevel)
}

// AnswerTicks returns the countdown for a question asked in the given
// round. Later rounds leave less time.
func (p *PacingManager) AnswerTicks(base, turn, maxTurns int) int {
	level := p.Level(turn, maxTurns)
	result := base - int(level*float64(p.cfg.Reduction))
	if result < minAnswerTicks {
		result = minAnswerTicks
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
