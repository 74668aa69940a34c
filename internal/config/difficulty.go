package config

import "github.com/vovakirdan/crowd-runner/internal/games/crowdrun/sim"

// DifficultyManager computes the enemy multiplier for each level.
type DifficultyManager struct {
	cfg  DifficultyConfig
	base float64
}

// NewDifficultyManager creates a manager ramping up from base.
func NewDifficultyManager(cfg DifficultyConfig, base float64) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, base: base}
}

// IsEnabled returns whether the per-level ramp is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type == "level"
}

// Progress returns how far along the ramp a level is, from 0 to 1.
func (d *DifficultyManager) Progress(level int) float64 {
	if !d.IsEnabled() {
		return 0
	}
	maxAt := d.cfg.Progression.MaxAt
	if maxAt < 2 {
		maxAt = 2
	}
	p := float64(level-1) / float64(maxAt-1)
	return max(0, min(1, p))
}

// Multiplier returns the enemy multiplier for a level, clamped to the
// range gate generation accepts.
func (d *DifficultyManager) Multiplier(level int) float64 {
	m := d.base * (1 + d.Progress(level)*d.cfg.Scaling.EnemyMultiplier)
	return max(sim.MinDifficulty, min(sim.MaxDifficulty, m))
}
