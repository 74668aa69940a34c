package config

import (
	_ "embed"

	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun/sim"
)

//go:embed defaults/crowdrun.yaml
var defaultCrowdYAML []byte

// DefaultCrowdConfig returns the built-in Crowd Runner configuration.
func DefaultCrowdConfig() CrowdConfig {
	r := sim.DefaultRules()
	return CrowdConfig{
		World: WorldConfig{
			Speed:                r.Speed,
			InitialEnemyPosition: r.InitialEnemyPosition,
			NextWavePosition:     r.NextWavePosition,
			FinishLinePosition:   r.FinishLinePosition,
		},
		Battle: BattleConfig{
			Waves:             r.Waves,
			Policy:            r.Policy.String(),
			Duration:          r.BattleDuration,
			StageAdvanceDelay: r.StageAdvanceDelay,
			CrowdLossRate:     r.CrowdLossRate,
			EnemyLossRate:     r.EnemyLossRate,
			ChangeThreshold:   r.ChangeThreshold,
		},
		Scoring: ScoringConfig{
			PerEnemy:         r.ScorePerEnemy,
			LevelBonusFactor: r.LevelBonusFactor,
		},
		Generation: GenerationConfig{
			GateSpacing: 20,
			Difficulty:  1,
		},
		Player: PlayerConfig{
			LaneLimit:   r.RunnerLimit,
			LateralStep: 1,
		},
		Warnings: WarningsConfig{
			Distances:      r.WarningDistances[:],
			FinishDistance: r.FinishWarningDistance,
			Duration:       r.WarningDuration,
		},
		Difficulty: DifficultyConfig{
			Enabled: false,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				EnemyMultiplier: 0.5,
			},
		},
	}
}

// Rules converts the configuration into simulation rules. Zero values fall
// back to the simulation defaults.
func (c CrowdConfig) Rules() sim.Rules {
	r := sim.Rules{
		Waves:                 c.Battle.Waves,
		ScorePerEnemy:         c.Scoring.PerEnemy,
		LevelBonusFactor:      c.Scoring.LevelBonusFactor,
		CrowdLossRate:         c.Battle.CrowdLossRate,
		EnemyLossRate:         c.Battle.EnemyLossRate,
		ChangeThreshold:       c.Battle.ChangeThreshold,
		Policy:                sim.ParseBattlePolicy(c.Battle.Policy),
		BattleDuration:        c.Battle.Duration,
		StageAdvanceDelay:     c.Battle.StageAdvanceDelay,
		WarningDuration:       c.Warnings.Duration,
		Speed:                 c.World.Speed,
		RunnerLimit:           c.Player.LaneLimit,
		InitialEnemyPosition:  c.World.InitialEnemyPosition,
		NextWavePosition:      c.World.NextWavePosition,
		FinishLinePosition:    c.World.FinishLinePosition,
		FinishWarningDistance: c.Warnings.FinishDistance,
	}
	for i := 0; i < len(r.WarningDistances) && i < len(c.Warnings.Distances); i++ {
		r.WarningDistances[i] = c.Warnings.Distances[i]
	}
	return r.Sanitize()
}
