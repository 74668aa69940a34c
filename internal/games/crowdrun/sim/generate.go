package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Generation knob ranges.
const (
	MinDifficulty  = 0.5
	MaxDifficulty  = 2.0
	MinGateSpacing = 10.0
	MaxGateSpacing = 40.0

	// LateralSpread is the width of the band gates are placed in, centered on 0.
	LateralSpread = 8.0

	secondWaveFactor = 1.5
)

// Gate type weights (out of 100) in Add, Subtract, Multiply, Divide order.
var (
	earlyWeights = [4]float64{40, 20, 30, 10}
	laterWeights = [4]float64{30, 30, 20, 20}
)

// GenParams are the inputs of gate generation.
type GenParams struct {
	Level      int
	Spacing    float64 // Distance between consecutive gates
	Difficulty float64 // Enemy count multiplier
}

// Normalize clamps the parameters to their valid ranges.
func (p GenParams) Normalize() GenParams {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Difficulty == 0 {
		p.Difficulty = 1
	}
	p.Difficulty = math.Max(MinDifficulty, math.Min(MaxDifficulty, p.Difficulty))
	if p.Spacing == 0 {
		p.Spacing = 20
	}
	p.Spacing = math.Max(MinGateSpacing, math.Min(MaxGateSpacing, p.Spacing))
	return p
}

// LevelPlan describes the content of one level.
type LevelPlan struct {
	Level              int
	NumberOfGates      int
	EnemyStartingCount float64
	Gates              []Gate
}

// PlanLevel computes the gate count and enemy strength for a level.
func PlanLevel(level int, difficulty float64) LevelPlan {
	p := GenParams{Level: level, Difficulty: difficulty}.Normalize()
	return LevelPlan{
		Level:              p.Level,
		NumberOfGates:      10 + min(10, p.Level-1),
		EnemyStartingCount: 10 * math.Pow(1.5, float64(p.Level-1)) * p.Difficulty,
	}
}

// WaveEnemies returns the enemy count of a wave (stage is 1-based).
// Later waves are stronger; every wave has at least one enemy.
func (lp LevelPlan) WaveEnemies(stage int) float64 {
	count := lp.EnemyStartingCount
	if stage > 1 {
		count *= secondWaveFactor
	}
	return math.Max(1, math.Floor(count))
}

// GenerateGates builds the plan for a level, drawing every random choice
// from rng. The same rng state always yields the same gates.
func GenerateGates(p GenParams, rng *rand.Rand) LevelPlan {
	p = p.Normalize()
	plan := PlanLevel(p.Level, p.Difficulty)

	weights := earlyWeights
	if p.Level > 2 {
		weights = laterWeights
	}
	levelFactor := min(p.Level, 5)

	plan.Gates = make([]Gate, 0, plan.NumberOfGates)
	for i := 0; i < plan.NumberOfGates; i++ {
		x := (rng.Float64() - 0.5) * LateralSpread
		t := pickGateType(weights, rng.Float64()*100)
		plan.Gates = append(plan.Gates, Gate{
			ID:    fmt.Sprintf("gate-%d", i),
			X:     x,
			Z:     float64(i+1) * p.Spacing,
			Type:  t,
			Value: gateValue(t, levelFactor, rng),
		})
	}
	return plan
}

// GenerateGatesSeeded is GenerateGates with a fresh source seeded by seed.
func GenerateGatesSeeded(level int, spacing, difficulty float64, seed int64) LevelPlan {
	rng := rand.New(rand.NewSource(seed))
	return GenerateGates(GenParams{Level: level, Spacing: spacing, Difficulty: difficulty}, rng)
}

// pickGateType walks the cumulative weights; roll is in [0, 100).
func pickGateType(weights [4]float64, roll float64) GateType {
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll <= acc {
			return gateTypes[i]
		}
	}
	return gateTypes[0]
}

// gateValue samples the operand for a gate type. Every value is at least 1,
// and divisors are at least 2.
func gateValue(t GateType, levelFactor int, rng *rand.Rand) int {
	switch t {
	case GateAdd:
		return rng.Intn(10*levelFactor) + levelFactor
	case GateSubtract:
		return rng.Intn(4+levelFactor) + 1
	case GateMultiply:
		return rng.Intn(3) + 2
	case GateDivide:
		return rng.Intn(2) + 2
	default:
		return 1
	}
}
