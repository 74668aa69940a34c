package sim

import "math"

// BattlePolicy selects how a battle is resolved.
type BattlePolicy int

const (
	// BattleAttrition resolves as soon as one side's count reaches zero.
	BattleAttrition BattlePolicy = iota
	// BattleTimed resolves after BattleDuration by comparing the counts.
	BattleTimed
)

// String returns the policy name used in configuration files.
func (p BattlePolicy) String() string {
	switch p {
	case BattleAttrition:
		return "attrition"
	case BattleTimed:
		return "timed"
	default:
		return "unknown"
	}
}

// ParseBattlePolicy converts a configuration name to a policy.
// Unknown names fall back to attrition.
func ParseBattlePolicy(name string) BattlePolicy {
	if name == "timed" {
		return BattleTimed
	}
	return BattleAttrition
}

// Rules holds every tunable constant of the simulation.
type Rules struct {
	Waves int // Enemy waves per level

	ScorePerEnemy    float64 // Points per enemy of a defeated wave
	LevelBonusFactor int     // Finish bonus = level * crowd * factor

	CrowdLossRate   float64 // Crowd lost per enemy per second
	EnemyLossRate   float64 // Enemies lost per crowd member per second
	ChangeThreshold float64 // Minimum accumulated change before a count is updated

	Policy            BattlePolicy
	BattleDuration    float64 // Seconds, timed policy only
	StageAdvanceDelay float64 // Seconds in Win before the next stage, timed policy only
	WarningDuration   float64 // Seconds a warning banner stays visible

	Speed                float64
	RunnerLimit          float64
	InitialEnemyPosition float64
	NextWavePosition     float64
	FinishLinePosition   float64

	WarningDistances      [3]float64 // Wave distances for warning levels 1..3
	FinishWarningDistance float64
}

// DefaultRules returns the rules of the canonical game.
func DefaultRules() Rules {
	return Rules{
		Waves:                 2,
		ScorePerEnemy:         5,
		LevelBonusFactor:      10,
		CrowdLossRate:         0.2,
		EnemyLossRate:         0.4,
		ChangeThreshold:       0.1,
		Policy:                BattleAttrition,
		BattleDuration:        3,
		StageAdvanceDelay:     2,
		WarningDuration:       3,
		Speed:                 5,
		RunnerLimit:           5,
		InitialEnemyPosition:  150,
		NextWavePosition:      100,
		FinishLinePosition:    250,
		WarningDistances:      [3]float64{100, 70, 50},
		FinishWarningDistance: 40,
	}
}

// Sanitize replaces non-positive values with defaults.
func (r Rules) Sanitize() Rules {
	d := DefaultRules()
	if r.Waves < 1 {
		r.Waves = d.Waves
	}
	if r.ScorePerEnemy <= 0 {
		r.ScorePerEnemy = d.ScorePerEnemy
	}
	if r.LevelBonusFactor <= 0 {
		r.LevelBonusFactor = d.LevelBonusFactor
	}
	if r.CrowdLossRate <= 0 {
		r.CrowdLossRate = d.CrowdLossRate
	}
	if r.EnemyLossRate <= 0 {
		r.EnemyLossRate = d.EnemyLossRate
	}
	if r.ChangeThreshold < 0 {
		r.ChangeThreshold = d.ChangeThreshold
	}
	if r.BattleDuration <= 0 {
		r.BattleDuration = d.BattleDuration
	}
	if r.StageAdvanceDelay < 0 {
		r.StageAdvanceDelay = d.StageAdvanceDelay
	}
	if r.WarningDuration <= 0 {
		r.WarningDuration = d.WarningDuration
	}
	if r.Speed <= 0 {
		r.Speed = d.Speed
	}
	if r.RunnerLimit <= 0 {
		r.RunnerLimit = d.RunnerLimit
	}
	if r.InitialEnemyPosition <= 0 {
		r.InitialEnemyPosition = d.InitialEnemyPosition
	}
	if r.NextWavePosition <= 0 {
		r.NextWavePosition = d.NextWavePosition
	}
	if r.FinishLinePosition <= 0 {
		r.FinishLinePosition = d.FinishLinePosition
	}
	for i, dist := range r.WarningDistances {
		if dist <= 0 {
			r.WarningDistances[i] = d.WarningDistances[i]
		}
	}
	if r.FinishWarningDistance <= 0 {
		r.FinishWarningDistance = d.FinishWarningDistance
	}
	return r
}

// Counts and the score saturate at these ceilings.
const (
	MaxCount = 1e12
	MaxScore = 1 << 53
)

// clampCount maps a count into [0, MaxCount]; NaN becomes 0.
func clampCount(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.Max(0, math.Min(MaxCount, n))
}

// points converts a non-negative point value to int, saturating at MaxScore.
func points(p float64) int {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	if p >= MaxScore {
		return MaxScore
	}
	return int(math.Floor(p))
}

// addScore adds non-negative points to a score without overflowing.
func addScore(score, pts int) int {
	return min(MaxScore, score+max(0, pts))
}

// ApplyGate returns the crowd count after passing a gate.
// Subtract and Divide never take the crowd below one; only battles eliminate it.
func ApplyGate(count float64, t GateType, value int) float64 {
	count = clampCount(count)
	v := float64(value)
	switch t {
	case GateAdd:
		return clampCount(count + v)
	case GateSubtract:
		return math.Max(1, count-v)
	case GateMultiply:
		return clampCount(count * v)
	case GateDivide:
		return math.Max(1, math.Floor(count/v))
	default:
		return count
	}
}

// BattleScore returns the points awarded for a battle outcome.
func (r Rules) BattleScore(won bool, initialEnemies float64) int {
	if !won {
		return 0
	}
	return points(clampCount(initialEnemies) * r.ScorePerEnemy)
}

// LevelBonus returns the finish-line bonus for the given level and crowd.
func (r Rules) LevelBonus(level int, crowd float64) int {
	return points(float64(level) * math.Floor(clampCount(crowd)) * float64(r.LevelBonusFactor))
}

// CarryOverCrowd halves the crowd between levels, keeping at least one.
func CarryOverCrowd(crowd float64) float64 {
	return math.Max(1, math.Floor(crowd/2))
}

// warningLevelFor returns the warning level for a distance.
func (r Rules) warningLevelFor(distance float64, finish bool) int {
	if finish {
		if distance <= r.FinishWarningDistance {
			return 1
		}
		return 0
	}
	level := 0
	for i, d := range r.WarningDistances {
		if distance <= d {
			level = i + 1
		}
	}
	return level
}
