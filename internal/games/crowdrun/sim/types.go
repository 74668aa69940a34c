// Package sim is the simulation core of Crowd Runner: the authoritative game
// state, its transition rules, crowd arithmetic, battle resolution and
// stage/level progression. It has no rendering, input or audio dependencies;
// collaborators drive it with Update(dt) ticks and commands, and observe it
// through Subscribe.
package sim

import (
	"fmt"
	"math"
)

// GameState is the top-level phase of a session. Exactly one is active.
type GameState int

const (
	StateReady GameState = iota
	StateRunning
	StateBattle
	StateWin
	StateLose
	StateLevelComplete
)

// String returns a human-readable name for the state.
func (s GameState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBattle:
		return "battle"
	case StateWin:
		return "win"
	case StateLose:
		return "lose"
	case StateLevelComplete:
		return "level_complete"
	default:
		return "unknown"
	}
}

// GateType is the arithmetic operation a gate applies to the crowd.
type GateType int

const (
	GateAdd GateType = iota
	GateSubtract
	GateMultiply
	GateDivide
)

// gateTypes lists gate types in weight-table order.
var gateTypes = [4]GateType{GateAdd, GateSubtract, GateMultiply, GateDivide}

// String returns a human-readable name for the gate type.
func (t GateType) String() string {
	switch t {
	case GateAdd:
		return "add"
	case GateSubtract:
		return "subtract"
	case GateMultiply:
		return "multiply"
	case GateDivide:
		return "divide"
	default:
		return "unknown"
	}
}

// Symbol returns the operator printed on the gate.
func (t GateType) Symbol() string {
	switch t {
	case GateAdd:
		return "+"
	case GateSubtract:
		return "-"
	case GateMultiply:
		return "x"
	case GateDivide:
		return "/"
	default:
		return "?"
	}
}

// Label formats the gate face, e.g. "+12" or "x3".
func (t GateType) Label(value int) string {
	return fmt.Sprintf("%s%d", t.Symbol(), value)
}

// Beneficial reports whether passing the gate never shrinks the crowd.
func (t GateType) Beneficial() bool {
	return t == GateAdd || t == GateMultiply
}

// BattleStatus tracks the enemy-wave encounter.
type BattleStatus int

const (
	BattleNone BattleStatus = iota
	BattleApproaching
	BattleEngaged
	BattleVictory
	BattleDefeat
)

// String returns a human-readable name for the status.
func (b BattleStatus) String() string {
	switch b {
	case BattleNone:
		return "none"
	case BattleApproaching:
		return "approaching"
	case BattleEngaged:
		return "engaged"
	case BattleVictory:
		return "victory"
	case BattleDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Gate is a generated arithmetic obstacle. X is the lateral offset, Z the
// distance along the travel axis at level start.
type Gate struct {
	ID    string
	X     float64
	Z     float64
	Type  GateType
	Value int
}

// Label formats the gate face.
func (g Gate) Label() string {
	return g.Type.Label(g.Value)
}

// Snapshot is a consistent, read-only copy of the simulation state.
// It is a plain value: comparing two snapshots with == tells whether
// anything changed.
type Snapshot struct {
	State        GameState
	BattleStatus BattleStatus

	Level        int
	CurrentStage int
	WavesCleared int // Waves beaten in the current level

	CrowdCount        float64
	InitialCrowdCount float64
	EnemyCount        float64
	InitialEnemyCount float64

	EnemyPosition      float64 // Distance to the active wave, or to the finish line once all waves are beaten
	RunnerPosition     float64 // Lateral position in [-RunnerLimit, RunnerLimit]
	FinishLinePosition float64
	Speed              float64 // World units per second

	Score        int
	SoundEnabled bool

	WarningLevel   int  // 0 = none, 1..3 = increasing proximity of the next wave
	WarningVisible bool // Whether the warning banner is currently shown
	BattleElapsed  float64
}

// DisplayCrowd returns the crowd count floored for display.
func (s Snapshot) DisplayCrowd() int {
	return int(math.Floor(s.CrowdCount))
}

// DisplayEnemies returns the enemy count floored for display.
func (s Snapshot) DisplayEnemies() int {
	return int(math.Floor(s.EnemyCount))
}

// FinishApproach reports whether every wave of the level has been beaten and
// the runner is heading for the finish line.
func (s Snapshot) FinishApproach(waves int) bool {
	return s.WavesCleared >= waves
}
