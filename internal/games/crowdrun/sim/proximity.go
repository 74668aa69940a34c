package sim

import "math"

// EntityKind identifies a movable entity for collision checks.
type EntityKind int

const (
	EntityGate EntityKind = iota
	EntityWave
	EntityFinish
)

// TravelWindow is the half-depth of the collision window along the travel axis.
const TravelWindow = 0.5

// HalfWidth returns the lateral half-width of an entity kind.
func (k EntityKind) HalfWidth() float64 {
	switch k {
	case EntityGate:
		return 2.5
	case EntityWave:
		return 5
	case EntityFinish:
		return 6
	default:
		return 0
	}
}

// Collides reports whether an entity at travel distance dz and lateral
// offset dx (both relative to the runner) touches the runner.
func Collides(kind EntityKind, dz, dx float64) bool {
	if dz <= -TravelWindow || dz >= TravelWindow {
		return false
	}
	return math.Abs(dx) <= kind.HalfWidth()
}

// Latch is a single-fire flag. The zero value is armed.
type Latch struct {
	fired bool
}

// Fire trips the latch. It returns true only the first time.
func (l *Latch) Fire() bool {
	if l.fired {
		return false
	}
	l.fired = true
	return true
}

// Fired reports whether the latch has been tripped.
func (l *Latch) Fired() bool {
	return l.fired
}

// Rearm resets the latch.
func (l *Latch) Rearm() {
	l.fired = false
}

// GateEntity is a gate placed on the course. Distance starts at the gate's
// Z and decreases as the runner advances; once resolved the gate is retired
// from proximity checks.
type GateEntity struct {
	Gate
	Distance float64
	last     float64 // Distance before the latest Advance
	latch    Latch
}

// NewGateEntities places generated gates at their starting distances.
func NewGateEntities(gates []Gate) []GateEntity {
	out := make([]GateEntity, len(gates))
	for i, g := range gates {
		out[i] = GateEntity{Gate: g, Distance: g.Z, last: g.Z}
	}
	return out
}

// Advance brings the gate d units closer.
func (e *GateEntity) Advance(d float64) {
	e.last = e.Distance
	e.Distance -= d
}

// Resolved reports whether the gate has already fired.
func (e *GateEntity) Resolved() bool {
	return e.latch.Fired()
}

// Touches reports whether the unresolved gate collides with a runner at x.
// A gate that jumped past the runner during the latest Advance counts as
// level with it, so large steps cannot skip the window.
func (e *GateEntity) Touches(runnerX float64) bool {
	if e.Resolved() {
		return false
	}
	dz := e.Distance
	if e.last >= TravelWindow && dz <= -TravelWindow {
		dz = 0
	}
	return Collides(EntityGate, dz, e.X-runnerX)
}
