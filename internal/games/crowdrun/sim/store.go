package sim

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by store commands.
var (
	ErrInvalidTransition = errors.New("sim: invalid transition")
	ErrInvalidGateValue  = errors.New("sim: gate value must be positive")
)

// Event names the cause of a state change.
type Event int

const (
	EventTick Event = iota
	EventStartGame
	EventStartBattle
	EventEndBattle
	EventBattleTimeout
	EventAdvanceStage
	EventCompleteLevel
	EventNextLevel
	EventReset
	EventGate
	EventRunnerMoved
	EventCrowdSet
	EventEnemySet
	EventEnemyMoved
	EventSoundToggled
	EventWarning
	EventWarningHidden
)

var eventNames = map[Event]string{
	EventTick:          "tick",
	EventStartGame:     "start_game",
	EventStartBattle:   "start_battle",
	EventEndBattle:     "end_battle",
	EventBattleTimeout: "battle_timeout",
	EventAdvanceStage:  "advance_stage",
	EventCompleteLevel: "complete_level",
	EventNextLevel:     "next_level",
	EventReset:         "reset",
	EventGate:          "gate",
	EventRunnerMoved:   "runner_moved",
	EventCrowdSet:      "crowd_set",
	EventEnemySet:      "enemy_set",
	EventEnemyMoved:    "enemy_moved",
	EventSoundToggled:  "sound_toggled",
	EventWarning:       "warning",
	EventWarningHidden: "warning_hidden",
}

// String returns the event name.
func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// Change is delivered to subscribers after every committed mutation.
type Change struct {
	Event Event
	Prev  Snapshot
	Next  Snapshot
}

// Listener observes committed changes. Listeners run synchronously on the
// caller's goroutine and may issue further commands.
type Listener func(Change)

type subscriber struct {
	id int
	fn Listener
}

// Store owns the simulation state. It is not safe for concurrent use: all
// commands and ticks must come from the single tick/event goroutine.
type Store struct {
	rules Rules
	snap  Snapshot
	clock *Scheduler

	subs   []subscriber
	nextID int

	// Decay below the change threshold, carried between ticks.
	crowdPending float64
	enemyPending float64

	battleTimer  *Timer
	stageTimer   *Timer
	warningTimer *Timer
}

// NewStore creates a store in the default state.
func NewStore(rules Rules) *Store {
	s := &Store{
		rules: rules.Sanitize(),
		clock: NewScheduler(),
	}
	s.snap = s.defaults(true)
	return s
}

// defaults returns the initial snapshot for a fresh session.
func (s *Store) defaults(sound bool) Snapshot {
	return Snapshot{
		State:              StateReady,
		BattleStatus:       BattleNone,
		Level:              1,
		CurrentStage:       1,
		CrowdCount:         1,
		InitialCrowdCount:  1,
		EnemyCount:         0,
		InitialEnemyCount:  50,
		EnemyPosition:      s.rules.InitialEnemyPosition,
		RunnerPosition:     0,
		FinishLinePosition: s.rules.FinishLinePosition,
		Speed:              s.rules.Speed,
		Score:              0,
		SoundEnabled:       sound,
	}
}

// Rules returns the rules the store was created with.
func (s *Store) Rules() Rules {
	return s.rules
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	return s.snap
}

// Clock returns the store's virtual-time scheduler.
func (s *Store) Clock() *Scheduler {
	return s.clock
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// commit installs next as the current state and notifies subscribers.
// Readers never observe a half-applied command.
func (s *Store) commit(ev Event, next Snapshot) {
	prev := s.snap
	s.snap = next
	if prev == next {
		return
	}
	change := Change{Event: ev, Prev: prev, Next: next}
	subs := append([]subscriber(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(change)
	}
}

func invalid(cmd string, state GameState) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, cmd, state)
}

// StartGame leaves the ready screen and starts running.
func (s *Store) StartGame() error {
	if s.snap.State != StateReady {
		return invalid("start game", s.snap.State)
	}
	next := s.snap
	next.State = StateRunning
	next.BattleStatus = BattleNone
	next.CurrentStage = 1
	next.WavesCleared = 0
	next.EnemyPosition = s.rules.InitialEnemyPosition
	next.WarningLevel = 0
	next.WarningVisible = false
	s.commit(EventStartGame, next)
	return nil
}

// SetRunnerPosition moves the runner laterally, clamped to the lane.
// NaN leaves the runner where it is.
func (s *Store) SetRunnerPosition(x float64) {
	if math.IsNaN(x) {
		return
	}
	next := s.snap
	next.RunnerPosition = math.Max(-s.rules.RunnerLimit, math.Min(s.rules.RunnerLimit, x))
	s.commit(EventRunnerMoved, next)
}

// UpdateCrowdCount applies a gate operation to the crowd.
func (s *Store) UpdateCrowdCount(t GateType, value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidGateValue, t, value)
	}
	next := s.snap
	next.CrowdCount = ApplyGate(next.CrowdCount, t, value)
	s.commit(EventGate, next)
	return nil
}

// CrossGate resolves a gate collision exactly once. It returns false if
// the gate had already fired.
func (s *Store) CrossGate(e *GateEntity) (bool, error) {
	if e.Resolved() {
		return false, nil
	}
	if e.Value <= 0 {
		return false, fmt.Errorf("%w: %s %d", ErrInvalidGateValue, e.Type, e.Value)
	}
	e.latch.Fire()
	return true, s.UpdateCrowdCount(e.Type, e.Value)
}

// SetCrowdCount overwrites the crowd, clamped to [0, MaxCount]. NaN counts as 0.
func (s *Store) SetCrowdCount(n float64) {
	next := s.snap
	next.CrowdCount = clampCount(n)
	s.commit(EventCrowdSet, next)
}

// SetEnemyCount overwrites the enemy count, clamped to [0, MaxCount]. NaN counts as 0.
func (s *Store) SetEnemyCount(n float64) {
	next := s.snap
	next.EnemyCount = clampCount(n)
	s.commit(EventEnemySet, next)
}

// SetEnemyPosition overwrites the distance to the active wave. NaN is ignored.
func (s *Store) SetEnemyPosition(z float64) {
	if math.IsNaN(z) {
		return
	}
	next := s.snap
	next.EnemyPosition = z
	s.commit(EventEnemyMoved, next)
}

// ToggleSound flips the sound flag.
func (s *Store) ToggleSound() {
	next := s.snap
	next.SoundEnabled = !next.SoundEnabled
	s.commit(EventSoundToggled, next)
}

// CompleteLevel awards the finish-line bonus.
func (s *Store) CompleteLevel() error {
	if s.snap.State != StateRunning {
		return invalid("complete level", s.snap.State)
	}
	next := s.snap
	next.Score = addScore(next.Score, s.rules.LevelBonus(next.Level, next.CrowdCount))
	next.State = StateLevelComplete
	next.WarningVisible = false
	s.cancelTimers()
	s.commit(EventCompleteLevel, next)
	return nil
}

// NextLevel moves on to the next level, carrying half the crowd.
func (s *Store) NextLevel() error {
	if s.snap.State != StateLevelComplete {
		return invalid("next level", s.snap.State)
	}
	s.cancelTimers()
	next := s.snap
	next.State = StateReady
	next.BattleStatus = BattleNone
	next.Level++
	next.CurrentStage = 1
	next.WavesCleared = 0
	next.CrowdCount = CarryOverCrowd(next.CrowdCount)
	next.EnemyPosition = s.rules.InitialEnemyPosition
	next.WarningLevel = 0
	next.WarningVisible = false
	next.BattleElapsed = 0
	s.commit(EventNextLevel, next)
	return nil
}

// ResetGame restores every field to its default. The sound preference
// survives the reset.
func (s *Store) ResetGame() {
	s.cancelTimers()
	s.crowdPending, s.enemyPending = 0, 0
	s.commit(EventReset, s.defaults(s.snap.SoundEnabled))
}

// Close cancels pending timed transitions. Call it when the owning
// collaborator is torn down so stale timers cannot mutate the session.
func (s *Store) Close() {
	s.cancelTimers()
	s.clock.CancelAll()
}

func (s *Store) cancelTimers() {
	s.battleTimer.Cancel()
	s.stageTimer.Cancel()
	s.warningTimer.Cancel()
	s.battleTimer, s.stageTimer, s.warningTimer = nil, nil, nil
}
