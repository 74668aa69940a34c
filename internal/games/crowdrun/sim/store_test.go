package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func runningStore(t *testing.T, rules Rules) *Store {
	t.Helper()
	s := NewStore(rules)
	if err := s.StartGame(); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return s
}

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore(DefaultRules())
	snap := s.Snapshot()

	if snap.State != StateReady {
		t.Errorf("State = %s, expected ready", snap.State)
	}
	if snap.Level != 1 || snap.CurrentStage != 1 {
		t.Errorf("Level/Stage = %d/%d, expected 1/1", snap.Level, snap.CurrentStage)
	}
	if snap.CrowdCount != 1 || snap.EnemyCount != 0 {
		t.Errorf("Crowd/Enemy = %v/%v, expected 1/0", snap.CrowdCount, snap.EnemyCount)
	}
	if snap.EnemyPosition != 150 || snap.FinishLinePosition != 250 {
		t.Errorf("EnemyPosition/Finish = %v/%v, expected 150/250", snap.EnemyPosition, snap.FinishLinePosition)
	}
	if snap.Speed != 5 || snap.Score != 0 || !snap.SoundEnabled {
		t.Errorf("unexpected defaults: %+v", snap)
	}
}

func TestGateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		gate     GateType
		value    int
		expected float64
	}{
		{"multiply", 10, GateMultiply, 3, 30},
		{"divide", 5, GateDivide, 2, 2},
		{"subtract clamps at one", 3, GateSubtract, 10, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := runningStore(t, DefaultRules())
			s.SetCrowdCount(tc.start)
			if err := s.UpdateCrowdCount(tc.gate, tc.value); err != nil {
				t.Fatalf("UpdateCrowdCount: %v", err)
			}
			if got := s.Snapshot().CrowdCount; got != tc.expected {
				t.Errorf("CrowdCount = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestUpdateCrowdCountRejectsNonPositive(t *testing.T) {
	s := runningStore(t, DefaultRules())
	s.SetCrowdCount(8)

	err := s.UpdateCrowdCount(GateDivide, 0)
	if !errors.Is(err, ErrInvalidGateValue) {
		t.Fatalf("expected ErrInvalidGateValue, got %v", err)
	}
	if got := s.Snapshot().CrowdCount; got != 8 {
		t.Errorf("CrowdCount changed to %v", got)
	}
}

func TestCrossGateFiresOnce(t *testing.T) {
	s := runningStore(t, DefaultRules())
	s.SetCrowdCount(4)

	gates := NewGateEntities([]Gate{{ID: "gate-0", Type: GateMultiply, Value: 2}})
	g := &gates[0]

	fired, err := s.CrossGate(g)
	if err != nil || !fired {
		t.Fatalf("first CrossGate = %v, %v", fired, err)
	}
	for i := 0; i < 5; i++ {
		fired, err = s.CrossGate(g)
		if err != nil || fired {
			t.Fatalf("repeat CrossGate = %v, %v", fired, err)
		}
	}
	if got := s.Snapshot().CrowdCount; got != 8 {
		t.Errorf("CrowdCount = %v, expected 8", got)
	}
	if g.Touches(g.X) {
		t.Error("resolved gate should be excluded from proximity checks")
	}
}

func TestCountsClampAtZero(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"negative", -3, 0},
		{"nan", math.NaN(), 0},
		{"positive", 12.5, 12.5},
		{"huge", math.Inf(1), MaxCount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(DefaultRules())
			s.SetCrowdCount(tc.in)
			s.SetEnemyCount(tc.in)

			snap := s.Snapshot()
			if snap.CrowdCount != tc.expected || snap.EnemyCount != tc.expected {
				t.Errorf("Crowd/Enemy = %v/%v, expected %v", snap.CrowdCount, snap.EnemyCount, tc.expected)
			}
			if snap.DisplayCrowd() < 0 {
				t.Errorf("DisplayCrowd() = %d", snap.DisplayCrowd())
			}
		})
	}
}

func TestNaNInputsDoNotNotify(t *testing.T) {
	s := NewStore(DefaultRules())
	s.SetCrowdCount(math.NaN())
	s.SetRunnerPosition(2)

	changes := 0
	cancel := s.Subscribe(func(Change) { changes++ })
	defer cancel()

	s.SetCrowdCount(math.NaN())
	s.SetRunnerPosition(math.NaN())
	s.SetEnemyPosition(math.NaN())
	if changes != 0 {
		t.Errorf("%d notifications for NaN inputs, expected 0", changes)
	}
	if got := s.Snapshot().EnemyPosition; got != DefaultRules().InitialEnemyPosition {
		t.Errorf("EnemyPosition = %v after NaN", got)
	}
}

func TestSetRunnerPositionClamps(t *testing.T) {
	s := NewStore(DefaultRules())
	tests := []struct {
		in, expected float64
	}{
		{3, 3},
		{9, 5},
		{-12, -5},
		{-5, -5},
		{math.NaN(), -5},
		{math.Inf(1), 5},
	}
	for _, tc := range tests {
		s.SetRunnerPosition(tc.in)
		if got := s.Snapshot().RunnerPosition; got != tc.expected {
			t.Errorf("SetRunnerPosition(%v) -> %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestInvalidTransitionsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(*Store) error
	}{
		{"start battle while ready", (*Store).StartBattle},
		{"end battle while ready", func(s *Store) error { return s.EndBattle(true) }},
		{"complete level while ready", (*Store).CompleteLevel},
		{"next level while ready", (*Store).NextLevel},
		{"advance stage while ready", (*Store).AdvanceStage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(DefaultRules())
			before := s.Snapshot()
			err := tc.cmd(s)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if s.Snapshot() != before {
				t.Error("snapshot changed after rejected command")
			}
		})
	}

	s := runningStore(t, DefaultRules())
	if err := s.StartGame(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("StartGame while running: expected ErrInvalidTransition, got %v", err)
	}
}

func TestNextLevelCarriesHalfTheCrowd(t *testing.T) {
	s := runningStore(t, DefaultRules())
	s.SetCrowdCount(7)
	if err := s.CompleteLevel(); err != nil {
		t.Fatalf("CompleteLevel: %v", err)
	}
	if got := s.Snapshot().Score; got != 70 {
		t.Errorf("Score after level bonus = %d, expected 70", got)
	}
	if err := s.NextLevel(); err != nil {
		t.Fatalf("NextLevel: %v", err)
	}

	snap := s.Snapshot()
	if snap.Level != 2 {
		t.Errorf("Level = %d, expected 2", snap.Level)
	}
	if snap.CrowdCount != 3 {
		t.Errorf("CrowdCount = %v, expected 3", snap.CrowdCount)
	}
	if snap.CurrentStage != 1 || snap.EnemyPosition != 150 {
		t.Errorf("Stage/EnemyPosition = %d/%v, expected 1/150", snap.CurrentStage, snap.EnemyPosition)
	}
	if snap.State != StateReady {
		t.Errorf("State = %s, expected ready", snap.State)
	}
}

func TestResetGameIsIdempotent(t *testing.T) {
	s := runningStore(t, DefaultRules())
	s.SetCrowdCount(40)
	s.SetEnemyCount(12)
	s.ToggleSound()
	if err := s.StartBattle(); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}

	s.ResetGame()
	first := s.Snapshot()
	s.ResetGame()
	second := s.Snapshot()

	if first != second {
		t.Errorf("second reset changed state: %+v vs %+v", first, second)
	}
	fresh := NewStore(DefaultRules()).Snapshot()
	fresh.SoundEnabled = false
	if first != fresh {
		t.Errorf("reset state = %+v, expected %+v", first, fresh)
	}
	if s.Clock().Pending() != 0 {
		t.Errorf("pending timers after reset = %d", s.Clock().Pending())
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore(DefaultRules())

	var events []Event
	unsubscribe := s.Subscribe(func(c Change) {
		events = append(events, c.Event)
		if c.Prev == c.Next {
			t.Error("listener notified without a change")
		}
	})

	s.SetCrowdCount(5)
	s.SetCrowdCount(5) // no change, no notification
	s.ToggleSound()
	if len(events) != 2 {
		t.Fatalf("got %d notifications, expected 2: %v", len(events), events)
	}
	if events[0] != EventCrowdSet || events[1] != EventSoundToggled {
		t.Errorf("events = %v", events)
	}

	unsubscribe()
	s.ToggleSound()
	if len(events) != 2 {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, policy := range []BattlePolicy{BattleAttrition, BattleTimed} {
		rules := DefaultRules()
		rules.Policy = policy
		s := NewStore(rules)

		last := 0
		for i := 0; i < 5000; i++ {
			switch rng.Intn(9) {
			case 0:
				_ = s.StartGame()
			case 1:
				s.SetEnemyCount(float64(rng.Intn(30)))
				_ = s.StartBattle()
			case 2:
				_ = s.EndBattle(rng.Intn(2) == 0)
			case 3:
				_ = s.CompleteLevel()
			case 4:
				_ = s.NextLevel()
			case 5:
				_ = s.AdvanceStage()
			case 6:
				_ = s.UpdateCrowdCount(gateTypes[rng.Intn(4)], rng.Intn(5)+1)
			default:
				s.Update(rng.Float64())
			}
			score := s.Snapshot().Score
			if score < last {
				t.Fatalf("%s: score dropped from %d to %d at step %d", policy, last, score, i)
			}
			last = score

			snap := s.Snapshot()
			if snap.CrowdCount < 0 || snap.EnemyCount < 0 {
				t.Fatalf("negative count: %+v", snap)
			}
			if snap.CurrentStage < 1 || snap.CurrentStage > rules.Waves {
				t.Fatalf("stage out of range: %d", snap.CurrentStage)
			}
		}
	}
}
