package sim

import (
	"errors"
	"testing"
)

const frame = 1.0 / 60

func battleStore(t *testing.T, rules Rules, crowd, enemies float64) *Store {
	t.Helper()
	s := runningStore(t, rules)
	s.SetCrowdCount(crowd)
	s.SetEnemyCount(enemies)
	if err := s.StartBattle(); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	return s
}

func TestStartBattleSnapshotsCounts(t *testing.T) {
	s := battleStore(t, DefaultRules(), 20, 15)
	snap := s.Snapshot()

	if snap.State != StateBattle || snap.BattleStatus != BattleEngaged {
		t.Errorf("State/Status = %s/%s, expected battle/engaged", snap.State, snap.BattleStatus)
	}
	if snap.InitialCrowdCount != 20 || snap.InitialEnemyCount != 15 {
		t.Errorf("initial counts = %v/%v, expected 20/15", snap.InitialCrowdCount, snap.InitialEnemyCount)
	}

	for i := 0; i < 10; i++ {
		s.Update(frame)
	}
	snap = s.Snapshot()
	if snap.InitialCrowdCount != 20 || snap.InitialEnemyCount != 15 {
		t.Errorf("initial counts mutated mid-battle: %v/%v", snap.InitialCrowdCount, snap.InitialEnemyCount)
	}
}

func TestAttritionVictoryScoresInitialEnemies(t *testing.T) {
	s := battleStore(t, DefaultRules(), 20, 15)

	for i := 0; i < 60*30 && s.Snapshot().State == StateBattle; i++ {
		s.Update(frame)
	}

	snap := s.Snapshot()
	if snap.State != StateRunning || snap.BattleStatus != BattleVictory {
		t.Fatalf("State/Status = %s/%s, expected running/victory", snap.State, snap.BattleStatus)
	}
	if snap.Score != 75 {
		t.Errorf("Score = %d, expected 75", snap.Score)
	}
	if snap.CrowdCount <= 0 {
		t.Errorf("CrowdCount = %v, expected survivors", snap.CrowdCount)
	}
	if snap.CurrentStage != 2 || snap.EnemyPosition != 100 {
		t.Errorf("Stage/EnemyPosition = %d/%v, expected 2/100", snap.CurrentStage, snap.EnemyPosition)
	}
}

func TestAttritionDefeat(t *testing.T) {
	s := battleStore(t, DefaultRules(), 2, 40)

	for i := 0; i < 60*30 && s.Snapshot().State == StateBattle; i++ {
		s.Update(frame)
	}

	snap := s.Snapshot()
	if snap.State != StateLose || snap.BattleStatus != BattleDefeat {
		t.Fatalf("State/Status = %s/%s, expected lose/defeat", snap.State, snap.BattleStatus)
	}
	if snap.Score != 0 {
		t.Errorf("Score = %d, expected 0", snap.Score)
	}
	if snap.CrowdCount != 0 {
		t.Errorf("CrowdCount = %v, expected 0", snap.CrowdCount)
	}
}

func TestSimultaneousWipeIsVictory(t *testing.T) {
	s := battleStore(t, DefaultRules(), 1, 1)

	// One long tick drains both sides in the same step.
	s.Update(10)

	snap := s.Snapshot()
	if snap.CrowdCount != 0 || snap.EnemyCount != 0 {
		t.Fatalf("counts = %v/%v, expected both zero", snap.CrowdCount, snap.EnemyCount)
	}
	if snap.BattleStatus != BattleVictory {
		t.Errorf("BattleStatus = %s, expected victory", snap.BattleStatus)
	}
	if snap.Score != 5 {
		t.Errorf("Score = %d, expected 5", snap.Score)
	}
}

func TestSmallDecayAccumulates(t *testing.T) {
	// 0.2 crowd per second per enemy: a single frame is far below the
	// change threshold, so counts must hold and then drop in one step.
	s := battleStore(t, DefaultRules(), 1, 1)

	s.Update(frame)
	if snap := s.Snapshot(); snap.CrowdCount != 1 || snap.EnemyCount != 1 {
		t.Fatalf("counts = %v/%v after one frame, expected 1/1", snap.CrowdCount, snap.EnemyCount)
	}
	for i := 0; i < 60; i++ {
		s.Update(frame)
	}
	if got := s.Snapshot().State; got != StateBattle {
		t.Fatalf("State = %s, expected battle", got)
	}
	if got := s.Snapshot().CrowdCount; got >= 1 {
		t.Errorf("CrowdCount = %v after a second, expected decay", got)
	}
}

func TestFinalWaveHeadsForFinish(t *testing.T) {
	s := runningStore(t, DefaultRules())
	for stage := 1; stage <= 2; stage++ {
		s.SetEnemyCount(3)
		if err := s.StartBattle(); err != nil {
			t.Fatalf("StartBattle stage %d: %v", stage, err)
		}
		if err := s.EndBattle(true); err != nil {
			t.Fatalf("EndBattle stage %d: %v", stage, err)
		}
	}

	snap := s.Snapshot()
	if snap.CurrentStage != 2 {
		t.Errorf("CurrentStage = %d, expected 2", snap.CurrentStage)
	}
	if snap.EnemyPosition != snap.FinishLinePosition {
		t.Errorf("EnemyPosition = %v, expected finish line %v", snap.EnemyPosition, snap.FinishLinePosition)
	}
	if !snap.FinishApproach(2) {
		t.Error("expected finish approach after the final wave")
	}
	if snap.Score != 30 {
		t.Errorf("Score = %d, expected 30", snap.Score)
	}
}

func TestFirstVictoryIsNotFinishApproach(t *testing.T) {
	s := battleStore(t, DefaultRules(), 10, 2)
	if err := s.EndBattle(true); err != nil {
		t.Fatalf("EndBattle: %v", err)
	}
	if s.Snapshot().FinishApproach(2) {
		t.Error("second wave still ahead")
	}
}

func TestAdvanceStageFromRunning(t *testing.T) {
	s := runningStore(t, DefaultRules())

	if err := s.AdvanceStage(); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if snap := s.Snapshot(); snap.CurrentStage != 2 || snap.EnemyPosition != 100 {
		t.Errorf("Stage/EnemyPosition = %d/%v, expected 2/100", snap.CurrentStage, snap.EnemyPosition)
	}

	if err := s.AdvanceStage(); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	snap := s.Snapshot()
	if snap.CurrentStage != 2 {
		t.Errorf("CurrentStage = %d, expected to stay at 2", snap.CurrentStage)
	}
	if snap.EnemyPosition != 250 {
		t.Errorf("EnemyPosition = %v, expected 250", snap.EnemyPosition)
	}
}

func TestTimedBattleWinThenStageTimer(t *testing.T) {
	rules := DefaultRules()
	rules.Policy = BattleTimed
	s := battleStore(t, rules, 20, 15)

	// 0.5s steps keep virtual time exact.
	for i := 0; i < 5; i++ {
		s.Update(0.5)
	}
	if got := s.Snapshot().State; got != StateBattle {
		t.Fatalf("State = %s before timeout, expected battle", got)
	}

	s.Update(0.5)
	snap := s.Snapshot()
	if snap.State != StateWin || snap.BattleStatus != BattleVictory {
		t.Fatalf("State/Status = %s/%s, expected win/victory", snap.State, snap.BattleStatus)
	}
	if snap.Score != 75 {
		t.Errorf("Score = %d, expected 75", snap.Score)
	}

	for i := 0; i < 3; i++ {
		s.Update(0.5)
	}
	if got := s.Snapshot().State; got != StateWin {
		t.Fatalf("State = %s before stage delay, expected win", got)
	}
	s.Update(0.5)
	snap = s.Snapshot()
	if snap.State != StateRunning || snap.CurrentStage != 2 || snap.EnemyPosition != 100 {
		t.Errorf("after stage timer: State=%s Stage=%d EnemyPosition=%v", snap.State, snap.CurrentStage, snap.EnemyPosition)
	}
}

func TestTimedBattleLoss(t *testing.T) {
	rules := DefaultRules()
	rules.Policy = BattleTimed
	s := battleStore(t, rules, 2, 20)

	for i := 0; i < 6; i++ {
		s.Update(0.5)
	}
	snap := s.Snapshot()
	if snap.State != StateLose || snap.BattleStatus != BattleDefeat {
		t.Errorf("State/Status = %s/%s, expected lose/defeat", snap.State, snap.BattleStatus)
	}
}

func TestEndBattleCancelsTimedResolution(t *testing.T) {
	rules := DefaultRules()
	rules.Policy = BattleTimed
	s := battleStore(t, rules, 20, 15)

	if err := s.EndBattle(false); err != nil {
		t.Fatalf("EndBattle: %v", err)
	}
	if s.Clock().Pending() != 0 {
		t.Errorf("pending timers = %d, expected 0", s.Clock().Pending())
	}
	for i := 0; i < 10; i++ {
		s.Update(0.5)
	}
	if got := s.Snapshot().State; got != StateLose {
		t.Errorf("State = %s, expected lose", got)
	}
	if err := s.EndBattle(true); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("EndBattle after loss: expected ErrInvalidTransition, got %v", err)
	}
}

func TestResetDuringStageDelayCancelsAdvance(t *testing.T) {
	rules := DefaultRules()
	rules.Policy = BattleTimed
	s := battleStore(t, rules, 20, 15)
	for i := 0; i < 6; i++ {
		s.Update(0.5)
	}
	if got := s.Snapshot().State; got != StateWin {
		t.Fatalf("State = %s, expected win", got)
	}

	s.ResetGame()
	for i := 0; i < 10; i++ {
		s.Update(0.5)
	}
	snap := s.Snapshot()
	if snap.State != StateReady || snap.CurrentStage != 1 {
		t.Errorf("State/Stage = %s/%d, expected ready/1", snap.State, snap.CurrentStage)
	}
}

func TestApproachWarnings(t *testing.T) {
	s := runningStore(t, DefaultRules())

	// 2.5 units per step at the default speed.
	for i := 0; i < 19; i++ {
		s.Update(0.5)
	}
	if snap := s.Snapshot(); snap.WarningLevel != 0 || snap.WarningVisible {
		t.Fatalf("warning raised early: %+v", snap)
	}

	s.Update(0.5)
	snap := s.Snapshot()
	if snap.EnemyPosition != 100 {
		t.Fatalf("EnemyPosition = %v, expected 100", snap.EnemyPosition)
	}
	if snap.WarningLevel != 1 || !snap.WarningVisible {
		t.Errorf("WarningLevel/Visible = %d/%v, expected 1/true", snap.WarningLevel, snap.WarningVisible)
	}
	if snap.BattleStatus != BattleApproaching {
		t.Errorf("BattleStatus = %s, expected approaching", snap.BattleStatus)
	}

	for i := 0; i < 5; i++ {
		s.Update(0.5)
	}
	if s.Snapshot().WarningVisible {
		t.Error("warning banner should hide after its duration")
	}

	for i := 0; i < 7; i++ {
		s.Update(0.5)
	}
	snap = s.Snapshot()
	if snap.EnemyPosition != 70 || snap.WarningLevel != 2 || !snap.WarningVisible {
		t.Errorf("at 70: EnemyPosition=%v WarningLevel=%d Visible=%v", snap.EnemyPosition, snap.WarningLevel, snap.WarningVisible)
	}
}

func TestUpdateIgnoresNegativeDelta(t *testing.T) {
	s := runningStore(t, DefaultRules())
	before := s.Snapshot()
	s.Update(-1)
	if s.Snapshot() != before {
		t.Error("negative dt changed state")
	}
}
