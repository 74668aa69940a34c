package sim

import "math"

// StartBattle engages the active wave. The counts at this moment are kept
// as the battle's starting snapshot for scoring.
func (s *Store) StartBattle() error {
	if s.snap.State != StateRunning {
		return invalid("start battle", s.snap.State)
	}
	s.warningTimer.Cancel()
	s.crowdPending, s.enemyPending = 0, 0

	next := s.snap
	next.State = StateBattle
	next.BattleStatus = BattleEngaged
	next.InitialCrowdCount = next.CrowdCount
	next.InitialEnemyCount = next.EnemyCount
	next.BattleElapsed = 0
	next.WarningVisible = false

	if s.rules.Policy == BattleTimed {
		s.battleTimer = s.clock.After(s.rules.BattleDuration, s.battleTimeout)
	}
	s.commit(EventStartBattle, next)
	return nil
}

// EndBattle resolves the current battle. A win against a non-final wave
// moves on to the next wave; a win against the final wave heads for the
// finish line; a loss ends the run.
func (s *Store) EndBattle(won bool) error {
	if s.snap.State != StateBattle {
		return invalid("end battle", s.snap.State)
	}
	s.battleTimer.Cancel()

	next := s.snap
	next.Score = addScore(next.Score, s.rules.BattleScore(won, next.InitialEnemyCount))
	if !won {
		next.State = StateLose
		next.BattleStatus = BattleDefeat
		s.commit(EventEndBattle, next)
		return nil
	}
	next.State = StateRunning
	next.BattleStatus = BattleVictory
	next.WavesCleared = next.CurrentStage
	s.advance(&next)
	s.commit(EventEndBattle, next)
	return nil
}

// AdvanceStage moves to the next wave, or points the runner at the finish
// line once every wave is beaten. The stage never exceeds the wave count.
func (s *Store) AdvanceStage() error {
	if s.snap.State != StateRunning && s.snap.State != StateWin {
		return invalid("advance stage", s.snap.State)
	}
	s.stageTimer.Cancel()
	next := s.snap
	next.State = StateRunning
	s.advance(&next)
	s.commit(EventAdvanceStage, next)
	return nil
}

func (s *Store) advance(next *Snapshot) {
	if next.CurrentStage < s.rules.Waves {
		next.CurrentStage++
		next.EnemyPosition = s.rules.NextWavePosition
	} else {
		next.WavesCleared = s.rules.Waves
		next.EnemyPosition = next.FinishLinePosition
	}
	next.WarningLevel = 0
	next.WarningVisible = false
}

// battleTimeout resolves a timed battle by comparing the counts.
func (s *Store) battleTimeout() {
	if s.snap.State != StateBattle {
		return
	}
	s.battleTimer = nil

	next := s.snap
	won := next.CrowdCount > next.EnemyCount
	next.Score = addScore(next.Score, s.rules.BattleScore(won, next.InitialEnemyCount))
	if won {
		next.State = StateWin
		next.BattleStatus = BattleVictory
		next.WavesCleared = next.CurrentStage
		s.stageTimer = s.clock.After(s.rules.StageAdvanceDelay, func() {
			if s.snap.State == StateWin {
				//nolint:errcheck // State checked above
				s.AdvanceStage()
			}
		})
	} else {
		next.State = StateLose
		next.BattleStatus = BattleDefeat
	}
	s.commit(EventBattleTimeout, next)
}

// Update advances the simulation by dt seconds of frame time and then
// fires any timed transitions that became due.
func (s *Store) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	switch s.snap.State {
	case StateRunning:
		s.approach(dt)
	case StateBattle:
		s.fight(dt)
	}
	s.clock.Advance(dt)
}

// approach moves the next wave (or the finish line) toward the runner and
// raises proximity warnings. A wave inside warning range is approaching.
func (s *Store) approach(dt float64) {
	next := s.snap
	next.EnemyPosition -= dt * next.Speed

	finish := next.FinishApproach(s.rules.Waves)
	level := s.rules.warningLevelFor(next.EnemyPosition, finish)
	if level <= next.WarningLevel {
		s.commit(EventTick, next)
		return
	}
	if !finish {
		next.BattleStatus = BattleApproaching
	}
	next.WarningLevel = level
	next.WarningVisible = true
	s.warningTimer.Cancel()
	s.warningTimer = s.clock.After(s.rules.WarningDuration, s.hideWarning)
	s.commit(EventWarning, next)
}

func (s *Store) hideWarning() {
	if !s.snap.WarningVisible {
		return
	}
	next := s.snap
	next.WarningVisible = false
	s.commit(EventWarningHidden, next)
}

// fight applies one tick of mutual attrition. Both losses are computed from
// the counts at the start of the tick. Losses accumulate until they reach
// the change threshold so the displayed counts do not jitter.
func (s *Store) fight(dt float64) {
	next := s.snap
	next.BattleElapsed += dt

	crowd, enemies := next.CrowdCount, next.EnemyCount
	if crowd > 0 && enemies > 0 {
		s.crowdPending += dt * enemies * s.rules.CrowdLossRate
		s.enemyPending += dt * crowd * s.rules.EnemyLossRate
		if s.crowdPending >= s.rules.ChangeThreshold {
			next.CrowdCount = math.Max(0, crowd-s.crowdPending)
			s.crowdPending = 0
		}
		if s.enemyPending >= s.rules.ChangeThreshold {
			next.EnemyCount = math.Max(0, enemies-s.enemyPending)
			s.enemyPending = 0
		}
	}
	s.commit(EventTick, next)

	if s.rules.Policy != BattleAttrition || s.snap.State != StateBattle {
		return
	}
	// Enemy elimination is checked first: a simultaneous wipe is a victory.
	switch {
	case s.snap.EnemyCount <= 0:
		//nolint:errcheck // State checked above
		s.EndBattle(true)
	case s.snap.CrowdCount <= 0:
		//nolint:errcheck // State checked above
		s.EndBattle(false)
	}
}
