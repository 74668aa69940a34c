package audio

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun/sim"
)

// Director maps store changes to cues.
type Director struct {
	player Player
	log    *log.Logger
}

// NewDirector creates a director driving player. A nil logger discards output.
func NewDirector(player Player, logger *log.Logger) *Director {
	if player == nil {
		player = NopPlayer{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Director{player: player, log: logger}
}

// Attach subscribes the director to a store and returns the unsubscribe func.
func (d *Director) Attach(s *sim.Store) func() {
	return s.Subscribe(d.Handle)
}

// Handle reacts to a single change.
func (d *Director) Handle(c sim.Change) {
	prev, next := c.Prev, c.Next

	if !next.SoundEnabled {
		if prev.SoundEnabled {
			d.player.StopAll()
		}
		return
	}

	if prev.State == sim.StateBattle && next.State != sim.StateBattle {
		d.player.Stop(CueBattleOngoing)
	}

	switch c.Event {
	case sim.EventSoundToggled, sim.EventStartGame, sim.EventNextLevel:
		d.play(CueButtonClick)
	case sim.EventReset:
		d.player.StopAll()
	case sim.EventGate:
		if next.CrowdCount > prev.CrowdCount {
			d.play(CueGatePositive)
		} else {
			d.play(CueGateNegative)
		}
	case sim.EventStartBattle:
		d.play(CueBattleStart)
		d.play(CueBattleOngoing)
	case sim.EventWarning:
		d.play(CueWarning)
	case sim.EventCompleteLevel:
		d.play(CueVictory)
	}

	if next.BattleStatus != prev.BattleStatus {
		switch next.BattleStatus {
		case sim.BattleVictory:
			d.play(CueVictory)
		case sim.BattleDefeat:
			d.play(CueDefeat)
		}
	}
}

func (d *Director) play(c Cue) {
	d.log.Debug("cue", "name", c)
	d.player.Play(c)
}
