// Package audio turns simulation changes into sound cues. The Director
// decides what to play; a Player makes the noise.
package audio

// Cue names a sound effect.
type Cue string

const (
	CueButtonClick   Cue = "buttonClick"
	CueGatePositive  Cue = "gatePositive"
	CueGateNegative  Cue = "gateNegative"
	CueBattleStart   Cue = "battleStart"
	CueBattleOngoing Cue = "battleOngoing" // Loops until stopped
	CueVictory       Cue = "victory"
	CueDefeat        Cue = "defeat"
	CueWarning       Cue = "warning"
)

// Cues lists every cue.
var Cues = []Cue{
	CueButtonClick,
	CueGatePositive,
	CueGateNegative,
	CueBattleStart,
	CueBattleOngoing,
	CueVictory,
	CueDefeat,
	CueWarning,
}

// Player starts and stops cues. Implementations must be safe to call from
// the game loop goroutine.
type Player interface {
	Play(c Cue)
	Stop(c Cue)
	StopAll()
	Close() error
}

// NopPlayer discards every cue. It is used when no audio device is available.
type NopPlayer struct{}

func (NopPlayer) Play(Cue)     {}
func (NopPlayer) Stop(Cue)     {}
func (NopPlayer) StopAll()     {}
func (NopPlayer) Close() error { return nil }
