package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const sampleRate = beep.SampleRate(44100)

// tone is a single note: a frequency held for a duration.
type tone struct {
	freq float64
	dur  time.Duration
}

// oscillator generates a sine or square wave for a fixed number of samples.
type oscillator struct {
	freq   float64
	phase  float64
	left   int
	square bool
}

func newOscillator(t tone, square bool) *oscillator {
	return &oscillator{freq: t.freq, left: sampleRate.N(t.dur), square: square}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.left <= 0 {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * o.phase)
		if o.square {
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		}
		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.left--
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// fade applies a linear attack and release to a finite stream.
type fade struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

func newFade(s beep.Streamer, total time.Duration) *fade {
	return &fade{
		s:       s,
		total:   sampleRate.N(total),
		attack:  sampleRate.N(5 * time.Millisecond),
		release: sampleRate.N(30 * time.Millisecond),
	}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.attack > 0 && f.pos < f.attack {
			vol = float64(f.pos) / float64(f.attack)
		}
		if rem := f.total - f.pos; f.release > 0 && rem < f.release {
			vol = math.Max(0, float64(rem)/float64(f.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }

// cueSound describes how a cue sounds.
type cueSound struct {
	notes  []tone
	square bool
	volume float64
	loop   bool
}

var cueSounds = map[Cue]cueSound{
	CueButtonClick:   {notes: []tone{{1200, 30 * time.Millisecond}}, square: true, volume: 0.5},
	CueGatePositive:  {notes: []tone{{660, 70 * time.Millisecond}, {880, 90 * time.Millisecond}}, volume: 0.3},
	CueGateNegative:  {notes: []tone{{440, 70 * time.Millisecond}, {330, 110 * time.Millisecond}}, volume: 0.3},
	CueBattleStart:   {notes: []tone{{220, 80 * time.Millisecond}, {330, 80 * time.Millisecond}, {440, 160 * time.Millisecond}}, square: true, volume: 0.4},
	CueBattleOngoing: {notes: []tone{{110, 150 * time.Millisecond}, {0, 100 * time.Millisecond}, {98, 150 * time.Millisecond}, {0, 100 * time.Millisecond}}, square: true, volume: 0.2, loop: true},
	CueVictory:       {notes: []tone{{523, 120 * time.Millisecond}, {659, 120 * time.Millisecond}, {784, 120 * time.Millisecond}, {1047, 300 * time.Millisecond}}, volume: 0.5},
	CueDefeat:        {notes: []tone{{392, 200 * time.Millisecond}, {330, 200 * time.Millisecond}, {262, 400 * time.Millisecond}}, volume: 0.5},
	CueWarning:       {notes: []tone{{880, 100 * time.Millisecond}, {0, 60 * time.Millisecond}, {880, 100 * time.Millisecond}}, square: true, volume: 0.4},
}

// synthesize builds a one-pass streamer for a cue. Looping is left to the
// player so the loop can be paused.
func synthesize(c Cue) (beep.Streamer, bool) {
	snd, ok := cueSounds[c]
	if !ok {
		return nil, false
	}
	parts := make([]beep.Streamer, 0, len(snd.notes))
	for _, n := range snd.notes {
		if n.freq <= 0 {
			parts = append(parts, beep.Silence(sampleRate.N(n.dur)))
			continue
		}
		parts = append(parts, newFade(newOscillator(n, snd.square), n.dur))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   math.Log2(snd.volume),
	}, true
}
