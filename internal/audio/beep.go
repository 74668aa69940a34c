package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// BeepPlayer synthesizes cues and plays them through the system speaker.
type BeepPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	active map[Cue]*beep.Ctrl
	closed bool
}

// NewBeepPlayer opens the audio device. It fails on machines without one;
// callers fall back to NopPlayer.
func NewBeepPlayer() (*BeepPlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	p := &BeepPlayer{
		mixer:  &beep.Mixer{},
		active: make(map[Cue]*beep.Ctrl),
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play starts a cue. A looping cue that is already playing is left alone;
// a one-shot cue restarts.
func (p *BeepPlayer) Play(c Cue) {
	snd, ok := cueSounds[c]
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()

	if ctrl, ok := p.active[c]; ok {
		if snd.loop && ctrl.Streamer != nil {
			return
		}
		silence(ctrl)
	}

	var s beep.Streamer
	if snd.loop {
		s = beep.Iterate(func() beep.Streamer {
			next, _ := synthesize(c)
			return next
		})
	} else {
		s, _ = synthesize(c)
	}
	ctrl := &beep.Ctrl{Streamer: s}
	p.active[c] = ctrl
	p.mixer.Add(ctrl)
}

// Stop silences a cue.
func (p *BeepPlayer) Stop(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctrl, ok := p.active[c]
	if !ok {
		return
	}
	speaker.Lock()
	silence(ctrl)
	speaker.Unlock()
	delete(p.active, c)
}

// StopAll silences every cue.
func (p *BeepPlayer) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopAll()
}

func (p *BeepPlayer) stopAll() {
	speaker.Lock()
	for c, ctrl := range p.active {
		silence(ctrl)
		delete(p.active, c)
	}
	p.mixer.Clear()
	speaker.Unlock()
}

// Close stops playback and releases the audio device.
func (p *BeepPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.stopAll()
	p.closed = true
	speaker.Close()
	return nil
}

// silence ends a cue. A Ctrl without a streamer reports it is drained, so
// the mixer drops it on its next pass.
func silence(ctrl *beep.Ctrl) {
	ctrl.Streamer = nil
}
