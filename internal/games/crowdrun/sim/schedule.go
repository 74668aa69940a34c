package sim

// Timer is a pending timed transition. It fires at most once.
type Timer struct {
	at        float64
	seq       uint64
	fn        func()
	fired     bool
	cancelled bool
}

// Cancel prevents the timer from firing. Returns false if it already fired
// or was cancelled before.
func (t *Timer) Cancel() bool {
	if t == nil || t.fired || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// Active reports whether the timer is still waiting to fire.
func (t *Timer) Active() bool {
	return t != nil && !t.fired && !t.cancelled
}

// Scheduler runs deferred callbacks against virtual time. Time only moves
// when Advance is called, so tests can fast-forward deterministically.
type Scheduler struct {
	now     float64
	seq     uint64
	pending []*Timer
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time in seconds.
func (s *Scheduler) Now() float64 {
	return s.now
}

// After schedules fn to run once delay seconds from now.
func (s *Scheduler) After(delay float64, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &Timer{at: s.now + delay, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves virtual time forward by dt and fires every due timer in
// (fire time, schedule order) order. Callbacks may schedule new timers;
// those fire in the same call if they are already due.
// Returns the number of callbacks run.
func (s *Scheduler) Advance(dt float64) int {
	if dt > 0 {
		s.now += dt
	}

	fired := 0
	for {
		next := s.nextDue()
		if next == nil {
			break
		}
		next.fired = true
		fired++
		if next.fn != nil {
			next.fn()
		}
	}
	s.compact()
	return fired
}

// nextDue returns the earliest active timer whose time has come.
func (s *Scheduler) nextDue() *Timer {
	var best *Timer
	for _, t := range s.pending {
		if !t.Active() || t.at > s.now {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// compact drops fired and cancelled timers.
func (s *Scheduler) compact() {
	live := s.pending[:0]
	for _, t := range s.pending {
		if t.Active() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = live
}

// Pending returns the number of timers still waiting.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if t.Active() {
			n++
		}
	}
	return n
}

// CancelAll cancels every pending timer.
func (s *Scheduler) CancelAll() {
	for _, t := range s.pending {
		t.Cancel()
	}
	s.compact()
}
