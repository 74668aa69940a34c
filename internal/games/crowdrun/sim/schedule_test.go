package sim

import "testing"

func TestSchedulerFiresInOrder(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.After(2, func() { order = append(order, "b") })
	s.After(1, func() { order = append(order, "a") })
	s.After(2, func() { order = append(order, "c") })

	if n := s.Advance(0.5); n != 0 {
		t.Fatalf("fired %d timers early", n)
	}
	if n := s.Advance(2); n != 3 {
		t.Fatalf("fired %d timers, expected 3", n)
	}

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, expected %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, expected %v", order, want)
			break
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	timer := s.After(1, func() { fired = true })

	if !timer.Active() {
		t.Fatal("new timer should be active")
	}
	if !timer.Cancel() {
		t.Fatal("first Cancel should succeed")
	}
	if timer.Cancel() {
		t.Error("second Cancel should report false")
	}

	s.Advance(5)
	if fired {
		t.Error("cancelled timer fired")
	}

	var nilTimer *Timer
	if nilTimer.Cancel() || nilTimer.Active() {
		t.Error("nil timer should be inert")
	}
}

func TestSchedulerChainedTimers(t *testing.T) {
	s := NewScheduler()
	var fired []float64

	s.After(1, func() {
		fired = append(fired, s.Now())
		s.After(0, func() { fired = append(fired, s.Now()) })
		s.After(5, func() { fired = append(fired, s.Now()) })
	})

	if n := s.Advance(1); n != 2 {
		t.Fatalf("fired %d timers, expected 2", n)
	}
	if n := s.Pending(); n != 1 {
		t.Errorf("Pending() = %d, expected 1", n)
	}
	if n := s.Advance(4.5); n != 0 {
		t.Errorf("fired %d timers before time 6", n)
	}
	s.Advance(0.5)
	if len(fired) != 3 {
		t.Errorf("fired = %v, expected 3 callbacks", fired)
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler()
	count := 0
	for i := 0; i < 4; i++ {
		s.After(float64(i), func() { count++ })
	}
	s.CancelAll()
	s.Advance(10)

	if count != 0 {
		t.Errorf("%d callbacks ran after CancelAll", count)
	}
	if n := s.Pending(); n != 0 {
		t.Errorf("Pending() = %d after CancelAll", n)
	}
}
