// Package testutil holds fakes shared by the package tests.
package testutil

import (
	"time"

	"flowcanvas/pkg/viewport"
)

// ManualScheduler queues callbacks until the test fires them.
type ManualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) viewport.Timer {
	t := &manualTimer{delay: d, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Pending returns how many live callbacks are queued.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// LastDelay returns the delay of the most recently scheduled callback.
func (s *ManualScheduler) LastDelay() time.Duration {
	if len(s.pending) == 0 {
		return 0
	}
	return s.pending[len(s.pending)-1].delay
}

// FireNext runs the oldest live callback and reports whether one ran.
func (s *ManualScheduler) FireNext() bool {
	for len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.fn()
		return true
	}
	return false
}

// FireAll runs callbacks until none are left or limit is reached, and returns
// how many ran. Callbacks that reschedule themselves are picked up.
func (s *ManualScheduler) FireAll(limit int) int {
	n := 0
	for n < limit && s.FireNext() {
		n++
	}
	return n
}
