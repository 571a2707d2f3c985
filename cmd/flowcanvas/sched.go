package main

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flowcanvas/pkg/viewport"
)

// teaScheduler posts timer callbacks back into the program as messages, so
// settle and auto-pan ticks run inside Update with the pointer events.
type teaScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *teaScheduler) bind(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

type timerMsg struct{ t *teaTimer }

type teaTimer struct {
	timer *time.Timer
	done  atomic.Bool
	fn    func()
}

func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) viewport.Timer {
	t := &teaTimer{fn: fn}
	t.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(timerMsg{t})
		}
	})
	return t
}

// Stop reports whether it prevented fn from running.
func (t *teaTimer) Stop() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}

// fire runs fn unless the timer was stopped after its message was queued.
func (t *teaTimer) fire() {
	if t.done.CompareAndSwap(false, true) {
		t.fn()
	}
}
