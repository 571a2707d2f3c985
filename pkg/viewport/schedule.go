package viewport

import (
	"slices"
	"sync"
	"time"
)

// Timer is a scheduled callback that can be stopped. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. Hosts with an event loop implement it by
// posting fn back onto that loop so callbacks never race with pointer handling.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// TimerScheduler schedules with time.AfterFunc. Callbacks run on the timer's own
// goroutine and touch viewport and gesture state unlocked, so it is only safe
// when the host holds one mutex around every engine call and wraps fn in it too.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// QueueScheduler holds callbacks until the host drains them with RunDue, so
// they run on the host's goroutine between its other calls. AfterFunc, Stop and
// Next may be called from any goroutine.
type QueueScheduler struct {
	mu    sync.Mutex
	now   func() time.Time
	queue []*queuedTimer
}

type queuedTimer struct {
	s   *QueueScheduler
	due time.Time
	fn  func()
}

// NewQueueScheduler reads deadlines from now, or time.Now when nil.
func NewQueueScheduler(now func() time.Time) *QueueScheduler {
	if now == nil {
		now = time.Now
	}
	return &QueueScheduler{now: now}
}

func (s *QueueScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &queuedTimer{s: s, due: s.now().Add(d), fn: fn}
	s.queue = append(s.queue, t)
	return t
}

// Stop removes the callback and reports whether it was still queued.
func (t *queuedTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	i := slices.Index(t.s.queue, t)
	if i < 0 {
		return false
	}
	t.s.queue = slices.Delete(t.s.queue, i, i+1)
	return true
}

// Next returns the earliest deadline, for hosts choosing when to wake up.
func (s *QueueScheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	next := s.queue[0].due
	for _, t := range s.queue[1:] {
		if t.due.Before(next) {
			next = t.due
		}
	}
	return next, true
}

// RunDue runs, on the calling goroutine, every callback whose deadline has
// passed and returns how many ran. Callbacks scheduled while it runs wait for
// the next call.
func (s *QueueScheduler) RunDue() int {
	s.mu.Lock()
	now := s.now()
	var due []*queuedTimer
	kept := s.queue[:0]
	for _, t := range s.queue {
		if t.due.After(now) {
			kept = append(kept, t)
		} else {
			due = append(due, t)
		}
	}
	clear(s.queue[len(kept):])
	s.queue = kept
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Settle runs a one-shot callback once the viewport size has had time to
// stabilise. It can be cancelled until it fires.
type Settle struct {
	sched Scheduler
	timer Timer
}

func NewSettle(sched Scheduler) *Settle {
	if sched == nil {
		sched = NewQueueScheduler(nil)
	}
	return &Settle{sched: sched}
}

// Schedule arms the callback, replacing any pending one.
func (s *Settle) Schedule(delay time.Duration, fn func()) {
	s.Cancel()
	s.timer = s.sched.AfterFunc(delay, func() {
		s.timer = nil
		fn()
	})
}

// Pending reports whether a callback is armed and has not yet fired.
func (s *Settle) Pending() bool {
	return s.timer != nil
}

// Cancel stops a pending callback and reports whether one was stopped.
func (s *Settle) Cancel() bool {
	if s.timer == nil {
		return false
	}
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}
