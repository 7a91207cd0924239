package combo

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled task.
type Timer interface {
	// Stop prevents the task from firing. Returns false if it already fired
	// or was stopped.
	Stop() bool
}

// Scheduler runs delayed tasks. Playback and pacing delays go through it so
// tests can drive time explicitly.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// RealScheduler returns a Scheduler backed by time.AfterFunc.
func RealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a virtual clock. Tasks fire only when Advance moves the
// clock past their deadline, on the goroutine that calls Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	s   *ManualScheduler
	at  time.Duration
	seq uint64
	f   func()
}

// NewManualScheduler creates a virtual clock at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc schedules f at now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &manualTask{s: s, at: s.now + d, seq: s.seq, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Stop removes the task if it is still pending.
func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.remove(t)
}

// remove deletes t from the pending list. Caller holds mu.
func (s *ManualScheduler) remove(t *manualTask) bool {
	for i, p := range s.tasks {
		if p == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, firing every task whose deadline is
// reached in deadline order. Tasks scheduled by fired tasks are honoured if
// they also fall within the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		next := s.earliest()
		if next == nil || next.at > target {
			break
		}
		s.remove(next)
		s.now = next.at
		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// earliest returns the next task to fire. Caller holds mu.
func (s *ManualScheduler) earliest() *manualTask {
	var best *manualTask
	for _, t := range s.tasks {
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of tasks not yet fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
