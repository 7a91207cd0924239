package combo

import (
	"testing"
	"time"
)

func TestManualSchedulerFiresInOrder(t *testing.T) {
	s := NewManualScheduler()
	var fired []string

	s.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "c") })
	s.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	s.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "b") })

	s.Advance(200 * time.Millisecond)
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("Expected [a b], got %v", fired)
	}

	s.Advance(100 * time.Millisecond)
	if len(fired) != 3 || fired[2] != "c" {
		t.Fatalf("Expected c to fire at 300ms, got %v", fired)
	}
	if s.Now() != 300*time.Millisecond {
		t.Errorf("Expected clock at 300ms, got %v", s.Now())
	}
}

func TestManualSchedulerChainsWithinWindow(t *testing.T) {
	s := NewManualScheduler()
	count := 0

	var tick func()
	tick = func() {
		count++
		s.AfterFunc(10*time.Millisecond, tick)
	}
	s.AfterFunc(10*time.Millisecond, tick)

	s.Advance(55 * time.Millisecond)
	if count != 5 {
		t.Errorf("Expected 5 chained firings, got %d", count)
	}
	if s.Pending() != 1 {
		t.Errorf("Expected 1 pending task, got %d", s.Pending())
	}
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	fired := false

	timer := s.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Error("Stop() on a pending task should return true")
	}
	if timer.Stop() {
		t.Error("Second Stop() should return false")
	}

	s.Advance(2 * time.Second)
	if fired {
		t.Error("Stopped task fired")
	}
}
