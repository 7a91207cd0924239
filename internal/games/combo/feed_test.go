package combo

import (
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("Channel closed unexpectedly")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for snapshot")
	}
	return Snapshot{}
}

func TestFeedPreservesOrder(t *testing.T) {
	f := NewFeed()
	defer f.Close()

	ch, cancel := f.Subscribe(Snapshot{Level: 0})
	defer cancel()

	// Publish more than any channel buffer would hold before reading
	for i := 1; i <= 100; i++ {
		f.Publish(Snapshot{Level: i})
	}

	for i := 0; i <= 100; i++ {
		if got := receive(t, ch).Level; got != i {
			t.Fatalf("Expected snapshot %d, got %d", i, got)
		}
	}
}

func TestFeedFanOut(t *testing.T) {
	f := NewFeed()
	defer f.Close()

	a, cancelA := f.Subscribe()
	b, cancelB := f.Subscribe()
	defer cancelA()
	defer cancelB()

	f.Publish(Snapshot{Level: 7})

	if receive(t, a).Level != 7 || receive(t, b).Level != 7 {
		t.Error("Both subscribers should receive the snapshot")
	}
}

func TestFeedCancelClosesChannel(t *testing.T) {
	f := NewFeed()
	defer f.Close()

	ch, cancel := f.Subscribe()
	cancel()
	cancel() // idempotent

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("Channel not closed after cancel")
	}

	// Publishing after cancel must not block
	f.Publish(Snapshot{Level: 1})
}

func TestFeedSubscribeAfterClose(t *testing.T) {
	f := NewFeed()
	f.Close()

	ch, cancel := f.Subscribe()
	defer cancel()
	if _, ok := <-ch; ok {
		t.Error("Subscribing to a closed feed should yield a closed channel")
	}
}
