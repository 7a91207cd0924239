package combo

import "sync"

// Feed broadcasts snapshots to subscribers. Each subscriber gets an
// unbounded FIFO mailbox drained by its own goroutine, so Publish never
// blocks and every subscriber observes snapshots in publish order.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool
}

type subscriber struct {
	mu     sync.Mutex
	queue  []Snapshot
	notify chan struct{}
	done   chan struct{}
	out    chan Snapshot
	once   sync.Once
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscriber)}
}

// Subscribe registers a new subscriber. Any initial snapshots are delivered
// before published ones. The returned channel is closed when cancel is
// called or the feed is closed.
func (f *Feed) Subscribe(initial ...Snapshot) (<-chan Snapshot, func()) {
	sub := &subscriber{
		queue:  append([]Snapshot(nil), initial...),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan Snapshot),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(sub.out)
		return sub.out, func() {}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	go sub.run()

	cancel := func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		sub.stop()
	}
	return sub.out, cancel
}

// Publish enqueues s for every current subscriber.
func (f *Feed) Publish(s Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		sub.push(s)
	}
}

// Close stops all subscribers. Later subscriptions receive a closed channel.
func (f *Feed) Close() {
	f.mu.Lock()
	subs := f.subs
	f.subs = make(map[int]*subscriber)
	f.closed = true
	f.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (s *subscriber) push(snap Snapshot) {
	s.mu.Lock()
	s.queue = append(s.queue, snap)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *subscriber) run() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.notify:
				continue
			case <-s.done:
				return
			}
		}
		snap := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- snap:
		case <-s.done:
			return
		}
	}
}
