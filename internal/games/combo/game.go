package combo

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/funny-combination/internal/score"
)

// Timing contract for playback and pacing.
const (
	RevealDuration = 1000 * time.Millisecond // Symbol visible
	GapDuration    = 200 * time.Millisecond  // Blank between symbols
	PaceDuration   = 500 * time.Millisecond  // Pause after a completed level
	StoreTimeout   = 5 * time.Second         // Bound on the game-over store round trip
)

// Options configures a Game. Zero values are usable.
type Options struct {
	Seed      int64            // RNG seed, 0 = time-based
	Store     score.Store      // Finished runs are recorded here; nil disables recording
	Scheduler Scheduler        // Defaults to RealScheduler
	Now       func() time.Time // Clock for record dates, defaults to time.Now
	Logger    *log.Logger      // Defaults to a discard logger
}

// Game is the sequence state machine. All transitions are serialized by mu;
// delayed steps carry the run generation that scheduled them and do nothing
// once Start has moved on to a new run.
type Game struct {
	mu     sync.Mutex
	rng    *rand.Rand
	sched  Scheduler
	store  score.Store
	now    func() time.Time
	logger *log.Logger
	feed   *Feed

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // in-flight store work

	// Run state
	gen           uint64
	sequence      []Symbol
	progress      []Symbol
	level         int
	phase         Phase
	lastCompleted int
	pacing        bool
	revealed      Symbol
	outcome       Outcome

	pending Timer
	closed  bool
}

// New creates an idle game. Call Start to begin a run.
func New(opts Options) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = RealScheduler()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Game{
		rng:    rand.New(rand.NewSource(seed)),
		sched:  sched,
		store:  opts.Store,
		now:    now,
		logger: logger,
		feed:   NewFeed(),
		ctx:    ctx,
		cancel: cancel,
		level:  1,
		phase:  PhaseIdle,
	}
}

// Start discards the current run and begins a new one at level 1.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.stopPendingLocked()

	g.gen++
	g.sequence = nil
	g.progress = nil
	g.level = 1
	g.phase = PhaseIdle
	g.lastCompleted = 0
	g.pacing = false
	g.revealed = SymbolNone
	g.outcome = Outcome{}

	g.logger.Debug("run started", "run", g.gen)
	g.extendLocked()
}

// Reset is Start; provided for "play again".
func (g *Game) Reset() {
	g.Start()
}

// Submit applies a player tap. It is ignored unless the player has the turn.
func (g *Game) Submit(s Symbol) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || !s.Valid() || g.phase != PhasePlayerTurn || g.pacing {
		return
	}

	g.progress = append(g.progress, s)
	i := len(g.progress) - 1

	switch {
	case i >= len(g.sequence) || g.progress[i] != g.sequence[i]:
		g.gameOverLocked()
	case len(g.progress) == len(g.sequence):
		g.completeLevelLocked()
	default:
		g.publishLocked()
	}
}

// Snapshot returns the current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe returns a channel receiving the current snapshot followed by one
// snapshot per transition, in order. cancel releases the subscription.
func (g *Game) Subscribe() (<-chan Snapshot, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.feed.Subscribe(g.snapshotLocked())
}

// Close stops pending timers, waits for in-flight store work (bounded by
// StoreTimeout) and closes all subscriptions. The game cannot be restarted
// afterwards.
func (g *Game) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.stopPendingLocked()
	g.mu.Unlock()

	g.wg.Wait()
	g.cancel()
	g.feed.Close()
}

// extendLocked appends a random symbol and starts playback.
func (g *Game) extendLocked() {
	g.sequence = append(g.sequence, Alphabet[g.rng.Intn(len(Alphabet))])
	g.progress = nil
	g.phase = PhasePlaying
	g.pacing = false
	g.revealLocked(0)
}

// revealLocked shows sequence[i] and schedules its hide.
func (g *Game) revealLocked(i int) {
	g.revealed = g.sequence[i]
	g.publishLocked()
	g.scheduleLocked(RevealDuration, func() { g.hideLocked(i) })
}

// hideLocked blanks the display and schedules the next symbol.
func (g *Game) hideLocked(i int) {
	g.revealed = SymbolNone
	g.publishLocked()
	g.scheduleLocked(GapDuration, func() { g.advanceLocked(i + 1) })
}

// advanceLocked reveals sequence[i], or hands the turn to the player once
// the whole sequence has been shown.
func (g *Game) advanceLocked(i int) {
	if i < len(g.sequence) {
		g.revealLocked(i)
		return
	}
	g.phase = PhasePlayerTurn
	g.publishLocked()
}

func (g *Game) completeLevelLocked() {
	g.lastCompleted = len(g.sequence)
	g.level++
	g.phase = PhasePlaying
	g.pacing = true
	g.logger.Debug("level complete", "run", g.gen, "length", g.lastCompleted)
	g.publishLocked()
	g.scheduleLocked(PaceDuration, g.extendLocked)
}

func (g *Game) gameOverLocked() {
	g.phase = PhaseGameOver
	g.revealed = SymbolNone
	length := g.lastCompleted
	g.logger.Info("game over", "run", g.gen, "level", g.level, "completed", length)

	if g.store == nil {
		g.outcome = Outcome{Ready: true, Length: length}
		g.publishLocked()
		return
	}

	g.publishLocked()
	g.wg.Add(1)
	go g.settle(g.gen, length, g.now())
}

// settle runs the game-over handler against the store and publishes the
// outcome if the run is still current.
func (g *Game) settle(gen uint64, length int, finished time.Time) {
	defer g.wg.Done()

	ctx, cancel := context.WithTimeout(g.ctx, StoreTimeout)
	defer cancel()

	out := Outcome{Ready: true, Length: length}
	if length > 0 {
		res, err := score.Submit(ctx, g.store, score.NewRecord(length, finished))
		out.NewHighScore = res.NewHighScore
		out.Recorded = res.Recorded
		out.Best = bestAfter(res)
		out.Err = err
	} else {
		best, ok, err := g.store.BestLength(ctx)
		if ok {
			out.Best = best
		}
		out.Err = err
	}

	if out.Err != nil {
		g.logger.Warn("could not record score", "run", gen, "length", length, "error", out.Err)
	} else if out.NewHighScore {
		g.logger.Info("new high score", "run", gen, "length", length)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.gen != gen {
		return
	}
	g.outcome = out
	g.publishLocked()
}

// bestAfter returns the best length known once res has been applied.
func bestAfter(res score.Result) int {
	best := 0
	if res.HadBest {
		best = res.PreviousBest
	}
	if res.Recorded && res.Record.SequenceLength > best {
		best = res.Record.SequenceLength
	}
	return best
}

// scheduleLocked runs step after d unless the run has changed by then.
func (g *Game) scheduleLocked(d time.Duration, step func()) {
	gen := g.gen
	g.pending = g.sched.AfterFunc(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed || g.gen != gen {
			return
		}
		g.pending = nil
		step()
	})
}

func (g *Game) stopPendingLocked() {
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

func (g *Game) snapshotLocked() Snapshot {
	return Snapshot{
		Run:                 g.gen,
		Phase:               g.phase,
		Level:               g.level,
		Progress:            len(g.progress),
		LastCompletedLength: g.lastCompleted,
		Pacing:              g.pacing,
		Revealed:            g.revealed,
		Outcome:             g.outcome,
	}
}

func (g *Game) publishLocked() {
	g.feed.Publish(g.snapshotLocked())
}
