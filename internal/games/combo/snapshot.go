package combo

// Phase is the turn phase of a run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePlayerTurn
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome is the result of the game-over handler. The zero value means the
// handler has not finished.
type Outcome struct {
	Ready        bool  // Handler finished, remaining fields are final
	Length       int   // LastCompletedLength of the run
	NewHighScore bool  // Qualified against the pre-insert best
	Recorded     bool  // Record was persisted
	Best         int   // Best known length after this run, 0 if none
	Err          error // Non-fatal store warning
}

// Snapshot is an immutable view of the run, published on every transition.
// It exposes only the currently revealed symbol, never the full sequence.
type Snapshot struct {
	Run                 uint64 // Run generation, bumped by Start
	Phase               Phase
	Level               int
	Progress            int // Symbols entered so far this level
	LastCompletedLength int
	Pacing              bool    // Level complete, next extend pending
	Revealed            Symbol  // Symbol currently shown during playback, SymbolNone if hidden
	Outcome             Outcome // Ready once the game-over handler finishes
}

// Shown returns the revealed symbol, if any.
func (s Snapshot) Shown() (Symbol, bool) {
	return s.Revealed, s.Revealed != SymbolNone
}

// AcceptsInput reports whether Submit would be applied.
func (s Snapshot) AcceptsInput() bool {
	return s.Phase == PhasePlayerTurn && !s.Pacing
}

// GameOver reports whether the run has ended.
func (s Snapshot) GameOver() bool {
	return s.Phase == PhaseGameOver
}

// Settled reports whether the run ended and its outcome is known.
func (s Snapshot) Settled() bool {
	return s.Phase == PhaseGameOver && s.Outcome.Ready
}
