// Package score defines finished-run records, the store contract the game
// depends on, and the rule that decides whether a run is a new high score.
package score

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format stored with each record.
const DateLayout = "2006-01-02"

// ErrInvalidRecord is returned when a record has a non-positive length or a
// malformed date.
var ErrInvalidRecord = errors.New("score: invalid record")

// Record is one finished run.
type Record struct {
	Date           string `json:"date"`
	SequenceLength int    `json:"sequence_length"`
}

// NewRecord builds a record for a run of the given length finished at now.
func NewRecord(length int, now time.Time) Record {
	return Record{
		Date:           now.Format(DateLayout),
		SequenceLength: length,
	}
}

// Validate checks the record against the persisted layout.
func (r Record) Validate() error {
	if r.SequenceLength < 1 {
		return fmt.Errorf("%w: sequence length %d", ErrInvalidRecord, r.SequenceLength)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidRecord, r.Date)
	}
	return nil
}

// Store is an append-only history of finished runs.
type Store interface {
	// BestLength returns the highest recorded length. ok is false when the
	// store holds no records.
	BestLength(ctx context.Context) (best int, ok bool, err error)

	// Insert appends a record. It never overwrites or deduplicates.
	Insert(ctx context.Context, r Record) error

	// AllDescending lists every record by length descending. Records with
	// equal length keep insertion order.
	AllDescending(ctx context.Context) ([]Record, error)
}

// Result is the outcome of submitting a finished run.
type Result struct {
	Record       Record
	NewHighScore bool
	Recorded     bool // Insert succeeded
	PreviousBest int  // Valid only when HadBest
	HadBest      bool
}

// IsNewHighScore applies the qualification rule: a length qualifies when no
// best exists or it strictly exceeds the best.
func IsNewHighScore(length, best int, hasBest bool) bool {
	return !hasBest || length > best
}

// Submit reads the best length, inserts rec unconditionally, and decides
// qualification from the pre-insert best.
//
// On failure the returned Result is still populated with whatever could be
// determined. A failed best lookup yields NewHighScore=false; a failed
// insert leaves Recorded=false.
func Submit(ctx context.Context, store Store, rec Record) (Result, error) {
	res := Result{Record: rec}

	best, ok, bestErr := store.BestLength(ctx)
	if bestErr != nil {
		bestErr = fmt.Errorf("score: cannot read best length: %w", bestErr)
	} else {
		res.PreviousBest = best
		res.HadBest = ok
		res.NewHighScore = IsNewHighScore(rec.SequenceLength, best, ok)
	}

	insertErr := store.Insert(ctx, rec)
	if insertErr != nil {
		insertErr = fmt.Errorf("score: cannot insert record: %w", insertErr)
	} else {
		res.Recorded = true
	}

	return res, errors.Join(bestErr, insertErr)
}
