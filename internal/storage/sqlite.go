// Package storage provides SQLite-based persistence for finished runs and
// player settings. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/funny-combination/internal/score"
)

// OnboardingCompleted is the settings key set once the player finishes
// the onboarding pages.
const OnboardingCompleted = "onboarding_completed"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Entry is a stored record with its row metadata.
type Entry struct {
	ID int64
	score.Record
	CreatedAt time.Time
}

// Stats contains aggregated statistics over all recorded runs.
type Stats struct {
	Runs       int
	Best       int
	AvgLength  float64
	LastPlayed string // calendar day of the most recent run, empty if none
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("storage: empty database path")
	}

	if dbPath != MemoryPath {
		// Expand ~ to home directory
		if dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One connection: keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			sequence_length INTEGER NOT NULL CHECK (sequence_length >= 1),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_high_scores_length ON high_scores(sequence_length DESC, id ASC);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestLength returns the highest recorded sequence length.
func (s *Store) BestLength(ctx context.Context) (int, bool, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(sequence_length) FROM high_scores").Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best length: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return int(best.Int64), true, nil
}

// Insert appends a finished run.
func (s *Store) Insert(ctx context.Context, r score.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO high_scores (date, sequence_length) VALUES (?, ?)",
		r.Date, r.SequenceLength,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save record: %w", err)
	}
	return nil
}

// AllDescending returns every record, longest first. Ties keep insertion
// order.
func (s *Store) AllDescending(ctx context.Context) ([]score.Record, error) {
	entries, err := s.TopEntries(ctx, 0)
	if err != nil {
		return nil, err
	}

	records := make([]score.Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}
	return records, nil
}

// TopEntries returns the best entries with row metadata. limit <= 0 means
// no limit.
func (s *Store) TopEntries(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, date, sequence_length, created_at
		 FROM high_scores
		 ORDER BY sequence_length DESC, id ASC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Date, &e.SequenceLength, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Count returns the number of recorded runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM high_scores").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count records: %w", err)
	}
	return n, nil
}

// Stats retrieves aggregated statistics over all runs.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(sequence_length), 0), COALESCE(AVG(sequence_length), 0)
		 FROM high_scores`,
	).Scan(&stats.Runs, &stats.Best, &stats.AvgLength)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT date FROM high_scores ORDER BY id DESC LIMIT 1",
	).Scan(&stats.LastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}

	return stats, nil
}

// Flag reads a boolean setting. Missing keys read as false.
func (s *Store) Flag(ctx context.Context, key string) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value == "true", nil
}

// SetFlag writes a boolean setting.
func (s *Store) SetFlag(ctx context.Context, key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, v,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write setting %s: %w", key, err)
	}
	return nil
}

// parseTimestamp handles both time.Time and string datetime columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements score.Store
var _ score.Store = (*Store)(nil)
