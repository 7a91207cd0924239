package score

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store. Safe for concurrent use.
// Used by tests and as a fallback when the database cannot be opened.
type MemoryStore struct {
	mu      sync.RWMutex // guards records
	records []Record     // insertion order
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// BestLength returns the highest recorded length.
func (m *MemoryStore) BestLength(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 {
		return 0, false, nil
	}
	best := m.records[0].SequenceLength
	for _, r := range m.records[1:] {
		if r.SequenceLength > best {
			best = r.SequenceLength
		}
	}
	return best, true, nil
}

// Insert appends r.
func (m *MemoryStore) Insert(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

// AllDescending returns a copy of all records, longest first, stable on ties.
func (m *MemoryStore) AllDescending(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceLength > out[j].SequenceLength
	})
	return out, nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
