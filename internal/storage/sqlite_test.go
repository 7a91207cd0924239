package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/funny-combination/internal/score"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestStoreInMemory(t *testing.T) {
	store, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: 2}); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Expected 1 record, got %d (err=%v)", n, err)
	}
}

func TestStoreBestLength(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	_, ok, err := store.BestLength(ctx)
	if err != nil {
		t.Fatalf("BestLength() failed: %v", err)
	}
	if ok {
		t.Error("Empty store should report no best")
	}

	for _, n := range []int{3, 8, 5} {
		if err := store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: n}); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}

	best, ok, err := store.BestLength(ctx)
	if err != nil {
		t.Fatalf("BestLength() failed: %v", err)
	}
	if !ok || best != 8 {
		t.Errorf("Expected best 8, got %d (ok=%v)", best, ok)
	}
}

func TestStoreAllDescending(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	inserts := []score.Record{
		{Date: "2026-01-01", SequenceLength: 4},
		{Date: "2026-01-02", SequenceLength: 9},
		{Date: "2026-01-03", SequenceLength: 4},
		{Date: "2026-01-04", SequenceLength: 1},
		{Date: "2026-01-05", SequenceLength: 9},
	}
	for _, r := range inserts {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}

	got, err := store.AllDescending(ctx)
	if err != nil {
		t.Fatalf("AllDescending() failed: %v", err)
	}

	want := []score.Record{inserts[1], inserts[4], inserts[0], inserts[2], inserts[3]}
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	again, err := store.AllDescending(ctx)
	if err != nil {
		t.Fatalf("AllDescending() failed: %v", err)
	}
	for i := range got {
		if got[i] != again[i] {
			t.Errorf("Listing changed between calls at %d", i)
		}
	}
}

func TestStoreTopEntriesLimit(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: i})
	}

	entries, err := store.TopEntries(ctx, 3)
	if err != nil {
		t.Fatalf("TopEntries() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries with limit, got %d", len(entries))
	}
	if entries[0].SequenceLength != 5 || entries[1].SequenceLength != 4 || entries[2].SequenceLength != 3 {
		t.Errorf("Entries not in expected order: %+v", entries)
	}
	if entries[0].ID == 0 {
		t.Error("Expected row ID to be populated")
	}
}

func TestStoreInsertRejectsInvalid(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	err := store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: 0})
	if !errors.Is(err, score.ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}

	n, _ := store.Count(ctx)
	if n != 0 {
		t.Errorf("Expected no records, got %d", n)
	}
}

func TestStoreSubmitQualification(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	res, err := score.Submit(ctx, store, score.Record{Date: "2026-10-14", SequenceLength: 5})
	if err != nil || !res.NewHighScore {
		t.Fatalf("First run should qualify: %+v (err=%v)", res, err)
	}

	res, err = score.Submit(ctx, store, score.Record{Date: "2026-10-14", SequenceLength: 5})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if res.NewHighScore {
		t.Error("Tie with best should not qualify")
	}
	if !res.Recorded {
		t.Error("Tie should still be recorded")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || stats.Best != 0 || stats.LastPlayed != "" {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.Insert(ctx, score.Record{Date: "2026-10-12", SequenceLength: 2})
	store.Insert(ctx, score.Record{Date: "2026-10-13", SequenceLength: 6})
	store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: 4})

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 {
		t.Errorf("Expected 3 runs, got %d", stats.Runs)
	}
	if stats.Best != 6 {
		t.Errorf("Expected best 6, got %d", stats.Best)
	}
	if stats.AvgLength != 4 {
		t.Errorf("Expected average 4, got %f", stats.AvgLength)
	}
	if stats.LastPlayed != "2026-10-14" {
		t.Errorf("Expected last played 2026-10-14, got %s", stats.LastPlayed)
	}
}

func TestStoreFlags(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	done, err := store.Flag(ctx, OnboardingCompleted)
	if err != nil {
		t.Fatalf("Flag() failed: %v", err)
	}
	if done {
		t.Error("Missing flag should read as false")
	}

	if err := store.SetFlag(ctx, OnboardingCompleted, true); err != nil {
		t.Fatalf("SetFlag() failed: %v", err)
	}
	done, _ = store.Flag(ctx, OnboardingCompleted)
	if !done {
		t.Error("Expected flag to be true after SetFlag")
	}

	if err := store.SetFlag(ctx, OnboardingCompleted, false); err != nil {
		t.Fatalf("SetFlag() overwrite failed: %v", err)
	}
	done, _ = store.Flag(ctx, OnboardingCompleted)
	if done {
		t.Error("Expected flag to be false after overwrite")
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Insert(ctx, score.Record{Date: "2026-10-14", SequenceLength: 7})
	store.SetFlag(ctx, OnboardingCompleted, true)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()

	best, ok, _ := store.BestLength(ctx)
	if !ok || best != 7 {
		t.Errorf("Expected persisted best 7, got %d", best)
	}
	if done, _ := store.Flag(ctx, OnboardingCompleted); !done {
		t.Error("Expected persisted onboarding flag")
	}
}
