package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vertextoedge/vidfetch/internal/domain"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newRecord(id string, status domain.OutcomeStatus, finishedAt time.Time) *domain.HistoryRecord {
	return &domain.HistoryRecord{
		ID:             id,
		URL:            "https://host/" + id + ".mp4",
		DestinationDir: "/downloads",
		FinalPath:      "/downloads/" + id + ".mp4",
		Status:         status,
		BytesWritten:   1024,
		TotalBytes:     2048,
		StartedAt:      finishedAt.Add(-time.Minute),
		FinishedAt:     finishedAt,
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openTestStore(t)
	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := newRecord("t1", domain.OutcomeFailed, finished)
	rec.Error = "network failure (request): unexpected HTTP status 404 Not Found"
	if err := store.Record(rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := store.Get("t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.URL != rec.URL || got.Status != domain.OutcomeFailed || got.Error != rec.Error {
		t.Errorf("Get() = %+v, want %+v", got, rec)
	}
	if got.BytesWritten != 1024 || got.TotalBytes != 2048 {
		t.Errorf("bytes = %d/%d, want 1024/2048", got.BytesWritten, got.TotalBytes)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, finished)
	}
	if got.Duration() != time.Minute {
		t.Errorf("Duration() = %v, want 1m", got.Duration())
	}
}

func TestStore_RecordDuplicate(t *testing.T) {
	store := openTestStore(t)
	rec := newRecord("dup", domain.OutcomeCompleted, time.Now())

	if err := store.Record(rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(rec); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("second Record() error = %v, want ErrAlreadyExists", err)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d"} {
		if err := store.Record(newRecord(id, domain.OutcomeCompleted, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 10, []string{"d", "c", "b", "a"}},
		{"limited", 2, []string{"d", "c"}},
		{"zero", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.List(tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("List() returned %d records, want %d", len(records), len(tt.want))
			}
			for i, rec := range records {
				if rec.ID != tt.want[i] {
					t.Errorf("records[%d].ID = %q, want %q", i, rec.ID, tt.want[i])
				}
			}
		})
	}
}

func TestStore_PruneOlderThan(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	store := openTestStore(t, WithClock(clock))

	old := clock.Now().Add(-40 * 24 * time.Hour)
	recent := clock.Now().Add(-time.Hour)
	for _, rec := range []*domain.HistoryRecord{
		newRecord("old1", domain.OutcomeCompleted, old),
		newRecord("old2", domain.OutcomeCanceled, old),
		newRecord("new", domain.OutcomeCompleted, recent),
	} {
		if err := store.Record(rec); err != nil {
			t.Fatal(err)
		}
	}

	n, err := store.PruneOlderThan(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("PruneOlderThan() error = %v", err)
	}
	if n != 2 {
		t.Errorf("PruneOlderThan() = %d, want 2", n)
	}

	count, _ := store.Count()
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
	if _, err := store.Get("new"); err != nil {
		t.Errorf("recent record pruned: %v", err)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(newRecord("keep", domain.OutcomeCompleted, time.Now())); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer store.Close()

	if _, err := store.Get("keep"); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}
