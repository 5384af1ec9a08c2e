package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tempo/internal/temporal"
	"github.com/roach88/tempo/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
// IDs are sequential so listings are predictable.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.SequentialIDs("entry")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// day returns [2001-01-start, 2001-01-end) in UTC.
func day(t *testing.T, start, end int) temporal.Interval {
	t.Helper()
	iv, err := temporal.NewInterval(
		temporal.MustOf(2001, 1, start, 0, 0, 0, 0, temporal.UTC),
		temporal.MustOf(2001, 1, end, 0, 0, 0, 0, temporal.UTC),
	)
	if err != nil {
		t.Fatalf("NewInterval() failed: %v", err)
	}
	return iv
}
