package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/roach88/tempo/internal/temporal"
	"github.com/roach88/tempo/internal/testutil"
)

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("timeline file not created: %v", err)
	}
}

func TestOpen_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.db")
	ctx := context.Background()
	iv := temporal.MustInterval(
		temporal.MustOf(2008, 2, 29, 22, 0, 0, 0, temporal.ZoneOffset(-5*3600)),
		temporal.MustOf(2008, 3, 1, 1, 0, 0, 0, temporal.ZoneOffset(-5*3600)),
	)

	// Reopening runs migrations again; they must leave rows alone.
	var id string
	for i := 0; i < 3; i++ {
		s, err := Open(path, WithIDGenerator(testutil.SequentialIDs(fmt.Sprintf("open%d", i))))
		if err != nil {
			t.Fatalf("Open() #%d failed: %v", i, err)
		}
		if i == 0 {
			e, err := s.Add(ctx, "night shift", iv)
			if err != nil {
				t.Fatalf("Add() failed: %v", err)
			}
			id = e.ID
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get(%s) after reopen failed: %v", id, err)
	}
	if got.Interval.String() != iv.String() {
		t.Errorf("interval = %s, want %s", got.Interval, iv)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := Open("/nonexistent/dir/tempo.db"); err == nil {
		t.Error("expected error for a directory that does not exist")
	}
}

func TestClose(t *testing.T) {
	if err := (&Store{}).Close(); err != nil {
		t.Errorf("Close() without a database: %v", err)
	}

	s, err := Open(filepath.Join(t.TempDir(), "tempo.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	_ = s.Close() // must not panic
}

func TestQuery_ReadsEntries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, "standup", day(t, 1, 2)); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	rows, err := s.Query(ctx, "SELECT label, start_micro FROM entries WHERE id = ?", "entry-001")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatal("no row for entry-001")
	}
	var (
		label string
		start int64
	)
	if err := rows.Scan(&label, &start); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	// 2001-01-01T00:00:00Z
	if label != "standup" || start != 978307200000000 {
		t.Errorf("row = (%q, %d), want (\"standup\", 978307200000000)", label, start)
	}
	if s.DB() == nil {
		t.Error("DB() returned nil")
	}
}

func TestPragmas(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "tempo.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		if err := s.verifyPragma(tt.pragma, tt.want); err != nil {
			t.Error(err)
		}
	}
}

// Schema table tests

func TestSchema_EntriesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	columns := getTableColumns(t, s.db, "entries")

	expected := []string{
		"id", "label", "start_text", "end_text", "start_micro", "end_micro",
	}

	for _, col := range expected {
		if !slices.Contains(columns, col) {
			t.Errorf("entries table missing column %q", col)
		}
	}
}

func TestSchema_RangeIndex(t *testing.T) {
	s := createTestStore(t)

	if indexes := getTableIndexes(t, s, "entries"); !slices.Contains(indexes, "idx_entries_range") {
		t.Errorf("entries indexes = %v, missing idx_entries_range", indexes)
	}
}

func TestSchema_RejectsInvertedRows(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO entries (id, label, start_text, end_text, start_micro, end_micro)
		VALUES ('x', 'bad', '2001-01-02T00:00:00Z', '2001-01-01T00:00:00Z', 2, 1)
	`)
	if err == nil {
		t.Error("expected CHECK constraint to reject end before start")
	}
}

func TestSchema_UserVersion(t *testing.T) {
	s := createTestStore(t)

	if err := s.verifyPragma("user_version", fmt.Sprint(currentSchemaVersion)); err != nil {
		t.Error(err)
	}
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	s.Close()

	if _, err := Open(path); err == nil {
		t.Error("expected error opening a database from a newer version")
	}
}

// Helpers

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, s *Store, table string) []string {
	t.Helper()

	rows, err := s.Query(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ?", table)
	if err != nil {
		t.Fatalf("failed to list indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		names = append(names, name)
	}
	return names
}
