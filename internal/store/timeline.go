package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/tempo/internal/temporal"
)

var (
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("entry not found")

	// ErrEmptyLabel is returned by Add for a blank label.
	ErrEmptyLabel = errors.New("label must not be empty")
)

// Entry is a labelled interval on the timeline.
type Entry struct {
	ID       string
	Label    string
	Interval temporal.Interval
}

const entryColumns = `id, label, start_text, end_text`

const entryOrder = ` ORDER BY start_micro ASC, end_micro ASC, id COLLATE BINARY ASC`

// epochMicro orders instants across offsets. The supported year range fits
// comfortably in an int64 count of microseconds.
func epochMicro(dt temporal.DateTime) int64 {
	return dt.EpochSecond()*temporal.MicrosPerSecond + int64(dt.Micro())
}

// Add stores iv under label and returns the new entry.
func (s *Store) Add(ctx context.Context, label string, iv temporal.Interval) (Entry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Entry{}, fmt.Errorf("add entry: %w", ErrEmptyLabel)
	}

	e := Entry{ID: s.newID(), Label: label, Interval: iv}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, label, start_text, end_text, start_micro, end_micro)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Label,
		iv.Start(),
		iv.End(),
		epochMicro(iv.Start()),
		epochMicro(iv.End()),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("add entry: %w", err)
	}
	return e, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// List returns every entry ordered by start, then end.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries`+entryOrder)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return collectEntries(rows)
}

// Remove deletes the entry with the given id.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove entry %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("remove entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// Overlapping returns the entries that share at least one instant with iv.
// Entries that only abut iv are excluded.
func (s *Store) Overlapping(ctx context.Context, iv temporal.Interval) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE start_micro <= ? AND end_micro >= ?`+entryOrder,
		epochMicro(iv.End()),
		epochMicro(iv.Start()),
	)
	if err != nil {
		return nil, fmt.Errorf("overlapping entries: %w", err)
	}
	candidates, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range candidates {
		if e.Interval.Overlaps(iv) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Coverage merges the timeline into disjoint intervals, joining entries that
// overlap or abut. Zero-length entries cover nothing and are skipped.
func (s *Store) Coverage(ctx context.Context) ([]temporal.Interval, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return merge(entries), nil
}

// Gaps returns the uncovered intervals between the merged coverage.
func (s *Store) Gaps(ctx context.Context) ([]temporal.Interval, error) {
	covered, err := s.Coverage(ctx)
	if err != nil {
		return nil, err
	}
	var gaps []temporal.Interval
	for i := 1; i < len(covered); i++ {
		if gap, ok := covered[i-1].Gap(covered[i]); ok {
			gaps = append(gaps, gap)
		}
	}
	return gaps, nil
}

// merge expects entries ordered by start.
func merge(entries []Entry) []temporal.Interval {
	var out []temporal.Interval
	for _, e := range entries {
		iv := e.Interval
		if iv.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 {
			if u, ok := out[n-1].Union(iv); ok {
				out[n-1] = u
				continue
			}
			if j, ok := out[n-1].Join(iv); ok {
				out[n-1] = j
				continue
			}
		}
		out = append(out, iv)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e          Entry
		start, end temporal.DateTime
	)
	if err := row.Scan(&e.ID, &e.Label, &start, &end); err != nil {
		return Entry{}, err
	}
	iv, err := temporal.NewInterval(start, end)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Interval = iv
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
