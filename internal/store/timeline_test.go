package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempo/internal/temporal"
)

func TestAdd_AssignsUUID(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	e, err := s.Add(context.Background(), "standup", day(t, 1, 2))
	require.NoError(t, err)

	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err, "id %q should be a UUID", e.ID)
	assert.Equal(t, "standup", e.Label)
}

func TestAdd_RejectsEmptyLabel(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Add(context.Background(), "   ", day(t, 1, 2))
	assert.ErrorIs(t, err, ErrEmptyLabel)
}

func TestGet(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, " review ", day(t, 3, 5))
	require.NoError(t, err)

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "entry-001", got.ID)
	assert.Equal(t, "review", got.Label)
	assert.True(t, got.Interval.Equal(day(t, 3, 5)), got.Interval.String())
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_KeepsOffset(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tokyo := temporal.ZoneOffset(9 * 3600)
	iv := temporal.MustInterval(
		temporal.MustOf(2008, 2, 29, 9, 30, 0, 250000, tokyo),
		temporal.MustOf(2008, 2, 29, 17, 0, 0, 0, tokyo),
	)

	added, err := s.Add(ctx, "shift", iv)
	require.NoError(t, err)

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "2008-02-29T09:30:00.25+09:00/2008-02-29T17:00:00+09:00", got.Interval.String())
	assert.Equal(t, tokyo, got.Interval.Start().Zone())
}

func TestList_OrdersByStartThenEnd(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "c", day(t, 5, 6))
	require.NoError(t, err)
	_, err = s.Add(ctx, "b", day(t, 1, 4))
	require.NoError(t, err)
	_, err = s.Add(ctx, "a", day(t, 1, 2))
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)

	var labels []string
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"a", "b", "c"}, labels)
}

func TestList_OrdersInstantsAcrossOffsets(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// 08:00+09:00 is 23:00Z the previous day, so it sorts first.
	tokyo := temporal.ZoneOffset(9 * 3600)
	_, err := s.Add(ctx, "utc", day(t, 2, 3))
	require.NoError(t, err)
	_, err = s.Add(ctx, "tokyo", temporal.MustInterval(
		temporal.MustOf(2001, 1, 2, 8, 0, 0, 0, tokyo),
		temporal.MustOf(2001, 1, 2, 10, 0, 0, 0, tokyo),
	))
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "tokyo", entries[0].Label)
	assert.Equal(t, "utc", entries[1].Label)
}

func TestList_TiesOrderByID(t *testing.T) {
	ids := []string{"entry-b", "entry-c", "entry-a"}
	s, err := Open(":memory:", WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	for _, label := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, label, day(t, 1, 2))
		require.NoError(t, err)
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)

	var got []string
	for _, e := range entries {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"entry-a", "entry-b", "entry-c"}, got)

	covered, err := s.Coverage(ctx)
	require.NoError(t, err)
	require.Len(t, covered, 1)
	assert.True(t, covered[0].Equal(day(t, 1, 2)), covered[0].String())
}

func TestRemove(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e, err := s.Add(ctx, "temp", day(t, 1, 2))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, e.ID))

	_, err = s.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Remove(ctx, e.ID), ErrNotFound)
}

func TestOverlapping(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, seed := range []struct {
		label      string
		start, end int
	}{
		{"before", 1, 3},
		{"abuts-start", 3, 5},
		{"inside", 6, 7},
		{"straddles-end", 8, 12},
		{"abuts-end", 10, 11},
		{"after", 12, 14},
	} {
		_, err := s.Add(ctx, seed.label, day(t, seed.start, seed.end))
		require.NoError(t, err)
	}

	// Query [5, 10): entries ending at 5 or starting at 10 only abut it.
	got, err := s.Overlapping(ctx, day(t, 5, 10))
	require.NoError(t, err)

	var labels []string
	for _, e := range got {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"inside", "straddles-end"}, labels)
}

func TestCoverage(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, iv := range []temporal.Interval{
		day(t, 1, 3),
		day(t, 2, 4),  // overlaps
		day(t, 4, 5),  // abuts
		day(t, 7, 7),  // empty
		day(t, 8, 10), // disjoint
		day(t, 8, 9),  // inside
	} {
		_, err := s.Add(ctx, "x", iv)
		require.NoError(t, err)
	}

	covered, err := s.Coverage(ctx)
	require.NoError(t, err)
	require.Len(t, covered, 2)
	assert.True(t, covered[0].Equal(day(t, 1, 5)), covered[0].String())
	assert.True(t, covered[1].Equal(day(t, 8, 10)), covered[1].String())
}

func TestGaps(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	gaps, err := s.Gaps(ctx)
	require.NoError(t, err)
	assert.Empty(t, gaps)

	for _, iv := range []temporal.Interval{day(t, 1, 3), day(t, 3, 4), day(t, 6, 8), day(t, 9, 10)} {
		_, err := s.Add(ctx, "x", iv)
		require.NoError(t, err)
	}

	gaps, err = s.Gaps(ctx)
	require.NoError(t, err)
	require.Len(t, gaps, 2)
	assert.True(t, gaps[0].Equal(day(t, 4, 6)), gaps[0].String())
	assert.True(t, gaps[1].Equal(day(t, 8, 9)), gaps[1].String())
}
