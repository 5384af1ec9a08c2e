// Package store keeps a timeline of labelled intervals in SQLite.
//
// Each entry stores both endpoints as ISO-8601 text, which keeps the offset
// they were written with, and as microseconds since the epoch for ordering
// and range queries. Relations between entries (overlap, coverage, gaps)
// are decided by temporal.Interval, not by SQL.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All queries order by start, end, then id, so results are deterministic.
package store
