// Package store keeps a SQLite history of configuration snapshots so a
// setup can be compared with earlier runs on the same host.
//
// Each row holds the canonical JSON of one snapshot together with its hash.
// Rows are append-only and ordered by seq, an autoincrement logical counter;
// wall-clock time is recorded for display only and never used for ordering.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
