// Package store provides SQLite-backed persistence for gridstate sessions.
//
// A session is one table id plus the append-only list of events dispatched
// to its controller. Replaying the events against the same dataset
// reproduces every snapshot, which is checked with the snapshot hash
// recorded next to each event.
//
// # Critical Patterns
//
// Logical time:
//   - Events are keyed by (table_id, seq) where seq is the controller
//     revision the event produced
//   - All reads ORDER BY seq ASC; timestamps are never stored
//
// Idempotent writes:
//   - Re-recording a table or an event with an existing key is a no-op
//
// Dataset pinning:
//   - Each table stores the fingerprint of the dataset it was built from;
//     Restore refuses to replay against different data
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Events cannot outlive their table
package store
