// Package engine implements the gridstate tabular data engine.
//
// The engine turns a list of records and column definitions into a
// normalized ir.Store and exposes sorting, filtering, row selection and row
// expansion as pure transitions over that store. A Controller orchestrates
// the transitions in response to Events and publishes a Snapshot after
// each one; rendering is left to the caller.
//
// ARCHITECTURE:
//
// Leaves first:
//   - Normalize / Denormalize: records <-> id-indexed store
//   - Comparator: numeric or collated (numeric-aware) ordering of two values
//   - NextSortDirection / SortRows: tri-state sort machine and stable sort
//   - FilterRows: case-folded substring filter over the visible columns
//   - ToggleRowSelection, ToggleAllSelection, ToggleRowExpansion, ...:
//     flag transitions with aggregates derived by scanning, never cached
//   - Controller: event -> transition table, revision clock, snapshots
//
// Transition Flow:
//  1. Controller.Dispatch receives an Event
//  2. The matching transition builds a new store (copy-on-write)
//  3. Sort is recomputed from InitialRowOrder; filter from the sorted order
//  4. The revision clock advances and a Snapshot is returned
//
// CRITICAL PATTERNS:
//
// Single-threaded: every operation is a synchronous function call. A
// Controller is not safe for concurrent use; published Stores and
// Snapshots are immutable and may be read from any goroutine.
//
// Deterministic ordering: sorting is stable and always starts from the
// consumer's order, so the same event sequence yields the same rows no
// matter what was sorted before.
package engine
