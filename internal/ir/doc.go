// Package ir provides the data model shared by every gridstate package.
//
// This package contains types and pure helpers only. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Row identity is the record ID, never its position
//   - Cell identity is derived from (row id, column key) via CellID
//   - Stores are copy-on-write: a transition never mutates a published Store
//   - All JSON tags use snake_case
package ir
