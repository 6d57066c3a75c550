package engine

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/roach88/gridstate/internal/ir"
)

// MatchFunc reports whether a cell value matches a filter query.
type MatchFunc func(value any, query string) bool

// ContainsFold reports whether the string form of value contains query,
// ignoring case. Folding is Unicode-aware, so it also covers non-ASCII
// letters such as accented capitals.
func ContainsFold(value any, query string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(ir.ToString(value)), fold.String(query))
}

// FilterRows keeps the rows with at least one cell, among columns, that
// matches query. Order is preserved.
//
// An empty query returns rowIDs itself. Cells of keys not listed in
// columns are never consulted.
func FilterRows(rowIDs []string, columns []ir.Column, cells map[string]*ir.Cell, query string, match MatchFunc) []string {
	if query == "" {
		return rowIDs
	}

	out := make([]string, 0, len(rowIDs))
	for _, id := range rowIDs {
		for _, col := range columns {
			c := cells[ir.CellID(id, col.Key)]
			if c != nil && match(c.Value, query) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// FuzzyMatcher returns a MatchFunc that accepts everything ContainsFold
// accepts, plus values with a whitespace-separated word within maxEdits
// Levenshtein edits of the query. Both sides are case-folded first.
// A maxEdits of zero or less yields ContainsFold.
func FuzzyMatcher(maxEdits int) MatchFunc {
	if maxEdits <= 0 {
		return ContainsFold
	}
	return func(value any, query string) bool {
		if ContainsFold(value, query) {
			return true
		}
		fold := cases.Fold()
		q := fold.String(query)
		for _, word := range strings.Fields(fold.String(ir.ToString(value))) {
			if levenshtein.ComputeDistance(word, q) <= maxEdits {
				return true
			}
		}
		return false
	}
}
