package engine

import (
	"slices"

	"github.com/roach88/gridstate/internal/ir"
)

// NextSortDirection advances the sort state machine for a header click.
//
// Clicking a column other than the active one starts at DESC. Repeated
// clicks on the active column cycle DESC -> ASC -> NONE -> DESC.
func NextSortDirection(prevKey, key string, prev ir.Direction) ir.Direction {
	if key != prevKey {
		return ir.DirectionDesc
	}
	switch prev {
	case ir.DirectionNone:
		return ir.DirectionDesc
	case ir.DirectionDesc:
		return ir.DirectionAsc
	default:
		return ir.DirectionNone
	}
}

// SortRows returns rowIDs ordered by the values in column key.
//
// The sort is stable: rows that compare equal keep their relative order
// from rowIDs. DESC is the exact reverse comparison of ASC, so ties stay
// in input order in both directions. DirectionNone returns a copy of
// rowIDs unchanged. The input slice is never modified.
func SortRows(rowIDs []string, cells map[string]*ir.Cell, key string, dir ir.Direction, compare CompareFunc) []string {
	out := slices.Clone(rowIDs)
	if dir != ir.DirectionAsc && dir != ir.DirectionDesc {
		return out
	}

	values := make(map[string]any, len(out))
	for _, id := range out {
		if c := cells[ir.CellID(id, key)]; c != nil {
			values[id] = c.Value
		}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		if dir == ir.DirectionDesc {
			return compare(values[b], values[a])
		}
		return compare(values[a], values[b])
	})
	return out
}
