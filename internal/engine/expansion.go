package engine

import "github.com/roach88/gridstate/internal/ir"

// ExpansionState is the aggregate expansion of a store.
type ExpansionState struct {
	Expanded int  `json:"expanded"`
	Total    int  `json:"total"`
	All      bool `json:"all"`
}

// ExpansionOf derives the expansion aggregate by scanning every row.
func ExpansionOf(s *ir.Store) ExpansionState {
	st := ExpansionState{Total: s.Len()}
	for _, id := range s.InitialRowOrder {
		if row := s.Row(id); row != nil && row.IsExpanded {
			st.Expanded++
		}
	}
	st.All = st.Total > 0 && st.Expanded == st.Total
	return st
}

// ToggleRowExpansion flips the expansion flag of one row.
// An unknown id returns s unchanged.
func ToggleRowExpansion(s *ir.Store, rowID string) *ir.Store {
	if s.Row(rowID) == nil {
		return s
	}
	next := s.WithRows(rowID)
	next.RowsByID[rowID].IsExpanded = !next.RowsByID[rowID].IsExpanded
	return next
}

// ToggleAllExpansion collapses every row when all are expanded and
// expands every row otherwise.
func ToggleAllExpansion(s *ir.Store) *ir.Store {
	target := !ExpansionOf(s).All
	return setEachRow(s, func(row *ir.RowState) { row.IsExpanded = target })
}
