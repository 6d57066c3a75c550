package engine

import "github.com/roach88/gridstate/internal/ir"

// SelectionMode controls how row toggles combine.
type SelectionMode string

const (
	// SelectionMultiple lets any number of rows be selected (checkboxes).
	SelectionMultiple SelectionMode = "multiple"
	// SelectionSingle keeps at most one row selected (radio buttons).
	SelectionSingle SelectionMode = "single"
)

// SelectionState is the aggregate selection of a store.
//
// Total counts every row in the store, visible or filtered out, so the
// select-all control reflects the whole dataset.
type SelectionState struct {
	Selected      int  `json:"selected"`
	Total         int  `json:"total"`
	Checked       bool `json:"checked"`
	Indeterminate bool `json:"indeterminate"`
}

// SelectionOf derives the selection aggregate by scanning every row.
func SelectionOf(s *ir.Store) SelectionState {
	st := SelectionState{Total: s.Len()}
	for _, id := range s.InitialRowOrder {
		if row := s.Row(id); row != nil && row.IsSelected {
			st.Selected++
		}
	}
	st.Checked = st.Total > 0 && st.Selected == st.Total
	st.Indeterminate = st.Selected > 0 && st.Selected < st.Total
	return st
}

// SelectedIDs returns the selected row ids in sorted order, filtered or not.
func SelectedIDs(s *ir.Store) []string {
	out := []string{}
	for _, id := range s.SortedOrder {
		if row := s.Row(id); row != nil && row.IsSelected {
			out = append(out, id)
		}
	}
	return out
}

// ToggleRowSelection flips the selection flag of one row.
// An unknown id returns s unchanged.
func ToggleRowSelection(s *ir.Store, rowID string) *ir.Store {
	if s.Row(rowID) == nil {
		return s
	}
	next := s.WithRows(rowID)
	next.RowsByID[rowID].IsSelected = !next.RowsByID[rowID].IsSelected
	return next
}

// SelectOnly selects rowID and clears every other row.
// An unknown id returns s unchanged.
func SelectOnly(s *ir.Store, rowID string) *ir.Store {
	if s.Row(rowID) == nil {
		return s
	}
	return setEachRow(s, func(row *ir.RowState) { row.IsSelected = row.ID == rowID })
}

// ToggleAllSelection clears the selection when every row is selected and
// selects every row otherwise. The filter does not narrow the set.
func ToggleAllSelection(s *ir.Store) *ir.Store {
	target := !SelectionOf(s).Checked
	return setEachRow(s, func(row *ir.RowState) { row.IsSelected = target })
}

// ClearSelection deselects every row.
func ClearSelection(s *ir.Store) *ir.Store {
	return setEachRow(s, func(row *ir.RowState) { row.IsSelected = false })
}

// setEachRow returns a store whose every row is a copy passed through fn.
func setEachRow(s *ir.Store, fn func(*ir.RowState)) *ir.Store {
	next := s.Clone()
	next.RowsByID = make(map[string]*ir.RowState, len(s.RowsByID))
	for id, row := range s.RowsByID {
		cp := *row
		fn(&cp)
		next.RowsByID[id] = &cp
	}
	return next
}
