package engine

import (
	"slices"

	"github.com/roach88/gridstate/internal/ir"
)

// Normalize converts records and columns into an id-indexed store.
//
// One cell is created per (record, column) pair; a record without a field
// for a column gets a nil value. The store comes back unsorted and
// unfiltered: all three orders equal the record order.
//
// UI flags are carried over from prev for every row id that survives.
// Rows new to the store take their flags from ir.InitialState when the
// record implements it, and start cleared otherwise. prev may be nil.
//
// Row ids are assumed unique; run ir.Validate first on untrusted input.
func Normalize[R ir.Record](rows []R, columns []ir.Column, prev *ir.Store) *ir.Store {
	s := &ir.Store{
		RowsByID:      make(map[string]*ir.RowState, len(rows)),
		CellsByID:     make(map[string]*ir.Cell, len(rows)*len(columns)),
		Columns:       slices.Clone(columns),
		SortDirection: ir.DirectionNone,
	}
	if s.Columns == nil {
		s.Columns = []ir.Column{}
	}

	order := make([]string, 0, len(rows))
	for _, r := range rows {
		id := r.ID()
		order = append(order, id)

		row := &ir.RowState{ID: id, CellIDs: make([]string, 0, len(columns))}
		if init, ok := any(r).(ir.InitialState); ok {
			row.IsSelected = init.InitiallySelected()
			row.IsExpanded = init.InitiallyExpanded()
		}
		if prev != nil {
			if p := prev.Row(id); p != nil {
				row.IsSelected = p.IsSelected
				row.IsExpanded = p.IsExpanded
			}
		}

		for _, col := range columns {
			cid := ir.CellID(id, col.Key)
			value, _ := r.Field(col.Key)
			s.CellsByID[cid] = &ir.Cell{
				ID:      cid,
				Value:   value,
				Header:  col.Key,
				IsValid: true,
			}
			row.CellIDs = append(row.CellIDs, cid)
		}
		s.RowsByID[id] = row
	}

	// The three orders share one backing array; no transition writes to it.
	s.InitialRowOrder = order
	s.SortedOrder = order
	s.RowOrder = order
	return s
}
