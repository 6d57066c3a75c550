package engine

import "github.com/roach88/gridstate/internal/ir"

// Row is a render-ready row: flags plus cells in column order.
type Row struct {
	ID         string    `json:"id"`
	IsSelected bool      `json:"is_selected"`
	IsExpanded bool      `json:"is_expanded"`
	Cells      []ir.Cell `json:"cells"`
}

// Value returns the value of the cell for column key, or nil.
func (r Row) Value(key string) any {
	for _, c := range r.Cells {
		if c.Header == key {
			return c.Value
		}
	}
	return nil
}

// Denormalize materializes rows for the ids in order, in that order.
// Ids that are not in the store are skipped.
func Denormalize(s *ir.Store, order []string) []Row {
	out := make([]Row, 0, len(order))
	for _, id := range order {
		rs := s.Row(id)
		if rs == nil {
			continue
		}
		row := Row{
			ID:         rs.ID,
			IsSelected: rs.IsSelected,
			IsExpanded: rs.IsExpanded,
			Cells:      make([]ir.Cell, 0, len(rs.CellIDs)),
		}
		for _, cid := range rs.CellIDs {
			if c := s.CellsByID[cid]; c != nil {
				row.Cells = append(row.Cells, *c)
			}
		}
		out = append(out, row)
	}
	return out
}
