package engine

import "github.com/roach88/gridstate/internal/ir"

// Snapshot is the state published after every transition.
// It holds copies; nothing in it aliases the controller's store.
type Snapshot struct {
	TableID                string         `json:"table_id"`
	Revision               int64          `json:"revision"`
	Columns                []ir.Column    `json:"columns"`
	Rows                   []Row          `json:"rows"`
	SelectedRows           []Row          `json:"selected_rows"`
	SortHeaderKey          string         `json:"sort_header_key,omitempty"`
	SortDirection          ir.Direction   `json:"sort_direction"`
	FilterQuery            string         `json:"filter_query,omitempty"`
	ShouldShowBatchActions bool           `json:"should_show_batch_actions"`
	Selection              SelectionState `json:"selection"`
	Expansion              ExpansionState `json:"expansion"`
}

// RowIDs returns the ids of the visible rows in display order.
func (s Snapshot) RowIDs() []string {
	return rowIDs(s.Rows)
}

// SelectedIDs returns the ids of the selected rows in sorted order.
func (s Snapshot) SelectedIDs() []string {
	return rowIDs(s.SelectedRows)
}

// ExpandedIDs returns the ids of the visible rows that are expanded.
func (s Snapshot) ExpandedIDs() []string {
	out := []string{}
	for _, r := range s.Rows {
		if r.IsExpanded {
			out = append(out, r.ID)
		}
	}
	return out
}

// Summary returns the state of the snapshot as a canonical-JSON document:
// orders and flags only, no cell values. Golden files and the event log
// hash this form.
func (s Snapshot) Summary() map[string]any {
	return map[string]any{
		"revision":  s.Revision,
		"row_order": s.RowIDs(),
		"selected":  s.SelectedIDs(),
		"expanded":  s.ExpandedIDs(),
		"sort": map[string]any{
			"key":       s.SortHeaderKey,
			"direction": s.SortDirection,
		},
		"filter": s.FilterQuery,
		"batch":  s.ShouldShowBatchActions,
		"selection": map[string]any{
			"selected":      s.Selection.Selected,
			"total":         s.Selection.Total,
			"checked":       s.Selection.Checked,
			"indeterminate": s.Selection.Indeterminate,
		},
	}
}

// Hash returns the domain-separated hash of Summary.
func (s Snapshot) Hash() (string, error) {
	return ir.SnapshotHash(s.Summary())
}

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
