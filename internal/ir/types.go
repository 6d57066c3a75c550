package ir

import "maps"

// Direction is the sort direction of the active column.
type Direction string

const (
	// DirectionNone means no column is sorted; rows keep the consumer's order.
	DirectionNone Direction = "NONE"
	// DirectionAsc sorts smallest first.
	DirectionAsc Direction = "ASC"
	// DirectionDesc sorts largest first.
	DirectionDesc Direction = "DESC"
)

// ValidDirections defines the allowed sort directions.
var ValidDirections = map[Direction]bool{
	DirectionNone: true,
	DirectionAsc:  true,
	DirectionDesc: true,
}

// ParseDirection converts a string to a Direction.
// Unknown values map to DirectionNone.
func ParseDirection(s string) Direction {
	d := Direction(s)
	if ValidDirections[d] {
		return d
	}
	return DirectionNone
}

// Column describes one table column. Slice order is display order.
type Column struct {
	Key    string `json:"key" yaml:"key"`
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
}

// Record is a consumer-supplied row. The ID must be unique within a table.
type Record interface {
	ID() string
	Field(key string) (any, bool)
}

// InitialState is optionally implemented by records that carry UI flags
// for their first appearance in a store. Flags of rows already present in
// the previous store always win.
type InitialState interface {
	InitiallySelected() bool
	InitiallyExpanded() bool
}

// MapRecord is the stock Record backed by a field map.
type MapRecord struct {
	RowID    string         `json:"id"`
	Values   map[string]any `json:"values"`
	Selected bool           `json:"is_selected,omitempty"`
	Expanded bool           `json:"is_expanded,omitempty"`
}

// NewMapRecord creates a MapRecord from an id and field values.
func NewMapRecord(id string, values map[string]any) MapRecord {
	return MapRecord{RowID: id, Values: values}
}

// ID implements Record.
func (r MapRecord) ID() string { return r.RowID }

// Field implements Record. A missing key reports false.
func (r MapRecord) Field(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// InitiallySelected implements InitialState.
func (r MapRecord) InitiallySelected() bool { return r.Selected }

// InitiallyExpanded implements InitialState.
func (r MapRecord) InitiallyExpanded() bool { return r.Expanded }

// Cell is the value of one record field addressed by one column key.
// The editing flags are carried for inline-edit consumers; no engine
// transition changes them.
type Cell struct {
	ID         string `json:"id"`
	Value      any    `json:"value"`
	Header     string `json:"header"`
	IsEditable bool   `json:"is_editable"`
	IsEditing  bool   `json:"is_editing"`
	IsValid    bool   `json:"is_valid"`
}

// RowState is the per-row entry of a Store.
type RowState struct {
	ID         string   `json:"id"`
	IsSelected bool     `json:"is_selected"`
	IsExpanded bool     `json:"is_expanded"`
	CellIDs    []string `json:"cell_ids"`
}

// Store is the normalized table state.
//
// INVARIANTS:
//   - Every id in RowOrder, SortedOrder and InitialRowOrder is a key of RowsByID
//   - RowsByID/CellsByID hold exactly one entry per row / (row, column) pair
//   - SortedOrder is a permutation of InitialRowOrder
//   - RowOrder is SortedOrder filtered by FilterQuery (order preserved)
//   - SortDirection == DirectionNone implies SortedOrder == InitialRowOrder
//
// A Store is never mutated after it is handed out; transitions build a new
// one with Clone and replace only the maps they touch.
type Store struct {
	// RowOrder is the display order: sorted, then filtered.
	RowOrder []string `json:"row_order"`

	// SortedOrder is the full sorted order the filter runs against.
	SortedOrder []string `json:"sorted_order"`

	// InitialRowOrder is the order the consumer supplied.
	InitialRowOrder []string `json:"initial_row_order"`

	RowsByID  map[string]*RowState `json:"rows_by_id"`
	CellsByID map[string]*Cell     `json:"cells_by_id"`
	Columns   []Column             `json:"columns"`

	SortHeaderKey string    `json:"sort_header_key,omitempty"`
	SortDirection Direction `json:"sort_direction"`
	FilterQuery   string    `json:"filter_query,omitempty"`
}

// NewStore returns an empty store with no sort and no filter.
func NewStore() *Store {
	return &Store{
		RowOrder:        []string{},
		SortedOrder:     []string{},
		InitialRowOrder: []string{},
		RowsByID:        map[string]*RowState{},
		CellsByID:       map[string]*Cell{},
		SortDirection:   DirectionNone,
	}
}

// Clone returns a shallow copy. Maps and slices are shared with s; callers
// that change a map must replace it (see WithRows).
func (s *Store) Clone() *Store {
	c := *s
	return &c
}

// WithRows returns a clone whose RowsByID is a fresh map. Row entries named
// in ids are copied so they can be edited; every other entry is shared.
func (s *Store) WithRows(ids ...string) *Store {
	c := s.Clone()
	c.RowsByID = maps.Clone(s.RowsByID)
	for _, id := range ids {
		if row, ok := c.RowsByID[id]; ok {
			cp := *row
			c.RowsByID[id] = &cp
		}
	}
	return c
}

// Row returns the row state for id, or nil.
func (s *Store) Row(id string) *RowState {
	return s.RowsByID[id]
}

// Len returns the number of rows in the store, visible or not.
func (s *Store) Len() int {
	return len(s.InitialRowOrder)
}

// ColumnKeys returns the column keys in display order.
func (s *Store) ColumnKeys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}

// HasColumn reports whether key names a column of the store.
func (s *Store) HasColumn(key string) bool {
	for _, c := range s.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}
