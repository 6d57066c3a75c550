package engine

// EventType names a user interaction the controller responds to.
type EventType string

const (
	// EventSort cycles the sort direction of the column named by Key.
	EventSort EventType = "sort"
	// EventToggleRow flips the selection of the row named by RowID.
	EventToggleRow EventType = "toggle_row"
	// EventToggleAll selects every row, or clears the selection when all are selected.
	EventToggleAll EventType = "toggle_all"
	// EventCancelBatch clears the selection and hides the batch actions.
	EventCancelBatch EventType = "cancel_batch"
	// EventToggleExpand flips the expansion of the row named by RowID.
	EventToggleExpand EventType = "toggle_expand"
	// EventToggleExpandAll expands every row, or collapses all when all are expanded.
	EventToggleExpandAll EventType = "toggle_expand_all"
	// EventFilter replaces the filter query with Query.
	EventFilter EventType = "filter"
)

// ValidEventTypes defines the event types a Controller handles.
var ValidEventTypes = map[EventType]bool{
	EventSort:            true,
	EventToggleRow:       true,
	EventToggleAll:       true,
	EventCancelBatch:     true,
	EventToggleExpand:    true,
	EventToggleExpandAll: true,
	EventFilter:          true,
}

// Event is one interaction. Only the field its Type reads is meaningful.
type Event struct {
	Type  EventType `json:"type" yaml:"type"`
	Key   string    `json:"key,omitempty" yaml:"key,omitempty"`
	RowID string    `json:"row_id,omitempty" yaml:"row_id,omitempty"`
	Query string    `json:"query,omitempty" yaml:"query,omitempty"`
}

// SortEvent advances the sort cycle of column key.
func SortEvent(key string) Event { return Event{Type: EventSort, Key: key} }

// ToggleRowEvent flips the selection of row id.
func ToggleRowEvent(id string) Event { return Event{Type: EventToggleRow, RowID: id} }

// ToggleAllEvent selects every row, or clears them all when all are selected.
func ToggleAllEvent() Event { return Event{Type: EventToggleAll} }

// CancelBatchEvent clears the selection and hides batch actions.
func CancelBatchEvent() Event { return Event{Type: EventCancelBatch} }

// ToggleExpandEvent flips the expansion of row id.
func ToggleExpandEvent(id string) Event { return Event{Type: EventToggleExpand, RowID: id} }

// ToggleExpandAllEvent expands every row, or collapses them all when all are expanded.
func ToggleExpandAllEvent() Event { return Event{Type: EventToggleExpandAll} }

// FilterEvent sets the filter query.
func FilterEvent(query string) Event { return Event{Type: EventFilter, Query: query} }
