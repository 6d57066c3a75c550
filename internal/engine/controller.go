package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/gridstate/internal/ir"
)

// Controller owns the store of one table and applies events to it.
//
// Thread-safety model:
//   - Dispatch, Apply and SetData must be called from one goroutine
//   - Store and Snapshot results are immutable and safe to share
//
// INVARIANTS:
//   - SortedOrder is always recomputed from InitialRowOrder
//   - RowOrder is always SortedOrder filtered by FilterQuery
//   - Revision advances by exactly one per Dispatch/Apply call
type Controller[R ir.Record] struct {
	id          string
	store       *ir.Store
	records     map[string]R
	fingerprint string
	batch       bool

	mode    SelectionMode
	compare CompareFunc
	match   MatchFunc
	clock   *Clock
	logger  *slog.Logger
}

type config struct {
	locale  string
	compare CompareFunc
	match   MatchFunc
	idGen   IDGenerator
	mode    SelectionMode
	clock   *Clock
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*config)

// WithLocale sets the collation locale by BCP 47 tag. An unparsable tag
// is logged and DefaultLocale is used. Ignored when WithComparator is set.
func WithLocale(tag string) Option {
	return func(c *config) {
		c.locale = tag
	}
}

// WithComparator replaces the default Comparator.
func WithComparator(fn CompareFunc) Option {
	return func(c *config) {
		c.compare = fn
	}
}

// WithMatcher replaces ContainsFold as the filter predicate.
func WithMatcher(fn MatchFunc) Option {
	return func(c *config) {
		c.match = fn
	}
}

// WithIDGenerator sets the source of the table id.
// Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *config) {
		c.idGen = gen
	}
}

// WithTableID pins the table id, e.g. to resume a stored session.
func WithTableID(id string) Option {
	return func(c *config) {
		c.idGen = NewFixedGenerator(id)
	}
}

// WithSelectionMode sets how row toggles combine.
// Default: SelectionMultiple.
func WithSelectionMode(mode SelectionMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithClock sets the revision clock. Used by replay to resume numbering.
func WithClock(clock *Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger for transition tracing.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates a controller over rows and columns.
//
// The rows are normalized in the order given; flags seeded by
// ir.InitialState are honored. Batch actions start visible when any row
// starts selected.
func New[R ir.Record](rows []R, columns []ir.Column, opts ...Option) *Controller[R] {
	cfg := config{
		mode:   SelectionMultiple,
		idGen:  UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = NewClock()
	}
	if cfg.match == nil {
		cfg.match = ContainsFold
	}
	if cfg.compare == nil {
		tag := DefaultLocale
		if cfg.locale != "" {
			parsed, err := ParseLocale(cfg.locale)
			if err != nil {
				cfg.logger.Warn("falling back to default locale", "error", err, "locale", DefaultLocale.String())
			} else {
				tag = parsed
			}
		}
		cfg.compare = NewComparator(tag).Compare
	}

	c := &Controller[R]{
		id:      cfg.idGen.Generate(),
		mode:    cfg.mode,
		compare: cfg.compare,
		match:   cfg.match,
		clock:   cfg.clock,
		logger:  cfg.logger,
	}
	c.load(rows, columns, nil)
	fp, err := ir.DatasetFingerprint(rows, columns)
	if err != nil {
		cfg.logger.Warn("dataset fingerprint failed; the next SetData will rebuild", "table", c.id, "error", err)
	}
	c.fingerprint = fp
	c.batch = SelectionOf(c.store).Selected > 0
	return c
}

// ID returns the table id.
func (c *Controller[R]) ID() string {
	return c.id
}

// Revision returns the current revision.
func (c *Controller[R]) Revision() int64 {
	return c.clock.Current()
}

// Store returns the current store. Callers must not modify it.
func (c *Controller[R]) Store() *ir.Store {
	return c.store
}

// ShouldShowBatchActions reports whether the batch action bar is visible.
func (c *Controller[R]) ShouldShowBatchActions() bool {
	return c.batch
}

// Dispatch applies ev and returns the resulting snapshot.
//
// An event that names an unknown row or column, or an unknown event type,
// leaves the state unchanged; the revision still advances.
func (c *Controller[R]) Dispatch(ev Event) Snapshot {
	snap, err := c.Apply(ev)
	if err != nil {
		c.logger.Debug("event ignored", "table", c.id, "error", err)
	}
	return snap
}

// Apply is Dispatch with the no-op cases reported as *EventError.
// The state change and revision bump are identical to Dispatch.
func (c *Controller[R]) Apply(ev Event) (Snapshot, error) {
	err := c.transition(ev)
	rev := c.clock.Next()

	c.logger.Debug("event applied",
		"table", c.id,
		"event", string(ev.Type),
		"revision", rev,
		"visible", len(c.store.RowOrder),
		"sort_key", c.store.SortHeaderKey,
		"sort_direction", string(c.store.SortDirection),
	)
	return c.Snapshot(), err
}

// Replay dispatches events in order and returns the final snapshot.
func (c *Controller[R]) Replay(events []Event) Snapshot {
	snap := c.Snapshot()
	for _, ev := range events {
		snap = c.Dispatch(ev)
	}
	return snap
}

// Sort dispatches a sort event for column key.
func (c *Controller[R]) Sort(key string) Snapshot {
	return c.Dispatch(SortEvent(key))
}

// ToggleRow dispatches a toggle_row event for row id.
func (c *Controller[R]) ToggleRow(id string) Snapshot {
	return c.Dispatch(ToggleRowEvent(id))
}

// ToggleAll dispatches a toggle_all event.
func (c *Controller[R]) ToggleAll() Snapshot {
	return c.Dispatch(ToggleAllEvent())
}

// CancelBatch dispatches a cancel_batch event.
func (c *Controller[R]) CancelBatch() Snapshot {
	return c.Dispatch(CancelBatchEvent())
}

// ToggleExpand dispatches a toggle_expand event for row id.
func (c *Controller[R]) ToggleExpand(id string) Snapshot {
	return c.Dispatch(ToggleExpandEvent(id))
}

// ToggleExpandAll dispatches a toggle_expand_all event.
func (c *Controller[R]) ToggleExpandAll() Snapshot {
	return c.Dispatch(ToggleExpandAllEvent())
}

// Filter dispatches a filter event with query.
func (c *Controller[R]) Filter(query string) Snapshot {
	return c.Dispatch(FilterEvent(query))
}

func (c *Controller[R]) transition(ev Event) error {
	switch ev.Type {
	case EventSort:
		if !c.store.HasColumn(ev.Key) {
			return &EventError{Code: ErrCodeUnknownColumn, Message: "sort key is not a column", Event: ev.Type, Target: ev.Key}
		}
		dir := NextSortDirection(c.store.SortHeaderKey, ev.Key, c.store.SortDirection)
		c.store = c.arrange(c.store, ev.Key, dir, c.store.FilterQuery)

	case EventFilter:
		c.store = c.arrange(c.store, c.store.SortHeaderKey, c.store.SortDirection, ev.Query)

	case EventToggleRow:
		if c.store.Row(ev.RowID) == nil {
			return unknownRow(ev.Type, ev.RowID)
		}
		if c.mode == SelectionSingle {
			c.store = SelectOnly(c.store, ev.RowID)
		} else {
			c.store = ToggleRowSelection(c.store, ev.RowID)
		}
		c.batch = SelectionOf(c.store).Selected > 0

	case EventToggleAll:
		if c.mode == SelectionSingle {
			return &EventError{Code: ErrCodeUnsupported, Message: "select-all needs multiple selection", Event: ev.Type}
		}
		c.store = ToggleAllSelection(c.store)
		c.batch = SelectionOf(c.store).Selected > 0

	case EventCancelBatch:
		c.store = ClearSelection(c.store)
		c.batch = false

	case EventToggleExpand:
		if c.store.Row(ev.RowID) == nil {
			return unknownRow(ev.Type, ev.RowID)
		}
		c.store = ToggleRowExpansion(c.store, ev.RowID)

	case EventToggleExpandAll:
		c.store = ToggleAllExpansion(c.store)

	default:
		return &EventError{Code: ErrCodeUnknownEvent, Message: "unknown event type", Event: ev.Type}
	}
	return nil
}

// arrange recomputes SortedOrder from InitialRowOrder and RowOrder from
// SortedOrder for the given sort and filter state.
func (c *Controller[R]) arrange(s *ir.Store, key string, dir ir.Direction, query string) *ir.Store {
	next := s.Clone()
	next.SortHeaderKey = key
	next.SortDirection = dir
	next.FilterQuery = query

	if dir == ir.DirectionNone || !s.HasColumn(key) {
		next.SortedOrder = s.InitialRowOrder
	} else {
		next.SortedOrder = SortRows(s.InitialRowOrder, s.CellsByID, key, dir, c.compare)
	}
	next.RowOrder = FilterRows(next.SortedOrder, next.Columns, next.CellsByID, query, c.match)
	return next
}

// SetData replaces the dataset.
//
// Nothing happens when the dataset fingerprint (row ids in order, columns,
// kind and string form of every cell value) is unchanged. Otherwise the
// rows are re-normalized: selection and expansion carry over by row id,
// the sort is re-applied if its column still exists (and reset otherwise)
// and the filter is re-applied. Batch actions stay visible only while a row
// is selected. Returns whether the store was rebuilt. SetData does not
// advance the revision.
func (c *Controller[R]) SetData(rows []R, columns []ir.Column) bool {
	fp, err := ir.DatasetFingerprint(rows, columns)
	if err != nil {
		c.logger.Warn("dataset fingerprint failed; rebuilding", "table", c.id, "error", err)
	} else if fp == c.fingerprint {
		return false
	}

	c.load(rows, columns, c.store)
	c.fingerprint = fp
	c.batch = SelectionOf(c.store).Selected > 0

	c.logger.Debug("dataset replaced",
		"table", c.id,
		"rows", c.store.Len(),
		"columns", len(c.store.Columns),
	)
	return true
}

// load normalizes rows against prev and restores prev's sort and filter.
func (c *Controller[R]) load(rows []R, columns []ir.Column, prev *ir.Store) {
	c.records = make(map[string]R, len(rows))
	for _, r := range rows {
		c.records[r.ID()] = r
	}

	next := Normalize(rows, columns, prev)
	if prev != nil {
		key, dir := prev.SortHeaderKey, prev.SortDirection
		if !next.HasColumn(key) {
			key, dir = "", ir.DirectionNone
		}
		next = c.arrange(next, key, dir, prev.FilterQuery)
	}
	c.store = next
}

// Snapshot returns the current state without applying an event.
func (c *Controller[R]) Snapshot() Snapshot {
	return Snapshot{
		TableID:                c.id,
		Revision:               c.clock.Current(),
		Columns:                append([]ir.Column(nil), c.store.Columns...),
		Rows:                   Denormalize(c.store, c.store.RowOrder),
		SelectedRows:           Denormalize(c.store, SelectedIDs(c.store)),
		SortHeaderKey:          c.store.SortHeaderKey,
		SortDirection:          c.store.SortDirection,
		FilterQuery:            c.store.FilterQuery,
		ShouldShowBatchActions: c.batch,
		Selection:              SelectionOf(c.store),
		Expansion:              ExpansionOf(c.store),
	}
}

// SelectedRecords returns the caller's records for the selected rows, in
// sorted order.
func (c *Controller[R]) SelectedRecords() []R {
	ids := SelectedIDs(c.store)
	out := make([]R, 0, len(ids))
	for _, id := range ids {
		if r, ok := c.records[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// String implements fmt.Stringer for log output.
func (c *Controller[R]) String() string {
	return fmt.Sprintf("table %s rev=%d rows=%d/%d", c.id, c.clock.Current(), len(c.store.RowOrder), c.store.Len())
}
