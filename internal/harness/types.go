package harness

import "github.com/roach88/gridstate/internal/engine"

// TraceEvent is one executed step and the state it produced.
type TraceEvent struct {
	Seq     int64
	Step    string // event type, or "set_data"
	Key     string
	RowID   string
	Query   string
	Ignored string // EventError code when the controller treated the event as a no-op
	Changed *bool  // set_data only
	State   engine.Snapshot
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held and the replay matched.
	Pass bool

	// Trace holds one entry per step, in order.
	Trace []TraceEvent

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string

	// Final is the snapshot after the last step.
	Final engine.Snapshot
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// toCanonicalMap renders the trace for canonical JSON.
func (r *Result) toCanonicalMap(name, tableID string) map[string]any {
	trace := make([]any, len(r.Trace))
	for i, ev := range r.Trace {
		m := map[string]any{
			"seq":   ev.Seq,
			"step":  ev.Step,
			"state": ev.State.Summary(),
		}
		if ev.Key != "" {
			m["key"] = ev.Key
		}
		if ev.RowID != "" {
			m["row_id"] = ev.RowID
		}
		if ev.Query != "" {
			m["query"] = ev.Query
		}
		if ev.Ignored != "" {
			m["ignored"] = ev.Ignored
		}
		if ev.Changed != nil {
			m["changed"] = *ev.Changed
		}
		trace[i] = m
	}
	return map[string]any{
		"scenario_name": name,
		"table_id":      tableID,
		"trace":         trace,
	}
}
