package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/fixture"
	"github.com/roach88/gridstate/internal/ir"
	"github.com/roach88/gridstate/internal/store"
	"github.com/roach88/gridstate/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs one scenario against one controller with a deterministic table id.
type Harness struct {
	store      *store.Store
	controller *engine.Controller[ir.MapRecord]
	table      *fixture.Table
	baseDir    string
	logger     *slog.Logger

	// replayable is false once a set_data step swapped the dataset, since
	// the log can only be restored against the dataset it was recorded for.
	replayable  bool
	lastChanged *bool
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load the dataset and build the controller
//  2. Dispatch each step, record it to the event log, check its expect list
//  3. Check the final assertions
//  4. Restore the session from the log and compare every snapshot hash
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	tbl, err := scenario.DataSource.Load(scenario.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	h := &Harness{
		store:      st,
		table:      tbl,
		baseDir:    scenario.baseDir,
		logger:     testutil.DiscardLogger(),
		replayable: true,
	}

	opts := append(tbl.Options(),
		engine.WithIDGenerator(testutil.NewStaticIDGenerator(scenario.TableID)),
		engine.WithLogger(h.logger),
	)
	h.controller = engine.New(tbl.Rows, tbl.Columns, opts...)

	ctx := context.Background()
	if err := store.CreateTable(ctx, st, h.controller, tbl.Rows, tbl.Columns, tbl.LocaleTag(), tbl.Mode()); err != nil {
		return nil, fmt.Errorf("failed to record table: %w", err)
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	result.Final = h.controller.Snapshot()
	for _, msg := range EvaluateAssertions(result.Final, scenario.Assertions, AssertionContext{Where: "final", LastChanged: h.lastChanged}) {
		result.AddError(msg)
	}

	if h.replayable {
		if err := h.verifyReplay(ctx, tbl, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// executeSteps dispatches every step in order.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		var ev TraceEvent

		if step.SetData != nil {
			tbl, err := step.SetData.Load(h.baseDir)
			if err != nil {
				return fmt.Errorf("step %d: failed to load dataset: %w", i, err)
			}
			changed := h.controller.SetData(tbl.Rows, tbl.Columns)
			h.lastChanged = &changed
			if changed {
				h.replayable = false
			}
			ev = TraceEvent{Step: StepSetData, Changed: &changed, State: h.controller.Snapshot()}
		} else {
			e := step.engineEvent()
			snap, err := h.controller.Apply(e)
			ev = TraceEvent{Step: step.Event, Key: e.Key, RowID: e.RowID, Query: e.Query, State: snap}
			if err != nil {
				ev.Ignored = eventErrorCode(err)
			}
			if err := h.store.RecordEvent(ctx, e, snap); err != nil {
				return fmt.Errorf("step %d: failed to record event: %w", i, err)
			}
		}
		ev.Seq = ev.State.Revision
		result.Trace = append(result.Trace, ev)

		actx := AssertionContext{Where: fmt.Sprintf("step %d (%s)", i, ev.Step), LastChanged: h.lastChanged}
		for _, msg := range EvaluateAssertions(ev.State, step.Expect, actx) {
			result.AddError(msg)
		}

		h.logger.Info("step completed",
			"step", i,
			"kind", ev.Step,
			"revision", ev.Seq,
			"visible", len(ev.State.Rows),
		)
	}
	return nil
}

// verifyReplay restores the session from the log and compares every
// replayed snapshot hash with the recorded one.
func (h *Harness) verifyReplay(ctx context.Context, tbl *fixture.Table, result *Result) error {
	_, steps, err := store.Restore(ctx, h.store, h.controller.ID(), tbl.Rows, tbl.Columns, engine.WithLogger(h.logger))
	if err != nil {
		return fmt.Errorf("failed to replay session: %w", err)
	}
	for _, step := range steps {
		if !step.Match() {
			result.AddError(fmt.Sprintf("replay diverged at seq %d (%s)", step.Seq, step.Event.Type))
		}
	}
	return nil
}

func eventErrorCode(err error) string {
	var ee *engine.EventError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return "ERROR"
}
