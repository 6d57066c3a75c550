package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
	"github.com/roach88/gridstate/internal/testutil"
)

func sortedSnapshot(t *testing.T) engine.Snapshot {
	t.Helper()
	c := engine.New(testutil.FruitRows(), testutil.FruitColumns(),
		engine.WithTableID("table-1"),
		engine.WithLogger(testutil.DiscardLogger()),
	)
	c.Sort("name")
	c.ToggleRow("b")
	return c.ToggleExpand("a")
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }
func strPtr(s string) *string { return &s }

func TestEvaluateAssertionsPassing(t *testing.T) {
	snap := sortedSnapshot(t)

	assertions := []Assertion{
		{Type: AssertRowOrder, IDs: []string{"c", "a", "b"}},
		{Type: AssertSelected, IDs: []string{"b"}},
		{Type: AssertExpanded, IDs: []string{"a"}},
		{Type: AssertSort, Key: "name", Direction: "DESC"},
		{Type: AssertFilter, Query: strPtr("")},
		{Type: AssertBatchActions, Value: boolPtr(true)},
		{Type: AssertSelection, Checked: boolPtr(false), Indeterminate: boolPtr(true), Count: intPtr(1)},
		{Type: AssertRevision, Revision: int64Ptr(3)},
	}

	errs := EvaluateAssertions(snap, assertions, AssertionContext{Where: "final"})
	assert.Empty(t, errs)
}

func TestEvaluateAssertionsFailing(t *testing.T) {
	snap := sortedSnapshot(t)

	tests := []struct {
		name      string
		assertion Assertion
		contains  string
	}{
		{"row order", Assertion{Type: AssertRowOrder, IDs: []string{"a", "b", "c"}}, "Actual: [c a b]"},
		{"selected", Assertion{Type: AssertSelected, IDs: []string{}}, "Actual: [b]"},
		{"expanded", Assertion{Type: AssertExpanded, IDs: []string{"b"}}, "Actual: [a]"},
		{"sort direction", Assertion{Type: AssertSort, Key: "name", Direction: "ASC"}, "Actual: name DESC"},
		{"sort key", Assertion{Type: AssertSort, Key: "qty", Direction: "DESC"}, "Expected: qty DESC"},
		{"filter", Assertion{Type: AssertFilter, Query: strPtr("an")}, `Expected: "an"`},
		{"batch", Assertion{Type: AssertBatchActions, Value: boolPtr(false)}, "Actual: true"},
		{"checked", Assertion{Type: AssertSelection, Checked: boolPtr(true)}, "checked=false"},
		{"count", Assertion{Type: AssertSelection, Count: intPtr(3)}, "count=1"},
		{"revision", Assertion{Type: AssertRevision, Revision: int64Ptr(9)}, "Actual: 3"},
		{"data changed without set_data", Assertion{Type: AssertDataChanged, Value: boolPtr(true)}, "no set_data step ran"},
		{"unknown", Assertion{Type: "vibes"}, `unknown assertion type "vibes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(snap, []Assertion{tt.assertion}, AssertionContext{Where: "step 2 (toggle_expand)"})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.contains)
		})
	}
}

func TestEvaluateAssertionsMissingOperand(t *testing.T) {
	snap := sortedSnapshot(t)

	tests := []struct {
		name      string
		assertion Assertion
		contains  string
	}{
		{"filter", Assertion{Type: AssertFilter}, "query is required for filter"},
		{"batch", Assertion{Type: AssertBatchActions}, "value is required for batch_actions"},
		{"data changed", Assertion{Type: AssertDataChanged}, "value is required for data_changed"},
		{"revision", Assertion{Type: AssertRevision}, "revision is required"},
		{"row order", Assertion{Type: AssertRowOrder}, "ids is required for row_order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs []string
			require.NotPanics(t, func() {
				errs = EvaluateAssertions(snap, []Assertion{tt.assertion}, AssertionContext{Where: "final", LastChanged: boolPtr(true)})
			})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], "final: "+tt.contains)
		})
	}
}

func TestEvaluateDataChanged(t *testing.T) {
	snap := sortedSnapshot(t)
	a := []Assertion{{Type: AssertDataChanged, Value: boolPtr(false)}}

	assert.Empty(t, EvaluateAssertions(snap, a, AssertionContext{LastChanged: boolPtr(false)}))
	assert.Len(t, EvaluateAssertions(snap, a, AssertionContext{LastChanged: boolPtr(true)}), 1)
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertRowOrder,
		Where:    "final",
		Expected: "[a]",
		Actual:   "[b]",
		Rows:     []string{"b"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: row_order (final)")
	assert.Contains(t, msg, "Expected: [a]")
	assert.Contains(t, msg, "Actual: [b]")
	assert.Contains(t, msg, "Visible rows: [b]")
}

func TestSortAssertionParsesDirection(t *testing.T) {
	snap := engine.New(testutil.FruitRows(), testutil.FruitColumns(), engine.WithLogger(testutil.DiscardLogger())).Snapshot()
	assert.Equal(t, ir.DirectionNone, snap.SortDirection)

	errs := EvaluateAssertions(snap, []Assertion{{Type: AssertSort, Direction: "NONE"}}, AssertionContext{})
	assert.Empty(t, errs)
}
