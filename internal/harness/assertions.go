package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Where    string // Step or final position
	Expected string
	Actual   string
	Rows     []string // Visible rows at the time, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Type, e.Where)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  Visible rows: %v\n", e.Rows)
	return buf.String()
}

// AssertionContext carries what assertions read besides the snapshot.
type AssertionContext struct {
	Where string
	// LastChanged is the result of the most recent set_data step, if any.
	LastChanged *bool
}

// EvaluateAssertions checks every assertion against snap and returns
// the failure messages.
func EvaluateAssertions(snap engine.Snapshot, assertions []Assertion, actx AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(snap, a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(snap engine.Snapshot, a Assertion, actx AssertionContext) error {
	if err := validateAssertion(actx.Where, a); err != nil {
		return err
	}
	fail := func(expected, actual any) error {
		return &AssertionError{
			Type:     a.Type,
			Where:    actx.Where,
			Expected: fmt.Sprint(expected),
			Actual:   fmt.Sprint(actual),
			Rows:     snap.RowIDs(),
		}
	}

	switch a.Type {
	case AssertRowOrder:
		if got := snap.RowIDs(); !slices.Equal(got, a.IDs) {
			return fail(a.IDs, got)
		}
	case AssertSelected:
		if got := snap.SelectedIDs(); !slices.Equal(got, a.IDs) {
			return fail(a.IDs, got)
		}
	case AssertExpanded:
		if got := snap.ExpandedIDs(); !slices.Equal(got, a.IDs) {
			return fail(a.IDs, got)
		}
	case AssertSort:
		want := ir.ParseDirection(a.Direction)
		if snap.SortDirection != want || (a.Key != "" && snap.SortHeaderKey != a.Key) {
			return fail(fmt.Sprintf("%s %s", a.Key, want), fmt.Sprintf("%s %s", snap.SortHeaderKey, snap.SortDirection))
		}
	case AssertFilter:
		if snap.FilterQuery != *a.Query {
			return fail(fmt.Sprintf("%q", *a.Query), fmt.Sprintf("%q", snap.FilterQuery))
		}
	case AssertBatchActions:
		if snap.ShouldShowBatchActions != *a.Value {
			return fail(*a.Value, snap.ShouldShowBatchActions)
		}
	case AssertSelection:
		sel := snap.Selection
		if a.Checked != nil && sel.Checked != *a.Checked {
			return fail(fmt.Sprintf("checked=%t", *a.Checked), fmt.Sprintf("checked=%t", sel.Checked))
		}
		if a.Indeterminate != nil && sel.Indeterminate != *a.Indeterminate {
			return fail(fmt.Sprintf("indeterminate=%t", *a.Indeterminate), fmt.Sprintf("indeterminate=%t", sel.Indeterminate))
		}
		if a.Count != nil && sel.Selected != *a.Count {
			return fail(fmt.Sprintf("count=%d", *a.Count), fmt.Sprintf("count=%d", sel.Selected))
		}
	case AssertRevision:
		if snap.Revision != *a.Revision {
			return fail(*a.Revision, snap.Revision)
		}
	case AssertDataChanged:
		if actx.LastChanged == nil {
			return fail(*a.Value, "no set_data step ran")
		}
		if *actx.LastChanged != *a.Value {
			return fail(*a.Value, *actx.LastChanged)
		}
	}
	return nil
}
