package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/gridstate/internal/ir"
)

func TestSelectionAggregateEverySubset(t *testing.T) {
	ids := []string{"a", "b", "c"}

	for mask := 0; mask < 1<<len(ids); mask++ {
		s := Normalize(fruitRows(), nameColumn(), nil)
		want := 0
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				s = ToggleRowSelection(s, id)
				want++
			}
		}

		st := SelectionOf(s)
		assert.Equal(t, want, st.Selected)
		assert.Equal(t, 3, st.Total)
		assert.Equal(t, want == 3, st.Checked, "mask %03b", mask)
		assert.Equal(t, want > 0 && want < 3, st.Indeterminate, "mask %03b", mask)
	}
}

func TestSelectionAggregateEmptyStore(t *testing.T) {
	st := SelectionOf(ir.NewStore())

	assert.Zero(t, st.Total)
	assert.False(t, st.Checked)
	assert.False(t, st.Indeterminate)
}

func TestToggleRowSelectionTouchesOneRow(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)
	s = ToggleRowSelection(s, "b")

	next := ToggleRowSelection(s, "a")

	assert.True(t, next.Row("a").IsSelected)
	assert.True(t, next.Row("b").IsSelected)
	assert.False(t, next.Row("c").IsSelected)
	assert.False(t, s.Row("a").IsSelected, "previous store is not modified")
	assert.Same(t, s.Row("c"), next.Row("c"), "untouched rows are shared")

	next = ToggleRowSelection(next, "a")
	assert.False(t, next.Row("a").IsSelected)
}

func TestToggleRowSelectionUnknownID(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)

	assert.Same(t, s, ToggleRowSelection(s, "zz"))
	assert.Same(t, s, SelectOnly(s, "zz"))
}

func TestToggleAllSelection(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)

	s = ToggleAllSelection(s)
	assert.Equal(t, 3, SelectionOf(s).Selected, "none selected: select all")

	s = ToggleAllSelection(s)
	assert.Equal(t, 0, SelectionOf(s).Selected, "all selected: clear")

	s = ToggleRowSelection(s, "b")
	s = ToggleAllSelection(s)
	assert.Equal(t, 3, SelectionOf(s).Selected, "partial: select all")
}

func TestToggleAllSelectionIgnoresFilter(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)
	s.RowOrder = []string{"a"}

	s = ToggleAllSelection(s)

	assert.True(t, s.Row("b").IsSelected)
	assert.True(t, SelectionOf(s).Checked)
}

func TestSelectOnly(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)
	s = ToggleAllSelection(s)

	s = SelectOnly(s, "c")

	assert.Equal(t, []string{"c"}, SelectedIDs(s))
}

func TestClearSelection(t *testing.T) {
	s := ToggleAllSelection(Normalize(fruitRows(), nameColumn(), nil))

	s = ClearSelection(s)

	assert.Empty(t, SelectedIDs(s))
}

func TestSelectedIDsFollowSortedOrder(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)
	s = ToggleAllSelection(s)
	s.SortedOrder = []string{"c", "a", "b"}
	s.RowOrder = []string{"a"}

	assert.Equal(t, []string{"c", "a", "b"}, SelectedIDs(s))
}
