package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/gridstate/internal/ir"
)

func TestFilterRowsEmptyQueryIsIdentity(t *testing.T) {
	s := Normalize(fruitRows(), fruitColumns(), nil)
	order := []string{"c", "a", "b"}

	got := FilterRows(order, s.Columns, s.CellsByID, "", ContainsFold)

	assert.Equal(t, order, got)
	assert.Same(t, &order[0], &got[0], "empty query returns the input slice")
}

func TestFilterRows(t *testing.T) {
	s := Normalize(fruitRows(), fruitColumns(), nil)

	tests := []struct {
		name  string
		order []string
		query string
		want  []string
	}{
		{"substring", []string{"a", "b", "c"}, "an", []string{"a"}},
		{"case insensitive", []string{"a", "b", "c"}, "APP", []string{"b"}},
		{"any column matches", []string{"a", "b", "c"}, "10", []string{"b"}},
		{"preserves input order", []string{"c", "b", "a"}, "3", []string{"c", "a"}},
		{"no match", []string{"a", "b", "c"}, "kiwi", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterRows(tt.order, s.Columns, s.CellsByID, tt.query, ContainsFold))
		})
	}
}

func TestFilterRowsOnlyVisibleColumns(t *testing.T) {
	s := Normalize(fruitRows(), fruitColumns(), nil)

	got := FilterRows(s.RowOrder, nameColumn(), s.CellsByID, "10", ContainsFold)

	assert.Empty(t, got, "qty is not a listed column")
}

func TestFilterRowsCustomMatcher(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)
	prefix := func(v any, q string) bool { return strings.HasPrefix(ir.ToString(v), q) }

	assert.Equal(t, []string{"c"}, FilterRows(s.RowOrder, s.Columns, s.CellsByID, "Ch", prefix))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Banana", "AN"))
	assert.True(t, ContainsFold("\u00c4rger", "\u00e4r"))
	assert.True(t, ContainsFold(42, "4"))
	assert.True(t, ContainsFold(nil, ""))
	assert.False(t, ContainsFold(nil, "x"))
	assert.False(t, ContainsFold("apple", "pear"))
}

func TestFuzzyMatcher(t *testing.T) {
	fuzzy := FuzzyMatcher(1)

		assert.False(t, ContainsFold("Cherry", "chery"))
	assert.True(t, fuzzy("Cherry", "chery"), "one deletion away")
	assert.True(t, fuzzy("Green Apple", "APLE"), "matches a single word, case-folded")
	assert.False(t, fuzzy("Banana", "bxnxnx"))
	assert.True(t, fuzzy("Banana", "nan"), "substring still matches")
}

func TestFuzzyMatcherZeroEditsIsContainsFold(t *testing.T) {
	exact := FuzzyMatcher(0)
	assert.False(t, exact("Cherry", "chery"))
	assert.True(t, exact("Cherry", "CHER"))
}

func TestControllerWithFuzzyMatcher(t *testing.T) {
	c := newFruitController(WithMatcher(FuzzyMatcher(1)))

	snap := c.Filter("chery")
	assert.Equal(t, []string{"c"}, snap.RowIDs())
}
