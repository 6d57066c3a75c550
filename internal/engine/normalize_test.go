package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstate/internal/ir"
)

func TestNormalizeRoundTrip(t *testing.T) {
	rows := fruitRows()
	cols := fruitColumns()

	s := Normalize(rows, cols, nil)
	out := Denormalize(s, s.RowOrder)

	require.Len(t, out, len(rows))
	for i, r := range rows {
		assert.Equal(t, r.ID(), out[i].ID, "row order must be preserved")
		require.Len(t, out[i].Cells, len(cols))
		for j, col := range cols {
			want, _ := r.Field(col.Key)
			assert.Equal(t, want, out[i].Cells[j].Value)
			assert.Equal(t, col.Key, out[i].Cells[j].Header)
			assert.Equal(t, ir.CellID(r.ID(), col.Key), out[i].Cells[j].ID)
		}
	}
}

func TestNormalizeStoreShape(t *testing.T) {
	s := Normalize(fruitRows(), fruitColumns(), nil)

	assert.Equal(t, []string{"a", "b", "c"}, s.InitialRowOrder)
	assert.Equal(t, s.InitialRowOrder, s.SortedOrder)
	assert.Equal(t, s.InitialRowOrder, s.RowOrder)
	assert.Equal(t, ir.DirectionNone, s.SortDirection)
	assert.Len(t, s.RowsByID, 3)
	assert.Len(t, s.CellsByID, 6)

	for _, row := range s.RowsByID {
		assert.False(t, row.IsSelected)
		assert.False(t, row.IsExpanded)
		for _, cid := range row.CellIDs {
			cell := s.CellsByID[cid]
			require.NotNil(t, cell)
			assert.True(t, cell.IsValid)
			assert.False(t, cell.IsEditable)
		}
	}
}

func TestNormalizeMissingFieldIsNil(t *testing.T) {
	rows := []ir.MapRecord{ir.NewMapRecord("x", map[string]any{"name": "only"})}

	s := Normalize(rows, fruitColumns(), nil)

	cell := s.CellsByID[ir.CellID("x", "qty")]
	require.NotNil(t, cell)
	assert.Nil(t, cell.Value)
}

func TestNormalizeEmpty(t *testing.T) {
	s := Normalize([]ir.MapRecord{}, nil, nil)

	assert.Empty(t, s.RowOrder)
	assert.NotNil(t, s.Columns)
	assert.Empty(t, Denormalize(s, s.RowOrder))
}

func TestNormalizeCarriesFlagsByID(t *testing.T) {
	prev := Normalize(fruitRows(), nameColumn(), nil)
	prev = ToggleRowSelection(prev, "a")
	prev = ToggleRowExpansion(prev, "c")

	next := []ir.MapRecord{
		ir.NewMapRecord("c", map[string]any{"name": "Cherry (ripe)"}),
		ir.NewMapRecord("a", map[string]any{"name": "Banana"}),
		ir.NewMapRecord("d", map[string]any{"name": "Date"}),
	}
	s := Normalize(next, nameColumn(), prev)

	assert.True(t, s.Row("a").IsSelected, "selection survives re-normalization")
	assert.True(t, s.Row("c").IsExpanded, "expansion survives re-normalization")
	assert.False(t, s.Row("d").IsSelected)
	assert.Nil(t, s.Row("b"), "dropped rows leave no trace")
	assert.NotContains(t, s.CellsByID, ir.CellID("b", "name"))
	assert.Equal(t, []string{"c", "a", "d"}, s.RowOrder)
}

func TestNormalizeInitialState(t *testing.T) {
	seeded := ir.NewMapRecord("a", map[string]any{"name": "Banana"})
	seeded.Selected = true
	seeded.Expanded = true

	s := Normalize([]ir.MapRecord{seeded}, nameColumn(), nil)
	assert.True(t, s.Row("a").IsSelected)
	assert.True(t, s.Row("a").IsExpanded)

	// Flags already in the previous store win over the record's seed.
	prev := ClearSelection(s)
	s = Normalize([]ir.MapRecord{seeded}, nameColumn(), prev)
	assert.False(t, s.Row("a").IsSelected)
	assert.True(t, s.Row("a").IsExpanded)
}

func TestDenormalizeSkipsUnknownIDs(t *testing.T) {
	s := Normalize(fruitRows(), nameColumn(), nil)

	out := Denormalize(s, []string{"c", "zz", "a"})

	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "Banana", out[1].Value("name"))
	assert.Nil(t, out[1].Value("missing"))
}
