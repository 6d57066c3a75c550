package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
	"github.com/roach88/gridstate/internal/testutil"
)

// asciiRenderer writes to a buffer, so no escape sequences are emitted.
func asciiRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(&bytes.Buffer{})
}

func fruitController() *engine.Controller[ir.MapRecord] {
	return engine.New(testutil.FruitRows(), testutil.FruitColumns(),
		engine.WithTableID("t1"),
		engine.WithLogger(testutil.DiscardLogger()),
	)
}

func TestRenderSnapshotInitial(t *testing.T) {
	out := renderSnapshot(asciiRenderer(), fruitController().Snapshot())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "table t1")
	assert.NotContains(t, lines[0], "sort")
	assert.Contains(t, lines[1], "sel")
	assert.Contains(t, lines[1], "Name")
	assert.Contains(t, lines[1], "Qty")
	assert.Contains(t, lines[2], "Banana")
	assert.Contains(t, lines[3], "apple")
	assert.Contains(t, lines[4], "Cherry")
	assert.Equal(t, "0 of 3 selected", strings.TrimSpace(lines[5]))
}

func TestRenderSnapshotMarkers(t *testing.T) {
	c := fruitController()
	c.Sort("qty")
	c.ToggleRow("b")
	c.ToggleExpand("a")
	snap := c.Filter("a")

	out := renderSnapshot(asciiRenderer(), snap)
	assert.Contains(t, out, "sort qty DESC")
	assert.Contains(t, out, `filter "a"`)
	assert.Contains(t, out, "Qty v")
	assert.Contains(t, out, "[batch actions]")

	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "apple"):
			assert.True(t, strings.HasPrefix(line, markSelected), line)
		case strings.Contains(line, "Banana"):
			assert.True(t, strings.HasPrefix(line, markUnselected+"  "+markExpanded), line)
		}
	}
}

func TestRenderSnapshotNoRows(t *testing.T) {
	c := fruitController()
	out := renderSnapshot(asciiRenderer(), c.Filter("zzz"))
	assert.Contains(t, out, "(no rows)")
}

func TestColumnsAlign(t *testing.T) {
	out := renderGrid(newStyles(asciiRenderer()), fruitController().Snapshot())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	col := strings.Index(lines[0], "Qty")
	require.Positive(t, col)
	for _, line := range lines[1:] {
		assert.NotEqual(t, ' ', rune(line[col]), "qty value should start at column %d: %q", col, line)
	}
}

func TestColumnTitleFallsBackToKey(t *testing.T) {
	snap := engine.Snapshot{SortHeaderKey: "qty", SortDirection: ir.DirectionAsc}
	assert.Equal(t, "qty ^", columnTitle(snap, ir.Column{Key: "qty"}))
	assert.Equal(t, "Name", columnTitle(snap, ir.Column{Key: "name", Header: "Name"}))
}
