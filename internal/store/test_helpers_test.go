package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRows() []ir.MapRecord {
	return []ir.MapRecord{
		ir.NewMapRecord("a", map[string]any{"name": "Banana"}),
		ir.NewMapRecord("b", map[string]any{"name": "apple"}),
		ir.NewMapRecord("c", map[string]any{"name": "Cherry"}),
	}
}

func testColumns() []ir.Column {
	return []ir.Column{{Key: "name", Header: "Name"}}
}

func quietLogger() engine.Option {
	return engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
