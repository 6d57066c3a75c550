package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/gridstate/internal/ir"
)

// FruitRows returns the three-row dataset used across package tests:
// Banana, apple and Cherry, in that order.
func FruitRows() []ir.MapRecord {
	return []ir.MapRecord{
		ir.NewMapRecord("a", map[string]any{"name": "Banana", "qty": 3}),
		ir.NewMapRecord("b", map[string]any{"name": "apple", "qty": 10}),
		ir.NewMapRecord("c", map[string]any{"name": "Cherry", "qty": 3}),
	}
}

// FruitColumns returns the columns of FruitRows.
func FruitColumns() []ir.Column {
	return []ir.Column{{Key: "name", Header: "Name"}, {Key: "qty", Header: "Qty"}}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
