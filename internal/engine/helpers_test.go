package engine

import (
	"io"
	"log/slog"

	"github.com/roach88/gridstate/internal/ir"
)

func fruitRows() []ir.MapRecord {
	return []ir.MapRecord{
		ir.NewMapRecord("a", map[string]any{"name": "Banana", "qty": 3}),
		ir.NewMapRecord("b", map[string]any{"name": "apple", "qty": 10}),
		ir.NewMapRecord("c", map[string]any{"name": "Cherry", "qty": 3}),
	}
}

func nameColumn() []ir.Column {
	return []ir.Column{{Key: "name", Header: "Name"}}
}

func fruitColumns() []ir.Column {
	return []ir.Column{{Key: "name", Header: "Name"}, {Key: "qty", Header: "Qty"}}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFruitController(opts ...Option) *Controller[ir.MapRecord] {
	base := []Option{WithTableID("table-1"), WithLogger(quietLogger())}
	return New(fruitRows(), fruitColumns(), append(base, opts...)...)
}
