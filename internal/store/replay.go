package store

import (
	"context"
	"fmt"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
)

// ReplayStep is the outcome of re-dispatching one logged event.
type ReplayStep struct {
	Seq      int64
	Event    engine.Event
	Snapshot engine.Snapshot
	Hash     string
	Expected string
}

// Match reports whether the replayed snapshot equals the recorded one.
func (r ReplayStep) Match() bool {
	return r.Hash == r.Expected
}

// CreateTable registers the session of a freshly built controller.
func CreateTable[R ir.Record](ctx context.Context, s *Store, c *engine.Controller[R], rows []R, columns []ir.Column, locale string, mode engine.SelectionMode) error {
	hash, err := ir.DatasetFingerprint(rows, columns)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return s.WriteTable(ctx, TableRecord{
		ID:            c.ID(),
		DatasetHash:   hash,
		Locale:        locale,
		SelectionMode: mode,
	})
}

// Restore rebuilds the controller of a stored session by replaying its
// log against rows and columns.
//
// The controller is created with the recorded id, locale and selection
// mode; opts are applied after those. Returns an error wrapping
// ErrTableNotFound or ErrDatasetChanged when replay is impossible. A
// replayed snapshot that differs from the recorded one is not an error;
// inspect ReplayStep.Match.
func Restore[R ir.Record](ctx context.Context, s *Store, tableID string, rows []R, columns []ir.Column, opts ...engine.Option) (*engine.Controller[R], []ReplayStep, error) {
	t, err := s.ReadTable(ctx, tableID)
	if err != nil {
		return nil, nil, fmt.Errorf("restore: %w", err)
	}

	hash, err := ir.DatasetFingerprint(rows, columns)
	if err != nil {
		return nil, nil, fmt.Errorf("restore: %w", err)
	}
	if hash != t.DatasetHash {
		return nil, nil, fmt.Errorf("restore %q: %w", tableID, ErrDatasetChanged)
	}

	events, err := s.ReadEvents(ctx, tableID)
	if err != nil {
		return nil, nil, fmt.Errorf("restore: %w", err)
	}

	base := []engine.Option{
		engine.WithTableID(t.ID),
		engine.WithLocale(t.Locale),
		engine.WithSelectionMode(t.SelectionMode),
	}
	c := engine.New(rows, columns, append(base, opts...)...)

	steps := make([]ReplayStep, 0, len(events))
	for _, rec := range events {
		snap := c.Dispatch(rec.Event)
		got, err := snap.Hash()
		if err != nil {
			return nil, nil, fmt.Errorf("restore seq=%d: %w", rec.Seq, err)
		}
		if snap.Revision != rec.Seq {
			return nil, nil, fmt.Errorf("restore %q: log has a gap before seq=%d", tableID, rec.Seq)
		}
		steps = append(steps, ReplayStep{
			Seq:      rec.Seq,
			Event:    rec.Event,
			Snapshot: snap,
			Hash:     got,
			Expected: rec.SnapshotHash,
		})
	}

	return c, steps, nil
}
