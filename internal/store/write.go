package store

import (
	"context"
	"fmt"

	"github.com/roach88/gridstate/internal/engine"
)

// TableRecord identifies a stored session and pins the settings its
// events were recorded under.
type TableRecord struct {
	ID            string
	DatasetHash   string
	Locale        string
	SelectionMode engine.SelectionMode
}

// EventRecord is one logged event and the hash of the snapshot it produced.
type EventRecord struct {
	TableID      string
	Seq          int64
	Event        engine.Event
	SnapshotHash string
}

// WriteTable registers a session.
// Uses ON CONFLICT(id) DO NOTHING: re-registering an id keeps the first record.
func (s *Store) WriteTable(ctx context.Context, t TableRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tables (id, dataset_hash, locale, selection_mode)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, t.ID, t.DatasetHash, t.Locale, string(t.SelectionMode))
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// AppendEvent appends one event to a session's log.
// Uses ON CONFLICT DO NOTHING: writing the same (table, seq) twice is a no-op.
//
// Note: The table must exist (foreign key constraint).
func (s *Store) AppendEvent(ctx context.Context, rec EventRecord) error {
	payload, err := marshalPayload(rec.Event)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (table_id, seq, type, payload, snapshot_hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, rec.TableID, rec.Seq, string(rec.Event.Type), payload, rec.SnapshotHash)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RecordEvent appends ev together with the snapshot it produced. The
// snapshot's revision becomes the event's seq.
func (s *Store) RecordEvent(ctx context.Context, ev engine.Event, snap engine.Snapshot) error {
	hash, err := snap.Hash()
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return s.AppendEvent(ctx, EventRecord{
		TableID:      snap.TableID,
		Seq:          snap.Revision,
		Event:        ev,
		SnapshotHash: hash,
	})
}

// DeleteTable removes a session and, by cascade, its events.
// Deleting an unknown id is not an error.
func (s *Store) DeleteTable(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	return nil
}
