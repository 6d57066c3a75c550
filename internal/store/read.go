package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/gridstate/internal/engine"
)

// ReadTable returns the record of a session.
// Returns an error wrapping ErrTableNotFound if the id is unknown.
func (s *Store) ReadTable(ctx context.Context, id string) (TableRecord, error) {
	var (
		t    TableRecord
		mode string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, dataset_hash, locale, selection_mode
		FROM tables
		WHERE id = ?
	`, id).Scan(&t.ID, &t.DatasetHash, &t.Locale, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return TableRecord{}, fmt.Errorf("read table %q: %w", id, ErrTableNotFound)
	}
	if err != nil {
		return TableRecord{}, fmt.Errorf("read table %q: %w", id, err)
	}
	t.SelectionMode = engine.SelectionMode(mode)
	return t, nil
}

// ListTables returns all session ids in byte order.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tables ORDER BY id COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan table id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return ids, nil
}

// ReadEvents returns the log of a session ordered by seq.
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, tableID string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_id, seq, type, payload, snapshot_hash
		FROM events
		WHERE table_id = ?
		ORDER BY seq ASC
	`, tableID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []EventRecord{}
	for rows.Next() {
		var (
			rec          EventRecord
			typ, payload string
		)
		if err := rows.Scan(&rec.TableID, &rec.Seq, &typ, &payload, &rec.SnapshotHash); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.Event, err = unmarshalEvent(typ, payload)
		if err != nil {
			return nil, fmt.Errorf("event seq=%d: %w", rec.Seq, err)
		}
		events = append(events, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// LastSeq returns the highest seq logged for a session, or 0.
func (s *Store) LastSeq(ctx context.Context, tableID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events WHERE table_id = ?`, tableID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}
