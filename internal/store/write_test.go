package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstate/internal/engine"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

func seedTable(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.WriteTable(ctx(t), TableRecord{
		ID:            id,
		DatasetHash:   "hash-" + id,
		Locale:        "en",
		SelectionMode: engine.SelectionMultiple,
	}))
}

func TestWriteTableIdempotent(t *testing.T) {
	s := createTestStore(t)
	seedTable(t, s, "t1")

	err := s.WriteTable(ctx(t), TableRecord{ID: "t1", DatasetHash: "other", Locale: "sv", SelectionMode: engine.SelectionSingle})
	require.NoError(t, err)

	got, err := s.ReadTable(ctx(t), "t1")
	require.NoError(t, err)
	assert.Equal(t, TableRecord{ID: "t1", DatasetHash: "hash-t1", Locale: "en", SelectionMode: engine.SelectionMultiple}, got)
}

func TestAppendEventRoundTrip(t *testing.T) {
	s := createTestStore(t)
	seedTable(t, s, "t1")

	want := []EventRecord{
		{TableID: "t1", Seq: 1, Event: engine.SortEvent("name"), SnapshotHash: "h1"},
		{TableID: "t1", Seq: 2, Event: engine.ToggleRowEvent("a"), SnapshotHash: "h2"},
		{TableID: "t1", Seq: 3, Event: engine.FilterEvent(`"quoted" <q>`), SnapshotHash: "h3"},
		{TableID: "t1", Seq: 4, Event: engine.CancelBatchEvent(), SnapshotHash: "h4"},
	}
	// Insert out of order; reads are ordered by seq.
	for _, i := range []int{2, 0, 3, 1} {
		require.NoError(t, s.AppendEvent(ctx(t), want[i]))
	}

	got, err := s.ReadEvents(ctx(t), "t1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAppendEventIdempotent(t *testing.T) {
	s := createTestStore(t)
	seedTable(t, s, "t1")

	rec := EventRecord{TableID: "t1", Seq: 1, Event: engine.SortEvent("name"), SnapshotHash: "h1"}
	require.NoError(t, s.AppendEvent(ctx(t), rec))

	rec.SnapshotHash = "different"
	require.NoError(t, s.AppendEvent(ctx(t), rec))

	got, err := s.ReadEvents(ctx(t), "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "h1", got[0].SnapshotHash)
}

func TestAppendEventRequiresTable(t *testing.T) {
	s := createTestStore(t)

	err := s.AppendEvent(ctx(t), EventRecord{TableID: "ghost", Seq: 1, Event: engine.ToggleAllEvent()})

	assert.Error(t, err, "foreign key must reject events of unknown tables")
}

func TestRecordEvent(t *testing.T) {
	s := createTestStore(t)
	c := engine.New(testRows(), testColumns(), engine.WithTableID("t1"), quietLogger())
	require.NoError(t, CreateTable(ctx(t), s, c, testRows(), testColumns(), "en", engine.SelectionMultiple))

	ev := engine.SortEvent("name")
	snap := c.Dispatch(ev)
	require.NoError(t, s.RecordEvent(ctx(t), ev, snap))

	got, err := s.ReadEvents(ctx(t), "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	want, err := snap.Hash()
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, want, got[0].SnapshotHash)
	assert.Equal(t, ev, got[0].Event)
}

func TestDeleteTableCascades(t *testing.T) {
	s := createTestStore(t)
	seedTable(t, s, "t1")
	require.NoError(t, s.AppendEvent(ctx(t), EventRecord{TableID: "t1", Seq: 1, Event: engine.ToggleAllEvent(), SnapshotHash: "h"}))

	require.NoError(t, s.DeleteTable(ctx(t), "t1"))
	require.NoError(t, s.DeleteTable(ctx(t), "never-existed"))

	_, err := s.ReadTable(ctx(t), "t1")
	assert.True(t, errors.Is(err, ErrTableNotFound))

	events, err := s.ReadEvents(ctx(t), "t1")
	require.NoError(t, err)
	assert.Empty(t, events)
}
