package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstate/internal/engine"
)

func TestReadTableNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadTable(ctx(t), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestReadEventsEmpty(t *testing.T) {
	s := createTestStore(t)

	events, err := s.ReadEvents(ctx(t), "nothing")

	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestListTables(t *testing.T) {
	s := createTestStore(t)

	ids, err := s.ListTables(ctx(t))
	require.NoError(t, err)
	assert.Empty(t, ids)

	seedTable(t, s, "b")
	seedTable(t, s, "a")
	seedTable(t, s, "B")

	ids, err = s.ListTables(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "a", "b"}, ids)
}

func TestLastSeq(t *testing.T) {
	s := createTestStore(t)
	seedTable(t, s, "t1")

	seq, err := s.LastSeq(ctx(t), "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, s.AppendEvent(ctx(t), EventRecord{TableID: "t1", Seq: i, Event: engine.ToggleAllEvent(), SnapshotHash: "h"}))
	}

	seq, err = s.LastSeq(ctx(t), "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}
