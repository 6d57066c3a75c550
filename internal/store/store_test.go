package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.WriteTable(ctx(t), TableRecord{ID: "t1", DatasetHash: "h", Locale: "en", SelectionMode: "multiple"}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.ReadTable(ctx(t), "t1")
	require.NoError(t, err)
	assert.Equal(t, "h", got.DatasetHash)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "log.db"))
	assert.Error(t, err)
}

func TestCloseNilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}
