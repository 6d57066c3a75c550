package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewResponse struct {
	Status string     `json:"status"`
	Data   ViewResult `json:"data"`
}

func viewJSON(t *testing.T, args ...string) ViewResult {
	t.Helper()
	out, err := execute(t, append([]string{"--format", "json", "view"}, args...)...)
	require.NoError(t, err)

	var resp viewResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestViewText(t *testing.T) {
	out, err := execute(t, "view", fruitsFixture, "--table-id", "t1", "sort:name", "toggle_row:a")
	require.NoError(t, err)

	assert.Contains(t, out, "table t1")
	assert.Contains(t, out, "rev 2")
	assert.Contains(t, out, "sort name DESC")
	assert.Contains(t, out, "Name v")
	assert.Contains(t, out, "1 of 3 selected")
	assert.Contains(t, out, "[batch actions]")

	cherry := strings.Index(out, "Cherry")
	banana := strings.Index(out, "Banana")
	apple := strings.Index(out, "apple")
	require.True(t, cherry > 0 && banana > 0 && apple > 0, out)
	assert.Less(t, cherry, banana)
	assert.Less(t, banana, apple)
}

func TestViewJSON(t *testing.T) {
	res := viewJSON(t, fruitsFixture, "--table-id", "t1", "sort:name", "sort:name", "filter:an")

	assert.Equal(t, "t1", res.Snapshot.TableID)
	assert.Equal(t, int64(3), res.Snapshot.Revision)
	assert.Equal(t, []string{"a"}, res.Snapshot.RowIDs())
	assert.Equal(t, "ASC", string(res.Snapshot.SortDirection))
	assert.Equal(t, "an", res.Snapshot.FilterQuery)
	assert.False(t, res.Resumed)
	assert.Empty(t, res.Ignored)
}

func TestViewReportsIgnoredEvents(t *testing.T) {
	res := viewJSON(t, fruitsFixture, "toggle_row:zz", "sort:color")

	require.Len(t, res.Ignored, 2)
	assert.Equal(t, "UNKNOWN_ROW", res.Ignored[0].Code)
	assert.Equal(t, "toggle_row", res.Ignored[0].Event)
	assert.Equal(t, "UNKNOWN_COLUMN", res.Ignored[1].Code)
	assert.Equal(t, int64(2), res.Snapshot.Revision)
}

func TestViewSingleSelectionMode(t *testing.T) {
	res := viewJSON(t, fruitsFixture, "--mode", "single", "toggle_row:a", "toggle_row:c", "toggle_all")

	assert.Equal(t, []string{"c"}, res.Snapshot.SelectedIDs())
	require.Len(t, res.Ignored, 1)
	assert.Equal(t, "UNSUPPORTED", res.Ignored[0].Code)
}

func TestViewResumesStoredSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "grid.db")

	first := viewJSON(t, fruitsFixture, "--db", db, "--table-id", "t1", "sort:name", "toggle_row:b")
	assert.False(t, first.Resumed)
	assert.Equal(t, int64(2), first.Snapshot.Revision)

	second := viewJSON(t, fruitsFixture, "--db", db, "--table-id", "t1", "toggle_expand:c")
	assert.True(t, second.Resumed)
	assert.Equal(t, int64(3), second.Snapshot.Revision)
	assert.Equal(t, []string{"c", "a", "b"}, second.Snapshot.RowIDs())
	assert.Equal(t, []string{"b"}, second.Snapshot.SelectedIDs())
	assert.Equal(t, []string{"c"}, second.Snapshot.ExpandedIDs())
}

func TestViewResumeRejectsConflictingSettings(t *testing.T) {
	db := filepath.Join(t.TempDir(), "grid.db")
	viewJSON(t, fruitsFixture, "--db", db, "--table-id", "t1", "toggle_row:a")

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"locale", []string{"--locale", "de"}, `--locale "de" conflicts with stored session t1 (locale "en")`},
		{"mode", []string{"--mode", "single"}, `--mode "single" conflicts with stored session t1 (mode "multiple")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"view", fruitsFixture, "--db", db, "--table-id", "t1"}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	same := viewJSON(t, fruitsFixture, "--db", db, "--table-id", "t1", "--locale", "en", "--mode", "multiple")
	assert.True(t, same.Resumed)
	assert.Equal(t, []string{"a"}, same.Snapshot.SelectedIDs())
}

func TestViewResumeWithChangedDataset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "grid.db")
	viewJSON(t, fruitsFixture, "--db", db, "--table-id", "t1", "toggle_all")

	_, err := execute(t, "view", "../../testdata/fixtures/fruits_v2.yaml", "--db", db, "--table-id", "t1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "dataset changed")
}

func TestViewErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode int
		contains string
	}{
		{"missing fixture", []string{"view", "nope.yaml"}, ExitCommandError, "cannot load fixture"},
		{"bad event", []string{"view", fruitsFixture, "explode"}, ExitCommandError, `unknown event "explode"`},
		{"bad mode", []string{"view", fruitsFixture, "--mode", "many"}, ExitCommandError, "invalid --mode"},
		{"bad locale", []string{"view", fruitsFixture, "--locale", "!!"}, ExitCommandError, "invalid --locale"},
		{"invalid fixture", []string{"view", "../fixture/testdata/duplicate.yaml"}, ExitFailure, "invalid fixture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestViewFuzzyFilter(t *testing.T) {
	exact := viewJSON(t, fruitsFixture, "filter:chery")
	assert.Empty(t, exact.Snapshot.RowIDs())

	fuzzy := viewJSON(t, fruitsFixture, "--fuzzy", "1", "filter:chery")
	assert.Equal(t, []string{"c"}, fuzzy.Snapshot.RowIDs())

	_, err := execute(t, "view", fruitsFixture, "--fuzzy", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
