package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceJSONShape(t *testing.T) {
	scenario := mustParse(t, `
name: shape
description: canonical trace layout
table_id: t-9
table:
  columns:
    - key: name
  rows:
    - id: a
      values: {name: Fig}
steps:
  - event: filter
    query: fi
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	got, err := TraceJSON(scenario, result)
	require.NoError(t, err)

	want := `{"scenario_name":"shape","table_id":"t-9","trace":[{"query":"fi","seq":1,"state":{` +
		`"batch":false,"expanded":[],"filter":"fi","revision":1,"row_order":["a"],"selected":[],` +
		`"selection":{"checked":false,"indeterminate":false,"selected":0,"total":1},` +
		`"sort":{"direction":"NONE","key":""}},"step":"filter"}]}`
	assert.Equal(t, want, string(got))
}

func TestTraceJSONFallsBackToSnapshotTableID(t *testing.T) {
	scenario := &Scenario{Name: "fallback"}
	result := NewResult()
	result.Final.TableID = "from-snapshot"

	got, err := TraceJSON(scenario, result)
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"fallback","table_id":"from-snapshot","trace":[]}`, string(got))
}

func TestResultAddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
