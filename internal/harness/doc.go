// Package harness runs gridstate conformance scenarios.
//
// A scenario loads a dataset, dispatches a list of events to a fresh
// controller and checks the published state after each step and at the
// end. Every run is also recorded to an in-memory event log and replayed,
// so a scenario fails if its session would not restore identically.
//
// # Scenario Format
//
//	name: sort_cycle
//	description: "Header clicks cycle DESC, ASC, NONE"
//	fixture: ../fixtures/fruits.yaml   # or an inline `table:` block
//	table_id: table-1                  # optional, default "test-table-default"
//	steps:
//	  - event: sort
//	    key: name
//	    expect:
//	      - type: row_order
//	        ids: [c, a, b]
//	  - set_data:
//	      fixture: ../fixtures/fruits_v2.yaml
//	assertions:
//	  - type: sort
//	    key: name
//	    direction: DESC
//
// Fixture paths are resolved relative to the scenario file.
//
// # Assertion Types
//
//   - row_order: visible row ids, in order
//   - selected: selected row ids, in sorted order
//   - expanded: expanded visible row ids
//   - sort: active sort key and direction
//   - filter: active filter query
//   - batch_actions: whether the batch action bar is shown
//   - selection: select-all aggregate (checked, indeterminate, count)
//   - revision: controller revision
//   - data_changed: result of the most recent set_data step
//
// # Golden Files
//
// RunWithGolden stores the canonical JSON trace of a run under
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
