// Package fixture loads table datasets from YAML, JSON or CUE files.
//
// All three formats share one shape:
//
//	locale: en                # optional BCP 47 tag, default "en"
//	selection_mode: multiple  # optional: multiple | single
//	columns:
//	  - key: name
//	    header: Name
//	rows:
//	  - id: a
//	    values: {name: Banana, qty: 3}
//	    selected: true        # optional initial flags
//
// A loaded Table has passed ir.Validate, so its row ids and column keys are
// non-empty and unique.
package fixture
