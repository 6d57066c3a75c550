package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/fixture"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// DataSource is the initial dataset.
	DataSource `yaml:",inline"`

	// TableID is an optional fixed table id for deterministic traces.
	// If empty, defaults to "test-table-default".
	TableID string `yaml:"table_id,omitempty"`

	// Steps are executed in order against one controller.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// baseDir resolves relative fixture paths.
	baseDir string
}

// DataSource names a dataset: a fixture file or an inline table in
// fixture format. Exactly one must be set.
type DataSource struct {
	Fixture string    `yaml:"fixture,omitempty"`
	Table   yaml.Node `yaml:"table,omitempty"`
}

func (d DataSource) isSet() (fixtureSet, tableSet bool) {
	return d.Fixture != "", !d.Table.IsZero()
}

// Load resolves the dataset. Relative fixture paths are joined to baseDir.
func (d DataSource) Load(baseDir string) (*fixture.Table, error) {
	if d.Fixture != "" {
		path := d.Fixture
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		return fixture.Load(path)
	}

	data, err := yaml.Marshal(&d.Table)
	if err != nil {
		return nil, fmt.Errorf("re-encoding inline table: %w", err)
	}
	return fixture.Parse(data, fixture.FormatYAML, "")
}

// Step is either one event or a dataset replacement.
type Step struct {
	// Event is an engine event type: sort, toggle_row, toggle_all,
	// cancel_batch, toggle_expand, toggle_expand_all or filter.
	Event string `yaml:"event,omitempty"`

	Key   string `yaml:"key,omitempty"`
	RowID string `yaml:"row_id,omitempty"`
	Query string `yaml:"query,omitempty"`

	// SetData replaces the dataset through Controller.SetData.
	SetData *DataSource `yaml:"set_data,omitempty"`

	// Expect is checked right after this step.
	Expect []Assertion `yaml:"expect,omitempty"`
}

// engineEvent converts the step to an engine event.
func (s Step) engineEvent() engine.Event {
	return engine.Event{Type: engine.EventType(s.Event), Key: s.Key, RowID: s.RowID, Query: s.Query}
}

// Assertion checks one aspect of the published state.
type Assertion struct {
	Type string `yaml:"type"`

	// IDs is the expected id list (row_order, selected, expanded).
	IDs []string `yaml:"ids,omitempty"`

	// Key and Direction are the expected sort (sort).
	Key       string `yaml:"key,omitempty"`
	Direction string `yaml:"direction,omitempty"`

	// Query is the expected filter (filter).
	Query *string `yaml:"query,omitempty"`

	// Value is the expected flag (batch_actions, data_changed).
	Value *bool `yaml:"value,omitempty"`

	// Checked, Indeterminate and Count describe the select-all
	// aggregate (selection). Unset fields are not checked.
	Checked       *bool `yaml:"checked,omitempty"`
	Indeterminate *bool `yaml:"indeterminate,omitempty"`
	Count         *int  `yaml:"count,omitempty"`

	// Revision is the expected controller revision (revision).
	Revision *int64 `yaml:"revision,omitempty"`
}

// Assertion type constants.
const (
	AssertRowOrder     = "row_order"
	AssertSelected     = "selected"
	AssertExpanded     = "expanded"
	AssertSort         = "sort"
	AssertFilter       = "filter"
	AssertBatchActions = "batch_actions"
	AssertSelection    = "selection"
	AssertRevision     = "revision"
	AssertDataChanged  = "data_changed"
)

// StepSetData is the trace name of a set_data step.
const StepSetData = "set_data"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Fixture paths resolve relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.baseDir = filepath.Dir(path)
	return scenario, nil
}

// ParseScenario parses scenario YAML. Relative fixture paths resolve
// against the working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := validateSource("", s.DataSource); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(fmt.Sprintf("assertions[%d]", i), a); err != nil {
			return err
		}
	}
	return nil
}

func validateSource(prefix string, d DataSource) error {
	fixtureSet, tableSet := d.isSet()
	switch {
	case fixtureSet && tableSet:
		return fmt.Errorf("%sfixture and table are mutually exclusive", prefix)
	case !fixtureSet && !tableSet:
		return fmt.Errorf("%sfixture or table is required", prefix)
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch {
	case step.Event != "" && step.SetData != nil:
		return fmt.Errorf("steps[%d]: event and set_data are mutually exclusive", i)
	case step.SetData != nil:
		if err := validateSource(fmt.Sprintf("steps[%d].set_data: ", i), *step.SetData); err != nil {
			return err
		}
	case step.Event == "":
		return fmt.Errorf("steps[%d]: event or set_data is required", i)
	default:
		ev := engine.EventType(step.Event)
		if !engine.ValidEventTypes[ev] {
			return fmt.Errorf("steps[%d]: unknown event %q", i, step.Event)
		}
		if ev == engine.EventSort && step.Key == "" {
			return fmt.Errorf("steps[%d]: key is required for sort", i)
		}
		if (ev == engine.EventToggleRow || ev == engine.EventToggleExpand) && step.RowID == "" {
			return fmt.Errorf("steps[%d]: row_id is required for %s", i, step.Event)
		}
	}

	for j, a := range step.Expect {
		if err := validateAssertion(fmt.Sprintf("steps[%d].expect[%d]", i, j), a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(where string, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("%s: type is required", where)
	case AssertRowOrder, AssertSelected, AssertExpanded:
		if a.IDs == nil {
			return fmt.Errorf("%s: ids is required for %s (use [] for none)", where, a.Type)
		}
	case AssertSort:
		if a.Direction == "" {
			return fmt.Errorf("%s: direction is required for sort", where)
		}
	case AssertFilter:
		if a.Query == nil {
			return fmt.Errorf("%s: query is required for filter", where)
		}
	case AssertBatchActions, AssertDataChanged:
		if a.Value == nil {
			return fmt.Errorf("%s: value is required for %s", where, a.Type)
		}
	case AssertSelection:
		if a.Checked == nil && a.Indeterminate == nil && a.Count == nil {
			return fmt.Errorf("%s: selection needs checked, indeterminate or count", where)
		}
	case AssertRevision:
		if a.Revision == nil {
			return fmt.Errorf("%s: revision is required", where)
		}
	default:
		return fmt.Errorf("%s: unknown assertion type %q", where, a.Type)
	}
	return nil
}
