package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tempo/internal/temporal"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Zone applies to date-time arguments written without an offset.
	// Fixed offsets only; empty means UTC.
	Zone string `yaml:"zone,omitempty"`

	// Clock drives clock.now. If nil, clock.now always reads DefaultClockStart.
	Clock *ClockSpec `yaml:"clock,omitempty"`

	// Setup adds timeline entries before the flow. Setup is assumed to succeed.
	Setup []SetupEntry `yaml:"setup,omitempty"`

	// Flow contains the operations to run, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and timeline.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ClockSpec configures the stepping clock behind clock.now.
type ClockSpec struct {
	Start temporal.DateTime `yaml:"start"`
	Step  temporal.Duration `yaml:"step"`
}

// SetupEntry is a timeline entry added before the flow.
type SetupEntry struct {
	Label    string            `yaml:"label"`
	Interval temporal.Interval `yaml:"interval"`
}

// FlowStep runs one operation and optionally checks its outcome.
type FlowStep struct {
	// Op is the registered operation name (e.g., "duration.plus").
	Op string `yaml:"op"`

	// Args are passed to the operation as written.
	Args []string `yaml:"args"`

	// Expect specifies the expected outcome.
	// If nil, the step only has to run; an error is recorded in the trace.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies an expected result or error code, never both.
type ExpectClause struct {
	Result string `yaml:"result,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Assertion validates the trace or the timeline table.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check op appears in trace, with Args as a prefix
	// - "trace_order": Check ops appear in order
	// - "trace_count": Check op appears exactly Count times
	// - "final_state": Query table and verify expected values
	Type string `yaml:"type"`

	// Op is the operation name (used by trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Args are the expected leading arguments (used by trace_contains).
	Args []string `yaml:"args,omitempty"`

	// Ops is the expected order (used by trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Table is the table name (used by final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (used by final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected column values (used by final_state).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
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

// ScenarioFiles returns the *.yaml files in dir, sorted by name.
func ScenarioFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// zone returns the scenario's zone offset.
func (s *Scenario) zone() (temporal.ZoneOffset, error) {
	if s.Zone == "" {
		return temporal.UTC, nil
	}
	return temporal.ParseZoneOffset(s.Zone)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if _, err := s.zone(); err != nil {
		return fmt.Errorf("zone: %w", err)
	}

	for i, entry := range s.Setup {
		if entry.Label == "" {
			return fmt.Errorf("setup[%d]: label is required", i)
		}
	}

	for i, step := range s.Flow {
		if step.Op == "" {
			return fmt.Errorf("flow[%d]: op is required", i)
		}
		if step.Expect != nil && step.Expect.Result != "" && step.Expect.Error != "" {
			return fmt.Errorf("flow[%d].expect: result and error are mutually exclusive", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
