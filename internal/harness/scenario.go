package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of store operations.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Steps run in order against a fresh database.
	Steps []Step `yaml:"steps"`
}

// Step is one store operation.
type Step struct {
	// Op is the operation name, e.g. "insert_session". See Ops.
	Op string `yaml:"op"`

	// Args are the operation arguments. Missing arguments take defaults.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect, when set, is checked against the step's outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step.
type Expect struct {
	// Result is the exact formatted result, e.g. "sum=35" or "not found".
	Result string `yaml:"result,omitempty"`

	// Error is the expected error kind: "constraint" or "invalid".
	Error string `yaml:"error,omitempty"`
}

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

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
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

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if _, ok := ops[step.Op]; !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil && step.Expect.Error != "" {
			switch step.Expect.Error {
			case ErrorKindConstraint, ErrorKindInvalid:
			default:
				return fmt.Errorf("steps[%d]: unknown error kind %q", i, step.Expect.Error)
			}
		}
	}

	return nil
}
