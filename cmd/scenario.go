package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one simulation run: the working graph to build, the
// processes to compose, the scheduler, and the experimental parameters.
type Scenario struct {
	Graph     GraphSpec      `yaml:"graph"`
	Dynamics  string         `yaml:"dynamics"` // "stochastic" (default) or "synchronous"
	Processes []ProcessSpec  `yaml:"processes"`
	Params    map[string]any `yaml:"params"`
	MaxTime   float64        `yaml:"maxTime"`
}

// GraphSpec describes the working graph. The kernel never generates graphs;
// building one here is this caller layer's job.
type GraphSpec struct {
	Kind       string  `yaml:"kind"` // "er" or "complete"
	Nodes      int     `yaml:"nodes"`
	MeanDegree float64 `yaml:"meanDegree"` // er only
}

// ProcessSpec names one process instance in the composed sequence.
type ProcessSpec struct {
	Model string `yaml:"model"` // "sir", "sis", "seir", "monitor"
	Name  string `yaml:"name"`  // optional instance name
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario for usability before any run starts.
func (sc *Scenario) Validate() error {
	switch sc.Graph.Kind {
	case "er", "complete":
	default:
		return fmt.Errorf("unknown graph kind %q", sc.Graph.Kind)
	}
	if sc.Graph.Nodes <= 0 {
		return fmt.Errorf("graph nodes must be positive, got %d", sc.Graph.Nodes)
	}
	if sc.Graph.Kind == "er" && sc.Graph.MeanDegree <= 0 {
		return fmt.Errorf("er graph needs a positive meanDegree, got %g", sc.Graph.MeanDegree)
	}
	switch sc.Dynamics {
	case "", "stochastic", "synchronous":
	default:
		return fmt.Errorf("unknown dynamics %q", sc.Dynamics)
	}
	if len(sc.Processes) == 0 {
		return fmt.Errorf("scenario declares no processes")
	}
	for _, ps := range sc.Processes {
		switch ps.Model {
		case "sir", "sis", "seir", "monitor":
		default:
			return fmt.Errorf("unknown model %q", ps.Model)
		}
	}
	return nil
}
