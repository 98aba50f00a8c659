// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clocksync-sim/internal/fault"
	"clocksync-sim/internal/protocol"
)

// Documented defaults from the reference behavior.
const (
	DefaultNodeCount = 5
	DefaultBaseTime  = 1000.0
)

// Clock initialization modes.
const (
	InitRandomDrift = "random-drift"
	InitManual      = "manual"
)

// Scenario describes one synchronization run.
type Scenario struct {
	Name        string    `yaml:"name"`
	Algorithm   string    `yaml:"algorithm"`
	FaultType   string    `yaml:"fault_type"`
	Robust      bool      `yaml:"robust"`
	InitMode    string    `yaml:"init_mode"`
	NodeCount   int       `yaml:"node_count"`
	BaseTime    float64   `yaml:"base_time"`
	ManualTimes []float64 `yaml:"manual_times"`
	Seed        int64     `yaml:"seed"`
}

// SimulationConfig is the root configuration: a list of scenarios to run.
type SimulationConfig struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load validates the YAML file against the CUE schema, unmarshals it, applies
// defaults, and runs the semantic checks CUE cannot express.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SimulationConfig) applyDefaults() {
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if s.Algorithm == "" {
			s.Algorithm = string(protocol.Berkeley)
		}
		if s.FaultType == "" {
			s.FaultType = string(fault.None)
		}
		if s.InitMode == "" {
			s.InitMode = InitRandomDrift
		}
		if s.NodeCount == 0 {
			s.NodeCount = DefaultNodeCount
		}
		if s.BaseTime == 0 {
			s.BaseTime = DefaultBaseTime
		}
	}
}

// Validate checks every scenario's enumerators and manual-times shape.
func (c *SimulationConfig) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("%w: no scenarios defined", protocol.ErrInvalidInput)
	}
	for _, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return nil
}

// Validate checks a single scenario.
func (s Scenario) Validate() error {
	if !protocol.Algorithm(s.Algorithm).Valid() {
		return fmt.Errorf("%w: unknown algorithm %q", protocol.ErrConfiguration, s.Algorithm)
	}
	if !fault.Type(s.FaultType).Valid() {
		return fmt.Errorf("%w: unknown fault type %q", protocol.ErrConfiguration, s.FaultType)
	}
	if s.InitMode != InitRandomDrift && s.InitMode != InitManual {
		return fmt.Errorf("%w: unknown init mode %q", protocol.ErrConfiguration, s.InitMode)
	}
	if s.NodeCount < 1 {
		return fmt.Errorf("%w: node count %d", protocol.ErrInvalidInput, s.NodeCount)
	}
	if s.InitMode == InitManual && len(s.ManualTimes) != s.NodeCount {
		return fmt.Errorf("%w: %d manual times for %d nodes",
			protocol.ErrInvalidInput, len(s.ManualTimes), s.NodeCount)
	}
	return nil
}
