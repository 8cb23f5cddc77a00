package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/dairy-sim/sim"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version string                   `yaml:"version"`
	Plant   sim.PlantConfig          `yaml:"plant"`
	Presets map[string]sim.Setpoints `yaml:"presets"`
}

// builtinConfig is used when no defaults file is present.
func builtinConfig() Config {
	return Config{
		Plant: sim.DefaultPlantConfig(),
		Presets: map[string]sim.Setpoints{
			"buttermilk": sim.DefaultSetpoints(),
		},
	}
}

// loadDefaultsConfig parses a defaults file into a Config. Plant parameters
// missing from the file keep their reference values; unknown keys are errors.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	return parseDefaultsConfig(data)
}

func parseDefaultsConfig(data []byte) (Config, error) {
	cfg := Config{Plant: sim.DefaultPlantConfig()}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	if err := cfg.Plant.Validate(); err != nil {
		return Config{}, fmt.Errorf("plant section: %w", err)
	}
	return cfg, nil
}

// Preset returns the named setpoint pair.
func (c Config) Preset(name string) (sim.Setpoints, error) {
	sp, ok := c.Presets[name]
	if !ok {
		return sim.Setpoints{}, fmt.Errorf("unknown preset %q (available: %v)", name, c.PresetNames())
	}
	return sp, nil
}

// PresetNames returns the preset names in sorted order.
func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
