package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFlowConfig_FieldEquivalence(t *testing.T) {
	got := NewFlowConfig(0.004, 0.01, 0.99, true, false)
	want := FlowConfig{
		Speed:               0.004,
		SourceMinLevel:      0.01,
		DestinationMaxLevel: 0.99,
		SymmetricBounds:     true,
		ClampLevels:         false,
	}
	assert.Equal(t, want, got)
}

func TestNewThermalConfig_FieldEquivalence(t *testing.T) {
	got := NewThermalConfig(0.08, 0.02, 20, 1)
	want := ThermalConfig{HeaterPower: 0.08, CoolDown: 0.02, InitialTemperature: 20, PasteurizationBand: 1}
	assert.Equal(t, want, got)
}

func TestNewFermentationConfig_FieldEquivalence(t *testing.T) {
	got := NewFermentationConfig(0.05, 2, 0.2)
	assert.Equal(t, FermentationConfig{Rate: 0.05, Required: 2, MinLevel: 0.2}, got)
}

func TestDefaultPlantConfig_ReferenceValues(t *testing.T) {
	cfg := DefaultPlantConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 0.004, cfg.Flow.Speed)
	assert.False(t, cfg.Flow.SymmetricBounds, "reference gates are asymmetric")
	assert.True(t, cfg.Flow.ClampLevels)
	assert.Equal(t, 0.08, cfg.Thermal.HeaterPower)
	assert.Equal(t, 0.02, cfg.Thermal.CoolDown)
	assert.Equal(t, 2.0, cfg.Fermentation.Required)
	assert.Equal(t, 1.0, cfg.InitialRawLevel)
}

func TestPlantConfig_Validate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *PlantConfig)
	}{
		{"zero speed", func(c *PlantConfig) { c.Flow.Speed = 0 }},
		{"negative source gate", func(c *PlantConfig) { c.Flow.SourceMinLevel = -0.1 }},
		{"inverted gates", func(c *PlantConfig) { c.Flow.DestinationMaxLevel = 0.005 }},
		{"destination gate above one", func(c *PlantConfig) { c.Flow.DestinationMaxLevel = 1.5 }},
		{"zero heater power", func(c *PlantConfig) { c.Thermal.HeaterPower = 0 }},
		{"negative cool-down", func(c *PlantConfig) { c.Thermal.CoolDown = -0.02 }},
		{"negative band", func(c *PlantConfig) { c.Thermal.PasteurizationBand = -1 }},
		{"zero fermentation rate", func(c *PlantConfig) { c.Fermentation.Rate = 0 }},
		{"negative required time", func(c *PlantConfig) { c.Fermentation.Required = -1 }},
		{"fermentation level of one", func(c *PlantConfig) { c.Fermentation.MinLevel = 1 }},
		{"overfull raw tank", func(c *PlantConfig) { c.InitialRawLevel = 1.2 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPlantConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
