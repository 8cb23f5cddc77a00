package sim

import "fmt"

// Reference plant constants.
const (
	DefaultSpeed               = 0.004 // level-units moved per transfer per tick
	DefaultSourceMinLevel      = 0.01  // source must hold more than this to transfer
	DefaultDestinationMaxLevel = 0.99  // destination must hold less than this (stage 1→2 only, unless symmetric)
	DefaultHeaterPower         = 0.08  // degrees added per tick while on
	DefaultCoolDown            = 0.02  // degrees lost per tick while off
	DefaultInitialTemperature  = 20.0
	DefaultPasteurizationBand  = 1.0  // pasteurizer releases once within this many degrees of its setpoint
	DefaultFermentationRate    = 0.05 // fermentation time accrued per gated tick
	DefaultFermentationNeeded  = 2.0
	DefaultFermentationLevel   = 0.2 // fermenter must hold more than this for the timer to run
	DefaultInitialRawLevel     = 1.0
)

// FlowConfig groups the stage-to-stage transfer parameters.
type FlowConfig struct {
	Speed               float64 `yaml:"speed"`                 // level moved per transfer (must be > 0)
	SourceMinLevel      float64 `yaml:"source_min_level"`      // exclusive lower gate on the source
	DestinationMaxLevel float64 `yaml:"destination_max_level"` // exclusive upper gate on the destination
	SymmetricBounds     bool    `yaml:"symmetric_bounds"`      // also gate 2→3 and 3→4 on destination level
	ClampLevels         bool    `yaml:"clamp_levels"`          // clamp levels to [0,1] after each transfer
}

// ThermalConfig groups heater and regulator parameters.
type ThermalConfig struct {
	HeaterPower        float64 `yaml:"heater_power"`        // per-tick warming (must be > 0)
	CoolDown           float64 `yaml:"cool_down"`           // per-tick cooling (must be >= 0)
	InitialTemperature float64 `yaml:"initial_temperature"` // start temperature of every vessel
	PasteurizationBand float64 `yaml:"pasteurization_band"` // 2→3 gate: temperature > target - band
}

// FermentationConfig groups the fermentation timer parameters.
type FermentationConfig struct {
	Rate     float64 `yaml:"rate"`      // elapsed time added per gated tick (must be > 0)
	Required float64 `yaml:"required"`  // 3→4 opens once elapsed exceeds this
	MinLevel float64 `yaml:"min_level"` // timer runs only while fermenter level exceeds this
}

// PlantConfig holds every tunable parameter of the process line.
type PlantConfig struct {
	Flow            FlowConfig         `yaml:"flow"`
	Thermal         ThermalConfig      `yaml:"thermal"`
	Fermentation    FermentationConfig `yaml:"fermentation"`
	InitialRawLevel float64            `yaml:"initial_raw_level"`
}

// NewFlowConfig creates a FlowConfig with all fields explicitly set.
func NewFlowConfig(speed, sourceMinLevel, destinationMaxLevel float64, symmetricBounds, clampLevels bool) FlowConfig {
	return FlowConfig{
		Speed:               speed,
		SourceMinLevel:      sourceMinLevel,
		DestinationMaxLevel: destinationMaxLevel,
		SymmetricBounds:     symmetricBounds,
		ClampLevels:         clampLevels,
	}
}

// NewThermalConfig creates a ThermalConfig with all fields explicitly set.
func NewThermalConfig(heaterPower, coolDown, initialTemperature, pasteurizationBand float64) ThermalConfig {
	return ThermalConfig{
		HeaterPower:        heaterPower,
		CoolDown:           coolDown,
		InitialTemperature: initialTemperature,
		PasteurizationBand: pasteurizationBand,
	}
}

// NewFermentationConfig creates a FermentationConfig with all fields explicitly set.
func NewFermentationConfig(rate, required, minLevel float64) FermentationConfig {
	return FermentationConfig{Rate: rate, Required: required, MinLevel: minLevel}
}

// DefaultPlantConfig returns the reference plant: asymmetric level gates,
// clamping enabled, a full raw-milk tank at 20 degrees.
func DefaultPlantConfig() PlantConfig {
	return PlantConfig{
		Flow:            NewFlowConfig(DefaultSpeed, DefaultSourceMinLevel, DefaultDestinationMaxLevel, false, true),
		Thermal:         NewThermalConfig(DefaultHeaterPower, DefaultCoolDown, DefaultInitialTemperature, DefaultPasteurizationBand),
		Fermentation:    NewFermentationConfig(DefaultFermentationRate, DefaultFermentationNeeded, DefaultFermentationLevel),
		InitialRawLevel: DefaultInitialRawLevel,
	}
}

// Validate checks that all parameters describe a plant the stepper can run.
func (c PlantConfig) Validate() error {
	if c.Flow.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %f", c.Flow.Speed)
	}
	if c.Flow.SourceMinLevel < 0 || c.Flow.SourceMinLevel >= 1 {
		return fmt.Errorf("source_min_level must be in [0,1), got %f", c.Flow.SourceMinLevel)
	}
	if c.Flow.DestinationMaxLevel <= c.Flow.SourceMinLevel || c.Flow.DestinationMaxLevel > 1 {
		return fmt.Errorf("destination_max_level must be in (source_min_level,1], got %f", c.Flow.DestinationMaxLevel)
	}
	if c.Thermal.HeaterPower <= 0 {
		return fmt.Errorf("heater_power must be positive, got %f", c.Thermal.HeaterPower)
	}
	if c.Thermal.CoolDown < 0 {
		return fmt.Errorf("cool_down must be non-negative, got %f", c.Thermal.CoolDown)
	}
	if c.Thermal.PasteurizationBand < 0 {
		return fmt.Errorf("pasteurization_band must be non-negative, got %f", c.Thermal.PasteurizationBand)
	}
	if c.Fermentation.Rate <= 0 {
		return fmt.Errorf("fermentation rate must be positive, got %f", c.Fermentation.Rate)
	}
	if c.Fermentation.Required < 0 {
		return fmt.Errorf("fermentation required time must be non-negative, got %f", c.Fermentation.Required)
	}
	if c.Fermentation.MinLevel < 0 || c.Fermentation.MinLevel >= 1 {
		return fmt.Errorf("fermentation min_level must be in [0,1), got %f", c.Fermentation.MinLevel)
	}
	if c.InitialRawLevel < 0 || c.InitialRawLevel > 1 {
		return fmt.Errorf("initial_raw_level must be in [0,1], got %f", c.InitialRawLevel)
	}
	return nil
}
