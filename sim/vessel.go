package sim

// VesselID identifies a vessel in the fixed process line.
type VesselID string

const (
	VesselRaw         VesselID = "raw"
	VesselPasteurizer VesselID = "pasteurizer"
	VesselFermenter   VesselID = "fermenter"
	VesselProduct     VesselID = "product"
)

// Display labels, in line order.
const (
	LabelRaw         = "Raw milk"
	LabelPasteurizer = "Pasteurizer"
	LabelFermenter   = "Fermenter"
	LabelProduct     = "Buttermilk"
)

// Vessel holds a fluid level (nominally in [0,1]) and a temperature, and owns
// one heater. Only the Simulator mutates a vessel.
type Vessel struct {
	id          VesselID
	label       string
	level       float64
	temperature float64
	heater      *Heater
}

// NewVessel creates an empty vessel with its own heater.
func NewVessel(id VesselID, label string, temperature float64, heater *Heater) *Vessel {
	return &Vessel{
		id:          id,
		label:       label,
		temperature: temperature,
		heater:      heater,
	}
}

func (v *Vessel) ID() VesselID { return v.id }
func (v *Vessel) Label() string { return v.label }
func (v *Vessel) Level() float64 { return v.level }
func (v *Vessel) Temperature() float64 { return v.temperature }
func (v *Vessel) HeaterOn() bool { return v.heater.On() }
func (v *Vessel) Heater() *Heater { return v.heater }

// State returns a copy of the observable vessel state.
func (v *Vessel) State() VesselState {
	return VesselState{
		ID:          v.id,
		Label:       v.label,
		Level:       v.level,
		Temperature: v.temperature,
		HeaterOn:    v.heater.On(),
	}
}
