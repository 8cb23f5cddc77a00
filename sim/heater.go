package sim

// Heater is a binary actuator owned by a single vessel. While on it warms the
// vessel by its power every tick; while off the vessel cools by coolDown.
// Both deltas are per tick, not per unit of time.
type Heater struct {
	power    float64
	coolDown float64
	on       bool
}

// NewHeater creates a heater that starts off. Negative arguments are flipped
// to their magnitude so power and cool-down can never invert.
func NewHeater(power, coolDown float64) *Heater {
	if power < 0 {
		power = -power
	}
	if coolDown < 0 {
		coolDown = -coolDown
	}
	return &Heater{power: power, coolDown: coolDown}
}

// Power returns the per-tick warming delta.
func (h *Heater) Power() float64 { return h.power }

// On reports the current command state.
func (h *Heater) On() bool { return h.on }

// setOn sets the command state. Only the owning vessel's Regulator calls it.
func (h *Heater) setOn(on bool) { h.on = on }

// step applies one tick of heating or cooling to v. There is no floor: an
// unheated vessel keeps cooling for as long as it is stepped.
func (h *Heater) step(v *Vessel) {
	if h.on {
		v.temperature += h.power
	} else {
		v.temperature -= h.coolDown
	}
}
