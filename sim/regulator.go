package sim

// Regulator is a bang-bang thermostat: the heater is on exactly while the
// vessel is colder than the target. No hysteresis band.
type Regulator struct {
	target float64
	vessel *Vessel // not owned
}

// NewRegulator binds a regulator to the vessel it monitors.
func NewRegulator(v *Vessel, target float64) *Regulator {
	return &Regulator{vessel: v, target: target}
}

// Target returns the current setpoint.
func (r *Regulator) Target() float64 { return r.target }

// setTarget replaces the setpoint. Any float is accepted as-is. Operators
// change targets by passing new Setpoints to Simulator.Step.
func (r *Regulator) setTarget(target float64) { r.target = target }

// Vessel returns the monitored vessel.
func (r *Regulator) Vessel() *Vessel { return r.vessel }

// step commands the vessel's heater from its current temperature.
func (r *Regulator) step() {
	r.vessel.heater.setOn(r.vessel.temperature < r.target)
}
