package sim

// VesselState is the observable state of one vessel at the end of a tick.
type VesselState struct {
	ID          VesselID `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Level       float64  `json:"level" yaml:"level"`
	Temperature float64  `json:"temperature" yaml:"temperature"`
	HeaterOn    bool     `json:"heater_on" yaml:"heater_on"`
}

// PipeState is the observable state of one pipe at the end of a tick.
type PipeState struct {
	ID      PipeID   `json:"id" yaml:"id"`
	Source  VesselID `json:"source" yaml:"source"`
	Target  VesselID `json:"target" yaml:"target"`
	Flowing bool     `json:"flowing" yaml:"flowing"`
}

// Snapshot is an immutable copy of everything the presentation layer reads.
// Vessels and Pipes are in line order.
type Snapshot struct {
	Tick                 int64         `json:"tick" yaml:"tick"`
	Setpoints            Setpoints     `json:"setpoints" yaml:"setpoints"`
	Vessels              []VesselState `json:"vessels" yaml:"vessels"`
	Pipes                []PipeState   `json:"pipes" yaml:"pipes"`
	FermentationElapsed  float64       `json:"fermentation_elapsed" yaml:"fermentation_elapsed"`
	FermentationRequired float64       `json:"fermentation_required" yaml:"fermentation_required"`
	Ready                bool          `json:"ready" yaml:"ready"`
}

// Vessel returns the state of the vessel with the given id.
func (s Snapshot) Vessel(id VesselID) (VesselState, bool) {
	for _, v := range s.Vessels {
		if v.ID == id {
			return v, true
		}
	}
	return VesselState{}, false
}

// Pipe returns the state of the pipe with the given id.
func (s Snapshot) Pipe(id PipeID) (PipeState, bool) {
	for _, p := range s.Pipes {
		if p.ID == id {
			return p, true
		}
	}
	return PipeState{}, false
}

// AnyFlowing reports whether fluid moved through any pipe on this tick.
func (s Snapshot) AnyFlowing() bool {
	for _, p := range s.Pipes {
		if p.Flowing {
			return true
		}
	}
	return false
}

// StatusText is the one-line readiness message shown by the status view.
func (s Snapshot) StatusText() string {
	if s.Ready {
		return "Buttermilk is READY to drink."
	}
	return "Buttermilk is NOT ready yet."
}
