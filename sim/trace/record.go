// Package trace provides per-tick trace recording for the process simulation.
// It has no dependency on package sim and stores only plain data types.
package trace

// TickRecord captures the process state at the end of one tick. Slices are in
// line order: raw, pasteurizer, fermenter, product for vessels and 1→2, 2→3,
// 3→4 for pipes.
type TickRecord struct {
	RunID               string    `json:"run_id,omitempty"`
	Tick                int64     `json:"tick"`
	Levels              []float64 `json:"levels"`
	Temperatures        []float64 `json:"temperatures"`
	HeatersOn           []bool    `json:"heaters_on"`
	PipesFlowing        []bool    `json:"pipes_flowing"`
	FermentationElapsed float64   `json:"fermentation_elapsed"`
	Ready               bool      `json:"ready"`
}

// SameFlags reports whether r and other agree on every boolean flag.
func (r TickRecord) SameFlags(other TickRecord) bool {
	return r.Ready == other.Ready &&
		equalBools(r.HeatersOn, other.HeatersOn) &&
		equalBools(r.PipesFlowing, other.PipesFlowing)
}

func equalBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
