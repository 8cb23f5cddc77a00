package sim

import "math"

// Advertised operator ranges. The simulator itself accepts any value; only the
// operator surface clamps into these.
const (
	PasteurizationMin = 60.0
	PasteurizationMax = 95.0
	FermentationMin   = 18.0
	FermentationMax   = 30.0
)

// Setpoints are the operator's target temperatures, copied into the two
// regulators at the start of every tick.
type Setpoints struct {
	Pasteurization float64 `yaml:"pasteurization" json:"pasteurization"`
	Fermentation   float64 `yaml:"fermentation" json:"fermentation"`
}

// DefaultSetpoints returns the reference buttermilk recipe.
func DefaultSetpoints() Setpoints {
	return Setpoints{Pasteurization: 72, Fermentation: 22}
}

// Clamp limits both targets to the advertised ranges. The second result
// reports whether anything was changed. NaN is replaced by the range minimum.
func (s Setpoints) Clamp() (Setpoints, bool) {
	out := Setpoints{
		Pasteurization: clamp(s.Pasteurization, PasteurizationMin, PasteurizationMax),
		Fermentation:   clamp(s.Fermentation, FermentationMin, FermentationMax),
	}
	return out, out != s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
