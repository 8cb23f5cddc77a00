package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRecords   int
	FirstTick      int64
	LastTick       int64
	FirstReadyTick int64     // 0 if the product tank never held fluid
	PipeFlowCounts []int     // records in which each pipe was flowing
	PeakLevels     []float64 // highest level seen per vessel
	PeakTemps      []float64 // highest temperature seen per vessel
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Records) == 0 {
		return summary
	}

	summary.TotalRecords = len(st.Records)
	summary.FirstTick = st.Records[0].Tick
	summary.LastTick = st.Records[len(st.Records)-1].Tick

	for _, r := range st.Records {
		if r.Ready && summary.FirstReadyTick == 0 {
			summary.FirstReadyTick = r.Tick
		}
		summary.PipeFlowCounts = grow(summary.PipeFlowCounts, len(r.PipesFlowing))
		for i, flowing := range r.PipesFlowing {
			if flowing {
				summary.PipeFlowCounts[i]++
			}
		}
		summary.PeakLevels = peaks(summary.PeakLevels, r.Levels)
		summary.PeakTemps = peaks(summary.PeakTemps, r.Temperatures)
	}
	return summary
}

func grow(counts []int, n int) []int {
	for len(counts) < n {
		counts = append(counts, 0)
	}
	return counts
}

func peaks(current, values []float64) []float64 {
	for i, v := range values {
		if i >= len(current) {
			current = append(current, v)
			continue
		}
		if v > current[i] {
			current[i] = v
		}
	}
	return current
}
