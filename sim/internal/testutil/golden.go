// Package testutil provides shared test infrastructure for the process
// simulator: the golden trajectory dataset and float assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Horizon int64            `json:"horizon"`
	Tests   []GoldenTestCase `json:"tests"`
}

// GoldenSetpoints mirrors sim.Setpoints without importing sim.
type GoldenSetpoints struct {
	Pasteurization float64 `json:"pasteurization"`
	Fermentation   float64 `json:"fermentation"`
}

// GoldenTestCase is one reference-plant run over the dataset horizon.
// Map keys are pipe and vessel IDs as strings.
type GoldenTestCase struct {
	Name                     string           `json:"name"`
	Setpoints                GoldenSetpoints  `json:"setpoints"`
	FirstFlowTick            map[string]int64 `json:"first_flow_tick"`
	PipeFlowTicks            map[string]int64 `json:"pipe_flow_ticks"`
	HeaterOnTicks            map[string]int64 `json:"heater_on_ticks"`
	FirstReadyTick           int64            `json:"first_ready_tick"`
	LastFlowTick             int64            `json:"last_flow_tick"`
	PeakFermenterLevel       float64          `json:"peak_fermenter_level"`
	FinalLevels              []float64        `json:"final_levels"`
	FinalFermentationElapsed float64          `json:"final_fermentation_elapsed"`
}

// LoadGoldenDataset reads testdata/goldendataset.json at the repository root.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	data, err := os.ReadFile(goldenPath(t))
	require.NoError(t, err, "reading golden dataset")

	var dataset GoldenDataset
	require.NoError(t, json.Unmarshal(data, &dataset), "parsing golden dataset")
	require.Positive(t, dataset.Horizon, "golden dataset horizon")
	return &dataset
}

func goldenPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "locating testutil source")
	root := filepath.Join(filepath.Dir(file), "..", "..", "..")
	return filepath.Join(root, "testdata", "goldendataset.json")
}

// AssertFloat64Equal checks got against want within relTol of the larger
// magnitude.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	scale := math.Max(math.Abs(want), math.Abs(got))
	assert.InDelta(t, want, got, relTol*scale, name)
}
