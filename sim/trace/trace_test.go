package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(tick int64, ready bool, pipes ...bool) TickRecord {
	return TickRecord{
		Tick:         tick,
		Levels:       []float64{1, 0, 0, 0},
		Temperatures: []float64{20, 20, 20, 20},
		HeatersOn:    []bool{false, true, true, false},
		PipesFlowing: pipes,
		Ready:        ready,
	}
}

func TestSimulationTrace_TicksLevel_RecordsEveryTick(t *testing.T) {
	// GIVEN a trace at tick level
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTicks, RunID: "run-1"})

	// WHEN three identical ticks are recorded
	for i := int64(1); i <= 3; i++ {
		assert.True(t, st.RecordTick(record(i, false, true, false, false)))
	}

	// THEN all three are kept in order and stamped with the run ID
	require.Len(t, st.Records, 3)
	for i, r := range st.Records {
		assert.Equal(t, int64(i+1), r.Tick)
		assert.Equal(t, "run-1", r.RunID)
	}
}

func TestSimulationTrace_TransitionsLevel_SkipsUnchangedFlags(t *testing.T) {
	// GIVEN a trace at transitions level
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTransitions})

	// WHEN the flags change only at tick 3 and tick 5
	st.RecordTick(record(1, false, true, false, false))
	st.RecordTick(record(2, false, true, false, false))
	st.RecordTick(record(3, false, false, true, false))
	st.RecordTick(record(4, false, false, true, false))
	st.RecordTick(record(5, true, false, true, true))

	// THEN only the first tick and the two transitions are kept
	require.Len(t, st.Records, 3)
	assert.Equal(t, int64(1), st.Records[0].Tick)
	assert.Equal(t, int64(3), st.Records[1].Tick)
	assert.Equal(t, int64(5), st.Records[2].Tick)
}

func TestSimulationTrace_NoneLevel_RecordsNothing(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})
	assert.False(t, st.Enabled())
	assert.False(t, st.RecordTick(record(1, false, true, false, false)))
	assert.Empty(t, st.Records)
}

func TestSimulationTrace_EmptyRunID_IsGenerated(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTicks})
	assert.NotEmpty(t, st.Config.RunID)
	assert.Equal(t, TraceLevelTicks, st.Config.Level)
}

func TestSimulationTrace_NilTrace_IsDisabled(t *testing.T) {
	var st *SimulationTrace
	assert.False(t, st.Enabled())
}

type failingSink struct{ calls int }

func (f *failingSink) Write(TickRecord) error {
	f.calls++
	return assert.AnError
}

func TestSimulationTrace_SinkError_StopsStreamingButKeepsRecording(t *testing.T) {
	// GIVEN a trace whose sink fails on the first write
	sink := &failingSink{}
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTicks})
	st.Sink = sink

	// WHEN two ticks are recorded
	st.RecordTick(record(1, false, true, false, false))
	st.RecordTick(record(2, false, true, false, false))

	// THEN the sink saw one write, the error is retained, and memory kept both
	assert.Equal(t, 1, sink.calls)
	assert.ErrorIs(t, st.Err(), assert.AnError)
	assert.Len(t, st.Records, 2)
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"ticks", true},
		{"transitions", true},
		{"", true},
		{"decisions", false},
		{"TICKS", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, IsValidTraceLevel(tc.level), "level %q", tc.level)
	}
}

func TestTickRecord_SameFlags(t *testing.T) {
	a := record(1, false, true, false, false)
	b := record(9, false, true, false, false)
	b.Levels = []float64{0.5, 0.5, 0, 0}
	assert.True(t, a.SameFlags(b), "levels and tick must not affect flag comparison")

	c := record(1, true, true, false, false)
	assert.False(t, a.SameFlags(c))

	d := record(1, false, true, false)
	assert.False(t, a.SameFlags(d), "different slice lengths are different flags")
}
