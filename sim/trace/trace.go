package trace

import "github.com/rs/xid"

// TraceLevel controls the verbosity of tick tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks records every tick.
	TraceLevelTicks TraceLevel = "ticks"
	// TraceLevelTransitions records only ticks where a heater, pipe, or
	// readiness flag changed, plus the first tick.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTicks:       true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	RunID string // stamped on every record; generated when empty
}

// Sink receives records as they are captured.
type Sink interface {
	Write(record TickRecord) error
}

// SimulationTrace collects tick records during a simulation.
type SimulationTrace struct {
	Config  TraceConfig
	Records []TickRecord
	Sink    Sink // optional
	last    TickRecord
	hasLast bool
	sinkErr error
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.Level == "" {
		config.Level = TraceLevelNone
	}
	if config.RunID == "" {
		config.RunID = xid.New().String()
	}
	return &SimulationTrace{
		Config:  config,
		Records: make([]TickRecord, 0),
	}
}

// Enabled reports whether records are being captured at all.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level != TraceLevelNone
}

// RecordTick captures record according to the configured level. It returns
// true if the record was kept.
func (st *SimulationTrace) RecordTick(record TickRecord) bool {
	if !st.Enabled() {
		return false
	}
	if st.Config.Level == TraceLevelTransitions && st.hasLast && st.last.SameFlags(record) {
		return false
	}
	record.RunID = st.Config.RunID
	st.Records = append(st.Records, record)
	st.last, st.hasLast = record, true
	if st.Sink != nil && st.sinkErr == nil {
		st.sinkErr = st.Sink.Write(record)
	}
	return true
}

// Err returns the first error reported by the sink, if any. Recording into
// memory continues after a sink failure.
func (st *SimulationTrace) Err() error {
	return st.sinkErr
}
