// Package sim provides the discrete-time simulation of a small dairy process
// line: raw milk is pasteurized, fermented, and collected as buttermilk.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - vessel.go, heater.go, regulator.go, pipe.go: the plant elements
//   - simulator.go: the fixed line topology and the ordered per-tick pipeline
//   - config.go: reference constants and their grouping into PlantConfig
//
// # Tick Order
//
// Simulator.Step applies, in order: operator setpoints into both regulators,
// the pasteurization then fermentation regulator, the pasteurizer then
// fermenter heater, the raw→pasteurizer transfer, the pasteurizer→fermenter
// transfer, the fermentation clock, and the fermenter→product transfer.
// Transfers read levels as already changed earlier in the same tick.
//
// # Sub-packages
//
//   - sim/trace/: per-tick trace records, summaries, and a JSON-lines writer
//   - sim/driver/: fixed-interval tick driver with a start/stop toggle
//
// The simulator is single-threaded and holds no locks; driver.Runner
// serializes Step against concurrent observers.
package sim
