// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dairy-sim/sim/trace"
)

// stage is one step of the per-tick flow-routing pipeline.
type stage func(sim *Simulator)

// Simulator is the process line: raw-milk tank → pasteurizer → fermenter →
// product tank, with regulated heaters on the pasteurizer and fermenter.
// It owns every vessel, pipe and regulator. Step is its only mutator: the
// vessels, heaters and regulators it hands out are read-only, and
// setpoints reach the regulators only as the argument to Step.
type Simulator struct {
	config    PlantConfig
	clock     int64
	setpoints Setpoints

	raw         *Vessel
	pasteurizer *Vessel
	fermenter   *Vessel
	product     *Vessel
	vessels     []*Vessel // line order

	rawToPasteurizer       *Pipe
	pasteurizerToFermenter *Pipe
	fermenterToProduct     *Pipe
	pipes                  []*Pipe // line order

	pasteurization *Regulator
	fermentation   *Regulator

	fermentationElapsed float64

	// stages run in this exact order every tick. Each one sees the levels as
	// left by the ones before it in the same tick, so a downstream stage can
	// move fluid that arrived earlier in the tick.
	stages []stage

	Metrics *Metrics
	trace   *trace.SimulationTrace
}

// NewSimulator builds the fixed four-vessel line from cfg. The raw tank starts
// at cfg.InitialRawLevel, every other vessel empty, and all vessels at the
// initial temperature. Regulators start at DefaultSetpoints.
func NewSimulator(cfg PlantConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plant config: %w", err)
	}

	newVessel := func(id VesselID, label string) *Vessel {
		return NewVessel(id, label, cfg.Thermal.InitialTemperature, NewHeater(cfg.Thermal.HeaterPower, cfg.Thermal.CoolDown))
	}

	s := &Simulator{
		config:      cfg,
		setpoints:   DefaultSetpoints(),
		raw:         newVessel(VesselRaw, LabelRaw),
		pasteurizer: newVessel(VesselPasteurizer, LabelPasteurizer),
		fermenter:   newVessel(VesselFermenter, LabelFermenter),
		product:     newVessel(VesselProduct, LabelProduct),
		Metrics:     NewMetrics(),
	}
	s.raw.level = cfg.InitialRawLevel
	s.vessels = []*Vessel{s.raw, s.pasteurizer, s.fermenter, s.product}

	s.rawToPasteurizer = NewPipe(PipeRawToPasteurizer, VesselRaw, VesselPasteurizer)
	s.pasteurizerToFermenter = NewPipe(PipePasteurizerToFermenter, VesselPasteurizer, VesselFermenter)
	s.fermenterToProduct = NewPipe(PipeFermenterToProduct, VesselFermenter, VesselProduct)
	s.pipes = []*Pipe{s.rawToPasteurizer, s.pasteurizerToFermenter, s.fermenterToProduct}

	s.pasteurization = NewRegulator(s.pasteurizer, s.setpoints.Pasteurization)
	s.fermentation = NewRegulator(s.fermenter, s.setpoints.Fermentation)

	s.stages = []stage{
		(*Simulator).flowRawToPasteurizer,
		(*Simulator).flowPasteurizerToFermenter,
		(*Simulator).accrueFermentation,
		(*Simulator).flowFermenterToProduct,
	}
	return s, nil
}

// NewDefaultSimulator builds the reference plant.
func NewDefaultSimulator() *Simulator {
	s, err := NewSimulator(DefaultPlantConfig())
	if err != nil {
		panic(err) // reference constants always validate
	}
	return s
}

// SetTrace attaches a trace. A nil trace disables recording.
func (sim *Simulator) SetTrace(t *trace.SimulationTrace) {
	sim.trace = t
}

// Trace returns the attached trace, or nil.
func (sim *Simulator) Trace() *trace.SimulationTrace {
	return sim.trace
}

// Step advances the line by one tick using sp as the operator setpoints.
// Setpoints are used as given; range limiting is the caller's concern.
func (sim *Simulator) Step(sp Setpoints) {
	sim.clock++
	sim.setpoints = sp
	sim.pasteurization.setTarget(sp.Pasteurization)
	sim.fermentation.setTarget(sp.Fermentation)

	sim.pasteurization.step()
	sim.fermentation.step()

	sim.pasteurizer.heater.step(sim.pasteurizer)
	sim.fermenter.heater.step(sim.fermenter)

	wasFlowing := sim.flowFlags()
	wasReady := sim.Ready()

	for _, st := range sim.stages {
		st(sim)
	}

	sim.logTransitions(wasFlowing, wasReady)
	sim.Metrics.observe(sim)
	if sim.trace.Enabled() {
		sim.trace.RecordTick(sim.tickRecord())
	}
}

// flowRawToPasteurizer fills the pasteurizer while the raw tank has fluid and
// the pasteurizer has room. No temperature gate.
func (sim *Simulator) flowRawToPasteurizer() {
	src, dst := sim.raw, sim.pasteurizer
	open := src.level > sim.config.Flow.SourceMinLevel && dst.level < sim.config.Flow.DestinationMaxLevel
	sim.transfer(sim.rawToPasteurizer, src, dst, open)
}

// flowPasteurizerToFermenter releases milk once the pasteurizer is within the
// band of its setpoint. The destination is not level-gated unless
// SymmetricBounds is set.
func (sim *Simulator) flowPasteurizerToFermenter() {
	src, dst := sim.pasteurizer, sim.fermenter
	hot := src.temperature > sim.pasteurization.Target()-sim.config.Thermal.PasteurizationBand
	open := hot && src.level > sim.config.Flow.SourceMinLevel && sim.destinationAccepts(dst)
	sim.transfer(sim.pasteurizerToFermenter, src, dst, open)
}

// accrueFermentation advances the fermentation clock by a fixed amount per
// tick while the fermenter holds strictly more than the minimum level.
func (sim *Simulator) accrueFermentation() {
	if sim.fermenter.level > sim.config.Fermentation.MinLevel {
		sim.fermentationElapsed += sim.config.Fermentation.Rate
	}
}

// flowFermenterToProduct drains the fermenter once fermentation time strictly
// exceeds the requirement.
func (sim *Simulator) flowFermenterToProduct() {
	src, dst := sim.fermenter, sim.product
	done := sim.fermentationElapsed > sim.config.Fermentation.Required
	open := done && src.level > sim.config.Flow.SourceMinLevel && sim.destinationAccepts(dst)
	sim.transfer(sim.fermenterToProduct, src, dst, open)
}

func (sim *Simulator) destinationAccepts(dst *Vessel) bool {
	return !sim.config.Flow.SymmetricBounds || dst.level < sim.config.Flow.DestinationMaxLevel
}

// transfer moves one speed's worth of fluid from src to dst when open, and
// sets the pipe flag to exactly whether it did.
func (sim *Simulator) transfer(p *Pipe, src, dst *Vessel, open bool) {
	p.flowing = open
	if !open {
		return
	}
	src.level -= sim.config.Flow.Speed
	dst.level += sim.config.Flow.Speed
	if sim.config.Flow.ClampLevels {
		src.level = clampLevel(src.level)
		dst.level = clampLevel(dst.level)
	}
}

// clampLevel is the identity for levels already in [0,1].
func clampLevel(level float64) float64 {
	return math.Min(math.Max(level, 0), 1)
}

func (sim *Simulator) flowFlags() []bool {
	flags := make([]bool, len(sim.pipes))
	for i, p := range sim.pipes {
		flags[i] = p.flowing
	}
	return flags
}

func (sim *Simulator) logTransitions(wasFlowing []bool, wasReady bool) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	for i, p := range sim.pipes {
		if p.flowing != wasFlowing[i] {
			if p.flowing {
				logrus.Debugf("[tick %07d] %s started flowing", sim.clock, p.id)
			} else {
				logrus.Debugf("[tick %07d] %s stopped flowing", sim.clock, p.id)
			}
		}
	}
	if ready := sim.Ready(); ready != wasReady {
		logrus.Debugf("[tick %07d] product ready=%v (level=%.3f)", sim.clock, ready, sim.product.level)
	}
}

func (sim *Simulator) tickRecord() trace.TickRecord {
	r := trace.TickRecord{
		Tick:                sim.clock,
		Levels:              make([]float64, len(sim.vessels)),
		Temperatures:        make([]float64, len(sim.vessels)),
		HeatersOn:           make([]bool, len(sim.vessels)),
		PipesFlowing:        sim.flowFlags(),
		FermentationElapsed: sim.fermentationElapsed,
		Ready:               sim.Ready(),
	}
	for i, v := range sim.vessels {
		r.Levels[i] = v.level
		r.Temperatures[i] = v.temperature
		r.HeatersOn[i] = v.heater.On()
	}
	return r
}

// Clock returns the number of ticks applied so far.
func (sim *Simulator) Clock() int64 { return sim.clock }

// Config returns the plant configuration the simulator was built with.
func (sim *Simulator) Config() PlantConfig { return sim.config }

// Setpoints returns the setpoints applied on the most recent tick, or the
// defaults before the first tick.
func (sim *Simulator) Setpoints() Setpoints { return sim.setpoints }

// Vessel returns the vessel with the given id, or nil.
func (sim *Simulator) Vessel(id VesselID) *Vessel {
	for _, v := range sim.vessels {
		if v.id == id {
			return v
		}
	}
	return nil
}

// Vessels returns all vessels in line order.
func (sim *Simulator) Vessels() []*Vessel {
	return append([]*Vessel(nil), sim.vessels...)
}

// Pipe returns the pipe with the given id, or nil.
func (sim *Simulator) Pipe(id PipeID) *Pipe {
	for _, p := range sim.pipes {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Pipes returns all pipes in line order.
func (sim *Simulator) Pipes() []*Pipe {
	return append([]*Pipe(nil), sim.pipes...)
}

// PasteurizationRegulator returns the regulator bound to the pasteurizer.
func (sim *Simulator) PasteurizationRegulator() *Regulator { return sim.pasteurization }

// FermentationRegulator returns the regulator bound to the fermenter.
func (sim *Simulator) FermentationRegulator() *Regulator { return sim.fermentation }

// FermentationElapsed returns the accrued fermentation time.
func (sim *Simulator) FermentationElapsed() float64 { return sim.fermentationElapsed }

// FermentationRequired returns the time the fermenter must accrue before it
// may drain into the product tank.
func (sim *Simulator) FermentationRequired() float64 { return sim.config.Fermentation.Required }

// Ready reports whether the product tank holds any fluid.
func (sim *Simulator) Ready() bool {
	return sim.product.level > 0
}

// Settled reports whether the product is ready and nothing moved on the last
// tick.
func (sim *Simulator) Settled() bool {
	if !sim.Ready() {
		return false
	}
	for _, p := range sim.pipes {
		if p.flowing {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of the observable state.
func (sim *Simulator) Snapshot() Snapshot {
	s := Snapshot{
		Tick:                 sim.clock,
		Setpoints:            sim.setpoints,
		Vessels:              make([]VesselState, len(sim.vessels)),
		Pipes:                make([]PipeState, len(sim.pipes)),
		FermentationElapsed:  sim.fermentationElapsed,
		FermentationRequired: sim.config.Fermentation.Required,
		Ready:                sim.Ready(),
	}
	for i, v := range sim.vessels {
		s.Vessels[i] = v.State()
	}
	for i, p := range sim.pipes {
		s.Pipes[i] = p.State()
	}
	return s
}
