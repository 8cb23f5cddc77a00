// Package driver advances a process simulation at a fixed wall-clock
// interval, with a start/stop toggle and operator setpoints that may be
// changed between ticks.
package driver

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dairy-sim/sim"
)

// DefaultInterval is the wall-clock period between ticks while running.
const DefaultInterval = 50 * time.Millisecond

// Stepper is the part of the simulation the driver needs.
type Stepper interface {
	Step(sp sim.Setpoints)
	Snapshot() sim.Snapshot
}

// Observer is called with the state at the end of every tick. Observers run
// outside the driver lock and may call back into the Runner.
type Observer func(snap sim.Snapshot)

// Runner serializes ticks against readers and setpoint writers. A tick
// (read setpoints, step, snapshot) is one critical section, so no observer
// ever sees a partially applied tick.
type Runner struct {
	lock      sync.Mutex
	stepper   Stepper
	interval  time.Duration
	setpoints sim.Setpoints
	running   bool
	ticks     int64
	observers []Observer
}

// NewRunner creates a stopped runner. A non-positive interval falls back to
// DefaultInterval.
func NewRunner(stepper Stepper, interval time.Duration, sp sim.Setpoints) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		stepper:   stepper,
		interval:  interval,
		setpoints: sp,
	}
}

// Interval returns the tick period.
func (r *Runner) Interval() time.Duration { return r.interval }

// Observe registers fn to be called after every tick.
func (r *Runner) Observe(fn Observer) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.observers = append(r.observers, fn)
}

// SetSetpoints replaces the operator setpoints used from the next tick on.
func (r *Runner) SetSetpoints(sp sim.Setpoints) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.setpoints = sp
}

// Setpoints returns the setpoints the next tick will use.
func (r *Runner) Setpoints() sim.Setpoints {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.setpoints
}

// Start enables ticking in Run.
func (r *Runner) Start() { r.setRunning(true) }

// Stop pauses ticking in Run. The simulation state is kept.
func (r *Runner) Stop() { r.setRunning(false) }

// Toggle flips between running and stopped and returns the new state.
func (r *Runner) Toggle() bool {
	r.lock.Lock()
	r.running = !r.running
	running := r.running
	r.lock.Unlock()
	logrus.Infof("[driver] running=%v", running)
	return running
}

func (r *Runner) setRunning(running bool) {
	r.lock.Lock()
	changed := r.running != running
	r.running = running
	r.lock.Unlock()
	if changed {
		logrus.Infof("[driver] running=%v", running)
	}
}

// Running reports whether Run is currently ticking.
func (r *Runner) Running() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.running
}

// Ticks returns the number of ticks this runner has applied.
func (r *Runner) Ticks() int64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.ticks
}

// Snapshot returns the current state between ticks.
func (r *Runner) Snapshot() sim.Snapshot {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.stepper.Snapshot()
}

// Tick applies exactly one step, whether or not the runner is running, and
// notifies observers.
func (r *Runner) Tick() sim.Snapshot {
	r.lock.Lock()
	r.stepper.Step(r.setpoints)
	r.ticks++
	snap := r.stepper.Snapshot()
	observers := append([]Observer(nil), r.observers...)
	r.lock.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return snap
}

// RunTicks applies n ticks back to back and returns the final state. Useful
// for headless runs that do not want wall-clock pacing.
func (r *Runner) RunTicks(n int64) sim.Snapshot {
	var snap sim.Snapshot
	if n <= 0 {
		return r.Snapshot()
	}
	for i := int64(0); i < n; i++ {
		snap = r.Tick()
	}
	return snap
}

// Run ticks every interval while the runner is started, until ctx is done.
// It returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logrus.Debugf("[driver] loop started, interval=%v", r.interval)
	for {
		select {
		case <-ctx.Done():
			logrus.Debugf("[driver] loop stopped after %d ticks", r.Ticks())
			return ctx.Err()
		case <-ticker.C:
			if r.Running() {
				r.Tick()
			}
		}
	}
}
