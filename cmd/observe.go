package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/dairy-sim/sim"
	"github.com/inference-sim/dairy-sim/sim/driver"
)

var (
	// Live mode flags
	tickInterval    time.Duration // Wall-clock period between ticks
	reportEvery     int64         // Print a status line every N ticks (0 = only on readiness change)
	exitWhenSettled bool          // Stop once the product is ready and nothing flows
)

const observeHelp = "commands: start | stop | toggle | past <deg> | ferm <deg> | status | quit"

// observeCmd paces the plant in real time and takes operator commands from stdin
var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run the plant in real time and accept operator commands on stdin",
	Long: "Runs the plant at a fixed tick interval. Operator commands are read from stdin, one per line:\n" +
		"  start, stop, toggle   control the tick driver\n" +
		"  past <deg>            set the pasteurization setpoint\n" +
		"  ferm <deg>            set the fermentation setpoint\n" +
		"  status                print the current state\n" +
		"  quit                  stop and exit",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if reportEvery < 0 {
			logrus.Fatalf("--report-every must be >= 0, got %d", reportEvery)
		}

		s, sp := buildSimulator(cmd)
		r := driver.NewRunner(s, tickInterval, sp)

		ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stopSignals()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		reporter := newStatusReporter(os.Stdout, reportEvery)
		r.Observe(reporter.Observe)
		if exitWhenSettled {
			r.Observe(func(snap sim.Snapshot) {
				if snap.Ready && !snap.AnyFlowing() {
					logrus.Infof("Plant settled at tick %d", snap.Tick)
					cancel()
				}
			})
		}
		go readCommands(os.Stdin, r, reporter, cancel)

		logrus.Infof("Observing at %v per tick, pasteurization=%.1f, fermentation=%.1f", r.Interval(), sp.Pasteurization, sp.Fermentation)
		logrus.Info(observeHelp)
		r.Start()
		_ = r.Run(ctx)

		reporter.Print(r.Snapshot())
		logrus.Infof("Observe stopped after %d ticks", r.Ticks())
	},
}

// statusReporter prints the status view: one line per report with every
// vessel, the flowing pipes, and the readiness message.
type statusReporter struct {
	lock     sync.Mutex
	w        io.Writer
	every    int64
	wasReady bool
}

func newStatusReporter(w io.Writer, every int64) *statusReporter {
	return &statusReporter{w: w, every: every}
}

// Observe is registered with the driver. It prints on every readiness change
// and every `every` ticks.
func (p *statusReporter) Observe(snap sim.Snapshot) {
	p.lock.Lock()
	defer p.lock.Unlock()
	readyChanged := snap.Ready != p.wasReady
	p.wasReady = snap.Ready
	if readyChanged || (p.every > 0 && snap.Tick%p.every == 0) {
		_, _ = fmt.Fprintln(p.w, formatStatus(snap))
	}
}

// Print writes one status line unconditionally.
func (p *statusReporter) Print(snap sim.Snapshot) {
	p.lock.Lock()
	defer p.lock.Unlock()
	_, _ = fmt.Fprintln(p.w, formatStatus(snap))
}

func formatStatus(snap sim.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[tick %07d]", snap.Tick)
	for _, v := range snap.Vessels {
		heater := "off"
		if v.HeaterOn {
			heater = "on"
		}
		fmt.Fprintf(&b, " %s %.3f %.1fC %s |", v.Label, v.Level, v.Temperature, heater)
	}
	var flowing []string
	for _, pipe := range snap.Pipes {
		if pipe.Flowing {
			flowing = append(flowing, string(pipe.ID))
		}
	}
	if len(flowing) == 0 {
		flowing = append(flowing, "none")
	}
	fmt.Fprintf(&b, " flowing: %s | fermentation %.2f/%.2f | %s",
		strings.Join(flowing, ","), snap.FermentationElapsed, snap.FermentationRequired, snap.StatusText())
	return b.String()
}

// readCommands applies operator commands until quit or end of input. Bad
// commands are reported and skipped.
func readCommands(in io.Reader, r *driver.Runner, reporter *statusReporter, cancel context.CancelFunc) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := applyCommand(r, reporter, scanner.Text())
		if err != nil {
			logrus.Warnf("%v (%s)", err, observeHelp)
			continue
		}
		if quit {
			cancel()
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logrus.Errorf("Reading commands: %v", err)
	}
	logrus.Debug("Command input closed")
}

// applyCommand executes one operator command line. It reports whether the
// operator asked to quit.
func applyCommand(r *driver.Runner, reporter *statusReporter, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	switch name {
	case "start":
		r.Start()
	case "stop":
		r.Stop()
	case "toggle":
		r.Toggle()
	case "past", "ferm":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: %s <degrees>", name)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, fmt.Errorf("invalid temperature %q: %w", fields[1], err)
		}
		sp := r.Setpoints()
		if name == "past" {
			sp.Pasteurization = v
		} else {
			sp.Fermentation = v
		}
		sp = clampSetpoints(sp)
		r.SetSetpoints(sp)
		logrus.Infof("Setpoints now pasteurization=%.1f, fermentation=%.1f", sp.Pasteurization, sp.Fermentation)
	case "status":
		reporter.Print(r.Snapshot())
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return false, nil
}

func init() {
	addPlantFlags(observeCmd)
	observeCmd.Flags().DurationVar(&tickInterval, "interval", driver.DefaultInterval, "Wall-clock period between ticks")
	observeCmd.Flags().Int64Var(&reportEvery, "report-every", 20, "Print a status line every N ticks (0: only when readiness changes)")
	observeCmd.Flags().BoolVar(&exitWhenSettled, "exit-when-settled", false, "Exit once the product is ready and no pipe is flowing")

	rootCmd.AddCommand(observeCmd)
}
