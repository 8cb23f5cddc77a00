package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/dairy-sim/sim"
	"github.com/inference-sim/dairy-sim/sim/trace"
)

var (
	// Shared plant and operator flags
	defaultsFilePath   string  // Path to defaults.yaml
	presetName         string  // Named setpoint pair from defaults.yaml
	pasteurizationTemp float64 // Pasteurization setpoint in degrees
	fermentationTemp   float64 // Fermentation setpoint in degrees
	symmetricBounds    bool    // Gate every transfer on destination level
	clampLevels        bool    // Clamp vessel levels to [0,1] after each transfer
	logLevel           string  // Log verbosity level

	// Headless run flags
	simulationHorizon int64  // Maximum number of ticks
	until             string // Stop condition: horizon, ready, settled
	traceLevel        string // Trace verbosity: none, ticks, transitions
	traceFile         string // JSON-lines trace destination
	outputFormat      string // Final state encoding: json, yaml
)

// untilConditions maps --until values to the check applied after each tick.
var untilConditions = map[string]func(s *sim.Simulator) bool{
	"horizon": func(*sim.Simulator) bool { return false },
	"ready":   (*sim.Simulator).Ready,
	"settled": (*sim.Simulator).Settled,
}

var validOutputFormats = map[string]bool{"json": true, "yaml": true}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dairy-sim",
	Short: "Discrete-time simulator for a pasteurize-and-ferment dairy line",
}

// runCmd steps the plant headless until the stop condition or the horizon
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the plant simulation without pacing and print the results",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		stop, ok := untilConditions[until]
		if !ok {
			logrus.Fatalf("Invalid --until %q. Valid: horizon, ready, settled", until)
		}
		if !validOutputFormats[outputFormat] {
			logrus.Fatalf("Invalid --output %q. Valid: json, yaml", outputFormat)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid --trace-level %q. Valid: none, ticks, transitions", traceLevel)
		}
		if simulationHorizon <= 0 {
			logrus.Fatalf("--horizon must be > 0, got %d", simulationHorizon)
		}

		s, sp := buildSimulator(cmd)
		runID := xid.New().String()
		finishTrace, err := attachTrace(cmd, s, runID)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting run %s: pasteurization=%.1f, fermentation=%.1f, horizon=%d ticks, until=%s",
			runID, sp.Pasteurization, sp.Fermentation, simulationHorizon, until)
		startTime := time.Now()
		ticks := runSimulation(s, sp, simulationHorizon, stop)
		logrus.Infof("Stopped after %d ticks (%v wall clock)", ticks, time.Since(startTime))

		if finishTrace != nil {
			if err := finishTrace(); err != nil {
				logrus.Errorf("Trace: %v", err)
			}
		}

		// Results go to stdout, diagnostics to the logger
		if err := s.Metrics.SaveResults(os.Stdout, runID); err != nil {
			logrus.Errorf("Writing metrics: %v", err)
			atexit.Exit(1)
		}
		if err := writeSnapshot(os.Stdout, s.Snapshot(), outputFormat); err != nil {
			logrus.Errorf("Writing final state: %v", err)
			atexit.Exit(1)
		}

		logrus.Info("Simulation complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildSimulator resolves the plant and setpoints from the defaults file and
// flags, and constructs the simulator. Exits on any configuration error.
func buildSimulator(cmd *cobra.Command) (*sim.Simulator, sim.Setpoints) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	plant := cfg.Plant
	applyPlantFlags(cmd, &plant)

	sp, err := resolveSetpoints(cmd, cfg)
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	s, err := sim.NewSimulator(plant)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Infof("Plant: speed=%g, heater_power=%g, cool_down=%g, fermentation_required=%g, symmetric_bounds=%v, clamp_levels=%v",
		plant.Flow.Speed, plant.Thermal.HeaterPower, plant.Thermal.CoolDown,
		plant.Fermentation.Required, plant.Flow.SymmetricBounds, plant.Flow.ClampLevels)
	return s, sp
}

// resolveConfig reads the defaults file. A missing file at the default path
// falls back to the built-in reference plant; a path given explicitly must
// exist.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	if _, err := os.Stat(defaultsFilePath); os.IsNotExist(err) && !cmd.Flags().Changed("defaults-file") {
		logrus.Infof("No %s found, using the built-in reference plant", defaultsFilePath)
		return builtinConfig(), nil
	}
	return loadDefaultsConfig(defaultsFilePath)
}

// applyPlantFlags overrides file values only for flags the user actually set.
func applyPlantFlags(cmd *cobra.Command, plant *sim.PlantConfig) {
	if cmd.Flags().Changed("symmetric-bounds") {
		plant.Flow.SymmetricBounds = symmetricBounds
	}
	if cmd.Flags().Changed("clamp-levels") {
		plant.Flow.ClampLevels = clampLevels
	}
}

// resolveSetpoints starts from the reference recipe, replaces it with the
// named preset if any, then applies explicitly set temperature flags. The
// result is clamped to the advertised operator ranges.
func resolveSetpoints(cmd *cobra.Command, cfg Config) (sim.Setpoints, error) {
	sp := sim.DefaultSetpoints()
	if presetName != "" {
		p, err := cfg.Preset(presetName)
		if err != nil {
			return sim.Setpoints{}, err
		}
		sp = p
	}
	if cmd.Flags().Changed("pasteurization-temp") {
		sp.Pasteurization = pasteurizationTemp
	}
	if cmd.Flags().Changed("fermentation-temp") {
		sp.Fermentation = fermentationTemp
	}
	return clampSetpoints(sp), nil
}

func clampSetpoints(sp sim.Setpoints) sim.Setpoints {
	clamped, changed := sp.Clamp()
	if changed {
		logrus.Warnf("Setpoints %.2f/%.2f outside [%g,%g]/[%g,%g]; clamped to %.2f/%.2f",
			sp.Pasteurization, sp.Fermentation,
			sim.PasteurizationMin, sim.PasteurizationMax, sim.FermentationMin, sim.FermentationMax,
			clamped.Pasteurization, clamped.Fermentation)
	}
	return clamped
}

// attachTrace wires a trace into s when --trace-level is not none. The
// returned func logs a summary and closes the file sink; it is nil when
// tracing is off.
func attachTrace(cmd *cobra.Command, s *sim.Simulator, runID string) (func() error, error) {
	level := trace.TraceLevel(traceLevel)
	if level == "" || level == trace.TraceLevelNone {
		if cmd.Flags().Changed("trace-file") {
			logrus.Warn("--trace-file has no effect with --trace-level none")
		}
		return nil, nil
	}

	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: level, RunID: runID})
	var w *trace.JSONLinesWriter
	if cmd.Flags().Changed("trace-file") {
		var path string
		var err error
		w, path, err = trace.CreateJSONLinesFile(traceFile)
		if err != nil {
			return nil, err
		}
		tr.Sink = w
		logrus.Infof("Writing %s trace to %s", level, path)
	}
	s.SetTrace(tr)

	return func() error {
		summary := trace.Summarize(tr)
		logrus.Infof("Trace: %d records (ticks %d..%d), first ready tick %d, pipe flow counts %v",
			summary.TotalRecords, summary.FirstTick, summary.LastTick, summary.FirstReadyTick, summary.PipeFlowCounts)
		if err := tr.Err(); err != nil {
			return fmt.Errorf("trace sink: %w", err)
		}
		if w != nil {
			return w.Close()
		}
		return nil
	}, nil
}

// runSimulation steps s with fixed setpoints until stop reports true or the
// clock reaches horizon. It returns the number of ticks applied.
func runSimulation(s *sim.Simulator, sp sim.Setpoints, horizon int64, stop func(*sim.Simulator) bool) int64 {
	start := s.Clock()
	for s.Clock() < horizon {
		s.Step(sp)
		if stop(s) {
			break
		}
	}
	return s.Clock() - start
}

// writeSnapshot prints the final plant state followed by the readiness line.
func writeSnapshot(w io.Writer, snap sim.Snapshot, format string) error {
	if _, err := fmt.Fprintln(w, "=== Final State ==="); err != nil {
		return err
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
	}
	_, err := fmt.Fprintln(w, snap.StatusText())
	return err
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
}

// addPlantFlags registers the flags shared by run and observe.
func addPlantFlags(c *cobra.Command) {
	c.Flags().StringVar(&defaultsFilePath, "defaults-file", "defaults.yaml", "Path to the plant and preset defaults file")
	c.Flags().StringVar(&presetName, "preset", "", "Named setpoint preset from the defaults file")
	c.Flags().Float64Var(&pasteurizationTemp, "pasteurization-temp", sim.DefaultSetpoints().Pasteurization,
		fmt.Sprintf("Pasteurization setpoint in degrees [%g,%g]", sim.PasteurizationMin, sim.PasteurizationMax))
	c.Flags().Float64Var(&fermentationTemp, "fermentation-temp", sim.DefaultSetpoints().Fermentation,
		fmt.Sprintf("Fermentation setpoint in degrees [%g,%g]", sim.FermentationMin, sim.FermentationMax))
	c.Flags().BoolVar(&symmetricBounds, "symmetric-bounds", false, "Also gate pasteurizer->fermenter and fermenter->product on destination level")
	c.Flags().BoolVar(&clampLevels, "clamp-levels", true, "Clamp vessel levels to [0,1] after each transfer")
	c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	addPlantFlags(runCmd)
	runCmd.Flags().Int64Var(&simulationHorizon, "horizon", 100000, "Maximum number of ticks to simulate")
	runCmd.Flags().StringVar(&until, "until", "settled", "Stop condition: horizon, ready, settled")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Trace verbosity: none, ticks, transitions")
	runCmd.Flags().StringVar(&traceFile, "trace-file", "", "Write trace records as JSON lines to this file (empty name: dairy_trace_<id>.jsonl)")
	runCmd.Flags().StringVar(&outputFormat, "output", "json", "Final state encoding: json, yaml")

	rootCmd.AddCommand(runCmd)
}
