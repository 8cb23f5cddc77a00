package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// presetsCmd lists the named setpoint pairs from the defaults file
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the setpoint presets available to --preset",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := printPresets(os.Stdout, cfg); err != nil {
			logrus.Fatalf("Writing presets: %v", err)
		}
	},
}

func printPresets(w io.Writer, cfg Config) error {
	if _, err := fmt.Fprintf(w, "%-12s %14s %12s\n", "PRESET", "PASTEURIZATION", "FERMENTATION"); err != nil {
		return err
	}
	for _, name := range cfg.PresetNames() {
		sp := cfg.Presets[name]
		if _, err := fmt.Fprintf(w, "%-12s %14.1f %12.1f\n", name, sp.Pasteurization, sp.Fermentation); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	presetsCmd.Flags().StringVar(&defaultsFilePath, "defaults-file", "defaults.yaml", "Path to the plant and preset defaults file")
	presetsCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(presetsCmd)
}
