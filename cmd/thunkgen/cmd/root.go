// Package cmd is the Driver (spec.md §4.G): it wires the interface-
// description package loader, the overrides file, and the code emitter
// behind a cobra command line, funneling interface errors back as a
// non-zero exit code (spec.md §6's "Exit codes").
package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fex-emu/thunkgen/logger"
	"github.com/fex-emu/thunkgen/version"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:          "thunkgen",
	Short:        "Generate FEX-style thunk-library guest/host sources",
	Version:      version.Get().String(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(jsonOutput)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

// Execute runs the root command, returning any error after diagnostics have
// already been printed (spec.md §4.G: flush diagnostics before returning).
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if !jsonOutput {
			pterm.Error.Println(err.Error())
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON logs instead of console output")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
}
