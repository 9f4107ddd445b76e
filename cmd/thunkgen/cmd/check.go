package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fex-emu/thunkgen/logger"
	"github.com/fex-emu/thunkgen/parser"
)

var (
	checkDir     string
	checkPattern string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate an interface-description package without emitting any output",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkDir, "dir", ".", "directory containing the interface-description package")
	checkCmd.Flags().StringVar(&checkPattern, "pattern", "./...", "package pattern to load, relative to --dir")
}

func runCheck(cmd *cobra.Command, args []string) error {
	iface, err := parser.LoadAndParse(checkDir, checkPattern)
	if err != nil {
		return err
	}
	if !logger.JSONOutput {
		pterm.Success.Printfln("%d namespace(s), %d function(s), %d callback type(s): no errors",
			len(iface.Namespaces), len(iface.Functions), len(iface.FuncPtrTypes))
	}
	return nil
}
