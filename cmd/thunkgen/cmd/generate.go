package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fex-emu/thunkgen/config"
	"github.com/fex-emu/thunkgen/emit"
	"github.com/fex-emu/thunkgen/logger"
	"github.com/fex-emu/thunkgen/model"
	"github.com/fex-emu/thunkgen/parser"
	"github.com/fex-emu/thunkgen/typecat"
)

var (
	genDir        string
	genPattern    string
	genLibrary    string
	genConfigPath string
	genGuestOut   string
	genHostOut    string
	genDLOpenMode string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Parse an interface-description package and emit guest/host thunks",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genDir, "dir", ".", "directory containing the interface-description package")
	generateCmd.Flags().StringVar(&genPattern, "pattern", "./...", "package pattern to load, relative to --dir")
	generateCmd.Flags().StringVar(&genLibrary, "library", "", "native library filename, e.g. libfoo (falls back to library_name in the overrides file)")
	generateCmd.Flags().StringVar(&genConfigPath, "config", "thunkgen.toml", "path to the overrides file")
	generateCmd.Flags().StringVar(&genGuestOut, "guest-out", "", "path to write the guest source file (falls back to guest_out; skipped when both are empty)")
	generateCmd.Flags().StringVar(&genHostOut, "host-out", "", "path to write the host source file (falls back to host_out; skipped when both are empty)")
	generateCmd.Flags().StringVar(&genDLOpenMode, "dlopen-mode", "", `dlopen mode: "global" or "local"; overrides thunkgen.toml`)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	overrides, err := config.LoadWithViper(genConfigPath)
	if err != nil {
		return err
	}
	if genDLOpenMode != "" {
		overrides.DLOpenMode = genDLOpenMode
	}
	library := genLibrary
	if library == "" {
		library = overrides.LibraryName
	}
	if library == "" {
		return fmt.Errorf("a library name is required (--library or library_name in %s)", genConfigPath)
	}

	logger.ParseInfow("loading interface description", "dir", genDir, "pattern", genPattern)
	iface, err := parser.LoadAndParse(genDir, genPattern)
	if err != nil {
		return err
	}
	logger.ParseInfow("parsed interface",
		"namespaces", len(iface.Namespaces),
		"functions", len(iface.Functions),
		"callback_types", len(iface.FuncPtrTypes))

	overrides.ApplyNamespaceHostLoaders(iface)

	cat := typecat.New()
	mode := overrides.ResolvedDLOpenMode()

	guestOut := genGuestOut
	if guestOut == "" {
		guestOut = overrides.GuestOut
	}
	hostOut := genHostOut
	if hostOut == "" {
		hostOut = overrides.HostOut
	}

	if guestOut != "" {
		if err := writeToFile(guestOut, func(w *os.File) error {
			return emit.Guest(iface, library, cat, w)
		}); err != nil {
			return fmt.Errorf("writing guest output: %w", err)
		}
		logger.EmitInfow("wrote guest file", "path", guestOut)
	}
	if hostOut != "" {
		if err := writeToFile(hostOut, func(w *os.File) error {
			return emit.Host(iface, library, cat, mode, w)
		}); err != nil {
			return fmt.Errorf("writing host output: %w", err)
		}
		logger.EmitInfow("wrote host file", "path", hostOut)
	}

	if overrides.HasLegacyOutputs() {
		if err := emitLegacy(iface, library, cat, mode, overrides); err != nil {
			return fmt.Errorf("writing legacy outputs: %w", err)
		}
	}

	if !logger.JSONOutput {
		pterm.Success.Printfln("generated %d thunked function(s) across %d namespace(s)",
			len(iface.Functions), len(iface.Namespaces))
	}
	return nil
}

func emitLegacy(iface *model.Interface, library string, cat *typecat.Catalogue, mode emit.DLOpenMode, overrides config.Overrides) error {
	var outs emit.LegacyOutputs
	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	open := func(path string) (*os.File, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		return f, nil
	}

	var err error
	if outs.Thunks, err = openWriter(open, overrides.LegacyThunks); err != nil {
		return err
	}
	if outs.FunctionPacks, err = openWriter(open, overrides.LegacyFunctionPacks); err != nil {
		return err
	}
	if outs.FunctionPacksPublic, err = openWriter(open, overrides.LegacyFunctionPacksPublic); err != nil {
		return err
	}
	if outs.FunctionUnpacks, err = openWriter(open, overrides.LegacyFunctionUnpacks); err != nil {
		return err
	}
	if outs.TabFunctionUnpacks, err = openWriter(open, overrides.LegacyTabFunctionUnpacks); err != nil {
		return err
	}
	if outs.Ldr, err = openWriter(open, overrides.LegacyLdr); err != nil {
		return err
	}
	if outs.LdrPtrs, err = openWriter(open, overrides.LegacyLdrPtrs); err != nil {
		return err
	}
	if outs.SymbolList, err = openWriter(open, overrides.LegacySymbolList); err != nil {
		return err
	}

	return emit.Legacy(iface, library, cat, mode, outs)
}

func openWriter(open func(string) (*os.File, error), path string) (io.Writer, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}
	return f, nil
}

func writeToFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
