package emit

import (
	"io"

	"github.com/fex-emu/thunkgen/digest"
	"github.com/fex-emu/thunkgen/model"
	"github.com/fex-emu/thunkgen/typecat"
)

// LegacyOutputs names the eight smaller files the legacy multi-file
// generator variant writes, one piece each of the unified guest/host
// contract (spec.md §4.F). Each field is optional: a nil Writer skips that
// output entirely, matching "individually selectable by non-empty path".
// callback_unpacks is not represented: spec.md §9 Open Question (iii)
// treats it as deprecated and omits it outright, rather than emitting it
// empty.
type LegacyOutputs struct {
	Thunks              io.Writer // MAKE_THUNK / MAKE_CALLBACK_THUNK invocations
	FunctionPacks       io.Writer // guest packing wrapper bodies
	FunctionPacksPublic io.Writer // public ELF-alias symbols
	FunctionUnpacks     io.Writer // host unpack dispatchers, stubs, packed-arg structs
	TabFunctionUnpacks  io.Writer // the exports[] table
	Ldr                 io.Writer // fexldr_init_<lib>
	LdrPtrs             io.Writer // loader typedefs and static pointers
	SymbolList          io.Writer // per-namespace FOREACH_*_SYMBOL / symtables
}

// Legacy writes whichever of LegacyOutputs's fields are non-nil, reusing
// the same per-collection writers as the unified Guest/Host emitters so the
// two variants can never silently disagree on content.
func Legacy(iface *model.Interface, libname string, cat *typecat.Catalogue, mode DLOpenMode, outs LegacyOutputs) error {
	sanitized := digest.SanitizeLibName(libname)

	if outs.Thunks != nil {
		out := newWriter(outs.Thunks)
		for _, fn := range iface.Functions {
			d := digest.Function(libname, fn.Name)
			out.Printf("MAKE_THUNK(%s, %s, \"%s\")\n", sanitized, fn.Name, d.CBytes())
		}
		for i, fpt := range iface.FuncPtrTypes {
			d := digest.Callback(fpt.Key)
			out.Printf("MAKE_CALLBACK_THUNK(callback_%d, %s, \"%s\")\n", i, cat.Render(fpt.Signature), d.CBytes())
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.FunctionPacks != nil {
		out := newWriter(outs.FunctionPacks)
		for _, fn := range iface.Functions {
			writePackWrapper(out, sanitized, fn, cat)
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.FunctionPacksPublic != nil {
		out := newWriter(outs.FunctionPacksPublic)
		for _, api := range iface.APIExports {
			if api.CustomGuestImpl {
				continue
			}
			writePublicAlias(out, api, cat)
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.FunctionUnpacks != nil {
		out := newWriter(outs.FunctionUnpacks)
		for _, fn := range iface.Functions {
			writeUnpackDispatcher(out, sanitized, libname, fn, cat)
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.TabFunctionUnpacks != nil {
		out := newWriter(outs.TabFunctionUnpacks)
		writeExportTable(out, sanitized, libname, iface, cat)
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.Ldr != nil {
		out := newWriter(outs.Ldr)
		writeLoaderInit(out, sanitized, libname, iface, mode)
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.LdrPtrs != nil {
		out := newWriter(outs.LdrPtrs)
		for _, api := range iface.APIExports {
			writeLoaderTypedef(out, sanitized, api, cat)
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	if outs.SymbolList != nil {
		out := newWriter(outs.SymbolList)
		for _, ns := range iface.Namespaces {
			if !ns.GenerateGuestSymtable {
				continue
			}
			writeSymtable(out, ns)
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}

	return nil
}
