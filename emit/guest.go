package emit

import (
	"io"

	"github.com/fex-emu/thunkgen/digest"
	"github.com/fex-emu/thunkgen/model"
	"github.com/fex-emu/thunkgen/typecat"
)

// Guest writes the guest translation unit for iface to w, per spec.md
// §4.F's guest file contract: thunk declarations, callback thunk
// declarations, packing wrappers, public aliases, then, for each namespace
// flagged GenerateGuestSymtable, its <ns>_symtable[] array and
// FOREACH_<NS>_SYMBOL macro. Namespaces without that flag get neither.
func Guest(iface *model.Interface, libname string, cat *typecat.Catalogue, w io.Writer) error {
	sanitized := digest.SanitizeLibName(libname)
	out := newWriter(w)

	out.Line("// Code generated by thunkgen. DO NOT EDIT.")
	out.Printf("\n")

	for _, fn := range iface.Functions {
		d := digest.Function(libname, fn.Name)
		out.Printf("MAKE_THUNK(%s, %s, \"%s\")\n", sanitized, fn.Name, d.CBytes())
	}
	out.Printf("\n")

	for i, fpt := range iface.FuncPtrTypes {
		d := digest.Callback(fpt.Key)
		out.Printf("MAKE_CALLBACK_THUNK(callback_%d, %s, \"%s\")\n", i, cat.Render(fpt.Signature), d.CBytes())
	}
	out.Printf("\n")

	for _, fn := range iface.Functions {
		writePackWrapper(out, sanitized, fn, cat)
	}

	for _, api := range iface.APIExports {
		if api.CustomGuestImpl {
			continue
		}
		writePublicAlias(out, api, cat)
	}

	for _, ns := range iface.Namespaces {
		if !ns.GenerateGuestSymtable {
			continue
		}
		writeSymtable(out, ns)
	}

	return out.Flush()
}

func writePackWrapper(out *writer, sanitized string, fn *model.ThunkedFunction, cat *typecat.Catalogue) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = cat.RenderDecl(p.Type, argName(i))
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = joinComma(params)
	}
	if fn.Variadic {
		paramList += ", ..."
	}

	retDecl := renderReturn(cat, fn.Return, "fexfn_pack_"+fn.Name)
	out.Printf("FEX_PACKFN_LINKAGE %s(%s) {\n", retDecl, paramList)

	out.Line("  struct {")
	for i, p := range fn.Params {
		out.Printf("    %s;\n", cat.RenderDecl(p.Type, argName(i)))
	}
	hasReturn := !isVoid(fn.Return)
	if hasReturn {
		out.Printf("    %s;\n", cat.RenderDecl(fn.Return, "rv"))
	}
	if len(fn.Params) == 0 && !hasReturn {
		out.Line("    char force_nonempty;")
	}
	out.Line("  } args;")

	for i := range fn.Params {
		if fn.Callback != nil && fn.Callback.ParamIndex == i && fn.Callback.Strategy == model.CallbackDefault {
			out.Printf("  args.%s = AllocateHostTrampolineForGuestFunction(%s);\n", argName(i), argName(i))
		} else {
			out.Printf("  args.%s = %s;\n", argName(i), argName(i))
		}
	}

	out.Printf("  fexthunks_%s_%s(&args);\n", sanitized, fn.Name)
	if hasReturn {
		out.Line("  return args.rv;")
	}
	out.Line("}")
	out.Printf("\n")
}

func writePublicAlias(out *writer, api *model.ThunkedAPIFunction, cat *typecat.Catalogue) {
	params := make([]string, len(api.Params))
	for i, p := range api.Params {
		params[i] = cat.RenderDecl(p.Type, argName(i))
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = joinComma(params)
	}
	if api.Variadic {
		paramList += ", ..."
	}
	packName := api.Name
	if api.Variadic {
		packName = api.Name + "_internal"
	}
	decl := renderReturn(cat, api.Return, api.Name)
	out.Printf("FEX_PACKFN_LINKAGE %s(%s) __attribute__((alias(\"fexfn_pack_%s\")));\n", decl, paramList, packName)
}

func writeSymtable(out *writer, ns *model.NamespaceDescriptor) {
	name := nsMacroName(ns)
	out.Printf("static struct { const char *name; void (*fn)(); } %s_symtable[] = {\n", name)
	for _, m := range ns.Members {
		out.Printf("  { \"%s\", (void (*)())&%s },\n", m, m)
	}
	out.Line("  { nullptr, nullptr },")
	out.Line("};")
	out.Printf("\n#define FOREACH_%s_SYMBOL(EXPAND) \\\n", name)
	for i, m := range ns.Members {
		sep := " \\"
		if i == len(ns.Members)-1 {
			sep = ""
		}
		out.Printf("  EXPAND(%s, \"TODO\")%s\n", m, sep)
	}
	out.Printf("\n")
}

func nsMacroName(ns *model.NamespaceDescriptor) string {
	if ns.Name == "" {
		return "global"
	}
	return ns.Name
}

func joinComma(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
