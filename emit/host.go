package emit

import (
	"io"

	"github.com/fex-emu/thunkgen/digest"
	"github.com/fex-emu/thunkgen/model"
	"github.com/fex-emu/thunkgen/typecat"
)

// DLOpenMode selects the flag passed to dlopen when loading the native
// library, resolving Open Question (i) of spec.md §9 as an explicit
// configuration knob instead of a hardcoded legacy-vs-unified distinction.
type DLOpenMode int

const (
	// DLOpenGlobal opens the library with RTLD_GLOBAL, the unified
	// two-file generator's default: dependent libraries resolve symbols
	// through the global namespace.
	DLOpenGlobal DLOpenMode = iota
	// DLOpenLocal opens the library with RTLD_LOCAL, matching the legacy
	// multi-file generator's behavior.
	DLOpenLocal
)

func (m DLOpenMode) flag() string {
	if m == DLOpenLocal {
		return "RTLD_LOCAL"
	}
	return "RTLD_GLOBAL"
}

// Host writes the host translation unit for iface to w, per spec.md §4.F's
// host file contract: loader typedefs, per-function unpack dispatchers, the
// digest-keyed export table, and the library loader.
func Host(iface *model.Interface, libname string, cat *typecat.Catalogue, mode DLOpenMode, w io.Writer) error {
	sanitized := digest.SanitizeLibName(libname)
	out := newWriter(w)

	out.Line("// Code generated by thunkgen. DO NOT EDIT.")
	out.Printf("\n")

	for _, api := range iface.APIExports {
		writeLoaderTypedef(out, sanitized, api, cat)
	}
	out.Printf("\n")

	for _, fn := range iface.Functions {
		writeUnpackDispatcher(out, sanitized, libname, fn, cat)
	}

	writeExportTable(out, sanitized, libname, iface, cat)
	writeLoaderInit(out, sanitized, libname, iface, mode)

	return out.Flush()
}

func writeLoaderTypedef(out *writer, sanitized string, api *model.ThunkedAPIFunction, cat *typecat.Catalogue) {
	typeName := "fexldr_type_" + sanitized + "_" + api.Name
	ptrName := "fexldr_ptr_" + sanitized + "_" + api.Name

	params := make([]string, len(api.Params))
	for i, p := range api.Params {
		params[i] = cat.Render(p.Type)
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = joinComma(params)
	}
	if api.Variadic {
		paramList += ", ..."
	}
	out.Printf("typedef %s;\n", renderReturn(cat, api.Return, "(*"+typeName+")("+paramList+")"))
	out.Printf("static %s %s;\n", typeName, ptrName)
}

func writeUnpackDispatcher(out *writer, sanitized, libname string, fn *model.ThunkedFunction, cat *typecat.Catalogue) {
	if fn.Callback != nil && fn.Callback.Strategy == model.CallbackStub {
		writeCallbackStub(out, fn, cat)
	}

	implName := "fexfn_impl_" + sanitized + "_" + fn.Name
	if fn.CustomHostImpl {
		writeImplForwardDecl(out, implName, fn, cat)
	}

	structName := "fexfn_packed_args_" + sanitized + "_" + fn.Name
	out.Printf("struct %s {\n", structName)
	for i, p := range fn.Params {
		out.Printf("  %s;\n", cat.RenderDecl(p.Type, argName(i)))
	}
	hasReturn := !isVoid(fn.Return)
	if hasReturn {
		out.Printf("  %s;\n", cat.RenderDecl(fn.Return, "rv"))
	}
	if len(fn.Params) == 0 && !hasReturn {
		out.Line("  char force_nonempty;")
	}
	out.Line("};")

	out.Printf("static void fexfn_unpack_%s_%s(struct %s *args) {\n", sanitized, fn.Name, structName)

	callArgs := make([]string, len(fn.Params))
	for i := range fn.Params {
		callArgs[i] = callsiteArg(fn, i)
	}
	target := "fexldr_ptr_" + sanitized + "_" + fn.OriginalName
	if fn.CustomHostImpl {
		target = implName
	}
	call := target + "(" + joinCommaOrEmpty(callArgs) + ")"
	if hasReturn {
		out.Printf("  args->rv = %s;\n", call)
	} else {
		out.Printf("  %s;\n", call)
	}
	out.Line("}")
	out.Printf("\n")
}

func callsiteArg(fn *model.ThunkedFunction, i int) string {
	a := argName(i)
	if fn.Callback == nil || fn.Callback.ParamIndex != i {
		return "args->" + a
	}
	switch fn.Callback.Strategy {
	case model.CallbackStub:
		return "fexfn_unpack_" + digest.CallbackName(fn.Name, i) + "_stub"
	case model.CallbackGuest:
		return "(fex_guest_function_ptr){args->" + a + "}"
	default:
		return "(FinalizeHostTrampolineForGuestFunction(args->" + a + "), args->" + a + ")"
	}
}

func writeCallbackStub(out *writer, fn *model.ThunkedFunction, cat *typecat.Catalogue) {
	cb := fn.Callback
	name := digest.CallbackName(fn.Name, cb.ParamIndex) + "_stub"
	params := make([]string, len(cb.Params))
	for i, p := range cb.Params {
		params[i] = cat.RenderDecl(p.Type, argName(i))
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = joinComma(params)
	}
	out.Printf("[[noreturn]] static void fexfn_unpack_%s(%s) {\n", name, paramList)
	out.Printf("  fprintf(stderr, \"Unsupported callback invoked: %s\\n\");\n", name)
	out.Line("  abort();")
	out.Line("}")
	out.Printf("\n")
}

func writeImplForwardDecl(out *writer, implName string, fn *model.ThunkedFunction, cat *typecat.Catalogue) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		if fn.Callback != nil && fn.Callback.ParamIndex == i {
			params[i] = "fex_guest_function_ptr " + argName(i)
			continue
		}
		params[i] = cat.RenderDecl(p.Type, argName(i))
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = joinComma(params)
	}
	out.Printf("%s;\n", renderReturn(cat, fn.Return, implName+"("+paramList+")"))
}

func writeExportTable(out *writer, sanitized, libname string, iface *model.Interface, cat *typecat.Catalogue) {
	out.Line("static const struct ExportEntry exports[] = {")
	for _, fn := range iface.Functions {
		d := digest.Function(libname, fn.Name)
		out.Printf("  { %s, (void (*)(void *))&fexfn_unpack_%s_%s },\n", d.CString(), sanitized, fn.Name)
	}
	for i, fpt := range iface.FuncPtrTypes {
		d := digest.Callback(fpt.Key)
		out.Printf("  { %s, (void (*)(void *))&CallbackUnpack<%s>::ForIndirectCall },\n", d.CString(), cat.Render(fpt.Signature))
		_ = i
	}
	out.Line("  { nullptr, nullptr },")
	out.Line("};")
	out.Printf("\n")
}

func writeLoaderInit(out *writer, sanitized, libname string, iface *model.Interface, mode DLOpenMode) {
	soname := libname + ".so"
	if iface.LibVersion != nil {
		soname = libname + ".so." + itoa(*iface.LibVersion)
	}
	out.Printf("static void *fexldr_ptr_%s_so;\n\n", sanitized)
	out.Printf("extern \"C\" bool fexldr_init_%s() {\n", sanitized)
	out.Printf("  fexldr_ptr_%s_so = dlopen(\"%s\", %s | RTLD_LAZY);\n", sanitized, soname, mode.flag())
	out.Printf("  if (!fexldr_ptr_%s_so) {\n    return false;\n  }\n", sanitized)
	for _, api := range iface.APIExports {
		ptrName := "fexldr_ptr_" + sanitized + "_" + api.Name
		loader := api.HostLoader
		out.Printf("  (void*&)%s = %s(fexldr_ptr_%s_so, \"%s\");\n", ptrName, loader, sanitized, api.Name)
	}
	out.Line("  return true;")
	out.Line("}")
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

func joinCommaOrEmpty(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return joinComma(parts)
}
