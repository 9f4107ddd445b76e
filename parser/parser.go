// Package parser is the Parser/Validator (spec.md §4.D): it walks the
// loaded interface-description packages, populates the Interface Model
// (package model), enforces the structural rules of spec.md §3/§4.D/§7, and
// reports diagnostics with source positions.
//
// Grounded line-for-line on gen.cpp's ASTVisitor::VisitClassTemplateDecl
// (namespace discovery) and VisitClassTemplateSpecializationDecl (per-
// function processing: callback detection, variadic rewrite,
// indirect_guest_calls registration).
package parser

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/fex-emu/thunkgen/annotations"
	"github.com/fex-emu/thunkgen/logger"
	"github.com/fex-emu/thunkgen/model"
	"github.com/fex-emu/thunkgen/typecat"
)

// LoadMode is the packages.Load mode this package requires: type-checked
// syntax trees plus enough metadata to name the package unambiguously.
const LoadMode = packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedDeps | packages.NeedFiles

// globalPackageName is the package name that denotes the global namespace,
// since Go has no literal "no package" spelling.
const globalPackageName = "global"

const defaultHostLoader = "dlsym_default"

// LoadAndParse loads the Go packages matching patterns under dir and parses
// them into an Interface Model. It is the convenience entry point used by
// the Driver (cmd/thunkgen); ParsePackages is the underlying, I/O-free
// Component D operation, kept separate for testing against pre-built
// *packages.Package fixtures.
func LoadAndParse(dir string, patterns ...string) (*model.Interface, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v under %s", patterns, dir)
	}
	var loadErrs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("loading packages:\n%s", strings.Join(loadErrs, "\n"))
	}
	return ParsePackages(pkgs)
}

// ParsePackages runs the two discovery passes of spec.md §4.D over already
// loaded, type-checked packages and returns the populated Interface Model.
// A non-nil error carries every diagnostic recorded across the run; no
// partial Interface is returned alongside it (spec.md §7: "does not attempt
// partial emission on interface errors").
func ParsePackages(pkgs []*packages.Package) (*model.Interface, error) {
	p := &parseRun{
		iface: model.NewInterface(),
		cat:   typecat.New(),
	}

	// Pass 1: discover namespace descriptors.
	type discovered struct {
		pkg  *packages.Package
		decl *annotations.Declared
		name string
	}
	var found []discovered

	for _, pkg := range pkgs {
		decl, err := annotations.Read(pkg)
		if err != nil {
			return nil, err
		}
		if decl.Namespace == nil {
			logger.ParseDebugw("skipping package with no FexGenConfig", "package", pkg.PkgPath)
			continue
		}
		name := pkg.Name
		if name == globalPackageName {
			name = ""
		}
		found = append(found, discovered{pkg: pkg, decl: decl, name: name})
	}

	for _, f := range found {
		nd := &model.NamespaceDescriptor{
			Name:                  f.name,
			HostLoader:            f.decl.Namespace.LoadHostEndpointVia,
			GenerateGuestSymtable: f.decl.Namespace.GenerateGuestSymtable,
			IndirectGuestCalls:    f.decl.Namespace.IndirectGuestCalls,
			Version:               f.decl.Namespace.Version,
		}
		if nd.HostLoader == "" {
			nd.HostLoader = defaultHostLoader
		}
		if nd.Version != nil && nd.Name != "" {
			p.diags.Errorf(f.decl.Namespace.Pos, "library version is only legal on the global namespace, got %q", f.name)
			continue
		}
		if nd.Version != nil {
			p.iface.LibVersion = nd.Version
		}
		_, isNew := p.iface.AddNamespace(nd)
		if !isNew {
			p.diags.Errorf(f.decl.Namespace.Pos, "ambiguous fex_gen_config: namespace %q already declared", f.name)
			continue
		}
	}

	// Pass 2: per-namespace function processing, plus fex_gen_type directives.
	for _, f := range found {
		ns, ok := p.iface.Namespace(f.name)
		if !ok {
			continue // namespace registration failed above; already diagnosed
		}
		nsIndex := indexOfNamespace(p.iface, f.name)

		for _, ft := range f.decl.FuncTypes {
			key := p.cat.Canonicalize(ft.Type)
			p.iface.AddFuncPointerType(key, ft.Type)
		}

		abiByName := make(map[string]*annotations.ABIFunc, len(f.decl.ABIFuncs))
		for _, abi := range f.decl.ABIFuncs {
			abiByName[abi.Decl.Name.Name] = abi
		}

		// Visit configs in declaration order, not map order, so the model's
		// collections (and the emitted files) are identical across runs.
		names := make([]string, 0, len(f.decl.Functions))
		for fn := range f.decl.Functions {
			names = append(names, fn)
		}
		sort.Slice(names, func(i, j int) bool {
			a, b := f.decl.Functions[names[i]].Pos, f.decl.Functions[names[j]].Pos
			if a.Filename != b.Filename {
				return a.Filename < b.Filename
			}
			return a.Offset < b.Offset
		})
		for _, fn := range names {
			cfg := f.decl.Functions[fn]
			abi, ok := abiByName[fn]
			if !ok {
				p.diags.Errorf(cfg.Pos, "fex_gen_config<%s>: no matching function declaration in namespace %q", fn, f.name)
				continue
			}
			if abi.Type == nil {
				p.diags.Errorf(abi.Pos, "%s: could not resolve function type", fn)
				continue
			}
			p.processFunction(ns, nsIndex, fn, cfg, abi, f.decl.VaTypes[fn])
		}
	}

	if p.diags.HasErrors() {
		return nil, p.diags.Err()
	}
	return p.iface, nil
}

func indexOfNamespace(iface *model.Interface, name string) int {
	for i, nd := range iface.Namespaces {
		if nd.Name == name {
			return i
		}
	}
	return -1
}

type parseRun struct {
	iface *model.Interface
	cat   *typecat.Catalogue
	diags Diagnostics
}

func (p *parseRun) processFunction(
	ns *model.NamespaceDescriptor,
	nsIndex int,
	name string,
	cfg *annotations.FunctionConfig,
	abi *annotations.ABIFunc,
	vaType types.Type,
) {
	sig := abi.Type
	params := paramsFromSignature(sig)
	variadic := sig.Variadic()
	if variadic {
		// Go spells the variadic tail as a trailing slice parameter; the C
		// signature carries only the "..." that Variadic already records.
		params = params[:len(params)-1]
	}

	tf := &model.ThunkedFunction{
		Name:         name,
		OriginalName: name,
		Return:       resultType(sig),
		Params:       params,
		Variadic:     variadic,
		Namespace:    ns.Name,
		Pos:          abi.Pos,
	}

	// Callback detection: spec.md §4.D.2 — at most one callback parameter,
	// the current function's annotation applies to it (annotations are
	// per-function, not per-parameter).
	var callbackIdx = -1
	for i, param := range tf.Params {
		if p.cat.IsFuncPointer(param.Type) {
			if callbackIdx != -1 {
				p.diags.Errorf(abi.Pos, "%s: more than one callback parameter is not supported", name)
				break
			}
			callbackIdx = i
		}
	}
	if callbackIdx != -1 {
		cbSig, _ := p.cat.Underlying(tf.Params[callbackIdx].Type).(*types.Signature)
		cb := &model.ThunkedCallback{
			ParamIndex: callbackIdx,
			Return:     resultType(cbSig),
			Params:     paramsFromSignature(cbSig),
			Variadic:   cbSig.Variadic(),
		}
		switch {
		case cfg.CallbackStub:
			cb.Strategy = model.CallbackStub
		case cfg.CallbackGuest:
			cb.Strategy = model.CallbackGuest
			if !cfg.CustomHostImpl {
				p.diags.Errorf(abi.Pos, "%s: callback_guest requires custom_host_impl", name)
			}
		default:
			cb.Strategy = model.CallbackDefault
		}
		if cb.Variadic && cb.Strategy != model.CallbackStub {
			p.diags.Errorf(abi.Pos, "%s: a variadic callback must be callback_stub", name)
		}
		if cb.Strategy == model.CallbackDefault {
			key := p.cat.Canonicalize(tf.Params[callbackIdx].Type)
			p.iface.AddFuncPointerType(key, tf.Params[callbackIdx].Type)
		}
		tf.Callback = cb
	}

	if p.cat.IsFuncPointer(tf.Return) {
		if !cfg.ReturnsGuestPointer {
			p.diags.Errorf(abi.Pos, "%s: returns a function pointer without returns_guest_pointer", name)
		}
		tf.ReturnsPointer = true
	}

	hostLoader := ns.HostLoader
	api := &model.ThunkedAPIFunction{
		Name:            name,
		Return:          tf.Return,
		Params:          cloneParams(tf.Params),
		Variadic:        tf.Variadic,
		CustomGuestImpl: cfg.CustomGuestEntrypoint,
		HostLoader:      hostLoader,
		NamespaceIndex:  nsIndex,
		HasNamespace:    ns.GenerateGuestSymtable,
	}

	if variadic {
		if vaType == nil {
			p.diags.Errorf(abi.Pos, "%s: variadic function requires uniform_va_type", name)
		} else {
			tf.UniformVaType = vaType
			tf.Params = append(tf.Params,
				model.Param{Name: "va_count", Type: types.Typ[types.Uintptr]},
				model.Param{Name: "va_args", Type: types.NewPointer(vaType)},
			)
		}
		if cfg.CustomHostImpl {
			p.diags.Errorf(abi.Pos, "%s: custom_host_impl is redundant on a variadic function", name)
		}
		tf.CustomHostImpl = true
		tf.Name = name + "_internal"
	} else {
		tf.CustomHostImpl = cfg.CustomHostImpl
	}

	p.iface.AddFunction(tf)
	p.iface.AddAPIExport(api)

	if ns.IndirectGuestCalls {
		finalSig := signatureFromParams(tf.Params, tf.Return, false)
		key := p.cat.Canonicalize(finalSig)
		p.iface.AddFuncPointerType(key, finalSig)
	}
}

func paramsFromSignature(sig *types.Signature) []model.Param {
	out := make([]model.Param, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		v := sig.Params().At(i)
		out = append(out, model.Param{Name: v.Name(), Type: v.Type()})
	}
	return out
}

func resultType(sig *types.Signature) types.Type {
	if sig.Results().Len() == 0 {
		return types.Typ[types.Invalid] // void; renderer special-cases nil/Invalid
	}
	return sig.Results().At(0).Type()
}

func cloneParams(in []model.Param) []model.Param {
	out := make([]model.Param, len(in))
	copy(out, in)
	return out
}

// signatureFromParams rebuilds a *types.Signature for a ThunkedFunction's
// final (possibly variadic-rewritten) parameter list, used to register the
// function's own signature into the function-pointer type set for
// indirect_guest_calls namespaces.
func signatureFromParams(params []model.Param, ret types.Type, variadic bool) *types.Signature {
	vars := make([]*types.Var, len(params))
	for i, p := range params {
		vars[i] = types.NewVar(0, nil, p.Name, p.Type)
	}
	var results *types.Tuple
	if ret != nil && ret != types.Typ[types.Invalid] {
		results = types.NewTuple(types.NewVar(0, nil, "", ret))
	}
	return types.NewSignatureType(nil, nil, nil, types.NewTuple(vars...), results, variadic)
}
