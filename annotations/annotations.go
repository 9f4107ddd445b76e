// Package annotations is the Annotation Reader (spec.md §4.B): it extracts
// per-namespace and per-function configuration from the declarative
// vocabulary of package fexgen.
//
// Because thunkgen's marker vocabulary is expressed as ordinary typed Go
// struct literals (fexgen.Namespace, fexgen.Function) rather than C++ base
// specifiers, the "unknown base class" and "unknown field" error classes of
// spec.md §4.B are enforced by the Go type system at the point the
// interface-description package is authored: a typo'd field name or an
// unrecognized marker simply fails to compile there. This package is
// responsible only for locating and reading the recognized declarations;
// structural cross-checks (version outside the global namespace, and so on)
// remain the Parser/Validator's job (see package parser), matching spec.md's
// component boundary between B and D.
//
// Grounded on ats/typegen/typegen.go's processFile/processConstBlock
// (ast.Inspect over *ast.GenDecl, composite-literal field extraction) and
// ats/attrs/attrs.go's fixed-vocabulary struct scan.
package annotations

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/fex-emu/thunkgen/errors"
)

const (
	namespaceConfigName  = "FexGenConfig"
	functionConfigPrefix = "FexGenConfig_"
	uniformVaTypePrefix  = "FexGenUniformVaType_"
	funcTypePrefix       = "FexGenType_"
)

// NamespaceConfig is the per-namespace configuration read from a
// `var FexGenConfig = fexgen.Namespace{...}` declaration.
type NamespaceConfig struct {
	GenerateGuestSymtable bool
	IndirectGuestCalls    bool
	LoadHostEndpointVia   string
	Version               *uint64
	Pos                   token.Position
}

// FunctionConfig is the per-function configuration read from a
// `var FexGenConfig_<F> = fexgen.Function{...}` declaration.
type FunctionConfig struct {
	ReturnsGuestPointer   bool
	CustomHostImpl        bool
	CallbackStub          bool
	CallbackGuest         bool
	CustomGuestEntrypoint bool
	Pos                   token.Position
}

// FuncTypeDecl is one `var FexGenType_<Name> func(...)` registration: a
// canonical signature to add to the function-pointer type set.
type FuncTypeDecl struct {
	Name string
	Type *types.Signature
	Pos  token.Position
}

// ABIFunc is a bodiless function declaration naming a symbol to thunk.
type ABIFunc struct {
	Decl *ast.FuncDecl
	Type *types.Signature
	Pos  token.Position
}

// Declared is everything the Annotation Reader found in one namespace
// package.
type Declared struct {
	PackageName string
	Namespace   *NamespaceConfig
	Functions   map[string]*FunctionConfig
	VaTypes     map[string]types.Type
	FuncTypes   []*FuncTypeDecl
	ABIFuncs    []*ABIFunc
}

// Read scans a loaded, type-checked package for the fexgen vocabulary.
func Read(pkg *packages.Package) (*Declared, error) {
	d := &Declared{
		PackageName: pkg.Name,
		Functions:   make(map[string]*FunctionConfig),
		VaTypes:     make(map[string]types.Type),
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch gd := decl.(type) {
			case *ast.GenDecl:
				if err := readGenDecl(pkg, gd, d); err != nil {
					return nil, err
				}
			case *ast.FuncDecl:
				if gd.Body == nil && gd.Recv == nil {
					sig, _ := pkg.TypesInfo.Defs[gd.Name].Type().(*types.Signature)
					d.ABIFuncs = append(d.ABIFuncs, &ABIFunc{
						Decl: gd,
						Type: sig,
						Pos:  pkg.Fset.Position(gd.Pos()),
					})
				}
			}
		}
	}
	return d, nil
}

func readGenDecl(pkg *packages.Package, gd *ast.GenDecl, d *Declared) error {
	switch gd.Tok {
	case token.VAR:
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			if err := readValueSpec(pkg, vs, d); err != nil {
				return err
			}
		}
	case token.TYPE:
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || !ts.Assign.IsValid() {
				continue
			}
			name := ts.Name.Name
			if !strings.HasPrefix(name, uniformVaTypePrefix) {
				continue
			}
			fn := strings.TrimPrefix(name, uniformVaTypePrefix)
			d.VaTypes[fn] = pkg.TypesInfo.TypeOf(ts.Type)
		}
	}
	return nil
}

func readValueSpec(pkg *packages.Package, vs *ast.ValueSpec, d *Declared) error {
	for i, name := range vs.Names {
		pos := pkg.Fset.Position(name.Pos())

		switch {
		case name.Name == namespaceConfigName:
			if i >= len(vs.Values) {
				continue
			}
			cfg, err := readNamespaceLiteral(pkg, vs.Values[i], pos)
			if err != nil {
				return err
			}
			d.Namespace = cfg

		case strings.HasPrefix(name.Name, functionConfigPrefix):
			if i >= len(vs.Values) {
				continue
			}
			fn := strings.TrimPrefix(name.Name, functionConfigPrefix)
			cfg, err := readFunctionLiteral(pkg, vs.Values[i], pos)
			if err != nil {
				return err
			}
			d.Functions[fn] = cfg

		case strings.HasPrefix(name.Name, funcTypePrefix):
			fn := strings.TrimPrefix(name.Name, funcTypePrefix)
			obj := pkg.TypesInfo.Defs[name]
			if obj == nil {
				continue
			}
			sig, ok := obj.Type().(*types.Signature)
			if !ok {
				return errors.NewInvalidAnnotationError("%s at %s must declare a function type", name.Name, pos)
			}
			d.FuncTypes = append(d.FuncTypes, &FuncTypeDecl{Name: fn, Type: sig, Pos: pos})
		}
	}
	return nil
}

func readNamespaceLiteral(pkg *packages.Package, expr ast.Expr, pos token.Position) (*NamespaceConfig, error) {
	cl, ok := unwrapComposite(expr)
	if !ok {
		return nil, errors.NewInvalidAnnotationError("FexGenConfig at %s must be a fexgen.Namespace{...} literal", pos)
	}
	cfg := &NamespaceConfig{Pos: pos}
	for _, elt := range cl.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch key.Name {
		case "GenerateGuestSymtable":
			cfg.GenerateGuestSymtable = boolValue(pkg, kv.Value)
		case "IndirectGuestCalls":
			cfg.IndirectGuestCalls = boolValue(pkg, kv.Value)
		case "LoadHostEndpointVia":
			cfg.LoadHostEndpointVia = stringValue(pkg, kv.Value)
		case "Version":
			v, err := versionValue(pkg, kv.Value, pos)
			if err != nil {
				return nil, err
			}
			cfg.Version = v
		}
	}
	return cfg, nil
}

func readFunctionLiteral(pkg *packages.Package, expr ast.Expr, pos token.Position) (*FunctionConfig, error) {
	cl, ok := unwrapComposite(expr)
	if !ok {
		return nil, errors.NewInvalidAnnotationError("function config at %s must be a fexgen.Function{...} literal", pos)
	}
	cfg := &FunctionConfig{Pos: pos}
	for _, elt := range cl.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch key.Name {
		case "ReturnsGuestPointer":
			cfg.ReturnsGuestPointer = boolValue(pkg, kv.Value)
		case "CustomHostImpl":
			cfg.CustomHostImpl = boolValue(pkg, kv.Value)
		case "CallbackStub":
			cfg.CallbackStub = boolValue(pkg, kv.Value)
		case "CallbackGuest":
			cfg.CallbackGuest = boolValue(pkg, kv.Value)
		case "CustomGuestEntrypoint":
			cfg.CustomGuestEntrypoint = boolValue(pkg, kv.Value)
		}
	}
	return cfg, nil
}

// unwrapComposite accepts either a bare composite literal or a unary/paren
// wrapped one and returns its *ast.CompositeLit form.
func unwrapComposite(expr ast.Expr) (*ast.CompositeLit, bool) {
	switch e := expr.(type) {
	case *ast.CompositeLit:
		return e, true
	case *ast.ParenExpr:
		return unwrapComposite(e.X)
	case *ast.UnaryExpr:
		return unwrapComposite(e.X)
	default:
		return nil, false
	}
}

func boolValue(pkg *packages.Package, expr ast.Expr) bool {
	tv, ok := pkg.TypesInfo.Types[expr]
	if !ok || tv.Value == nil {
		return false
	}
	return constant.BoolVal(tv.Value)
}

func stringValue(pkg *packages.Package, expr ast.Expr) string {
	tv, ok := pkg.TypesInfo.Types[expr]
	if !ok || tv.Value == nil {
		return ""
	}
	return constant.StringVal(tv.Value)
}

// versionValue recognizes fexgen.Versioned(N) call expressions, the
// composite-literal-safe way to express an optional uint64 field.
func versionValue(pkg *packages.Package, expr ast.Expr, pos token.Position) (*uint64, error) {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return nil, errors.NewInvalidAnnotationError("Version at %s must be set via fexgen.Versioned(n)", pos)
	}
	tv, ok := pkg.TypesInfo.Types[call.Args[0]]
	if !ok || tv.Value == nil {
		return nil, errors.NewInvalidAnnotationError("Version at %s must be an integer literal", pos)
	}
	n, ok := constant.Uint64Val(tv.Value)
	if !ok {
		return nil, errors.NewInvalidAnnotationError("Version at %s must be an unsigned integer literal", pos)
	}
	return &n, nil
}
