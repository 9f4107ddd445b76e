package annotations

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

const fexgenStub = `
package fexgen

type Namespace struct {
	GenerateGuestSymtable bool
	IndirectGuestCalls    bool
	LoadHostEndpointVia   string
	Version               *uint64
}

func Versioned(v uint64) *uint64 { return &v }

type Function struct {
	ReturnsGuestPointer   bool
	CustomHostImpl        bool
	CallbackStub          bool
	CallbackGuest         bool
	CustomGuestEntrypoint bool
}
`

type singlePackageImporter struct{ pkg *types.Package }

func (s singlePackageImporter) Import(path string) (*types.Package, error) {
	if path == "fexgen" {
		return s.pkg, nil
	}
	return importer.Default().Import(path)
}

func checkPackage(t *testing.T, fset *token.FileSet, name, src string, fexgenPkg *types.Package) *packages.Package {
	t.Helper()
	file, err := parser.ParseFile(fset, name+".go", src, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	var conf types.Config
	if fexgenPkg != nil {
		conf = types.Config{Importer: singlePackageImporter{pkg: fexgenPkg}}
	} else {
		conf = types.Config{Importer: importer.Default()}
	}
	typesPkg, err := conf.Check(name, fset, []*ast.File{file}, info)
	require.NoError(t, err)

	return &packages.Package{Name: name, PkgPath: name, Fset: fset, Syntax: []*ast.File{file}, TypesInfo: info, Types: typesPkg}
}

func TestRead_NamespaceAndFunctionConfig(t *testing.T) {
	fset := token.NewFileSet()
	fexgenPkgInfo := checkPackage(t, fset, "fexgen", fexgenStub, nil)
	fexgenPkg := fexgenPkgInfo.Types

	src := `
package global
import "fexgen"

var FexGenConfig = fexgen.Namespace{
	GenerateGuestSymtable: true,
	LoadHostEndpointVia:   "my_loader",
	Version:               fexgen.Versioned(3),
}

var FexGenConfig_Foo = fexgen.Function{
	ReturnsGuestPointer: true,
}

type FexGenUniformVaType_Printish = int32

func Foo(a int32) int32
`
	pkg := checkPackage(t, fset, "global", src, fexgenPkg)

	d, err := Read(pkg)
	require.NoError(t, err)

	require.NotNil(t, d.Namespace)
	assert.True(t, d.Namespace.GenerateGuestSymtable)
	assert.Equal(t, "my_loader", d.Namespace.LoadHostEndpointVia)
	require.NotNil(t, d.Namespace.Version)
	assert.Equal(t, uint64(3), *d.Namespace.Version)

	require.Contains(t, d.Functions, "Foo")
	assert.True(t, d.Functions["Foo"].ReturnsGuestPointer)

	require.Contains(t, d.VaTypes, "Printish")

	require.Len(t, d.ABIFuncs, 1)
	assert.Equal(t, "Foo", d.ABIFuncs[0].Decl.Name.Name)
}

func TestRead_FuncTypeDecl(t *testing.T) {
	fset := token.NewFileSet()
	fexgenPkgInfo := checkPackage(t, fset, "fexgen", fexgenStub, nil)
	fexgenPkg := fexgenPkgInfo.Types

	src := `
package global
import "fexgen"

var FexGenConfig = fexgen.Namespace{}
var FexGenType_IntCallback func(int32)
`
	pkg := checkPackage(t, fset, "global", src, fexgenPkg)

	d, err := Read(pkg)
	require.NoError(t, err)
	require.Len(t, d.FuncTypes, 1)
	assert.Equal(t, "IntCallback", d.FuncTypes[0].Name)
}

func TestRead_PackageWithoutFexGenConfig(t *testing.T) {
	fset := token.NewFileSet()
	src := `package unrelated
var X = 1
`
	pkg := checkPackage(t, fset, "unrelated", src, nil)

	d, err := Read(pkg)
	require.NoError(t, err)
	assert.Nil(t, d.Namespace)
	assert.Empty(t, d.Functions)
}
