package typecat

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func namedFuncType(name string, params ...types.Type) *types.Named {
	vars := make([]*types.Var, len(params))
	for i, p := range params {
		vars[i] = types.NewVar(0, nil, "", p)
	}
	sig := types.NewSignatureType(nil, nil, nil, types.NewTuple(vars...), nil, false)
	obj := types.NewTypeName(0, nil, name, nil)
	named := types.NewNamed(obj, sig, nil)
	return named
}

func TestCanonicalize_CollapsesDistinctNamedFuncTypesWithSameSignature(t *testing.T) {
	cat := New()
	a := namedFuncType("CB1", types.Typ[types.Int32])
	b := namedFuncType("CB2", types.Typ[types.Int32])

	assert.Equal(t, cat.Canonicalize(a), cat.Canonicalize(b))
}

func TestCanonicalize_DistinguishesDifferentSignatures(t *testing.T) {
	cat := New()
	a := namedFuncType("CB1", types.Typ[types.Int32])
	b := namedFuncType("CB2", types.Typ[types.Int64])

	assert.NotEqual(t, cat.Canonicalize(a), cat.Canonicalize(b))
}

func TestIsFuncPointer(t *testing.T) {
	cat := New()
	cb := namedFuncType("CB", types.Typ[types.Int32])
	assert.True(t, cat.IsFuncPointer(cb))
	assert.True(t, cat.IsFuncPointer(types.NewPointer(cb)))
	assert.False(t, cat.IsFuncPointer(types.Typ[types.Int32]))
}

func TestRenderDecl_BasicType(t *testing.T) {
	cat := New()
	assert.Equal(t, "int32_t a_0", cat.RenderDecl(types.Typ[types.Int32], "a_0"))
	assert.Equal(t, "int32_t", cat.Render(types.Typ[types.Int32]))
}

func TestRenderDecl_FuncPointerSplicesName(t *testing.T) {
	cat := New()
	sig := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewVar(0, nil, "", types.Typ[types.Int32])), nil, false)
	assert.Equal(t, "void (*cb)(int32_t)", cat.RenderDecl(sig, "cb"))
}

func TestRenderDecl_Pointer(t *testing.T) {
	cat := New()
	p := types.NewPointer(types.Typ[types.Int8])
	assert.Equal(t, "int8_t *name", cat.RenderDecl(p, "name"))
}

func TestRenderDecl_VariadicAppendsEllipsis(t *testing.T) {
	cat := New()
	sig := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewVar(0, nil, "", types.NewSlice(types.Typ[types.Int32]))), nil, true)
	assert.Contains(t, cat.Render(sig), ", ...")
}

// TestRenderDecl_NamedFuncTypeUsesTypedefName covers the common callback
// path: a parameter declared via a named Go func type (the typedef-backed
// case gen.cpp's "Sig Name" form targets) renders as its declared name, not
// an expanded "(*arg)(...)" splice.
func TestRenderDecl_NamedFuncTypeUsesTypedefName(t *testing.T) {
	cat := New()
	cb := namedFuncType("CB", types.Typ[types.Int32])
	assert.Equal(t, "CB cb", cat.RenderDecl(cb, "cb"))
	assert.Equal(t, "CB", cat.Render(cb))
}

// TestRenderDecl_InlineSignatureSplicesName covers the bare *types.Signature
// case: a func type written inline with no named typedef behind it expands
// to the full "(*name)(...)" form.
func TestRenderDecl_InlineSignatureSplicesName(t *testing.T) {
	cat := New()
	sig := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewVar(0, nil, "", types.Typ[types.Int32])), nil, false)
	assert.Equal(t, "void (*cb)(int32_t)", cat.RenderDecl(sig, "cb"))
}

func TestRenderDecl_ZeroParamsIsVoid(t *testing.T) {
	cat := New()
	sig := types.NewSignatureType(nil, nil, nil, types.NewTuple(), nil, false)
	assert.Equal(t, "void (*)(void)", cat.Render(sig))
}
