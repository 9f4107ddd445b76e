// Package typecat is the Type Catalogue (spec.md §4.A): it canonicalizes
// function-pointer types so that distinct Go named types with identical
// underlying signatures collapse to one callback identity, and it renders
// any type to the C source text the emitter writes.
//
// Grounded on typegen/util/types.go's ConvertGoType (the teacher's
// recursive go/ast-expression-to-target-language-string converter), adapted
// so pointer markers survive rendering (the emission target here is C, not
// TypeScript or Rust) and so function-pointer identity is structural rather
// than nominal, per spec.md §9.
package typecat

import (
	"fmt"
	"go/types"
	"strings"
)

// cBasic maps Go's predeclared basic kinds to their C spelling. A defined Go
// type (`type Char int8`, `type SizeT uint64`, etc.) is rendered using its
// declared identifier instead — see RenderDecl's *types.Named case.
var cBasic = map[types.BasicKind]string{
	types.Bool:       "bool",
	types.Int8:       "int8_t",
	types.Int16:      "int16_t",
	types.Int32:      "int32_t",
	types.Int64:      "int64_t",
	types.Int:        "long",
	types.Uint8:      "uint8_t",
	types.Uint16:     "uint16_t",
	types.Uint32:     "uint32_t",
	types.Uint64:     "uint64_t",
	types.Uint:       "unsigned long",
	types.Uintptr:    "uintptr_t",
	types.Float32:    "float",
	types.Float64:    "double",
	types.String:     "const char *",
	types.UnsafePointer: "void *",
}

// Catalogue canonicalizes and renders types encountered while walking an
// interface-description package. It is stateless beyond memoizing nothing —
// every operation is a pure function of the go/types.Type argument — kept as
// a type (rather than package-level funcs) so callers can be grounded in the
// same "Catalogue" vocabulary spec.md §4.A uses.
type Catalogue struct{}

// New returns a ready-to-use Catalogue.
func New() *Catalogue {
	return &Catalogue{}
}

// IsFuncPointer reports whether t denotes a function-pointer-shaped type:
// either a bare *types.Signature (a Go func value used as a parameter type)
// or a *types.Pointer/*types.Named whose underlying type is a *types.Signature.
func (c *Catalogue) IsFuncPointer(t types.Type) bool {
	_, ok := c.Underlying(t).(*types.Signature)
	return ok
}

// Underlying strips one layer of pointer indirection (C function pointers
// are modeled as bare Go func types, but a *types.Pointer to a named func
// type is also accepted) and returns the structural type beneath any
// named-type sugar.
func (c *Catalogue) Underlying(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	return t.Underlying()
}

// Canonicalize yields a unique key for t, ignoring typedef/alias sugar but
// preserving signature identity: two named Go func types with identical
// parameter and result types produce the same key, exactly as two C
// typedef chains resolving to the same function-pointer signature must
// collapse to one callback digest (spec.md §9).
//
// For non-function-pointer types, Canonicalize falls back to t.String(),
// which is sufficient because those types never enter the function-pointer
// type set and are compared only for equality, not canonical identity.
func (c *Catalogue) Canonicalize(t types.Type) string {
	if sig, ok := c.Underlying(t).(*types.Signature); ok {
		return c.renderSignature(sig, "")
	}
	return t.String()
}

// Render yields the textual C form of t used in emitted declarations and
// struct members (spec.md §4.A).
func (c *Catalogue) Render(t types.Type) string {
	return c.RenderDecl(t, "")
}

// RenderDecl yields the textual C form of a declaration of name with type t.
// For function-pointer types the emitter splices name after the "(*" group
// of the rendered signature; if the type hides its pointer nature behind an
// opaque named type (no "(*)" group is produced), RenderDecl falls back to
// the "Sig Name" form, matching spec.md §4.A exactly.
func (c *Catalogue) RenderDecl(t types.Type, name string) string {
	switch u := t.(type) {
	case *types.Basic:
		return spliceName(cSpellingForBasic(u), name)
	case *types.Pointer:
		if sig, ok := u.Elem().Underlying().(*types.Signature); ok {
			return c.renderSignature(sig, name)
		}
		inner := c.Render(u.Elem())
		return spliceName(inner+" *", name)
	case *types.Named:
		// A named Go func type models a C callback typedef: the declared
		// typedef name is the idiomatic spelling (gen.cpp's "Sig Name" form),
		// not an expanded "(*name)(...)" splice, which is reserved for a
		// *types.Signature written inline with no named typedef behind it.
		return spliceName(u.Obj().Name(), name)
	case *types.Signature:
		return c.renderSignature(u, name)
	case *types.Slice:
		return spliceName(c.Render(u.Elem())+" *", name)
	case *types.Array:
		decl := spliceName(c.Render(u.Elem()), name)
		return fmt.Sprintf("%s[%d]", decl, u.Len())
	default:
		return spliceName(t.String(), name)
	}
}

// renderSignature produces the "(*name)(params)" form for a function
// signature, or "Sig" with no splice point when name is empty.
func (c *Catalogue) renderSignature(sig *types.Signature, name string) string {
	ret := "void"
	if sig.Results().Len() == 1 {
		ret = c.Render(sig.Results().At(0).Type())
	} else if sig.Results().Len() > 1 {
		ret = "void /* multi-return unsupported */"
	}

	params := make([]string, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		params = append(params, c.Render(sig.Params().At(i).Type()))
	}
	if sig.Variadic() && len(params) > 0 {
		params[len(params)-1] = params[len(params)-1] + ", ..."
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = strings.Join(params, ", ")
	}

	if name == "" {
		return fmt.Sprintf("%s (*)(%s)", ret, paramList)
	}
	return fmt.Sprintf("%s (*%s)(%s)", ret, name, paramList)
}

// cSpellingForBasic renders a *types.Basic to its C spelling.
func cSpellingForBasic(b *types.Basic) string {
	if s, ok := cBasic[b.Kind()]; ok {
		return s
	}
	return b.Name()
}

// spliceName appends a declarator name to a rendered type, matching the
// "Sig Name" fallback of spec.md §4.A. Pointer/array spellings that already
// end in "*" get the name appended without an extra space collision.
func spliceName(rendered, name string) string {
	if name == "" {
		return rendered
	}
	if strings.HasSuffix(rendered, "*") {
		return rendered + name
	}
	return rendered + " " + name
}
