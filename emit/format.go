// Package emit is the Code Emitter (spec.md §4.F): it writes the guest
// file, the host file, and the legacy auxiliary files from a populated
// Interface Model.
//
// Grounded on gen.cpp's EndSourceFileAction, which performs the equivalent
// walk over the same five collections and writes the same macro
// invocations, struct layouts, and dispatcher bodies; here the walk is over
// *model.Interface instead of a Clang ASTContext, and values come from
// typecat.Catalogue.Render instead of a Clang PrintingPolicy.
package emit

import (
	"bufio"
	"fmt"
	"go/types"
	"io"

	"github.com/fex-emu/thunkgen/typecat"
)

// writer is a thin wrapper over bufio.Writer that tracks the first error
// encountered so call sites don't need to check every Printf, matching the
// sequential "open once, write once, fail fast" resource model of spec.md §5.
type writer struct {
	bw  *bufio.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{bw: bufio.NewWriter(w)}
}

func (w *writer) Printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.bw, format, args...)
}

func (w *writer) Line(s string) {
	w.Printf("%s\n", s)
}

func (w *writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.bw.Flush()
}

// argName returns the "a_<i>" member name the guest and host pack structs
// agree on, regardless of the original parameter's declared name.
func argName(i int) string {
	return fmt.Sprintf("a_%d", i)
}

// isVoid reports whether t is the placeholder the parser uses for a
// function with no return value (types.Typ[types.Invalid]).
func isVoid(t types.Type) bool {
	return t == nil || t == types.Typ[types.Invalid]
}

// renderReturn renders a declaration of declarator with return type ret,
// special-casing void since typecat.Catalogue has no basic-kind spelling
// for types.Invalid.
func renderReturn(cat *typecat.Catalogue, ret types.Type, declarator string) string {
	if isVoid(ret) {
		return "void " + declarator
	}
	return cat.RenderDecl(ret, declarator)
}
