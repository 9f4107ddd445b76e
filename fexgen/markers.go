// Package fexgen defines the marker vocabulary that a thunk-library
// interface description is written against.
//
// A namespace (a Go package under the scanned root; the package literally
// named "global" denotes the global namespace) declares its configuration
// with a single package-level var:
//
//	var FexGenConfig = fexgen.Namespace{
//	    GenerateGuestSymtable: true,
//	}
//
// Each thunked function F — a bodiless declaration such as
//
//	func Open(path *Char, flags int32) int32
//
// — may carry a matching per-function configuration:
//
//	var FexGenConfig_Open = fexgen.Function{
//	    CustomHostImpl: true,
//	}
//
// A variadic function additionally declares the concrete type of its
// variadic argument slots as a type alias named after the function:
//
//	type FexGenUniformVaType_Printf = int32
//
// Callback and function-pointer signatures that must be reachable from
// guest code without an explicit thunked function are registered with a
// package-level var of function type, never assigned a value:
//
//	var FexGenType_OnExit func(code int32)
package fexgen

// Namespace carries per-namespace configuration, the Go-native counterpart
// of a fex_gen_config primary-template specialization.
type Namespace struct {
	// GenerateGuestSymtable requests a `<namespace>_symtable[]` array and a
	// FOREACH_<NS>_SYMBOL macro in the guest output.
	GenerateGuestSymtable bool

	// IndirectGuestCalls adds every thunked function's own signature to the
	// function-pointer type set, so guest code can invoke it indirectly.
	IndirectGuestCalls bool

	// LoadHostEndpointVia names the host loader symbol used to resolve this
	// namespace's exports. Empty means the default loader, "dlsym_default".
	LoadHostEndpointVia string

	// Version is the library version suffix used at dlopen time. Only legal
	// on the global namespace; nil means unversioned.
	Version *uint64
}

// Versioned returns a pointer to v, for use as Namespace.Version in a
// composite literal.
func Versioned(v uint64) *uint64 {
	return &v
}

// Function carries per-function configuration, the Go-native counterpart of
// an explicit fex_gen_config<F> specialization.
type Function struct {
	// ReturnsGuestPointer is required when F returns a function-pointer type.
	ReturnsGuestPointer bool

	// CustomHostImpl routes the host-side dispatcher to a user-supplied
	// fexfn_impl_<libname>_<function> instead of the dynamically loaded
	// native symbol.
	CustomHostImpl bool

	// CallbackStub marks F's sole callback parameter as an aborting stand-in
	// rather than a live trampoline.
	CallbackStub bool

	// CallbackGuest marks F's sole callback parameter as a guest function
	// pointer, boxed and never invoked on the host. Requires CustomHostImpl.
	CallbackGuest bool

	// CustomGuestEntrypoint routes the guest-side public export to a
	// user-supplied implementation instead of the generated pack function.
	CustomGuestEntrypoint bool
}
