// Package model is the Interface Model: the in-memory representation of
// namespaces, thunked functions, API exports, and callbacks built by the
// parser and read by the emitter. It holds data only; the append-and-read
// operations below exist solely to preserve insertion order and to dedupe
// the function-pointer type set, not to implement business rules.
package model

import (
	"go/token"
	"go/types"
)

// CallbackStrategy is the tri-valued strategy attached to a thunked
// callback parameter.
type CallbackStrategy int

const (
	// CallbackDefault wraps guest pointers in host trampolines.
	CallbackDefault CallbackStrategy = iota
	// CallbackStub replaces the callback with an aborting stand-in.
	CallbackStub
	// CallbackGuest boxes the callback as a guest function pointer, never
	// invoked on the host.
	CallbackGuest
)

// String renders the strategy name for diagnostics and logging.
func (s CallbackStrategy) String() string {
	switch s {
	case CallbackDefault:
		return "default"
	case CallbackStub:
		return "stub"
	case CallbackGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// Param is one parameter of a function or callback signature.
type Param struct {
	Name string
	Type types.Type
}

// ThunkedCallback describes a function-pointer-typed parameter of a
// ThunkedFunction.
type ThunkedCallback struct {
	ParamIndex int
	Return     types.Type
	Params     []Param
	Strategy   CallbackStrategy
	Variadic   bool
}

// ThunkedFunction is one entry per thunked symbol.
type ThunkedFunction struct {
	// Name is the emitted symbol name: F, or F+"_internal" when variadic.
	Name string
	// OriginalName is F's name before any variadic rewrite.
	OriginalName string

	Return types.Type
	Params []Param

	Variadic       bool
	CustomHostImpl bool
	ReturnsPointer bool

	// UniformVaType is the concrete type appended to Params for variadic
	// functions; nil when Variadic is false.
	UniformVaType types.Type

	// Callback is the function's sole callback parameter, nil if none.
	// The parser enforces at most one per function.
	Callback *ThunkedCallback

	Namespace string
	Pos       token.Position
}

// ThunkedAPIFunction is the subset of information needed to expose a public
// guest entry point matching the native library's signature. Produced
// alongside each non-internal ThunkedFunction, before any variadic rewrite.
type ThunkedAPIFunction struct {
	Name            string
	Return          types.Type
	Params          []Param
	Variadic        bool
	CustomGuestImpl bool
	HostLoader      string

	// NamespaceIndex indexes Interface.Namespaces; HasNamespace is false for
	// API exports whose namespace carries no symtable (spec.md §4.F.5).
	NamespaceIndex int
	HasNamespace   bool
}

// NamespaceDescriptor is per-namespace configuration. Name is empty for the
// global namespace.
type NamespaceDescriptor struct {
	Name                  string
	HostLoader            string
	GenerateGuestSymtable bool
	IndirectGuestCalls    bool
	Version               *uint64

	// Members lists, in insertion order, the names of API exports belonging
	// to this namespace — used to build FOREACH_<NS>_SYMBOL.
	Members []string
}

// FuncPointerType is one member of the function-pointer type set: a
// canonical signature for which guest code must be able to invoke host
// function pointers.
type FuncPointerType struct {
	Key       string
	Signature types.Type
}

// Interface is the single source of truth between parse and emit. It holds
// five collections: namespaces, thunked functions, API exports, the
// function-pointer type set, and the optional library version.
type Interface struct {
	Namespaces   []*NamespaceDescriptor
	Functions    []*ThunkedFunction
	APIExports   []*ThunkedAPIFunction
	FuncPtrTypes []*FuncPointerType
	LibVersion   *uint64

	namespaceIdx map[string]int
	funcPtrIdx   map[string]int
}

// NewInterface returns an empty Interface ready for population.
func NewInterface() *Interface {
	return &Interface{
		namespaceIdx: make(map[string]int),
		funcPtrIdx:   make(map[string]int),
	}
}

// AddNamespace appends a namespace descriptor. The caller (the parser) is
// responsible for enforcing the at-most-one-per-name invariant; AddNamespace
// reports whether name was already present instead of silently overwriting.
func (i *Interface) AddNamespace(nd *NamespaceDescriptor) (existing *NamespaceDescriptor, isNew bool) {
	if idx, ok := i.namespaceIdx[nd.Name]; ok {
		return i.Namespaces[idx], false
	}
	i.namespaceIdx[nd.Name] = len(i.Namespaces)
	i.Namespaces = append(i.Namespaces, nd)
	return nd, true
}

// Namespace looks up a namespace descriptor by name.
func (i *Interface) Namespace(name string) (*NamespaceDescriptor, bool) {
	idx, ok := i.namespaceIdx[name]
	if !ok {
		return nil, false
	}
	return i.Namespaces[idx], true
}

// AddFunction appends a thunked function.
func (i *Interface) AddFunction(f *ThunkedFunction) {
	i.Functions = append(i.Functions, f)
}

// AddAPIExport appends an API export and, when it belongs to a namespace,
// records its name on that namespace's Members list for FOREACH_*_SYMBOL.
func (i *Interface) AddAPIExport(a *ThunkedAPIFunction) {
	i.APIExports = append(i.APIExports, a)
	if a.HasNamespace && a.NamespaceIndex >= 0 && a.NamespaceIndex < len(i.Namespaces) {
		ns := i.Namespaces[a.NamespaceIndex]
		ns.Members = append(ns.Members, a.Name)
	}
}

// AddFuncPointerType inserts a canonical signature into the function-pointer
// type set if not already present, returning its insertion index either
// way. key must already be the caller's canonicalized form (see
// typecat.Catalogue.Canonicalize).
func (i *Interface) AddFuncPointerType(key string, sig types.Type) int {
	if idx, ok := i.funcPtrIdx[key]; ok {
		return idx
	}
	idx := len(i.FuncPtrTypes)
	i.funcPtrIdx[key] = idx
	i.FuncPtrTypes = append(i.FuncPtrTypes, &FuncPointerType{Key: key, Signature: sig})
	return idx
}
