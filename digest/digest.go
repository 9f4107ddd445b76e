// Package digest is the Name & Digest Service (spec.md §4.E): it produces
// the per-symbol SHA-256 digests used as cross-architecture wire
// identifiers and the derived C identifiers (prefixes, callback names,
// struct names).
//
// Grounded on gen.cpp's get_sha256/get_callback_name: the exact input
// strings hashed here ("L:F" for functions, "fexcallback_"+signature for
// callbacks) must match byte-for-byte what an independent host or guest
// compilation derives, so correctness depends on typecat.Catalogue.Render
// producing identical text for identical canonical types on both sides.
package digest

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Digest is a 32-byte SHA-256 digest, the cross-architecture identifier for
// one thunk or callback.
type Digest [sha256.Size]byte

// Function computes the digest for thunked function name in library lib:
// SHA-256("lib:name"). lib is the raw configured library filename, not the
// sanitised (C-identifier-safe) form — see SanitizeLibName for that.
func Function(lib, name string) Digest {
	return sha256.Sum256([]byte(lib + ":" + name))
}

// Callback computes the digest for a callback/function-pointer signature
// whose canonical C rendering is sig: SHA-256("fexcallback_"+sig).
func Callback(sig string) Digest {
	return sha256.Sum256([]byte("fexcallback_" + sig))
}

// CBytes renders d as a comma-separated list of "0xHH" byte literals, the
// form spliced into MAKE_THUNK/MAKE_CALLBACK_THUNK invocations in the guest
// file.
func (d Digest) CBytes() string {
	parts := make([]string, len(d))
	for i, b := range d {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}
	return strings.Join(parts, ", ")
}

// CString renders d as the host file's export-table lookup key: a C string
// literal containing the raw digest bytes, escaped for embedding in source.
func (d Digest) CString() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range d {
		fmt.Fprintf(&b, "\\x%02x", c)
	}
	b.WriteByte('"')
	return b.String()
}

// SanitizeLibName replaces every '-' with '_', producing the C-identifier
// prefix used on every symbol emitted for this library (spec.md §4.E).
func SanitizeLibName(lib string) string {
	return strings.ReplaceAll(lib, "-", "_")
}

// CallbackName derives the stub/unpack identifier suffix for the callback
// at paramIndex of function, matching gen.cpp's get_callback_name: always
// "<function>CBFN<index>", including index 0 (spec.md testable property #3
// gives `setcbCBFN0_stub` as the literal expected name).
func CallbackName(function string, paramIndex int) string {
	return fmt.Sprintf("%sCBFN%d", function, paramIndex)
}
