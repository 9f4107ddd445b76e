package digest

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFunction_Minimal covers spec.md §8 scenario 1's stated digest:
// SHA-256("L:foo").
func TestFunction_Minimal(t *testing.T) {
	got := Function("L", "foo")
	want := sha256.Sum256([]byte("L:foo"))
	assert.Equal(t, Digest(want), got)
}

func TestCallback_PrefixesSignature(t *testing.T) {
	got := Callback("void (*)(int32_t)")
	want := sha256.Sum256([]byte("fexcallback_void (*)(int32_t)"))
	assert.Equal(t, Digest(want), got)
}

func TestCBytes_FormatsAsHexLiterals(t *testing.T) {
	d := Function("L", "foo")
	s := d.CBytes()
	assert.Contains(t, s, "0x")
	assert.NotContains(t, s, "\\x")
}

func TestCString_FormatsAsEscapedString(t *testing.T) {
	d := Function("L", "foo")
	s := d.CString()
	assert.Equal(t, byte('"'), s[0])
	assert.Contains(t, s, "\\x")
}

func TestSanitizeLibName(t *testing.T) {
	assert.Equal(t, "lib_foo_bar", SanitizeLibName("lib-foo-bar"))
	assert.Equal(t, "libfoo", SanitizeLibName("libfoo"))
}

// TestCallbackName covers spec.md §8 scenario 3's literal expected name,
// including index 0.
func TestCallbackName(t *testing.T) {
	assert.Equal(t, "setcbCBFN0", CallbackName("setcb", 0))
	assert.Equal(t, "setcbCBFN1", CallbackName("setcb", 1))
}
