package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fex-emu/thunkgen/emit"
	"github.com/fex-emu/thunkgen/model"
)

func TestLoad_MissingFileYieldsZeroValue(t *testing.T) {
	out, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Overrides{}, out)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thunkgen.toml")
	contents := `
dlopen_mode = "local"
library_name = "libfoo"
guest_out = "guest.inl"

[namespace_host_loaders]
foo = "my_custom_loader"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", out.DLOpenMode)
	assert.Equal(t, "libfoo", out.LibraryName)
	assert.Equal(t, "guest.inl", out.GuestOut)
	assert.Equal(t, "my_custom_loader", out.NamespaceHostLoaders["foo"])
}

func TestApplyNamespaceHostLoaders_OverridesMatchingNamespace(t *testing.T) {
	iface := model.NewInterface()
	iface.AddNamespace(&model.NamespaceDescriptor{Name: "foo"})
	iface.AddAPIExport(&model.ThunkedAPIFunction{
		Name: "a", NamespaceIndex: 0, HasNamespace: true, HostLoader: "dlsym_default",
	})
	iface.AddAPIExport(&model.ThunkedAPIFunction{
		Name: "b", HasNamespace: false, HostLoader: "dlsym_default",
	})

	o := Overrides{NamespaceHostLoaders: map[string]string{"foo": "my_custom_loader"}}
	o.ApplyNamespaceHostLoaders(iface)

	assert.Equal(t, "my_custom_loader", iface.APIExports[0].HostLoader)
	assert.Equal(t, "dlsym_default", iface.APIExports[1].HostLoader)
}

func TestApplyNamespaceHostLoaders_EmptyKeyTargetsGlobalNamespace(t *testing.T) {
	iface := model.NewInterface()
	iface.AddAPIExport(&model.ThunkedAPIFunction{Name: "b", HasNamespace: false, HostLoader: "dlsym_default"})

	o := Overrides{NamespaceHostLoaders: map[string]string{"": "global_loader"}}
	o.ApplyNamespaceHostLoaders(iface)

	assert.Equal(t, "global_loader", iface.APIExports[0].HostLoader)
}

func TestResolvedDLOpenMode(t *testing.T) {
	assert.Equal(t, emit.DLOpenGlobal, Overrides{}.ResolvedDLOpenMode())
	assert.Equal(t, emit.DLOpenLocal, Overrides{LegacyThunks: "thunks.inl"}.ResolvedDLOpenMode())
	assert.Equal(t, emit.DLOpenLocal, Overrides{DLOpenMode: "local"}.ResolvedDLOpenMode())
	assert.Equal(t, emit.DLOpenGlobal, Overrides{DLOpenMode: "global", LegacyThunks: "x"}.ResolvedDLOpenMode())
}
