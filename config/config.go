// Package config loads thunkgen.toml, the per-run overrides file: dlopen
// mode, output selection, and per-namespace host-loader overrides that the
// interface description itself does not carry.
//
// Grounded on ats/attrs/attrs.go's map[string]any-to-struct bridge (reused
// unchanged here: BurntSushi/toml decodes into the schemaless bag attrs.Scan
// already knows how to populate) and viper's config-file discovery
// conventions for locating thunkgen.toml relative to the working directory.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/fex-emu/thunkgen/ats/attrs"
	"github.com/fex-emu/thunkgen/emit"
	"github.com/fex-emu/thunkgen/errors"
	"github.com/fex-emu/thunkgen/model"
)

// Overrides is the full set of per-run knobs thunkgen.toml may set. Every
// field is optional; zero values fall back to the Driver's defaults.
type Overrides struct {
	// DLOpenMode selects Open Question (i)'s resolution: "global" (the
	// unified two-file generator's default) or "local" (the legacy
	// multi-file variant's default, applied automatically when any
	// Legacy* output path below is non-empty and DLOpenMode itself was
	// left unset).
	DLOpenMode string `attr:"dlopen_mode,omitempty"`

	LibraryName string `attr:"library_name,omitempty"`
	GuestOut    string `attr:"guest_out,omitempty"`
	HostOut     string `attr:"host_out,omitempty"`

	LegacyThunks              string `attr:"legacy_thunks,omitempty"`
	LegacyFunctionPacks       string `attr:"legacy_function_packs,omitempty"`
	LegacyFunctionPacksPublic string `attr:"legacy_function_packs_public,omitempty"`
	LegacyFunctionUnpacks     string `attr:"legacy_function_unpacks,omitempty"`
	LegacyTabFunctionUnpacks  string `attr:"legacy_tab_function_unpacks,omitempty"`
	LegacyLdr                 string `attr:"legacy_ldr,omitempty"`
	LegacyLdrPtrs             string `attr:"legacy_ldr_ptrs,omitempty"`
	LegacySymbolList          string `attr:"legacy_symbol_list,omitempty"`

	// NamespaceHostLoaders overrides a namespace's configured host loader
	// symbol by name; "" (the global namespace) is a valid key.
	NamespaceHostLoaders map[string]string `attr:"-"`
}

// HasLegacyOutputs reports whether any legacy auxiliary output was
// configured, the signal used to pick RTLD_LOCAL by default (spec.md §9
// Open Question (i)) when DLOpenMode itself was not set explicitly.
func (o Overrides) HasLegacyOutputs() bool {
	return o.LegacyThunks != "" || o.LegacyFunctionPacks != "" || o.LegacyFunctionPacksPublic != "" ||
		o.LegacyFunctionUnpacks != "" || o.LegacyTabFunctionUnpacks != "" || o.LegacyLdr != "" ||
		o.LegacyLdrPtrs != "" || o.LegacySymbolList != ""
}

// ResolvedDLOpenMode applies the default described in HasLegacyOutputs when
// DLOpenMode was left unset in the file.
func (o Overrides) ResolvedDLOpenMode() emit.DLOpenMode {
	switch o.DLOpenMode {
	case "local":
		return emit.DLOpenLocal
	case "global":
		return emit.DLOpenGlobal
	}
	if o.HasLegacyOutputs() {
		return emit.DLOpenLocal
	}
	return emit.DLOpenGlobal
}

// ApplyNamespaceHostLoaders overrides each API export's HostLoader with the
// entry from NamespaceHostLoaders keyed by its owning namespace's name ("" for
// the global namespace), leaving the parser-derived default untouched where
// no override was configured for that namespace.
func (o Overrides) ApplyNamespaceHostLoaders(iface *model.Interface) {
	if len(o.NamespaceHostLoaders) == 0 {
		return
	}
	for _, api := range iface.APIExports {
		name := ""
		if api.HasNamespace {
			name = iface.Namespaces[api.NamespaceIndex].Name
		}
		if loader, ok := o.NamespaceHostLoaders[name]; ok {
			api.HostLoader = loader
		}
	}
}

// Load reads path (a TOML file) into Overrides. A missing file is not an
// error: it yields the zero-value Overrides, matching every field's
// documented fallback.
func Load(path string) (Overrides, error) {
	var out Overrides
	if path == "" {
		return out, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return out, nil
	}

	raw := make(map[string]any)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return out, errors.Wrap(err, "decoding "+path)
	}
	attrs.Scan(raw, &out)

	if nsTable, ok := raw["namespace_host_loaders"].(map[string]any); ok {
		out.NamespaceHostLoaders = make(map[string]string, len(nsTable))
		for k, v := range nsTable {
			if s, ok := v.(string); ok {
				out.NamespaceHostLoaders[k] = s
			}
		}
	}

	return out, nil
}

// LoadWithViper behaves like Load but additionally honors environment
// variable overrides prefixed THUNKGEN_ (e.g. THUNKGEN_DLOPEN_MODE), the
// convention the rest of the ambient stack uses for runtime configuration.
func LoadWithViper(path string) (Overrides, error) {
	out, err := Load(path)
	if err != nil {
		return out, err
	}

	v := viper.New()
	v.SetEnvPrefix("THUNKGEN")
	v.AutomaticEnv()
	if v.IsSet("dlopen_mode") {
		out.DLOpenMode = v.GetString("dlopen_mode")
	}
	if v.IsSet("library_name") {
		out.LibraryName = v.GetString("library_name")
	}
	return out, nil
}
