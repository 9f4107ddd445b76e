package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: results, errors with hints, final status
//	1 (-v)      - + Progress, startup info, per-namespace status, operation summaries
//	2 (-vv)     - + Annotation resolution, timing, config loaded, type resolution
//	3 (-vvv)    - + AST walk steps, digest computation, emission decisions
//	4 (-vvvv)   - + Emitted source fragments, full digest table, data structure dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Generated file paths, summary counts
	OutputErrors                           // Errors with hints and resolution steps
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress        // Progress indicators (e.g., "processing namespace 3/7")
	OutputStartup         // Startup banners, config summary
	OutputNamespaceStatus // Namespace discovered/skipped status
	OutputOperationInfo   // High-level operation summaries

	// Level 2 (-vv) - Detailed
	OutputAnnotations    // fex_gen_config / fex_gen_type resolution details
	OutputTiming         // Operation timing (e.g., "parse took 42ms")
	OutputConfig         // Config values loaded/applied
	OutputTypeResolution // Type catalogue alias resolution

	// Level 3 (-vvv) - Debug
	OutputASTWalk         // go/ast walk steps (declaration visited)
	OutputDigestComputed  // SHA-256 digest computation per function/callback
	OutputEmitDecision    // Per-function emission strategy decisions (callback strategy, variadic rewrite)
	OutputInternalOp      // Internal operation flow (function entry/exit)

	// Level 4 (-vvvv) - Full dump
	OutputEmittedSource // Emitted source fragments
	OutputDigestTable   // Full digest -> symbol table dump
	OutputDataDump      // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	// Level 0 - Always shown
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	// Level 1 - Informational
	OutputProgress:        VerbosityInfo,
	OutputStartup:         VerbosityInfo,
	OutputNamespaceStatus: VerbosityInfo,
	OutputOperationInfo:   VerbosityInfo,

	// Level 2 - Detailed
	OutputAnnotations:    VerbosityDebug,
	OutputTiming:         VerbosityDebug,
	OutputConfig:         VerbosityDebug,
	OutputTypeResolution: VerbosityDebug,

	// Level 3 - Debug
	OutputASTWalk:        VerbosityTrace,
	OutputDigestComputed: VerbosityTrace,
	OutputEmitDecision:   VerbosityTrace,
	OutputInternalOp:     VerbosityTrace,

	// Level 4 - Full dump
	OutputEmittedSource: VerbosityAll,
	OutputDigestTable:   VerbosityAll,
	OutputDataDump:      VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:         "results",
	OutputErrors:          "errors",
	OutputUserStatus:      "status",
	OutputProgress:        "progress",
	OutputStartup:         "startup",
	OutputNamespaceStatus: "namespace-status",
	OutputOperationInfo:   "operation-info",
	OutputAnnotations:     "annotations",
	OutputTiming:          "timing",
	OutputConfig:          "config",
	OutputTypeResolution:  "type-resolution",
	OutputASTWalk:         "ast-walk",
	OutputDigestComputed:  "digest-computed",
	OutputEmitDecision:    "emit-decision",
	OutputInternalOp:      "internal",
	OutputEmittedSource:   "emitted-source",
	OutputDigestTable:     "digest-table",
	OutputDataDump:        "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns all output categories enabled at the given verbosity
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat, minLevel := range categoryLevels {
		if verbosity >= minLevel {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and status"
	case VerbosityDebug:
		return "above + annotation resolution, timing, config details"
	case VerbosityTrace:
		return "above + AST walk steps, digest computation, emit decisions"
	case VerbosityAll:
		return "above + emitted source fragments, full digest table, data dumps"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
