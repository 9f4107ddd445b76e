package parser

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/fex-emu/thunkgen/errors"
)

// Diagnostic is one reported interface error (spec.md §7.1), carrying a
// precise source location the way the original's Clang-frontend diagnostics
// engine does.
type Diagnostic struct {
	Pos     token.Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// Diagnostics collects interface/structural errors encountered while
// walking a translation unit. Parsing continues accumulating diagnostics
// within the current pass so a single run reports as many problems as
// possible, but the Interface Model it produces is never handed to the
// emitter once any diagnostic has been recorded (spec.md §7: "fatal to the
// run but do not abort the process before diagnostics have flushed").
type Diagnostics struct {
	entries []Diagnostic
}

// Errorf records a diagnostic at pos.
func (d *Diagnostics) Errorf(pos token.Position, format string, args ...interface{}) {
	d.entries = append(d.entries, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.entries) > 0
}

// Entries returns the recorded diagnostics in the order they were reported.
func (d *Diagnostics) Entries() []Diagnostic {
	return d.entries
}

// Err returns the accumulated diagnostics as a single wrapped error, or nil
// if none were recorded. The message lists the count and every diagnostic,
// and the error wraps ErrInvalidAnnotation so `errors.Is` callers see it.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	lines := make([]string, len(d.entries))
	for i, e := range d.entries {
		lines[i] = e.String()
	}
	return errors.NewInvalidAnnotationError("%d interface error(s):\n%s", len(d.entries), strings.Join(lines, "\n"))
}
