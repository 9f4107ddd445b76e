package logger

import "go.uber.org/zap"

// Phase-aware logging helpers.
// These functions log with the generator phase as a structured field, not in
// the message, so logs stay queryable by phase.
//
// Usage:
//
//	logger.ParseInfow("walked namespace", "dir", dir)
//	logger.EmitInfow("wrote guest thunks", "path", path)

const (
	// PhaseParse tags log entries from the annotation reader / parser.
	PhaseParse = "parse"
	// PhaseDigest tags log entries from the name and digest service.
	PhaseDigest = "digest"
	// PhaseEmit tags log entries from the code emitter.
	PhaseEmit = "emit"
)

// ParseInfow logs an info message tagged with the parse phase.
func ParseInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldPhase, PhaseParse}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// ParseDebugw logs a debug message tagged with the parse phase.
func ParseDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldPhase, PhaseParse}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// DigestDebugw logs a debug message tagged with the digest phase.
func DigestDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldPhase, PhaseDigest}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// EmitInfow logs an info message tagged with the emit phase.
func EmitInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldPhase, PhaseEmit}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// EmitDebugw logs a debug message tagged with the emit phase.
func EmitDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldPhase, PhaseEmit}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// WithPhase returns a logger with the given phase as a field.
func WithPhase(phase string) *zap.SugaredLogger {
	return Logger.With(FieldPhase, phase)
}
