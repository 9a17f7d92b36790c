// pkg/logger/colour.go

package logger

import (
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	zapcore "go.uber.org/zap/zapcore"
)

// SeverityLevel maps a status severity onto a zap level. FATAL rides on
// DPanic so that a production logger records it without exiting.
func SeverityLevel(sev entry.Severity) zapcore.Level {
	switch sev.Clamp() {
	case entry.SeverityWarning:
		return zapcore.WarnLevel
	case entry.SeverityError:
		return zapcore.ErrorLevel
	case entry.SeverityFatal:
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelSeverity is the inverse of SeverityLevel.
func LevelSeverity(level zapcore.Level) entry.Severity {
	switch {
	case level >= zapcore.DPanicLevel:
		return entry.SeverityFatal
	case level >= zapcore.ErrorLevel:
		return entry.SeverityError
	case level >= zapcore.WarnLevel:
		return entry.SeverityWarning
	default:
		return entry.SeverityInfo
	}
}

// SeverityLevelEncoder writes INFO/WARNING/ERROR/FATAL instead of zap's names.
func SeverityLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(LevelSeverity(level).String())
}

// ColouredLevel is SeverityLevelEncoder with ANSI colour for terminals.
func ColouredLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch LevelSeverity(level) {
	case entry.SeverityInfo:
		enc.AppendString("\033[32mINFO\033[0m") // Green
	case entry.SeverityWarning:
		enc.AppendString("\033[33mWARNING\033[0m") // Yellow
	case entry.SeverityError:
		enc.AppendString("\033[31mERROR\033[0m") // Red
	default:
		enc.AppendString("\033[1;31mFATAL\033[0m") // Bold Red
	}
}
