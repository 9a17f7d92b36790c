/* pkg/logger/config.go */

package logger

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StatusEncoderConfig is the line format of the severity files and the
// stderr echo: time, severity, provenance, message.
func StatusEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.StacktraceKey = ""
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = SeverityLevelEncoder
	cfg.EncodeCaller = ProvenanceCallerEncoder
	return cfg
}

// DefaultConsoleEncoderConfig is used by the diagnostic and CLI loggers.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// ProvenanceCallerEncoder prints the caller the entry was created with
// (file basename and line) rather than a path trimmed relative to GOPATH.
func ProvenanceCallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	if !caller.Defined {
		enc.AppendString("-")
		return
	}
	enc.AppendString(filepath.Base(caller.File) + ":" + strconv.Itoa(caller.Line))
}

// ParseLogLevel maps LOG_LEVEL style names onto zap levels.
func ParseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	case "DPANIC":
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}
