/* pkg/logger/fallback.go */

package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDiagnosticLogger returns a console logger bound to w (stderr when nil).
// It carries the messages that must reach an operator even when every file
// destination is broken: forward failures, bridge init failures.
func NewDiagnosticLogger(w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("diagnostic")
}

// NewConsoleLogger is the process logger used by the CLI, writing to w
// (stderr when nil). colour selects ANSI level names.
func NewConsoleLogger(w io.Writer, level string, colour bool) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	encCfg := DefaultConsoleEncoderConfig()
	if colour {
		encCfg.EncodeLevel = ColouredLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		ParseLogLevel(level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
