package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op logger until Init is called so
// packages can log from tests without any setup.
var Log = zap.NewNop()

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init builds the development logger used by the engine and examples
func Init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		// NewExample cannot fail
		l = zap.NewExample()
	}
	Log = l
}

// SetLevel changes the minimum enabled level. Unknown names keep the current level.
func SetLevel(name string) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		Log.Warn("Unknown log level", zap.String("level", name))
		return
	}
	level.SetLevel(lvl)
}

// Sync flushes buffered entries, call before exit
func Sync() {
	_ = Log.Sync()
}
