// Package zap builds the diagnostic logger. Logs go to stderr so stdout
// stays the conversation surface.
package zap

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Configuration keys read by NewLogger.
const (
	KeyLevel  = "log.level"
	KeyFormat = "log.format"
)

// NewLogger creates a configured zap logger from viper settings.
// Reads "log.level" (debug, info, warn, error; default "warn") and
// "log.format" (json, console; default "console").
func NewLogger(v *viper.Viper) (*zap.Logger, error) {
	level := v.GetString(KeyLevel)
	if level == "" {
		level = "warn"
	}
	format := v.GetString(KeyFormat)

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
