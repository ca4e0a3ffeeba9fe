package commands

import (
	"fmt"
	"strings"

	"github.com/alan/branch-cleaner/cmd"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

var logEncodings = map[cmd.LogFormat]string{
	cmd.LogFormatConsole: "console",
	cmd.LogFormatJSON:    "json",
}

// NewLogger builds a zap logger writing to stderr at level in format
func NewLogger(level, format string) (*zap.Logger, error) {
	zapLevel, ok := logLevels[strings.ToLower(level)]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.Encoding = logEncodings[cmd.ParseLogFormat(format)]
	config.OutputPaths = []string{"stderr"}
	if config.Encoding == "console" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
