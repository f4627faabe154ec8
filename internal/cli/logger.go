package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/toyz/modgen/internal/errors"
)

// DefaultLogLevel keeps trace logging quiet unless asked for
const DefaultLogLevel = "warn"

// NewLogger builds a console logger at the named level. Rewriter trace
// logs appear at debug.
func NewLogger(level string, w io.Writer) (*zap.Logger, error) {
	if level == "" {
		level = DefaultLogLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "invalid log level '"+level+"'", err).
			WithSuggestion("Use one of debug, info, warn or error")
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encoderConfig.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
