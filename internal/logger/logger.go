package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at debug level when debug is set, a JSON
// logger at info level otherwise.
func New(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	return build(cfg)
}

// build never returns nil; a config that cannot be built yields a no-op
// logger.
func build(cfg zap.Config) *zap.Logger {
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
