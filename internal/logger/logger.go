package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide sugared logger. It defaults to a nop logger so
// packages can log safely before Init runs (and in tests that never call it).
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

func Init(profile string) {
	var cfg zap.Config

	if profile == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	Log = l.Sugar()
}

func Sync() {
	if Log == nil {
		return
	}

	_ = Log.Sync()
}
