package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfg = zap.Config{
	Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
	Development: false,
	Encoding:    "console",
	EncoderConfig: zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	},
	OutputPaths:      []string{"stdout"},
	ErrorOutputPaths: []string{"stdout"},
}

var (
	mu     sync.Mutex
	levels = make(map[string]zap.AtomicLevel)
)

// SetLevel adjusts the level of the named logger at runtime.
func SetLevel(name string, level zapcore.Level) {
	levelFor(name).SetLevel(level)
}

func levelFor(name string) zap.AtomicLevel {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := levels[name]; !ok {
		levels[name] = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return levels[name]
}

// New builds a named console logger with an independently adjustable
// level.
func New(name string) *zap.SugaredLogger {
	c := cfg
	c.Level = levelFor(name)
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}
