package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapAdapter adapts a zap SugaredLogger to our Logger interface
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZap creates a console zap logger, teed into a rotated JSON file when
// opts.File is set.
func NewZap(opts Options) (Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil || opts.Level == "" {
		level.SetLevel(zap.InfoLevel)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		// lumberjack handles rotation and serialises writes
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		})
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), fileWriter, level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	return &ZapAdapter{sugar: l.Sugar()}, nil
}

// NewZapFrom wraps an existing zap logger
func NewZapFrom(l *zap.Logger) Logger {
	return &ZapAdapter{sugar: l.Sugar()}
}

func (l *ZapAdapter) Info(msg string, keyvals ...interface{}) {
	l.sugar.Infow(msg, keyvals...)
}

func (l *ZapAdapter) Error(msg string, keyvals ...interface{}) {
	l.sugar.Errorw(msg, keyvals...)
}

func (l *ZapAdapter) Debug(msg string, keyvals ...interface{}) {
	l.sugar.Debugw(msg, keyvals...)
}

func (l *ZapAdapter) Warn(msg string, keyvals ...interface{}) {
	l.sugar.Warnw(msg, keyvals...)
}

// Sync flushes buffered entries
func (l *ZapAdapter) Sync() error {
	return l.sugar.Sync()
}
