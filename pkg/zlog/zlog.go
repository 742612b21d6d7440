package zlog

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Init sets up the global logger. With an empty logPath only the console sink is used.
func Init(logPath string) {
	once.Do(func() {
		logger = build(logPath)
	})
}

func build(logPath string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel),
	}
	if logPath != "" {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(logPath, "server.log"),
			MaxSize:    64, // MB
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), zapcore.InfoLevel))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCallerSkip(1), zap.AddCaller())
}

func get() *zap.Logger {
	if logger == nil {
		Init("")
	}
	return logger
}

func Debug(msg string) { get().Debug(msg) }

func Info(msg string) { get().Info(msg) }

func Warn(msg string) { get().Warn(msg) }

func Error(msg string) { get().Error(msg) }

func Fatal(msg string) { get().Fatal(msg) }

// Sync flushes buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
