package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file names.
const (
	SystemLog = "system.log"
	AccessLog = "http-access.log"
)

type Options struct {
	Dir     string // default "log"
	Level   string // debug|info|warn|error, default info
	Console bool   // tee to stdout
}

// New builds a JSON logger writing to <Dir>/<name> through lumberjack. The
// file is created on first write.
func New(name string, o Options) (*zap.Logger, error) {
	if o.Dir == "" {
		o.Dir = "log"
	}
	lvl := zapcore.InfoLevel
	if o.Level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(o.Level); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = zapcore.OmitKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(o.Dir, name),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, lvl)}
	if o.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(os.Stdout), lvl))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// NewLog is New with defaults and console output.
func NewLog(name string) *zap.Logger {
	l, err := New(name, Options{Console: true})
	if err != nil {
		return zap.NewNop()
	}
	return l
}
