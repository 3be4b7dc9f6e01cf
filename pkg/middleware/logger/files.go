package logger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/steeze-client/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func ensureLogDir(dir string) string {
	if dir == "" {
		dir = "log"
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// NewLog tees JSON lines to stdout and a rotating file <dir>/<name>.
func NewLog(cfg config.Log, name string) *zap.Logger {
	dir := ensureLogDir(cfg.Dir)

	enc := zap.NewProductionEncoderConfig()
	enc.MessageKey = zapcore.OmitKey

	lvl := parseLevel(cfg.Level)
	console := zapcore.Lock(os.Stdout)

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    orDefault(cfg.MaxSizeMB, 50), // MB
		MaxBackups: orDefault(cfg.MaxBackups, 3),
		MaxAge:     orDefault(cfg.MaxAgeDays, 7), // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, lvl),
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), console, lvl),
	)
	return zap.New(core)
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zap.InfoLevel
	}
	return lvl
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
