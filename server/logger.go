package server

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是全局可用的 SugaredLogger；未初始化时为 Nop，便于测试
var Log = zap.NewNop().Sugar()

// InitLogger 初始化全局日志
func InitLogger(filePath, level string, stdout bool) error {
	l, err := NewLogger(filePath, level, stdout)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// NewLogger 构造写入本地文件（支持滚动）的 zap 日志，可选同时输出到 stdout
func NewLogger(filePath, level string, stdout bool) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	// 文件滚动策略：10MB 每文件，保留3个备份
	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   false,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)
	core := zapcore.NewCore(encoder, zapcore.AddSync(lj), lvl)
	if stdout {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lvl))
	}

	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

// SyncLogger 清理和同步缓冲
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
