package config

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// InitLogging opens the log file and builds the application logger. Output
// goes to stdout and, when the file can be opened, to the log file as well.
// The returned cleanup flushes the logger and closes the file.
func InitLogging(cfg *Config) (*zap.Logger, func()) {
	var encoder zapcore.Encoder
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	if cfg.IsProduction() {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	var logFile *os.File
	LogWriter = os.Stdout
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), os.ModePerm); err == nil {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				logFile = f
				LogWriter = io.MultiWriter(os.Stdout, logFile)
			}
		}
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(LogWriter), level)
	logger := zap.New(core, zap.AddCaller())
	if cfg.LogFile != "" && logFile == nil {
		logger.Warn("log file unavailable, logging to stdout only", zap.String("path", cfg.LogFile))
	}

	cleanup := func() {
		_ = logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return logger, cleanup
}
