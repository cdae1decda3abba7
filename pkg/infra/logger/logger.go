package logger

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logsDir = "logs"

type Config struct {
	Level   string
	File    string
	Console bool
}

// NewLogger builds the service logger: JSON lines to an async file writer
// under logs/, mirrored to stdout when Console is set.
func NewLogger(cfg Config) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(ParseLevel(cfg.Level))

	logFile := cfg.File
	if logFile == "" {
		logFile = "xssguard.log"
	}
	logFile = filepath.Clean(filepath.Join(logsDir, filepath.Base(logFile)))
	if !strings.HasPrefix(logFile, logsDir+string(filepath.Separator)) {
		log.Fatalf("Invalid log file path: must be in logs directory")
	}

	if err := os.MkdirAll(logsDir, 0750); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}

	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("Failed to initialize async log writer: %v", err)
	}
	logger.SetOutput(asyncWriter)

	if cfg.Console {
		logger.AddHook(NewConsoleHook(os.Stdout))
	}

	return logger
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
