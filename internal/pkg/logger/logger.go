package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AppLogger wraps logrus with structured JSON output and an optional
// size-rotated file output.
type AppLogger struct {
	*logrus.Logger
	filePath string
	rotated  *lumberjack.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string `json:"level"`
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"`    // Max size in MB before rotation
	MaxAge     int    `json:"max_age"`     // Max age in days
	MaxBackups int    `json:"max_backups"` // Max number of backup files
	Compress   bool   `json:"compress"`    // Compress rotated files
}

// NewAppLogger creates a new application logger writing JSON to stdout and,
// when FilePath is set, to a rotated log file.
func NewAppLogger(config Config) (*AppLogger, error) {
	l := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// Set JSON formatter for structured logging
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	l.SetOutput(os.Stdout)

	appLogger := &AppLogger{
		Logger:   l,
		filePath: config.FilePath,
	}

	// Setup rotated file output if path is provided
	if config.FilePath != "" {
		if err := appLogger.setupFileOutput(config); err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
	}

	return appLogger, nil
}

// setupFileOutput attaches a rotated file hook so every entry also lands in
// the configured log file.
func (al *AppLogger) setupFileOutput(config Config) error {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	al.rotated = &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxAge:     config.MaxAge,
		MaxBackups: config.MaxBackups,
		Compress:   config.Compress,
	}

	fileFmt := &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
	al.Logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.PanicLevel: al.rotated,
		logrus.FatalLevel: al.rotated,
		logrus.ErrorLevel: al.rotated,
		logrus.WarnLevel:  al.rotated,
		logrus.InfoLevel:  al.rotated,
		logrus.DebugLevel: al.rotated,
		logrus.TraceLevel: al.rotated,
	}, fileFmt))

	return nil
}

// Close closes the rotated log file
func (al *AppLogger) Close() error {
	if al.rotated != nil {
		return al.rotated.Close()
	}
	return nil
}

// GetFilePath returns the current log file path
func (al *AppLogger) GetFilePath() string {
	return al.filePath
}

func (al *AppLogger) entry(fields []Field) *logrus.Entry {
	return al.Logger.WithFields(fieldsToLogrus(fields))
}

// Debug logs a debug message with structured fields
func (al *AppLogger) Debug(msg string, fields ...Field) {
	al.entry(fields).Debug(msg)
}

// Info logs an info message with structured fields
func (al *AppLogger) Info(msg string, fields ...Field) {
	al.entry(fields).Info(msg)
}

// Warn logs a warning message with structured fields
func (al *AppLogger) Warn(msg string, fields ...Field) {
	al.entry(fields).Warn(msg)
}

// Error logs an error message with structured fields
func (al *AppLogger) Error(msg string, fields ...Field) {
	al.entry(fields).Error(msg)
}

// Fatal logs a fatal message with structured fields and exits
func (al *AppLogger) Fatal(msg string, fields ...Field) {
	al.entry(fields).Fatal(msg)
}
