package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu        sync.Mutex
	logger    *slog.Logger
	logLevel  slog.Level
	logFormat string
	logFile   string
)

// Config controls logger initialization.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // "text" or "json"
	File   string // log file path; auto-generated in TUI mode when empty
	// TUIMode routes output to a file instead of stderr, which the
	// terminal UI owns while running.
	TUIMode bool
}

// Initialize sets up the process logger from the environment:
// LOG_LEVEL (or KTPICK_DEBUG=1 for DEBUG) and LOG_FORMAT (text/json).
func Initialize() {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if d := os.Getenv("KTPICK_DEBUG"); d == "1" || d == "true" {
			levelStr = "DEBUG"
		} else {
			levelStr = "INFO"
		}
	}
	InitializeWithConfig(Config{
		Level:  levelStr,
		Format: os.Getenv("LOG_FORMAT"),
	})
}

// InitializeWithConfig sets up the process logger explicitly.
func InitializeWithConfig(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToUpper(cfg.Level) {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "WARN", "WARNING":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logFormat = strings.ToLower(cfg.Format)
	if logFormat == "" {
		logFormat = "text"
	}

	out := os.Stderr
	logFile = ""
	if cfg.TUIMode {
		path := cfg.File
		if path == "" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, ".ktpick", "logs", "ktpick.log")
			}
		}
		if path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
				if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
					out = f
					logFile = path
				}
			}
		}
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if logFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger = slog.New(handler)
}

// GetLogger returns the process logger, initializing from the
// environment on first use.
func GetLogger() *slog.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		Initialize()
		mu.Lock()
		l = logger
		mu.Unlock()
	}
	return l
}

func GetLevel() slog.Level {
	GetLogger()
	return logLevel
}

func GetFormat() string {
	GetLogger()
	return logFormat
}

// LogFile returns the active log file path, empty when logging to stderr.
func LogFile() string {
	GetLogger()
	return logFile
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
