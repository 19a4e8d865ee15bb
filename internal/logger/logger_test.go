package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeWithConfig_TUIMode(t *testing.T) {
	tmpDir := t.TempDir()

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", originalHome)

	InitializeWithConfig(Config{
		Level:   "DEBUG",
		Format:  "text",
		TUIMode: true,
	})

	if logger == nil {
		t.Fatal("Logger should be initialized")
	}
	if logLevel != slog.LevelDebug {
		t.Errorf("Expected log level DEBUG, got %v", logLevel)
	}

	expected := filepath.Join(tmpDir, ".ktpick", "logs", "ktpick.log")
	if LogFile() != expected {
		t.Errorf("Expected log file %s, got %s", expected, LogFile())
	}
}

func TestInitializeWithConfig_LevelParsing(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range cases {
		InitializeWithConfig(Config{Level: tc.level})
		if logLevel != tc.want {
			t.Errorf("Level %q: expected %v, got %v", tc.level, tc.want, logLevel)
		}
	}
}

func TestInitializeWithConfig_FormatDefaultsToText(t *testing.T) {
	InitializeWithConfig(Config{Level: "INFO"})
	if GetFormat() != "text" {
		t.Errorf("Expected default format text, got %s", GetFormat())
	}
}
