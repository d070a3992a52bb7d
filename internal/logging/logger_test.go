package logging

import (
	"path/filepath"
	"testing"

	"atelier/internal/config"

	"github.com/rs/zerolog"
)

func TestNewDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{Name: "atelier"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if closer != nil {
		t.Error("stdout logger should not need a closer")
	}
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNewLevelParsing(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"  error  ", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger, _, err := New(config.LoggingConfig{Level: tt.level}, config.AppConfig{})
		if err != nil {
			t.Fatalf("New(%q) failed: %v", tt.level, err)
		}
		if logger.GetLevel() != tt.want {
			t.Errorf("level %q parsed to %s, want %s", tt.level, logger.GetLevel(), tt.want)
		}
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path}, config.AppConfig{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if closer == nil {
		t.Fatal("file logger must return a closer")
	}
	defer closer.Close()

	logger.Info().Msg("hello")
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	if _, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{}); err == nil {
		t.Fatal("expected error when file output has no path")
	}
}
