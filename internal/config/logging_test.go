package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "defaults", cfg: LoggingConfig{}},
		{name: "console debug", cfg: LoggingConfig{Level: "debug", Format: "console"}},
		{name: "warning alias", cfg: LoggingConfig{Level: "warning"}},
		{name: "override wins", cfg: LoggingConfig{Level: "verbose"}, override: "error"},
		{name: "bad level", cfg: LoggingConfig{Level: "verbose"}, wantErr: true},
		{name: "bad format", cfg: LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := tt.cfg.NewLogger(tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if logger == nil {
				t.Fatal("expected a logger")
			}
		})
	}
}

func TestNewLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planner.log")

	logger, err := LoggingConfig{OutputFile: path}.NewLogger("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("written")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}
