// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Name != "storylens" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Extraction.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Extraction.Workers)
	}
	if cfg.Extraction.ShimHost == "" || cfg.Extraction.ShimParam == "" {
		t.Error("shim defaults missing")
	}
	if len(cfg.Extraction.CDNSuffixes) == 0 {
		t.Error("CDN suffix defaults missing")
	}
	if cfg.OCR.Languages != "heb+eng" {
		t.Errorf("Languages = %q", cfg.OCR.Languages)
	}
	if cfg.Fetch.Timeout != 30*time.Second || cfg.Fetch.RatePerSecond != 2 {
		t.Errorf("Fetch defaults = %+v", cfg.Fetch)
	}
	if cfg.Output.Format != "json" || cfg.Output.File != "-" {
		t.Errorf("Output defaults = %+v", cfg.Output)
	}
	if cfg.Server.ListenAddress != ":8080" {
		t.Errorf("Server.ListenAddress = %q", cfg.Server.ListenAddress)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
name: test-run
log_level: debug
extraction:
  workers: 8
  brands: true
output:
  format: csv
  file: out.csv
`))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if cfg.Name != "test-run" || cfg.LogLevel != "debug" {
		t.Errorf("parsed = %q %q", cfg.Name, cfg.LogLevel)
	}
	if cfg.Extraction.Workers != 8 || !cfg.Extraction.Brands {
		t.Errorf("extraction = %+v", cfg.Extraction)
	}
	if cfg.Output.Format != "csv" || cfg.Output.File != "out.csv" {
		t.Errorf("output = %+v", cfg.Output)
	}
	// Unset fields still get defaults.
	if cfg.OCR.Languages != "heb+eng" {
		t.Errorf("Languages = %q", cfg.OCR.Languages)
	}
}

func TestLoadFromBytesExpandsEnv(t *testing.T) {
	os.Setenv("STORYLENS_TEST_DSN", "postgres://u:p@db/records")
	defer os.Unsetenv("STORYLENS_TEST_DSN")

	cfg, err := LoadFromBytes([]byte(`
output:
  format: postgres
  dsn: ${STORYLENS_TEST_DSN}
`))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if cfg.Output.DSN != "postgres://u:p@db/records" {
		t.Errorf("DSN = %q", cfg.Output.DSN)
	}
}

func TestLoadFromBytesErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "empty data",
			payload: "",
			wantErr: "cannot be empty",
		},
		{
			name:    "malformed yaml",
			payload: "name: [unclosed",
			wantErr: "failed to parse",
		},
		{
			name:    "unknown log level",
			payload: "log_level: loud",
			wantErr: "unknown log level",
		},
		{
			name:    "unknown output format",
			payload: "output:\n  format: parquet",
			wantErr: "unknown output format",
		},
		{
			name:    "database format without dsn",
			payload: "output:\n  format: mysql",
			wantErr: "requires output.dsn",
		},
		{
			name:    "mongodb without database",
			payload: "output:\n  format: mongodb\n  dsn: mongodb://localhost",
			wantErr: "requires output.database",
		},
		{
			name:    "negative workers",
			payload: "extraction:\n  workers: -1",
			wantErr: "workers must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Name != "from-file" {
		t.Errorf("Name = %q", cfg.Name)
	}

	if _, err := LoadFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFromFile(""); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader("name: from-reader\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.Name != "from-reader" {
		t.Errorf("Name = %q", cfg.Name)
	}

	if _, err := LoadFromReader(nil); err == nil {
		t.Error("expected error for nil reader")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Output.Format = "parquet"
	cfg.Fetch.Timeout = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"unknown log level", "unknown output format", "timeout cannot be negative"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %v missing %q", err, want)
		}
	}
}
