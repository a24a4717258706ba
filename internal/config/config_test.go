package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://localhost:9000"
	cfg.Upload.SampleRows = 500

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Server.BaseURL != "http://localhost:9000" {
		t.Errorf("Server.BaseURL: got %q, want %q", loaded.Server.BaseURL, "http://localhost:9000")
	}
	if loaded.Upload.SampleRows != 500 {
		t.Errorf("Upload.SampleRows: got %d, want 500", loaded.Upload.SampleRows)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("default BaseURL: got %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutSeconds != 120 {
		t.Errorf("default TimeoutSeconds: got %d, want 120", cfg.Server.TimeoutSeconds)
	}
	if cfg.Upload.SampleRows != 100 {
		t.Errorf("default SampleRows: got %d, want 100", cfg.Upload.SampleRows)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Error("ReadConfig on empty dir should fail")
	}
}

func TestReadConfigPartialFile(t *testing.T) {
	// An older or hand-edited config with only some fields still parses.
	tmpDir := t.TempDir()
	partial := `version: 1
server:
  base_url: http://10.0.0.5:8000
`
	dir := filepath.Join(tmpDir, ".datadeck")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL: got %q", cfg.Server.BaseURL)
	}
	if cfg.Upload.SampleRows != 0 {
		t.Errorf("missing SampleRows should be zero, got %d", cfg.Upload.SampleRows)
	}
}
