package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.SearchPatternCap != 512*1024 {
		t.Errorf("SearchPatternCap = %d, want %d", cfg.SearchPatternCap, 512*1024)
	}
	if cfg.ChunkSize != 64*1024 {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, 64*1024)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want Info", cfg.LogLevel)
	}
}

func TestLoadWithoutFileUsesDefaultsAndEnv(t *testing.T) {
	os.Setenv("OMEGAEDIT_MAX_UNDO_ENTRIES", "100")
	os.Setenv("OMEGAEDIT_LOG_LEVEL", "debug")
	defer os.Unsetenv("OMEGAEDIT_MAX_UNDO_ENTRIES")
	defer os.Unsetenv("OMEGAEDIT_LOG_LEVEL")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxUndoEntries != 100 {
		t.Errorf("MaxUndoEntries = %d, want 100", cfg.MaxUndoEntries)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want Debug", cfg.LogLevel)
	}
	if cfg.SearchPatternCap != 512*1024 {
		t.Errorf("SearchPatternCap should retain default, got %d", cfg.SearchPatternCap)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "omegaedit.toml")
	contents := `
[session]
checkpointDir = "/var/tmp/oe-checkpoints"
chunkSize = 4096
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CheckpointDir != "/var/tmp/oe-checkpoints" {
		t.Errorf("CheckpointDir = %q, want /var/tmp/oe-checkpoints", cfg.CheckpointDir)
	}
	if cfg.ChunkSize != 4096 {
		t.Errorf("ChunkSize = %d, want 4096", cfg.ChunkSize)
	}
}

func TestLoadEnvOverridesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "omegaedit.toml")
	contents := "[session]\nchunkSize = 4096\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	os.Setenv("OMEGAEDIT_CHUNK_SIZE", "8192")
	defer os.Unsetenv("OMEGAEDIT_CHUNK_SIZE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 8192 {
		t.Errorf("ChunkSize = %d, want 8192 (env should override TOML)", cfg.ChunkSize)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 64*1024 {
		t.Errorf("ChunkSize = %d, want default", cfg.ChunkSize)
	}
}
