// Package config assembles a Session's runtime settings from layered
// sources: built-in defaults, an optional TOML file, and environment
// variables (highest priority), following internal/config/loader's
// DeepMerge layering used by the teacher's own configuration stack.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/omegaedit/core/internal/config/loader"
)

// EnvPrefix is the environment variable prefix consulted by Load.
const EnvPrefix = "OMEGAEDIT_"

// Config holds the scalar settings loaded from defaults, a TOML file and
// the environment. A Session reads only CheckpointDir, once at creation.
type Config struct {
	// CheckpointDir is where the Checkpoint Manager spills non-contiguous
	// transform ranges. Defaults to the OS temp directory.
	CheckpointDir string

	// MaxUndoEntries is loaded like the other fields, but a Session does
	// not read it: the ChangeLog has no entry limit.
	MaxUndoEntries int

	// MaxViewportCapacity is loaded like the other fields, but a Session
	// does not read it: CreateViewport has no viewport limit.
	MaxViewportCapacity int

	// SearchPatternCap is loaded like the other fields, but a Session
	// does not read it: pattern length is capped by the search engine's
	// own MaxPatternLength.
	SearchPatternCap int

	// ChunkSize is loaded like the other fields, but a Session does not
	// read it: streaming operations such as Save use their own window
	// sizes.
	ChunkSize int

	// LogLevel sets the verbosity of the omegaedit-shell CLI's
	// slog.Logger.
	LogLevel slog.Level
}

// Default returns the built-in baseline configuration.
func Default() Config {
	return Config{
		CheckpointDir:       os.TempDir(),
		MaxUndoEntries:      0,
		MaxViewportCapacity: 0,
		SearchPatternCap:    512 * 1024,
		ChunkSize:           64 * 1024,
		LogLevel:            slog.LevelInfo,
	}
}

// Load builds a Config by merging, in increasing priority: built-in
// defaults, tomlPath (if non-empty and present), and OMEGAEDIT_*
// environment variables.
func Load(tomlPath string) (Config, error) {
	cfg := Default()

	merged := map[string]any{}

	if tomlPath != "" {
		fileCfg, err := loader.NewTOMLLoader(tomlPath).Load()
		if err != nil {
			return cfg, fmt.Errorf("loading config file %s: %w", tomlPath, err)
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	envCfg, err := loader.NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return cfg, fmt.Errorf("loading environment config: %w", err)
	}
	merged = loader.DeepMerge(merged, envCfg)

	applySection(&cfg, merged)
	return cfg, nil
}

func applySection(cfg *Config, merged map[string]any) {
	session, _ := merged["session"].(map[string]any)
	if dir, ok := session["checkpointDir"].(string); ok && dir != "" {
		cfg.CheckpointDir = filepath.Clean(dir)
	}
	if n, ok := asInt(session["maxUndoEntries"]); ok {
		cfg.MaxUndoEntries = n
	}
	if n, ok := asInt(session["maxViewportCapacity"]); ok {
		cfg.MaxViewportCapacity = n
	}
	if n, ok := asInt(session["searchPatternCap"]); ok {
		cfg.SearchPatternCap = n
	}
	if n, ok := asInt(session["chunkSize"]); ok {
		cfg.ChunkSize = n
	}

	logging, _ := merged["logging"].(map[string]any)
	if lvl, ok := logging["level"].(string); ok {
		if parsed, err := parseLevel(lvl); err == nil {
			cfg.LogLevel = parsed
		}
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
