package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	anydoc "github.com/avasse/go-anydoc"
	"github.com/avasse/go-anydoc/internal/fileutil"
	"github.com/avasse/go-anydoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all CLI configuration.
type Config struct {
	Engine  EngineConfig `yaml:"engine"`
	Output  OutputConfig `yaml:"output"`
	Timeout string       `yaml:"timeout"` // Go duration string, e.g. "45s"
}

// EngineConfig selects how the conversion engine is hosted.
type EngineConfig struct {
	Module  string `yaml:"module"`  // URL or local path of the wasm module (empty = default URL)
	Command string `yaml:"command"` // local pandoc-compatible binary (overrides Module)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = alongside input)
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/anydoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "anydoc", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// loadEffectiveConfig loads the config file (if any) and overlays flags.
// Flags win over config values.
func loadEffectiveConfig(flags *cliFlags) (*Config, error) {
	cfg := DefaultConfig()
	if flags.config != "" {
		loaded, err := LoadConfig(flags.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.engineModule != "" {
		cfg.Engine.Module = flags.engineModule
	}
	if flags.engineCommand != "" {
		cfg.Engine.Command = flags.engineCommand
	}
	if flags.outputDir != "" {
		cfg.Output.DefaultDir = flags.outputDir
	}
	if flags.timeout > 0 {
		cfg.Timeout = flags.timeout.String()
	}

	return cfg, nil
}

// converterOptions maps CLI config onto library options. A malformed or
// non-positive timeout is a usage error, not something to fall back from.
func converterOptions(cfg *Config) ([]anydoc.Option, error) {
	var opts []anydoc.Option

	switch {
	case cfg.Engine.Command != "":
		opts = append(opts, anydoc.WithEngineCommand(cfg.Engine.Command))
	case cfg.Engine.Module != "" && fileutil.IsURL(cfg.Engine.Module):
		opts = append(opts, anydoc.WithModuleURL(cfg.Engine.Module))
	case cfg.Engine.Module != "":
		opts = append(opts, anydoc.WithModulePath(cfg.Engine.Module))
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timeout %q: %v", ErrConfigParse, cfg.Timeout, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: timeout must be positive, got %q", ErrConfigParse, cfg.Timeout)
		}
		opts = append(opts, anydoc.WithTimeout(d))
	}

	return opts, nil
}
