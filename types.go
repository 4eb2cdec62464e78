package anydoc

import (
	"time"
)

// Artifact is an immutable binary payload tagged with a format identifier.
// Every conversion step produces one; ownership transfers fully to the
// caller on return.
type Artifact struct {
	Name   string // display name, usually a file name
	Format string // format identifier, e.g. ".md"
	Data   []byte
}

// ConversionRequest describes one conversion call. Constructed per call and
// never persisted.
type ConversionRequest struct {
	Source       Artifact
	TargetFormat string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	moduleURL     string
	modulePath    string
	engineCommand string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// DefaultModuleURL is the fixed location the compiled engine module is
// fetched from when no other source is configured.
const DefaultModuleURL = "https://engine.anydoc.dev/engine.wasm"

// WithTimeout sets the per-conversion timeout for browser operations.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("anydoc: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithModuleURL overrides the URL the engine module is fetched from.
func WithModuleURL(url string) Option {
	return func(c *Converter) {
		c.cfg.moduleURL = url
	}
}

// WithModulePath loads the engine module from a local file instead of
// fetching it over HTTP.
func WithModulePath(path string) Option {
	return func(c *Converter) {
		c.cfg.modulePath = path
	}
}

// WithEngineCommand runs conversions through a locally installed
// pandoc-compatible binary instead of the wasm engine module.
func WithEngineCommand(command string) Option {
	return func(c *Converter) {
		c.cfg.engineCommand = command
	}
}
