// Package config provides reading and writing of filetrack configuration.
// Supports both global (~/.filetrack/config.yaml) and local
// (.filetrack/config.yaml). Reading: uses local if it exists, otherwise
// global. Writing: defaults to global.
//
// Design: Pointers are used for optional fields so we can distinguish
// between "not set" (nil) and "explicitly set to zero/false". This enables
// proper defaulting - we only apply defaults when the user hasn't set a
// value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.filetrack/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is project-specific config in .filetrack/config.yaml
	ScopeLocal
)

// Limits holds size limit configuration options.
type Limits struct {
	// MaxName bounds the stored copy of every tracked filename.
	MaxName *int `yaml:"max_name,omitempty"`
}

// Audit holds audit-log configuration options.
type Audit struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultMaxName = 4096

	// DiagStderr and DiagOff are the valid diagnostics sink names.
	DiagStderr = "stderr"
	DiagOff    = "off"
)

// Validation bounds for configuration values.
const (
	MinMaxName = 1
	MaxMaxName = 65536 // 64 KB - reasonable upper bound for paths
)

// Config contains configuration for filetrack.
type Config struct {
	// Retain keeps closed entries in the registry for leak and
	// double-close diagnostics. Disable to bound memory in long-running
	// instrumented processes.
	Retain *bool `yaml:"retain,omitempty"`

	// Diagnostics selects the human-readable failure stream: "stderr"
	// (default) or "off".
	Diagnostics string `yaml:"diagnostics,omitempty"`

	Limits Limits `yaml:"limits,omitempty"`
	Audit  Audit  `yaml:"audit,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Limits.MaxName != nil {
		v := *c.Limits.MaxName
		if v < MinMaxName || v > MaxMaxName {
			return fmt.Errorf("%w: max_name must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxName, MaxMaxName, v)
		}
	}
	if c.Diagnostics != "" && c.Diagnostics != DiagStderr && c.Diagnostics != DiagOff {
		return fmt.Errorf("%w: diagnostics must be %q or %q, got %q",
			ErrInvalidValue, DiagStderr, DiagOff, c.Diagnostics)
	}
	return nil
}

// MaxName returns the maximum stored filename length in bytes (defaults to 4096).
func (c *Config) MaxName() int {
	if c.Limits.MaxName == nil {
		return DefaultMaxName
	}
	return *c.Limits.MaxName
}

// RetainClosed returns whether closed entries are kept for diagnostics
// (defaults to true).
func (c *Config) RetainClosed() bool {
	if c.Retain == nil {
		return true
	}
	return *c.Retain
}

// AuditEnabled returns whether lifecycle events are persisted to the audit
// log (defaults to true; the log is best-effort either way).
func (c *Config) AuditEnabled() bool {
	if c.Audit.Enabled == nil {
		return true
	}
	return *c.Audit.Enabled
}

// DiagnosticsOff returns whether the human-readable failure stream is
// suppressed.
func (c *Config) DiagnosticsOff() bool {
	return c.Diagnostics == DiagOff
}

// LocalPath returns the path to the local (project) config file.
func LocalPath() string {
	return filepath.Join(".filetrack", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file:
// ~/.filetrack/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".filetrack", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
