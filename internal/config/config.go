package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// Defaults for the external tools.
const (
	DefaultTypeCheckName    = "tsc"
	DefaultTypeCheckCommand = "npx tsc --noEmit --pretty false"
	DefaultLintName         = "qlty"
	DefaultLintCommand      = "qlty check --no-progress"
	DefaultTimeout          = "30s"
	DefaultTSConfig         = "tsconfig.json"
	DefaultMaxErrors        = 10
	DefaultLogLevel         = "debug"
)

// Project config file names, in lookup order.
var projectConfigNames = []string{".tscheck.yaml", ".tscheck.yml"}

// Config represents the complete tscheck configuration.
type Config struct {
	Version   int           `yaml:"version" json:"version"`
	TypeCheck ToolConfig    `yaml:"typecheck" json:"typecheck"`
	Lint      ToolConfig    `yaml:"lint" json:"lint"`
	Output    OutputConfig  `yaml:"output" json:"output"`
	Logging   LoggingConfig `yaml:"logging" json:"logging"`
}

// ToolConfig describes how to invoke one external checker.
type ToolConfig struct {
	// Name is used in synthetic failure messages ("tsc timed out after 30s").
	Name string `yaml:"name" json:"name"`

	// Command is the full command line; the lint file is appended at run time.
	Command string `yaml:"command" json:"command"`

	// Timeout is a Go duration string.
	Timeout string `yaml:"timeout" json:"timeout"`

	// ConfigFile gates the type checker: it only runs when this file exists
	// in the project root. Unused for the linter.
	ConfigFile string `yaml:"config_file,omitempty" json:"config_file,omitempty"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	MaxErrors int `yaml:"max_errors" json:"max_errors"`
}

// LoggingConfig controls the --debug log file.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		TypeCheck: ToolConfig{
			Name:       DefaultTypeCheckName,
			Command:    DefaultTypeCheckCommand,
			Timeout:    DefaultTimeout,
			ConfigFile: DefaultTSConfig,
		},
		Lint: ToolConfig{
			Name:    DefaultLintName,
			Command: DefaultLintCommand,
			Timeout: DefaultTimeout,
		},
		Output: OutputConfig{
			MaxErrors: DefaultMaxErrors,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Argv splits Command into program and arguments using shell quoting rules.
func (t ToolConfig) Argv() ([]string, error) {
	argv, err := shlex.Split(t.Command)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to split command %q: %w", t.Name, t.Command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%s: command is empty", t.Name)
	}
	return argv, nil
}

// TimeoutDuration parses Timeout. Invalid values fall back to the default,
// Validate reports them.
func (t ToolConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(t.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/tscheck/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/tscheck/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tscheck", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "tscheck", "config.yaml")
	}
	return filepath.Join(home, ".config", "tscheck", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// ProjectConfigPath returns the project config file in dir, or "" if none exists.
// The .yaml extension takes precedence over .yml.
func ProjectConfigPath(dir string) string {
	for _, name := range projectConfigNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// SearchPaths lists every file Load would consult for dir, in precedence order.
func SearchPaths(dir string) []string {
	paths := []string{GetUserConfigPath()}
	for _, name := range projectConfigNames {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// Load loads configuration for the project rooted at dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/tscheck/config.yaml)
//  3. Project config (.tscheck.yaml in dir), or explicitPath when non-empty
//  4. Environment variables (TSCHECK_*)
func Load(dir, explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	projectPath := explicitPath
	if projectPath == "" && dir != "" {
		projectPath = ProjectConfigPath(dir)
	} else if projectPath != "" && !fileExists(projectPath) {
		return nil, errors.New(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file not found: %s", projectPath), nil).
			WithSuggestion("Check the --config path")
	}
	if projectPath != "" {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration", err).
			WithSuggestion("Run 'tscheck config show' to inspect the effective configuration")
	}

	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New(errors.ErrCodeConfigParse,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.New(errors.ErrCodeConfigParse,
			fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	c.TypeCheck.mergeWith(other.TypeCheck)
	c.Lint.mergeWith(other.Lint)
	if other.Output.MaxErrors != 0 {
		c.Output.MaxErrors = other.Output.MaxErrors
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

func (t *ToolConfig) mergeWith(other ToolConfig) {
	if other.Name != "" {
		t.Name = other.Name
	}
	if other.Command != "" {
		t.Command = other.Command
	}
	if other.Timeout != "" {
		t.Timeout = other.Timeout
	}
	if other.ConfigFile != "" {
		t.ConfigFile = other.ConfigFile
	}
}

// applyEnvOverrides applies TSCHECK_* environment variable overrides.
// Malformed numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TSCHECK_TSC_COMMAND"); v != "" {
		c.TypeCheck.Command = v
	}
	if v := os.Getenv("TSCHECK_QLTY_COMMAND"); v != "" {
		c.Lint.Command = v
	}
	// One timeout for both tools
	if v := os.Getenv("TSCHECK_TIMEOUT"); v != "" {
		c.TypeCheck.Timeout = v
		c.Lint.Timeout = v
	}
	if v := os.Getenv("TSCHECK_MAX_ERRORS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.Output.MaxErrors = n
		}
	}
	if v := os.Getenv("TSCHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TSCHECK_TSCONFIG"); v != "" {
		c.TypeCheck.ConfigFile = v
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Version != 1 {
		result = multierror.Append(result, fmt.Errorf("version must be 1, got %d", c.Version))
	}

	for _, tool := range []struct {
		key string
		cfg ToolConfig
	}{{"typecheck", c.TypeCheck}, {"lint", c.Lint}} {
		if tool.cfg.Name == "" {
			result = multierror.Append(result, fmt.Errorf("%s.name must not be empty", tool.key))
		}
		if _, err := tool.cfg.Argv(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s.command: %w", tool.key, err))
		}
		if d, err := time.ParseDuration(tool.cfg.Timeout); err != nil || d <= 0 {
			result = multierror.Append(result,
				fmt.Errorf("%s.timeout must be a positive duration, got %q", tool.key, tool.cfg.Timeout))
		}
	}

	if c.TypeCheck.ConfigFile == "" {
		result = multierror.Append(result, fmt.Errorf("typecheck.config_file must not be empty"))
	}

	if c.Output.MaxErrors <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("output.max_errors must be positive, got %d", c.Output.MaxErrors))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		result = multierror.Append(result,
			fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level))
	}

	return result.ErrorOrNil()
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
