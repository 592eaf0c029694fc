package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Stash contains connection settings for the Stash GraphQL API.
type Stash struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Instance contains dialog defaults for the instance field.
type Instance struct {
	Default string `toml:"default"`
}

// Matching selects how stored endpoints are grouped under a base endpoint.
type Matching struct {
	Mode string `toml:"mode"`
}

// Paths contains local directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
}

// Journal controls the local submission journal.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Wait tunes how long scene resolution keeps retrying before giving up.
type Wait struct {
	Attempts      int `toml:"attempts"`
	IntervalMS    int `toml:"interval_ms"`
	MaxIntervalMS int `toml:"max_interval_ms"`
}

// Config encapsulates all configuration values for customid.
//
// Configuration sections by subsystem:
//   - Stash: GraphQL endpoint, API key, request timeout
//   - Instance: default value pre-filled in the dialog
//   - Matching: prefix or strict endpoint grouping
//   - Paths: state directory holding the journal and lock files
//   - Journal: toggles the local submission journal
//   - Logging: log format and level
//   - Wait: bounded retries while resolving a scene
type Config struct {
	Stash    Stash    `toml:"stash"`
	Instance Instance `toml:"instance"`
	Matching Matching `toml:"matching"`
	Paths    Paths    `toml:"paths"`
	Journal  Journal  `toml:"journal"`
	Logging  Logging  `toml:"logging"`
	Wait     Wait     `toml:"wait"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/customid/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("customid.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// GraphQLURL returns the GraphQL endpoint of the configured Stash server.
func (c *Config) GraphQLURL() string {
	return strings.TrimRight(c.Stash.URL, "/") + "/graphql"
}

// StashTimeout returns the per-request timeout; zero disables it.
func (c *Config) StashTimeout() time.Duration {
	return time.Duration(c.Stash.TimeoutSeconds) * time.Second
}

// JournalPath returns the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockDir returns the directory holding per-scene submission locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// LogPath returns the log file written alongside console output.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "customid.log")
}

// WaitInterval returns the initial delay between scene resolution attempts.
func (c *Config) WaitInterval() time.Duration {
	return time.Duration(c.Wait.IntervalMS) * time.Millisecond
}

// WaitMaxInterval caps the backoff between scene resolution attempts.
func (c *Config) WaitMaxInterval() time.Duration {
	return time.Duration(c.Wait.MaxIntervalMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Redacted returns a copy safe for printing.
func (c Config) Redacted() Config {
	if c.Stash.APIKey != "" {
		c.Stash.APIKey = "********"
	}
	return c
}

// Encode writes the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
