package config

import (
	"fmt"
	"os"
	"strings"

	"customid/internal/stashids"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStash()
	c.normalizeInstance()
	if err := c.normalizeMatching(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStash() {
	if c.Stash.APIKey == "" {
		if value, ok := os.LookupEnv("STASH_API_KEY"); ok {
			c.Stash.APIKey = value
		}
	}
	c.Stash.APIKey = strings.TrimSpace(c.Stash.APIKey)
	if value, ok := os.LookupEnv("STASH_URL"); ok && strings.TrimSpace(value) != "" && strings.TrimSpace(c.Stash.URL) == defaultStashURL {
		c.Stash.URL = value
	}
	c.Stash.URL = strings.TrimRight(strings.TrimSpace(c.Stash.URL), "/")
	c.Stash.URL = strings.TrimSuffix(c.Stash.URL, "/graphql")
	if c.Stash.URL == "" {
		c.Stash.URL = defaultStashURL
	}
}

func (c *Config) normalizeInstance() {
	if strings.TrimSpace(c.Instance.Default) == "" {
		if value, ok := os.LookupEnv("CUSTOMID_DEFAULT_INSTANCE"); ok {
			c.Instance.Default = value
		}
	}
	c.Instance.Default = strings.TrimSpace(c.Instance.Default)
}

func (c *Config) normalizeMatching() error {
	mode, err := stashids.ParseMode(c.Matching.Mode)
	if err != nil {
		return fmt.Errorf("matching.mode: %w", err)
	}
	c.Matching.Mode = string(mode)
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
