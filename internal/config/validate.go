package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStash(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateWait(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStash() error {
	parsed, err := url.Parse(c.Stash.URL)
	if err != nil {
		return fmt.Errorf("stash.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("stash.url must use http or https, got %q", c.Stash.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("stash.url must include a host, got %q", c.Stash.URL)
	}
	if c.Stash.TimeoutSeconds < 0 {
		return errors.New("stash.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateWait() error {
	if err := ensurePositiveMap(map[string]int{
		"wait.attempts":        c.Wait.Attempts,
		"wait.interval_ms":     c.Wait.IntervalMS,
		"wait.max_interval_ms": c.Wait.MaxIntervalMS,
	}); err != nil {
		return err
	}
	if c.Wait.MaxIntervalMS < c.Wait.IntervalMS {
		return errors.New("wait.max_interval_ms must be at least wait.interval_ms")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
