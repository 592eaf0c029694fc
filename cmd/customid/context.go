package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"customid/internal/config"
	"customid/internal/dialog"
	"customid/internal/journal"
	"customid/internal/logging"
	"customid/internal/scenepage"
	"customid/internal/stashapp"
	"customid/internal/stashids"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	journal *journal.Store
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerFor returns the process logger, writing to the command's stderr and
// the state directory log file.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{cfg.LogPath()},
			Writer:      cmd.ErrOrStderr(),
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "logger unavailable: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) stashClient(cmd *cobra.Command) (*stashapp.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return stashapp.NewFromConfig(cfg, c.loggerFor(cmd), otel.GetTracerProvider())
}

func (c *commandContext) matcher() stashids.Matcher {
	cfg, err := c.ensureConfig()
	if err != nil {
		return stashids.Matcher{}
	}
	return stashids.Matcher{Mode: stashids.Mode(cfg.Matching.Mode)}
}

// openJournal returns the journal, or nil when it is disabled.
func (c *commandContext) openJournal() (*journal.Store, error) {
	if c.journal != nil {
		return c.journal, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	c.journal = store
	return store, nil
}

type surfaceOptions struct {
	defaultInstance string
	notifier        dialog.Notifier
	refresher       dialog.Refresher
}

func (c *commandContext) surface(cmd *cobra.Command, opts surfaceOptions) (*scenepage.Surface, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.stashClient(cmd)
	if err != nil {
		return nil, err
	}
	logger := c.loggerFor(cmd)

	dialogOpts := dialog.Options{
		Store:           client,
		DefaultInstance: cfg.Instance.Default,
		Matcher:         c.matcher(),
		Notifier:        opts.notifier,
		Refresher:       opts.refresher,
		Logger:          logger,
	}
	if opts.defaultInstance != "" {
		dialogOpts.DefaultInstance = opts.defaultInstance
	}
	store, err := c.openJournal()
	if err != nil {
		logger.Warn("journal unavailable; submissions will not be recorded", logging.Error(err))
	} else if store != nil {
		dialogOpts.Recorder = store
	}

	return scenepage.NewSurface(scenepage.Options{
		Dialog: dialogOpts,
		Wait: scenepage.WaitOptions{
			Attempts:    cfg.Wait.Attempts,
			Interval:    cfg.WaitInterval(),
			MaxInterval: cfg.WaitMaxInterval(),
		},
		Logger: logger,
	}), nil
}

func (c *commandContext) close() {
	if c.journal != nil {
		_ = c.journal.Close()
		c.journal = nil
	}
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func sceneArg(raw string) (string, error) {
	id, ok := scenepage.ParseScenePath(raw)
	if !ok {
		return "", fmt.Errorf("%q is not a scene id or scene URL", raw)
	}
	return id, nil
}
