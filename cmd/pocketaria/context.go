package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"pocketaria/internal/blobhost"
	"pocketaria/internal/config"
	"pocketaria/internal/logging"
	"pocketaria/internal/permalink"
	"pocketaria/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
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

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// log returns the file logger, falling back to a no-op logger when the log
// file cannot be opened so commands still run.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) storeOptions() (store.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return store.Options{}, err
	}
	logger := c.log()
	opts := store.OptionsFromConfig(cfg, logger)
	opts.OnBlocked = func(change store.VersionChange) {
		logger.Info("waiting for other pocketaria processes to close the library",
			logging.Int("old_version", change.OldVersion),
			logging.Int(logging.FieldSchemaVersion, change.NewVersion),
		)
	}
	return opts, nil
}

// withStore runs fn against the library and closes it afterwards. The
// manager reopens the store if another process upgrades it mid-command.
func (c *commandContext) withStore(ctx context.Context, fn func(*store.Manager) error) (err error) {
	opts, err := c.storeOptions()
	if err != nil {
		return err
	}
	manager := store.NewManager(opts)
	defer func() {
		if cerr := manager.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close library: %w", cerr)
		}
	}()
	if _, err := manager.EnsureOpen(ctx); err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	return fn(manager)
}

func (c *commandContext) encoder() (*permalink.Encoder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	uploader, err := blobhost.FromConfig(cfg, c.log())
	if err != nil {
		return nil, err
	}
	return permalink.NewEncoder(permalink.EncoderConfig{
		Uploader:         uploader,
		Filename:         cfg.Permalink.Filename,
		InlineWarnLength: cfg.Permalink.InlineWarnLength,
		Logger:           c.log(),
	}), nil
}

func (c *commandContext) decoder() *permalink.Decoder {
	return permalink.NewDecoder(blobhost.NewHTTPFetcher(nil, 0), c.log())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func (c *commandContext) configRetention() string {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "72h"
	}
	return cfg.RetentionDuration().String()
}
