// Package cli implements the linebreak command-line interface.
//
// # Commands
//
//   - break: find optimal breaks of element sequences (JSON files)
//   - text: break plain text into lines and print them
//   - graph: render the break graph of a sequence or a text
//   - preview: interactive preview of a text at a changing width
//   - serve: run the HTTP API
//   - cache: manage the solution cache
//   - config: show the effective configuration
//
// # Configuration
//
// Defaults come from linebreak.toml or linebreak.yaml in the working
// directory or the user config directory, or from the file named by
// --config. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context as well as held by the CLI.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linebreak/pkg/cache"
	"github.com/matzehuels/linebreak/pkg/config"
	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "linebreak"

	// defaultColumns is the text width when neither flags nor config set one.
	defaultColumns = 60
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.File
	loadedFrom string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the --config file, or the first file found on the
// search path. Without either the defaults apply.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		found, ok := config.Find(config.SearchDirs()...)
		if !ok {
			c.cfg = config.Default()
			return nil
		}
		path = found
	}
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg, c.loadedFrom = f, path
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// config returns the loaded configuration, or the defaults.
func (c *CLI) config() *config.File {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	cfg := c.config().Cache
	var keyer cache.Keyer
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Prefix)
	}
	runner := pipeline.NewRunner(ch, keyer, loggerFromContext(ctx))
	runner.TTL = cfg.TTL.Duration
	return runner, nil
}

// newCache opens the configured cache backend. Without one, solutions are
// kept in a file cache under the user cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config().Cache
	switch {
	case noCache:
		return cache.Disabled("--no-cache"), nil
	case cfg.Disable:
		return cache.Disabled("cache.disable is set"), nil
	}
	if cfg.URL != "" {
		ch, err := cache.Open(ctx, cfg.URL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open cache %s", cfg.URL)
		}
		return ch, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.Disabled("no cache directory"), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/linebreak/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
