package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/llehouerou/tigertag/internal/config"
	"github.com/llehouerou/tigertag/internal/errmsg"
	"github.com/llehouerou/tigertag/internal/logging"
	"github.com/llehouerou/tigertag/internal/state"
)

type commandContext struct {
	verbose  *bool
	database *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger *slog.Logger
}

func newCommandContext(verbose *bool, database *string) *commandContext {
	return &commandContext{
		verbose:  verbose,
		database: database,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = errmsg.Wrap(errmsg.OpConfigLoad, err)
			return
		}
		if c.database != nil && *c.database != "" {
			cfg.Database = *c.database
		}

		level := cfg.Log.Level
		if c.verbose != nil && *c.verbose {
			level = "debug"
		}
		logger, err := logging.New(logging.Options{Level: level, Format: cfg.Log.Format})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

// withState opens the state database for the duration of fn.
func (c *commandContext) withState(fn func(*state.Manager) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	mgr, err := state.Open(cfg.Database)
	if err != nil {
		return errmsg.Wrap(errmsg.OpStateOpen, err)
	}
	defer mgr.Close()
	return fn(mgr)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func interactive(in io.Reader, out io.Writer) bool {
	return isTerminal(in) && isTerminal(out)
}
