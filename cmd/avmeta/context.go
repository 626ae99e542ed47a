package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/avmeta/internal/cache"
	"github.com/five82/avmeta/internal/config"
	"github.com/five82/avmeta/internal/logging"
	"github.com/five82/avmeta/internal/reporter"
	"github.com/five82/avmeta/internal/util"
)

type globalFlags struct {
	configPath string
	verbose    bool
	logDir     string
	noLog      bool
	noCache    bool
	noColor    bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	runLog *logging.RunLog
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if c.flags.verbose {
			cfg.Logging.Verbose = true
		}
		if dir := strings.TrimSpace(c.flags.logDir); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				c.configErr = fmt.Errorf("resolve log directory: %w", err)
				return
			}
			cfg.Logging.Dir = expanded
		}
		if c.flags.noLog {
			cfg.Logging.Enabled = false
		}
		if c.flags.noCache {
			cfg.Cache.Enabled = false
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) setupLogging() error {
	if c.runLog != nil || c.config == nil {
		return nil
	}
	runLog, err := logging.Setup(c.config.Logging.Dir, c.config.Logging.Verbose, !c.config.Logging.Enabled)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	c.runLog = runLog
	return nil
}

func (c *commandContext) close() {
	if c.runLog != nil {
		_ = c.runLog.Close()
		c.runLog = nil
	}
}

// openStore opens the snapshot cache, or returns nil when it is disabled.
func (c *commandContext) openStore(ctx context.Context) (*cache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	return cache.Open(ctx, cfg.Cache.Dir)
}

// terminalReporter builds a reporter for cmd's writers, with color only on
// a TTY.
func (c *commandContext) terminalReporter(cmd *cobra.Command) *reporter.TerminalReporter {
	out := cmd.OutOrStdout()
	color.NoColor = c.flags.noColor || !isTerminal(out)

	verbose := c.flags.verbose
	if c.config != nil {
		verbose = c.config.Logging.Verbose
	}
	rep := reporter.NewTerminalReporterWithWriters(out, cmd.ErrOrStderr(), verbose)
	if f, ok := out.(*os.File); ok {
		rep.SetWidth(util.TerminalWidth(f))
	}
	return rep
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
