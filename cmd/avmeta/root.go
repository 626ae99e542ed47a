package main

import (
	"errors"

	"github.com/spf13/cobra"
)

const appName = "avmeta"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errReported marks a failure that was already shown to the user.
var errReported = errors.New("failure already reported")

func newRootCommand() (*cobra.Command, *commandContext) {
	var flags globalFlags
	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Describe media containers and their streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			return ctx.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&flags.logDir, "log-dir", "", "Log directory")
	pf.BoolVar(&flags.noLog, "no-log", false, "Disable log file creation")
	pf.BoolVar(&flags.noCache, "no-cache", false, "Bypass the snapshot cache")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd, ctx
}
