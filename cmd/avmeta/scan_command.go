package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/avmeta/internal/config"
	"github.com/five82/avmeta/internal/discovery"
	"github.com/five82/avmeta/internal/processing"
	"github.com/five82/avmeta/internal/reporter"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var recursive bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Probe every media file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run := *cfg
			if cmd.Flags().Changed("workers") {
				run.Scan.Workers = workers
			}
			if cmd.Flags().Changed("recursive") {
				run.Scan.Recursive = recursive
			}
			if err := run.Validate(); err != nil {
				return err
			}

			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			found, err := discovery.FindMediaFiles(dir, run.Scan.Recursive)
			if err != nil {
				return err
			}

			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			var snapshots processing.SnapshotStore
			if store != nil {
				defer store.Close()
				snapshots = store
			}

			var rep reporter.Reporter
			if jsonOutput || run.OutputFormat() == config.FormatJSON {
				rep = reporter.NewJSONReporterWithWriter(cmd.OutOrStdout())
			} else {
				rep = ctx.terminalReporter(cmd)
			}

			results, err := processing.ProbeFiles(cmd.Context(), &run, found.Files, snapshots, rep,
				processing.BatchOptions{Directory: dir})
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be projected", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", config.DefaultWorkers, "Files probed concurrently")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit NDJSON events instead of text")
	return cmd
}
