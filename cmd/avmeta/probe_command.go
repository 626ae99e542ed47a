package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/five82/avmeta/internal/config"
	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/processing"
	"github.com/five82/avmeta/internal/reporter"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var compact bool

	cmd := &cobra.Command{
		Use:   "probe FILE",
		Short: "Print the snapshot of one media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			format := cfg.OutputFormat()
			if strings.TrimSpace(formatFlag) != "" {
				if format, err = config.ParseOutputFormat(formatFlag); err != nil {
					return err
				}
			}
			compact = compact || cfg.Output.Compact

			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			var snapshots processing.SnapshotStore
			if store != nil {
				defer store.Close()
				snapshots = store
			}

			settings := processing.Settings{FFprobePath: cfg.FFprobe.Path, Timeout: cfg.Timeout()}
			res := processing.ProbeFile(cmd.Context(), settings, args[0], snapshots, uuid.NewString())

			if format == config.FormatJSON {
				if res.Err != nil {
					return res.Err
				}
				indent := "  "
				if compact {
					indent = ""
				}
				return metadata.Encode(cmd.OutOrStdout(), res.Snapshot, indent)
			}

			rep := ctx.terminalReporter(cmd)
			if res.Err != nil {
				rep.Error(reporter.ErrorFor(res.Path, res.Err))
				return errReported
			}
			rep.SnapshotReady(reporter.SnapshotResult{
				Path:     res.Path,
				Size:     res.Size,
				Snapshot: res.Snapshot,
				Cached:   res.Cached,
				Elapsed:  res.Elapsed,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", fmt.Sprintf("Output format (%s or %s)", config.FormatTable, config.FormatJSON))
	cmd.Flags().BoolVar(&compact, "compact", false, "Write JSON on a single line")
	return cmd
}
