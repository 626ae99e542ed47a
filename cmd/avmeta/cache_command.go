package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/avmeta/internal/cache"
	"github.com/five82/avmeta/internal/util"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the snapshot cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func withStore(ctx *commandContext, cmd *cobra.Command, fn func(*cache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Cache.Dir == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Snapshot cache has no directory configured")
		return nil
	}
	store, err := cache.Open(cmd.Context(), cfg.Cache.Dir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show snapshot cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, cmd, func(store *cache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				const stampLayout = "2006-01-02 15:04"
				oldest, newest := "-", "-"
				if !stats.Oldest.IsZero() {
					oldest = stats.Oldest.Local().Format(stampLayout)
					newest = stats.Newest.Local().Format(stampLayout)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Cache: %s\n", stats.Path)
				fmt.Fprintln(out, renderKeyValues([][2]string{
					{"Entries", strconv.FormatInt(stats.Entries, 10)},
					{"Runs", strconv.FormatInt(stats.Runs, 10)},
					{"Snapshot data", util.FormatBytes(uint64(stats.Bytes))},
					{"Oldest", oldest},
					{"Newest", newest},
				}))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, cmd, func(store *cache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached snapshots\n", removed)
				return nil
			})
		},
	}
}
