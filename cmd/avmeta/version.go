package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/avmeta/internal/metadata"
	"github.com/five82/avmeta/internal/util"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sys := util.GetSystemInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (snapshot schema %d, %s/%s)\n",
				appName, version, metadata.SchemaVersion, sys.OS, sys.Arch)
			return nil
		},
	}
}
