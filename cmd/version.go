package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/icondex/pkg/buildinfo"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			extended, _ := cmd.Flags().GetBool("extended")
			fmt.Fprintf(cmd.OutOrStdout(), "icondex %s\n", buildinfo.BinaryVersion)
			if extended {
				if mv := buildinfo.ModuleVersion(); mv != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "module version: %s\n", mv)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("extended", false, "Include module build information")
	return cmd
}
