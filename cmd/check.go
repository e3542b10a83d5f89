package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fulmenhq/icondex/pkg/logger"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Validate the icon tree without writing anything",
		Long: `Check runs the full validation pipeline and reports every issue, but
never writes a manifest. The exit code reflects the validation result,
which makes it suitable for CI gates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	addPipelineFlags(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	res, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	logger.Info("validation passed", logger.Int("icons", len(res.entries)))
	return nil
}
