package cmd

import (
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Validate the icon tree and write the manifest",
		Long: `Generate validates every file under the scan root (path safety,
content signatures, naming), resolves the deterministic ordering, and
atomically writes the manifest. Any fatal issue aborts the run before
anything is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}
	addPipelineFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Manifest output path (default from config)")
	cmd.Flags().String("format", "", "Manifest format: json or yaml (default from config)")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	res, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		res.cfg.Output = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		res.cfg.Format = v
	}
	return writeManifest(res)
}
