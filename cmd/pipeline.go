package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/icondex/internal/gitremote"
	"github.com/fulmenhq/icondex/internal/report"
	"github.com/fulmenhq/icondex/internal/scan"
	"github.com/fulmenhq/icondex/internal/svgmeta"
	"github.com/fulmenhq/icondex/internal/urltmpl"
	"github.com/fulmenhq/icondex/pkg/catalog"
	"github.com/fulmenhq/icondex/pkg/config"
	"github.com/fulmenhq/icondex/pkg/exitcode"
	"github.com/fulmenhq/icondex/pkg/logger"
	"github.com/fulmenhq/icondex/pkg/manifest"
)

// addPipelineFlags registers the flags shared by generate and check.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Repository owner (default: inferred from the origin remote)")
	cmd.Flags().String("repo", "", "Repository name (default: inferred from the origin remote)")
	cmd.Flags().String("branch", "", "Branch published in URLs (default: current branch or main)")
	cmd.Flags().String("template", "", "Handlebars URL template (path must use {{{path}}})")
	cmd.Flags().String("group", "", "Default group name for root-level files")
}

// pipelineResult is everything a run produced.
type pipelineResult struct {
	entries []catalog.Entry
	report  *catalog.Report
	cfg     *config.Config
	root    string
}

// runPipeline executes the full validation pipeline rooted at the first
// positional argument. It never writes anything.
func runPipeline(cmd *cobra.Command, args []string) (*pipelineResult, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, withCode(exitcode.FileSystemError, fmt.Errorf("cannot access scan root: %w", err))
	}
	if !info.IsDir() {
		return nil, withCode(exitcode.FileSystemError, fmt.Errorf("scan root %q is not a directory", root))
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, withCode(exitcode.ConfigError, err)
	}
	flags := cmd.Flags()
	applyOverrides(flags, cfg)

	if cfg.Owner == "" || cfg.Repo == "" {
		if rem, ok := gitremote.Infer(root); ok {
			if cfg.Owner == "" {
				cfg.Owner = rem.Owner
			}
			if cfg.Repo == "" {
				cfg.Repo = rem.Repo
			}
			if rem.Branch != "" && !flags.Changed("branch") {
				cfg.Branch = rem.Branch
			}
			logger.Debug("inferred repository coordinates from git remote",
				logger.String("owner", cfg.Owner), logger.String("repo", cfg.Repo))
		}
	}
	if needsCoordinates(cfg) {
		return nil, withCode(exitcode.ConfigError,
			fmt.Errorf("owner/repo are not configured and could not be inferred from a git remote"))
	}

	builder, err := urltmpl.New(cfg.URLTemplate, cfg.Owner, cfg.Repo, cfg.Branch)
	if err != nil {
		return nil, withCode(exitcode.ConfigError, err)
	}

	fs := osfs.New(root)
	walked, err := scan.New(fs, cfg.Extensions).Walk()
	if err != nil {
		return nil, withCode(exitcode.FileSystemError, err)
	}
	logger.Debug("scan complete",
		logger.Int("candidates", len(walked.Files)), logger.Int("skipped", walked.Skipped))

	src := scan.NewSource(fs)
	cat := catalog.New(src, catalog.Config{
		DefaultGroup: cfg.DefaultGroup,
		URLFor:       builder.For,
	})
	entries, rep := cat.Build(walked.Files)

	for _, w := range rep.Warnings {
		logger.Warn(w.String())
	}
	if rep.Failed() {
		fmt.Fprint(cmd.ErrOrStderr(), report.Failures(rep))
		return nil, withCode(exitcode.ValidationError,
			fmt.Errorf("%d fatal validation issue(s)", len(rep.Fatal)))
	}

	warnUnscalableSVGs(src, entries)
	fmt.Fprint(cmd.ErrOrStderr(), report.Summary(entries, rep))

	return &pipelineResult{entries: entries, report: rep, cfg: cfg, root: root}, nil
}

// warnUnscalableSVGs surfaces SVG icons that renderers cannot scale
// predictably. Diagnostics only; content already passed signature checks.
func warnUnscalableSVGs(src *scan.Source, entries []catalog.Entry) {
	for _, e := range entries {
		if !strings.HasSuffix(strings.ToLower(e.RelPath), ".svg") {
			continue
		}
		data, err := src.ReadAll(e.RelPath)
		if err != nil {
			continue
		}
		info, err := svgmeta.Inspect(data)
		if err != nil {
			logger.Warn("svg did not parse as XML", logger.String("path", e.RelPath), logger.Err(err))
			continue
		}
		if !info.Scalable() {
			logger.Warn("svg lacks viewBox and explicit dimensions",
				logger.String("path", e.RelPath))
		}
	}
}

// writeManifest encodes and atomically writes the manifest for a completed
// run. Relative output paths resolve against the scan root.
func writeManifest(res *pipelineResult) error {
	format, err := manifest.ParseFormat(res.cfg.Format)
	if err != nil {
		return withCode(exitcode.ConfigError, err)
	}

	entries := make([]manifest.Entry, 0, len(res.entries))
	for _, e := range res.entries {
		entries = append(entries, manifest.Entry{Name: e.DisplayName, URL: e.URL})
	}

	data, err := manifest.Encode(entries, format)
	if err != nil {
		return withCode(exitcode.GeneralError, err)
	}

	out := res.cfg.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(res.root, out)
	}
	if err := manifest.WriteAtomic(out, data); err != nil {
		return withCode(exitcode.FileSystemError, err)
	}

	logger.Info("manifest written",
		logger.String("path", out), logger.Int("icons", len(entries)))
	return nil
}

func applyOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if v, _ := flags.GetString("owner"); v != "" {
		cfg.Owner = v
	}
	if v, _ := flags.GetString("repo"); v != "" {
		cfg.Repo = v
	}
	if v, _ := flags.GetString("branch"); v != "" {
		cfg.Branch = v
	}
	if v, _ := flags.GetString("template"); v != "" {
		cfg.URLTemplate = v
	}
	if v, _ := flags.GetString("group"); v != "" {
		cfg.DefaultGroup = v
	}
}

// needsCoordinates reports whether the URL template references repository
// coordinates that are still unset.
func needsCoordinates(cfg *config.Config) bool {
	if cfg.Owner == "" && strings.Contains(cfg.URLTemplate, "{{owner}}") {
		return true
	}
	if cfg.Repo == "" && strings.Contains(cfg.URLTemplate, "{{repo}}") {
		return true
	}
	return false
}
