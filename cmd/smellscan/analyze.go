package main

import (
	"fmt"
	"path/filepath"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/ludo-technologies/smellscan/service"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	analysisFlags

	format     string
	jsonOutput bool
	htmlOutput bool
	outputPath string
	noProgress bool
	noComments bool
}

func analyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Analyze files for code smells and quality",
		Long: `Analyze files or directories and report pattern findings, metrics,
comment quality, lint diagnostics and a quality score per document.

Use "-" as the only path to analyze standard input.

Examples:
  smellscan analyze src/
  smellscan analyze --format json src/app.tsx
  smellscan analyze --html -o report.html src/
  cat component.jsx | smellscan analyze -
  smellscan analyze --disable inline_styles,large_file --timeout 2000 src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", constants.OutputFormatText,
		"Output format: text, json, yaml, html")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&opts.htmlOutput, "html", false,
		"Output results as HTML (shorthand for --format html)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "",
		"Output file path (default: stdout, "+constants.DefaultHTMLReport+" for HTML)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVar(&opts.noComments, "no-comments", false,
		"Leave the comment review out of text output")
	opts.register(cmd)

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := loadConfig(&opts.analysisFlags, args, func(o *service.ConfigOverrides) {
		if format := opts.selectedFormat(cmd); format != "" {
			o.OutputFormat = format
		}
		o.OutputPath = opts.outputPath
	})
	if err != nil {
		return err
	}
	if opts.noComments {
		cfg.Output.ShowComments = false
	}

	format := domain.OutputFormat(cfg.Output.Format)
	pm := service.NewProgressManager(!opts.noProgress && showsProgress(format, cfg))
	defer pm.Close()

	uc, err := newAnalyzeUseCase(cfg, pm, cmd.InOrStdin())
	if err != nil {
		return err
	}

	analyzeCfg := app.AnalyzeConfig{
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   cfg.Output.Path,
		Collect:      collectOptions(cfg),
	}
	if _, err := uc.Execute(cmd.Context(), analyzeCfg, args); err != nil {
		return err
	}

	if path := reportPath(format, cfg.Output.Path); path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", path)
	}
	return nil
}

// selectedFormat returns the format chosen on the command line, or "" to keep the config value
func (o *analyzeOptions) selectedFormat(cmd *cobra.Command) string {
	switch {
	case o.jsonOutput:
		return constants.OutputFormatJSON
	case o.htmlOutput:
		return constants.OutputFormatHTML
	case cmd.Flags().Changed("format"):
		return o.format
	default:
		return ""
	}
}

// showsProgress reports whether a progress bar would not interleave with the report
func showsProgress(format domain.OutputFormat, cfg *config.Config) bool {
	if cfg.Output.Path != "" || format == domain.OutputFormatHTML {
		return true
	}
	return format == domain.OutputFormatText
}

// reportPath returns the file a report was written to, or "" for stdout
func reportPath(format domain.OutputFormat, path string) string {
	if path == "" && format == domain.OutputFormatHTML {
		return constants.DefaultHTMLReport
	}
	return path
}
