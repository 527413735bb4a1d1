package main

import (
	"fmt"
	"io"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/ludo-technologies/smellscan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

type checkOptions struct {
	analysisFlags

	minScore      int
	maxFindings   int
	maxLintErrors int
	failOnPartial bool
	verbose       bool
	jsonOutput    bool
}

func checkCmd() *cobra.Command {
	opts := &checkOptions{}
	defaults := service.DefaultCheckThresholds()

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast quality gate for CI/CD pipelines",
		Long: `Analyze files and fail when any document breaks the quality thresholds.

Exit codes:
  0 - All checks pass
  1 - Quality threshold(s) violated
  2 - Analysis error (file not found, invalid config, etc.)

Examples:
  # Fail documents graded poor
  smellscan check src/

  # Strict gate
  smellscan check --min-score 80 --max-findings 5 --max-lint-errors 0 src/

  # Treat analyses that ran out of budget as failures
  smellscan check --fail-on-partial src/

  # JSON output for machine parsing
  smellscan check --json src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&opts.minScore, "min-score", defaults.MinScore,
		"Minimum quality score per document (-1 = unchecked)")
	cmd.Flags().IntVar(&opts.maxFindings, "max-findings", defaults.MaxFindings,
		"Maximum pattern findings per document (-1 = unchecked)")
	cmd.Flags().IntVar(&opts.maxLintErrors, "max-lint-errors", defaults.MaxLintErrors,
		"Maximum error-level lint diagnostics per document (-1 = unchecked)")
	cmd.Flags().BoolVar(&opts.failOnPartial, "fail-on-partial", defaults.FailOnPartial,
		"Fail when an analysis runs out of budget")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false,
		"Output results as JSON")
	opts.register(cmd)

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: service.CheckExitError, Message: "no paths specified"}
	}

	cfg, err := loadConfig(&opts.analysisFlags, args, nil)
	if err != nil {
		return &CheckExitError{Code: service.CheckExitError, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Progress is auto-disabled for JSON output or non-TTY/CI
	pm := service.NewProgressManager(!opts.jsonOutput)
	defer pm.Close()

	analyze, err := newAnalyzeUseCase(cfg, pm, cmd.InOrStdin())
	if err != nil {
		return &CheckExitError{Code: service.CheckExitError, Message: err.Error()}
	}
	evaluator := service.NewCheckEvaluator(service.CheckThresholds{
		MinScore:      opts.minScore,
		MaxFindings:   opts.maxFindings,
		MaxLintErrors: opts.maxLintErrors,
		FailOnPartial: opts.failOnPartial,
	})

	analyzeCfg := app.DefaultAnalyzeConfig()
	analyzeCfg.Collect = collectOptions(cfg)
	result, err := app.NewCheckUseCase(analyze, evaluator).Execute(cmd.Context(), analyzeCfg, args)
	if err != nil {
		return &CheckExitError{Code: service.CheckExitError, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		if err := service.WriteJSON(out, result); err != nil {
			return &CheckExitError{Code: service.CheckExitError, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
		}
	} else {
		outputCheckText(out, result, opts.verbose)
	}

	if result.ExitCode != service.CheckExitPass {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}

func outputCheckText(w io.Writer, result *domain.CheckResult, verbose bool) {
	switch {
	case result.Passed:
		fmt.Fprintln(w, "PASS: All quality checks passed")
	case result.ExitCode == service.CheckExitError:
		fmt.Fprintln(w, "ERROR: Some documents could not be analyzed")
	default:
		fmt.Fprintln(w, "FAIL: Quality check failed")
	}

	if len(result.Violations) > 0 {
		fmt.Fprintf(w, "  Violations: %d\n", result.Summary.TotalViolations)
	}
	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", severity, v.Category, v.Message)
		if verbose && v.Location != "" {
			fmt.Fprintf(w, "         at %s\n", v.Location)
		}
	}

	if verbose {
		fmt.Fprintf(w, "\nSummary:\n")
		fmt.Fprintf(w, "  Files: %d\n", result.Summary.FilesAnalyzed)
		fmt.Fprintf(w, "  Average score: %.1f\n", result.Summary.AverageScore)
		fmt.Fprintf(w, "  Lowest score: %d\n", result.Summary.MinScore)
		fmt.Fprintf(w, "  Pattern findings: %d\n", result.Summary.TotalFindings)
		fmt.Fprintf(w, "  Lint errors: %d\n", result.Summary.LintErrors)
		fmt.Fprintf(w, "  Duration: %dms\n", result.Duration)
		fmt.Fprintf(w, "  Run '%s analyze' for the full report.\n", constants.ToolName)
	}
}
