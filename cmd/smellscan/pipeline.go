package main

import (
	"io"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/service"
	"github.com/spf13/cobra"
)

// analysisFlags are the configuration overrides shared by analyze, check and watch
type analysisFlags struct {
	configPath  string
	timeoutMs   int
	maxBytes    int
	jobs        int
	lintReport  string
	noSyntax    bool
	disable     []string
	include     []string
	exclude     []string
	noRecursive bool
	noGitignore bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "",
		"Path to config file (default: discovered from the first path)")
	fs.IntVar(&f.timeoutMs, "timeout", 0,
		"Analysis deadline per document in milliseconds (0 = config value)")
	fs.IntVar(&f.maxBytes, "max-bytes", 0,
		"Reject documents larger than this many bytes (0 = config value)")
	fs.IntVarP(&f.jobs, "jobs", "j", 0,
		"Documents analyzed concurrently (0 = config value)")
	fs.StringVar(&f.lintReport, "lint-report", "",
		"ESLint JSON report whose diagnostics are merged into the score")
	fs.BoolVar(&f.noSyntax, "no-syntax", false,
		"Disable the built-in syntax lint checks")
	fs.StringSliceVar(&f.disable, "disable", nil,
		"Rules to skip (comma-separated, see 'smellscan rules')")
	fs.StringSliceVar(&f.include, "include", nil,
		"Glob patterns of files to analyze in directories (replaces config)")
	fs.StringSliceVar(&f.exclude, "exclude", nil,
		"Glob patterns of files and directories to skip (added to config)")
	fs.BoolVar(&f.noRecursive, "no-recursive", false,
		"Do not descend into subdirectories")
	fs.BoolVar(&f.noGitignore, "no-gitignore", false,
		"Do not skip files matched by .gitignore")
}

func (f *analysisFlags) overrides() service.ConfigOverrides {
	return service.ConfigOverrides{
		TimeoutMs:     f.timeoutMs,
		MaxBytes:      f.maxBytes,
		MaxGoroutines: f.jobs,
		LintReport:    f.lintReport,
		NoSyntaxLint:  f.noSyntax,
		Disabled:      f.disable,
		Include:       f.include,
		Exclude:       f.exclude,
		NoRecursive:   f.noRecursive,
		NoGitignore:   f.noGitignore,
	}
}

// loadConfig loads the config file for the first path and applies the flag overrides
func loadConfig(f *analysisFlags, args []string, extra func(*service.ConfigOverrides)) (*config.Config, error) {
	target := ""
	if len(args) > 0 && args[0] != app.StdinPath {
		target = args[0]
	}

	loader := service.NewConfigurationLoader()
	base, err := loader.LoadConfig(f.configPath, target)
	if err != nil {
		return nil, err
	}

	overrides := f.overrides()
	if extra != nil {
		extra(&overrides)
	}
	return loader.MergeConfig(base, overrides)
}

func collectOptions(cfg *config.Config) app.CollectOptions {
	return app.CollectOptions{
		Recursive:        cfg.Analysis.Recursive,
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		RespectGitignore: cfg.Analysis.RespectGitignore,
	}
}

// newBatchRunner wires the analysis pipeline described by cfg
func newBatchRunner(cfg *config.Config, pm domain.ProgressManager) *service.BatchAnalyzer {
	analysis := service.NewAnalysisService(cfg, service.NewLintProvider(&cfg.Lint))
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm)
	return service.NewBatchAnalyzer(analysis, executor)
}

func newAnalyzeUseCase(cfg *config.Config, pm domain.ProgressManager, stdin io.Reader) (*app.AnalyzeUseCase, error) {
	return app.NewAnalyzeUseCaseBuilder().
		WithBatchRunner(newBatchRunner(cfg, pm)).
		WithFormatter(service.NewOutputFormatterWithOptions(cfg.Output.ShowComments)).
		WithStdin(stdin).
		Build()
}
