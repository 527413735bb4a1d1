package service

import (
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
)

// ConfigOverrides carries command-line values that take precedence over the config file.
// Zero values leave the file setting untouched.
type ConfigOverrides struct {
	OutputFormat  string
	OutputPath    string
	TimeoutMs     int
	MaxBytes      int
	MaxGoroutines int
	LintReport    string
	NoSyntaxLint  bool
	Disabled      []string
	Include       []string
	Exclude       []string
	NoRecursive   bool
	NoGitignore   bool
}

// ConfigurationLoaderImpl loads configuration files and merges command-line overrides
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads the file at path, or discovers one upward from target when path is empty
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadDefaultConfig returns the discovered configuration, or the defaults when none loads
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return cfg
	}
	return config.DefaultConfig()
}

// MergeConfig applies the overrides to a copy of base and validates the result
func (c *ConfigurationLoaderImpl) MergeConfig(base *config.Config, override ConfigOverrides) (*config.Config, error) {
	merged := *base
	merged.Rules.Disabled = append([]string(nil), base.Rules.Disabled...)

	if override.OutputFormat != "" {
		merged.Output.Format = override.OutputFormat
	}
	if override.OutputPath != "" {
		merged.Output.Path = override.OutputPath
	}
	if override.TimeoutMs > 0 {
		merged.Budget.TimeoutMs = override.TimeoutMs
	}
	if override.MaxBytes > 0 {
		merged.Budget.MaxBytes = override.MaxBytes
	}
	if override.MaxGoroutines > 0 {
		merged.Performance.MaxGoroutines = override.MaxGoroutines
	}
	if override.LintReport != "" {
		merged.Lint.Report = override.LintReport
	}
	if override.NoSyntaxLint {
		merged.Lint.Syntax = false
	}
	for _, rule := range override.Disabled {
		if merged.Rules.IsRuleEnabled(rule) {
			merged.Rules.Disabled = append(merged.Rules.Disabled, rule)
		}
	}
	if len(override.Include) > 0 {
		merged.Analysis.IncludePatterns = override.Include
	}
	if len(override.Exclude) > 0 {
		merged.Analysis.ExcludePatterns = append(append([]string(nil), base.Analysis.ExcludePatterns...), override.Exclude...)
	}
	if override.NoRecursive {
		merged.Analysis.Recursive = false
	}
	if override.NoGitignore {
		merged.Analysis.RespectGitignore = false
	}

	if err := merged.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return &merged, nil
}
