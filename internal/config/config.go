package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/spf13/viper"
)

// Default rule thresholds. A finding is reported when a measured value exceeds the threshold.
const (
	// DefaultMaxFunctionLines is the longest function body, in lines, before function_length fires
	DefaultMaxFunctionLines = 20

	// DefaultMaxConditionChars is the longest if-condition before complex_condition fires
	DefaultMaxConditionChars = 100

	// DefaultMinRepeatedChars is the shortest span counted as repeated code
	DefaultMinRepeatedChars = 50

	// DefaultMaxParameters is the largest parameter list before too_many_parameters fires
	DefaultMaxParameters = 4

	// DefaultMaxFileLines is the longest document before large_file fires
	DefaultMaxFileLines = 300

	// DefaultMaxComponentLines is the longest component body before large_component fires
	DefaultMaxComponentLines = 100

	// DefaultMarkupDepth is the number of sequential tags that counts as deep nesting
	DefaultMarkupDepth = 4

	// DefaultDocProximity is how many characters a doc block may sit before its function
	DefaultDocProximity = 100
)

// Default scoring thresholds and deductions
const (
	DefaultComplexityThreshold     = 20
	DefaultFunctionLengthThreshold = 20
	DefaultNestingThreshold        = 3
	DefaultDuplicationThreshold    = 10.0

	DefaultLintErrorDeduction   = 5.0
	DefaultLintWarningDeduction = 2.0
	DefaultLintInfoDeduction    = 1.0
	DefaultFindingDeduction     = 2.0

	DefaultComplexityWeight     = 0.5
	DefaultFunctionLengthWeight = 0.5
	DefaultNestingWeight        = 2.0
	DefaultDuplicationWeight    = 0.5
)

// Default budget
const (
	// DefaultMaxBytes caps the size of a single document (5 MiB)
	DefaultMaxBytes = 5 << 20

	// DefaultTimeoutMs bounds one analysis
	DefaultTimeoutMs = 10000
)

// Config represents the main configuration structure
type Config struct {
	// Rules holds pattern rule thresholds
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules" toml:"rules"`

	// Scoring holds quality score thresholds and deductions
	Scoring ScoringConfig `json:"scoring" mapstructure:"scoring" yaml:"scoring" toml:"scoring"`

	// Budget bounds the work of a single analysis
	Budget BudgetConfig `json:"budget" mapstructure:"budget" yaml:"budget" toml:"budget"`

	// Lint configures the lint diagnostic providers
	Lint LintConfig `json:"lint" mapstructure:"lint" yaml:"lint" toml:"lint"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output" toml:"output"`

	// Analysis holds general file selection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis" toml:"analysis"`

	// Performance holds batch execution settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance" toml:"performance"`
}

// RulesConfig holds the thresholds of the pattern rules
type RulesConfig struct {
	MaxFunctionLines  int `json:"max_function_lines" mapstructure:"max_function_lines" yaml:"max_function_lines" toml:"max_function_lines"`
	MaxConditionChars int `json:"max_condition_chars" mapstructure:"max_condition_chars" yaml:"max_condition_chars" toml:"max_condition_chars"`
	MinRepeatedChars  int `json:"min_repeated_chars" mapstructure:"min_repeated_chars" yaml:"min_repeated_chars" toml:"min_repeated_chars"`
	MaxParameters     int `json:"max_parameters" mapstructure:"max_parameters" yaml:"max_parameters" toml:"max_parameters"`
	MaxFileLines      int `json:"max_file_lines" mapstructure:"max_file_lines" yaml:"max_file_lines" toml:"max_file_lines"`
	MaxComponentLines int `json:"max_component_lines" mapstructure:"max_component_lines" yaml:"max_component_lines" toml:"max_component_lines"`
	MarkupDepth       int `json:"markup_depth" mapstructure:"markup_depth" yaml:"markup_depth" toml:"markup_depth"`
	DocProximity      int `json:"doc_proximity" mapstructure:"doc_proximity" yaml:"doc_proximity" toml:"doc_proximity"`

	// Disabled lists finding types whose detectors are skipped
	Disabled []string `json:"disabled" mapstructure:"disabled" yaml:"disabled" toml:"disabled"`
}

// ScoringConfig holds the quality score parameters
type ScoringConfig struct {
	ComplexityThreshold     int     `json:"complexity_threshold" mapstructure:"complexity_threshold" yaml:"complexity_threshold" toml:"complexity_threshold"`
	FunctionLengthThreshold int     `json:"function_length_threshold" mapstructure:"function_length_threshold" yaml:"function_length_threshold" toml:"function_length_threshold"`
	NestingThreshold        int     `json:"nesting_threshold" mapstructure:"nesting_threshold" yaml:"nesting_threshold" toml:"nesting_threshold"`
	DuplicationThreshold    float64 `json:"duplication_threshold" mapstructure:"duplication_threshold" yaml:"duplication_threshold" toml:"duplication_threshold"`

	LintErrorDeduction   float64 `json:"lint_error_deduction" mapstructure:"lint_error_deduction" yaml:"lint_error_deduction" toml:"lint_error_deduction"`
	LintWarningDeduction float64 `json:"lint_warning_deduction" mapstructure:"lint_warning_deduction" yaml:"lint_warning_deduction" toml:"lint_warning_deduction"`
	LintInfoDeduction    float64 `json:"lint_info_deduction" mapstructure:"lint_info_deduction" yaml:"lint_info_deduction" toml:"lint_info_deduction"`
	FindingDeduction     float64 `json:"finding_deduction" mapstructure:"finding_deduction" yaml:"finding_deduction" toml:"finding_deduction"`

	ComplexityWeight     float64 `json:"complexity_weight" mapstructure:"complexity_weight" yaml:"complexity_weight" toml:"complexity_weight"`
	FunctionLengthWeight float64 `json:"function_length_weight" mapstructure:"function_length_weight" yaml:"function_length_weight" toml:"function_length_weight"`
	NestingWeight        float64 `json:"nesting_weight" mapstructure:"nesting_weight" yaml:"nesting_weight" toml:"nesting_weight"`
	DuplicationWeight    float64 `json:"duplication_weight" mapstructure:"duplication_weight" yaml:"duplication_weight" toml:"duplication_weight"`
}

// BudgetConfig bounds a single analysis
type BudgetConfig struct {
	// MaxBytes rejects larger documents outright (0 = no limit)
	MaxBytes int `json:"max_bytes" mapstructure:"max_bytes" yaml:"max_bytes" toml:"max_bytes"`

	// TimeoutMs is the deadline of one analysis, always >= 1
	TimeoutMs int `json:"timeout_ms" mapstructure:"timeout_ms" yaml:"timeout_ms" toml:"timeout_ms"`
}

// LintConfig selects the lint diagnostic providers
type LintConfig struct {
	// Syntax enables the built-in tree-sitter syntax checks
	Syntax bool `json:"syntax" mapstructure:"syntax" yaml:"syntax" toml:"syntax"`

	// Report is the path of an ESLint JSON report to read diagnostics from
	Report string `json:"report" mapstructure:"report" yaml:"report" toml:"report"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, html
	Format string `json:"format" mapstructure:"format" yaml:"format" toml:"format"`

	// ShowComments includes the comment report in text output
	ShowComments bool `json:"show_comments" mapstructure:"show_comments" yaml:"show_comments" toml:"show_comments"`

	// Path is where file-based formats are written (empty = stdout, or smellscan-report.html)
	Path string `json:"path" mapstructure:"path" yaml:"path" toml:"path"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies doublestar patterns of files to analyze
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns specifies doublestar patterns of files and directories to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive" toml:"recursive"`

	// RespectGitignore skips files matched by .gitignore at the walk root
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore" toml:"respect_gitignore"`
}

// PerformanceConfig holds batch execution settings
type PerformanceConfig struct {
	// MaxGoroutines limits concurrent document analyses (0 = number of CPUs)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines" toml:"max_goroutines"`

	// TimeoutSeconds bounds a whole batch
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			MaxFunctionLines:  DefaultMaxFunctionLines,
			MaxConditionChars: DefaultMaxConditionChars,
			MinRepeatedChars:  DefaultMinRepeatedChars,
			MaxParameters:     DefaultMaxParameters,
			MaxFileLines:      DefaultMaxFileLines,
			MaxComponentLines: DefaultMaxComponentLines,
			MarkupDepth:       DefaultMarkupDepth,
			DocProximity:      DefaultDocProximity,
			Disabled:          []string{},
		},
		Scoring: ScoringConfig{
			ComplexityThreshold:     DefaultComplexityThreshold,
			FunctionLengthThreshold: DefaultFunctionLengthThreshold,
			NestingThreshold:        DefaultNestingThreshold,
			DuplicationThreshold:    DefaultDuplicationThreshold,
			LintErrorDeduction:      DefaultLintErrorDeduction,
			LintWarningDeduction:    DefaultLintWarningDeduction,
			LintInfoDeduction:       DefaultLintInfoDeduction,
			FindingDeduction:        DefaultFindingDeduction,
			ComplexityWeight:        DefaultComplexityWeight,
			FunctionLengthWeight:    DefaultFunctionLengthWeight,
			NestingWeight:           DefaultNestingWeight,
			DuplicationWeight:       DefaultDuplicationWeight,
		},
		Budget: BudgetConfig{
			MaxBytes:  DefaultMaxBytes,
			TimeoutMs: DefaultTimeoutMs,
		},
		Lint: LintConfig{
			Syntax: true,
		},
		Output: OutputConfig{
			Format:       "text",
			ShowComments: true,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx",
				"**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/vendor/**",
				"**/dist/**",
				"**/build/**",
				"**/.next/**",
				"**/coverage/**",
				"**/.git/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  0,
			TimeoutSeconds: 300,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// When configPath is empty a config file is discovered upward from targetPath.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()
	config := DefaultConfig()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// newViper creates an isolated viper instance with environment overrides
// such as SMELLSCAN_BUDGET_TIMEOUT_MS
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper knows about
	defaults := DefaultConfig()
	v.SetDefault("budget.max_bytes", defaults.Budget.MaxBytes)
	v.SetDefault("budget.timeout_ms", defaults.Budget.TimeoutMs)
	v.SetDefault("lint.syntax", defaults.Lint.Syntax)
	v.SetDefault("lint.report", defaults.Lint.Report)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("performance.max_goroutines", defaults.Performance.MaxGoroutines)
	return v
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the file or directory being analyzed.
func findDefaultConfig(targetPath string) string {
	candidates := ConfigFileCandidates()

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// ConfigFileCandidates lists the config file names in order of preference
func ConfigFileCandidates() []string {
	return []string{
		"." + constants.ToolName + ".toml",
		constants.ToolName + ".toml",
		constants.ToolName + ".yaml",
		constants.ToolName + ".yml",
		"." + constants.ToolName + ".yml",
		constants.ToolName + ".json",
		"." + constants.ToolName + ".json",
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	positive := map[string]int{
		"rules.max_function_lines":  c.Rules.MaxFunctionLines,
		"rules.max_condition_chars": c.Rules.MaxConditionChars,
		"rules.min_repeated_chars":  c.Rules.MinRepeatedChars,
		"rules.max_parameters":      c.Rules.MaxParameters,
		"rules.max_file_lines":      c.Rules.MaxFileLines,
		"rules.max_component_lines": c.Rules.MaxComponentLines,
		"rules.markup_depth":        c.Rules.MarkupDepth,
		"rules.doc_proximity":       c.Rules.DocProximity,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", key, positive[key])
		}
	}

	// RE2 caps counted repetition at 1000
	if c.Rules.MaxConditionChars >= 1000 {
		return fmt.Errorf("rules.max_condition_chars must be < 1000, got %d", c.Rules.MaxConditionChars)
	}
	if c.Rules.MarkupDepth > 32 {
		return fmt.Errorf("rules.markup_depth must be <= 32, got %d", c.Rules.MarkupDepth)
	}

	known := make(map[string]bool, len(constants.RuleNames))
	for _, name := range constants.RuleNames {
		known[name] = true
	}
	for _, name := range c.Rules.Disabled {
		if !known[name] {
			return fmt.Errorf("rules.disabled: unknown rule '%s'", name)
		}
	}

	if c.Scoring.ComplexityThreshold < 0 || c.Scoring.FunctionLengthThreshold < 0 ||
		c.Scoring.NestingThreshold < 0 || c.Scoring.DuplicationThreshold < 0 {
		return fmt.Errorf("scoring thresholds cannot be negative")
	}

	weights := map[string]float64{
		"lint_error_deduction":   c.Scoring.LintErrorDeduction,
		"lint_warning_deduction": c.Scoring.LintWarningDeduction,
		"lint_info_deduction":    c.Scoring.LintInfoDeduction,
		"finding_deduction":      c.Scoring.FindingDeduction,
		"complexity_weight":      c.Scoring.ComplexityWeight,
		"function_length_weight": c.Scoring.FunctionLengthWeight,
		"nesting_weight":         c.Scoring.NestingWeight,
		"duplication_weight":     c.Scoring.DuplicationWeight,
	}
	for _, name := range sortedKeys(weights) {
		if weights[name] < 0 {
			return fmt.Errorf("scoring.%s cannot be negative, got %v", name, weights[name])
		}
	}

	if c.Budget.MaxBytes < 0 {
		return fmt.Errorf("budget.max_bytes must be >= 0, got %d", c.Budget.MaxBytes)
	}
	if c.Budget.TimeoutMs < 1 {
		return fmt.Errorf("budget.timeout_ms must be >= 1, got %d", c.Budget.TimeoutMs)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"html": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, html", c.Output.Format)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}

	return nil
}

// IsRuleEnabled reports whether the named rule is not disabled
func (c *RulesConfig) IsRuleEnabled(name string) bool {
	for _, d := range c.Disabled {
		if d == name {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
