package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "smellscan"

	// ConfigFileName is the default config file name
	ConfigFileName = ".smellscan.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SMELLSCAN"

	// DefaultHTMLReport is the file written for HTML output when no path is given
	DefaultHTMLReport = "smellscan-report.html"
)

// Pattern rule names, in the order the scanner runs them
const (
	RuleFunctionLength    = "function_length"
	RuleComplexCondition  = "complex_condition"
	RuleNestedLoops       = "nested_loops"
	RuleRepeatedCode      = "repeated_code"
	RuleTooManyParameters = "too_many_parameters"
	RuleUnhandledPromise  = "unhandled_promise"
	RuleLargeFile         = "large_file"
	RuleLargeComponent    = "large_component"
	RuleDeepNesting       = "deep_nesting"
	RuleInlineStyles      = "inline_styles"
)

// RuleNames lists every pattern rule in scan order
var RuleNames = []string{
	RuleFunctionLength,
	RuleComplexCondition,
	RuleNestedLoops,
	RuleRepeatedCode,
	RuleTooManyParameters,
	RuleUnhandledPromise,
	RuleLargeFile,
	RuleLargeComponent,
	RuleDeepNesting,
	RuleInlineStyles,
}

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatHTML = "html"
)
