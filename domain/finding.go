package domain

// FindingType identifies the heuristic that produced a finding
type FindingType string

const (
	FindingFunctionLength    FindingType = "function_length"
	FindingComplexCondition  FindingType = "complex_condition"
	FindingNestedLoops       FindingType = "nested_loops"
	FindingRepeatedCode      FindingType = "repeated_code"
	FindingTooManyParameters FindingType = "too_many_parameters"
	FindingUnhandledPromise  FindingType = "unhandled_promise"
	FindingLargeFile         FindingType = "large_file"
	FindingLargeComponent    FindingType = "large_component"
	FindingDeepNesting       FindingType = "deep_nesting"
	FindingInlineStyles      FindingType = "inline_styles"

	// Documentation findings emitted by the comment analyzer
	FindingMissingDoc     FindingType = "missing_doc"
	FindingImproveComment FindingType = "improve_comment"
)

// Severity represents the severity of a finding
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Finding is one reported heuristic observation
type Finding struct {
	Type     FindingType `json:"type" yaml:"type"`
	Severity Severity    `json:"severity" yaml:"severity"`
	Message  string      `json:"message" yaml:"message"`
	Line     int         `json:"line" yaml:"line"`
}

// CountByType returns how many findings have the given type
func CountByType(findings []Finding, t FindingType) int {
	n := 0
	for _, f := range findings {
		if f.Type == t {
			n++
		}
	}
	return n
}
