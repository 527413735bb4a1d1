package domain

import "context"

// LintSeverity follows the ESLint numeric convention
type LintSeverity int

const (
	LintSeverityInfo    LintSeverity = 0
	LintSeverityWarning LintSeverity = 1
	LintSeverityError   LintSeverity = 2
)

// String returns the display name of the severity
func (s LintSeverity) String() string {
	switch s {
	case LintSeverityError:
		return "error"
	case LintSeverityWarning:
		return "warning"
	case LintSeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintDiagnostic is one diagnostic produced by a linter outside the core
type LintDiagnostic struct {
	Line     int          `json:"line" yaml:"line"`
	Column   int          `json:"column" yaml:"column"`
	Message  string       `json:"message" yaml:"message"`
	RuleID   string       `json:"ruleId" yaml:"rule_id"`
	Severity LintSeverity `json:"severity" yaml:"severity"`
}

// LintProvider supplies lint diagnostics for a document.
// Implementations must be stateless so one instance can serve concurrent analyses.
type LintProvider interface {
	// Name identifies the provider in logs
	Name() string

	// Lint returns diagnostics for the document. Callers treat any error as an empty list.
	Lint(ctx context.Context, doc *SourceDocument) ([]LintDiagnostic, error)
}
