package service

import (
	"fmt"
	"strconv"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/version"
)

// Check exit codes
const (
	CheckExitPass      = 0
	CheckExitViolation = 1
	CheckExitError     = 2
)

// CheckThresholds are the quality gate limits. A negative limit is not checked.
type CheckThresholds struct {
	// MinScore fails any document scoring below it
	MinScore int

	// MaxFindings caps the pattern findings of a single document
	MaxFindings int

	// MaxLintErrors caps the error-level lint diagnostics of a single document
	MaxLintErrors int

	// FailOnPartial turns an out-of-budget analysis into a violation
	FailOnPartial bool
}

// DefaultCheckThresholds fails documents graded poor and nothing else
func DefaultCheckThresholds() CheckThresholds {
	return CheckThresholds{
		MinScore:      60,
		MaxFindings:   -1,
		MaxLintErrors: -1,
	}
}

// CheckEvaluator turns a batch response into a pass/fail result
type CheckEvaluator struct {
	thresholds CheckThresholds
}

// NewCheckEvaluator creates an evaluator with the given thresholds
func NewCheckEvaluator(thresholds CheckThresholds) *CheckEvaluator {
	return &CheckEvaluator{thresholds: thresholds}
}

// Evaluate checks every report against the thresholds. Documents that failed
// to analyze make the result an error rather than a violation.
func (e *CheckEvaluator) Evaluate(response *domain.BatchResponse) *domain.CheckResult {
	th := e.thresholds
	result := &domain.CheckResult{
		Passed:      true,
		ExitCode:    CheckExitPass,
		Violations:  []domain.CheckViolation{},
		GeneratedAt: response.GeneratedAt,
		Duration:    response.DurationMs,
		Version:     version.Version,
		Summary: domain.CheckSummary{
			FilesAnalyzed: response.Summary.AnalyzedFiles,
			AverageScore:  response.Summary.AverageScore,
			MinScore:      response.Summary.MinScore,
		},
	}

	for _, report := range response.Reports {
		name := displayName(report.Name)
		patterns := report.PatternFindings()
		lintErrors := countLintErrors(report.Lint)

		result.Summary.TotalFindings += len(patterns)
		result.Summary.LintErrors += lintErrors

		if th.MinScore >= 0 && report.QualityScore < th.MinScore {
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "score",
				Rule:      "min-score",
				Severity:  "error",
				Message:   fmt.Sprintf("%s scored %d (%s)", name, report.QualityScore, report.Grade),
				Location:  name,
				Actual:    strconv.Itoa(report.QualityScore),
				Threshold: strconv.Itoa(th.MinScore),
			})
		}

		if th.MaxFindings >= 0 && len(patterns) > th.MaxFindings {
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "findings",
				Rule:      "max-findings",
				Severity:  "error",
				Message:   fmt.Sprintf("%s has %d pattern findings", name, len(patterns)),
				Location:  firstFindingLocation(name, patterns),
				Actual:    strconv.Itoa(len(patterns)),
				Threshold: strconv.Itoa(th.MaxFindings),
			})
		}

		if th.MaxLintErrors >= 0 && lintErrors > th.MaxLintErrors {
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "lint",
				Rule:      "max-lint-errors",
				Severity:  "error",
				Message:   fmt.Sprintf("%s has %d lint errors", name, lintErrors),
				Location:  name,
				Actual:    strconv.Itoa(lintErrors),
				Threshold: strconv.Itoa(th.MaxLintErrors),
			})
		}

		if report.Partial {
			severity := "warning"
			if th.FailOnPartial {
				severity = "error"
			}
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category: "budget",
				Rule:     "partial-analysis",
				Severity: severity,
				Message:  fmt.Sprintf("%s ran out of budget, %d rules skipped", name, len(report.SkippedRules)),
				Location: name,
				Actual:   strconv.Itoa(len(report.SkippedRules)),
			})
		}
	}

	for _, v := range result.Violations {
		if v.Severity == "error" {
			result.Passed = false
			result.ExitCode = CheckExitViolation
			break
		}
	}
	if len(response.Errors) > 0 {
		result.Passed = false
		result.ExitCode = CheckExitError
	}
	result.Summary.TotalViolations = len(result.Violations)

	return result
}

func countLintErrors(diagnostics []domain.LintDiagnostic) int {
	n := 0
	for _, d := range diagnostics {
		if d.Severity == domain.LintSeverityError {
			n++
		}
	}
	return n
}

func firstFindingLocation(name string, findings []domain.Finding) string {
	if len(findings) == 0 {
		return name
	}
	return fmt.Sprintf("%s:%d", name, findings[0].Line)
}
