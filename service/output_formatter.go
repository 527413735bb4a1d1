package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/version"
	"gopkg.in/yaml.v3"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	sectionStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#9A9A9A"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336"))

	gradeStyles = map[domain.Grade]lipgloss.Style{
		domain.GradeGood: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50")),
		domain.GradeFair: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF9800")),
		domain.GradePoor: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F44336")),
	}
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	showComments bool
}

// NewOutputFormatter creates a formatter that includes the comment report in text output
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{showComments: true}
}

// NewOutputFormatterWithOptions creates a formatter with explicit text options
func NewOutputFormatterWithOptions(showComments bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{showComments: showComments}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes a single report in the specified format
func (f *OutputFormatterImpl) Write(report *domain.AnalysisReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, report)
	case domain.OutputFormatText:
		return f.writeReportText(report, writer)
	case domain.OutputFormatHTML:
		batch := &domain.BatchResponse{
			Reports:     []*domain.AnalysisReport{report},
			GeneratedAt: report.GeneratedAt,
			DurationMs:  report.DurationMs,
			Version:     report.Version,
		}
		batch.Summarize(1)
		return f.WriteHTML(batch, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteBatch writes a multi-document response in the specified format
func (f *OutputFormatterImpl) WriteBatch(response *domain.BatchResponse, format domain.OutputFormat, writer io.Writer, duration time.Duration) error {
	if response.DurationMs == 0 {
		response.DurationMs = duration.Milliseconds()
	}
	if response.Version == "" {
		response.Version = version.Version
	}

	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatText:
		return f.writeBatchText(response, writer)
	case domain.OutputFormatHTML:
		return f.WriteHTML(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeBatchText writes every report followed by the batch summary
func (f *OutputFormatterImpl) writeBatchText(response *domain.BatchResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n%s\n", titleStyle.Render("=== smellscan Analysis Report ==="))
	if response.GeneratedAt != "" {
		fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	}
	fmt.Fprintf(writer, "Duration: %dms\n", response.DurationMs)
	fmt.Fprintf(writer, "Version: %s\n", response.Version)

	for _, report := range response.Reports {
		if err := f.writeReportText(report, writer); err != nil {
			return err
		}
	}

	s := response.Summary
	fmt.Fprintf(writer, "\n%s\n", sectionStyle.Render("Summary:"))
	fmt.Fprintf(writer, "  Files analyzed: %d of %d\n", s.AnalyzedFiles, s.TotalFiles)
	fmt.Fprintf(writer, "  Total lines: %d\n", s.TotalLines)
	fmt.Fprintf(writer, "  Total functions: %d\n", s.TotalFunctions)
	fmt.Fprintf(writer, "  Total findings: %d\n", s.TotalFindings)
	fmt.Fprintf(writer, "  Average score: %.1f\n", s.AverageScore)
	fmt.Fprintf(writer, "  Lowest score: %d\n", s.MinScore)
	if s.PoorFiles > 0 {
		fmt.Fprintf(writer, "  Poor files: %s\n", errorStyle.Render(fmt.Sprint(s.PoorFiles)))
	}
	if s.PartialAnalyses > 0 {
		fmt.Fprintf(writer, "  Partial analyses: %s\n", warnStyle.Render(fmt.Sprint(s.PartialAnalyses)))
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\n%s\n", sectionStyle.Render("Errors:"))
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", errorStyle.Render(e))
		}
	}

	return nil
}

// writeReportText writes one report as plain text
func (f *OutputFormatterImpl) writeReportText(report *domain.AnalysisReport, writer io.Writer) error {
	fmt.Fprintf(writer, "\n%s\n\n", titleStyle.Render("=== "+displayName(report.Name)+" ==="))

	gradeStyle, ok := gradeStyles[report.Grade]
	if !ok {
		gradeStyle = lipgloss.NewStyle()
	}
	fmt.Fprintf(writer, "Quality score: %s\n",
		gradeStyle.Render(fmt.Sprintf("%d/100 (%s)", report.QualityScore, report.Grade)))
	fmt.Fprintf(writer, "Lines: %d  TODOs: %d  %s\n", report.LineCount, report.TodoCount,
		mutedStyle.Render("digest "+report.Digest))

	m := report.Metrics
	fmt.Fprintf(writer, "\n%s\n", sectionStyle.Render("Metrics:"))
	fmt.Fprintf(writer, "  Functions: %d\n", m.Functions)
	fmt.Fprintf(writer, "  Complexity: %d\n", m.Complexity)
	fmt.Fprintf(writer, "  Avg function length: %d\n", m.AvgFunctionLength)
	fmt.Fprintf(writer, "  Max nesting: %d\n", m.MaxNesting)
	fmt.Fprintf(writer, "  Duplication: %s\n", report.Duplication)

	findings := report.Findings
	if !f.showComments {
		findings = report.PatternFindings()
	}
	fmt.Fprintf(writer, "\n%s\n", sectionStyle.Render(fmt.Sprintf("Findings (%d):", len(findings))))
	if len(findings) == 0 {
		fmt.Fprintf(writer, "  No findings.\n")
	}
	for _, finding := range findings {
		severity := "[" + strings.ToUpper(string(finding.Severity)) + "]"
		if finding.Severity == domain.SeverityWarning {
			severity = warnStyle.Render(severity)
		}
		fmt.Fprintf(writer, "  Line %d: %s %s %s\n", finding.Line, severity, finding.Type, finding.Message)
	}

	if f.showComments {
		c := report.Comments
		fmt.Fprintf(writer, "\n%s\n", sectionStyle.Render("Comments:"))
		fmt.Fprintf(writer, "  Total: %d  Documentation: %d  TODO markers: %d\n", c.Total, c.Documentation, c.Todos)
		fmt.Fprintf(writer, "  Good: %d  Needs improvement: %d  Missing: %d\n",
			c.Quality.Good, c.Quality.NeedsImprovement, c.Quality.Missing)
	}

	if len(report.Lint) > 0 {
		fmt.Fprintf(writer, "\n%s\n", sectionStyle.Render(fmt.Sprintf("Lint (%d):", len(report.Lint))))
		for _, d := range report.Lint {
			severity := d.Severity.String()
			if d.Severity == domain.LintSeverityError {
				severity = errorStyle.Render(severity)
			}
			rule := d.RuleID
			if rule == "" {
				rule = "-"
			}
			fmt.Fprintf(writer, "  %d:%d %s %s %s\n", d.Line, d.Column, severity, rule, d.Message)
		}
	}

	if report.Partial {
		fmt.Fprintf(writer, "\n%s\n", warnStyle.Render("Partial analysis, skipped rules: "+strings.Join(report.SkippedRules, ", ")))
	}

	return nil
}
