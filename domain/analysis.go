package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatHTML OutputFormat = "html"
)

// Grade buckets a quality score the way the report UI colours it
type Grade string

const (
	GradeGood Grade = "good"
	GradeFair Grade = "fair"
	GradePoor Grade = "poor"
)

// GradeFor maps a score to its grade: >= 80 good, >= 60 fair, otherwise poor
func GradeFor(score int) Grade {
	switch {
	case score >= 80:
		return GradeGood
	case score >= 60:
		return GradeFair
	default:
		return GradePoor
	}
}

// AnalysisRequest describes one document to analyze
type AnalysisRequest struct {
	// Name identifies the document (usually its path)
	Name string

	// Payload is the raw document content
	Payload []byte
}

// AnalysisReport is the complete result of analyzing one document
type AnalysisReport struct {
	Name         string           `json:"name" yaml:"name"`
	Digest       string           `json:"digest" yaml:"digest"`
	LineCount    int              `json:"line_count" yaml:"line_count"`
	TodoCount    int              `json:"todo_count" yaml:"todo_count"`
	Metrics      Metrics          `json:"metrics" yaml:"metrics"`
	Duplication  string           `json:"duplication" yaml:"duplication"`
	QualityScore int              `json:"quality_score" yaml:"quality_score"`
	Grade        Grade            `json:"grade" yaml:"grade"`
	Findings     []Finding        `json:"findings" yaml:"findings"`
	Comments     CommentReport    `json:"comments" yaml:"comments"`
	Lint         []LintDiagnostic `json:"lint" yaml:"lint"`

	// Partial is set when the pattern scan ran out of budget
	Partial      bool     `json:"partial,omitempty" yaml:"partial,omitempty"`
	SkippedRules []string `json:"skipped_rules,omitempty" yaml:"skipped_rules,omitempty"`

	// Metadata, left empty by deterministic analyses
	GeneratedAt string `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	DurationMs  int64  `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

// PatternFindings returns the findings that do not come from the comment analyzer
func (r *AnalysisReport) PatternFindings() []Finding {
	out := make([]Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		if f.Type == FindingMissingDoc || f.Type == FindingImproveComment {
			continue
		}
		out = append(out, f)
	}
	return out
}

// BatchSummary aggregates the reports of a multi-document run
type BatchSummary struct {
	TotalFiles      int     `json:"total_files" yaml:"total_files"`
	AnalyzedFiles   int     `json:"analyzed_files" yaml:"analyzed_files"`
	FailedFiles     int     `json:"failed_files" yaml:"failed_files"`
	TotalLines      int     `json:"total_lines" yaml:"total_lines"`
	TotalFindings   int     `json:"total_findings" yaml:"total_findings"`
	TotalFunctions  int     `json:"total_functions" yaml:"total_functions"`
	AverageScore    float64 `json:"average_score" yaml:"average_score"`
	MinScore        int     `json:"min_score" yaml:"min_score"`
	PoorFiles       int     `json:"poor_files" yaml:"poor_files"`
	PartialAnalyses int     `json:"partial_analyses" yaml:"partial_analyses"`
}

// BatchResponse holds the reports of a multi-document run
type BatchResponse struct {
	Reports     []*AnalysisReport `json:"reports" yaml:"reports"`
	Summary     BatchSummary      `json:"summary" yaml:"summary"`
	Errors      []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
	GeneratedAt string            `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64             `json:"duration_ms" yaml:"duration_ms"`
	Version     string            `json:"version" yaml:"version"`
}

// Summarize recomputes the summary from the reports
func (b *BatchResponse) Summarize(totalFiles int) {
	s := BatchSummary{TotalFiles: totalFiles, AnalyzedFiles: len(b.Reports)}
	s.FailedFiles = totalFiles - len(b.Reports)
	if s.FailedFiles < 0 {
		s.FailedFiles = 0
	}
	scoreSum := 0
	for i, r := range b.Reports {
		s.TotalLines += r.LineCount
		s.TotalFindings += len(r.Findings)
		s.TotalFunctions += r.Metrics.Functions
		scoreSum += r.QualityScore
		if i == 0 || r.QualityScore < s.MinScore {
			s.MinScore = r.QualityScore
		}
		if r.Grade == GradePoor {
			s.PoorFiles++
		}
		if r.Partial {
			s.PartialAnalyses++
		}
	}
	if len(b.Reports) > 0 {
		s.AverageScore = float64(scoreSum) / float64(len(b.Reports))
	}
	b.Summary = s
}

// AnalysisService defines the core analysis pipeline for one document
type AnalysisService interface {
	// Analyze runs every component over the payload and scores the result
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error)
}

// BatchRequest describes a multi-file run
type BatchRequest struct {
	Paths []string

	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	Recursive        bool
	IncludePatterns  []string
	ExcludePatterns  []string
	RespectGitignore bool
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Write writes a single report in the given format
	Write(report *AnalysisReport, format OutputFormat, writer io.Writer) error

	// WriteBatch writes a multi-document response in the given format
	WriteBatch(response *BatchResponse, format OutputFormat, writer io.Writer, duration time.Duration) error
}
