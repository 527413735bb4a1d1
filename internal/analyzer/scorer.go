package analyzer

import (
	"math"

	"github.com/ludo-technologies/smellscan/domain"
)

// ScoreWeights holds the thresholds and deductions of the quality score
type ScoreWeights struct {
	ComplexityThreshold     int
	FunctionLengthThreshold int
	NestingThreshold        int
	DuplicationThreshold    float64

	LintErrorDeduction   float64
	LintWarningDeduction float64
	LintInfoDeduction    float64
	FindingDeduction     float64

	ComplexityWeight     float64
	FunctionLengthWeight float64
	NestingWeight        float64
	DuplicationWeight    float64
}

// DefaultScoreWeights returns the stock scoring parameters
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		ComplexityThreshold:     20,
		FunctionLengthThreshold: 20,
		NestingThreshold:        3,
		DuplicationThreshold:    10,
		LintErrorDeduction:      5,
		LintWarningDeduction:    2,
		LintInfoDeduction:       1,
		FindingDeduction:        2,
		ComplexityWeight:        0.5,
		FunctionLengthWeight:    0.5,
		NestingWeight:           2,
		DuplicationWeight:       0.5,
	}
}

// QualityScorer aggregates metrics, pattern findings and lint diagnostics into a 0-100 score
type QualityScorer struct {
	weights ScoreWeights
}

// NewQualityScorer creates a scorer with the given weights
func NewQualityScorer(weights ScoreWeights) *QualityScorer {
	return &QualityScorer{weights: weights}
}

// NewDefaultQualityScorer creates a scorer with the stock weights
func NewDefaultQualityScorer() *QualityScorer {
	return NewQualityScorer(DefaultScoreWeights())
}

// Score starts from 100 and subtracts every deduction, then rounds half up
// and clamps to [0, 100]. Only pattern findings should be passed; comment
// findings do not affect the score.
func (s *QualityScorer) Score(metrics domain.Metrics, findings []domain.Finding, diagnostics []domain.LintDiagnostic) int {
	w := s.weights
	score := 100.0

	for _, d := range diagnostics {
		score -= s.lintDeduction(d.Severity)
	}

	score -= float64(len(findings)) * w.FindingDeduction

	if metrics.Complexity > w.ComplexityThreshold {
		score -= float64(metrics.Complexity-w.ComplexityThreshold) * w.ComplexityWeight
	}
	if metrics.AvgFunctionLength > w.FunctionLengthThreshold {
		score -= float64(metrics.AvgFunctionLength-w.FunctionLengthThreshold) * w.FunctionLengthWeight
	}
	if metrics.MaxNesting > w.NestingThreshold {
		score -= float64(metrics.MaxNesting-w.NestingThreshold) * w.NestingWeight
	}
	if metrics.DuplicationPercent > w.DuplicationThreshold {
		score -= (metrics.DuplicationPercent - w.DuplicationThreshold) * w.DuplicationWeight
	}

	return clampScore(roundHalfUp(score))
}

// lintDeduction maps a severity to its penalty; unknown severities cost nothing
func (s *QualityScorer) lintDeduction(sev domain.LintSeverity) float64 {
	switch sev {
	case domain.LintSeverityError:
		return s.weights.LintErrorDeduction
	case domain.LintSeverityWarning:
		return s.weights.LintWarningDeduction
	case domain.LintSeverityInfo:
		return s.weights.LintInfoDeduction
	default:
		return 0
	}
}

func clampScore(score int) int {
	return int(math.Max(0, math.Min(100, float64(score))))
}
