package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

// controlKeywordPattern counts keyword substrings, so "format" counts as "for"
var controlKeywordPattern = regexp.MustCompile(`if|else|for|while|switch|case|catch`)

// MetricsCalculator computes structural counts over a document
type MetricsCalculator struct{}

// NewMetricsCalculator creates a metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate computes all metrics. It never fails, including on unbalanced braces.
func (c *MetricsCalculator) Calculate(doc *domain.SourceDocument) domain.Metrics {
	functions, avgLength := functionStats(doc.Text)

	return domain.Metrics{
		Functions:          functions,
		Complexity:         len(controlKeywordPattern.FindAllStringIndex(doc.Text, -1)),
		AvgFunctionLength:  avgLength,
		MaxNesting:         MaxBraceNesting(doc.Text),
		DuplicationPercent: DuplicationPercent(doc.Text),
	}
}

// functionStats returns the function declaration count and the rounded mean body length
func functionStats(text string) (int, int) {
	matches := functionDeclPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return 0, 0
	}

	total := 0
	for _, loc := range matches {
		total += lineSpan(group(text, loc, 1))
	}
	return len(matches), roundHalfUp(float64(total) / float64(len(matches)))
}

// MaxBraceNesting returns the deepest running "{" depth. The counter may go
// negative on a stray "}" and only the maximum is kept.
func MaxBraceNesting(text string) int {
	depth, deepest := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case '}':
			depth--
		}
	}
	return deepest
}

// DuplicationPercent is the share of lines that repeat an earlier line,
// rounded to one decimal. Blank lines take part like any other text.
func DuplicationPercent(text string) float64 {
	lines := strings.Split(text, "\n")
	unique := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		unique[line] = struct{}{}
	}

	pct := float64(len(lines)-len(unique)) / float64(len(lines)) * 100
	return math.Floor(pct*10+0.5) / 10
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
