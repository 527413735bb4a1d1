package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

// Detector is one independent heuristic rule over the document text
type Detector interface {
	// Type is the finding type the detector emits; it doubles as the rule name
	Type() domain.FindingType

	// Detect returns the findings of this rule in text order. When ctx expires
	// mid-scan it returns the findings collected so far together with ctx.Err().
	Detect(ctx context.Context, doc *domain.SourceDocument) ([]domain.Finding, error)
}

// matchEvaluator turns a regex match into a finding message.
// Returning false drops the match.
type matchEvaluator func(text string, loc []int) (string, bool)

// RegexDetector reports one finding per non-overlapping regex match
type RegexDetector struct {
	findingType domain.FindingType
	severity    domain.Severity
	pattern     *regexp.Regexp
	evaluate    matchEvaluator
}

// NewRegexDetector builds a detector that reports message for every match of pattern
func NewRegexDetector(t domain.FindingType, severity domain.Severity, pattern *regexp.Regexp, message string) *RegexDetector {
	return &RegexDetector{
		findingType: t,
		severity:    severity,
		pattern:     pattern,
		evaluate: func(string, []int) (string, bool) {
			return message, true
		},
	}
}

func newEvaluatingDetector(t domain.FindingType, severity domain.Severity, pattern *regexp.Regexp, evaluate matchEvaluator) *RegexDetector {
	return &RegexDetector{
		findingType: t,
		severity:    severity,
		pattern:     pattern,
		evaluate:    evaluate,
	}
}

// Type returns the finding type
func (d *RegexDetector) Type() domain.FindingType {
	return d.findingType
}

// Detect scans the text match by match so a deadline can stop it between matches
func (d *RegexDetector) Detect(ctx context.Context, doc *domain.SourceDocument) ([]domain.Finding, error) {
	var findings []domain.Finding

	err := eachMatch(ctx, d.pattern, doc.Text, func(loc []int) {
		message, ok := d.evaluate(doc.Text, loc)
		if !ok {
			return
		}
		findings = append(findings, domain.Finding{
			Type:     d.findingType,
			Severity: d.severity,
			Message:  message,
			Line:     doc.LineAt(loc[0]),
		})
	})

	return findings, err
}

// eachMatch calls fn with the absolute submatch offsets of every leftmost
// non-overlapping match. The patterns used here carry no anchors or word
// boundaries, so searching a suffix yields the same matches as a global search.
func eachMatch(ctx context.Context, re *regexp.Regexp, text string, fn func(loc []int)) error {
	pos := 0
	for pos <= len(text) {
		if err := ctx.Err(); err != nil {
			return err
		}

		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return nil
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		fn(loc)

		if loc[1] > loc[0] {
			pos = loc[1]
		} else {
			pos = loc[1] + 1
		}
	}
	return nil
}

// group returns submatch n of loc, or "" when it did not participate
func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

// lineSpan is the number of "\n"-separated lines in s
func lineSpan(s string) int {
	return strings.Count(s, "\n") + 1
}
