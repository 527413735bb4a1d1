package analyzer

import (
	"context"

	"github.com/ludo-technologies/smellscan/domain"
)

// ScanResult is the outcome of one pattern scan
type ScanResult struct {
	// Findings from all rules, concatenated in rule order
	Findings []domain.Finding

	// Skipped names the rules that did not run to completion before the deadline
	Skipped []string
}

// Partial reports whether any rule was skipped
func (r *ScanResult) Partial() bool {
	return len(r.Skipped) > 0
}

// costly is implemented by detectors whose running time grows faster than the
// document. The scanner runs them after every other rule.
type costly interface {
	costly()
}

// PatternScanner runs an ordered list of detectors over a document
type PatternScanner struct {
	detectors []Detector

	// runOrder indexes detectors, cheap rules first
	runOrder []int
}

// NewPatternScanner creates a scanner reporting detectors in the given order
func NewPatternScanner(detectors ...Detector) *PatternScanner {
	runOrder := make([]int, 0, len(detectors))
	var deferred []int
	for i, d := range detectors {
		if _, ok := d.(costly); ok {
			deferred = append(deferred, i)
			continue
		}
		runOrder = append(runOrder, i)
	}

	return &PatternScanner{
		detectors: detectors,
		runOrder:  append(runOrder, deferred...),
	}
}

// NewDefaultPatternScanner creates a scanner with every rule at its stock threshold
func NewDefaultPatternScanner() *PatternScanner {
	return NewPatternScanner(NewDetectors(DefaultRuleThresholds())...)
}

// Detectors returns the detectors in scan order
func (s *PatternScanner) Detectors() []Detector {
	return s.detectors
}

// Scan runs every detector. Costly rules run last so a slow one cannot use up
// the budget of the others. Findings are still reported in scan order. Once ctx
// expires the interrupted rule keeps the findings it produced, and it and every
// rule that did not run are listed as skipped.
func (s *PatternScanner) Scan(ctx context.Context, doc *domain.SourceDocument) *ScanResult {
	found := make([][]domain.Finding, len(s.detectors))
	completed := make([]bool, len(s.detectors))

	for _, i := range s.runOrder {
		if ctx.Err() != nil {
			break
		}

		findings, err := s.detectors[i].Detect(ctx, doc)
		found[i] = findings
		if err != nil {
			break
		}
		completed[i] = true
	}

	result := &ScanResult{
		Findings: []domain.Finding{},
	}
	for i, d := range s.detectors {
		result.Findings = append(result.Findings, found[i]...)
		if !completed[i] {
			result.Skipped = append(result.Skipped, string(d.Type()))
		}
	}

	return result
}
