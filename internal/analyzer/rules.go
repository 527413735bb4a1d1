package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

// RuleThresholds holds the tunable limits of the pattern rules.
// A finding fires when the measured value exceeds the limit.
type RuleThresholds struct {
	MaxFunctionLines  int
	MaxConditionChars int
	MinRepeatedChars  int
	MaxParameters     int
	MaxFileLines      int
	MaxComponentLines int
	MarkupDepth       int
}

// DefaultRuleThresholds returns the stock rule limits
func DefaultRuleThresholds() RuleThresholds {
	return RuleThresholds{
		MaxFunctionLines:  20,
		MaxConditionChars: 100,
		MinRepeatedChars:  50,
		MaxParameters:     4,
		MaxFileLines:      300,
		MaxComponentLines: 100,
		MarkupDepth:       4,
	}
}

// Shared patterns. Function declarations are matched with a brace-free body,
// so the body ends at the first closing brace.
var (
	functionDeclPattern   = regexp.MustCompile(`function\s+\w+\s*\([^)]*\)\s*\{([^}]*)\}`)
	functionHeaderPattern = regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)`)
	nestedLoopPattern     = regexp.MustCompile(`for\s*\([^)]*\)\s*\{[^}]*for\s*\([^)]*\)`)
	callAssignPattern     = regexp.MustCompile(`=\s*[^=\n]*\([^)]*\)\s*;`)
	promiseHandledPattern = regexp.MustCompile(`await|\.then|\.catch`)
	componentPattern      = regexp.MustCompile(`(const|function)\s+\w+\s*=\s*(?:\([^)]*\)\s*=>|function\s*\([^)]*\))\s*\{([^}]*)\}`)
	inlineStylePattern    = regexp.MustCompile(`style\s*=\s*\{[^}]*\}`)
)

// Finding messages
const (
	msgComplexCondition = "Complex condition detected. Consider breaking it into smaller, more readable conditions."
	msgNestedLoops      = "Nested loops detected. Consider using array methods like map, filter, or reduce for better performance."
	msgRepeatedCode     = "Repeated code pattern detected. Consider extracting it into a reusable function."
	msgUnhandledPromise = "Possible unhandled promise. Use await or .then/.catch to handle it."
	msgDeepNesting      = "Deeply nested JSX detected. Consider breaking it into smaller components for better readability."
	msgInlineStyles     = "Inline styles detected. Consider using CSS classes or styled-components for better maintainability."
)

// NewDetectors builds every pattern rule in scan order
func NewDetectors(t RuleThresholds) []Detector {
	return []Detector{
		NewFunctionLengthDetector(t.MaxFunctionLines),
		NewComplexConditionDetector(t.MaxConditionChars),
		NewNestedLoopDetector(),
		NewRepeatedCodeDetector(t.MinRepeatedChars),
		NewParameterCountDetector(t.MaxParameters),
		NewUnhandledPromiseDetector(),
		NewLargeFileDetector(t.MaxFileLines),
		NewLargeComponentDetector(t.MaxComponentLines),
		NewDeepNestingDetector(t.MarkupDepth),
		NewInlineStyleDetector(),
	}
}

// NewFunctionLengthDetector flags function declarations whose body spans more than maxLines
func NewFunctionLengthDetector(maxLines int) Detector {
	return newEvaluatingDetector(domain.FindingFunctionLength, domain.SeverityWarning, functionDeclPattern,
		func(text string, loc []int) (string, bool) {
			lines := lineSpan(group(text, loc, 1))
			if lines <= maxLines {
				return "", false
			}
			return fmt.Sprintf("Function is %d lines long. Consider breaking it into smaller functions for better maintainability.", lines), true
		})
}

// NewComplexConditionDetector flags if-conditions of more than maxChars characters.
// The limit must stay below the regexp repetition cap of 1000.
func NewComplexConditionDetector(maxChars int) Detector {
	pattern := regexp.MustCompile(fmt.Sprintf(`if\s*\([^)]{%d,}\)`, maxChars))
	return NewRegexDetector(domain.FindingComplexCondition, domain.SeverityWarning, pattern, msgComplexCondition)
}

// NewNestedLoopDetector flags a for-loop whose body textually holds another for header
func NewNestedLoopDetector() Detector {
	return NewRegexDetector(domain.FindingNestedLoops, domain.SeverityWarning, nestedLoopPattern, msgNestedLoops)
}

// NewParameterCountDetector flags function declarations with more than maxParams parameters
func NewParameterCountDetector(maxParams int) Detector {
	return newEvaluatingDetector(domain.FindingTooManyParameters, domain.SeverityWarning, functionHeaderPattern,
		func(text string, loc []int) (string, bool) {
			count := countParameters(group(text, loc, 2))
			if count <= maxParams {
				return "", false
			}
			return fmt.Sprintf("Function has %d parameters. Consider passing an object or refactoring.", count), true
		})
}

// countParameters counts non-blank comma separated entries
func countParameters(list string) int {
	count := 0
	for _, p := range strings.Split(list, ",") {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}

// NewUnhandledPromiseDetector flags call assignments that neither await nor chain the result.
// Any call counts, whether or not it returns a promise.
func NewUnhandledPromiseDetector() Detector {
	return newEvaluatingDetector(domain.FindingUnhandledPromise, domain.SeverityWarning, callAssignPattern,
		func(text string, loc []int) (string, bool) {
			if promiseHandledPattern.MatchString(text[loc[0]:loc[1]]) {
				return "", false
			}
			return msgUnhandledPromise, true
		})
}

// NewLargeComponentDetector flags function-valued declarations whose body spans more than maxLines
func NewLargeComponentDetector(maxLines int) Detector {
	return newEvaluatingDetector(domain.FindingLargeComponent, domain.SeverityWarning, componentPattern,
		func(text string, loc []int) (string, bool) {
			lines := lineSpan(group(text, loc, 2))
			if lines <= maxLines {
				return "", false
			}
			return fmt.Sprintf("Component is %d lines long. Consider breaking it into smaller components for better maintainability.", lines), true
		})
}

// NewDeepNestingDetector flags depth or more markup tags in sequence
func NewDeepNestingDetector(depth int) Detector {
	tags := make([]string, depth)
	for i := range tags {
		tags[i] = `<[^>]*>`
	}
	pattern := regexp.MustCompile(strings.Join(tags, `[^<]*`))
	return NewRegexDetector(domain.FindingDeepNesting, domain.SeverityWarning, pattern, msgDeepNesting)
}

// NewInlineStyleDetector flags style={...} attributes
func NewInlineStyleDetector() Detector {
	return NewRegexDetector(domain.FindingInlineStyles, domain.SeverityInfo, inlineStylePattern, msgInlineStyles)
}

// LargeFileDetector reports a single document-level finding for long documents
type LargeFileDetector struct {
	maxLines int
}

// NewLargeFileDetector flags documents of more than maxLines lines
func NewLargeFileDetector(maxLines int) *LargeFileDetector {
	return &LargeFileDetector{maxLines: maxLines}
}

// Type returns the finding type
func (d *LargeFileDetector) Type() domain.FindingType {
	return domain.FindingLargeFile
}

// Detect reports at line 1 when the document is too long
func (d *LargeFileDetector) Detect(_ context.Context, doc *domain.SourceDocument) ([]domain.Finding, error) {
	if doc.LineCount <= d.maxLines {
		return nil, nil
	}
	return []domain.Finding{{
		Type:     domain.FindingLargeFile,
		Severity: domain.SeverityWarning,
		Message:  fmt.Sprintf("File is %d lines long. Consider splitting into multiple modules.", doc.LineCount),
		Line:     1,
	}}, nil
}
