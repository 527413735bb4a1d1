package analyzer

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/smellscan/domain"
)

// Pattern scanner

func TestPatternScanner_EmptyText(t *testing.T) {
	result := NewDefaultPatternScanner().Scan(context.Background(), newDoc(""))

	assert.Empty(t, result.Findings)
	assert.False(t, result.Partial())
}

func TestPatternScanner_RuleOrder(t *testing.T) {
	code := `const el = <div style={{ margin: 0 }} />;` + "\n" +
		"function wide(a, b, c, d, e) {}\n"

	result := NewDefaultPatternScanner().Scan(context.Background(), newDoc(code))

	require.Len(t, result.Findings, 2)
	// too_many_parameters runs before inline_styles even though it sits on a later line
	assert.Equal(t, domain.FindingTooManyParameters, result.Findings[0].Type)
	assert.Equal(t, 2, result.Findings[0].Line)
	assert.Equal(t, domain.FindingInlineStyles, result.Findings[1].Type)
	assert.Equal(t, 1, result.Findings[1].Line)
}

func TestPatternScanner_LongFunction(t *testing.T) {
	result := NewDefaultPatternScanner().Scan(context.Background(), newDoc(functionWithBody("big", 21)))
	assert.Equal(t, 1, domain.CountByType(result.Findings, domain.FindingFunctionLength))
}

func TestPatternScanner_LargeFile(t *testing.T) {
	scanner := NewDefaultPatternScanner()

	result := scanner.Scan(context.Background(), newDoc(strings.Repeat("x\n", 300)))
	assert.Equal(t, 1, domain.CountByType(result.Findings, domain.FindingLargeFile))

	result = scanner.Scan(context.Background(), newDoc(strings.Repeat("x\n", 299)+"x"))
	assert.Equal(t, 0, domain.CountByType(result.Findings, domain.FindingLargeFile))
}

func TestPatternScanner_Deterministic(t *testing.T) {
	code := sampleComponent()
	scanner := NewDefaultPatternScanner()

	first, err := json.Marshal(scanner.Scan(context.Background(), newDoc(code)))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(scanner.Scan(context.Background(), newDoc(code)))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestPatternScanner_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewDefaultPatternScanner().Scan(ctx, newDoc(sampleComponent()))

	assert.Empty(t, result.Findings)
	assert.True(t, result.Partial())
	assert.Len(t, result.Skipped, 10)
	assert.Equal(t, string(domain.FindingFunctionLength), result.Skipped[0])
}

// stallDetector stands in for a costly rule that never finishes within the budget
type stallDetector struct{}

func (stallDetector) Type() domain.FindingType { return domain.FindingRepeatedCode }
func (stallDetector) costly()                  {}

func (stallDetector) Detect(ctx context.Context, _ *domain.SourceDocument) ([]domain.Finding, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPatternScanner_DeadlineDegrades(t *testing.T) {
	scanner := NewPatternScanner(
		NewFunctionLengthDetector(20),
		stallDetector{},
		NewLargeFileDetector(300),
		NewInlineStyleDetector(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	code := strings.Repeat("x\n", 300) + `<p style={{ margin: 0 }} />`
	start := time.Now()
	result := scanner.Scan(ctx, newDoc(code))

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, []string{string(domain.FindingRepeatedCode)}, result.Skipped)
	require.Len(t, result.Findings, 2)
	assert.Equal(t, domain.FindingLargeFile, result.Findings[0].Type)
	assert.Equal(t, domain.FindingInlineStyles, result.Findings[1].Type)
}

// randomLines builds lines of pseudo-random lowercase text, the same for every call
func randomLines(lines, width int) string {
	rng := rand.New(rand.NewPCG(1, 2))
	var b strings.Builder
	for i := 0; i < lines; i++ {
		for j := 0; j < width; j++ {
			b.WriteByte(byte('a' + rng.IntN(26)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestPatternScanner_LargeBraceFreeDocument(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := NewDefaultPatternScanner().Scan(ctx, newDoc(randomLines(301, 1000)))

	assert.False(t, result.Partial(), "skipped %v", result.Skipped)
	assert.Equal(t, 1, domain.CountByType(result.Findings, domain.FindingLargeFile))
}

func TestPatternScanner_CustomDetectors(t *testing.T) {
	scanner := NewPatternScanner(NewLargeFileDetector(1))
	require.Len(t, scanner.Detectors(), 1)

	result := scanner.Scan(context.Background(), newDoc("a\nb"))
	require.Len(t, result.Findings, 1)
	assert.Equal(t, domain.FindingLargeFile, result.Findings[0].Type)
}

// Metrics

func TestMetricsCalculator_EmptyText(t *testing.T) {
	m := NewMetricsCalculator().Calculate(newDoc(""))

	assert.Equal(t, 0, m.Functions)
	assert.Equal(t, 0, m.Complexity)
	assert.Equal(t, 0, m.AvgFunctionLength)
	assert.Equal(t, 0, m.MaxNesting)
	assert.Equal(t, "0.0%", m.FormatDuplication())
}

func TestMetricsCalculator_Functions(t *testing.T) {
	code := "function a() {\n  x;\n}\nfunction b() { y; }"
	m := NewMetricsCalculator().Calculate(newDoc(code))

	assert.Equal(t, 2, m.Functions)
	assert.Equal(t, 2, m.AvgFunctionLength) // (3 + 1) / 2
}

func TestMetricsCalculator_AverageRoundsHalfUp(t *testing.T) {
	code := "function a() { x; }\nfunction b() {\n}"
	m := NewMetricsCalculator().Calculate(newDoc(code))

	assert.Equal(t, 2, m.AvgFunctionLength) // (1 + 2) / 2 = 1.5
}

func TestMetricsCalculator_SingleLongFunction(t *testing.T) {
	m := NewMetricsCalculator().Calculate(newDoc(functionWithBody("big", 21)))

	assert.Equal(t, 1, m.Functions)
	assert.Equal(t, 21, m.AvgFunctionLength)
}

func TestMetricsCalculator_Complexity(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"if (a) { b(); } else { c(); }", 2},
		{"switch (x) { case 1: break; case 2: break; }", 3},
		{"try { run(); } catch (e) {}", 1},
		{"while (true) {}", 1},
		// keyword substrings count too
		{"format(platform)", 2},
		{"const a = 1;", 0},
	}

	calc := NewMetricsCalculator()
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Calculate(newDoc(tt.code)).Complexity)
		})
	}
}

func TestMaxBraceNesting(t *testing.T) {
	tests := map[string]int{
		"{{{}}}":    3,
		"{}{}{}":    1,
		"":          0,
		"}}}{":      0,
		"{{{":       3,
		"}}{{{}}}}": 1,
	}
	for text, want := range tests {
		assert.Equal(t, want, MaxBraceNesting(text), "text %q", text)
	}
}

func TestDuplicationPercent(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"a\nb", 0},
		{"a\na\nb\n", 25},
		{"\n\n", 66.7},
		{"x\nx\nx", 66.7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DuplicationPercent(tt.text), "text %q", tt.text)
	}
}

// Comments

func commentFixture() string {
	return strings.Join([]string{
		"// NOTE: keep in sync",
		"/**",
		" * Adds numbers.",
		" */",
		"function add(a, b) { return a + b; }",
		`const filler = "` + strings.Repeat("x", 110) + `";`,
		"function sub(a, b) { return a - b; }",
		"// TODO: handle overflow",
		"/* block */",
	}, "\n")
}

func TestCommentAnalyzer_Counts(t *testing.T) {
	report := NewCommentAnalyzer(DefaultDocProximity).Analyze(newDoc(commentFixture()))

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Documentation)
	assert.Equal(t, 1, report.Todos)
	assert.Equal(t, domain.CommentQuality{Good: 1, NeedsImprovement: 2, Missing: 1}, report.Quality)
}

func TestCommentAnalyzer_SuggestionOrder(t *testing.T) {
	report := NewCommentAnalyzer(DefaultDocProximity).Analyze(newDoc(commentFixture()))

	want := []domain.CommentSuggestion{
		{Type: domain.FindingMissingDoc, Message: "Function 'sub' is missing documentation", Line: 7},
		{Type: domain.FindingImproveComment, Message: "Consider improving this comment with more details", Line: 1},
		{Type: domain.FindingImproveComment, Message: "Consider improving this comment with more details", Line: 8},
	}
	assert.Equal(t, want, report.Suggestions)
}

func TestCommentAnalyzer_DocProximity(t *testing.T) {
	code := "/** docs */" + strings.Repeat(" ", 40) + "function f() {}"

	report := NewCommentAnalyzer(100).Analyze(newDoc(code))
	assert.Equal(t, 1, report.Quality.Good)

	report = NewCommentAnalyzer(20).Analyze(newDoc(code))
	assert.Equal(t, 1, report.Quality.Missing)
}

func TestCommentAnalyzer_DocAfterFunction(t *testing.T) {
	report := NewCommentAnalyzer(DefaultDocProximity).Analyze(newDoc("function f() {}\n/** late */"))

	assert.Equal(t, 0, report.Quality.Good)
	assert.Equal(t, 1, report.Quality.Missing)
}

func TestCommentAnalyzer_EmptyText(t *testing.T) {
	report := NewCommentAnalyzer(DefaultDocProximity).Analyze(newDoc(""))

	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Suggestions)
	assert.Empty(t, report.Findings())
}

func TestCommentAnalyzer_TodoMarkers(t *testing.T) {
	report := NewCommentAnalyzer(DefaultDocProximity).Analyze(newDoc("x; // FIXME\ny; /* HACK XXX */\nTODO"))

	assert.Equal(t, 4, report.Todos)
	assert.Equal(t, 1, report.Quality.NeedsImprovement)
}

// Scoring

func TestQualityScorer_Score(t *testing.T) {
	lint := func(sevs ...domain.LintSeverity) []domain.LintDiagnostic {
		out := make([]domain.LintDiagnostic, len(sevs))
		for i, s := range sevs {
			out[i] = domain.LintDiagnostic{Line: 1, Severity: s}
		}
		return out
	}

	tests := []struct {
		name     string
		metrics  domain.Metrics
		findings int
		lint     []domain.LintDiagnostic
		want     int
	}{
		{"clean", domain.Metrics{}, 0, nil, 100},
		{"lint errors and warning", domain.Metrics{}, 0, lint(2, 2, 1), 88},
		{"lint info", domain.Metrics{}, 0, lint(0), 99},
		{"unknown lint severity", domain.Metrics{}, 0, lint(7, -1), 100},
		{"findings", domain.Metrics{}, 3, nil, 94},
		{"complexity", domain.Metrics{Complexity: 30}, 0, nil, 95},
		{"complexity at threshold", domain.Metrics{Complexity: 20}, 0, nil, 100},
		{"function length rounds half up", domain.Metrics{AvgFunctionLength: 25}, 0, nil, 98},
		{"nesting", domain.Metrics{MaxNesting: 5}, 0, nil, 96},
		{"duplication", domain.Metrics{DuplicationPercent: 20}, 0, nil, 95},
		{"clamped at zero", domain.Metrics{MaxNesting: 100}, 60, lint(2, 2, 2), 0},
	}

	scorer := NewDefaultQualityScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.metrics, make([]domain.Finding, tt.findings), tt.lint)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQualityScorer_Bounds(t *testing.T) {
	scorer := NewDefaultQualityScorer()
	for _, code := range []string{"", sampleComponent(), strings.Repeat("{", 500), strings.Repeat("if else ", 1000)} {
		doc := newDoc(code)
		findings := NewDefaultPatternScanner().Scan(context.Background(), doc).Findings
		score := scorer.Score(NewMetricsCalculator().Calculate(doc), findings, nil)

		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestQualityScorer_CustomWeights(t *testing.T) {
	weights := DefaultScoreWeights()
	weights.FindingDeduction = 10

	got := NewQualityScorer(weights).Score(domain.Metrics{}, make([]domain.Finding, 2), nil)
	assert.Equal(t, 80, got)
}

func TestPipeline_EmptyText(t *testing.T) {
	doc := newDoc("")

	scan := NewDefaultPatternScanner().Scan(context.Background(), doc)
	metrics := NewMetricsCalculator().Calculate(doc)
	comments := NewCommentAnalyzer(DefaultDocProximity).Analyze(doc)

	assert.Empty(t, scan.Findings)
	assert.Empty(t, comments.Findings())
	assert.Equal(t, 100, NewDefaultQualityScorer().Score(metrics, scan.Findings, nil))
}

func sampleComponent() string {
	return strings.Join([]string{
		"import React from 'react';",
		"",
		"// TODO: split into smaller parts",
		"function TodoList(items, filter, sort, page, size) {",
		"  const data = loadItems(items);",
		"  for (let i = 0; i < items.length; i++) {",
		"    for (let j = 0; j < i; j++) {",
		"    }",
		"  }",
		"  return <div><ul><li><span style={{ color: 'red' }}>x</span></li></ul></div>;",
		"}",
	}, "\n")
}
