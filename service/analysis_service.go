package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/analyzer"
	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/internal/lint"
	"github.com/ludo-technologies/smellscan/internal/log"
	"golang.org/x/sync/errgroup"
)

// AnalysisServiceImpl runs the pattern scanner, metrics, comment analysis and lint
// over one document and scores the result. It holds no per-call state, so one
// instance serves concurrent analyses.
type AnalysisServiceImpl struct {
	scanner  *analyzer.PatternScanner
	metrics  *analyzer.MetricsCalculator
	comments *analyzer.CommentAnalyzer
	scorer   *analyzer.QualityScorer
	lint     domain.LintProvider

	maxBytes int
	timeout  time.Duration
}

// NewAnalysisService builds the pipeline from configuration. A nil provider disables lint.
func NewAnalysisService(cfg *config.Config, provider domain.LintProvider) *AnalysisServiceImpl {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if provider == nil {
		provider = lint.NoopProvider{}
	}

	// an unvalidated config still gets a deadline
	timeoutMs := cfg.Budget.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = config.DefaultTimeoutMs
	}

	return &AnalysisServiceImpl{
		scanner:  analyzer.NewPatternScanner(enabledDetectors(&cfg.Rules)...),
		metrics:  analyzer.NewMetricsCalculator(),
		comments: analyzer.NewCommentAnalyzer(cfg.Rules.DocProximity),
		scorer:   analyzer.NewQualityScorer(scoreWeights(&cfg.Scoring)),
		lint:     provider,
		maxBytes: cfg.Budget.MaxBytes,
		timeout:  time.Duration(timeoutMs) * time.Millisecond,
	}
}

// NewDefaultAnalysisService uses the default configuration and no lint provider
func NewDefaultAnalysisService() *AnalysisServiceImpl {
	return NewAnalysisService(config.DefaultConfig(), nil)
}

// NewLintProvider assembles the providers enabled in the lint configuration
func NewLintProvider(cfg *config.LintConfig) domain.LintProvider {
	var providers []domain.LintProvider
	if cfg.Syntax {
		providers = append(providers, lint.NewSyntaxProvider())
	}
	if cfg.Report != "" {
		providers = append(providers, lint.LoadReportProvider(cfg.Report))
	}

	switch len(providers) {
	case 0:
		return lint.NoopProvider{}
	case 1:
		return providers[0]
	default:
		return lint.NewMultiProvider(providers...)
	}
}

// Analyze decodes the payload and analyzes it within the configured budget
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	if s.maxBytes > 0 && len(req.Payload) > s.maxBytes {
		return nil, domain.NewBudgetExceededError(
			fmt.Sprintf("%s is %d bytes, limit is %d", displayName(req.Name), len(req.Payload), s.maxBytes), nil)
	}

	doc, err := domain.NewSourceDocument(req.Name, req.Payload)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeDocument(ctx, doc)
}

// AnalyzeDocument runs every component concurrently over an already-decoded document.
// When the deadline passes during the pattern scan the report is marked partial
// and lists the rules that did not complete.
func (s *AnalysisServiceImpl) AnalyzeDocument(ctx context.Context, doc *domain.SourceDocument) (*domain.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewBudgetExceededError("deadline expired before analysis of "+displayName(doc.Name), err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		scan        *analyzer.ScanResult
		metrics     domain.Metrics
		comments    domain.CommentReport
		diagnostics []domain.LintDiagnostic
	)

	// components never fail; budget overruns surface through the scan result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scan = s.scanner.Scan(gctx, doc)
		return nil
	})
	g.Go(func() error {
		metrics = s.metrics.Calculate(doc)
		return nil
	})
	g.Go(func() error {
		comments = s.comments.Analyze(doc)
		return nil
	})
	g.Go(func() error {
		diagnostics = lint.Collect(gctx, s.lint, doc)
		return nil
	})
	_ = g.Wait()

	if scan.Partial() {
		log.Warn("pattern scan ran out of budget",
			"document", displayName(doc.Name),
			"skipped", strings.Join(scan.Skipped, ","))
	}

	score := s.scorer.Score(metrics, scan.Findings, diagnostics)

	findings := make([]domain.Finding, 0, len(scan.Findings)+len(comments.Suggestions))
	findings = append(findings, scan.Findings...)
	findings = append(findings, comments.Findings()...)

	log.Debug("analyzed document",
		"document", displayName(doc.Name),
		"score", score,
		"findings", len(findings),
		"lint", len(diagnostics))

	return &domain.AnalysisReport{
		Name:         doc.Name,
		Digest:       doc.Digest,
		LineCount:    doc.LineCount,
		TodoCount:    strings.Count(doc.Text, "TODO"),
		Metrics:      metrics,
		Duplication:  metrics.FormatDuplication(),
		QualityScore: score,
		Grade:        domain.GradeFor(score),
		Findings:     findings,
		Comments:     comments,
		Lint:         diagnostics,
		Partial:      scan.Partial(),
		SkippedRules: scan.Skipped,
	}, nil
}

// enabledDetectors builds the stock detectors, dropping the disabled ones
func enabledDetectors(rules *config.RulesConfig) []analyzer.Detector {
	all := analyzer.NewDetectors(analyzer.RuleThresholds{
		MaxFunctionLines:  rules.MaxFunctionLines,
		MaxConditionChars: rules.MaxConditionChars,
		MinRepeatedChars:  rules.MinRepeatedChars,
		MaxParameters:     rules.MaxParameters,
		MaxFileLines:      rules.MaxFileLines,
		MaxComponentLines: rules.MaxComponentLines,
		MarkupDepth:       rules.MarkupDepth,
	})

	enabled := make([]analyzer.Detector, 0, len(all))
	for _, d := range all {
		if rules.IsRuleEnabled(string(d.Type())) {
			enabled = append(enabled, d)
		}
	}
	return enabled
}

func scoreWeights(s *config.ScoringConfig) analyzer.ScoreWeights {
	return analyzer.ScoreWeights{
		ComplexityThreshold:     s.ComplexityThreshold,
		FunctionLengthThreshold: s.FunctionLengthThreshold,
		NestingThreshold:        s.NestingThreshold,
		DuplicationThreshold:    s.DuplicationThreshold,
		LintErrorDeduction:      s.LintErrorDeduction,
		LintWarningDeduction:    s.LintWarningDeduction,
		LintInfoDeduction:       s.LintInfoDeduction,
		FindingDeduction:        s.FindingDeduction,
		ComplexityWeight:        s.ComplexityWeight,
		FunctionLengthWeight:    s.FunctionLengthWeight,
		NestingWeight:           s.NestingWeight,
		DuplicationWeight:       s.DuplicationWeight,
	}
}

func displayName(name string) string {
	if name == "" {
		return domain.StdinName
	}
	return name
}
