package lint

import (
	"context"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// issueSeverity maps syntax issue kinds to lint severities
var issueSeverity = map[parser.IssueKind]domain.LintSeverity{
	parser.IssueSyntaxError:  domain.LintSeverityError,
	parser.IssueMissingToken: domain.LintSeverityError,
	parser.IssueDebugger:     domain.LintSeverityWarning,
	parser.IssueVar:          domain.LintSeverityError,
}

// SyntaxProvider checks JavaScript and TypeScript documents with tree-sitter.
// Documents with other extensions get no diagnostics; unnamed input is treated as JavaScript.
type SyntaxProvider struct{}

// NewSyntaxProvider creates a syntax provider
func NewSyntaxProvider() *SyntaxProvider {
	return &SyntaxProvider{}
}

// Name identifies the provider
func (p *SyntaxProvider) Name() string { return "syntax" }

// Lint parses the document with a parser owned by this call
func (p *SyntaxProvider) Lint(ctx context.Context, doc *domain.SourceDocument) ([]domain.LintDiagnostic, error) {
	if !p.applies(doc.Name) {
		return []domain.LintDiagnostic{}, nil
	}

	ps := parser.NewParserForFile(doc.Name)
	defer ps.Close()

	issues, err := ps.Check(ctx, []byte(doc.Text))
	if err != nil {
		return nil, err
	}

	diagnostics := make([]domain.LintDiagnostic, 0, len(issues))
	for _, issue := range issues {
		diagnostics = append(diagnostics, domain.LintDiagnostic{
			Line:     issue.Line,
			Column:   issue.Column,
			Message:  issue.Message,
			RuleID:   string(issue.Kind),
			Severity: issueSeverity[issue.Kind],
		})
	}
	return diagnostics, nil
}

func (p *SyntaxProvider) applies(name string) bool {
	if name == "" || name == domain.StdinName {
		return true
	}
	return parser.IsSupportedFile(name)
}
