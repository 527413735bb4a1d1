// Package lint provides the injected sources of lint diagnostics.
// Every provider is stateless and safe for concurrent use.
package lint

import (
	"context"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/log"
)

// NoopProvider reports no diagnostics
type NoopProvider struct{}

// Name identifies the provider
func (NoopProvider) Name() string { return "noop" }

// Lint returns an empty list
func (NoopProvider) Lint(context.Context, *domain.SourceDocument) ([]domain.LintDiagnostic, error) {
	return []domain.LintDiagnostic{}, nil
}

// StaticProvider returns a fixed list of diagnostics for every document
type StaticProvider struct {
	diagnostics []domain.LintDiagnostic
}

// NewStaticProvider creates a provider that always returns diagnostics
func NewStaticProvider(diagnostics ...domain.LintDiagnostic) *StaticProvider {
	return &StaticProvider{diagnostics: diagnostics}
}

// Name identifies the provider
func (p *StaticProvider) Name() string { return "static" }

// Lint returns a copy of the fixed diagnostics
func (p *StaticProvider) Lint(context.Context, *domain.SourceDocument) ([]domain.LintDiagnostic, error) {
	out := make([]domain.LintDiagnostic, len(p.diagnostics))
	copy(out, p.diagnostics)
	return out, nil
}

// MultiProvider concatenates the diagnostics of several providers in order
type MultiProvider struct {
	providers []domain.LintProvider
}

// NewMultiProvider combines providers; nil entries are dropped
func NewMultiProvider(providers ...domain.LintProvider) *MultiProvider {
	kept := make([]domain.LintProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return &MultiProvider{providers: kept}
}

// Name identifies the provider
func (m *MultiProvider) Name() string { return "multi" }

// Lint asks every provider in turn. A failing provider contributes nothing.
func (m *MultiProvider) Lint(ctx context.Context, doc *domain.SourceDocument) ([]domain.LintDiagnostic, error) {
	all := []domain.LintDiagnostic{}
	for _, p := range m.providers {
		all = append(all, Collect(ctx, p, doc)...)
	}
	return all, nil
}

// Collect runs provider and degrades any error to an empty list
func Collect(ctx context.Context, provider domain.LintProvider, doc *domain.SourceDocument) []domain.LintDiagnostic {
	if provider == nil {
		return []domain.LintDiagnostic{}
	}

	diagnostics, err := provider.Lint(ctx, doc)
	if err != nil {
		log.Warn("lint provider failed, using no diagnostics", "provider", provider.Name(), "document", doc.Name, "error", err)
		return []domain.LintDiagnostic{}
	}
	if diagnostics == nil {
		return []domain.LintDiagnostic{}
	}
	return diagnostics
}
