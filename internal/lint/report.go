package lint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/log"
)

// eslintFileResult is one entry of `eslint -f json` output
type eslintFileResult struct {
	FilePath string                  `json:"filePath"`
	Messages []domain.LintDiagnostic `json:"messages"`
}

// ReportProvider serves diagnostics from a report produced by an external linter.
// The report is decoded once; lookups never mutate it.
type ReportProvider struct {
	byFile map[string][]domain.LintDiagnostic

	// global applies to every document (bare diagnostic arrays)
	global []domain.LintDiagnostic
}

// LoadReportProvider reads a report file. A missing or malformed file yields
// a provider without diagnostics.
func LoadReportProvider(path string) *ReportProvider {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("cannot read lint report, ignoring it", "path", path, "error", err)
		return &ReportProvider{byFile: map[string][]domain.LintDiagnostic{}}
	}
	return ParseReport(data)
}

// ParseReport decodes either ESLint JSON output (an array of per-file results)
// or a bare array of diagnostics
func ParseReport(data []byte) *ReportProvider {
	p := &ReportProvider{byFile: map[string][]domain.LintDiagnostic{}}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("malformed lint report, ignoring it", "error", err)
		return p
	}

	for _, item := range raw {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(item, &probe); err != nil {
			continue
		}

		if _, ok := probe["filePath"]; ok {
			var result eslintFileResult
			if err := json.Unmarshal(item, &result); err != nil {
				continue
			}
			key := normalizePath(result.FilePath)
			p.byFile[key] = append(p.byFile[key], result.Messages...)
			continue
		}

		var diagnostic domain.LintDiagnostic
		if err := json.Unmarshal(item, &diagnostic); err == nil {
			p.global = append(p.global, diagnostic)
		}
	}

	return p
}

// Name identifies the provider
func (p *ReportProvider) Name() string { return "report" }

// Lint returns the report entries of the document plus any bare diagnostics
func (p *ReportProvider) Lint(_ context.Context, doc *domain.SourceDocument) ([]domain.LintDiagnostic, error) {
	out := make([]domain.LintDiagnostic, 0, len(p.global))
	out = append(out, p.global...)

	if doc.Name == "" {
		return out, nil
	}

	if d, ok := p.byFile[normalizePath(doc.Name)]; ok {
		return append(out, d...), nil
	}

	// Reports usually carry absolute paths while documents may be relative
	name := filepath.ToSlash(filepath.Clean(doc.Name))
	paths := make([]string, 0, len(p.byFile))
	for path := range p.byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if strings.HasSuffix(path, "/"+name) {
			return append(out, p.byFile[path]...), nil
		}
	}
	return out, nil
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}
