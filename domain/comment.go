package domain

// CommentQuality summarizes documentation coverage
type CommentQuality struct {
	Good             int `json:"good" yaml:"good"`
	NeedsImprovement int `json:"needs_improvement" yaml:"needs_improvement"`
	Missing          int `json:"missing" yaml:"missing"`
}

// CommentSuggestion is a documentation hint tied to a source line
type CommentSuggestion struct {
	Type    FindingType `json:"type" yaml:"type"`
	Message string      `json:"message" yaml:"message"`
	Line    int         `json:"line" yaml:"line"`
}

// CommentReport is the documentation and comment-quality summary of one document
type CommentReport struct {
	// Total counts single-line plus block comments
	Total int `json:"total" yaml:"total"`

	// Documentation counts doc-style block comments
	Documentation int `json:"documentation" yaml:"documentation"`

	// Todos counts TODO/FIXME/XXX/HACK markers anywhere in the text
	Todos int `json:"todos" yaml:"todos"`

	Quality     CommentQuality      `json:"quality" yaml:"quality"`
	Suggestions []CommentSuggestion `json:"suggestions" yaml:"suggestions"`
}

// Findings converts the suggestions into info-level findings, keeping discovery order
func (r CommentReport) Findings() []Finding {
	findings := make([]Finding, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		findings = append(findings, Finding{
			Type:     s.Type,
			Severity: SeverityInfo,
			Message:  s.Message,
			Line:     s.Line,
		})
	}
	return findings
}
