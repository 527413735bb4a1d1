package domain

import (
	"errors"
	"fmt"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"invalid input", NewInvalidInputError("bad input", nil), ErrCodeInvalidInput},
		{"budget exceeded", NewBudgetExceededError("too large", nil), ErrCodeBudgetExceeded},
		{"file not found", NewFileNotFoundError("/path/to/file", nil), ErrCodeFileNotFound},
		{"analysis", NewAnalysisError("analysis failed", nil), ErrCodeAnalysisError},
		{"config", NewConfigError("invalid config", nil), ErrCodeConfigError},
		{"output", NewOutputError("write failed", nil), ErrCodeOutputError},
		{"format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat},
		{"validation", NewValidationError("validation failed"), ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domainErr, ok := tt.err.(DomainError)
			if !ok {
				t.Fatal("Should return DomainError type")
			}
			if domainErr.Code != tt.code {
				t.Errorf("Expected code '%s', got '%s'", tt.code, domainErr.Code)
			}
		})
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("analyze main.js: %w", NewBudgetExceededError("input too large", nil))

	if !HasCode(err, ErrCodeBudgetExceeded) {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}
	if HasCode(err, ErrCodeInvalidInput) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), ErrCodeInvalidInput) {
		t.Error("HasCode should be false for non-domain errors")
	}
}

// Source document tests

func TestNewSourceDocument_LineCount(t *testing.T) {
	tests := []struct {
		text  string
		lines int
	}{
		{"", 1},
		{"a", 1},
		{"a\n", 2},
		{"a\nb\nc", 3},
	}

	for _, tt := range tests {
		doc, err := NewSourceDocument("t.js", []byte(tt.text))
		if err != nil {
			t.Fatalf("NewSourceDocument(%q) error: %v", tt.text, err)
		}
		if doc.LineCount != tt.lines {
			t.Errorf("LineCount(%q) = %d, want %d", tt.text, doc.LineCount, tt.lines)
		}
	}
}

func TestNewSourceDocument_InvalidUTF8(t *testing.T) {
	_, err := NewSourceDocument("bin", []byte{0xff, 0xfe, 0x00})
	if err == nil {
		t.Fatal("Expected error for invalid UTF-8 payload")
	}
	if !HasCode(err, ErrCodeInvalidInput) {
		t.Errorf("Expected INVALID_INPUT, got %v", err)
	}
}

func TestSourceDocument_LineAt(t *testing.T) {
	doc := NewSourceDocumentFromString("t.js", "ab\ncd\n\nef")

	tests := []struct {
		offset int
		line   int
	}{
		{-1, 1},
		{0, 1},
		{2, 1}, // the newline itself belongs to line 1
		{3, 2},
		{6, 3},
		{7, 4},
		{100, 4},
	}

	for _, tt := range tests {
		if got := doc.LineAt(tt.offset); got != tt.line {
			t.Errorf("LineAt(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}

	// A literal without precomputed offsets must agree
	literal := &SourceDocument{Text: doc.Text}
	for _, tt := range tests {
		if got := literal.LineAt(tt.offset); got != tt.line {
			t.Errorf("literal LineAt(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}
}

func TestSourceDocument_DigestStable(t *testing.T) {
	a := NewSourceDocumentFromString("a.js", "const x = 1;")
	b := NewSourceDocumentFromString("b.js", "const x = 1;")
	c := NewSourceDocumentFromString("c.js", "const x = 2;")

	if a.Digest != b.Digest {
		t.Error("Identical text should share a digest")
	}
	if a.Digest == c.Digest {
		t.Error("Different text should not share a digest")
	}
}

// Report tests

func TestGradeFor(t *testing.T) {
	tests := map[int]Grade{
		100: GradeGood,
		80:  GradeGood,
		79:  GradeFair,
		60:  GradeFair,
		59:  GradePoor,
		0:   GradePoor,
	}
	for score, want := range tests {
		if got := GradeFor(score); got != want {
			t.Errorf("GradeFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestMetrics_FormatDuplication(t *testing.T) {
	tests := map[float64]string{
		0:    "0.0%",
		12.5: "12.5%",
		100:  "100.0%",
	}
	for value, want := range tests {
		m := Metrics{DuplicationPercent: value}
		if got := m.FormatDuplication(); got != want {
			t.Errorf("FormatDuplication(%v) = %s, want %s", value, got, want)
		}
	}
}

func TestCommentReport_Findings(t *testing.T) {
	report := CommentReport{
		Suggestions: []CommentSuggestion{
			{Type: FindingMissingDoc, Message: "Function 'b' is missing documentation", Line: 9},
			{Type: FindingImproveComment, Message: "Consider improving this comment with more details", Line: 2},
		},
	}

	findings := report.Findings()
	if len(findings) != 2 {
		t.Fatalf("Expected 2 findings, got %d", len(findings))
	}
	if findings[0].Line != 9 || findings[1].Line != 2 {
		t.Error("Findings should keep discovery order")
	}
	for _, f := range findings {
		if f.Severity != SeverityInfo {
			t.Errorf("Expected info severity, got %s", f.Severity)
		}
	}
}

func TestAnalysisReport_PatternFindings(t *testing.T) {
	report := &AnalysisReport{
		Findings: []Finding{
			{Type: FindingLargeFile, Line: 1},
			{Type: FindingMissingDoc, Line: 3},
			{Type: FindingInlineStyles, Line: 4},
			{Type: FindingImproveComment, Line: 5},
		},
	}

	got := report.PatternFindings()
	if len(got) != 2 {
		t.Fatalf("Expected 2 pattern findings, got %d", len(got))
	}
	if got[0].Type != FindingLargeFile || got[1].Type != FindingInlineStyles {
		t.Errorf("Unexpected pattern findings: %+v", got)
	}
}

func TestBatchResponse_Summarize(t *testing.T) {
	resp := &BatchResponse{
		Reports: []*AnalysisReport{
			{LineCount: 10, QualityScore: 90, Grade: GradeGood, Findings: make([]Finding, 2), Metrics: Metrics{Functions: 3}},
			{LineCount: 5, QualityScore: 50, Grade: GradePoor, Partial: true},
		},
	}
	resp.Summarize(3)

	s := resp.Summary
	if s.TotalFiles != 3 || s.AnalyzedFiles != 2 || s.FailedFiles != 1 {
		t.Errorf("Unexpected file counts: %+v", s)
	}
	if s.TotalLines != 15 || s.TotalFindings != 2 || s.TotalFunctions != 3 {
		t.Errorf("Unexpected totals: %+v", s)
	}
	if s.AverageScore != 70 || s.MinScore != 50 {
		t.Errorf("Unexpected scores: avg=%v min=%d", s.AverageScore, s.MinScore)
	}
	if s.PoorFiles != 1 || s.PartialAnalyses != 1 {
		t.Errorf("Unexpected poor/partial counts: %+v", s)
	}
}

func TestLintSeverity_String(t *testing.T) {
	tests := map[LintSeverity]string{
		LintSeverityInfo:    "info",
		LintSeverityWarning: "warning",
		LintSeverityError:   "error",
		LintSeverity(7):     "unknown",
	}
	for sev, want := range tests {
		if got := sev.String(); got != want {
			t.Errorf("LintSeverity(%d).String() = %s, want %s", sev, got, want)
		}
	}
}
