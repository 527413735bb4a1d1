package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/smellscan/domain"
)

func sampleReport(t *testing.T) *domain.AnalysisReport {
	t.Helper()
	return analyze(t, NewDefaultAnalysisService(), "TodoList.jsx", componentFixture())
}

func TestOutputFormatter_JSON(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(report, domain.OutputFormatJSON, &buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "TodoList.jsx", decoded["name"])
	assert.EqualValues(t, report.QualityScore, decoded["quality_score"])
	assert.NotContains(t, decoded, "generated_at")

	// identical input renders byte-identical output
	var again bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(sampleReport(t), domain.OutputFormatJSON, &again))
	assert.Equal(t, buf.String(), again.String())
}

func TestOutputFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(sampleReport(t), domain.OutputFormatYAML, &buf))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "TodoList.jsx", decoded["name"])
	assert.Contains(t, buf.String(), "findings:")
}

func TestOutputFormatter_Text(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(report, domain.OutputFormatText, &buf))
	out := buf.String()

	assert.Contains(t, out, "TodoList.jsx")
	assert.Contains(t, out, "Quality score:")
	assert.Contains(t, out, "Nested loops detected")
	assert.Contains(t, out, "Comments:")
	assert.Contains(t, out, "missing documentation")

	var quiet bytes.Buffer
	require.NoError(t, NewOutputFormatterWithOptions(false).Write(report, domain.OutputFormatText, &quiet))
	assert.NotContains(t, quiet.String(), "Comments:")
	assert.NotContains(t, quiet.String(), "missing documentation")
}

func TestOutputFormatter_TextPartialAndLint(t *testing.T) {
	report := &domain.AnalysisReport{
		Name:         "",
		Grade:        domain.GradeFair,
		Partial:      true,
		SkippedRules: []string{"repeated_code", "inline_styles"},
		Lint:         []domain.LintDiagnostic{{Line: 3, Column: 2, Message: "Unexpected var", Severity: domain.LintSeverityError}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(report, domain.OutputFormatText, &buf))
	out := buf.String()

	assert.Contains(t, out, domain.StdinName)
	assert.Contains(t, out, "3:2")
	assert.Contains(t, out, "Unexpected var")
	assert.Contains(t, out, "repeated_code, inline_styles")
}

func TestOutputFormatter_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(sampleReport(t), domain.OutputFormatHTML, &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "smellscan Analysis Report")
	assert.Contains(t, out, "TodoList.jsx")
	assert.Contains(t, out, "nested_loops")
}

func TestOutputFormatter_WriteBatch(t *testing.T) {
	resp, err := NewBatchAnalyzer(NewDefaultAnalysisService(), nil).AnalyzeRequests(t.Context(), []domain.AnalysisRequest{
		{Name: "a.jsx", Payload: []byte(inlineStyled)},
		{Name: "b.js", Payload: []byte{0xff}},
	})
	require.NoError(t, err)

	formatter := NewOutputFormatter()
	for _, format := range []domain.OutputFormat{domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, formatter.WriteBatch(resp, format, &buf, 5*time.Millisecond))
			assert.Contains(t, buf.String(), "a.jsx")
			assert.Contains(t, buf.String(), "b.js")
		})
	}
}

func TestOutputFormatter_Unsupported(t *testing.T) {
	err := NewOutputFormatter().Write(&domain.AnalysisReport{}, domain.OutputFormat("csv"), &bytes.Buffer{})
	assert.True(t, domain.HasCode(err, domain.ErrCodeUnsupportedFormat))
}
