package service

import (
	"html/template"
	"io"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

// HTMLData represents the data for the HTML template
type HTMLData struct {
	GeneratedAt string
	Duration    int64
	Version     string
	Summary     domain.BatchSummary
	Reports     []*domain.AnalysisReport
	Errors      []string
}

var htmlFuncs = template.FuncMap{
	"join": func(elems []string, sep string) string {
		return strings.Join(elems, sep)
	},
	"gradeClass": func(grade domain.Grade) string {
		return "grade-" + string(grade)
	},
	"averageGrade": func(avg float64) domain.Grade {
		return domain.GradeFor(int(avg + 0.5))
	},
	"lintSeverity": func(s domain.LintSeverity) string {
		return s.String()
	},
	"patternCount": func(r *domain.AnalysisReport) int {
		return len(r.PatternFindings())
	},
	"name": displayName,
}

var reportTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(htmlTemplate))

// WriteHTML writes the batch as a self-contained HTML page
func (f *OutputFormatterImpl) WriteHTML(response *domain.BatchResponse, writer io.Writer) error {
	data := HTMLData{
		GeneratedAt: response.GeneratedAt,
		Duration:    response.DurationMs,
		Version:     response.Version,
		Summary:     response.Summary,
		Reports:     response.Reports,
		Errors:      response.Errors,
	}
	return reportTemplate.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>smellscan Analysis Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f0f2f5;
            min-height: 100vh;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .card {
            background: white;
            border-radius: 10px;
            padding: 24px;
            margin-bottom: 20px;
            box-shadow: 0 4px 16px rgba(0,0,0,0.08);
        }
        h1 { color: #5a56e0; margin-bottom: 8px; }
        h2 { margin-bottom: 12px; }
        h3 { margin: 16px 0 8px; color: #2c3e50; }
        .subtitle { color: #666; font-size: 14px; }
        .score-badge {
            display: inline-block;
            padding: 8px 18px;
            border-radius: 50px;
            font-size: 20px;
            font-weight: bold;
            color: white;
            margin: 10px 0;
        }
        .grade-good { background: #4caf50; }
        .grade-fair { background: #ff9800; }
        .grade-poor { background: #f44336; }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            gap: 16px;
            margin: 16px 0;
        }
        .metric-card { background: #f8f9fa; padding: 16px; border-radius: 8px; text-align: center; }
        .metric-value { font-size: 28px; font-weight: bold; color: #5a56e0; }
        .metric-label { color: #666; margin-top: 4px; }
        .table { width: 100%; border-collapse: collapse; margin: 12px 0; }
        .table th, .table td { padding: 10px; text-align: left; border-bottom: 1px solid #ddd; }
        .table th { background: #f8f9fa; font-weight: 600; }
        .severity-warning, .severity-error { color: #f44336; }
        .severity-info { color: #2196f3; }
        .partial { color: #ff9800; font-weight: bold; }
        .empty { color: #4caf50; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>smellscan Analysis Report</h1>
            <p class="subtitle">Generated: {{.GeneratedAt}} | Duration: {{.Duration}}ms | Version: {{.Version}}</p>
            <div class="score-badge {{gradeClass (averageGrade .Summary.AverageScore)}}">
                Average Score: {{printf "%.1f" .Summary.AverageScore}}/100
            </div>
            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.AnalyzedFiles}}</div>
                    <div class="metric-label">Files Analyzed</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.TotalLines}}</div>
                    <div class="metric-label">Lines</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.TotalFunctions}}</div>
                    <div class="metric-label">Functions</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.TotalFindings}}</div>
                    <div class="metric-label">Findings</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.MinScore}}</div>
                    <div class="metric-label">Lowest Score</div>
                </div>
            </div>
            {{if .Errors}}
            <h3>Errors</h3>
            <ul>
                {{range .Errors}}<li class="severity-error">{{.}}</li>{{end}}
            </ul>
            {{end}}
        </div>

        {{range .Reports}}
        <div class="card">
            <h2>{{name .Name}}</h2>
            <div class="score-badge {{gradeClass .Grade}}">{{.QualityScore}}/100 ({{.Grade}})</div>
            {{if .Partial}}<p class="partial">Partial analysis, skipped rules: {{join .SkippedRules ", "}}</p>{{end}}

            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-value">{{.Metrics.Functions}}</div>
                    <div class="metric-label">Functions</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Metrics.Complexity}}</div>
                    <div class="metric-label">Complexity</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Metrics.AvgFunctionLength}}</div>
                    <div class="metric-label">Avg Function Length</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Metrics.MaxNesting}}</div>
                    <div class="metric-label">Max Nesting</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Duplication}}</div>
                    <div class="metric-label">Duplication</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.TodoCount}}</div>
                    <div class="metric-label">TODOs</div>
                </div>
            </div>

            <h3>Findings ({{patternCount .}} patterns)</h3>
            {{if .Findings}}
            <table class="table">
                <thead>
                    <tr><th>Line</th><th>Type</th><th>Severity</th><th>Message</th></tr>
                </thead>
                <tbody>
                    {{range .Findings}}
                    <tr>
                        <td>{{.Line}}</td>
                        <td>{{.Type}}</td>
                        <td class="severity-{{.Severity}}">{{.Severity}}</td>
                        <td>{{.Message}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <p class="empty">✓ No findings</p>
            {{end}}

            <h3>Comments</h3>
            <p>{{.Comments.Total}} comments, {{.Comments.Documentation}} doc blocks, {{.Comments.Todos}} TODO markers.
               Good: {{.Comments.Quality.Good}}, needs improvement: {{.Comments.Quality.NeedsImprovement}}, missing: {{.Comments.Quality.Missing}}</p>

            {{if .Lint}}
            <h3>Lint</h3>
            <table class="table">
                <thead>
                    <tr><th>Position</th><th>Rule</th><th>Severity</th><th>Message</th></tr>
                </thead>
                <tbody>
                    {{range .Lint}}
                    <tr>
                        <td>{{.Line}}:{{.Column}}</td>
                        <td>{{.RuleID}}</td>
                        <td class="severity-{{lintSeverity .Severity}}">{{lintSeverity .Severity}}</td>
                        <td>{{.Message}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>`
