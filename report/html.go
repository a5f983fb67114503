package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/r2r-testing/api-contract-tests/results"
)

type htmlCategory struct {
	results.CategorySummary
	Records []results.TestRecord
}

type htmlPage struct {
	Title      string
	Generated  string
	Metadata   Metadata
	Summary    results.Summary
	Categories []htmlCategory
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": percent,
	"seconds": seconds,
	"healthy": func(rate float64) bool { return rate >= categoryHealthy },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2em; color: #222; }
.meta { color: #666; margin-bottom: 1.5em; }
.cards { display: flex; gap: 1em; margin-bottom: 2em; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 1em 1.5em; min-width: 8em; }
.card .value { font-size: 1.6em; font-weight: bold; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2em; }
th, td { border: 1px solid #ddd; padding: 6px 8px; text-align: left; font-size: 0.9em; vertical-align: top; }
th { background: #f4f4f4; }
tr.pass td.result { color: #1a7f37; font-weight: bold; }
tr.fail { background: #fff0f0; }
tr.fail td.result { color: #cf222e; font-weight: bold; }
h2 .rate.good { color: #1a7f37; }
h2 .rate.poor { color: #cf222e; }
.error { color: #cf222e; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
Generated {{.Generated}}<br>
Base URL: {{.Metadata.BaseURL}}{{if .Metadata.APIVersion}} (API {{.Metadata.APIVersion}}){{end}}<br>
Total execution time: {{printf "%.1f" .Metadata.Duration.Seconds}}s
</div>
<div class="cards">
<div class="card"><div>Total</div><div class="value">{{.Summary.Total}}</div></div>
<div class="card"><div>Passed</div><div class="value">{{.Summary.Passed}}</div></div>
<div class="card"><div>Failed</div><div class="value">{{.Summary.Failed}}</div></div>
<div class="card"><div>Success rate</div><div class="value">{{percent .Summary.SuccessRate}}</div></div>
<div class="card"><div>Avg response</div><div class="value">{{seconds .Summary.AvgResponseTime}}</div></div>
</div>
{{range .Categories}}
<h2>{{.Category}} <span class="rate {{if healthy .SuccessRate}}good{{else}}poor{{end}}">{{.Passed}}/{{.Total}} ({{percent .SuccessRate}})</span></h2>
<table>
<tr><th>Scenario</th><th>Description</th><th>Request</th><th>Expected</th><th>Actual</th><th>Time</th><th>Result</th></tr>
{{range .Records}}<tr class="{{if .Success}}pass{{else}}fail{{end}}">
<td>{{.Scenario}}</td>
<td>{{.Description}}</td>
<td>{{.Method}} {{.URL}}</td>
<td>{{.ExpectedStatus}}</td>
<td>{{.ActualStatus}}</td>
<td>{{seconds .ResponseTime}}</td>
<td class="result">{{if .Success}}PASS{{else}}FAIL{{end}}{{if .Error}}<div class="error">{{.Error}}</div>{{end}}</td>
</tr>
{{end}}</table>
{{else}}
<p>No scenarios were run.</p>
{{end}}
</body>
</html>
`))

// WriteHTML writes a standalone HTML page with the summary and one table per category.
func WriteHTML(w io.Writer, doc Document) error {
	page := htmlPage{
		Title:     "API Contract Test Report",
		Generated: doc.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"),
		Metadata:  doc.Metadata,
		Summary:   doc.Summary,
	}
	for _, c := range doc.Categories {
		page.Categories = append(page.Categories, htmlCategory{
			CategorySummary: c,
			Records:         results.FilterCategory(doc.Records, c.Category),
		})
	}
	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}
