package render

import (
	"html/template"
	"io"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// HTMLRenderer writes a standalone details page: a summary table plus a
// per-file listing of executable lines and their hit counts. No external
// assets and no timestamps, so the page is byte-stable.
type HTMLRenderer struct{}

type htmlReport struct {
	Total m.Summary
	Files []htmlFile
}

type htmlFile struct {
	Path    string
	Summary m.Summary
	Percent string
	Missing string
	Lines   []htmlLine
}

type htmlLine struct {
	Number   int
	Count    int64
	Covered  bool
	Branches string
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>covmeld coverage report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
th { background: #eee; }
td.num { text-align: right; }
tr.covered td { background: #e8f5e9; }
tr.uncovered td { background: #ffebee; }
</style>
</head>
<body>
<h1>covmeld coverage report</h1>
<table>
<tr><th>File</th><th>Lines</th><th>Exec</th><th>Cover</th><th>Missing</th></tr>
{{range .Files}}<tr>
<td><a href="#{{.Path}}">{{.Path}}</a></td>
<td class="num">{{.Summary.Lines.Total}}</td>
<td class="num">{{.Summary.Lines.Covered}}</td>
<td class="num">{{.Percent}}</td>
<td>{{.Missing}}</td>
</tr>
{{end}}</table>
{{range .Files}}<h2 id="{{.Path}}">{{.Path}}</h2>
<table>
<tr><th>Line</th><th>Hits</th><th>Branches</th></tr>
{{range .Lines}}<tr class="{{if .Covered}}covered{{else}}uncovered{{end}}">
<td class="num">{{.Number}}</td>
<td class="num">{{.Count}}</td>
<td>{{.Branches}}</td>
</tr>
{{end}}</table>
{{end}}</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlTemplate))

// Render implements Renderer.
func (r *HTMLRenderer) Render(w io.Writer, model *m.CoverageModel, _ Options) error {
	report := htmlReport{Total: m.Summarize(model)}

	for _, file := range model.Files() {
		summary := m.SummarizeFile(file)

		entry := htmlFile{
			Path:    string(file.Path),
			Summary: summary,
			Percent: FormatPercent(summary.Lines),
			Missing: file.UncoveredLines(),
		}

		for _, lineno := range file.SortedLines() {
			line := file.Lines[lineno]

			entry.Lines = append(entry.Lines, htmlLine{
				Number:   lineno,
				Count:    line.Count,
				Covered:  line.Covered(),
				Branches: branchSummary(line),
			})
		}

		report.Files = append(report.Files, entry)
	}

	return htmlTmpl.Execute(w, report)
}

func branchSummary(line *m.LineCoverage) string {
	if len(line.Branches) == 0 {
		return ""
	}

	taken := 0
	for _, branch := range line.Branches {
		if branch.Taken() {
			taken++
		}
	}

	return FormatPercent(m.CoverageStat{Covered: taken, Total: len(line.Branches)})
}
