package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// CoberturaRenderer writes Cobertura XML. Files are grouped into one
// package per directory, mirroring how gcovr and most CI plugins expect
// the hierarchy.
type CoberturaRenderer struct{}

type coberturaCoverage struct {
	XMLName         xml.Name           `xml:"coverage"`
	LineRate        string             `xml:"line-rate,attr"`
	BranchRate      string             `xml:"branch-rate,attr"`
	LinesCovered    int                `xml:"lines-covered,attr"`
	LinesValid      int                `xml:"lines-valid,attr"`
	BranchesCovered int                `xml:"branches-covered,attr"`
	BranchesValid   int                `xml:"branches-valid,attr"`
	Complexity      int                `xml:"complexity,attr"`
	Version         string             `xml:"version,attr"`
	Timestamp       int64              `xml:"timestamp,attr"`
	Sources         []string           `xml:"sources>source"`
	Packages        []coberturaPackage `xml:"packages>package"`
}

type coberturaPackage struct {
	Name       string           `xml:"name,attr"`
	LineRate   string           `xml:"line-rate,attr"`
	BranchRate string           `xml:"branch-rate,attr"`
	Complexity int              `xml:"complexity,attr"`
	Classes    []coberturaClass `xml:"classes>class"`
}

type coberturaClass struct {
	Name       string          `xml:"name,attr"`
	Filename   string          `xml:"filename,attr"`
	LineRate   string          `xml:"line-rate,attr"`
	BranchRate string          `xml:"branch-rate,attr"`
	Complexity int             `xml:"complexity,attr"`
	Lines      []coberturaLine `xml:"lines>line"`
}

type coberturaLine struct {
	Number            int    `xml:"number,attr"`
	Hits              int64  `xml:"hits,attr"`
	Branch            bool   `xml:"branch,attr"`
	ConditionCoverage string `xml:"condition-coverage,attr,omitempty"`
}

// Render implements Renderer.
func (r *CoberturaRenderer) Render(w io.Writer, model *m.CoverageModel, opts Options) error {
	total := m.Summarize(model)

	doc := coberturaCoverage{
		LineRate:        rate(total.Lines),
		BranchRate:      rate(total.Branches),
		LinesCovered:    total.Lines.Covered,
		LinesValid:      total.Lines.Total,
		BranchesCovered: total.Branches.Covered,
		BranchesValid:   total.Branches.Total,
		Version:         "covmeld",
		// Fixed timestamp keeps the report byte-stable across runs.
		Timestamp: 0,
		Sources:   []string{"."},
	}

	packages := make(map[string]*coberturaPackage)

	for _, file := range model.Files() {
		pkgName := packageName(string(file.Path))

		pkg, ok := packages[pkgName]
		if !ok {
			pkg = &coberturaPackage{Name: pkgName}
			packages[pkgName] = pkg
		}

		pkg.Classes = append(pkg.Classes, buildCoberturaClass(file))
	}

	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		pkg := packages[name]

		var pkgSummary m.Summary
		for _, class := range pkg.Classes {
			pkgSummary.Add(classSummary(model, class.Filename))
		}

		pkg.LineRate = rate(pkgSummary.Lines)
		pkg.BranchRate = rate(pkgSummary.Branches)
		doc.Packages = append(doc.Packages, *pkg)
	}

	return writeXML(w, doc, opts.Pretty)
}

func buildCoberturaClass(file *m.FileCoverage) coberturaClass {
	summary := m.SummarizeFile(file)

	class := coberturaClass{
		Name:       strings.ReplaceAll(strings.TrimSuffix(string(file.Path), path.Ext(string(file.Path))), "/", "."),
		Filename:   string(file.Path),
		LineRate:   rate(summary.Lines),
		BranchRate: rate(summary.Branches),
	}

	for _, lineno := range file.SortedLines() {
		line := file.Lines[lineno]

		entry := coberturaLine{
			Number: lineno,
			Hits:   line.Count,
			Branch: len(line.Branches) > 0,
		}

		if len(line.Branches) > 0 {
			taken := 0
			for _, branch := range line.Branches {
				if branch.Taken() {
					taken++
				}
			}

			percent := 100 * taken / len(line.Branches)
			entry.ConditionCoverage = fmt.Sprintf("%d%% (%d/%d)", percent, taken, len(line.Branches))
		}

		class.Lines = append(class.Lines, entry)
	}

	return class
}

func classSummary(model *m.CoverageModel, filename string) m.Summary {
	file := model.File(m.Path(filename))
	if file == nil {
		return m.Summary{}
	}

	return m.SummarizeFile(file)
}

func packageName(filename string) string {
	dir := path.Dir(filename)
	if dir == "." {
		return ""
	}

	return strings.ReplaceAll(dir, "/", ".")
}

// rate renders a covered/total ratio the Cobertura way: a bare decimal
// fraction with no trailing noise.
func rate(stat m.CoverageStat) string {
	if stat.Total == 0 {
		return "1.0"
	}

	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", float64(stat.Covered)/float64(stat.Total)), "0"), ".")
}

func writeXML(w io.Writer, doc any, pretty bool) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = xml.MarshalIndent(doc, "", "  ")
	} else {
		data, err = xml.Marshal(doc)
	}

	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}

	_, err = io.WriteString(w, "\n")

	return err
}
