package render

import (
	"encoding/xml"
	"io"
	"path"
	"sort"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// JacocoRenderer writes JaCoCo XML with LINE, BRANCH and METHOD counters
// per source file, package and report.
type JacocoRenderer struct{}

type jacocoReport struct {
	XMLName  xml.Name        `xml:"report"`
	Name     string          `xml:"name,attr"`
	Packages []jacocoPackage `xml:"package"`
	Counters []jacocoCounter `xml:"counter"`
}

type jacocoPackage struct {
	Name        string             `xml:"name,attr"`
	SourceFiles []jacocoSourceFile `xml:"sourcefile"`
	Counters    []jacocoCounter    `xml:"counter"`
}

type jacocoSourceFile struct {
	Name     string          `xml:"name,attr"`
	Lines    []jacocoLine    `xml:"line"`
	Counters []jacocoCounter `xml:"counter"`
}

type jacocoLine struct {
	Nr int   `xml:"nr,attr"`
	Mi int64 `xml:"mi,attr"`
	Ci int64 `xml:"ci,attr"`
	Mb int   `xml:"mb,attr"`
	Cb int   `xml:"cb,attr"`
}

type jacocoCounter struct {
	Type    string `xml:"type,attr"`
	Missed  int    `xml:"missed,attr"`
	Covered int    `xml:"covered,attr"`
}

// Render implements Renderer.
func (r *JacocoRenderer) Render(w io.Writer, model *m.CoverageModel, opts Options) error {
	report := jacocoReport{Name: "covmeld"}

	packages := make(map[string]*jacocoPackage)

	for _, file := range model.Files() {
		dir := path.Dir(string(file.Path))
		if dir == "." {
			dir = ""
		}

		pkg, ok := packages[dir]
		if !ok {
			pkg = &jacocoPackage{Name: dir}
			packages[dir] = pkg
		}

		pkg.SourceFiles = append(pkg.SourceFiles, buildJacocoSourceFile(file))
	}

	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}

	sort.Strings(names)

	var total m.Summary

	for _, name := range names {
		pkg := packages[name]

		var pkgSummary m.Summary
		for _, source := range pkg.SourceFiles {
			pkgSummary.Add(jacocoFileSummary(model, name, source.Name))
		}

		pkg.Counters = jacocoCounters(pkgSummary)
		total.Add(pkgSummary)
		report.Packages = append(report.Packages, *pkg)
	}

	report.Counters = jacocoCounters(total)

	return writeXML(w, report, opts.Pretty)
}

func buildJacocoSourceFile(file *m.FileCoverage) jacocoSourceFile {
	source := jacocoSourceFile{Name: path.Base(string(file.Path))}

	for _, lineno := range file.SortedLines() {
		line := file.Lines[lineno]

		entry := jacocoLine{Nr: lineno}
		if line.Covered() {
			entry.Ci = 1
		} else {
			entry.Mi = 1
		}

		for _, branch := range line.Branches {
			if branch.Taken() {
				entry.Cb++
			} else {
				entry.Mb++
			}
		}

		source.Lines = append(source.Lines, entry)
	}

	source.Counters = jacocoCounters(m.SummarizeFile(file))

	return source
}

func jacocoFileSummary(model *m.CoverageModel, dir, name string) m.Summary {
	full := name
	if dir != "" {
		full = path.Join(dir, name)
	}

	file := model.File(m.Path(full))
	if file == nil {
		return m.Summary{}
	}

	return m.SummarizeFile(file)
}

func jacocoCounters(summary m.Summary) []jacocoCounter {
	return []jacocoCounter{
		{Type: "LINE", Missed: summary.Lines.Total - summary.Lines.Covered, Covered: summary.Lines.Covered},
		{Type: "BRANCH", Missed: summary.Branches.Total - summary.Branches.Covered, Covered: summary.Branches.Covered},
		{Type: "METHOD", Missed: summary.Functions.Total - summary.Functions.Covered, Covered: summary.Functions.Covered},
	}
}
