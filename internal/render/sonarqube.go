package render

import (
	"encoding/xml"
	"io"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// SonarqubeRenderer writes the SonarQube generic test coverage XML format.
type SonarqubeRenderer struct{}

type sonarCoverage struct {
	XMLName xml.Name    `xml:"coverage"`
	Version int         `xml:"version,attr"`
	Files   []sonarFile `xml:"file"`
}

type sonarFile struct {
	Path  string      `xml:"path,attr"`
	Lines []sonarLine `xml:"lineToCover"`
}

type sonarLine struct {
	LineNumber      int  `xml:"lineNumber,attr"`
	Covered         bool `xml:"covered,attr"`
	BranchesToCover int  `xml:"branchesToCover,attr,omitempty"`
	CoveredBranches int  `xml:"coveredBranches,attr,omitempty"`
}

// Render implements Renderer.
func (r *SonarqubeRenderer) Render(w io.Writer, model *m.CoverageModel, opts Options) error {
	doc := sonarCoverage{Version: 1}

	for _, file := range model.Files() {
		entry := sonarFile{Path: string(file.Path)}

		for _, lineno := range file.SortedLines() {
			line := file.Lines[lineno]

			sonar := sonarLine{
				LineNumber: lineno,
				Covered:    line.Covered(),
			}

			if len(line.Branches) > 0 {
				sonar.BranchesToCover = len(line.Branches)

				for _, branch := range line.Branches {
					if branch.Taken() {
						sonar.CoveredBranches++
					}
				}
			}

			entry.Lines = append(entry.Lines, sonar)
		}

		doc.Files = append(doc.Files, entry)
	}

	return writeXML(w, doc, opts.Pretty)
}
