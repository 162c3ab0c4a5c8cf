package render

import (
	"encoding/json"
	"io"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// CoverallsRenderer writes the Coveralls API JSON payload. The coverage
// array has one slot per source line: null for non-executable lines, the
// hit count otherwise. Branches are flat [line, block, index, hits] quads.
type CoverallsRenderer struct{}

type coverallsReport struct {
	ServiceName string                `json:"service_name"`
	SourceFiles []coverallsSourceFile `json:"source_files"`
}

type coverallsSourceFile struct {
	Name     string   `json:"name"`
	Coverage []*int64 `json:"coverage"`
	Branches []int64  `json:"branches,omitempty"`
}

// Render implements Renderer.
func (r *CoverallsRenderer) Render(w io.Writer, model *m.CoverageModel, opts Options) error {
	report := coverallsReport{
		ServiceName: "covmeld",
		SourceFiles: []coverallsSourceFile{},
	}

	for _, file := range model.Files() {
		lines := file.SortedLines()

		maxLine := 0
		if len(lines) > 0 {
			maxLine = lines[len(lines)-1]
		}

		entry := coverallsSourceFile{
			Name:     string(file.Path),
			Coverage: make([]*int64, maxLine),
		}

		for _, lineno := range lines {
			line := file.Lines[lineno]

			count := line.Count
			entry.Coverage[lineno-1] = &count

			for index, branch := range line.Branches {
				entry.Branches = append(entry.Branches,
					int64(lineno), 0, int64(index), branch.Count)
			}
		}

		report.SourceFiles = append(report.SourceFiles, entry)
	}

	var (
		data []byte
		err  error
	)

	if opts.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
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
