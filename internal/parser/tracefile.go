package parser

import (
	"encoding/json"
	"fmt"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// TracefileFormatVersion identifies the covmeld JSON tracefile layout.
const TracefileFormatVersion = "1"

// Tracefile is the covmeld JSON interchange format. The JSON renderer emits
// it and --add-tracefile reads it back, so a rendered model re-parses into
// the same model.
type Tracefile struct {
	FormatVersion string          `json:"format_version"`
	Files         []TracefileFile `json:"files"`
}

// TracefileFile is one source file entry in a tracefile.
type TracefileFile struct {
	File      string              `json:"file"`
	Lines     []TracefileLine     `json:"lines"`
	Functions []TracefileFunction `json:"functions,omitempty"`
}

// TracefileLine is one executable line entry in a tracefile.
type TracefileLine struct {
	LineNumber int               `json:"line_number"`
	Count      int64             `json:"count"`
	Branches   []TracefileBranch `json:"branches,omitempty"`
}

// TracefileBranch is one branch entry in a tracefile, ordered by index.
type TracefileBranch struct {
	Count       int64 `json:"count"`
	Fallthrough bool  `json:"fallthrough"`
	Throw       bool  `json:"throw"`
}

// TracefileFunction is one function entry in a tracefile.
type TracefileFunction struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	Count     int64  `json:"count"`
}

// ParseTracefile parses a previously emitted JSON tracefile into partial
// records, one per source file.
func ParseTracefile(artifact m.Path, data []byte) ([]*m.FileCoverage, error) {
	var trace Tracefile

	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("invalid JSON: %w", err))
	}

	if trace.FormatVersion != TracefileFormatVersion {
		return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("unsupported format_version %q", trace.FormatVersion))
	}

	records := make([]*m.FileCoverage, 0, len(trace.Files))

	for _, file := range trace.Files {
		record := m.NewFileCoverage(m.Path(file.File))

		for _, line := range file.Lines {
			if line.LineNumber <= 0 || line.Count < 0 {
				return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("invalid line entry %d in %s", line.LineNumber, file.File))
			}

			rec := record.Line(line.LineNumber)
			rec.Count += line.Count

			for index, branch := range line.Branches {
				slot := rec.Branch(index)
				slot.Count += branch.Count
				slot.Fallthrough = slot.Fallthrough || branch.Fallthrough
				slot.Throw = slot.Throw || branch.Throw
			}
		}

		for _, fn := range file.Functions {
			rec := record.Function(fn.Name)
			rec.CallCount += fn.Count

			if rec.StartLine == 0 {
				rec.StartLine = fn.StartLine
			}
		}

		records = append(records, record)
	}

	return records, nil
}

// BuildTracefile converts a finalized model into the tracefile form, with
// files, lines and branches in deterministic order.
func BuildTracefile(model *m.CoverageModel) *Tracefile {
	trace := &Tracefile{FormatVersion: TracefileFormatVersion}

	for _, file := range model.Files() {
		entry := TracefileFile{File: string(file.Path)}

		for _, lineno := range file.SortedLines() {
			line := file.Lines[lineno]

			traceLine := TracefileLine{
				LineNumber: lineno,
				Count:      line.Count,
			}

			for _, branch := range line.Branches {
				traceLine.Branches = append(traceLine.Branches, TracefileBranch{
					Count:       branch.Count,
					Fallthrough: branch.Fallthrough,
					Throw:       branch.Throw,
				})
			}

			entry.Lines = append(entry.Lines, traceLine)
		}

		for _, fn := range file.SortedFunctions() {
			entry.Functions = append(entry.Functions, TracefileFunction{
				Name:      fn.Name,
				StartLine: fn.StartLine,
				Count:     fn.CallCount,
			})
		}

		trace.Files = append(trace.Files, entry)
	}

	return trace
}
