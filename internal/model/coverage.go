package model

import "sort"

// CoverageModel owns the merged coverage records keyed by normalized path.
// It is mutated while artifacts merge in and finalized before rendering so
// renderers always see an immutable snapshot.
type CoverageModel struct {
	files     map[Path]*FileCoverage
	finalized bool
}

// NewCoverageModel creates an empty model ready to accept merges.
func NewCoverageModel() *CoverageModel {
	return &CoverageModel{files: make(map[Path]*FileCoverage)}
}

// Add merges a partial record into the model. Records for the same path
// accumulate: hit counts sum, executability is the union.
func (m *CoverageModel) Add(record *FileCoverage) error {
	if m.finalized {
		return ErrModelFinalized
	}

	path := record.Path.Normalize()

	file, ok := m.files[path]
	if !ok {
		file = NewFileCoverage(path)
		m.files[path] = file
	}

	file.Merge(record)

	return nil
}

// Finalize marks the model read-only. Further Add calls fail.
func (m *CoverageModel) Finalize() {
	m.finalized = true
}

// Finalized reports whether the model has been sealed.
func (m *CoverageModel) Finalized() bool {
	return m.finalized
}

// Len returns the number of distinct source files in the model.
func (m *CoverageModel) Len() int {
	return len(m.files)
}

// File returns the record for the given path, or nil when absent.
func (m *CoverageModel) File(path Path) *FileCoverage {
	return m.files[path.Normalize()]
}

// Files returns the records ordered by path. Renderers rely on this order
// for byte-stable output.
func (m *CoverageModel) Files() []*FileCoverage {
	files := make([]*FileCoverage, 0, len(m.files))
	for _, file := range m.files {
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files
}
