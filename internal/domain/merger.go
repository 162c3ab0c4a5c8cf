package domain

import (
	m "github.com/mouse-blink/covmeld/internal/model"
)

// Merger accumulates partial records into a single coverage model.
type Merger struct {
	model *m.CoverageModel
}

// NewMerger constructs an empty Merger.
func NewMerger() *Merger {
	return &Merger{model: m.NewCoverageModel()}
}

// Add merges one partial record. Records for the same path sum their hit
// counts, branch counts sum per (line, branch index) and executability is
// the union across records.
func (g *Merger) Add(record *m.FileCoverage) error {
	return g.model.Add(record)
}

// Finalize seals the model and returns it. The model is read-only from
// here on; renderers consume it as an immutable snapshot.
func (g *Merger) Finalize() *m.CoverageModel {
	g.model.Finalize()
	return g.model
}
