package model

// CoverageStat is a covered/total pair for one coverage dimension.
type CoverageStat struct {
	Covered int
	Total   int
}

// Add accumulates another stat into this one.
func (s *CoverageStat) Add(other CoverageStat) {
	s.Covered += other.Covered
	s.Total += other.Total
}

// Percent returns the covered ratio in percent. The second return value is
// false when there is nothing to cover.
func (s CoverageStat) Percent() (float64, bool) {
	if s.Total == 0 {
		return 0, false
	}

	return 100 * float64(s.Covered) / float64(s.Total), true
}

// Summary aggregates line, branch and function stats.
type Summary struct {
	Lines     CoverageStat
	Branches  CoverageStat
	Functions CoverageStat
}

// Add accumulates another summary into this one.
func (s *Summary) Add(other Summary) {
	s.Lines.Add(other.Lines)
	s.Branches.Add(other.Branches)
	s.Functions.Add(other.Functions)
}

// SummarizeFile computes the stats of a single file record.
func SummarizeFile(f *FileCoverage) Summary {
	var summary Summary

	for _, line := range f.Lines {
		summary.Lines.Total++
		if line.Covered() {
			summary.Lines.Covered++
		}

		for _, branch := range line.Branches {
			summary.Branches.Total++
			if branch.Taken() {
				summary.Branches.Covered++
			}
		}
	}

	for _, fn := range f.Functions {
		summary.Functions.Total++
		if fn.CallCount > 0 {
			summary.Functions.Covered++
		}
	}

	return summary
}

// Summarize computes the global stats across the whole model.
func Summarize(m *CoverageModel) Summary {
	var summary Summary

	for _, file := range m.Files() {
		summary.Add(SummarizeFile(file))
	}

	return summary
}
