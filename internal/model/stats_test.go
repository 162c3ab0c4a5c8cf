package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoverageStatPercent(t *testing.T) {
	stat := CoverageStat{Covered: 3, Total: 4}

	percent, ok := stat.Percent()
	require.True(t, ok)
	require.InDelta(t, 75.0, percent, 0.0001)
}

func TestCoverageStatPercent_NothingToCover(t *testing.T) {
	stat := CoverageStat{}

	_, ok := stat.Percent()
	require.False(t, ok)
}

func TestSummarizeFile(t *testing.T) {
	f := NewFileCoverage("src/a.c")

	covered := f.Line(3)
	covered.Count = 2
	covered.Branch(0).Count = 1
	covered.Branch(1).Count = 0

	f.Line(5).Count = 0

	f.Function("main").CallCount = 1
	f.Function("helper").CallCount = 0

	summary := SummarizeFile(f)

	require.Equal(t, CoverageStat{Covered: 1, Total: 2}, summary.Lines)
	require.Equal(t, CoverageStat{Covered: 1, Total: 2}, summary.Branches)
	require.Equal(t, CoverageStat{Covered: 1, Total: 2}, summary.Functions)
}

func TestSummarize_AggregatesAcrossFiles(t *testing.T) {
	model := NewCoverageModel()

	a := NewFileCoverage("src/a.c")
	a.Line(1).Count = 1
	a.Line(2).Count = 0
	require.NoError(t, model.Add(a))

	b := NewFileCoverage("src/b.c")
	b.Line(1).Count = 5
	require.NoError(t, model.Add(b))

	summary := Summarize(model)

	require.Equal(t, CoverageStat{Covered: 2, Total: 3}, summary.Lines)
	require.Equal(t, CoverageStat{}, summary.Branches)
}

func TestPathNormalize(t *testing.T) {
	require.Equal(t, Path("src/a.c"), Path("./src/./a.c").Normalize())
	require.Equal(t, Path("a.c"), Path("src/../a.c").Normalize())
}
