package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileCoverageMerge_SumsLineCounts(t *testing.T) {
	a := NewFileCoverage("src/a.c")
	a.Line(3).Count = 2
	a.Line(5).Count = 0

	b := NewFileCoverage("src/a.c")
	b.Line(3).Count = 7
	b.Line(9).Count = 1

	a.Merge(b)

	require.Equal(t, int64(9), a.Lines[3].Count)
	require.Equal(t, int64(0), a.Lines[5].Count)
	require.Equal(t, int64(1), a.Lines[9].Count)
}

func TestFileCoverageMerge_ExecutabilityIsUnion(t *testing.T) {
	a := NewFileCoverage("src/a.c")
	a.Line(3).Count = 0

	b := NewFileCoverage("src/a.c")
	b.Line(8).Count = 0

	a.Merge(b)

	// Both lines stay present even though neither was ever hit: being
	// executable in any artifact makes the line executable in the merge.
	require.Len(t, a.Lines, 2)
	require.False(t, a.Lines[3].Covered())
	require.False(t, a.Lines[8].Covered())
}

func TestFileCoverageMerge_SumsBranchesByIndex(t *testing.T) {
	a := NewFileCoverage("src/a.c")
	lineA := a.Line(4)
	lineA.Count = 1
	lineA.Branch(0).Count = 1
	lineA.Branch(1).Count = 0

	b := NewFileCoverage("src/a.c")
	lineB := b.Line(4)
	lineB.Count = 3
	lineB.Branch(0).Count = 2
	lineB.Branch(1).Count = 5
	lineB.Branch(2).Count = 1

	a.Merge(b)

	merged := a.Lines[4]
	require.Len(t, merged.Branches, 3)
	require.Equal(t, int64(3), merged.Branches[0].Count)
	require.Equal(t, int64(5), merged.Branches[1].Count)
	require.Equal(t, int64(1), merged.Branches[2].Count)
}

func TestFileCoverageMerge_BranchFlagsAreSticky(t *testing.T) {
	a := NewFileCoverage("src/a.c")
	a.Line(4).Branch(0).Fallthrough = true

	b := NewFileCoverage("src/a.c")
	b.Line(4).Branch(0).Throw = true

	a.Merge(b)

	branch := a.Lines[4].Branches[0]
	require.True(t, branch.Fallthrough)
	require.True(t, branch.Throw)
}

func TestFileCoverageMerge_SumsFunctionCalls(t *testing.T) {
	a := NewFileCoverage("src/a.c")
	fnA := a.Function("main")
	fnA.CallCount = 1
	fnA.StartLine = 3

	b := NewFileCoverage("src/a.c")
	fnB := b.Function("main")
	fnB.CallCount = 4
	fnB.StartLine = 3

	helper := b.Function("helper")
	helper.CallCount = 0
	helper.StartLine = 12

	a.Merge(b)

	require.Equal(t, int64(5), a.Functions["main"].CallCount)
	require.Equal(t, 3, a.Functions["main"].StartLine)
	require.Equal(t, int64(0), a.Functions["helper"].CallCount)
	require.Equal(t, 12, a.Functions["helper"].StartLine)
}

func TestLineCoverageBranch_GrowsSlice(t *testing.T) {
	line := &LineCoverage{}

	line.Branch(2).Count = 9

	require.Len(t, line.Branches, 3)
	require.Equal(t, int64(0), line.Branches[0].Count)
	require.Equal(t, int64(9), line.Branches[2].Count)

	// Asking for an existing index must not grow the slice again.
	require.Same(t, &line.Branches[2], line.Branch(2))
	require.Len(t, line.Branches, 3)
}

func TestFileCoverageSortedLines(t *testing.T) {
	f := NewFileCoverage("src/a.c")
	f.Line(9)
	f.Line(2)
	f.Line(5)

	require.Equal(t, []int{2, 5, 9}, f.SortedLines())
}

func TestFileCoverageSortedFunctions(t *testing.T) {
	f := NewFileCoverage("src/a.c")
	f.Function("zeta")
	f.Function("alpha")
	f.Function("mid")

	functions := f.SortedFunctions()

	require.Len(t, functions, 3)
	require.Equal(t, "alpha", functions[0].Name)
	require.Equal(t, "mid", functions[1].Name)
	require.Equal(t, "zeta", functions[2].Name)
}

func TestFileCoverageUncoveredLines(t *testing.T) {
	f := NewFileCoverage("src/a.c")
	f.Line(3).Count = 1
	f.Line(7).Count = 0
	f.Line(12).Count = 0
	f.Line(13).Count = 0
	f.Line(14).Count = 0
	f.Line(18).Count = 2
	f.Line(20).Count = 0

	require.Equal(t, "7,12-14,20", f.UncoveredLines())
}

func TestFileCoverageUncoveredLines_FullyCovered(t *testing.T) {
	f := NewFileCoverage("src/a.c")
	f.Line(1).Count = 1

	require.Equal(t, "", f.UncoveredLines())
}

func TestFormatRanges(t *testing.T) {
	tests := []struct {
		name  string
		lines []int
		want  string
	}{
		{"empty", nil, ""},
		{"single", []int{4}, "4"},
		{"pair", []int{4, 5}, "4-5"},
		{"mixed", []int{1, 3, 4, 5, 9}, "1,3-5,9"},
		{"all separate", []int{2, 4, 6}, "2,4,6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatRanges(tt.lines))
		})
	}
}
