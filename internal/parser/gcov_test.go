package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/covmeld/internal/model"
)

const sampleGcov = `        -:    0:Source:src/lib.c
        -:    0:Graph:src/lib.gcno
        -:    0:Data:src/lib.gcda
        -:    0:Runs:1
        -:    1:#include <stdio.h>
        -:    2:
function main called 1 returned 100%
        1:    3:int main(void) {
        5:    4:  for (int i = 0; i < 5; i++) {
branch  0 taken 4 (fallthrough)
branch  1 taken 1
        4:    5:    work(i);
        -:    6:  }
    #####:    7:  dead();
        1:    8:  return 0;
        -:    9:}
`

func TestParseGcov_Sample(t *testing.T) {
	record, err := ParseGcov("src/lib.c.gcov", []byte(sampleGcov))
	require.NoError(t, err)

	require.Equal(t, m.Path("src/lib.c"), record.Path)
	require.Equal(t, []int{3, 4, 5, 7, 8}, record.SortedLines())

	require.Equal(t, int64(1), record.Lines[3].Count)
	require.Equal(t, int64(5), record.Lines[4].Count)
	require.Equal(t, int64(0), record.Lines[7].Count)
	require.False(t, record.Lines[7].Covered())

	branches := record.Lines[4].Branches
	require.Len(t, branches, 2)
	require.Equal(t, int64(4), branches[0].Count)
	require.True(t, branches[0].Fallthrough)
	require.Equal(t, int64(1), branches[1].Count)
	require.False(t, branches[1].Fallthrough)

	fn := record.Functions["main"]
	require.NotNil(t, fn)
	require.Equal(t, int64(1), fn.CallCount)
	require.Equal(t, 3, fn.StartLine)
}

func TestParseGcov_NeverExecutedMarkers(t *testing.T) {
	input := `        -:    0:Source:a.c
    #####:    1:x();
    =====:    2:y();
`

	record, err := ParseGcov("a.c.gcov", []byte(input))
	require.NoError(t, err)

	require.Equal(t, int64(0), record.Lines[1].Count)
	require.Equal(t, int64(0), record.Lines[2].Count)
}

func TestParseGcov_TrailingStarOnCount(t *testing.T) {
	input := `        -:    0:Source:a.c
       7*:    1:maybe_throws();
`

	record, err := ParseGcov("a.c.gcov", []byte(input))
	require.NoError(t, err)

	require.Equal(t, int64(7), record.Lines[1].Count)
}

func TestParseGcov_BranchNeverExecuted(t *testing.T) {
	input := `        -:    0:Source:a.c
    #####:    1:if (x) {
branch  0 never executed
branch  1 never executed
`

	record, err := ParseGcov("a.c.gcov", []byte(input))
	require.NoError(t, err)

	branches := record.Lines[1].Branches
	require.Len(t, branches, 2)
	require.False(t, branches[0].Taken())
	require.False(t, branches[1].Taken())
}

func TestParseGcov_BranchThrow(t *testing.T) {
	input := `        -:    0:Source:a.c
        2:    1:try_it();
branch  0 taken 2 (throw)
`

	record, err := ParseGcov("a.c.gcov", []byte(input))
	require.NoError(t, err)

	branch := record.Lines[1].Branches[0]
	require.Equal(t, int64(2), branch.Count)
	require.True(t, branch.Throw)
	require.False(t, branch.Fallthrough)
}

func TestParseGcov_BranchPercentagesRejected(t *testing.T) {
	input := `        -:    0:Source:a.c
        2:    1:if (x) {
branch  0 taken 60%
`

	_, err := ParseGcov("a.c.gcov", []byte(input))
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
	require.Contains(t, err.Error(), "-c")
}

func TestParseGcov_BranchBeforeAnyLineIsDropped(t *testing.T) {
	input := `        -:    0:Source:a.c
branch  0 taken 3
        1:    1:x();
`

	record, err := ParseGcov("a.c.gcov", []byte(input))
	require.NoError(t, err)

	require.Empty(t, record.Lines[1].Branches)
}

func TestParseGcov_FunctionNameWithSpaces(t *testing.T) {
	input := `        -:    0:Source:a.cpp
function std::vector<int>::push_back(int const&) called 3 returned 100%
        3:    1:void f() {}
`

	record, err := ParseGcov("a.cpp.gcov", []byte(input))
	require.NoError(t, err)

	fn := record.Functions["std::vector<int>::push_back(int const&)"]
	require.NotNil(t, fn)
	require.Equal(t, int64(3), fn.CallCount)
	require.Equal(t, 1, fn.StartLine)
}

func TestParseGcov_RepeatedLinesAccumulate(t *testing.T) {
	// Templates and inlined code can produce the same line number twice
	// within one artifact.
	input := `        -:    0:Source:a.cpp
        2:    5:t<int>();
        3:    5:t<long>();
`

	record, err := ParseGcov("a.cpp.gcov", []byte(input))
	require.NoError(t, err)

	require.Equal(t, int64(5), record.Lines[5].Count)
}

func TestParseGcov_MissingSourcePreamble(t *testing.T) {
	input := "        1:    1:x();\n"

	_, err := ParseGcov("a.gcov", []byte(input))
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}

func TestParseGcov_EmptyArtifact(t *testing.T) {
	_, err := ParseGcov("a.gcov", nil)
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}

func TestParseGcov_GarbageLine(t *testing.T) {
	input := `        -:    0:Source:a.c
this is not a record
`

	_, err := ParseGcov("a.gcov", []byte(input))
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}

func TestParseGcov_BadHitCount(t *testing.T) {
	input := `        -:    0:Source:a.c
      abc:    1:x();
`

	_, err := ParseGcov("a.gcov", []byte(input))
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}

func TestParseGcov_CallAnnotationsIgnored(t *testing.T) {
	input := `        -:    0:Source:a.c
        1:    1:f();
call    0 returned 1
unconditional  0 taken 1
`

	record, err := ParseGcov("a.gcov", []byte(input))
	require.NoError(t, err)

	require.Equal(t, int64(1), record.Lines[1].Count)
	require.Empty(t, record.Lines[1].Branches)
}
