package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/covmeld/internal/model"
)

func TestLcovRenderer(t *testing.T) {
	got := renderToString(t, FormatLcov, fixtureModel(t), Options{})

	want := `TN:
SF:src/a.c
FN:3,main
FNDA:5,main
FNF:1
FNH:1
BRDA:3,0,0,4
BRDA:3,0,1,1
BRF:2
BRH:2
DA:3,5
DA:7,0
LF:2
LH:1
end_of_record
TN:
SF:src/b.c
DA:1,2
LF:1
LH:1
end_of_record
`

	requireEqualText(t, want, got)
}

func TestLcovRenderer_UntakenBranchOnUncoveredLine(t *testing.T) {
	model := m.NewCoverageModel()

	f := m.NewFileCoverage("a.c")
	line := f.Line(4)
	line.Count = 0
	line.Branch(0).Count = 0
	line.Branch(1).Count = 0

	require.NoError(t, model.Add(f))
	model.Finalize()

	got := renderToString(t, FormatLcov, model, Options{})

	require.Contains(t, got, "BRDA:4,0,0,-\n")
	require.Contains(t, got, "BRDA:4,0,1,-\n")
	require.Contains(t, got, "BRF:2\nBRH:0\n")
}

func TestLcovRenderer_EmptyModel(t *testing.T) {
	model := m.NewCoverageModel()
	model.Finalize()

	got := renderToString(t, FormatLcov, model, Options{})

	require.Equal(t, "", got)
}
