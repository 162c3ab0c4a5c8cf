package render

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/covmeld/internal/model"
)

func TestCoberturaRenderer(t *testing.T) {
	got := renderToString(t, FormatCobertura, fixtureModel(t), Options{})

	require.Contains(t, got, xml.Header)
	require.Contains(t, got, `lines-covered="2"`)
	require.Contains(t, got, `lines-valid="3"`)
	require.Contains(t, got, `branches-covered="2"`)
	require.Contains(t, got, `branches-valid="2"`)
	require.Contains(t, got, `timestamp="0"`)
	require.Contains(t, got, `<package name="src"`)
	require.Contains(t, got, `<class name="src.a" filename="src/a.c"`)
	require.Contains(t, got, `<class name="src.b" filename="src/b.c"`)
	require.Contains(t, got, `<line number="3" hits="5" branch="true" condition-coverage="100% (2/2)"`)
	require.Contains(t, got, `<line number="7" hits="0" branch="false"`)
}

func TestCoberturaRenderer_PrettyIsIndented(t *testing.T) {
	model := fixtureModel(t)

	plain := renderToString(t, FormatCobertura, model, Options{})
	pretty := renderToString(t, FormatCobertura, model, Options{Pretty: true})

	require.NotContains(t, plain, "\n  <")
	require.Contains(t, pretty, "\n  <")
}

func TestCoberturaRenderer_PartialConditionCoverage(t *testing.T) {
	model := m.NewCoverageModel()

	f := m.NewFileCoverage("a.c")
	line := f.Line(1)
	line.Count = 3
	line.Branch(0).Count = 3
	line.Branch(1).Count = 0

	require.NoError(t, model.Add(f))
	model.Finalize()

	got := renderToString(t, FormatCobertura, model, Options{})

	require.Contains(t, got, `condition-coverage="50% (1/2)"`)
}

func TestRate(t *testing.T) {
	require.Equal(t, "1.0", rate(m.CoverageStat{}))
	require.Equal(t, "0.5", rate(m.CoverageStat{Covered: 1, Total: 2}))
	require.Equal(t, "0.3333", rate(m.CoverageStat{Covered: 1, Total: 3}))
	require.Equal(t, "1", rate(m.CoverageStat{Covered: 4, Total: 4}))
	require.Equal(t, "0", rate(m.CoverageStat{Covered: 0, Total: 4}))
}

func TestPackageName(t *testing.T) {
	require.Equal(t, "", packageName("a.c"))
	require.Equal(t, "src", packageName("src/a.c"))
	require.Equal(t, "src.sub", packageName("src/sub/a.c"))
}
