package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/covmeld/internal/model"
)

func sampleModel(t *testing.T) *m.CoverageModel {
	t.Helper()

	model := m.NewCoverageModel()

	a := m.NewFileCoverage("src/a.c")

	line := a.Line(3)
	line.Count = 5
	line.Branch(0).Count = 4
	line.Branch(0).Fallthrough = true
	line.Branch(1).Count = 1

	a.Line(7).Count = 0

	fn := a.Function("main")
	fn.StartLine = 3
	fn.CallCount = 5

	b := m.NewFileCoverage("src/b.c")
	b.Line(1).Count = 2

	require.NoError(t, model.Add(a))
	require.NoError(t, model.Add(b))
	model.Finalize()

	return model
}

func TestBuildTracefile(t *testing.T) {
	trace := BuildTracefile(sampleModel(t))

	require.Equal(t, TracefileFormatVersion, trace.FormatVersion)
	require.Len(t, trace.Files, 2)
	require.Equal(t, "src/a.c", trace.Files[0].File)
	require.Equal(t, "src/b.c", trace.Files[1].File)

	lines := trace.Files[0].Lines
	require.Len(t, lines, 2)
	require.Equal(t, 3, lines[0].LineNumber)
	require.Equal(t, int64(5), lines[0].Count)
	require.Len(t, lines[0].Branches, 2)
	require.True(t, lines[0].Branches[0].Fallthrough)
	require.Equal(t, 7, lines[1].LineNumber)
	require.Empty(t, lines[1].Branches)

	functions := trace.Files[0].Functions
	require.Len(t, functions, 1)
	require.Equal(t, "main", functions[0].Name)
	require.Equal(t, int64(5), functions[0].Count)
}

func TestTracefileRoundTrip(t *testing.T) {
	model := sampleModel(t)

	data, err := json.Marshal(BuildTracefile(model))
	require.NoError(t, err)

	records, err := ParseTracefile("trace.json", data)
	require.NoError(t, err)

	reparsed := m.NewCoverageModel()
	for _, record := range records {
		require.NoError(t, reparsed.Add(record))
	}

	require.Equal(t, model.Len(), reparsed.Len())

	original := model.File("src/a.c")
	got := reparsed.File("src/a.c")
	require.Equal(t, original.Lines, got.Lines)
	require.Equal(t, original.Functions, got.Functions)
}

func TestParseTracefile_UnsupportedVersion(t *testing.T) {
	_, err := ParseTracefile("trace.json", []byte(`{"format_version":"99","files":[]}`))
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}

func TestParseTracefile_InvalidJSON(t *testing.T) {
	_, err := ParseTracefile("trace.json", []byte("{"))
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}

func TestParseTracefile_InvalidLineEntry(t *testing.T) {
	data := []byte(`{"format_version":"1","files":[{"file":"a.c","lines":[{"line_number":0,"count":1}]}]}`)

	_, err := ParseTracefile("trace.json", data)
	require.Error(t, err)
	require.True(t, m.IsMalformedArtifact(err))
}
