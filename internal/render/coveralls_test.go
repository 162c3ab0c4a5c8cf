package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoverallsRenderer(t *testing.T) {
	got := renderToString(t, FormatCoveralls, fixtureModel(t), Options{})

	var report struct {
		ServiceName string `json:"service_name"`
		SourceFiles []struct {
			Name     string   `json:"name"`
			Coverage []*int64 `json:"coverage"`
			Branches []int64  `json:"branches"`
		} `json:"source_files"`
	}

	require.NoError(t, json.Unmarshal([]byte(got), &report))
	require.Equal(t, "covmeld", report.ServiceName)
	require.Len(t, report.SourceFiles, 2)

	a := report.SourceFiles[0]
	require.Equal(t, "src/a.c", a.Name)

	// One slot per line up to the last executable line; nil marks
	// non-executable lines.
	require.Len(t, a.Coverage, 7)
	require.Nil(t, a.Coverage[0])
	require.NotNil(t, a.Coverage[2])
	require.Equal(t, int64(5), *a.Coverage[2])
	require.NotNil(t, a.Coverage[6])
	require.Equal(t, int64(0), *a.Coverage[6])

	// Branch quads: [line, block, index, hits].
	require.Equal(t, []int64{3, 0, 0, 4, 3, 0, 1, 1}, a.Branches)

	b := report.SourceFiles[1]
	require.Equal(t, "src/b.c", b.Name)
	require.Len(t, b.Coverage, 1)
	require.Equal(t, int64(2), *b.Coverage[0])
	require.Empty(t, b.Branches)
}
