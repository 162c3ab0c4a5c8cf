package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSonarqubeRenderer(t *testing.T) {
	got := renderToString(t, FormatSonarqube, fixtureModel(t), Options{})

	require.Contains(t, got, `<coverage version="1">`)
	require.Contains(t, got, `<file path="src/a.c">`)
	require.Contains(t, got, `<file path="src/b.c">`)
	require.Contains(t, got, `lineNumber="3" covered="true" branchesToCover="2" coveredBranches="2"`)
	require.Contains(t, got, `lineNumber="7" covered="false"`)
	require.Contains(t, got, `lineNumber="1" covered="true"`)

	// Lines without branches must not carry branch attributes.
	require.NotContains(t, got, `lineNumber="7" covered="false" branchesToCover`)
}
