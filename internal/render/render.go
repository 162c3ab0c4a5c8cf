// Package render turns a finalized coverage model into report bytes.
//
// Every renderer is a pure function of the model: files are ordered by
// path, lines by number and branches by index, so rendering the same model
// twice yields byte-identical output.
package render

import (
	"fmt"
	"io"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// Format identifies a report output format.
type Format string

const (
	// FormatText is the plain-text summary table.
	FormatText Format = "txt"
	// FormatLcov is the LCOV tracefile format.
	FormatLcov Format = "lcov"
	// FormatCobertura is the Cobertura XML format.
	FormatCobertura Format = "cobertura"
	// FormatHTML is the standalone HTML details page.
	FormatHTML Format = "html-details"
	// FormatSonarqube is the SonarQube generic coverage XML format.
	FormatSonarqube Format = "sonarqube"
	// FormatJacoco is the JaCoCo XML format.
	FormatJacoco Format = "jacoco"
	// FormatJSON is the covmeld JSON tracefile format.
	FormatJSON Format = "json"
	// FormatCoveralls is the Coveralls API JSON format.
	FormatCoveralls Format = "coveralls"
)

// Options carries per-invocation rendering configuration.
type Options struct {
	// Pretty enables indented output for formats that support it.
	Pretty bool
}

// Renderer writes one report format for a finalized model.
type Renderer interface {
	Render(w io.Writer, model *m.CoverageModel, opts Options) error
}

// New returns the renderer for the given format.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatText:
		return &TextRenderer{}, nil
	case FormatLcov:
		return &LcovRenderer{}, nil
	case FormatCobertura:
		return &CoberturaRenderer{}, nil
	case FormatHTML:
		return &HTMLRenderer{}, nil
	case FormatSonarqube:
		return &SonarqubeRenderer{}, nil
	case FormatJacoco:
		return &JacocoRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatCoveralls:
		return &CoverallsRenderer{}, nil
	}

	return nil, fmt.Errorf("unknown report format %q", format)
}
