package render

import (
	"encoding/json"
	"io"

	m "github.com/mouse-blink/covmeld/internal/model"
	"github.com/mouse-blink/covmeld/internal/parser"
)

// JSONRenderer writes the covmeld JSON tracefile. Its output re-parses via
// --add-tracefile into the same model it was rendered from.
type JSONRenderer struct{}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, model *m.CoverageModel, opts Options) error {
	trace := parser.BuildTracefile(model)

	var (
		data []byte
		err  error
	)

	if opts.Pretty {
		data, err = json.MarshalIndent(trace, "", "  ")
	} else {
		data, err = json.Marshal(trace)
	}

	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}

	_, err = io.WriteString(w, "\n")

	return err
}
