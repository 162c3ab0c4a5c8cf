package render

import (
	"bufio"
	"fmt"
	"io"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// LcovRenderer writes an LCOV tracefile (the format consumed by genhtml
// and most coverage services).
type LcovRenderer struct{}

// Render implements Renderer.
func (r *LcovRenderer) Render(w io.Writer, model *m.CoverageModel, _ Options) error {
	out := bufio.NewWriter(w)

	for _, file := range model.Files() {
		summary := m.SummarizeFile(file)

		fmt.Fprintln(out, "TN:")
		fmt.Fprintf(out, "SF:%s\n", file.Path)

		for _, fn := range file.SortedFunctions() {
			fmt.Fprintf(out, "FN:%d,%s\n", fn.StartLine, fn.Name)
		}

		for _, fn := range file.SortedFunctions() {
			fmt.Fprintf(out, "FNDA:%d,%s\n", fn.CallCount, fn.Name)
		}

		if summary.Functions.Total > 0 {
			fmt.Fprintf(out, "FNF:%d\n", summary.Functions.Total)
			fmt.Fprintf(out, "FNH:%d\n", summary.Functions.Covered)
		}

		for _, lineno := range file.SortedLines() {
			line := file.Lines[lineno]

			for index, branch := range line.Branches {
				// An untaken branch on a never-executed line has no
				// meaningful count, LCOV spells that "-".
				taken := fmt.Sprintf("%d", branch.Count)
				if !line.Covered() && !branch.Taken() {
					taken = "-"
				}

				fmt.Fprintf(out, "BRDA:%d,0,%d,%s\n", lineno, index, taken)
			}
		}

		if summary.Branches.Total > 0 {
			fmt.Fprintf(out, "BRF:%d\n", summary.Branches.Total)
			fmt.Fprintf(out, "BRH:%d\n", summary.Branches.Covered)
		}

		for _, lineno := range file.SortedLines() {
			fmt.Fprintf(out, "DA:%d,%d\n", lineno, file.Lines[lineno].Count)
		}

		fmt.Fprintf(out, "LF:%d\n", summary.Lines.Total)
		fmt.Fprintf(out, "LH:%d\n", summary.Lines.Covered)
		fmt.Fprintln(out, "end_of_record")
	}

	return out.Flush()
}
