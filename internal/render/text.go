package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// TextRenderer writes the plain-text summary table. Output is uncolored so
// report files stay byte-stable; the console summary adds color separately.
type TextRenderer struct{}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, model *m.CoverageModel, _ Options) error {
	if _, err := fmt.Fprintf(w, "covmeld coverage report\n\n"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Lines", "Exec", "Cover", "Missing"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	var total m.Summary

	for _, file := range model.Files() {
		summary := m.SummarizeFile(file)
		total.Add(summary)

		table.Append([]string{
			string(file.Path),
			fmt.Sprintf("%d", summary.Lines.Total),
			fmt.Sprintf("%d", summary.Lines.Covered),
			FormatPercent(summary.Lines),
			file.UncoveredLines(),
		})
	}

	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", total.Lines.Total),
		fmt.Sprintf("%d", total.Lines.Covered),
		FormatPercent(total.Lines),
		"",
	})

	table.Render()

	_, err := fmt.Fprintf(w, "\nbranches: %s (%d of %d)\nfunctions: %s (%d of %d)\n",
		FormatPercent(total.Branches), total.Branches.Covered, total.Branches.Total,
		FormatPercent(total.Functions), total.Functions.Covered, total.Functions.Total,
	)

	return err
}

// FormatPercent renders a stat as "82.4%", or "--" when nothing is
// measurable.
func FormatPercent(stat m.CoverageStat) string {
	pct, ok := stat.Percent()
	if !ok {
		return "--"
	}

	return fmt.Sprintf("%.1f%%", pct)
}
