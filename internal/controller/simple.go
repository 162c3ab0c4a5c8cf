package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/covmeld/internal/domain"
	m "github.com/mouse-blink/covmeld/internal/model"
)

// Coverage thresholds for colorizing percentages.
const (
	goodCoverage = 90.0
	okCoverage   = 75.0
)

// SimpleUI implements UI using cobra Command's print helpers.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisableColor forces plain output. fatih/color already disables itself
// on non-terminals, this only exists so callers can force it explicitly.
func DisableColor() {
	color.NoColor = true
}

// DisplaySummary implements UI.
func (s *SimpleUI) DisplaySummary(ctx context.Context, model *m.CoverageModel, summary domain.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Lines", "Cover", "Missing"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, file := range model.Files() {
		fileSummary := m.SummarizeFile(file)

		table.Append([]string{
			string(file.Path),
			fmt.Sprintf("%d/%d", fileSummary.Lines.Covered, fileSummary.Lines.Total),
			colorizePercent(fileSummary.Lines),
			file.UncoveredLines(),
		})
	}

	table.Render()

	s.cmd.Printf("\n%s", buf.String())
	s.cmd.Printf("\nlines:     %s (%d of %d)\n", colorizePercent(summary.Stats.Lines), summary.Stats.Lines.Covered, summary.Stats.Lines.Total)
	s.cmd.Printf("branches:  %s (%d of %d)\n", colorizePercent(summary.Stats.Branches), summary.Stats.Branches.Covered, summary.Stats.Branches.Total)
	s.cmd.Printf("functions: %s (%d of %d)\n", colorizePercent(summary.Stats.Functions), summary.Stats.Functions.Covered, summary.Stats.Functions.Total)
	s.cmd.Printf("\nartifacts processed: %d", summary.Artifacts)

	if summary.Skipped > 0 {
		s.cmd.Printf(", skipped: %s", color.YellowString("%d", summary.Skipped))
	}

	s.cmd.Println()

	return nil
}

func colorizePercent(stat m.CoverageStat) string {
	pct, ok := stat.Percent()
	if !ok {
		return "--"
	}

	text := fmt.Sprintf("%.1f%%", pct)

	switch {
	case pct >= goodCoverage:
		return color.GreenString(text)
	case pct >= okCoverage:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}
