package controller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mouse-blink/covmeld/internal/domain"
	m "github.com/mouse-blink/covmeld/internal/model"
	"github.com/mouse-blink/covmeld/internal/render"
)

var (
	tuiBaseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	tuiTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	tuiFooterStyle = lipgloss.NewStyle().
			Faint(true)
)

// TUI implements UI as an interactive coverage browser built on Bubble Tea.
type TUI struct{}

// NewTUI creates a new TUI.
func NewTUI() *TUI {
	return &TUI{}
}

// DisplaySummary implements UI. It blocks until the user quits the browser.
func (t *TUI) DisplaySummary(ctx context.Context, model *m.CoverageModel, summary domain.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	program := tea.NewProgram(newCoverageBrowser(model, summary), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("coverage browser failed: %w", err)
	}

	return nil
}

// coverageBrowser is the Bubble Tea model: a table of files with their
// line/branch coverage, plus a detail pane for the selected file.
type coverageBrowser struct {
	model    *m.CoverageModel
	summary  domain.RunSummary
	files    []*m.FileCoverage
	table    table.Model
	quitting bool
}

func newCoverageBrowser(model *m.CoverageModel, summary domain.RunSummary) coverageBrowser {
	files := model.Files()

	pathWidth := 20
	for _, file := range files {
		if len(file.Path) > pathWidth {
			pathWidth = len(file.Path)
		}
	}

	columns := []table.Column{
		{Title: "File", Width: pathWidth},
		{Title: "Lines", Width: 9},
		{Title: "Cover", Width: 7},
		{Title: "Branch", Width: 7},
	}

	rows := make([]table.Row, 0, len(files))

	for _, file := range files {
		fileSummary := m.SummarizeFile(file)

		rows = append(rows, table.Row{
			string(file.Path),
			fmt.Sprintf("%d/%d", fileSummary.Lines.Covered, fileSummary.Lines.Total),
			render.FormatPercent(fileSummary.Lines),
			render.FormatPercent(fileSummary.Branches),
		})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	tbl.SetStyles(styles)

	return coverageBrowser{
		model:   model,
		summary: summary,
		files:   files,
		table:   tbl,
	}
}

// Init implements tea.Model.
func (b coverageBrowser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b coverageBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			b.quitting = true
			return b, tea.Quit
		}
	case tea.WindowSizeMsg:
		b.table.SetHeight(max(5, msg.Height-10))
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)

	return b, cmd
}

// View implements tea.Model.
func (b coverageBrowser) View() string {
	if b.quitting {
		return ""
	}

	title := tuiTitleStyle.Render(fmt.Sprintf(
		"covmeld · %d files · lines %s · branches %s",
		len(b.files),
		render.FormatPercent(b.summary.Stats.Lines),
		render.FormatPercent(b.summary.Stats.Branches),
	))

	detail := ""
	if cursor := b.table.Cursor(); cursor >= 0 && cursor < len(b.files) {
		file := b.files[cursor]
		if missing := file.UncoveredLines(); missing != "" {
			detail = fmt.Sprintf("missing: %s", missing)
		} else {
			detail = "fully covered"
		}
	}

	footer := tuiFooterStyle.Render("↑/↓ navigate · q quit")

	return title + "\n" + tuiBaseStyle.Render(b.table.View()) + "\n" + detail + "\n" + footer + "\n"
}
