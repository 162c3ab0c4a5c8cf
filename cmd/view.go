package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/covmeld/internal/controller"
	"github.com/mouse-blink/covmeld/internal/domain"
	m "github.com/mouse-blink/covmeld/internal/model"
	"github.com/mouse-blink/covmeld/internal/parser"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <tracefile>",
		Short: "Browse a JSON tracefile interactively",
		Long:  "Open a previously emitted JSON tracefile in an interactive coverage browser.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracefile := m.Path(args[0])

			data, err := fsAdapter.ReadFile(tracefile)
			if err != nil {
				return err
			}

			records, err := parser.ParseTracefile(tracefile, data)
			if err != nil {
				return err
			}

			merger := domain.NewMerger()

			for _, record := range records {
				if err := merger.Add(record); err != nil {
					return err
				}
			}

			model := merger.Finalize()

			summary := domain.RunSummary{
				Artifacts: 1,
				Stats:     m.Summarize(model),
			}

			return viewUI.DisplaySummary(cmd.Context(), model, summary)
		},
	}

	return cmd
}

// viewUI is swappable so tests can avoid launching a terminal program.
var viewUI controller.UI = controller.NewTUI()

func init() {
	rootCmd.AddCommand(viewCmd)
}
