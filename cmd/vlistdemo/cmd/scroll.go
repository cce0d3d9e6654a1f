package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aman-cerp/vlist/internal/config"
	"github.com/aman-cerp/vlist/internal/telemetry"
	"github.com/aman-cerp/vlist/internal/ui"
	"github.com/aman-cerp/vlist/pkg/vlist"
)

// newScrollCmd creates the interactive scroll demo command.
func newScrollCmd() *cobra.Command {
	var totalItems uint32
	var chunkCapacity uint32
	var estimatedSize float64
	var viewportSize float64
	var step float64
	var maxResidentChunks uint32

	cmd := &cobra.Command{
		Use:   "scroll",
		Short: "Interactively scroll a simulated list and watch resident-set behavior",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.NewDefault()
			if maxResidentChunks > 0 {
				cfg.MaxResidentChunks = maxResidentChunks
			}

			l, err := vlist.New(vlist.Params{
				TotalItems:    totalItems,
				ChunkCapacity: chunkCapacity,
				EstimatedSize: estimatedSize,
				Config:        cfg,
				Metrics:       telemetry.New(),
			})
			if err != nil {
				return fmt.Errorf("failed to build list: %w", err)
			}

			model := ui.NewScrollModel(l, viewportSize, step)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().Uint32Var(&totalItems, "total-items", 1_000_000, "Number of items in the simulated list")
	cmd.Flags().Uint32Var(&chunkCapacity, "chunk-capacity", 100, "Items per chunk")
	cmd.Flags().Float64Var(&estimatedSize, "estimated-size", 40, "Estimated item size before measurement")
	cmd.Flags().Float64Var(&viewportSize, "viewport", 800, "Simulated viewport size")
	cmd.Flags().Float64Var(&step, "step", 80, "Scroll distance per arrow-key press")
	cmd.Flags().Uint32Var(&maxResidentChunks, "max-resident-chunks", 0, "Override the default resident chunk cap (0 keeps the default)")

	return cmd
}
