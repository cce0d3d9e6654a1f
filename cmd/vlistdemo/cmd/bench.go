package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/vlist/internal/config"
	"github.com/aman-cerp/vlist/internal/output"
	"github.com/aman-cerp/vlist/internal/telemetry"
	"github.com/aman-cerp/vlist/pkg/vlist"
)

// newBenchCmd creates the bench command, which drives a List through a
// deterministic sweep of scroll positions and reports resident-set and
// latency statistics, without any terminal UI.
func newBenchCmd() *cobra.Command {
	var totalItems uint32
	var chunkCapacity uint32
	var estimatedSize float64
	var viewportSize float64
	var steps int
	var maxResidentChunks uint32

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Sweep a simulated list's viewport and report resident-set and latency stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.New(cmd.OutOrStdout())

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

			total := l.TotalSize()
			if steps <= 0 {
				steps = 1
			}
			stride := total / float64(steps)

			start := time.Now()
			for i := 0; i < steps; i++ {
				scroll := stride * float64(i)
				if _, err := l.GetVisibleRange(scroll, viewportSize); err != nil {
					return fmt.Errorf("resolve failed at step %d: %w", i, err)
				}
			}
			elapsed := time.Since(start)

			snap := l.Metrics()

			out.Status("", fmt.Sprintf("resolved %d viewports in %s (%.1f/s)",
				steps, elapsed, float64(steps)/elapsed.Seconds()))
			out.Status("", fmt.Sprintf("touch hit rate: %.1f%%  evictions: %d  resident high-water: %d",
				snap.HitRate()*100, snap.Evictions, snap.ResidentHighWater))
			for bucket, count := range snap.LatencyDistribution {
				out.Status("", fmt.Sprintf("  %s: %d", bucket, count))
			}
			if len(snap.RecentLatencies) > 0 {
				worst := snap.RecentLatencies[0]
				for _, d := range snap.RecentLatencies {
					if d > worst {
						worst = d
					}
				}
				out.Status("", fmt.Sprintf("worst of last %d samples: %s", len(snap.RecentLatencies), worst))
			}

			return nil
		},
	}

	cmd.Flags().Uint32Var(&totalItems, "total-items", 1_000_000, "Number of items in the simulated list")
	cmd.Flags().Uint32Var(&chunkCapacity, "chunk-capacity", 100, "Items per chunk")
	cmd.Flags().Float64Var(&estimatedSize, "estimated-size", 40, "Estimated item size before measurement")
	cmd.Flags().Float64Var(&viewportSize, "viewport", 800, "Simulated viewport size")
	cmd.Flags().IntVar(&steps, "steps", 1000, "Number of viewport resolutions to sweep across the list")
	cmd.Flags().Uint32Var(&maxResidentChunks, "max-resident-chunks", 0, "Override the default resident chunk cap (0 keeps the default)")

	return cmd
}
