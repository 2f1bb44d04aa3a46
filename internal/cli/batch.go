package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Prashant-Bharaj/fly-in/pkg/batch"
	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
)

var (
	batchHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	batchCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	batchFailStyle   = batchCellStyle.Foreground(lipgloss.Color("#FF0000"))
)

type batchOptions struct {
	workers int
	timeout time.Duration
}

func newBatchCmd(g *globalOptions) *cobra.Command {
	o := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <dir|map>...",
		Short: "Simulate many maps concurrently and summarize the results",
		Long: `Simulate every map given, and every *.txt file in the directories given,
on a pool of workers. Exits non-zero if any map fails to parse, deadlocks or
times out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Batch.Workers = o.workers
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Batch.Timeout = o.timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			paths, err := batch.Expand(args)
			if err != nil {
				return err
			}
			reg := metricsRegistry(cfg)
			engine := flyin.New(cfg, flyin.WithLogger(logger), flyin.WithMetrics(reg))
			summary, err := batch.Run(cmd.Context(), engine, paths, batch.Options{
				Workers: cfg.Batch.Workers,
				Timeout: cfg.Batch.Timeout,
				Logger:  logger,
				Metrics: reg,
			})
			if summary != nil {
				printf(cmd.OutOrStdout(), "%s\n", summaryTable(summary))
				printf(cmd.OutOrStdout(), "%d/%d maps succeeded in %s\n",
					summary.Count(batch.StatusSuccess), len(summary.Outcomes),
					summary.Elapsed.Round(time.Millisecond))
			}
			if err != nil {
				return err
			}
			if err := writeMetrics(reg, cfg.Metrics.Textfile); err != nil {
				return err
			}
			if summary.Failed() {
				return fmt.Errorf("%d of %d maps failed",
					len(summary.Outcomes)-summary.Count(batch.StatusSuccess), len(summary.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&o.workers, "workers", "j", 0, "concurrent maps (0 means one per CPU)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "per-map time limit (0 means none)")
	return cmd
}

func summaryTable(s *batch.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MAP", "STATUS", "DRONES", "TURNS", "TIME")

	for _, o := range s.Outcomes {
		turns := "-"
		if o.Turns > 0 {
			turns = strconv.Itoa(o.Turns)
		}
		t.Row(
			filepath.Base(o.Path),
			o.Status,
			strconv.Itoa(o.Drones),
			turns,
			o.Elapsed.Round(time.Microsecond).String(),
		)
	}

	outcomes := s.Outcomes
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return batchHeaderStyle
		case row >= 0 && row < len(outcomes) && outcomes[row].Status != batch.StatusSuccess:
			return batchFailStyle
		default:
			return batchCellStyle
		}
	})
	return t.String()
}
