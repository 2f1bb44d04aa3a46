package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
	"github.com/Prashant-Bharaj/fly-in/pkg/render"
	"github.com/Prashant-Bharaj/fly-in/pkg/telemetry"
)

type runOptions struct {
	color      bool
	metricsOut string
	trace      bool
	watch      bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <map>",
		Short: "Simulate a map and print the moves of every turn",
		Long: `Simulate a map and print one line per turn. Each move is written as
D<drone>-<zone>, or D<drone>-<from>-<to> when a drone starts crossing a
connection into a restricted zone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			if o.metricsOut != "" {
				cfg.Metrics.Textfile = o.metricsOut
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			if o.trace {
				shutdown, err := telemetry.Setup(telemetry.Config{
					Exporter: "stdout",
					Output:   cmd.ErrOrStderr(),
					Pretty:   true,
					Version:  version,
				})
				if err != nil {
					return err
				}
				defer func() { _ = shutdown(context.Background()) }()
			}

			reg := metricsRegistry(cfg)
			engine := flyin.New(cfg, flyin.WithLogger(logger), flyin.WithMetrics(reg))
			ctx, path, out := cmd.Context(), args[0], cmd.OutOrStdout()

			once := func() error {
				err := simulateFile(ctx, out, engine, path, o.color)
				if werr := writeMetrics(reg, cfg.Metrics.Textfile); werr != nil && err == nil {
					err = werr
				}
				return err
			}
			if !o.watch {
				return once()
			}
			return watchFile(ctx, path, logger, func() {
				if err := once(); err != nil {
					printf(cmd.ErrOrStderr(), "%v\n", err)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&o.color, "color", false, "color moves by zone color")
	cmd.Flags().StringVar(&o.metricsOut, "metrics-out", "", "write Prometheus metrics to this .prom file after the run")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "print OpenTelemetry spans to stderr")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "re-run whenever the map file changes")
	return cmd
}

// simulateFile parses and simulates one map, writing its turns to w. The
// turns reached before a deadlock are written too.
func simulateFile(ctx context.Context, w io.Writer, engine *flyin.Engine, path string, color bool) error {
	m, err := mapfile.ParseFile(path)
	if err != nil {
		return err
	}
	report, simErr := engine.Simulate(ctx, m)
	if report != nil && report.Result != nil {
		r := render.New(m.Graph, render.Options{Color: color, Output: w})
		if err := r.Write(w, report.Result.Log); err != nil {
			return err
		}
	}
	return simErr
}
