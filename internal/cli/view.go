package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
	"github.com/Prashant-Bharaj/fly-in/pkg/viewer"
)

func newViewCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view <map>",
		Short: "Step through a simulation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			m, err := mapfile.ParseFile(args[0])
			if err != nil {
				return err
			}
			// A deadlocked run is still worth viewing up to the turn it stopped.
			report, runErr := flyin.New(cfg, flyin.WithLogger(logger)).Simulate(cmd.Context(), m)
			model, err := viewer.New(filepath.Base(args[0]), m.Graph, report, runErr)
			if err != nil {
				if runErr != nil {
					return runErr
				}
				return err
			}
			return viewer.Run(model)
		},
	}
}
