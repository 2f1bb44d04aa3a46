package cli

import (
	"github.com/spf13/cobra"

	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
)

func newPlanCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <map>",
		Short: "Print the routes a map's fleet would fly",
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
			plan, err := flyin.New(cfg, flyin.WithLogger(logger)).Plan(cmd.Context(), m.Graph)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			selected := plan.Select(m.Drones, cfg.Planner.DiverseThreshold)
			printf(out, "drones: %d\n", m.Drones)
			printf(out, "strategy: %s\n", cfg.Planner.Strategy)
			printf(out, "searches: %d\n", plan.Searches)
			for i, p := range plan.Diverse {
				mark := " "
				if i < len(selected) {
					mark = "*"
				}
				printf(out, "%s route %d  cost %d  priority %d  %s\n",
					mark, i+1, p.Cost(), p.PriorityZones(), p.Format(m.Graph))
			}
			printf(out, "%d of %d routes flown\n", len(selected), len(plan.Diverse))
			return nil
		},
	}
}
