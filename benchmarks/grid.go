package benchmarks

import (
	"context"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/simple-rl/grid"
)

func GridCommand() *cobra.Command {
	var height int
	var width int
	var discount float64

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Compare agents on the grid world",
		RunE: func(cmd *cobra.Command, args []string) error {
			mdp, err := grid.NewGridMDP(height, width, discount)
			if err != nil {
				return err
			}
			ctx, cancel := withInterrupt(context.Background())
			defer cancel()

			if _, err := runComparison(ctx, mdp); err != nil {
				return err
			}
			if saveFile == "" {
				return nil
			}
			visits := mdp.Visits()
			if err := visits.Record(path.Join(saveFile, "visits.json")); err != nil {
				return err
			}
			return visits.Plot(mdp.Name()+" visits", path.Join(saveFile, "visits.png"))
		},
	}
	cmd.PersistentFlags().IntVar(&height, "height", 10, "Height of the grid")
	cmd.PersistentFlags().IntVar(&width, "width", 10, "Width of the grid")
	cmd.PersistentFlags().Float64Var(&discount, "discount", 0.95, "Discount factor")
	return cmd
}
