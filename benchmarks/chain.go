package benchmarks

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/zeu5/simple-rl/chain"
)

func ChainCommand() *cobra.Command {
	var length int
	var discount float64

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Compare agents on the chain MDP",
		RunE: func(cmd *cobra.Command, args []string) error {
			mdp, err := chain.NewChainMDP(length, discount)
			if err != nil {
				return err
			}
			ctx, cancel := withInterrupt(context.Background())
			defer cancel()

			_, err = runComparison(ctx, mdp)
			return err
		},
	}
	cmd.PersistentFlags().IntVar(&length, "length", 15, "Number of states of the chain")
	cmd.PersistentFlags().Float64Var(&discount, "discount", 0.95, "Discount factor")
	return cmd
}
