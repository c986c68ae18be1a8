package benchmarks

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/simple-rl/results"
	"github.com/zeu5/simple-rl/types"
	"gonum.org/v1/gonum/stat"
)

// RedisResultsCommand prints the results a run pushed to redis
func RedisResultsCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "redis-results",
		Short: "Print the results stored in redis by a run with --redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := redisAddr
			if addr == "" {
				addr = "127.0.0.1:6379"
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			r, err := results.OpenRedisResults(ctx, addr, prefix)
			if err != nil {
				return err
			}
			defer r.Close()

			status, err := r.Status()
			if err != nil {
				return err
			}
			if status == "" {
				status = "running"
			}
			times, err := r.Times()
			if err != nil {
				return err
			}
			agents, err := r.Agents()
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", prefix, status)
			for _, agent := range agents {
				records, err := r.Episodes(agent)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d episodes, mean return %.3f, took %.3f seconds\n",
					agent, len(records), meanReturn(records), times[agent])
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&prefix, "prefix", "simple-rl:chain-15", "Key prefix of the run")
	return cmd
}

func meanReturn(records []types.EpisodeRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	returns := make([]float64, len(records))
	for i, r := range records {
		returns[i] = r.Return
	}
	return stat.Mean(returns, nil)
}
