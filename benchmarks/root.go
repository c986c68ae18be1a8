package benchmarks

import "github.com/spf13/cobra"

var (
	instances  int
	episodes   int
	steps      int
	saveFile   string
	seed       uint64
	agentNames []string
	explore    string
	epsilon    float64
	alpha      float64
	anneal     bool
	redisAddr  string
	servePort  int
	logLevel   string
	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "simple-rl",
		Short:        "Run reinforcement learning agents on an MDP and compare them",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVarP(&instances, "instances", "i", 20, "Number of independent instances of each agent")
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 2000, "Number of episodes per instance")
	rootCommand.PersistentFlags().IntVar(&steps, "steps", 50, "Maximum number of steps of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder, empty to keep results in memory")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the agents, 0 for a time based seed")
	rootCommand.PersistentFlags().StringSliceVarP(&agentNames, "agents", "a", []string{"linear", "random"}, "Agents to compare: random, qlearner, linear, rmax, grad_boost")
	rootCommand.PersistentFlags().StringVar(&explore, "explore", "uniform", "Exploration of the Q learners: uniform or softmax")
	rootCommand.PersistentFlags().Float64Var(&epsilon, "epsilon", 0.1, "Exploration probability of the Q learners")
	rootCommand.PersistentFlags().Float64Var(&alpha, "alpha", 0.05, "Learning rate of the Q learners")
	rootCommand.PersistentFlags().BoolVar(&anneal, "anneal", false, "Anneal the learning rate and exploration")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis", "", "Address of a redis server to push results to")
	rootCommand.PersistentFlags().IntVar(&servePort, "serve", 0, "Port to serve results on while running, 0 to disable")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to the file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to the file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(ChainCommand())
	rootCommand.AddCommand(GridCommand())
	rootCommand.AddCommand(AtariCommand())
	rootCommand.AddCommand(RedisResultsCommand())
	return rootCommand
}
