package benchmarks

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/simple-rl/results"
	"github.com/zeu5/simple-rl/types"
)

func newLogger(lvl string) (log.Logger, error) {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level: %s", lvl)
	}
	return level.NewFilter(logger, opt), nil
}

// withInterrupt cancels the context on an interrupt signal
func withInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, cancel
}

// runComparison runs the selected agents on the MDP and reports the results
// according to the flags. It returns the collected results.
func runComparison(ctx context.Context, mdp types.MDP) (*results.Collector, error) {
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, err
	}
	agents, err := makeAgents(agentNames, mdp)
	if err != nil {
		return nil, err
	}

	collector := results.NewCollector()
	recorders := types.MultiRecorder{collector}
	if saveFile != "" {
		csv, err := results.NewCSVRecorder(path.Join(saveFile, "results"))
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, csv, results.NewPlotter(saveFile, mdp.Name(), collector))
	}
	if redisAddr != "" {
		r, err := results.NewRedisRecorder(ctx, redisAddr, "simple-rl:"+mdp.Name())
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, r)
	}
	if servePort > 0 {
		server := results.NewServer(servePort, collector)
		server.SetInfo("mdp", mdp.Name())
		server.SetInfo("instances", instances)
		server.SetInfo("episodes", episodes)
		server.SetInfo("steps", steps)
		server.Start(ctx)
		level.Info(logger).Log("msg", "serving results", "port", servePort)
	}

	if err := startProfiling(); err != nil {
		return nil, err
	}
	defer stopProfiling()

	c := types.NewComparison(&types.ComparisonConfig{
		Instances:  instances,
		Episodes:   episodes,
		Steps:      steps,
		RecordPath: saveFile,
		Logger:     logger,
	}, mdp, recorders)
	for _, agent := range agents {
		c.AddAgent(agent)
	}
	err = c.Run(ctx)
	printSummary(collector)
	return collector, err
}

func printSummary(collector *results.Collector) {
	times := collector.Times()
	fmt.Println("\n--- RESULTS ---")
	for _, agent := range collector.Agents() {
		summary := collector.Summary(agent)
		if len(summary) == 0 {
			continue
		}
		last := summary[len(summary)-1]
		fmt.Printf("%s: last episode return %.3f (+/- %.3f), took %.3f seconds\n",
			agent, last.Mean, last.CI95, times[agent].Seconds())
	}
	fmt.Println("---------------")
}
