package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Instances int // number of independent instances per agent
	Episodes  int // number of episodes per instance
	Steps     int // maximum number of steps per episode

	RecordPath string     // path to store the configuration, empty to skip
	Logger     log.Logger // defaults to a nop logger
}

// DefaultComparisonConfig runs a single instance of 100 episodes of 100 steps
func DefaultComparisonConfig() *ComparisonConfig {
	return &ComparisonConfig{
		Instances: 1,
		Episodes:  100,
		Steps:     100,
		Logger:    log.NewNopLogger(),
	}
}

func (c *ComparisonConfig) Validate() error {
	if c.Instances <= 0 {
		return fmt.Errorf("instances should be positive, got %d", c.Instances)
	}
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes should be positive, got %d", c.Episodes)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps should be positive, got %d", c.Steps)
	}
	return nil
}

// Experiment is one agent taking part in a comparison
type Experiment struct {
	Name  string
	agent Agent
}

// NewExperiment creates a new experiment for the agent, named after it
func NewExperiment(agent Agent) *Experiment {
	return &Experiment{
		Name:  agent.Name(),
		agent: agent,
	}
}

func (e *Experiment) Agent() Agent {
	return e.agent
}

// episodeResult is what is left of an episode once it completes
type episodeResult struct {
	steps      int
	ret        float64
	terminated bool
}

// runEpisode runs a single episode on the MDP starting from its initial state.
// The returned int is the step at which an error occurred.
func (e *Experiment) runEpisode(mdp MDP, steps int) (episodeResult, int, error) {
	trace := NewTrace()
	state := mdp.InitialState()
	lastReward := 0.0

	for step := 0; step < steps; step++ {
		action, err := e.agent.Act(state, lastReward)
		if err != nil {
			return episodeResult{}, step, err
		}
		reward, next, err := mdp.Step(action)
		if err != nil {
			return episodeResult{}, step, err
		}
		trace.Append(state, action, reward, next)
		lastReward = reward
		state = next
		if next.Terminal() {
			break
		}
	}

	// Act integrates transitions lazily, the last one is not followed by an Act
	if last, ok := trace.Last(); ok {
		if err := e.agent.Update(last.State, last.Action, last.Reward, last.NextState); err != nil {
			return episodeResult{}, trace.Len() - 1, err
		}
	}
	if err := e.agent.EndOfEpisode(); err != nil {
		return episodeResult{}, trace.Len(), err
	}
	mdp.Reset()

	return episodeResult{
		steps:      trace.Len(),
		ret:        trace.Return(),
		terminated: trace.Terminated(),
	}, 0, nil
}

// Comparison runs each of the experiments on the same MDP, one after the
// other, and hands the results to the recorder
type Comparison struct {
	Experiments []*Experiment
	mdp         MDP
	recorder    Recorder
	cConfig     *ComparisonConfig
	logger      log.Logger
}

// NewComparison creates a comparison instance. A nil recorder discards the results.
func NewComparison(config *ComparisonConfig, mdp MDP, recorder Recorder) *Comparison {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		mdp:         mdp,
		recorder:    recorder,
		cConfig:     config,
		logger:      logger,
	}
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// AddAgent is a shorthand for AddExperiment(NewExperiment(agent))
func (c *Comparison) AddAgent(agent Agent) {
	c.AddExperiment(NewExperiment(agent))
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.RecordPath, 0777); err != nil {
		return err
	}

	out := make(map[string]interface{})
	out["instances"] = cfg.Instances
	out["episodes"] = cfg.Episodes
	out["steps"] = cfg.Steps
	out["mdp"] = c.mdp.Name()
	out["discount"] = c.mdp.Discount()

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

// Run the comparison. A failing agent does not stop the others, all the
// failures are returned together. ErrEnvironmentUnavailable and context
// cancellation abort the comparison.
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.cConfig.Validate(); err != nil {
		return err
	}
	if c.mdp == nil {
		return fmt.Errorf("no mdp to run on: %w", ErrEnvironmentUnavailable)
	}
	if err := c.recordConfig(); err != nil {
		return fmt.Errorf("recording configuration: %w", err)
	}

	level.Info(c.logger).Log(
		"msg", "starting comparison",
		"mdp", c.mdp.Name(),
		"agents", len(c.Experiments),
		"instances", c.cConfig.Instances,
		"episodes", c.cConfig.Episodes,
		"steps", c.cConfig.Steps,
	)

	errs := make([]error, 0)
	for _, e := range c.Experiments {
		level.Info(c.logger).Log("msg", "learning", "agent", e.Name)
		start := time.Now()
		err := c.runExperiment(ctx, e)
		elapsed := time.Since(start)

		if err != nil {
			level.Error(c.logger).Log("msg", "agent failed", "agent", e.Name, "err", err)
			errs = append(errs, err)
			if errors.Is(err, ErrEnvironmentUnavailable) || ctx.Err() != nil {
				return errors.Join(errs...)
			}
			continue
		}
		level.Info(c.logger).Log("msg", "agent done", "agent", e.Name, "elapsed", elapsed)
		if err := c.recorder.RecordTime(e.Name, elapsed); err != nil {
			errs = append(errs, fmt.Errorf("recording time of %s: %w", e.Name, err))
		}
	}

	if err := c.recorder.Finalize(); err != nil {
		errs = append(errs, fmt.Errorf("finalizing results: %w", err))
	}
	return errors.Join(errs...)
}

// runExperiment runs all the instances of one agent. The agent and the
// MDP are reset before returning, also on failure.
func (c *Comparison) runExperiment(ctx context.Context, e *Experiment) error {
	agent := e.agent
	defer c.mdp.Reset()
	c.mdp.Reset()

	for instance := 0; instance < c.cConfig.Instances; instance++ {
		records := make([]EpisodeRecord, 0, c.cConfig.Episodes)

		for episode := 0; episode < c.cConfig.Episodes; episode++ {
			select {
			case <-ctx.Done():
				agent.Reset()
				return &RunError{Agent: e.Name, Instance: instance, Episode: episode, Err: ctx.Err()}
			default:
			}

			result, step, err := e.runEpisode(c.mdp, c.cConfig.Steps)
			if err != nil {
				// records of the failed instance are discarded
				agent.Reset()
				return &RunError{Agent: e.Name, Instance: instance, Episode: episode, Step: step, Err: err}
			}
			records = append(records, EpisodeRecord{
				Agent:      e.Name,
				Instance:   instance,
				Episode:    episode,
				Return:     result.ret,
				Steps:      result.steps,
				Terminated: result.terminated,
			})
		}

		level.Debug(c.logger).Log("msg", "instance complete", "agent", e.Name, "instance", instance+1, "of", c.cConfig.Instances)
		for _, r := range records {
			if err := c.recorder.Record(r); err != nil {
				agent.Reset()
				return fmt.Errorf("recording episode %d of %s: %w", r.Episode, e.Name, err)
			}
		}
		if o, ok := c.recorder.(InstanceObserver); ok {
			o.EndOfInstance(agent, instance)
		}
		agent.EndOfInstance()
		agent.Reset()
	}
	return nil
}
