package results

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/zeu5/simple-rl/types"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EpisodeStats aggregates the returns of one episode across instances
type EpisodeStats struct {
	Episode   int     `json:"episode"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	CI95      float64 `json:"ci95"`
	Instances int     `json:"instances"`
}

type agentResults struct {
	returns [][]float64 // instance -> episode
	steps   [][]int
	elapsed time.Duration
	timed   bool
}

// Collector keeps the results in memory. It is safe to read while the
// comparison is running.
type Collector struct {
	lock      *sync.Mutex
	agents    map[string]*agentResults
	order     []string
	finalized bool
}

var _ types.Recorder = &Collector{}

func NewCollector() *Collector {
	return &Collector{
		lock:   new(sync.Mutex),
		agents: make(map[string]*agentResults),
		order:  make([]string, 0),
	}
}

func (c *Collector) agent(name string) *agentResults {
	a, ok := c.agents[name]
	if !ok {
		a = &agentResults{
			returns: make([][]float64, 0),
			steps:   make([][]int, 0),
		}
		c.agents[name] = a
		c.order = append(c.order, name)
	}
	return a
}

func (c *Collector) Record(r types.EpisodeRecord) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	a := c.agent(r.Agent)
	for len(a.returns) <= r.Instance {
		a.returns = append(a.returns, make([]float64, 0))
		a.steps = append(a.steps, make([]int, 0))
	}
	for len(a.returns[r.Instance]) <= r.Episode {
		a.returns[r.Instance] = append(a.returns[r.Instance], 0)
		a.steps[r.Instance] = append(a.steps[r.Instance], 0)
	}
	a.returns[r.Instance][r.Episode] = r.Return
	a.steps[r.Instance][r.Episode] = r.Steps
	return nil
}

func (c *Collector) RecordTime(agent string, elapsed time.Duration) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	a := c.agent(agent)
	a.elapsed = elapsed
	a.timed = true
	return nil
}

func (c *Collector) Finalize() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.finalized = true
	return nil
}

func (c *Collector) Finalized() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.finalized
}

// Agents in the order they were first recorded
func (c *Collector) Agents() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Collector) Has(agent string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.agents[agent]
	return ok
}

// Returns copies the returns of the agent, indexed by instance then episode
func (c *Collector) Returns(agent string) [][]float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	a, ok := c.agents[agent]
	if !ok {
		return nil
	}
	out := make([][]float64, len(a.returns))
	for i, r := range a.returns {
		out[i] = make([]float64, len(r))
		copy(out[i], r)
	}
	return out
}

// Times returns the time each agent spent learning
func (c *Collector) Times() map[string]time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	out := make(map[string]time.Duration)
	for name, a := range c.agents {
		if a.timed {
			out[name] = a.elapsed
		}
	}
	return out
}

// Summary computes the mean return of each episode over the instances with
// its standard deviation and the half width of the 95% confidence interval
func (c *Collector) Summary(agent string) []EpisodeStats {
	returns := c.Returns(agent)
	episodes := 0
	for _, r := range returns {
		if len(r) > episodes {
			episodes = len(r)
		}
	}

	out := make([]EpisodeStats, episodes)
	for e := 0; e < episodes; e++ {
		vals := make([]float64, 0, len(returns))
		for _, r := range returns {
			if e < len(r) {
				vals = append(vals, r[e])
			}
		}
		out[e] = episodeStats(e, vals)
	}
	return out
}

// Totals is the sum of the returns of each instance, sorted by instance
func (c *Collector) Totals(agent string) []float64 {
	returns := c.Returns(agent)
	out := make([]float64, len(returns))
	for i, r := range returns {
		for _, v := range r {
			out[i] += v
		}
	}
	return out
}

func episodeStats(episode int, vals []float64) EpisodeStats {
	s := EpisodeStats{Episode: episode, Instances: len(vals)}
	if len(vals) == 0 {
		return s
	}
	s.Mean = stat.Mean(vals, nil)
	if len(vals) < 2 {
		return s
	}
	s.StdDev = stat.StdDev(vals, nil)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(vals) - 1)}
	s.CI95 = t.Quantile(0.975) * s.StdDev / math.Sqrt(float64(len(vals)))
	return s
}

// sortedAgents returns the agent names in lexical order
func sortedAgents(times map[string]time.Duration) []string {
	names := make([]string, 0, len(times))
	for name := range times {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
