package results

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zeu5/simple-rl/types"
	"github.com/zeu5/simple-rl/util"
)

// CSVRecorder writes the returns of each agent to <path>/<agent>.csv, one
// line per instance with one column per episode, and the learning times to
// <path>/times.txt
type CSVRecorder struct {
	Path string

	lock    *sync.Mutex
	pending map[string][]float64
	err     error
}

var _ types.Recorder = &CSVRecorder{}
var _ types.InstanceObserver = &CSVRecorder{}

// NewCSVRecorder creates the directory, removing earlier results in it
func NewCSVRecorder(savePath string) (*CSVRecorder, error) {
	if err := util.CleanDir(savePath); err != nil {
		return nil, fmt.Errorf("preparing %s: %w", savePath, err)
	}
	return &CSVRecorder{
		Path:    savePath,
		lock:    new(sync.Mutex),
		pending: make(map[string][]float64),
	}, nil
}

// AgentFile is the csv file of the agent
func (c *CSVRecorder) AgentFile(agent string) string {
	return path.Join(c.Path, agent+".csv")
}

func (c *CSVRecorder) Record(r types.EpisodeRecord) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pending[r.Agent] = append(c.pending[r.Agent], r.Return)
	return nil
}

// EndOfInstance flushes the returns of the instance as one line
func (c *CSVRecorder) EndOfInstance(agent types.Agent, _ int) {
	c.lock.Lock()
	returns := c.pending[agent.Name()]
	delete(c.pending, agent.Name())
	c.lock.Unlock()

	cols := make([]string, len(returns))
	for i, r := range returns {
		cols[i] = strconv.FormatFloat(r, 'f', -1, 64)
	}
	if err := util.AppendToFile(c.AgentFile(agent.Name()), strings.Join(cols, ",")); err != nil {
		c.lock.Lock()
		c.err = errors.Join(c.err, err)
		c.lock.Unlock()
	}
}

func (c *CSVRecorder) RecordTime(agent string, elapsed time.Duration) error {
	return util.AppendToFile(path.Join(c.Path, "times.txt"), fmt.Sprintf("%s,%.3f", agent, elapsed.Seconds()))
}

// Finalize reports failed writes and returns that were recorded without the
// end of their instance
func (c *CSVRecorder) Finalize() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.err != nil {
		return c.err
	}
	for agent, returns := range c.pending {
		if len(returns) > 0 {
			return fmt.Errorf("%d episodes of %s were not flushed", len(returns), agent)
		}
	}
	return nil
}
