package policies

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zeu5/simple-rl/types"
)

// QTable maps state hash to action hash to value
type QTable struct {
	table map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
	}
}

// Get returns def for pairs that were never set
func (q *QTable) Get(state, action string, def float64) float64 {
	actions, ok := q.table[state]
	if !ok {
		return def
	}
	val, ok := actions[action]
	if !ok {
		return def
	}
	return val
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

// Len is the number of states in the table
func (q *QTable) Len() int {
	return len(q.table)
}

// Record writes the table as json to path
func (q *QTable) Record(path string) error {
	bs, err := json.Marshal(q.table)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if _, err := writer.Write(bs); err != nil {
		return err
	}
	return writer.Flush()
}

// QLearningConfig configures the tabular Q learner
type QLearningConfig struct {
	Name     string
	Alpha    float64 // learning rate in (0, 1]
	Discount float64
	ExploreConfig
}

func DefaultQLearningConfig() QLearningConfig {
	return QLearningConfig{
		Name:          "qlearner",
		Alpha:         0.05,
		Discount:      0.95,
		ExploreConfig: DefaultExploreConfig(),
	}
}

func (c QLearningConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha should be in (0, 1], got %f", c.Alpha)
	}
	return nil
}

// QLearning is the tabular Q learner. Unseen pairs are worth 0.
type QLearning struct {
	agentBase
	alpha  float64
	anneal bool
	qTable *QTable
}

var _ types.Agent = &QLearning{}
var _ types.QValuer = &QLearning{}

func NewQLearning(actions []types.Action, config QLearningConfig) (*QLearning, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	base, err := newAgentBase(config.Name, actions, config.Discount, config.ExploreConfig)
	if err != nil {
		return nil, err
	}
	return &QLearning{
		agentBase: base,
		alpha:     config.Alpha,
		anneal:    config.Anneal,
		qTable:    NewQTable(),
	}, nil
}

func (q *QLearning) QValue(state types.State, action types.Action) float64 {
	return q.qTable.Get(state.Hash(), action.Hash(), 0)
}

func (q *QLearning) learningRate() float64 {
	if q.anneal {
		return anneal(q.alpha, q.steps)
	}
	return q.alpha
}

func (q *QLearning) Act(state types.State, lastReward float64) (types.Action, error) {
	return q.act(state, lastReward, q.QValue, q.Update)
}

func (q *QLearning) Update(state types.State, action types.Action, reward float64, nextState types.State) error {
	if _, err := q.transition(state, action, nextState); err != nil {
		return skipMalformed(err)
	}
	stateHash := state.Hash()
	actionHash := action.Hash()

	curVal := q.qTable.Get(stateHash, actionHash, 0)
	target := reward + q.discount*MaxQ(q.QValue, nextState, q.actions)
	q.qTable.Set(stateHash, actionHash, curVal+q.learningRate()*(target-curVal))
	return nil
}

func (q *QLearning) EndOfEpisode() error {
	q.endOfEpisode()
	return nil
}

func (q *QLearning) EndOfInstance() {}

func (q *QLearning) Reset() {
	q.reset()
	q.qTable = NewQTable()
}

// Record writes the Q table to path
func (q *QLearning) Record(path string) error {
	return q.qTable.Record(path)
}
