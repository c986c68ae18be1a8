package types

import "fmt"

// Transition observed by an agent
type Transition struct {
	State     State
	Action    Action
	Reward    float64
	NextState State
}

// Valid is false if any component of the transition is missing
func (t Transition) Valid() bool {
	return t.Check() == nil
}

// Check returns ErrMalformedTransition naming the first missing component
func (t Transition) Check() error {
	switch {
	case t.State == nil:
		return fmt.Errorf("%w: no state", ErrMalformedTransition)
	case t.Action == nil:
		return fmt.Errorf("%w: no action", ErrMalformedTransition)
	case t.NextState == nil:
		return fmt.Errorf("%w: no next state", ErrMalformedTransition)
	}
	return nil
}

// Trace of an episode as (state, action, reward, nextState) tuples
type Trace struct {
	states     []State
	actions    []Action
	rewards    []float64
	nextStates []State
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		rewards:    make([]float64, 0),
		nextStates: make([]State, 0),
	}
}

func (t *Trace) Append(state State, action Action, reward float64, nextState State) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
	t.nextStates = append(t.nextStates, nextState)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (Transition, bool) {
	if i < 0 || i >= len(t.states) {
		return Transition{}, false
	}
	return Transition{
		State:     t.states[i],
		Action:    t.actions[i],
		Reward:    t.rewards[i],
		NextState: t.nextStates[i],
	}, true
}

func (t *Trace) Last() (Transition, bool) {
	return t.Get(len(t.states) - 1)
}

// Return is the undiscounted sum of rewards in the trace
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, r := range t.rewards {
		sum += r
	}
	return sum
}

// Terminated is true if the last transition reached a terminal state
func (t *Trace) Terminated() bool {
	last, ok := t.Last()
	if !ok {
		return false
	}
	return last.NextState.Terminal()
}
