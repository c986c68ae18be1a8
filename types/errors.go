package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned when an action outside of the legal set is used
	ErrInvalidAction = errors.New("invalid action")
	// ErrStepAfterTerminal is returned when stepping an MDP that is in a terminal state
	ErrStepAfterTerminal = errors.New("step after terminal state")
	// ErrEnvironmentUnavailable is fatal and aborts the whole experiment
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
	// ErrMalformedTransition marks a transition with a missing component.
	// Agents recover from it locally by skipping the update.
	ErrMalformedTransition = errors.New("malformed transition")
	// ErrFeatureDimension is returned when a state has more features than
	// a learner can represent
	ErrFeatureDimension = errors.New("feature dimension mismatch")
	// ErrDegenerateFit is returned when a regression produces non finite values
	ErrDegenerateFit = errors.New("degenerate fit")
)

// RunError reports where in the experiment an agent's run failed. Instance,
// Episode and Step count from 0 like the episode records, the message counts
// from 1.
type RunError struct {
	Agent    string
	Instance int
	Episode  int
	Step     int
	Err      error
}

func (r *RunError) Error() string {
	return fmt.Sprintf("agent %s failed at instance %d, episode %d, step %d: %s",
		r.Agent, r.Instance+1, r.Episode+1, r.Step+1, r.Err)
}

func (r *RunError) Unwrap() error {
	return r.Err
}
