package types

// Agent interacts with an MDP and learns from the observed transitions.
// Every value function representation implements the same contract.
type Agent interface {
	Name() string
	Actions() []Action
	Discount() float64

	// Act integrates the previous transition using lastReward and then
	// selects the action to take in state
	Act(state State, lastReward float64) (Action, error)
	// Update integrates a single transition. Missing components make the
	// update a no-op.
	Update(state State, action Action, reward float64, nextState State) error
	// EndOfEpisode performs the learning deferred to episode boundaries and
	// clears the episode buffers
	EndOfEpisode() error
	// EndOfInstance is called once all the episodes of an instance ran
	EndOfInstance()
	// Reset restores the untrained value function. Name, actions, discount
	// and exploration settings are kept.
	Reset()
}

// QValuer is an Agent that exposes its value estimates
type QValuer interface {
	QValue(state State, action Action) float64
}
