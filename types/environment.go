package types

import (
	"fmt"
	"strconv"
	"strings"
)

// MDP is the environment agents interact with. The driver owns the MDP for
// the duration of an agent's run.
type MDP interface {
	// Name of the MDP, used in logs and records
	Name() string
	// InitialState is deterministic and unaffected by earlier episodes
	InitialState() State
	// Actions returns the legal actions, constant for the lifetime of the MDP
	Actions() []Action
	// Discount factor in [0, 1)
	Discount() float64
	// Step executes the action and returns the reward and the next state.
	// Returns ErrInvalidAction for actions outside of Actions() and
	// ErrStepAfterTerminal if the current state is terminal.
	Step(Action) (float64, State, error)
	// Reset returns the MDP to its initial configuration
	Reset()
}

// State of the environment that agents observe
type State interface {
	// Features used by function approximators
	Features() []float64
	// Terminal is true if no further steps are possible
	Terminal() bool
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
}

// Action that an agent can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// NamedAction is the default Action implementation, identified by its name
type NamedAction string

var _ Action = NamedAction("")

func (n NamedAction) Hash() string {
	return string(n)
}

func (n NamedAction) String() string {
	return string(n)
}

// ActionIndex returns the ordinal of the action in the legal action ordering
// or -1 if the action is not legal
func ActionIndex(actions []Action, a Action) int {
	if a == nil {
		return -1
	}
	aHash := a.Hash()
	for i, b := range actions {
		if b.Hash() == aHash {
			return i
		}
	}
	return -1
}

// VectorState is a State whose payload is a vector of numbers
type VectorState struct {
	data     []float64
	terminal bool
}

var _ State = &VectorState{}

// NewVectorState copies data so that the state stays immutable
func NewVectorState(data []float64, terminal bool) *VectorState {
	d := make([]float64, len(data))
	copy(d, data)
	return &VectorState{
		data:     d,
		terminal: terminal,
	}
}

func (v *VectorState) Features() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

func (v *VectorState) Terminal() bool {
	return v.terminal
}

// Hash is derived from the features and the terminal flag
func (v *VectorState) Hash() string {
	return HashFeatures(v.data, v.terminal)
}

// Eq compares payloads only
func (v *VectorState) Eq(other *VectorState) bool {
	if other == nil || len(v.data) != len(other.data) {
		return false
	}
	for i := range v.data {
		if v.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

func (v *VectorState) String() string {
	return fmt.Sprintf("s.%v terminal: %v", v.data, v.terminal)
}

// HashFeatures builds the canonical hash of a feature vector and terminal flag
func HashFeatures(features []float64, terminal bool) string {
	var b strings.Builder
	b.WriteString("(")
	for i, f := range features {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	b.WriteString(")|")
	b.WriteString(strconv.FormatBool(terminal))
	return b.String()
}
