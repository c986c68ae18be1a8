package grid

import (
	"fmt"

	"github.com/zeu5/simple-rl/types"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GridMDP is a grid world. The agent starts at (0, 0) and receives a
// reward of 1 when it enters the goal, in the top right corner, which
// ends the episode.
type GridMDP struct {
	Height int
	Width  int
	Goal   Position
	CurPos *Position

	discount float64
	visits   *Visits
}

var _ types.MDP = &GridMDP{}

func NewGridMDP(height, width int, discount float64) (*GridMDP, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("grid dimensions should be positive, got %dx%d", height, width)
	}
	if discount < 0 || discount >= 1 {
		return nil, fmt.Errorf("discount should be in [0, 1), got %f", discount)
	}
	g := &GridMDP{
		Height:   height,
		Width:    width,
		Goal:     Position{I: height - 1, J: width - 1},
		discount: discount,
		visits:   NewVisits(height, width),
	}
	g.Reset()
	return g, nil
}

func (g *GridMDP) Name() string {
	return fmt.Sprintf("grid-h%d-w%d", g.Height, g.Width)
}

func (g *GridMDP) position(i, j int) *Position {
	return &Position{I: i, J: j, terminal: i == g.Goal.I && j == g.Goal.J}
}

func (g *GridMDP) InitialState() types.State {
	return g.position(0, 0)
}

func (g *GridMDP) Actions() []types.Action {
	return AllMovements
}

func (g *GridMDP) Discount() float64 {
	return g.discount
}

// Visits counts the positions the agents entered across episodes
func (g *GridMDP) Visits() *Visits {
	return g.visits
}

func (g *GridMDP) Reset() {
	g.CurPos = g.position(0, 0)
}

func (g *GridMDP) Step(a types.Action) (float64, types.State, error) {
	if types.ActionIndex(AllMovements, a) < 0 {
		return 0, nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, a)
	}
	if g.CurPos.Terminal() {
		return 0, nil, types.ErrStepAfterTerminal
	}

	i, j := g.CurPos.I, g.CurPos.J
	switch a.Hash() {
	case MovementUp.Direction:
		i = min(g.Height-1, i+1)
	case MovementDown.Direction:
		i = max(0, i-1)
	case MovementLeft.Direction:
		j = max(0, j-1)
	case MovementRight.Direction:
		j = min(g.Width-1, j+1)
	}
	newPos := g.position(i, j)
	g.CurPos = newPos
	g.visits.Add(i, j)

	reward := 0.0
	if newPos.Terminal() {
		reward = 1.0
	}
	return reward, newPos, nil
}

// Position in the grid, row I and column J
type Position struct {
	I        int
	J        int
	terminal bool
}

var _ types.State = &Position{}

func (p *Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.I, p.J)
}

func (p *Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J
}

func (p *Position) Features() []float64 {
	return []float64{float64(p.I), float64(p.J)}
}

func (p *Position) Terminal() bool {
	return p.terminal
}

func (p *Position) String() string {
	return p.Hash()
}

type Movement struct {
	Direction string
}

var _ types.Action = &Movement{}

func (m *Movement) Hash() string {
	return m.Direction
}

func (m *Movement) String() string {
	return m.Direction
}

var (
	MovementUp    = &Movement{"Up"}
	MovementDown  = &Movement{"Down"}
	MovementLeft  = &Movement{"Left"}
	MovementRight = &Movement{"Right"}
	AllMovements  = []types.Action{
		MovementUp,
		MovementDown,
		MovementLeft,
		MovementRight,
	}
)
