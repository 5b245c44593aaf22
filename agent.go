package ponder

import (
	"github.com/vorpal/ponder/game"
	"github.com/vorpal/ponder/mcts"
)

// An Agent is a player driven by its own search tree.
type Agent struct {
	Tree   *mcts.MCTS
	Budget int // playouts per move
	Name   string

	// Statistics
	Wins float32
	Loss float32
	Draw float32

	conf mcts.Config
}

// NewAgent creates an agent that thinks for budget playouts before each move.
func NewAgent(name string, conf mcts.Config, budget int) *Agent {
	return &Agent{
		Tree:   mcts.New(conf),
		Budget: budget,
		Name:   name,
		conf:   conf,
	}
}

// Search thinks about g for the agent's budget of playouts and returns the
// move to make.
func (a *Agent) Search(g game.State) game.State {
	for i := 0; i < a.Budget; i++ {
		a.Tree.Rollout(g)
	}
	return a.Tree.Choose(g)
}

// Reset throws away everything the agent has learned.
func (a *Agent) Reset() { a.Tree = mcts.New(a.conf) }

func (a *Agent) resetStats() {
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
}
