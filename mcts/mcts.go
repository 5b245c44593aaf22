// Package mcts implements Monte Carlo tree search over any game that
// satisfies the game.State contract.
package mcts

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/vorpal/ponder/game"
)

// Config configures a search tree.
type Config struct {
	// ExplorationWeight is the c in the UCT formula. Larger values favour
	// visiting rarely tried branches over replaying known good ones.
	ExplorationWeight float32
}

// DefaultConfig returns the configuration used when there is no reason to
// deviate: an exploration weight of 1.
func DefaultConfig() Config {
	return Config{
		ExplorationWeight: 1.0,
	}
}

func (c Config) IsValid() bool { return c.ExplorationWeight >= 0 }

// MCTS is a Monte Carlo search tree over the states of a game. Each Rollout
// grows the tree by one random playout, and Choose reads off the best known
// move. The zero value is not usable; construct trees with New.
//
// Everything is keyed by game.State value, so transpositions (one position
// reached through different move orders) share a single node and its
// statistics. MCTS is not safe for concurrent use.
type MCTS struct {
	Config

	rewards  map[game.State]float32      // total reward of each visited state
	visits   map[game.State]int          // visit count of each visited state
	children map[game.State][]game.State // successors of each expanded state. An empty entry marks a terminal state
}

// New creates an empty search tree.
func New(conf Config) *MCTS {
	if !conf.IsValid() {
		panic(fmt.Sprintf("mcts: invalid config %+v", conf))
	}
	return &MCTS{
		Config:   conf,
		rewards:  make(map[game.State]float32),
		visits:   make(map[game.State]int),
		children: make(map[game.State][]game.State),
	}
}

// Rollout makes the tree one playout better: select a leaf, expand it, play
// the game out at random, and feed the result back up the path.
func (t *MCTS) Rollout(root game.State) {
	path := t.selectPath(root)
	leaf := path[len(path)-1]
	t.expand(leaf)
	reward := t.simulate(leaf)
	t.backpropagate(path, reward)
}

// Choose returns the best successor of root, for actually making a move.
// Calling Choose on a terminal state is a programming error and panics.
func (t *MCTS) Choose(root game.State) game.State {
	if root.IsTerminal() {
		panic(fmt.Sprintf("mcts: Choose called on terminal state\n%s", root))
	}
	kids, ok := t.children[root]
	if !ok {
		// Nothing is known about root. Any legal move is as good as the next.
		child, ok := root.FindRandomChild()
		if !ok {
			panic(fmt.Sprintf("mcts: no random child for non-terminal state\n%s", root))
		}
		return child
	}

	best, bestScore := kids[0], t.score(kids[0])
	for _, kid := range kids[1:] {
		if score := t.score(kid); score > bestScore {
			best, bestScore = kid, score
		}
	}
	return best
}

// score is the exploitation-only value of a state: its mean reward, or -Inf
// for a state that has never been visited, so that Choose cannot pick a move
// the tree knows nothing about.
func (t *MCTS) score(s game.State) float32 {
	n := t.visits[s]
	if n == 0 {
		return math32.Inf(-1)
	}
	return t.rewards[s] / float32(n)
}

// Visits returns how many rollouts have passed through s.
func (t *MCTS) Visits(s game.State) int { return t.visits[s] }

// TotalReward returns the cumulative reward backpropagated through s.
func (t *MCTS) TotalReward(s game.State) float32 { return t.rewards[s] }

// Expanded reports whether the successors of s have been enumerated.
func (t *MCTS) Expanded(s game.State) bool {
	_, ok := t.children[s]
	return ok
}

// Children returns a copy of the recorded successors of s, in registration
// order. It returns nil when s has not been expanded.
func (t *MCTS) Children(s game.State) []game.State {
	kids, ok := t.children[s]
	if !ok {
		return nil
	}
	retVal := make([]game.State, len(kids))
	copy(retVal, kids)
	return retVal
}

// Nodes returns the number of expanded states in the tree.
func (t *MCTS) Nodes() int { return len(t.children) }
