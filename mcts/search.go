package mcts

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/vorpal/ponder/game"
)

// selectPath walks from root down the explored tree and returns the path it
// took. The walk follows UCT while every child of the current state has been
// expanded, and stops at the first state that is unexplored, terminal, or has
// an unexpanded child.
func (t *MCTS) selectPath(root game.State) []game.State {
	path := make([]game.State, 0, 8)
	node := root
	for {
		path = append(path, node)
		kids, ok := t.children[node]
		if !ok || len(kids) == 0 {
			// node is either unexplored or terminal
			return path
		}
		if frontier := t.unexpanded(kids); frontier != nil {
			path = append(path, frontier)
			return path
		}
		node = t.uctSelect(node) // descend a layer deeper
	}
}

// unexpanded returns the first of kids that has no registry entry yet, or nil
// when every one of them has been expanded.
func (t *MCTS) unexpanded(kids []game.State) game.State {
	for _, kid := range kids {
		if _, ok := t.children[kid]; !ok {
			return kid
		}
	}
	return nil
}

// expand records the successors of s in the registry. Expanding a state that
// is already registered is a no-op.
func (t *MCTS) expand(s game.State) {
	if _, ok := t.children[s]; ok {
		return // already expanded
	}
	t.children[s] = s.FindChildren()
}

// simulate plays uniformly random moves from s until the game ends, and
// returns the final reward from the point of view of the player whose move
// produced s.
func (t *MCTS) simulate(s game.State) float32 {
	node := s
	invert := false
	for {
		if node.IsTerminal() {
			reward := node.Reward()
			if invert {
				return 1 - reward
			}
			return reward
		}
		next, ok := node.FindRandomChild()
		if !ok {
			panic(fmt.Sprintf("mcts: no random child for non-terminal state\n%s", node))
		}
		node = next
		invert = !invert
	}
}

// backpropagate sends reward back up the path, leaf first. The perspective
// flips at every step because each state one level up was produced by the
// other player.
func (t *MCTS) backpropagate(path []game.State, reward float32) {
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		t.visits[s]++
		t.rewards[s] += reward
		reward = 1 - reward
	}
}

// uctSelect picks the child of s with the highest upper confidence bound.
// Every child of s must already be expanded; selectPath guarantees this on
// the paths it walks.
func (t *MCTS) uctSelect(s game.State) game.State {
	kids := t.children[s]
	for _, kid := range kids {
		if _, ok := t.children[kid]; !ok {
			panic(fmt.Sprintf("mcts: uctSelect on state with unexpanded child\n%s", kid))
		}
	}

	logN := math32.Log(float32(t.visits[s]))
	var best game.State
	bestScore := math32.Inf(-1)
	for _, kid := range kids {
		n := float32(t.visits[kid])
		uct := t.rewards[kid]/n + t.ExplorationWeight*math32.Sqrt(logN/n)
		if uct > bestScore {
			best, bestScore = kid, uct
		}
	}
	return best
}
