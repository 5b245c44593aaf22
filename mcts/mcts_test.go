package mcts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vorpal/ponder/game"
)

// testGame is a hand-built game tree for driving the engine. States are
// identified by name; children and terminal rewards are scripted, and the
// "random" child is always the first one, so every playout is predictable.
type testGame struct {
	children map[string][]string
	rewards  map[string]float32
}

func (g *testGame) state(name string) testState { return testState{g: g, name: name} }

// testState is one scripted position. It holds only the shared tree pointer
// and its name, so it is comparable and cheap to copy.
type testState struct {
	g    *testGame
	name string
}

var _ game.State = testState{}

func (s testState) FindChildren() []game.State {
	kids := s.g.children[s.name]
	retVal := make([]game.State, 0, len(kids))
	for _, kid := range kids {
		retVal = append(retVal, s.g.state(kid))
	}
	return retVal
}

func (s testState) FindRandomChild() (game.State, bool) {
	kids := s.g.children[s.name]
	if len(kids) == 0 {
		return nil, false
	}
	return s.g.state(kids[0]), true
}

func (s testState) IsTerminal() bool { return len(s.g.children[s.name]) == 0 }

func (s testState) Reward() float32 {
	r, ok := s.g.rewards[s.name]
	if !ok {
		panic("Reward called on non-terminal state " + s.name)
	}
	return r
}

// oneDecision is a game with a single meaningful move: the mover can win,
// draw, or lose immediately.
func oneDecision() *testGame {
	return &testGame{
		children: map[string][]string{
			"root": {"loss", "draw", "win"},
		},
		rewards: map[string]float32{
			"loss": 0,
			"draw": 0.5,
			"win":  1,
		},
	}
}

func TestRollout(t *testing.T) {
	t.Run("a handful of rollouts solve a one-decision game", func(t *testing.T) {
		g := oneDecision()
		tr := New(DefaultConfig())
		root := g.state("root")
		for i := 0; i < 50; i++ {
			tr.Rollout(root)
		}

		require.Equal(t, g.state("win"), tr.Choose(root), "Choose should pick the winning move")
		require.Equal(t, 50, tr.Visits(root), "every rollout should visit the root once")
	})

	t.Run("a single rollout visits only the root", func(t *testing.T) {
		g := oneDecision()
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.Rollout(root)

		require.Equal(t, 1, tr.Visits(root), "the root should have one visit")
		require.Equal(t, 1, tr.Nodes(), "only the root should be expanded")
		require.Contains(t, []float32{0, 1}, tr.TotalReward(root),
			"a decided playout should record a whole reward")
		for _, kid := range tr.Children(root) {
			require.Equal(t, 0, tr.Visits(kid), "no child should be visited yet")
		}
	})

	t.Run("statistics stay consistent over many rollouts", func(t *testing.T) {
		g := &testGame{
			children: map[string][]string{
				"root": {"a", "b"},
				"a":    {"t1", "t2"},
				"b":    {"t3"},
			},
			rewards: map[string]float32{
				"t1": 1,
				"t2": 0,
				"t3": 0.5,
			},
		}
		tr := New(DefaultConfig())
		root := g.state("root")
		for i := 0; i < 100; i++ {
			tr.Rollout(root)
		}

		require.Equal(t, 100, tr.Visits(root), "the root should be visited once per rollout")

		// Walk every state the tree has touched.
		seen := map[game.State]bool{root: true}
		worklist := []game.State{root}
		for len(worklist) > 0 {
			node := worklist[0]
			worklist = worklist[1:]

			visits := tr.Visits(node)
			reward := tr.TotalReward(node)
			require.True(t, reward >= 0, "total reward of %v should not be negative", node)
			require.True(t, reward <= float32(visits),
				"total reward of %v should not exceed its visit count", node)

			var kidVisits int
			for _, kid := range tr.Children(node) {
				kidVisits += tr.Visits(kid)
				if !seen[kid] {
					seen[kid] = true
					worklist = append(worklist, kid)
				}
			}
			require.True(t, kidVisits <= visits,
				"children of %v should not be visited more often than their parent", node)
		}
	})
}

func TestChoose(t *testing.T) {
	t.Run("choosing on an unexpanded root falls back to a random child", func(t *testing.T) {
		g := oneDecision()
		tr := New(DefaultConfig())

		got := tr.Choose(g.state("root"))

		require.Equal(t, g.state("loss"), got, "an untrained tree should return the game's random child")
		require.Equal(t, 0, tr.Nodes(), "Choose should not grow the tree")
	})

	t.Run("choosing on a terminal state panics", func(t *testing.T) {
		g := oneDecision()
		tr := New(DefaultConfig())

		require.Panics(t, func() { tr.Choose(g.state("win")) })
	})

	t.Run("an unvisited child is never chosen", func(t *testing.T) {
		g := &testGame{
			children: map[string][]string{"root": {"a", "b"}},
			rewards:  map[string]float32{"a": 0, "b": 1},
		}
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.expand(root)
		tr.visits[g.state("a")] = 1 // a is known to be bad; b is unknown

		got := tr.Choose(root)

		require.Equal(t, g.state("a"), got, "a known bad move should beat an unknown one")
	})

	t.Run("ties break towards the earliest child", func(t *testing.T) {
		g := &testGame{
			children: map[string][]string{"root": {"a", "b"}},
			rewards:  map[string]float32{"a": 0.5, "b": 0.5},
		}
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.expand(root)
		for _, name := range []string{"a", "b"} {
			tr.visits[g.state(name)] = 2
			tr.rewards[g.state(name)] = 1
		}

		require.Equal(t, g.state("a"), tr.Choose(root), "equal scores should resolve in registration order")
	})
}

func TestExpand(t *testing.T) {
	g := oneDecision()
	tr := New(DefaultConfig())
	root := g.state("root")

	require.False(t, tr.Expanded(root))
	tr.expand(root)
	require.True(t, tr.Expanded(root))
	kids := tr.Children(root)

	tr.expand(root)
	require.Equal(t, kids, tr.Children(root), "expanding twice should not change the registry")
	require.Equal(t, 1, tr.Nodes(), "expanding twice should not add nodes")

	tr.expand(g.state("win"))
	require.True(t, tr.Expanded(g.state("win")), "a terminal state should be registered once expanded")
	require.Len(t, tr.Children(g.state("win")), 0, "a terminal state should register no children")
}

func TestSelectPath(t *testing.T) {
	t.Run("selection stops at the first unexpanded child", func(t *testing.T) {
		g := &testGame{
			children: map[string][]string{
				"root": {"a", "b"},
				"a":    {"t1"},
			},
			rewards: map[string]float32{"t1": 1, "b": 0},
		}
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.expand(root)
		tr.expand(g.state("a"))
		tr.visits[root] = 2
		tr.visits[g.state("a")] = 1

		path := tr.selectPath(root)

		require.Equal(t, []game.State{root, g.state("b")}, path,
			"the unexpanded child should end the walk before UCT runs")
	})

	t.Run("selection descends through fully expanded states", func(t *testing.T) {
		g := &testGame{
			children: map[string][]string{
				"root": {"a"},
				"a":    {"t1"},
			},
			rewards: map[string]float32{"t1": 1},
		}
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.expand(root)
		tr.expand(g.state("a"))
		tr.expand(g.state("t1"))
		tr.visits[root] = 2
		tr.visits[g.state("a")] = 1
		tr.visits[g.state("t1")] = 1

		path := tr.selectPath(root)

		require.Equal(t, []game.State{root, g.state("a"), g.state("t1")}, path,
			"the walk should follow UCT down to the terminal leaf")
	})
}

func TestBackpropagate(t *testing.T) {
	g := &testGame{
		children: map[string][]string{
			"root": {"a"},
			"a":    {"leaf"},
		},
		rewards: map[string]float32{"leaf": 1},
	}
	tr := New(DefaultConfig())
	root, a, leaf := g.state("root"), g.state("a"), g.state("leaf")

	tr.backpropagate([]game.State{root, a, leaf}, 1)

	require.Equal(t, float32(1), tr.TotalReward(leaf), "the leaf should record the raw reward")
	require.Equal(t, float32(0), tr.TotalReward(a), "the middle state should record the flipped reward")
	require.Equal(t, float32(1), tr.TotalReward(root), "the root should record the doubly flipped reward")
	for _, s := range []game.State{root, a, leaf} {
		require.Equal(t, 1, tr.Visits(s), "every state on the path should gain one visit")
	}
}

func TestSimulate(t *testing.T) {
	g := &testGame{
		children: map[string][]string{
			"root": {"a"},
			"a":    {"leaf"},
		},
		rewards: map[string]float32{"leaf": 1},
	}
	tr := New(DefaultConfig())

	require.Equal(t, float32(1), tr.simulate(g.state("leaf")),
		"a terminal state should return its own reward")
	require.Equal(t, float32(0), tr.simulate(g.state("a")),
		"one move away, the reward should flip once")
	require.Equal(t, float32(1), tr.simulate(g.state("root")),
		"two moves away, the reward should flip back")
}

func TestUCTSelect(t *testing.T) {
	newGame := func() (*testGame, *MCTS) {
		g := &testGame{
			children: map[string][]string{"root": {"a", "b"}},
			rewards:  map[string]float32{"a": 0, "b": 0},
		}
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.expand(root)
		tr.expand(g.state("a"))
		tr.expand(g.state("b"))
		tr.visits[root] = 7
		tr.visits[g.state("a")] = 5
		tr.rewards[g.state("a")] = 4 // well explored, strong
		tr.visits[g.state("b")] = 2
		tr.rewards[g.state("b")] = 1 // barely explored, weaker
		return g, tr
	}

	t.Run("without exploration the strong child wins", func(t *testing.T) {
		g, tr := newGame()
		tr.ExplorationWeight = 0
		require.Equal(t, g.state("a"), tr.uctSelect(g.state("root")))
	})

	t.Run("enough exploration weight favours the rarely tried child", func(t *testing.T) {
		g, tr := newGame()
		tr.ExplorationWeight = 2
		require.Equal(t, g.state("b"), tr.uctSelect(g.state("root")))
	})

	t.Run("an unexpanded child is a contract violation", func(t *testing.T) {
		g := oneDecision()
		tr := New(DefaultConfig())
		root := g.state("root")
		tr.expand(root)
		tr.visits[root] = 1

		require.Panics(t, func() { tr.uctSelect(root) })
	})
}

func TestDeterminism(t *testing.T) {
	g := &testGame{
		children: map[string][]string{
			"root": {"a", "b"},
			"a":    {"t1", "t2"},
			"b":    {"t3"},
		},
		rewards: map[string]float32{
			"t1": 1,
			"t2": 0,
			"t3": 0.5,
		},
	}
	root := g.state("root")

	tr1 := New(DefaultConfig())
	tr2 := New(DefaultConfig())
	for i := 0; i < 200; i++ {
		tr1.Rollout(root)
		tr2.Rollout(root)
	}

	opts := cmp.AllowUnexported(testState{}, testGame{})
	if diff := cmp.Diff(tr1.visits, tr2.visits, opts); diff != "" {
		t.Errorf("two identical searches diverged in visits (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(tr1.rewards, tr2.rewards, opts); diff != "" {
		t.Errorf("two identical searches diverged in rewards (-first +second):\n%s", diff)
	}
	require.Equal(t, tr1.Choose(root), tr2.Choose(root), "both searches should choose the same move")
}

func TestIntrospection(t *testing.T) {
	g := oneDecision()
	tr := New(DefaultConfig())
	root := g.state("root")

	require.Equal(t, 0, tr.Visits(root), "an untouched state should read zero visits")
	require.Equal(t, float32(0), tr.TotalReward(root), "an untouched state should read zero reward")
	require.Nil(t, tr.Children(root), "an unexpanded state should have nil children")
	require.Equal(t, 0, tr.Nodes())

	tr.Rollout(root)
	kids := tr.Children(root)
	require.Len(t, kids, 3)
	kids[0] = g.state("draw")
	require.Equal(t, g.state("loss"), tr.Children(root)[0],
		"mutating the returned slice should not touch the registry")
}

func TestNewInvalidConfig(t *testing.T) {
	require.Panics(t, func() { New(Config{ExplorationWeight: -1}) })
}
