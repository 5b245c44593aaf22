package mcts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDot(t *testing.T) {
	// A diamond: both a and b lead to the shared state c.
	g := &testGame{
		children: map[string][]string{
			"root": {"a", "b"},
			"a":    {"c"},
			"b":    {"c"},
		},
		rewards: map[string]float32{"c": 0.5},
	}
	tr := New(DefaultConfig())
	root := g.state("root")
	tr.expand(root)
	tr.expand(g.state("a"))
	tr.expand(g.state("b"))
	tr.expand(g.state("c"))

	dot := tr.ToDot(root)

	require.True(t, strings.HasPrefix(dot, "digraph G"), "output should be a digraph")
	require.Equal(t, 4, strings.Count(dot, "Node ID"), "each unique state should be rendered once")
	require.Equal(t, 4, strings.Count(dot, "->"), "the diamond has four edges")
}

func TestToDotStats(t *testing.T) {
	g := oneDecision()
	tr := New(DefaultConfig())
	root := g.state("root")
	for i := 0; i < 10; i++ {
		tr.Rollout(root)
	}

	dot := tr.ToDot(root)

	require.Contains(t, dot, "Visits", "labels should carry visit counts")
	require.Contains(t, dot, "Mean", "labels should carry mean rewards")
	require.Equal(t, 4, strings.Count(dot, "Node ID"), "the root and its three children should be rendered")
}
