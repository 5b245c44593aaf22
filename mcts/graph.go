package mcts

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/vorpal/ponder/game"
)

// dotNode is the view of one state that gets rendered into the label
// template.
type dotNode struct {
	ID     int
	Visits int
	Reward float32
	Mean   string
	State  string
}

// ToDot renders the explored tree under root as a Graphviz digraph, one node
// per unique state. A state reachable through several move orders appears
// once, so the result is really a DAG.
func (t *MCTS) ToDot(root game.State) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)

	ids := map[game.State]int{root: 0}
	worklist := []game.State{root}
	var buf bytes.Buffer
	for len(worklist) > 0 {
		node := worklist[0]
		worklist = worklist[1:]

		tmpl.Execute(&buf, t.dotNode(node, ids[node]))
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		g.AddNode("G", fmt.Sprintf("n%d", ids[node]), attrs)
		buf.Reset()

		for _, kid := range t.children[node] {
			if _, ok := ids[kid]; !ok {
				ids[kid] = len(ids)
				worklist = append(worklist, kid)
			}
			g.AddEdge(fmt.Sprintf("n%d", ids[node]), fmt.Sprintf("n%d", ids[kid]), true, nil)
		}
	}
	return g.String()
}

func (t *MCTS) dotNode(s game.State, id int) *dotNode {
	n := &dotNode{
		ID:     id,
		Visits: t.visits[s],
		Reward: t.rewards[s],
		Mean:   "-",
		State:  dotState(s),
	}
	if n.Visits > 0 {
		n.Mean = fmt.Sprintf("%.3f", n.Reward/float32(n.Visits))
	}
	return n
}

// dotState renders a state for embedding in an HTML-like label.
func dotState(s game.State) string {
	rendered := html.EscapeString(fmt.Sprintf("%s", s))
	return strings.ReplaceAll(strings.TrimRight(rendered, "\n"), "\n", "<BR />")
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>n{{.ID}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Reward</TD><TD>{{.Reward}}</TD></TR>
<TR><TD>Mean</TD><TD>{{.Mean}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("label").Parse(tmplRaw))
}
