// Package breakgraph records the candidate breaks explored by a breaking run
// and exports them as a Graphviz graph.
//
// A [Recorder] is a [knuth.Observer]. Attach it with [knuth.WithObserver] or
// [knuth.Config.Observer]; after the run [Recorder.Graph] returns every node
// of the last pass, the restarts taken while forcing, and the selected path.
package breakgraph

import "github.com/matzehuels/linebreak/pkg/knuth"

// Node is a snapshot of a candidate break taken when it was created.
type Node struct {
	ID       knuth.NodeID
	Prev     knuth.NodeID
	Position int
	Line     int
	Fitness  knuth.Fitness

	Ratio         float64
	LineDemerits  float64
	TotalDemerits float64

	Deactivated bool
	Selected    bool
}

// Restart records a forcing restart.
type Restart struct {
	Node   knuth.NodeID
	Reason knuth.RestartReason
}

// Graph is the break graph of one run.
type Graph struct {
	Nodes    []Node
	Restarts []Restart
	Path     []knuth.NodeID

	index map[knuth.NodeID]int
}

// Node returns the node with the given ID.
func (g *Graph) Node(id knuth.NodeID) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Breaks returns the positions of the selected path, excluding the start.
func (g *Graph) Breaks() []int {
	var out []int
	for _, id := range g.Path {
		if n, ok := g.Node(id); ok && n.Line > 0 {
			out = append(out, n.Position)
		}
	}
	return out
}

func (g *Graph) add(n *knuth.Node) {
	if _, ok := g.index[n.ID]; ok {
		return
	}
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{
		ID:            n.ID,
		Prev:          n.Prev,
		Position:      n.Position,
		Line:          n.Line,
		Fitness:       n.Fitness,
		Ratio:         n.AdjustRatio,
		LineDemerits:  n.LineDemerits,
		TotalDemerits: n.TotalDemerits,
	})
}

// Recorder collects a [Graph]. Each run resets it, so after a two-pass
// [knuth.Break] the graph describes the pass that produced the result.
// A Recorder must not be shared by concurrent runs.
type Recorder struct {
	g Graph
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.reset()
	return r
}

func (r *Recorder) reset() {
	r.g = Graph{index: make(map[knuth.NodeID]int)}
}

// Graph returns the recorded graph.
func (r *Recorder) Graph() *Graph { return &r.g }

func (r *Recorder) OnStart(_ *knuth.Sequence, start *knuth.Node) {
	r.reset()
	r.g.add(start)
}

func (r *Recorder) OnNodeCreated(n *knuth.Node) { r.g.add(n) }

func (r *Recorder) OnNodeDeactivated(n *knuth.Node) {
	if i, ok := r.g.index[n.ID]; ok {
		r.g.Nodes[i].Deactivated = true
	}
}

// OnRestart also records the empty nodes inserted by overflow recovery,
// which are never reported as created.
func (r *Recorder) OnRestart(n *knuth.Node, reason knuth.RestartReason) {
	r.g.add(n)
	r.g.Restarts = append(r.g.Restarts, Restart{Node: n.ID, Reason: reason})
}

func (r *Recorder) OnFinish(selected []*knuth.Node) {
	if len(selected) == 0 {
		return
	}
	var path []knuth.NodeID
	for id := selected[len(selected)-1].ID; id != knuth.NoNode; {
		i, ok := r.g.index[id]
		if !ok {
			break
		}
		r.g.Nodes[i].Selected = true
		path = append(path, id)
		id = r.g.Nodes[i].Prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	r.g.Path = path
}

var _ knuth.Observer = (*Recorder)(nil)
