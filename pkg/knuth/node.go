package knuth

import (
	"fmt"
	"math"
)

// NodeID is a stable handle to a [Node] within one breaking run.
type NodeID int

// NoNode is the handle of a missing node, used as the predecessor of the start
// node.
const NoNode NodeID = -1

// Fitness classifies a line by its adjustment ratio. Adjacent lines whose
// classes differ by more than one incur extra demerits.
type Fitness int

const (
	FitnessTight Fitness = iota
	FitnessDecent
	FitnessLoose
	FitnessVeryLoose

	numFitness = 4
)

// FitnessOf returns the fitness class of an adjustment ratio.
func FitnessOf(r float64) Fitness {
	switch {
	case r < -0.5:
		return FitnessTight
	case r <= 0.5:
		return FitnessDecent
	case r <= 1:
		return FitnessLoose
	default:
		return FitnessVeryLoose
	}
}

func (f Fitness) String() string {
	switch f {
	case FitnessTight:
		return "tight"
	case FitnessDecent:
		return "decent"
	case FitnessLoose:
		return "loose"
	case FitnessVeryLoose:
		return "very-loose"
	default:
		return fmt.Sprintf("Fitness(%d)", int(f))
	}
}

// Node is a candidate break reached by the search. Totals are cumulative from
// the start of the run and already include the glue discarded after the break.
// The measurements (ratio, difference, available elasticity) describe the
// line ending at this node.
type Node struct {
	ID       NodeID
	Position int
	Line     int
	Fitness  Fitness

	TotalWidth   int
	TotalStretch int
	TotalShrink  int

	AdjustRatio      float64
	AvailableShrink  int
	AvailableStretch int
	Difference       int

	TotalDemerits float64
	LineDemerits  float64

	Prev NodeID

	next       NodeID
	recoveries int
}

func (n *Node) String() string {
	return fmt.Sprintf("node#%d(pos=%d line=%d fit=%s r=%.3f diff=%d dem=%.1f prev=%d)",
		n.ID, n.Position, n.Line, n.Fitness, n.AdjustRatio, n.Difference, n.TotalDemerits, n.Prev)
}

// lineList is one line's singly linked list of active nodes.
type lineList struct {
	head, tail NodeID
}

// activeSet keeps the active nodes grouped by line number. Lines in
// [start, end) may hold nodes.
type activeSet struct {
	nodes []*Node
	lines []lineList
	start int
	end   int
	count int
}

func (s *activeSet) reset() {
	s.nodes = s.nodes[:0]
	s.lines = s.lines[:0]
	s.start, s.end, s.count = 0, 0, 0
}

// create stores n in the arena and returns it with its ID assigned.
func (s *activeSet) create(n Node) *Node {
	n.ID = NodeID(len(s.nodes))
	n.next = NoNode
	p := &n
	s.nodes = append(s.nodes, p)
	return p
}

func (s *activeSet) get(id NodeID) *Node {
	if id < 0 || int(id) >= len(s.nodes) {
		return nil
	}
	return s.nodes[id]
}

func (s *activeSet) head(line int) NodeID {
	if line < 0 || line >= len(s.lines) {
		return NoNode
	}
	return s.lines[line].head
}

func (s *activeSet) add(line int, n *Node) {
	for len(s.lines) <= line {
		s.lines = append(s.lines, lineList{head: NoNode, tail: NoNode})
	}
	n.next = NoNode
	l := &s.lines[line]
	if l.tail != NoNode {
		s.nodes[l.tail].next = n.ID
	} else {
		l.head = n.ID
	}
	l.tail = n.ID
	if s.count == 0 || line < s.start {
		s.start = line
	}
	s.end = max(s.end, line+1)
	s.count++
}

func (s *activeSet) remove(line int, n *Node) bool {
	if line < 0 || line >= len(s.lines) {
		return false
	}
	l := &s.lines[line]
	prev := NoNode
	for id := l.head; id != NoNode; id = s.nodes[id].next {
		if id != n.ID {
			prev = id
			continue
		}
		if prev == NoNode {
			l.head = n.next
		} else {
			s.nodes[prev].next = n.next
		}
		if l.tail == n.ID {
			l.tail = prev
		}
		s.count--
		for s.start < s.end && s.head(s.start) == NoNode {
			s.start++
		}
		return true
	}
	return false
}

func (s *activeSet) each(fn func(line int, n *Node)) {
	for line := s.start; line < s.end; line++ {
		for id := s.head(line); id != NoNode; {
			n := s.nodes[id]
			next := n.next
			fn(line, n)
			id = next
		}
	}
}

// compareNodes prefers the node further along the sequence, then the one with
// fewer demerits. Ties keep the first argument.
func compareNodes(a, b *Node) *Node {
	if a == nil || b.Position > a.Position {
		return b
	}
	if b.Position == a.Position && b.TotalDemerits < a.TotalDemerits {
		return b
	}
	return a
}

// bestRecords tracks, per fitness class, the cheapest way to reach the break
// under consideration from one line's active nodes.
type bestRecords struct {
	demerits     [numFitness]float64
	lineDemerits [numFitness]float64
	node         [numFitness]*Node
	adjust       [numFitness]float64
	difference   [numFitness]int
	availShrink  [numFitness]int
	availStretch [numFitness]int
	bestIndex    int
}

func (b *bestRecords) reset() {
	for i := range numFitness {
		b.demerits[i] = math.Inf(1)
		b.lineDemerits[i] = 0
		b.node[i] = nil
		b.adjust[i] = 0
		b.difference[i] = 0
		b.availShrink[i] = 0
		b.availStretch[i] = 0
	}
	b.bestIndex = -1
}

type candidate struct {
	node         *Node
	demerits     float64
	lineDemerits float64
	ratio        float64
	difference   int
	availShrink  int
	availStretch int
	fitness      Fitness
}

func (b *bestRecords) add(c candidate) {
	f := c.fitness
	b.demerits[f] = c.demerits
	b.lineDemerits[f] = c.lineDemerits
	b.node[f] = c.node
	b.adjust[f] = c.ratio
	b.difference[f] = c.difference
	b.availShrink[f] = c.availShrink
	b.availStretch[f] = c.availStretch
	if b.bestIndex == -1 || c.demerits < b.demerits[b.bestIndex] {
		b.bestIndex = int(f)
	}
}

func (b *bestRecords) hasRecords() bool { return b.bestIndex != -1 }

func (b *bestRecords) has(f Fitness) bool { return !math.IsInf(b.demerits[f], 1) }

func (b *bestRecords) minDemerits() float64 {
	if b.bestIndex == -1 {
		return math.Inf(1)
	}
	return b.demerits[b.bestIndex]
}

// ActiveNodes is the view of the final active set handed to
// [Strategy.FilterActiveNodes].
type ActiveNodes struct {
	set *activeSet
}

// Len returns the number of active nodes.
func (v *ActiveNodes) Len() int { return v.set.count }

// Nodes returns the active nodes ordered by line, then discovery.
func (v *ActiveNodes) Nodes() []*Node {
	out := make([]*Node, 0, v.set.count)
	v.set.each(func(_ int, n *Node) { out = append(out, n) })
	return out
}

// Node looks up any node of the run by handle, active or not.
func (v *ActiveNodes) Node(id NodeID) *Node { return v.set.get(id) }

// Remove deactivates n. It reports whether n was active.
func (v *ActiveNodes) Remove(n *Node) bool { return v.set.remove(n.Line, n) }

// KeepBest removes every node but the best one and returns its line count.
//
// The best node is the one furthest along the sequence with the fewest
// demerits. A non-zero looseness then prefers, among nodes at the same
// position, the line count closest to best+looseness without overshooting.
func (v *ActiveNodes) KeepBest(looseness int) int {
	nodes := v.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	var best *Node
	for _, n := range nodes {
		best = compareNodes(best, n)
	}
	if looseness != 0 {
		ref := best
		s := 0
		for _, n := range nodes {
			if n.Position != ref.Position {
				continue
			}
			delta := n.Line - ref.Line
			switch {
			case (looseness <= delta && delta < s) || (s < delta && delta <= looseness):
				s = delta
				best = n
			case delta == s && n.TotalDemerits < best.TotalDemerits:
				best = n
			}
		}
	}
	for _, n := range nodes {
		if n != best {
			v.Remove(n)
		}
	}
	return best.Line
}
