package knuth

// Strategy receives the outcome of [Algorithm.FindBreakingPoints].
//
// FilterActiveNodes is called once when the scan completes and may remove
// active nodes; it returns the line count of the preferred solution. For each
// node still active afterwards, UpdateData1 is called with the node's line
// count and total demerits, followed by one UpdateData2 call per line of its
// path, starting from the last line. prev is the node the line starts from.
type Strategy interface {
	UpdateData1(total int, demerits float64)
	UpdateData2(node, prev *Node, seq *Sequence, total int)
	FilterActiveNodes(active *ActiveNodes) int
}

// StrategyFuncs builds a [Strategy] from functions. Nil fields are skipped;
// a nil Filter keeps the single best node.
type StrategyFuncs struct {
	Data1  func(total int, demerits float64)
	Data2  func(node, prev *Node, seq *Sequence, total int)
	Filter func(active *ActiveNodes) int
}

func (s StrategyFuncs) UpdateData1(total int, demerits float64) {
	if s.Data1 != nil {
		s.Data1(total, demerits)
	}
}

func (s StrategyFuncs) UpdateData2(node, prev *Node, seq *Sequence, total int) {
	if s.Data2 != nil {
		s.Data2(node, prev, seq, total)
	}
}

func (s StrategyFuncs) FilterActiveNodes(active *ActiveNodes) int {
	if s.Filter != nil {
		return s.Filter(active)
	}
	return active.KeepBest(0)
}

// MaxLines wraps a strategy and drops solutions with more than limit lines
// before the inner strategy filters, for column or page limits. When every
// solution exceeds the limit the active set is left untouched.
func MaxLines(inner Strategy, limit int) Strategy {
	return &maxLines{Strategy: inner, limit: limit}
}

type maxLines struct {
	Strategy
	limit int
}

func (m *maxLines) FilterActiveNodes(active *ActiveNodes) int {
	nodes := active.Nodes()
	var over []*Node
	for _, n := range nodes {
		if n.Line > m.limit {
			over = append(over, n)
		}
	}
	if len(over) < len(nodes) {
		for _, n := range over {
			active.Remove(n)
		}
	}
	return m.Strategy.FilterActiveNodes(active)
}
