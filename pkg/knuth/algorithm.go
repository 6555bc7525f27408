package knuth

import (
	"math"
)

// InfiniteRatio is the adjustment ratio reported for a line that needs
// stretch or shrink but has none.
const InfiniteRatio = 1000

// Algorithm finds optimal breaks in a [Sequence].
//
// An Algorithm is configured once and can be reused for many sequences, but
// a single value must not be used from several goroutines at the same time.
type Algorithm struct {
	cfg      Config
	strategy Strategy
	obs      Observer

	seq     *Sequence
	width   LineWidth
	allowed BreakClass

	active activeSet
	best   bestRecords

	totalWidth   int
	totalStretch int
	totalShrink  int

	lastTooLong     *Node
	lastTooShort    *Node
	lastDeactivated *Node
	lastRecovered   *Node
}

// New returns an algorithm using cfg that reports its results to strategy.
func New(cfg Config, strategy Strategy) (*Algorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		strategy = StrategyFuncs{}
	}
	return &Algorithm{cfg: cfg, strategy: strategy, obs: cfg.observer()}, nil
}

// Config returns the configuration the algorithm was created with.
func (a *Algorithm) Config() Config { return a.cfg }

// Node returns a node of the most recent run by handle, or nil.
func (a *Algorithm) Node(id NodeID) *Node { return a.active.get(id) }

// Path returns the nodes from the first break to n in sequence order,
// excluding the start node.
func (a *Algorithm) Path(n *Node) []*Node {
	var path []*Node
	for cur := n; cur != nil && cur.Line > 0; cur = a.active.get(cur.Prev) {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindBreakingPoints breaks seq into lines of the given widths and returns the
// number of lines of the selected solution. Results are delivered through the
// strategy.
//
// With firstCall set the search starts at the first box, so leading glue and
// penalties are dropped (centred text keeps them). Otherwise it starts at the
// first element. allowed restricts the usable breaks. Zero is returned for an
// empty sequence, or when no feasible solution exists and forcing is off.
func (a *Algorithm) FindBreakingPoints(seq *Sequence, width LineWidth, firstCall bool, allowed BreakClass) int {
	if seq.IsEmpty() {
		return 0
	}
	a.initialize(seq, width, allowed)

	startPos := -1
	if firstCall && a.cfg.Alignment != AlignCenter {
		if fb := seq.FirstBoxIndex(0); fb > 0 {
			startPos = fb - 1
		}
	}
	start := a.active.create(Node{Position: startPos, Fitness: FitnessDecent, Prev: NoNode})
	a.active.add(0, start)
	a.obs.OnStart(seq, start)

	lastForced := start
	for i := startPos + 1; i < seq.Len(); i++ {
		a.handleElementAt(i)
		if a.active.count > 0 {
			continue
		}
		if !a.cfg.Force {
			a.obs.OnFinish(nil)
			return 0
		}
		if a.lastDeactivated != nil && a.lastDeactivated != lastForced {
			a.replaceLastDeactivated()
		}
		var reason RestartReason
		if a.lastTooShort == nil || lastForced.Position == a.lastTooShort.Position {
			lastForced, reason = a.recoverFromOverflow()
		} else {
			lastForced, reason = a.lastTooShort, RestartTooShort
			a.lastRecovered = nil
		}
		if lastForced == nil {
			a.obs.OnFinish(nil)
			return 0
		}
		i = a.restartFrom(lastForced, reason)
	}

	view := &ActiveNodes{set: &a.active}
	lines := a.strategy.FilterActiveNodes(view)
	selected := view.Nodes()
	for _, n := range selected {
		a.strategy.UpdateData1(n.Line, n.TotalDemerits)
		a.calculateBreakPoints(n, n.Line)
	}
	a.obs.OnFinish(selected)
	return lines
}

func (a *Algorithm) initialize(seq *Sequence, width LineWidth, allowed BreakClass) {
	if width == nil {
		width = ConstantWidth(0)
	}
	a.seq = seq
	a.width = width
	a.allowed = allowed
	a.active.reset()
	a.best.reset()
	a.totalWidth, a.totalStretch, a.totalShrink = 0, 0, 0
	a.lastTooLong, a.lastTooShort = nil, nil
	a.lastDeactivated, a.lastRecovered = nil, nil
}

func (a *Algorithm) handleElementAt(i int) {
	e := a.seq.At(i)
	switch e.kind {
	case KindBox:
		a.totalWidth += e.width
		if i == a.seq.Len()-1 {
			a.considerLegalBreak(e, i)
		}
	case KindGlue:
		if a.isAllowedBreak(i) {
			a.considerLegalBreak(e, i)
		}
		a.totalWidth += e.width
		a.totalStretch += e.stretch
		a.totalShrink += e.shrink
	case KindPenalty:
		if a.isAllowedBreak(i) {
			a.considerLegalBreak(e, i)
		}
	}
}

func (a *Algorithm) isAllowedBreak(i int) bool {
	if !a.seq.IsLegalBreak(i) {
		return false
	}
	if a.seq.IsForcedBreak(i) {
		return true
	}
	switch a.allowed {
	case OnlyForcedBreaks:
		return false
	case NoFlaggedPenalties:
		return !a.seq.At(i).IsFlaggedPenalty()
	default:
		return true
	}
}

func (a *Algorithm) considerLegalBreak(e Element, idx int) {
	a.lastDeactivated = nil
	a.lastTooLong = nil
	forced := a.seq.IsForcedBreak(idx)

	for line := a.active.start; line < a.active.end; line++ {
		for id := a.active.head(line); id != NoNode; {
			node := a.active.nodes[id]
			id = node.next
			if node.Position == idx {
				continue
			}

			difference := a.computeDifference(node, e)
			r := a.computeAdjustmentRatio(node, difference)
			c := candidate{
				node:         node,
				ratio:        r,
				difference:   difference,
				availShrink:  a.totalShrink - node.TotalShrink,
				availStretch: a.totalStretch - node.TotalStretch,
				fitness:      FitnessOf(r),
			}

			if r < -1 || forced {
				a.deactivateNode(node)
			}
			c.demerits, c.lineDemerits = a.computeDemerits(node, e, forced, c.fitness, r)

			if r >= -1 && r <= a.cfg.Threshold {
				a.activateNode(c)
			}
			if a.cfg.Force && (r <= -1 || r > a.cfg.Threshold) {
				a.forceNode(c, idx)
			}
		}
		a.addBreaks(line, idx)
	}
}

func (a *Algorithm) computeDifference(node *Node, e Element) int {
	actual := a.totalWidth - node.TotalWidth
	if e.IsPenalty() {
		actual += e.width
	}
	return a.width.Width(node.Line+1) - actual
}

func (a *Algorithm) computeAdjustmentRatio(node *Node, difference int) float64 {
	switch {
	case difference > 0:
		if stretch := a.totalStretch - node.TotalStretch; stretch > 0 {
			return float64(difference) / float64(stretch)
		}
		return InfiniteRatio
	case difference < 0:
		if shrink := a.totalShrink - node.TotalShrink; shrink > 0 {
			return float64(difference) / float64(shrink)
		}
		return -InfiniteRatio
	default:
		return 0
	}
}

// computeDemerits returns the total demerits of reaching the break through
// node, and the demerits of the line alone.
func (a *Algorithm) computeDemerits(node *Node, e Element, forced bool, fitness Fitness, r float64) (total, line float64) {
	f := math.Abs(r)
	f = 1 + 100*f*f*f
	var d float64
	switch {
	case e.IsPenalty() && e.penalty >= 0:
		f += float64(e.penalty)
		d = f * f
	case e.IsPenalty() && !forced:
		p := float64(e.penalty)
		d = f*f - p*p
	default:
		d = f * f
	}

	if e.IsFlaggedPenalty() {
		if a.isFlaggedBreak(node.Position) {
			d += a.cfg.RepeatedFlaggedDemerit
		}
		if limit := a.cfg.MaxFlagCount; limit >= 1 {
			count := 1
			for prev := node; prev != nil && count <= limit && a.isFlaggedBreak(prev.Position); prev = a.active.get(prev.Prev) {
				count++
			}
			if count > limit {
				d = math.Inf(1)
			}
		}
	}

	if diff := int(fitness) - int(node.Fitness); diff > 1 || diff < -1 {
		d += a.cfg.IncompatibleFitnessDemerit
	}
	return d + node.TotalDemerits, d
}

func (a *Algorithm) isFlaggedBreak(pos int) bool {
	return pos >= 0 && pos < a.seq.Len() && a.seq.At(pos).IsFlaggedPenalty()
}

func (a *Algorithm) activateNode(c candidate) {
	if c.demerits < a.best.demerits[c.fitness] {
		a.best.add(c)
		a.lastTooShort = nil
	}
}

func (a *Algorithm) deactivateNode(node *Node) {
	a.active.remove(node.Line, node)
	a.lastDeactivated = compareNodes(a.lastDeactivated, node)
	a.obs.OnNodeDeactivated(node)
}

// forceNode remembers the cheapest too-long and too-short candidates, used to
// restart the search when no feasible break is left.
func (a *Algorithm) forceNode(c candidate, idx int) {
	newNode := func() *Node {
		w, st, sh := a.totalsAfterBreak(idx)
		return a.active.create(Node{
			Position:         idx,
			Line:             c.node.Line + 1,
			Fitness:          c.fitness,
			TotalWidth:       w,
			TotalStretch:     st,
			TotalShrink:      sh,
			AdjustRatio:      c.ratio,
			AvailableShrink:  c.availShrink,
			AvailableStretch: c.availStretch,
			Difference:       c.difference,
			TotalDemerits:    c.demerits,
			LineDemerits:     c.lineDemerits,
			Prev:             c.node.ID,
		})
	}
	if c.ratio <= -1 {
		if a.lastTooLong == nil || c.demerits < a.lastTooLong.TotalDemerits {
			a.lastTooLong = newNode()
		}
		return
	}
	if a.lastTooShort == nil || c.demerits <= a.lastTooShort.TotalDemerits {
		if a.cfg.ConsiderTooShort && c.demerits < a.best.demerits[c.fitness] {
			a.best.add(c)
		}
		a.lastTooShort = newNode()
	}
}

// totalsAfterBreak extends the running totals over the glue that a break at
// idx discards, up to the next box or forced break.
func (a *Algorithm) totalsAfterBreak(idx int) (width, stretch, shrink int) {
	width, stretch, shrink = a.totalWidth, a.totalStretch, a.totalShrink
	for i := idx; i < a.seq.Len(); i++ {
		e := a.seq.At(i)
		if e.IsBox() {
			break
		}
		if e.IsGlue() {
			width += e.width
			stretch += e.stretch
			shrink += e.shrink
			continue
		}
		if i != idx && a.seq.IsForcedBreak(i) {
			break
		}
	}
	return width, stretch, shrink
}

// addBreaks turns the best records collected for one line into new active
// nodes. Fitness classes whose demerits exceed the minimum by more than the
// incompatibility surcharge are dominated and dropped.
func (a *Algorithm) addBreaks(line, idx int) {
	if !a.best.hasRecords() {
		return
	}
	w, st, sh := a.totalsAfterBreak(idx)
	limit := a.best.minDemerits() + a.cfg.IncompatibleFitnessDemerit
	for f := range Fitness(numFitness) {
		if !a.best.has(f) || a.best.demerits[f] > limit {
			continue
		}
		n := a.active.create(Node{
			Position:         idx,
			Line:             line + 1,
			Fitness:          f,
			TotalWidth:       w,
			TotalStretch:     st,
			TotalShrink:      sh,
			AdjustRatio:      a.best.adjust[f],
			AvailableShrink:  a.best.availShrink[f],
			AvailableStretch: a.best.availStretch[f],
			Difference:       a.best.difference[f],
			TotalDemerits:    a.best.demerits[f],
			LineDemerits:     a.best.lineDemerits[f],
			Prev:             a.best.node[f].ID,
		})
		a.active.add(line+1, n)
		a.obs.OnNodeCreated(n)
	}
	a.best.reset()
}

func (a *Algorithm) replaceLastDeactivated() {
	if a.lastDeactivated.AdjustRatio > 0 {
		a.lastTooShort = a.lastDeactivated
	} else {
		a.lastTooLong = a.lastDeactivated
	}
}

// recoverFromOverflow handles content that does not fit. With recovery
// enabled it inserts an empty part in front of the overflowing line and lets
// the search retry; after too many attempts it rolls back to the first
// overflow and accepts it.
func (a *Algorithm) recoverFromOverflow() (*Node, RestartReason) {
	if a.lastTooLong == nil {
		return a.lastTooShort, RestartTooShort
	}
	if !a.cfg.PartOverflowRecovery {
		return a.lastTooLong, RestartTooLong
	}
	if a.lastRecovered == nil {
		a.lastRecovered = a.lastTooLong
	}
	prev := a.active.get(a.lastTooLong.Prev)
	empty := a.active.create(Node{
		Position:     prev.Position,
		Line:         prev.Line + 1,
		Fitness:      FitnessDecent,
		TotalWidth:   prev.TotalWidth,
		TotalStretch: prev.TotalStretch,
		TotalShrink:  prev.TotalShrink,
		Prev:         prev.ID,
		recoveries:   prev.recoveries + 1,
	})
	if empty.recoveries > a.cfg.MaxRecoveryAttempts {
		rollback := a.lastRecovered
		a.lastRecovered = nil
		return rollback, RestartRollback
	}
	return empty, RestartRecovery
}

// restartFrom makes node the only active node and returns the index after
// which scanning resumes.
func (a *Algorithm) restartFrom(node *Node, reason RestartReason) int {
	node.TotalDemerits = 0
	a.active.add(node.Line, node)
	a.active.start = node.Line
	a.active.end = node.Line + 1
	a.totalWidth = node.TotalWidth
	a.totalStretch = node.TotalStretch
	a.totalShrink = node.TotalShrink
	a.lastTooShort, a.lastTooLong = nil, nil
	a.obs.OnRestart(node, reason)

	// The node totals already cover the glue discarded after the break.
	idx := node.Position
	for idx+1 < a.seq.Len() && !a.seq.At(idx+1).IsBox() && !a.seq.IsForcedBreak(idx+1) {
		idx++
	}
	return idx
}

func (a *Algorithm) calculateBreakPoints(node *Node, total int) {
	for i := node.Line; i > 0 && node != nil; i-- {
		prev := a.active.get(node.Prev)
		a.strategy.UpdateData2(node, prev, a.seq, total)
		node = prev
	}
}
