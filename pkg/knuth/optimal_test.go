package knuth

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type runTotals struct{ width, stretch, shrink int }

// dynamicOptimum computes the smallest total demerits over every break
// sequence whose lines are all feasible by dynamic programming over break
// position and fitness class, with no active-node pruning. Forced breaks are mandatory. It returns false when no
// such sequence exists.
func dynamicOptimum(seq *Sequence, width int, cfg Config, startPos int) (float64, bool) {
	n := seq.Len()
	prefix := make([]runTotals, n+1)
	for i := range n {
		e, t := seq.At(i), prefix[i]
		switch e.Kind() {
		case KindBox:
			t.width += e.Width()
		case KindGlue:
			t.width += e.Width()
			t.stretch += e.Stretch()
			t.shrink += e.Shrink()
		}
		prefix[i+1] = t
	}
	// Running totals at the moment a break at k is considered: a box at the
	// last index is already counted, a glue is not.
	current := func(k int) runTotals {
		if seq.At(k).IsBox() {
			return prefix[k+1]
		}
		return prefix[k]
	}
	after := func(k int) runTotals {
		t := current(k)
		for i := k; i < n; i++ {
			e := seq.At(i)
			if e.IsBox() {
				break
			}
			if e.IsGlue() {
				t.width += e.Width()
				t.stretch += e.Stretch()
				t.shrink += e.Shrink()
				continue
			}
			if i != k && seq.IsForcedBreak(i) {
				break
			}
		}
		return t
	}
	flagged := func(pos int) bool { return pos >= 0 && seq.At(pos).IsFlaggedPenalty() }

	type state struct {
		pos      int
		fitness  Fitness
		base     runTotals
		demerits float64
	}
	states := []state{{pos: startPos, fitness: FitnessDecent, base: prefix[startPos+1]}}

	for k := startPos + 1; k < n; k++ {
		if !seq.IsLegalBreak(k) {
			continue
		}
		e, forced, cur := seq.At(k), seq.IsForcedBreak(k), current(k)

		var best [numFitness]float64
		for f := range best {
			best[f] = math.Inf(1)
		}
		for _, s := range states {
			diff := width - (cur.width - s.base.width)
			var r float64
			switch {
			case diff > 0 && cur.stretch > s.base.stretch:
				r = float64(diff) / float64(cur.stretch-s.base.stretch)
			case diff > 0:
				r = InfiniteRatio
			case diff < 0 && cur.shrink > s.base.shrink:
				r = float64(diff) / float64(cur.shrink-s.base.shrink)
			case diff < 0:
				r = -InfiniteRatio
			}
			if r < -1 || r > cfg.Threshold {
				continue
			}

			f := 1 + 100*math.Abs(r*r*r)
			var d float64
			switch {
			case e.IsPenalty() && e.Penalty() >= 0:
				d = (f + float64(e.Penalty())) * (f + float64(e.Penalty()))
			case e.IsPenalty() && !forced:
				d = f*f - float64(e.Penalty())*float64(e.Penalty())
			default:
				d = f * f
			}
			if e.IsFlaggedPenalty() && flagged(s.pos) {
				d += cfg.RepeatedFlaggedDemerit
			}
			fit := FitnessOf(r)
			if fit-s.fitness > 1 || s.fitness-fit > 1 {
				d += cfg.IncompatibleFitnessDemerit
			}
			best[fit] = min(best[fit], s.demerits+d)
		}

		if forced {
			states = states[:0:0]
		}
		base := after(k)
		for f, d := range best {
			if !math.IsInf(d, 1) {
				states = append(states, state{pos: k, fitness: Fitness(f), base: base, demerits: d})
			}
		}
	}

	result, found := math.Inf(1), false
	for _, s := range states {
		if s.pos == n-1 {
			result, found = min(result, s.demerits), true
		}
	}
	return result, found
}

func TestFindBreakingPoints_Optimal(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	solved := 0
	for trial := range 2000 {
		seq := randomSequence(rng, 12)
		width := 30 + rng.IntN(70)
		cfg := DefaultConfig()
		cfg.Force = false
		cfg.Alignment = []Alignment{AlignStart, AlignJustify}[rng.IntN(2)]
		cfg.Threshold = []float64{1, 2, 5}[rng.IntN(3)]
		firstCall := rng.IntN(2) == 0

		startPos := -1
		if fb := seq.FirstBoxIndex(0); firstCall && fb > 0 {
			startPos = fb - 1
		}
		want, ok := dynamicOptimum(seq, width, cfg, startPos)

		parts := NewParts(cfg)
		alg, err := New(cfg, parts)
		require.NoError(t, err)
		n := alg.FindBreakingPoints(seq, ConstantWidth(width), firstCall, AllBreaks)

		if !ok {
			require.Zero(t, n, "trial %d: no feasible solution exists\n%s", trial, seq)
			continue
		}
		solved++
		require.Positive(t, n, "trial %d: a feasible solution exists\n%s", trial, seq)
		require.InDelta(t, want, parts.Demerits(), 1e-9*math.Max(1, want), "trial %d width %d\n%s", trial, width, seq)
	}
	require.Greater(t, solved, 20, "too few feasible trials to be meaningful")
}

// bruteForceOptimum tries every subset of the legal breaks after startPos
// that contains all forced breaks and the last element, measures each line
// from the element ranges it covers and returns the smallest total demerits
// of a subset whose lines are all feasible.
func bruteForceOptimum(seq *Sequence, width int, cfg Config, startPos int) (float64, bool) {
	n := seq.Len()
	var optional, forced []int
	for k := startPos + 1; k < n-1; k++ {
		switch {
		case !seq.IsLegalBreak(k):
		case seq.IsForcedBreak(k):
			forced = append(forced, k)
		default:
			optional = append(optional, k)
		}
	}

	// sum totals the elements in [from, to); a reversed range counts negative.
	sum := func(from, to int) (w, st, sh int) {
		sign := 1
		if from > to {
			from, to, sign = to, from, -1
		}
		for i := from; i < to; i++ {
			if e := seq.At(i); e.IsBox() || e.IsGlue() {
				w, st, sh = w+e.Width(), st+e.Stretch(), sh+e.Shrink()
			}
		}
		return sign * w, sign * st, sign * sh
	}
	// lineStart skips the glue and penalties after a break up to the next
	// box or forced break.
	lineStart := func(b int) int {
		if b == startPos {
			return startPos + 1
		}
		s := b + 1
		for s < n && !seq.At(s).IsBox() && !seq.IsForcedBreak(s) {
			s++
		}
		return s
	}

	best, found := math.Inf(1), false
	for mask := 0; mask < 1<<len(optional); mask++ {
		breaks := append([]int(nil), forced...)
		for i, k := range optional {
			if mask&(1<<i) != 0 {
				breaks = append(breaks, k)
			}
		}
		breaks = append(breaks, n-1)
		slices.Sort(breaks)

		total, prev, fitness, ok := 0.0, startPos, FitnessDecent, true
		for _, k := range breaks {
			e := seq.At(k)
			w, st, sh := sum(lineStart(prev), k)
			if !e.IsGlue() {
				w += e.Width()
			}

			var r float64
			switch diff := width - w; {
			case diff > 0 && st > 0:
				r = float64(diff) / float64(st)
			case diff > 0:
				r = InfiniteRatio
			case diff < 0 && sh > 0:
				r = float64(diff) / float64(sh)
			case diff < 0:
				r = -InfiniteRatio
			}
			if r < -1 || r > cfg.Threshold {
				ok = false
				break
			}

			f := 1 + 100*math.Abs(r*r*r)
			p := float64(e.Penalty())
			var d float64
			switch {
			case e.IsPenalty() && p >= 0:
				d = (f + p) * (f + p)
			case e.IsPenalty() && !seq.IsForcedBreak(k):
				d = f*f - p*p
			default:
				d = f * f
			}
			if e.IsFlaggedPenalty() && prev >= 0 && seq.At(prev).IsFlaggedPenalty() {
				d += cfg.RepeatedFlaggedDemerit
			}
			fit := FitnessOf(r)
			if fit-fitness > 1 || fitness-fit > 1 {
				d += cfg.IncompatibleFitnessDemerit
			}
			total += d
			prev, fitness = k, fit
		}
		if ok {
			best, found = min(best, total), true
		}
	}
	return best, found
}

func TestFindBreakingPoints_BruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 17))

	solved := 0
	for trial := range 3000 {
		seq := randomSequence(rng, 8)
		width := 20 + rng.IntN(60)
		cfg := DefaultConfig()
		cfg.Force = false
		cfg.Alignment = []Alignment{AlignStart, AlignJustify}[rng.IntN(2)]
		cfg.Threshold = []float64{1, 2, 5}[rng.IntN(3)]
		firstCall := rng.IntN(2) == 0

		startPos := -1
		if fb := seq.FirstBoxIndex(0); firstCall && fb > 0 {
			startPos = fb - 1
		}
		want, ok := bruteForceOptimum(seq, width, cfg, startPos)

		parts := NewParts(cfg)
		alg, err := New(cfg, parts)
		require.NoError(t, err)
		n := alg.FindBreakingPoints(seq, ConstantWidth(width), firstCall, AllBreaks)

		if !ok {
			require.Zero(t, n, "trial %d: no feasible subset exists\n%s", trial, seq)
			continue
		}
		solved++
		require.Positive(t, n, "trial %d: a feasible subset exists\n%s", trial, seq)
		require.InDelta(t, want, parts.Demerits(), 1e-9*math.Max(1, want), "trial %d width %d\n%s", trial, width, seq)
	}
	require.Greater(t, solved, 50, "too few feasible trials to be meaningful")
}
