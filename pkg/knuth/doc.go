// Package knuth implements Knuth-Plass style optimal breaking of box, glue and
// penalty sequences into lines or pages.
//
// # Overview
//
// Breakable content is modelled as a [Sequence] of [Element] values:
//
//   - [Box]: fixed-width material that is always laid out
//   - [Glue]: elastic space with a natural width plus stretch and shrink
//   - [Penalty]: a potential break carrying a cost, an extra width when the
//     break is taken, and a flagged marker (used for hyphenation)
//
// An [Algorithm] scans the sequence once, left to right, keeping a small set of
// active nodes (candidate breaks from which a new line may start). At every
// legal break it computes the adjustment ratio of the line that would end
// there, discards infeasible candidates, and records the cheapest way to reach
// the break per fitness class. When the scan reaches the end, the active node
// with the lowest total demerits is expanded back into its path of breaks.
//
// # Basic Usage
//
// The [Break] helper covers the common case of a paragraph broken to a width:
//
//	b := knuth.NewBuilder()
//	b.AddBox(3000)
//	b.AddGlue(1000, 500, 333)
//	b.AddBox(4000)
//	b.EndParagraph()
//	seq, err := b.Build()
//	if err != nil {
//		return err
//	}
//	res, err := knuth.Break(seq, knuth.ConstantWidth(6000))
//
// [Break] runs a strict first pass and, when no solution exists, a second
// forcing pass with a relaxed threshold. Each returned [Part] carries its
// element range, the adjustment ratio and the leftover difference.
//
// # Strategies
//
// Lower level callers drive [Algorithm.FindBreakingPoints] directly with a
// [Strategy] that receives the selected nodes. [Parts] is the default
// strategy and collects [Part] values; custom strategies can prune the final
// active set (for example to honour a column limit) or build their own output.
//
// # Overflow
//
// Content that cannot be broken within the available width is not an error.
// With [Config.Force] enabled the algorithm restarts from the best too-short or
// too-long candidate and the resulting part is marked with [Part.Overflow].
// Only malformed elements are errors, reported by [NewSequence] as
// [*InvalidAtomError].
//
// # Concurrency
//
// An [Algorithm] keeps per-run state and is not safe for concurrent use.
// Sequences are immutable, so independent sequences can be broken in parallel
// with one Algorithm per goroutine.
package knuth
