package knuth_test

import (
	"fmt"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

func ExampleBreak() {
	// Nine words of width 20, separated by spaces that can stretch by 20
	// and shrink by 5.
	b := knuth.NewBuilder()
	for range 8 {
		b.AddBox(20).AddGlue(10, 20, 5)
	}
	seq, _ := b.AddBox(20).EndParagraph().Build()

	res, _ := knuth.Break(seq, knuth.ConstantWidth(100))
	for _, p := range res.Parts {
		fmt.Printf("line %d: [%d, %d) ratio %.2f difference %d\n", p.Line, p.Start, p.End, p.Ratio, p.Difference)
	}
	fmt.Printf("demerits: %.2f\n", res.Demerits)
	// Output:
	// line 1: [0, 6) ratio 0.50 difference 0
	// line 2: [6, 12) ratio 0.50 difference 0
	// line 3: [12, 20) ratio 0.00 difference 20
	// demerits: 365.50
}

func ExampleSequence_LegalBreaks() {
	seq := knuth.MustSequence(
		knuth.Box(30),
		knuth.Glue(10, 5, 2),
		knuth.Box(20),
		knuth.Penalty(5, 50, true),
		knuth.Box(20),
	)
	fmt.Println(seq.LegalBreaks())
	// Output:
	// [1 3 4]
}
