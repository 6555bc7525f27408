package text

import (
	"math"
	"strings"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

// Line is the text of one part.
type Line struct {
	Number int
	Text   string

	// Segments are the space separated pieces of Text.
	Segments []string

	// Width is the natural width of the text in sequence units.
	Width int

	// Span is the width the line occupies once its ratio and difference
	// are applied, normally the available line width.
	Span int

	Ratio    float64
	Overflow bool
	Last     bool
}

// Lines rebuilds the text of each part. Parts must come from a solution of
// par.Seq.
func Lines(par *Paragraph, parts []knuth.Part) []Line {
	out := make([]Line, 0, len(parts))
	for i, p := range parts {
		line := Line{
			Number:   p.Line,
			Ratio:    p.Ratio,
			Overflow: p.Overflow,
			Last:     i == len(parts)-1,
		}
		// Empty parts come from overflow recovery and have no break element.
		if p.Len() == 0 {
			out = append(out, line)
			continue
		}
		line.Segments = par.segments(p)
		line.Text = strings.Join(line.Segments, " ")

		width, stretch, shrink := par.Seq.Totals(p.Content, p.Break)
		if e := par.Seq.At(p.Break); e.IsPenalty() {
			width += e.Width()
		}
		adjusted := float64(width)
		switch {
		case p.Ratio > 0:
			adjusted += p.Ratio * float64(stretch)
		case p.Ratio < 0:
			adjusted += p.Ratio * float64(shrink)
		}
		line.Width = width
		line.Span = int(math.Round(adjusted)) + p.Difference
		out = append(out, line)
	}
	return out
}

func (par *Paragraph) segments(p knuth.Part) []string {
	var (
		segs    []string
		cur     strings.Builder
		pending bool
	)
	for i := p.Content; i < p.Break; i++ {
		e := par.Seq.At(i)
		switch {
		case e.IsGlue():
			pending = cur.Len() > 0
		case e.IsBox():
			if pending {
				segs = append(segs, cur.String())
				cur.Reset()
				pending = false
			}
			cur.WriteString(par.Words[i])
		}
	}
	if e := par.Seq.At(p.Break); e.IsFlaggedPenalty() && e.Width() > 0 {
		cur.WriteString(hyphen)
	}
	if cur.Len() > 0 {
		segs = append(segs, cur.String())
	}
	return segs
}

// Render lays lines out in terminal cells. Justified lines get their free
// cells spread over the gaps between segments, the last line uses last.
// Overflowing lines are printed as they are.
func Render(lines []Line, align, last knuth.Alignment, unitsPerCell int) string {
	if unitsPerCell <= 0 {
		unitsPerCell = DefaultUnitsPerCell
	}
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		a := align
		if l.Last {
			a = last
		}
		b.WriteString(l.Format(a, unitsPerCell))
	}
	return b.String()
}

// Format lays out a single line.
func (l Line) Format(align knuth.Alignment, unitsPerCell int) string {
	extra := l.Span/unitsPerCell - l.Width/unitsPerCell
	if l.Overflow || extra <= 0 {
		return l.Text
	}
	switch align {
	case knuth.AlignEnd:
		return strings.Repeat(" ", extra) + l.Text
	case knuth.AlignCenter:
		return strings.Repeat(" ", extra/2) + l.Text
	case knuth.AlignJustify:
		return justify(l.Segments, extra)
	default:
		return l.Text
	}
}

func justify(segs []string, extra int) string {
	gaps := len(segs) - 1
	if gaps <= 0 {
		return strings.Join(segs, " ")
	}
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			n := 1 + extra/gaps
			if i <= extra%gaps {
				n++
			}
			b.WriteString(strings.Repeat(" ", n))
		}
		b.WriteString(s)
	}
	return b.String()
}
