package knuth

// LineWidth yields the available length for a line (or page). Lines are
// numbered from 1.
type LineWidth interface {
	Width(line int) int
}

// ConstantWidth gives every line the same width.
type ConstantWidth int

func (w ConstantWidth) Width(int) int { return int(w) }

// WidthFunc adapts a function to [LineWidth].
type WidthFunc func(line int) int

func (f WidthFunc) Width(line int) int { return f(line) }

// FirstLineWidth gives the first line its own width, for indented or
// outdented paragraphs.
type FirstLineWidth struct {
	First int
	Rest  int
}

func (w FirstLineWidth) Width(line int) int {
	if line <= 1 {
		return w.First
	}
	return w.Rest
}

// Widths lists widths per line; the last value repeats for all following
// lines. An empty list yields zero.
type Widths []int

func (w Widths) Width(line int) int {
	if len(w) == 0 {
		return 0
	}
	if line < 1 {
		line = 1
	}
	if line > len(w) {
		return w[len(w)-1]
	}
	return w[line-1]
}
