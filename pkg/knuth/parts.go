package knuth

// Part is one line or page of a solution.
//
// [Start, End) is a half-open element range; consecutive parts share their
// boundary so the parts of a solution cover the whole sequence. Content is the
// first element actually laid out, after glue discarded at the previous break.
// Break is the index of the break element, End-1.
type Part struct {
	Start   int `json:"start" msgpack:"start"`
	End     int `json:"end" msgpack:"end"`
	Content int `json:"content" msgpack:"content"`
	Break   int `json:"break" msgpack:"break"`
	Line    int `json:"line" msgpack:"line"`

	// Difference is the space left over once the ratio is applied: zero for
	// justified lines within their elasticity, the free space for ragged or
	// centred lines, and negative for overflowing ones.
	Difference int `json:"difference" msgpack:"difference"`

	// Ratio is the adjustment ratio to apply, clamped to [-1, 1].
	Ratio float64 `json:"ratio" msgpack:"ratio"`

	// AdjustRatio is the unclamped ratio computed by the search.
	AdjustRatio float64 `json:"adjustRatio" msgpack:"adjustRatio"`

	Demerits float64 `json:"demerits" msgpack:"demerits"`
	Overflow bool    `json:"overflow,omitempty" msgpack:"overflow,omitempty"`
}

// Len returns the number of elements in the part's range.
func (p Part) Len() int { return p.End - p.Start }

// Parts is the default [Strategy]. It converts the selected path into
// [Part] values applying the configured alignments. When a custom filter
// leaves several nodes active, the path of the last one is kept.
type Parts struct {
	alignment     Alignment
	alignmentLast Alignment
	looseness     int

	parts    []Part
	demerits float64
}

// NewParts returns a collector using the alignments and looseness of cfg.
func NewParts(cfg Config) *Parts {
	return &Parts{
		alignment:     cfg.Alignment,
		alignmentLast: cfg.AlignmentLast,
		looseness:     cfg.Looseness,
	}
}

// Parts returns a copy of the collected parts in sequence order.
func (p *Parts) Parts() []Part {
	return append([]Part(nil), p.parts...)
}

// Demerits returns the total demerits of the selected node. A forcing
// restart resets the total, so it then counts only the lines after the
// last restart.
func (p *Parts) Demerits() float64 { return p.demerits }

// Reset discards collected parts.
func (p *Parts) Reset() {
	p.parts = nil
	p.demerits = 0
}

func (p *Parts) UpdateData1(total int, demerits float64) {
	p.parts = make([]Part, total)
	p.demerits = demerits
}

func (p *Parts) UpdateData2(node, prev *Node, seq *Sequence, total int) {
	idx := node.Line - 1
	if idx < 0 || idx >= len(p.parts) {
		return
	}
	part := Part{
		End:         node.Position + 1,
		Break:       node.Position,
		Line:        node.Line,
		AdjustRatio: node.AdjustRatio,
		Demerits:    node.LineDemerits,
	}
	if prev == nil || prev.Line == 0 {
		part.Start = 0
		if prev != nil {
			part.Content = prev.Position + 1
		}
	} else {
		part.Start = prev.Position + 1
		part.Content = min(seq.skipAfterBreak(prev.Position), part.End)
	}

	align := p.alignment
	if node.Line == total {
		align = p.alignmentLast
	}
	r, diff := node.AdjustRatio, node.Difference
	switch {
	case r < -1:
		part.Overflow = true
		part.Ratio = -1
		part.Difference = diff + node.AvailableShrink
	case r < 0:
		part.Ratio = r
	case align != AlignJustify:
		part.Difference = diff
	case r > 1:
		part.Ratio = 1
		part.Difference = diff - node.AvailableStretch
	default:
		part.Ratio = r
	}
	p.parts[idx] = part
}

func (p *Parts) FilterActiveNodes(active *ActiveNodes) int {
	return active.KeepBest(p.looseness)
}
