package knuth

// Builder accumulates elements and produces a validated [Sequence].
// Methods return the builder so calls can be chained.
type Builder struct {
	elems []Element
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends arbitrary elements.
func (b *Builder) Add(elems ...Element) *Builder {
	b.elems = append(b.elems, elems...)
	return b
}

func (b *Builder) AddBox(width int) *Builder {
	return b.Add(Box(width))
}

func (b *Builder) AddGlue(width, stretch, shrink int) *Builder {
	return b.Add(Glue(width, stretch, shrink))
}

func (b *Builder) AddPenalty(width, value int, flagged bool) *Builder {
	return b.Add(Penalty(width, value, flagged))
}

func (b *Builder) AddForcedBreak() *Builder {
	return b.Add(ForcedBreak())
}

// EndParagraph appends the standard paragraph ending: a forbidden break, a
// filler glue that absorbs the free space of the last line, and a forced
// break.
func (b *Builder) EndParagraph() *Builder {
	return b.Add(
		Penalty(0, Infinite, false),
		Glue(0, FillStretch, 0),
		ForcedBreak(),
	)
}

// Len returns the number of elements added so far.
func (b *Builder) Len() int { return len(b.elems) }

// Last returns the most recently added element and whether there is one.
func (b *Builder) Last() (Element, bool) {
	if len(b.elems) == 0 {
		return Element{}, false
	}
	return b.elems[len(b.elems)-1], true
}

// Build validates the accumulated elements. The builder can be reused.
func (b *Builder) Build() (*Sequence, error) {
	return NewSequence(b.elems...)
}
