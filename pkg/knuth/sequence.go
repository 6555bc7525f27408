package knuth

import (
	"strconv"
	"strings"
)

// Sequence is an immutable, validated list of elements.
//
// Besides storage it answers the positional questions the breaking algorithm
// asks: whether an index is a legal or forced break, and whether an element is
// discardable (a non-box run that starts the sequence or follows a forced
// break). The last element of a non-empty sequence is always a forced break.
type Sequence struct {
	elems       []Element
	discardable []bool
}

// NewSequence validates elems and returns a sequence holding a copy of them.
// The first malformed element is reported as [*InvalidAtomError].
func NewSequence(elems ...Element) (*Sequence, error) {
	for i, e := range elems {
		if reason := e.validate(); reason != "" {
			return nil, &InvalidAtomError{Index: i, Element: e, Reason: reason}
		}
	}

	s := &Sequence{
		elems:       append([]Element(nil), elems...),
		discardable: make([]bool, len(elems)),
	}
	leading := true
	for i, e := range s.elems {
		if e.IsBox() {
			leading = false
			continue
		}
		s.discardable[i] = leading
		if e.IsForcedBreak() {
			leading = true
		}
	}
	return s, nil
}

// MustSequence is like [NewSequence] but panics on invalid input.
func MustSequence(elems ...Element) *Sequence {
	s, err := NewSequence(elems...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of elements. A nil sequence has length zero.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

// IsEmpty reports whether the sequence has no elements.
func (s *Sequence) IsEmpty() bool { return s.Len() == 0 }

// At returns the element at index i.
func (s *Sequence) At(i int) Element { return s.elems[i] }

// Elements returns a copy of the elements.
func (s *Sequence) Elements() []Element {
	if s == nil {
		return nil
	}
	return append([]Element(nil), s.elems...)
}

// IsLegalBreak reports whether a break may occur at index i: a penalty below
// [Infinite], a glue directly preceded by a box, or the last element.
func (s *Sequence) IsLegalBreak(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	if i == s.Len()-1 {
		return true
	}
	e := s.elems[i]
	switch e.kind {
	case KindPenalty:
		return e.penalty < Infinite
	case KindGlue:
		return i > 0 && s.elems[i-1].IsBox()
	default:
		return false
	}
}

// IsForcedBreak reports whether a break must occur at index i.
func (s *Sequence) IsForcedBreak(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	return i == s.Len()-1 || s.elems[i].IsForcedBreak()
}

// IsDiscardable reports whether the element at index i belongs to a run of
// non-box elements that starts the sequence or follows a forced break.
func (s *Sequence) IsDiscardable(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	return s.discardable[i]
}

// LegalBreaks returns the indexes of all legal breaks in ascending order.
func (s *Sequence) LegalBreaks() []int {
	var out []int
	for i := range s.Len() {
		if s.IsLegalBreak(i) {
			out = append(out, i)
		}
	}
	return out
}

// FirstBoxIndex returns the index of the first box at or after from, or -1.
func (s *Sequence) FirstBoxIndex(from int) int {
	for i := max(from, 0); i < s.Len(); i++ {
		if s.elems[i].IsBox() {
			return i
		}
	}
	return -1
}

// Totals sums the widths of boxes and glue in [from, to) together with the
// glue stretch and shrink. Penalty widths are not included.
func (s *Sequence) Totals(from, to int) (width, stretch, shrink int) {
	for i := max(from, 0); i < min(to, s.Len()); i++ {
		e := s.elems[i]
		switch e.kind {
		case KindBox:
			width += e.width
		case KindGlue:
			width += e.width
			stretch += e.stretch
			shrink += e.shrink
		}
	}
	return width, stretch, shrink
}

// skipAfterBreak returns the first index after a break at pos that starts new
// content: glue and penalties up to the next box or forced break are skipped.
func (s *Sequence) skipAfterBreak(pos int) int {
	i := pos + 1
	for i < s.Len() && !s.elems[i].IsBox() && !s.elems[i].IsForcedBreak() {
		i++
	}
	return i
}

// String lists the elements one per line, prefixed by their index.
func (s *Sequence) String() string {
	var b strings.Builder
	for i, e := range s.elems {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(": ")
		b.WriteString(e.String())
		if s.IsLegalBreak(i) {
			b.WriteString(" <break>")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
