package knuth

import "fmt"

// Infinite is the penalty value treated as infinity. A penalty of Infinite or
// more forbids a break, a penalty of -Infinite or less forces one.
const Infinite = 1000

// FlaggedPenalty is the customary value of a flagged (hyphenation) penalty.
const FlaggedPenalty = 50

// FillStretch is the stretch of the filler glue appended by
// [Builder.EndParagraph]. It is large enough to make any last line feasible.
const FillStretch = 10_000_000

// Kind identifies the variant of an [Element].
type Kind uint8

const (
	// KindInvalid is the kind of the zero Element.
	KindInvalid Kind = iota
	KindBox
	KindGlue
	KindPenalty
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindGlue:
		return "glue"
	case KindPenalty:
		return "penalty"
	default:
		return "invalid"
	}
}

// Element is one atom of a breakable sequence. Elements are small immutable
// values; use [Box], [Glue] and [Penalty] to construct them.
type Element struct {
	kind    Kind
	width   int
	stretch int
	shrink  int
	penalty int
	flagged bool
	aux     bool
}

// Box returns a box of the given width.
func Box(width int) Element {
	return Element{kind: KindBox, width: width}
}

// AuxBox returns an auxiliary box, typically a zero-width anchor inserted by
// the sequence producer rather than real content.
func AuxBox(width int) Element {
	return Element{kind: KindBox, width: width, aux: true}
}

// Glue returns glue with a natural width and its stretch and shrink limits.
func Glue(width, stretch, shrink int) Element {
	return Element{kind: KindGlue, width: width, stretch: stretch, shrink: shrink}
}

// AuxGlue is like [Glue] but marks the glue as auxiliary.
func AuxGlue(width, stretch, shrink int) Element {
	e := Glue(width, stretch, shrink)
	e.aux = true
	return e
}

// Penalty returns a penalty. The width only counts when the break is taken.
func Penalty(width, value int, flagged bool) Element {
	return Element{kind: KindPenalty, width: width, penalty: value, flagged: flagged}
}

// AuxPenalty is like [Penalty] but marks the penalty as auxiliary.
func AuxPenalty(width, value int, flagged bool) Element {
	e := Penalty(width, value, flagged)
	e.aux = true
	return e
}

// ForcedBreak returns a zero-width penalty that forces a break.
func ForcedBreak() Element {
	return Penalty(0, -Infinite, false)
}

func (e Element) Kind() Kind { return e.kind }
func (e Element) Width() int { return e.width }
func (e Element) Stretch() int { return e.stretch }
func (e Element) Shrink() int { return e.shrink }
func (e Element) Penalty() int { return e.penalty }
func (e Element) Flagged() bool { return e.flagged }
func (e Element) Aux() bool { return e.aux }
func (e Element) IsBox() bool { return e.kind == KindBox }
func (e Element) IsGlue() bool { return e.kind == KindGlue }
func (e Element) IsPenalty() bool { return e.kind == KindPenalty }

// IsForcedBreak reports whether e is a penalty that forces a break.
func (e Element) IsForcedBreak() bool {
	return e.kind == KindPenalty && e.penalty <= -Infinite
}

// IsFlaggedPenalty reports whether e is a flagged penalty.
func (e Element) IsFlaggedPenalty() bool {
	return e.kind == KindPenalty && e.flagged
}

func (e Element) validate() string {
	switch e.kind {
	case KindBox:
		return ""
	case KindGlue:
		if e.stretch < 0 {
			return "negative stretch"
		}
		if e.shrink < 0 {
			return "negative shrink"
		}
		return ""
	case KindPenalty:
		if e.penalty < -Infinite || e.penalty > Infinite {
			return fmt.Sprintf("penalty %d outside [-%d, %d]", e.penalty, Infinite, Infinite)
		}
		return ""
	default:
		return "element has no kind"
	}
}

// String formats e in a compact debugging notation such as "glue(1000+500-333)".
func (e Element) String() string {
	var s string
	switch e.kind {
	case KindBox:
		s = fmt.Sprintf("box(%d)", e.width)
	case KindGlue:
		s = fmt.Sprintf("glue(%d+%d-%d)", e.width, e.stretch, e.shrink)
	case KindPenalty:
		flag := ""
		if e.flagged {
			flag = ",flagged"
		}
		s = fmt.Sprintf("penalty(%d,%s%s)", e.width, penaltyString(e.penalty), flag)
	default:
		return "invalid"
	}
	if e.aux {
		s += "*"
	}
	return s
}

func penaltyString(p int) string {
	switch {
	case p >= Infinite:
		return "inf"
	case p <= -Infinite:
		return "-inf"
	default:
		return fmt.Sprint(p)
	}
}
