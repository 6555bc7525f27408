package knuth

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestNewSequence_InvalidAtoms(t *testing.T) {
	tests := []struct {
		name   string
		elems  []Element
		index  int
		reason string
	}{
		{"negative stretch", []Element{Box(10), Glue(5, -1, 0)}, 1, "negative stretch"},
		{"negative shrink", []Element{Glue(5, 1, -2)}, 0, "negative shrink"},
		{"penalty too large", []Element{Box(1), Penalty(0, Infinite+1, false)}, 1, "outside"},
		{"penalty too small", []Element{Penalty(0, -Infinite-5, false)}, 0, "outside"},
		{"zero element", []Element{Box(1), {}}, 1, "no kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := NewSequence(tt.elems...)
			if seq != nil {
				t.Errorf("expected nil sequence")
			}
			if !errors.Is(err, ErrInvalidAtom) {
				t.Fatalf("expected ErrInvalidAtom, got %v", err)
			}
			var atomErr *InvalidAtomError
			if !errors.As(err, &atomErr) {
				t.Fatalf("expected *InvalidAtomError, got %T", err)
			}
			if atomErr.Index != tt.index {
				t.Errorf("Index = %d, want %d", atomErr.Index, tt.index)
			}
			if !strings.Contains(atomErr.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", atomErr.Reason, tt.reason)
			}
		})
	}
}

func TestNewSequence_CopiesInput(t *testing.T) {
	elems := []Element{Box(10), Glue(5, 2, 1), Box(10)}
	seq := MustSequence(elems...)
	elems[0] = Box(99)

	if got := seq.At(0).Width(); got != 10 {
		t.Errorf("sequence aliased its input: width = %d", got)
	}
	out := seq.Elements()
	out[1] = Box(1)
	if !seq.At(1).IsGlue() {
		t.Error("Elements returned an aliased slice")
	}
}

func TestSequence_Empty(t *testing.T) {
	seq := MustSequence()
	if !seq.IsEmpty() || seq.Len() != 0 {
		t.Errorf("expected empty sequence, got len %d", seq.Len())
	}
	var nilSeq *Sequence
	if nilSeq.Len() != 0 || !nilSeq.IsEmpty() {
		t.Error("nil sequence should be empty")
	}
	if got := seq.LegalBreaks(); len(got) != 0 {
		t.Errorf("LegalBreaks() = %v, want none", got)
	}
}

func TestSequence_IsLegalBreak(t *testing.T) {
	seq := MustSequence(
		Glue(5, 0, 0),                // 0: glue at start
		Box(10),                      // 1
		Glue(5, 1, 1),                // 2: glue after box
		Glue(5, 1, 1),                // 3: glue after glue
		Penalty(0, Infinite, false),  // 4: forbidden
		Penalty(0, 50, true),         // 5: flagged
		Box(10),                      // 6
		Penalty(0, -Infinite, false), // 7: forced
		Box(10),                      // 8
		Box(10),                      // 9: last
	)

	want := map[int]bool{2: true, 5: true, 7: true, 9: true}
	for i := range seq.Len() {
		if got := seq.IsLegalBreak(i); got != want[i] {
			t.Errorf("IsLegalBreak(%d) = %v, want %v", i, got, want[i])
		}
	}

	forced := map[int]bool{7: true, 9: true}
	for i := range seq.Len() {
		if got := seq.IsForcedBreak(i); got != forced[i] {
			t.Errorf("IsForcedBreak(%d) = %v, want %v", i, got, forced[i])
		}
	}

	if seq.IsLegalBreak(-1) || seq.IsLegalBreak(seq.Len()) {
		t.Error("out of range indexes must not be legal breaks")
	}
	if got, want := seq.LegalBreaks(), []int{2, 5, 7, 9}; !slices.Equal(got, want) {
		t.Errorf("LegalBreaks() = %v, want %v", got, want)
	}
}

func TestSequence_IsDiscardable(t *testing.T) {
	seq := MustSequence(
		Glue(5, 0, 0),        // 0: leading
		Penalty(0, 0, false), // 1: leading
		Box(10),              // 2
		Glue(5, 0, 0),        // 3
		ForcedBreak(),        // 4
		Glue(5, 0, 0),        // 5: after forced break
		Box(10),              // 6
	)

	want := map[int]bool{0: true, 1: true, 5: true}
	for i := range seq.Len() {
		if got := seq.IsDiscardable(i); got != want[i] {
			t.Errorf("IsDiscardable(%d) = %v, want %v", i, got, want[i])
		}
	}
}

func TestSequence_Totals(t *testing.T) {
	seq := MustSequence(Box(10), Glue(5, 3, 2), Penalty(7, 0, false), Box(20), Glue(4, 1, 1))

	w, st, sh := seq.Totals(0, seq.Len())
	if w != 39 || st != 4 || sh != 3 {
		t.Errorf("Totals = (%d, %d, %d), want (39, 4, 3)", w, st, sh)
	}
	if got := seq.FirstBoxIndex(1); got != 3 {
		t.Errorf("FirstBoxIndex(1) = %d, want 3", got)
	}
	if got := seq.FirstBoxIndex(4); got != -1 {
		t.Errorf("FirstBoxIndex(4) = %d, want -1", got)
	}
}

func TestBuilder_EndParagraph(t *testing.T) {
	b := NewBuilder().AddBox(10).AddGlue(5, 2, 1).AddBox(10).EndParagraph()
	if b.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", b.Len())
	}
	last, ok := b.Last()
	if !ok || !last.IsForcedBreak() {
		t.Errorf("last element = %v, want forced break", last)
	}

	seq, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e := seq.At(3); !e.IsPenalty() || e.Penalty() != Infinite {
		t.Errorf("element 3 = %v, want forbidden penalty", e)
	}
	if e := seq.At(4); !e.IsGlue() || e.Stretch() != FillStretch {
		t.Errorf("element 4 = %v, want filler glue", e)
	}
	if seq.IsLegalBreak(4) {
		t.Error("filler glue follows a penalty and must not be a legal break")
	}
}

func TestBuilder_BuildInvalid(t *testing.T) {
	_, err := NewBuilder().AddBox(1).AddGlue(1, -1, 0).Build()
	if !errors.Is(err, ErrInvalidAtom) {
		t.Errorf("expected ErrInvalidAtom, got %v", err)
	}
}

func TestElement_String(t *testing.T) {
	tests := []struct {
		e    Element
		want string
	}{
		{Box(10), "box(10)"},
		{AuxBox(0), "box(0)*"},
		{Glue(10, 5, 3), "glue(10+5-3)"},
		{Penalty(2, 50, true), "penalty(2,50,flagged)"},
		{ForcedBreak(), "penalty(0,-inf)"},
		{Penalty(0, Infinite, false), "penalty(0,inf)"},
		{Element{}, "invalid"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSequence_String(t *testing.T) {
	s := MustSequence(Box(1), Glue(1, 0, 0), Box(1)).String()
	if !strings.Contains(s, "1: glue(1+0-0) <break>") {
		t.Errorf("unexpected dump:\n%s", s)
	}
}
