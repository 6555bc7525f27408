package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

// Element type names used in the JSON format.
const (
	TypeBox     = "box"
	TypeGlue    = "glue"
	TypePenalty = "penalty"
	TypeForced  = "forced"
)

type sequence struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type    string `json:"type"`
	Width   int    `json:"width,omitempty"`
	Stretch int    `json:"stretch,omitempty"`
	Shrink  int    `json:"shrink,omitempty"`
	Penalty int    `json:"penalty,omitempty"`
	Flagged bool   `json:"flagged,omitempty"`
	Aux     bool   `json:"aux,omitempty"`
}

// Result is the JSON form of a break solution.
type Result struct {
	Parts    []knuth.Part `json:"parts"`
	Demerits float64      `json:"demerits"`
	Passes   int          `json:"passes"`
	Overflow bool         `json:"overflow,omitempty"`
}

// NewResult converts a [knuth.Result].
func NewResult(r *knuth.Result) Result {
	parts := r.Parts
	if parts == nil {
		parts = []knuth.Part{}
	}
	return Result{Parts: parts, Demerits: r.Demerits, Passes: r.Passes, Overflow: r.Overflow}
}

func toElement(e knuth.Element) element {
	out := element{Width: e.Width(), Aux: e.Aux()}
	switch {
	case e.IsBox():
		out.Type = TypeBox
	case e.IsGlue():
		out.Type = TypeGlue
		out.Stretch, out.Shrink = e.Stretch(), e.Shrink()
	case e.IsForcedBreak() && e.Width() == 0 && !e.Flagged():
		out.Type = TypeForced
	default:
		out.Type = TypePenalty
		out.Penalty, out.Flagged = e.Penalty(), e.Flagged()
	}
	return out
}

// MarshalSequence encodes a sequence as compact JSON. The encoding is stable
// and suitable for content hashing.
func MarshalSequence(seq *knuth.Sequence) ([]byte, error) {
	return json.Marshal(fromKnuth(seq))
}

func fromKnuth(seq *knuth.Sequence) sequence {
	out := sequence{Elements: make([]element, seq.Len())}
	for i := range seq.Len() {
		out.Elements[i] = toElement(seq.At(i))
	}
	return out
}

// WriteSequence encodes a sequence as indented JSON and writes it to w.
func WriteSequence(seq *knuth.Sequence, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromKnuth(seq)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSequence writes a sequence to a JSON file at path.
func ExportSequence(seq *knuth.Sequence, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSequence(seq, f)
}

// WriteResult encodes a solution as indented JSON and writes it to w.
func WriteResult(r *knuth.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewResult(r)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
