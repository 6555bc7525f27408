package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

// ErrUnknownType is returned for elements with an unrecognised type.
var ErrUnknownType = errors.New("unknown element type")

func (e element) toKnuth(i int) (knuth.Element, error) {
	switch e.Type {
	case TypeBox:
		if e.Aux {
			return knuth.AuxBox(e.Width), nil
		}
		return knuth.Box(e.Width), nil
	case TypeGlue:
		if e.Aux {
			return knuth.AuxGlue(e.Width, e.Stretch, e.Shrink), nil
		}
		return knuth.Glue(e.Width, e.Stretch, e.Shrink), nil
	case TypePenalty:
		if e.Aux {
			return knuth.AuxPenalty(e.Width, e.Penalty, e.Flagged), nil
		}
		return knuth.Penalty(e.Width, e.Penalty, e.Flagged), nil
	case TypeForced:
		if e.Aux {
			return knuth.AuxPenalty(0, -knuth.Infinite, false), nil
		}
		return knuth.ForcedBreak(), nil
	default:
		return knuth.Element{}, fmt.Errorf("element %d: %w %q", i, ErrUnknownType, e.Type)
	}
}

// ReadSequence decodes a JSON sequence from r.
//
// ReadSequence returns an error if the JSON is malformed, if an element has
// an unknown type, or if [knuth.NewSequence] rejects an element. It does not
// close r.
func ReadSequence(r io.Reader) (*knuth.Sequence, error) {
	var data sequence
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.build()
}

// UnmarshalSequence decodes a sequence from JSON data.
func UnmarshalSequence(data []byte) (*knuth.Sequence, error) {
	var raw sequence
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return raw.build()
}

func (s sequence) build() (*knuth.Sequence, error) {
	elems := make([]knuth.Element, len(s.Elements))
	for i, e := range s.Elements {
		el, err := e.toKnuth(i)
		if err != nil {
			return nil, err
		}
		elems[i] = el
	}
	seq, err := knuth.NewSequence(elems...)
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	return seq, nil
}

// ImportSequence reads a JSON sequence file at path.
func ImportSequence(path string) (*knuth.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	seq, err := ReadSequence(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// ReadResult decodes a JSON solution from r.
func ReadResult(r io.Reader) (Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	return res, nil
}
