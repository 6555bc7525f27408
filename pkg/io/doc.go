// Package io provides JSON import and export for element sequences and
// break solutions.
//
// # Sequence Format
//
// A sequence is an object with one required array:
//
//	{
//	  "elements": [
//	    {"type": "box", "width": 1200},
//	    {"type": "glue", "width": 400, "stretch": 200, "shrink": 130},
//	    {"type": "penalty", "width": 300, "penalty": 50, "flagged": true},
//	    {"type": "box", "width": 900},
//	    {"type": "forced"}
//	  ]
//	}
//
// Element fields:
//   - type: "box", "glue", "penalty", or "forced" (a penalty of -1000)
//   - width: natural width, required to be non-negative for boxes and penalties
//   - stretch, shrink: glue elasticity, shrink must be non-negative
//   - penalty: break cost, 1000 forbids and -1000 forces a break
//   - flagged: marks hyphenation penalties
//   - aux: marks elements inserted for layout only
//
// # Import
//
// Use [ImportSequence] to read a sequence from a file path, or
// [ReadSequence] to read from any io.Reader. Element validation goes
// through [knuth.NewSequence], so an invalid element is reported as a
// [knuth.InvalidAtomError] wrapped with the file context.
//
// # Export
//
// Use [ExportSequence] or [WriteSequence] to write a sequence, and
// [WriteResult] / [ReadResult] for solutions:
//
//	{
//	  "parts": [{"start": 0, "end": 14, "content": 0, "break": 13, ...}],
//	  "demerits": 2304.5,
//	  "passes": 1
//	}
//
// Sequences survive a write and read unchanged.
//
// [knuth.NewSequence]: github.com/matzehuels/linebreak/pkg/knuth.NewSequence
// [knuth.InvalidAtomError]: github.com/matzehuels/linebreak/pkg/knuth.InvalidAtomError
package io
