// Package text turns plain text into breakable sequences and maps the parts
// found by [knuth.Break] back to lines of text.
//
// # Building
//
// [Build] splits text into words, measures every word with a [Measure] and
// emits one box per word fragment:
//
//   - spaces become glue, elastic in both directions for justified text and
//     stretch-only for ragged or centred text
//   - soft hyphens (U+00AD) become flagged penalties carrying the width of
//     a hyphen, when hyphenation is enabled
//   - explicit hyphens allow a zero-width flagged break after them
//   - every paragraph ends with [knuth.Builder.EndParagraph]
//
// Each input line is a paragraph, so a newline forces a break. With
// [Options.Reflow] single newlines are treated as spaces and only blank
// lines separate paragraphs.
//
// # Lines
//
// [Lines] walks the parts of a solution and rebuilds the words of each line,
// adding a hyphen where a line ends at a soft hyphen. [Render] lays the lines
// out in terminal cells, distributing free space according to the alignment.
package text
