package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

const (
	softHyphen = "\u00ad"
	hyphen     = "-"
)

// Options controls how text is converted into a sequence.
type Options struct {
	// Alignment selects the space glue: justified text gets glue that can
	// stretch and shrink, other alignments get stretch-only glue.
	Alignment knuth.Alignment

	// Measure measures words. Nil means CellMeasure{DefaultUnitsPerCell}.
	Measure Measure

	// Hyphenate turns soft hyphens into break opportunities. When false they
	// are removed.
	Hyphenate bool

	// HyphenPenalty is the value of hyphenation penalties. Zero means
	// knuth.FlaggedPenalty.
	HyphenPenalty int

	// Reflow joins consecutive input lines into one paragraph. Blank lines
	// still separate paragraphs.
	Reflow bool
}

func (o Options) measure() Measure {
	if o.Measure == nil {
		return CellMeasure{UnitsPerCell: DefaultUnitsPerCell}
	}
	return o.Measure
}

func (o Options) hyphenPenalty() int {
	if o.HyphenPenalty == 0 {
		return knuth.FlaggedPenalty
	}
	return o.HyphenPenalty
}

// Paragraph is a sequence built from text together with the text of every
// box, keyed by element index.
type Paragraph struct {
	Seq   *knuth.Sequence
	Words map[int]string
}

// Build converts text into a [Paragraph]. The text is normalised to NFC
// before measuring. Text without words yields an empty sequence.
func Build(text string, opts Options) (*Paragraph, error) {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))

	b := builder{
		opts:    opts,
		measure: opts.measure(),
		seq:     knuth.NewBuilder(),
		words:   make(map[int]string),
	}
	for _, para := range paragraphs(text, opts.Reflow) {
		b.paragraph(para)
	}

	seq, err := b.seq.Build()
	if err != nil {
		return nil, err
	}
	return &Paragraph{Seq: seq, Words: b.words}, nil
}

// paragraphs splits text into the word lists of its paragraphs, skipping
// blank ones.
func paragraphs(text string, reflow bool) [][]string {
	var chunks []string
	if reflow {
		var cur []string
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) == "" {
				chunks = append(chunks, strings.Join(cur, " "))
				cur = cur[:0]
				continue
			}
			cur = append(cur, line)
		}
		chunks = append(chunks, strings.Join(cur, " "))
	} else {
		chunks = strings.Split(text, "\n")
	}

	var out [][]string
	for _, c := range chunks {
		if words := strings.Fields(c); len(words) > 0 {
			out = append(out, words)
		}
	}
	return out
}

type builder struct {
	opts    Options
	measure Measure
	seq     *knuth.Builder
	words   map[int]string
}

func (b *builder) paragraph(words []string) {
	for i, w := range words {
		if i > 0 {
			b.space()
		}
		b.word(w)
	}
	b.seq.EndParagraph()
}

func (b *builder) space() {
	w := b.measure.Width(" ")
	if b.opts.Alignment == knuth.AlignJustify {
		b.seq.AddGlue(w, w/2, w/3)
		return
	}
	b.seq.AddGlue(w, 3*w, 0)
}

func (b *builder) word(w string) {
	var frags []string
	for _, f := range strings.Split(w, softHyphen) {
		if f != "" {
			frags = append(frags, f)
		}
	}
	if !b.opts.Hyphenate {
		frags = []string{strings.Join(frags, "")}
	}

	for i, f := range frags {
		if i > 0 {
			b.seq.AddPenalty(b.measure.Width(hyphen), b.opts.hyphenPenalty(), true)
		}
		b.hyphenated(f)
	}
}

// hyphenated adds a fragment, allowing a break after each explicit hyphen
// that is followed by more text.
func (b *builder) hyphenated(frag string) {
	parts := strings.SplitAfter(frag, hyphen)
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		if i > 0 {
			b.seq.AddPenalty(0, b.opts.hyphenPenalty(), true)
		}
		b.box(p)
	}
}

func (b *builder) box(s string) {
	b.words[b.seq.Len()] = s
	b.seq.AddBox(b.measure.Width(s))
}
