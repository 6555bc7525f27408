package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/config"
	"github.com/matzehuels/linebreak/pkg/pipeline"
	"github.com/matzehuels/linebreak/pkg/text"
)

// breakFlags holds the breaking flags shared by the break, text, graph and
// preview commands. Only flags the user set override the config file.
type breakFlags struct {
	width          int
	firstWidth     int
	widths         []int
	align          string
	alignLast      string
	threshold      float64
	retryThreshold float64
	noForce        bool
	recovery       bool
	looseness      int
	maxFlagCount   int
	breakClass     string
	refresh        bool
	noCache        bool

	// cells marks widths given in terminal cells rather than units.
	cells bool
}

// textFlags holds the flags of commands that break plain text.
type textFlags struct {
	unitsPerCell  int
	hyphenate     bool
	hyphenPenalty int
	reflow        bool
}

func (f *breakFlags) register(cmd *cobra.Command) {
	unit := "width units"
	if f.cells {
		unit = "columns"
	}
	fs := cmd.Flags()
	fs.IntVarP(&f.width, "width", "w", 0, "line width in "+unit)
	fs.IntVar(&f.firstWidth, "first-width", 0, "width of the first line in "+unit)
	fs.IntSliceVar(&f.widths, "widths", nil, "per-line widths in "+unit+", the last repeats")
	fs.StringVarP(&f.align, "align", "a", "", "alignment: justify, start, center, end")
	fs.StringVar(&f.alignLast, "align-last", "", "alignment of the last line")
	fs.Float64Var(&f.threshold, "threshold", 0, "maximum adjustment ratio of the first pass")
	fs.Float64Var(&f.retryThreshold, "retry-threshold", 0, "maximum adjustment ratio of the forcing pass")
	fs.BoolVar(&f.noForce, "no-force", false, "fail instead of forcing breaks when no layout fits")
	fs.BoolVar(&f.recovery, "recovery", false, "insert overflowing parts when a box cannot fit")
	fs.IntVar(&f.looseness, "looseness", 0, "prefer layouts with this many more (or fewer) lines")
	fs.IntVar(&f.maxFlagCount, "max-flags", 0, "maximum consecutive hyphenated lines (0 for no limit)")
	fs.StringVar(&f.breakClass, "break-class", "", "allowed breaks: all, no-flagged, only-forced")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached solutions")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

func (f *textFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.unitsPerCell, "units-per-cell", 0, "width units of one terminal cell")
	fs.BoolVar(&f.hyphenate, "hyphenate", false, "break at soft hyphens (U+00AD)")
	fs.IntVar(&f.hyphenPenalty, "hyphen-penalty", 0, "penalty of a hyphenated break")
	fs.BoolVar(&f.reflow, "reflow", false, "join lines into paragraphs separated by blank lines")
}

// optionsFromConfig converts a config file into pipeline options.
func optionsFromConfig(f *config.File) pipeline.Options {
	b := f.Breaking
	return pipeline.Options{
		Width:          b.Width,
		FirstWidth:     b.FirstWidth,
		Widths:         append([]int(nil), b.Widths...),
		Alignment:      b.Alignment,
		AlignmentLast:  b.AlignmentLast,
		Threshold:      b.Threshold,
		RetryThreshold: b.RetryThreshold,
		Force:          b.Force,
		Recovery:       b.Recovery,
		MaxRecovery:    b.MaxRecovery,
		MaxFlagCount:   b.MaxFlagCount,
		Looseness:      b.Looseness,
		BreakClass:     b.BreakClass,
		FlaggedDemerit: b.FlaggedDemerit,
		FitnessDemerit: b.FitnessDemerit,
		UnitsPerCell:   f.Text.UnitsPerCell,
		Hyphenate:      f.Text.Hyphenate,
		HyphenPenalty:  f.Text.HyphenPenalty,
		Reflow:         f.Text.Reflow,
		Workers:        f.Server.Workers,
	}
}

// options layers the flags the user changed over the config file values.
func (c *CLI) options(cmd *cobra.Command, bf *breakFlags, tf *textFlags) pipeline.Options {
	opts := optionsFromConfig(c.config())
	fs := cmd.Flags()

	if tf != nil {
		if fs.Changed("units-per-cell") {
			opts.UnitsPerCell = tf.unitsPerCell
		}
		if fs.Changed("hyphenate") {
			opts.Hyphenate = tf.hyphenate
		}
		if fs.Changed("hyphen-penalty") {
			opts.HyphenPenalty = tf.hyphenPenalty
		}
		if fs.Changed("reflow") {
			opts.Reflow = tf.reflow
		}
	}

	scale := 1
	if bf.cells {
		scale = opts.UnitsPerCell
		if scale <= 0 {
			scale = text.DefaultUnitsPerCell
		}
	}
	if fs.Changed("width") {
		opts.Width = bf.width * scale
	} else if bf.cells && opts.Width == 0 {
		opts.Width = defaultColumns * scale
	}
	if fs.Changed("first-width") {
		opts.FirstWidth = bf.firstWidth * scale
	}
	if fs.Changed("widths") {
		opts.Widths = make([]int, len(bf.widths))
		for i, w := range bf.widths {
			opts.Widths[i] = w * scale
		}
	}
	if fs.Changed("align") {
		opts.Alignment = bf.align
	}
	if fs.Changed("align-last") {
		opts.AlignmentLast = bf.alignLast
	}
	if fs.Changed("threshold") {
		opts.Threshold = bf.threshold
	}
	if fs.Changed("retry-threshold") {
		opts.RetryThreshold = bf.retryThreshold
	}
	if fs.Changed("no-force") {
		force := !bf.noForce
		opts.Force = &force
	}
	if fs.Changed("recovery") {
		opts.Recovery = bf.recovery
	}
	if fs.Changed("looseness") {
		opts.Looseness = bf.looseness
	}
	if fs.Changed("max-flags") {
		opts.MaxFlagCount = bf.maxFlagCount
	}
	if fs.Changed("break-class") {
		opts.BreakClass = bf.breakClass
	}
	opts.Refresh = bf.refresh
	opts.Logger = c.Logger
	return opts
}
