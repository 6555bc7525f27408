// Package pipeline provides the breaking pipeline shared by the CLI and the
// HTTP server.
//
// A [Runner] validates [Options], looks the solution up in the cache, runs
// [knuth.Break] on a miss and stores the result. Keeping this in one place
// gives every entry point the same defaults, cache keys and error codes.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Break(ctx, seq, pipeline.Options{Width: 6000})
//	if err != nil {
//	    return err
//	}
//	for _, p := range res.Parts {
//	    fmt.Println(p.Start, p.End, p.Ratio)
//	}
//
// Plain text goes through [Runner.BreakText], which builds the sequence with
// [text.Build] and also returns the text of every line. [Runner.BreakAll]
// breaks several sequences concurrently and [Runner.Graph] renders the break
// graph of a run.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linebreak/pkg/cache"
	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/text"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default line width: 60 cells of DefaultUnitsPerCell.
	DefaultWidth = 60 * text.DefaultUnitsPerCell

	// DefaultAlignment is the alignment of every line but the last.
	DefaultAlignment = "justify"

	// DefaultAlignmentLast is the alignment of the last line.
	DefaultAlignmentLast = "start"

	// DefaultWorkers bounds the concurrency of BreakAll.
	DefaultWorkers = 4
)

// Graph output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidGraphFormats is the set of supported break graph formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a breaking run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Breaking options
	Width          int     `json:"width,omitempty"`
	FirstWidth     int     `json:"first_width,omitempty"`
	Widths         []int   `json:"widths,omitempty"`
	Alignment      string  `json:"alignment,omitempty"`
	AlignmentLast  string  `json:"alignment_last,omitempty"`
	Threshold      float64 `json:"threshold,omitempty"`
	RetryThreshold float64 `json:"retry_threshold,omitempty"`
	Force          *bool   `json:"force,omitempty"`
	Recovery       bool    `json:"recovery,omitempty"`
	MaxRecovery    int     `json:"max_recovery_attempts,omitempty"`
	MaxFlagCount   int     `json:"max_flag_count,omitempty"`
	Looseness      int     `json:"looseness,omitempty"`
	BreakClass     string  `json:"break_class,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"`

	// Demerit surcharges; nil keeps the knuth defaults.
	FlaggedDemerit *float64 `json:"flagged_demerit,omitempty"`
	FitnessDemerit *float64 `json:"fitness_demerit,omitempty"`

	// Text options
	UnitsPerCell  int  `json:"units_per_cell,omitempty"`
	Hyphenate     bool `json:"hyphenate,omitempty"`
	HyphenPenalty int  `json:"hyphen_penalty,omitempty"`
	Reflow        bool `json:"reflow,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger    `json:"-"`
	Observer knuth.Observer `json:"-"`
	Workers  int            `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
	cfg       knuth.Config
	class     knuth.BreakClass
}

// Result contains the outputs of a breaking run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Hash is the content hash of the input sequence or text.
	Hash string

	Parts    []knuth.Part
	Demerits float64
	Passes   int
	Overflow bool

	// Lines holds the text of each part for BreakText runs.
	Lines []text.Line

	Stats    Stats
	CacheHit bool
}

// Stats contains run statistics.
type Stats struct {
	Elements int
	Parts    int
	Duration time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateGraphFormat checks that a break graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if err := errors.ValidateWidth(o.Width); err != nil {
		return err
	}
	if o.FirstWidth != 0 {
		if err := errors.ValidateWidth(o.FirstWidth); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "first_width")
		}
	}
	if err := errors.ValidateWidths(o.Widths); err != nil {
		return err
	}
	if o.Alignment == "" {
		o.Alignment = DefaultAlignment
	}
	if o.AlignmentLast == "" {
		o.AlignmentLast = DefaultAlignmentLast
	}
	if o.Threshold == 0 {
		o.Threshold = knuth.DefaultThreshold
	}
	if o.RetryThreshold == 0 {
		o.RetryThreshold = knuth.DefaultRetryThreshold
	}
	if o.UnitsPerCell == 0 {
		o.UnitsPerCell = text.DefaultUnitsPerCell
	}
	if o.UnitsPerCell < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "units_per_cell must be positive")
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	cfg := knuth.DefaultConfig()
	align, err := knuth.ParseAlignment(o.Alignment)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAlignment, err, "alignment")
	}
	last, err := knuth.ParseAlignment(o.AlignmentLast)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAlignment, err, "alignment_last")
	}
	// Canonical names keep cache keys stable across aliases.
	o.Alignment, o.AlignmentLast = align.String(), last.String()
	cfg.Alignment, cfg.AlignmentLast = align, last
	cfg.Threshold = o.Threshold
	cfg.Force = o.ShouldForce()
	cfg.PartOverflowRecovery = o.Recovery
	if o.MaxRecovery != 0 {
		cfg.MaxRecoveryAttempts = o.MaxRecovery
	}
	if o.FlaggedDemerit != nil {
		cfg.RepeatedFlaggedDemerit = *o.FlaggedDemerit
	}
	if o.FitnessDemerit != nil {
		cfg.IncompatibleFitnessDemerit = *o.FitnessDemerit
	}
	cfg.MaxFlagCount = o.MaxFlagCount
	cfg.Looseness = o.Looseness
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid breaking options")
	}

	class, err := knuth.ParseBreakClass(o.BreakClass)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "break_class")
	}
	o.BreakClass = class.String()

	o.cfg, o.class = cfg, class
	o.validated = true
	return nil
}

// Clone returns an unvalidated copy of o that shares no slices with it.
// Servers use it to layer request options over their defaults.
func (o Options) Clone() Options {
	c := o
	c.Widths = append([]int(nil), o.Widths...)
	if len(c.Widths) == 0 {
		c.Widths = nil
	}
	c.validated = false
	c.cfg, c.class = knuth.Config{}, knuth.AllBreaks
	return c
}

// ShouldForce returns whether a forcing pass runs when no feasible solution
// exists. Forcing is on unless Force is explicitly false.
func (o *Options) ShouldForce() bool {
	return o.Force == nil || *o.Force
}

// LineWidth returns the line widths described by the options: the Widths
// list when present, otherwise Width with an optional first line width.
func (o *Options) LineWidth() knuth.LineWidth {
	switch {
	case len(o.Widths) > 0:
		return knuth.Widths(o.Widths)
	case o.FirstWidth > 0:
		return knuth.FirstLineWidth{First: o.FirstWidth, Rest: o.Width}
	default:
		return knuth.ConstantWidth(o.Width)
	}
}

// BreakOptions returns the knuth options of a validated Options value.
func (o *Options) BreakOptions(observers ...knuth.Observer) []knuth.Option {
	cfg := o.cfg
	var obs knuth.Observers
	if o.Observer != nil {
		obs = append(obs, o.Observer)
	}
	for _, ob := range observers {
		if ob != nil {
			obs = append(obs, ob)
		}
	}
	if len(obs) > 0 {
		cfg.Observer = obs
	}
	return []knuth.Option{
		knuth.WithConfig(cfg),
		knuth.WithRetryThreshold(o.RetryThreshold),
		knuth.WithBreakClass(o.class),
	}
}

// TextOptions returns the options used to build sequences from text.
func (o *Options) TextOptions() text.Options {
	return text.Options{
		Alignment:     o.cfg.Alignment,
		Measure:       text.CellMeasure{UnitsPerCell: o.UnitsPerCell},
		Hyphenate:     o.Hyphenate,
		HyphenPenalty: o.HyphenPenalty,
		Reflow:        o.Reflow,
	}
}

// Alignments returns the parsed alignment of ordinary lines and of the last
// line of a validated Options value.
func (o *Options) Alignments() (line, last knuth.Alignment) {
	return o.cfg.Alignment, o.cfg.AlignmentLast
}

// PartsKeyOpts returns cache key options for a break solution.
func (o *Options) PartsKeyOpts() cache.PartsKeyOpts {
	return cache.PartsKeyOpts{
		Width:          o.Width,
		FirstWidth:     o.FirstWidth,
		Widths:         o.Widths,
		Alignment:      o.Alignment,
		AlignmentLast:  o.AlignmentLast,
		Threshold:      o.Threshold,
		RetryThreshold: o.RetryThreshold,
		Force:          o.ShouldForce(),
		Recovery:       o.Recovery,
		MaxRecovery:    o.cfg.MaxRecoveryAttempts,
		FlaggedDemerit: o.cfg.RepeatedFlaggedDemerit,
		FitnessDemerit: o.cfg.IncompatibleFitnessDemerit,
		MaxFlagCount:   o.MaxFlagCount,
		Looseness:      o.Looseness,
		BreakClass:     o.BreakClass,
	}
}

// TextKeyOpts returns cache key options for a text solution.
func (o *Options) TextKeyOpts() cache.TextKeyOpts {
	return cache.TextKeyOpts{
		PartsKeyOpts:  o.PartsKeyOpts(),
		UnitsPerCell:  o.UnitsPerCell,
		Hyphenate:     o.Hyphenate,
		HyphenPenalty: o.HyphenPenalty,
		Reflow:        o.Reflow,
	}
}
