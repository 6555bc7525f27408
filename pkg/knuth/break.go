package knuth

// Result is the outcome of [Break].
//
// Passes is 1 when the strict pass succeeded and 2 when forcing was needed.
// Demerits is the sum of the demerits of all parts.
type Result struct {
	Parts    []Part
	Demerits float64
	Passes   int
	Overflow bool
}

// Lines returns the number of parts.
func (r *Result) Lines() int { return len(r.Parts) }

// Option customises [Break].
type Option func(*options)

type options struct {
	cfg            Config
	retryThreshold float64
	firstCall      bool
	allowed        BreakClass
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithAlignment sets the alignment of all lines and of the last line.
func WithAlignment(align, last Alignment) Option {
	return func(o *options) {
		o.cfg.Alignment = align
		o.cfg.AlignmentLast = last
	}
}

// WithThreshold sets the ratio threshold of the strict pass.
func WithThreshold(t float64) Option {
	return func(o *options) { o.cfg.Threshold = t }
}

// WithRetryThreshold sets the ratio threshold of the forcing pass.
func WithRetryThreshold(t float64) Option {
	return func(o *options) { o.retryThreshold = t }
}

// WithForce enables or disables the forcing pass.
func WithForce(force bool) Option {
	return func(o *options) { o.cfg.Force = force }
}

func WithLooseness(n int) Option {
	return func(o *options) { o.cfg.Looseness = n }
}

func WithMaxFlagCount(n int) Option {
	return func(o *options) { o.cfg.MaxFlagCount = n }
}

func WithBreakClass(c BreakClass) Option {
	return func(o *options) { o.allowed = c }
}

// WithFirstCall controls whether leading discardable elements are skipped.
// It defaults to true.
func WithFirstCall(first bool) Option {
	return func(o *options) { o.firstCall = first }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.cfg.Observer = obs }
}

// Break finds the optimal parts of seq.
//
// A first pass looks for a solution whose lines all stay within the
// threshold, without forcing. When there is none and forcing is enabled, a
// second pass uses the retry threshold and forces a solution, marking
// overflowing parts. An empty sequence yields an empty result.
func Break(seq *Sequence, width LineWidth, opts ...Option) (*Result, error) {
	o := options{
		cfg:            DefaultConfig(),
		retryThreshold: DefaultRetryThreshold,
		firstCall:      true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if o.retryThreshold < o.cfg.Threshold {
		o.retryThreshold = o.cfg.Threshold
	}
	if seq.IsEmpty() {
		return &Result{}, nil
	}

	strict := o.cfg
	strict.Force = false
	res, err := run(seq, width, strict, o)
	if err != nil || len(res.Parts) > 0 || !o.cfg.Force {
		return res, err
	}

	forcing := o.cfg
	forcing.Threshold = o.retryThreshold
	res, err = run(seq, width, forcing, o)
	if err != nil {
		return nil, err
	}
	res.Passes = 2
	return res, nil
}

func run(seq *Sequence, width LineWidth, cfg Config, o options) (*Result, error) {
	parts := NewParts(cfg)
	alg, err := New(cfg, parts)
	if err != nil {
		return nil, err
	}
	res := &Result{Passes: 1}
	if alg.FindBreakingPoints(seq, width, o.firstCall, o.allowed) == 0 {
		return res, nil
	}
	res.Parts = parts.Parts()
	// Restarts reset node totals, so the total is summed over the parts.
	for _, p := range res.Parts {
		res.Demerits += p.Demerits
		if p.Overflow {
			res.Overflow = true
		}
	}
	return res, nil
}
