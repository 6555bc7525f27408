package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/linebreak/pkg/cache"
	"github.com/matzehuels/linebreak/pkg/errors"
	lbio "github.com/matzehuels/linebreak/pkg/io"
	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/observability"
	"github.com/matzehuels/linebreak/pkg/text"
)

// Break hook kinds.
const (
	KindSequence = "sequence"
	KindText     = "text"
	KindGraph    = "graph"
)

// Runner encapsulates breaking with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedSolution is the cache payload of a break solution.
type cachedSolution struct {
	Parts    []knuth.Part `msgpack:"parts"`
	Demerits float64      `msgpack:"demerits"`
	Passes   int          `msgpack:"passes"`
	Overflow bool         `msgpack:"overflow,omitempty"`
}

// BreakWithCacheInfo breaks a sequence with caching and returns cache hit info.
func (r *Runner) BreakWithCacheInfo(ctx context.Context, seq *knuth.Sequence, opts Options) (*Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	data, err := lbio.MarshalSequence(seq)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize sequence for cache key")
	}
	hash := cache.Hash(data)
	key := r.Keyer.PartsKey(hash, opts.PartsKeyOpts())

	res, err := r.solve(ctx, KindSequence, key, r.ttl(cache.TTLParts), seq, opts)
	if err != nil {
		return nil, false, err
	}
	res.Hash = hash
	return res, res.CacheHit, nil
}

// Break is a convenience wrapper that calls BreakWithCacheInfo and discards the cache hit info.
func (r *Runner) Break(ctx context.Context, seq *knuth.Sequence, opts Options) (*Result, error) {
	res, _, err := r.BreakWithCacheInfo(ctx, seq, opts)
	return res, err
}

// BreakText builds a sequence from plain text, breaks it and returns the
// text of every line.
func (r *Runner) BreakText(ctx context.Context, input string, opts Options) (*Result, error) {
	if err := errors.ValidateText(input); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	par, err := text.Build(input, opts.TextOptions())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAtom, err, "build sequence from text")
	}
	hash := cache.Hash([]byte(input))
	key := r.Keyer.TextKey(hash, opts.TextKeyOpts())

	res, err := r.solve(ctx, KindText, key, r.ttl(cache.TTLText), par.Seq, opts)
	if err != nil {
		return nil, err
	}
	res.Hash = hash
	res.Lines = text.Lines(par, res.Parts)
	return res, nil
}

// BreakAll breaks several sequences concurrently, at most opts.Workers at a
// time. Results are returned in input order. The first error cancels the
// remaining work.
func (r *Runner) BreakAll(ctx context.Context, seqs []*knuth.Sequence, opts Options) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Observer != nil && len(seqs) > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "an observer cannot be shared by concurrent runs")
	}

	results := make([]*Result, len(seqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, seq := range seqs {
		g.Go(func() error {
			res, err := r.Break(ctx, seq, opts)
			if err != nil {
				return fmt.Errorf("sequence %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// solve returns the cached solution under key or computes and stores it.
func (r *Runner) solve(ctx context.Context, kind, key string, ttl time.Duration, seq *knuth.Sequence, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "break cancelled")
	}
	res := &Result{RunID: uuid.NewString()}
	res.Stats.Elements = seq.Len()
	logger := opts.Logger.With("run", res.RunID[:8], "kind", kind)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached cachedSolution
			if err := msgpack.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, kind)
				res.fill(cached)
				res.CacheHit = true
				logger.Debug("cache hit", "parts", res.Stats.Parts)
				return res, nil
			}
			logger.Warn("discarding unreadable cache entry", "key", key)
		} else if err != nil {
			logger.Warn("cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, kind)
	}

	start := time.Now()
	observability.Break().OnBreakStart(ctx, kind, seq.Len())
	out, err := knuth.Break(seq, opts.LineWidth(), opts.BreakOptions(newLogObserver(logger))...)
	duration := time.Since(start)
	if err != nil {
		observability.Break().OnBreakComplete(ctx, kind, 0, duration, err)
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "break")
	}
	observability.Break().OnBreakComplete(ctx, kind, len(out.Parts), duration, nil)
	if out.Overflow {
		observability.Break().OnOverflow(ctx, kind, len(out.Parts))
	}

	cached := cachedSolution{Parts: out.Parts, Demerits: out.Demerits, Passes: out.Passes, Overflow: out.Overflow}
	res.fill(cached)
	res.Stats.Duration = duration
	logger.Info("broke sequence",
		"elements", seq.Len(),
		"parts", len(out.Parts),
		"passes", out.Passes,
		"overflow", out.Overflow,
		"duration", duration)

	if data, err := msgpack.Marshal(cached); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			logger.Warn("cache store failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, kind, len(data))
		}
	}
	return res, nil
}

func (res *Result) fill(s cachedSolution) {
	res.Parts = s.Parts
	res.Demerits = s.Demerits
	res.Passes = s.Passes
	res.Overflow = s.Overflow
	res.Stats.Parts = len(s.Parts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
