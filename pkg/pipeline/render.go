package pipeline

import (
	"context"

	"github.com/matzehuels/linebreak/pkg/breakgraph"
	"github.com/matzehuels/linebreak/pkg/cache"
	"github.com/matzehuels/linebreak/pkg/errors"
	lbio "github.com/matzehuels/linebreak/pkg/io"
	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/observability"
)

// GraphWithCacheInfo renders the break graph of seq in the given format
// (dot, svg or png) with caching and returns cache hit info. The break is
// always recomputed on a cache miss so that every candidate is recorded.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, seq *knuth.Sequence, format string, gopts breakgraph.Options, opts Options) ([]byte, bool, error) {
	if err := ValidateGraphFormat(format); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	data, err := lbio.MarshalSequence(seq)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize sequence for cache key")
	}
	variant := format
	if gopts.Detailed {
		variant += "+detailed"
	}
	if gopts.SelectedOnly {
		variant += "+selected"
	}
	key := r.Keyer.GraphKey(cache.Hash(data), variant, opts.PartsKeyOpts())

	if !opts.Refresh {
		if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return out, true, nil
		}
	}

	rec := breakgraph.NewRecorder()
	if _, err := knuth.Break(seq, opts.LineWidth(), opts.BreakOptions(rec)...); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "break")
	}
	dot := breakgraph.ToDOT(rec.Graph(), gopts)

	out := []byte(dot)
	if format != FormatDOT {
		out, err = breakgraph.Render(ctx, dot, format)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
	}
	opts.Logger.Info("rendered break graph",
		"format", format,
		"nodes", len(rec.Graph().Nodes),
		"bytes", len(out))

	if err := r.Cache.Set(ctx, key, out, r.ttl(cache.TTLGraph)); err != nil {
		opts.Logger.Warn("cache store failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, KindGraph, len(out))
	}
	return out, false, nil
}

// Graph is a convenience wrapper that calls GraphWithCacheInfo and discards the cache hit info.
func (r *Runner) Graph(ctx context.Context, seq *knuth.Sequence, format string, gopts breakgraph.Options, opts Options) ([]byte, error) {
	out, _, err := r.GraphWithCacheInfo(ctx, seq, format, gopts, opts)
	return out, err
}
