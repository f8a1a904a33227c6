package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
	nodeio "github.com/matzehuels/flowgrid/pkg/io"
	"github.com/matzehuels/flowgrid/pkg/observability"
	"github.com/matzehuels/flowgrid/pkg/render"
	"github.com/matzehuels/flowgrid/pkg/render/nodelink"
)

const artifactKeyType = "artifact"

// Runner executes generation and rendering with caching.
//
// The Runner holds no per-call state; concurrent calls are safe as long as
// the cache is.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// falls back to log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Generate writes the node list for params to w using a generator seeded
// with seed. Parameters are validated first; an invalid set writes nothing.
func (r *Runner) Generate(ctx context.Context, w io.Writer, params grid.Params, seed uint64) (grid.Summary, error) {
	if err := params.Validate(); err != nil {
		return grid.Summary{}, err
	}
	summary := grid.Summarize(params)

	observability.Generate().OnGenerateStart(ctx, params)
	start := time.Now()
	err := grid.Generate(w, params, grid.NewRand(seed))
	elapsed := time.Since(start)
	observability.Generate().OnGenerateComplete(ctx, params, summary.Emitted, elapsed, err)
	if err != nil {
		return summary, err
	}

	r.Logger.Debug("generated network",
		"requested", summary.Requested,
		"emitted", summary.Emitted,
		"sinks", summary.Sinks,
		"seed", seed,
		"duration", elapsed)
	if summary.Truncated() {
		r.Logger.Debugf("node count %d is not a square; emitted %d", summary.Requested, summary.Emitted)
	}
	return summary, nil
}

// Render encodes or draws net in opts.Format. The second result reports a
// cache hit. Cache failures are logged and never fail the render.
func (r *Runner) Render(ctx context.Context, net grid.Network, opts RenderOptions) ([]byte, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	var text bytes.Buffer
	if err := nodeio.WriteText(&text, net); err != nil {
		return nil, false, err
	}
	key := cache.ArtifactKey(cache.Hash(text.Bytes()), cache.ArtifactKeyOpts{
		Format: opts.Format,
		Scale:  opts.Scale,
		Labels: opts.Labels,
	})

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Debug("cache read failed", "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, artifactKeyType)
			return data, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
		}
	}

	observability.Render().OnRenderStart(ctx, opts.Format, len(net.Nodes))
	start := time.Now()
	data, err := renderNetwork(ctx, net, text.Bytes(), opts)
	observability.Render().OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}
	return data, false, nil
}

func renderNetwork(ctx context.Context, net grid.Network, text []byte, opts RenderOptions) ([]byte, error) {
	switch opts.Format {
	case FormatText:
		return text, nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := nodeio.WriteJSON(&buf, net); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if (opts.Format == FormatPDF || opts.Format == FormatPNG) && !render.Available() {
		return nil, ferrors.New(ferrors.ErrCodeUnsupported, "%s output requires rsvg-convert (librsvg)", opts.Format)
	}

	dot := nodelink.ToDOT(net, nodelink.Options{Scale: opts.Scale, Labels: opts.Labels})
	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
	default:
		return nil, ferrors.New(ferrors.ErrCodeUnsupported, "format %s", opts.Format)
	}
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return data, nil
}
