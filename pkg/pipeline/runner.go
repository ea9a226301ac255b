package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/drainstack/pkg/cache"
	"github.com/matzehuels/drainstack/pkg/drainage"
	dsio "github.com/matzehuels/drainstack/pkg/io"
	"github.com/matzehuels/drainstack/pkg/observability"
	"github.com/matzehuels/drainstack/pkg/render/nodelink"
)

// KeyVersion scopes cache keys to the current result encoding.
const KeyVersion = "v1:"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLResult and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer scoped by KeyVersion is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), KeyVersion)
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

// Load reads a network file.
func (r *Runner) Load(ctx context.Context, path string) (*drainage.Network, error) {
	start := time.Now()
	nw, err := dsio.ImportNetwork(path)
	nodes := 0
	if nw != nil {
		nodes = nw.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, path, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded network", "path", path, "nodes", nodes, "duration", time.Since(start))
	return nw, nil
}

// Order computes the stack order of nw, serving it from the cache when
// possible.
func (r *Runner) Order(ctx context.Context, nw *drainage.Network, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	nw = opts.apply(nw)
	roots := nw.ResolvedRoots()
	result := &Result{
		Network:     nw,
		NetworkHash: cache.HashInts(nw.Receivers),
		Stats:       Stats{Nodes: nw.Len(), Roots: len(roots)},
	}
	cacheKey := r.Keyer.OrderKey(result.NetworkHash, opts.OrderKeyOpts(roots))

	if !opts.Refresh {
		if out, ok := r.cachedOrder(ctx, cacheKey); ok {
			result.Order = out
			result.CacheInfo.OrderHit = true
			r.Logger.Debug("order cache hit", "nodes", nw.Len(), "key", cacheKey)
			return result, nil
		}
	}

	observability.Pipeline().OnOrderStart(ctx, nw.Len(), len(roots))
	start := time.Now()
	res, err := drainage.Order(ctx, nw.Receivers, roots, opts.DrainageOptions())
	result.Stats.OrderTime = time.Since(start)
	observability.Pipeline().OnOrderComplete(ctx, opts.Builder, nw.Len(), result.Stats.OrderTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("computed stack order",
		"nodes", nw.Len(),
		"roots", len(roots),
		"builder", res.Builder,
		"workers", opts.Workers,
		"duration", result.Stats.OrderTime)

	if opts.Verify {
		d, err := r.verify(ctx, nw.Receivers, roots, res.Stack)
		result.Stats.VerifyTime = d
		if err != nil {
			return nil, err
		}
	}

	result.Order = dsio.FromResult(uuid.NewString(), res)
	if data, err := dsio.MarshalResult(result.Order); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLResult)); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "order", len(data))
		}
	}
	return result, nil
}

func (r *Runner) cachedOrder(ctx context.Context, key string) (*dsio.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "order")
		return nil, false
	}
	out, err := dsio.ReadResult(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "order")
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "order")
	return out, true
}

// Verify checks a stack against nw. Roots in opts override the network's.
func (r *Runner) Verify(ctx context.Context, nw *drainage.Network, stack []int, opts Options) error {
	nw = opts.apply(nw)
	_, err := r.verify(ctx, nw.Receivers, nw.ResolvedRoots(), stack)
	return err
}

func (r *Runner) verify(ctx context.Context, receivers, roots, stack []int) (time.Duration, error) {
	start := time.Now()
	err := drainage.Verify(receivers, roots, stack)
	d := time.Since(start)
	observability.Pipeline().OnVerifyComplete(ctx, len(receivers), d, err)
	if err != nil {
		r.Logger.Debug("verify failed", "nodes", len(receivers), "error", err)
		return d, err
	}
	r.Logger.Debug("verified stack", "nodes", len(receivers), "duration", d)
	return d, nil
}

// Render draws nw as a node-link diagram. The returned bool reports a cache
// hit.
func (r *Runner) Render(ctx context.Context, nw *drainage.Network, opts Options, ropts RenderOptions) ([]byte, bool, error) {
	if err := ropts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	nw = opts.apply(nw)
	roots := nw.ResolvedRoots()
	cacheKey := r.Keyer.ArtifactKey(cache.HashInts(nw.Receivers), cache.ArtifactKeyOpts{
		Format:   ropts.Format,
		Roots:    roots,
		Detailed: ropts.Detailed,
		Clusters: ropts.Clusters,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	data, err := r.render(ctx, nw, opts, ropts)
	observability.Pipeline().OnRenderComplete(ctx, ropts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("rendered network", "format", ropts.Format, "bytes", len(data), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (r *Runner) render(ctx context.Context, nw *drainage.Network, opts Options, ropts RenderOptions) ([]byte, error) {
	var res *drainage.Result
	if ropts.Detailed || ropts.Clusters {
		limit := ropts.MaxNodes
		if limit <= 0 {
			limit = nodelink.DefaultMaxNodes
		}
		if nw.Len() <= limit {
			var err error
			res, err = drainage.Order(ctx, nw.Receivers, nw.ResolvedRoots(), opts.DrainageOptions())
			if err != nil {
				return nil, err
			}
		}
	}

	dot, err := nodelink.ToDOT(nw, res, nodelink.Options{
		Detailed: ropts.Detailed,
		Clusters: ropts.Clusters,
		MaxNodes: ropts.MaxNodes,
	})
	if err != nil {
		return nil, err
	}
	if ropts.Format == FormatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return svg, nil
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
