// Package pipeline runs the load → order → verify → render flow shared by
// the CLI and the HTTP API.
//
// A [Runner] owns a cache and a logger. Stack orders are cached by a content
// hash of the receiver array plus the options that change the output, so
// repeated runs over the same network are served from the cache. Worker
// count is not part of the key: parallel and serial runs produce the same
// stack.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	nw, err := runner.Load(ctx, "mesh.json")
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Order(ctx, nw, pipeline.Options{Workers: 4})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Order.Stack)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainstack/pkg/cache"
	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
	dsio "github.com/matzehuels/drainstack/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWorkers is the number of roots traversed concurrently.
	DefaultWorkers = 1

	// MaxWorkers caps Options.Workers.
	MaxWorkers = 256

	// DefaultBuilder is the default traversal.
	DefaultBuilder = "iterative"
)

// Format constants for rendered outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateFormat checks that a render format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures an order run. It doubles as the JSON body of API
// requests.
type Options struct {
	// Roots overrides the network's roots when non-empty.
	Roots []int `json:"roots,omitempty"`
	// Builder is "iterative" (default) or "recursive".
	Builder string `json:"builder,omitempty"`
	// MaxDepth bounds the recursive builder; see drainage.Options.
	MaxDepth int `json:"max_depth,omitempty"`
	// Workers is the number of roots traversed concurrently.
	Workers int `json:"workers,omitempty"`
	// Verify checks the computed stack before returning it.
	Verify bool `json:"verify,omitempty"`
	// Refresh skips the cache lookup and overwrites the entry.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	builder   drainage.Builder
	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Builder == "" {
		o.Builder = DefaultBuilder
	}
	b, err := drainage.ParseBuilder(o.Builder)
	if err != nil {
		return err
	}
	o.builder = b

	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers < 0 || o.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be between 1 and %d, got %d", MaxWorkers, o.Workers)
	}
	if o.MaxDepth == 0 && b == drainage.BuilderRecursive {
		o.MaxDepth = drainage.DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DrainageOptions converts validated options for [drainage.Order].
func (o *Options) DrainageOptions() drainage.Options {
	return drainage.Options{
		Builder:  o.builder,
		MaxDepth: o.MaxDepth,
		Workers:  o.Workers,
		Logger:   o.Logger,
	}
}

// OrderKeyOpts returns the cache key options for roots. MaxDepth only
// matters to the recursive builder, so it is dropped otherwise.
func (o *Options) OrderKeyOpts(roots []int) cache.OrderKeyOpts {
	k := cache.OrderKeyOpts{Roots: roots, Builder: o.Builder}
	if o.builder == drainage.BuilderRecursive {
		k.MaxDepth = o.MaxDepth
	}
	return k
}

// apply returns nw with the roots override applied. nw is not modified.
func (o *Options) apply(nw *drainage.Network) *drainage.Network {
	if len(o.Roots) == 0 {
		return nw
	}
	return &drainage.Network{Receivers: nw.Receivers, Roots: o.Roots}
}

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	Clusters bool   `json:"clusters,omitempty"`
	MaxNodes int    `json:"max_nodes,omitempty"`
}

// ValidateAndSetDefaults checks the format, defaulting to SVG.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	return ValidateFormat(o.Format)
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of an order run.
type Result struct {
	// Network is the network that was ordered, with any roots override
	// applied.
	Network *drainage.Network

	// NetworkHash is the content hash of the receiver array.
	NetworkHash string

	// Order is the serialized stack order. On a cache hit its ID is the id
	// of the run that produced it.
	Order *dsio.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the order came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes      int
	Roots      int
	OrderTime  time.Duration
	VerifyTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	OrderHit bool
}

