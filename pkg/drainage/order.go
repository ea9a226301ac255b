package drainage

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	sterrors "github.com/matzehuels/drainstack/pkg/errors"
)

// Builder selects the traversal used to build each root's block.
type Builder int

const (
	// BuilderIterative uses [Donors.StackIterative]. It is the default.
	BuilderIterative Builder = iota
	// BuilderRecursive uses [Donors.StackRecursive], bounded by Options.MaxDepth.
	BuilderRecursive
)

// DefaultMaxDepth bounds the recursive builder when Options.MaxDepth is zero.
const DefaultMaxDepth = 10_000

var builderNames = map[Builder]string{
	BuilderIterative: "iterative",
	BuilderRecursive: "recursive",
}

// String returns the builder name.
func (b Builder) String() string {
	if s, ok := builderNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Builder(%d)", int(b))
}

// ParseBuilder converts "iterative" or "recursive" into a Builder.
// The empty string selects [BuilderIterative].
func ParseBuilder(s string) (Builder, error) {
	switch s {
	case "", "iterative":
		return BuilderIterative, nil
	case "recursive":
		return BuilderRecursive, nil
	}
	return 0, sterrors.New(sterrors.ErrCodeInvalidInput, "invalid builder: %q (must be one of: iterative, recursive)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Builder) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Builder) UnmarshalText(text []byte) error {
	v, err := ParseBuilder(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Options configures [Order].
type Options struct {
	// Builder selects the traversal. Defaults to BuilderIterative.
	Builder Builder
	// MaxDepth bounds the recursive builder. Zero means DefaultMaxDepth,
	// negative means unbounded. Ignored by the iterative builder.
	MaxDepth int
	// Workers is the number of roots traversed concurrently. Values <= 1
	// traverse roots one after another.
	Workers int
	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result is the output of [Order].
type Result struct {
	// Stack is the stack order: a permutation of [0,N).
	Stack []int
	// Basins maps every node to the root of its subtree. With the iterative
	// builder this is the final stamp array.
	Basins []int
	// Roots are the traversal roots in the order their blocks appear in Stack.
	Roots []int
	// Offsets has len(Roots)+1 entries; the block of Roots[k] is
	// Stack[Offsets[k]:Offsets[k+1]].
	Offsets []int
	// Builder is the traversal that produced Stack.
	Builder Builder
	// Duration is the wall time spent in Order.
	Duration time.Duration
}

// Block returns the half-open range of Stack occupied by the k-th root's
// subtree.
func (r *Result) Block(k int) (lo, hi int) { return r.Offsets[k], r.Offsets[k+1] }

// Order computes the stack order of a drainage network.
//
// receivers[i] is the receiver of node i. roots lists the base-level nodes to
// traverse, in the order their blocks should appear in the stack; the list is
// authoritative. A root need not be its own receiver: its link downstream is
// cut for the purposes of this ordering. Every node must drain to exactly one
// listed root.
//
// Order builds the donor list once, resolves basins (validating the forest
// precondition), then traverses each root with the selected builder. The
// caller's slices are never modified.
//
// ctx is checked between roots. On any error the result is nil; there are no
// partial results.
func Order(ctx context.Context, receivers, roots []int, opts Options) (*Result, error) {
	opts.SetDefaults()
	start := time.Now()
	logger := opts.Logger

	n := len(receivers)
	if n == 0 {
		return nil, invalidInput("network has no nodes")
	}
	if len(roots) == 0 {
		return nil, invalidInput("no base-level roots given")
	}
	for _, b := range roots {
		if err := checkIndex("root", b, n); err != nil {
			return nil, err
		}
	}

	eff := effectiveReceivers(receivers, roots)

	donors, err := BuildDonors(eff)
	if err != nil {
		return nil, err
	}
	basins, err := ResolveBasins(eff, roots)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved basins", "nodes", n, "roots", len(roots))

	offsets := make([]int, len(roots)+1)
	for k, b := range roots {
		offsets[k+1] = offsets[k] + basins.Size(b)
	}

	stack := make([]int, n)
	var stamps *Stamps
	if opts.Builder == BuilderIterative {
		stamps = NewStamps(n)
	}

	traverse := func(k int) error {
		b := roots[k]
		block := stack[offsets[k]:offsets[k+1]]

		var end int
		var err error
		switch opts.Builder {
		case BuilderIterative:
			end, err = donors.StackIterative(b, eff, block, 0, stamps)
		case BuilderRecursive:
			end, err = donors.StackRecursive(b, block, 0, opts.MaxDepth)
		default:
			return invalidInput("unknown builder %s", opts.Builder)
		}
		if err != nil {
			return err
		}
		if end != len(block) {
			return malformed("root %d: traversal emitted %d of %d basin nodes", b, end, len(block))
		}
		return nil
	}

	if opts.Workers > 1 && len(roots) > 1 {
		err = traverseParallel(ctx, len(roots), opts.Workers, traverse)
	} else {
		err = traverseSerial(ctx, len(roots), traverse)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Stack:    stack,
		Basins:   basins.Of,
		Roots:    slices.Clone(roots),
		Offsets:  offsets,
		Builder:  opts.Builder,
		Duration: time.Since(start),
	}
	if stamps != nil {
		res.Basins = stamps.Values()
	}

	logger.Debug("built stack",
		"builder", opts.Builder,
		"nodes", n,
		"roots", len(roots),
		"workers", opts.Workers,
		"duration", res.Duration)
	return res, nil
}

func traverseSerial(ctx context.Context, count int, fn func(int) error) error {
	for k := range count {
		if err := ctx.Err(); err != nil {
			return canceled(err)
		}
		if err := fn(k); err != nil {
			return err
		}
	}
	return nil
}

func traverseParallel(ctx context.Context, count, workers int, fn func(int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for k := range count {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return canceled(err)
			}
			return fn(k)
		})
	}
	return g.Wait()
}

func canceled(err error) error {
	return sterrors.Wrap(sterrors.ErrCodeCanceled, err, "ordering interrupted")
}

// effectiveReceivers returns receivers with every root turned into a
// self-loop. The input is returned as is when all roots already are.
func effectiveReceivers(receivers, roots []int) []int {
	eff, copied := receivers, false
	for _, b := range roots {
		if eff[b] == b {
			continue
		}
		if !copied {
			eff, copied = slices.Clone(receivers), true
		}
		eff[b] = b
	}
	return eff
}
