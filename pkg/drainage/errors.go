package drainage

import (
	"errors"

	sterrors "github.com/matzehuels/drainstack/pkg/errors"
)

var (
	// ErrInvalidIndex is returned when a receiver or root id falls outside [0,N).
	ErrInvalidIndex = errors.New("node index out of range")

	// ErrMalformedTopology is returned when the receiver relation is not a
	// forest rooted at the base-level nodes, e.g. when it contains a cycle
	// among non-root nodes, or when traversals of different roots overlap.
	ErrMalformedTopology = errors.New("malformed drainage topology")

	// ErrDepthExceeded is returned by the recursive builder when a flow path is
	// longer than the configured maximum depth.
	ErrDepthExceeded = errors.New("maximum traversal depth exceeded")

	// ErrInvalidStack is returned by [Verify] when a stack violates an ordering
	// property.
	ErrInvalidStack = errors.New("invalid stack order")

	// ErrInvalidInput is returned for structurally invalid arguments: empty
	// networks, missing or duplicate roots, nodes draining to an outlet that is
	// not among the roots.
	ErrInvalidInput = errors.New("invalid input")
)

func invalidIndex(format string, args ...any) error {
	return sterrors.Wrap(sterrors.ErrCodeInvalidIndex, ErrInvalidIndex, format, args...)
}

func malformed(format string, args ...any) error {
	return sterrors.Wrap(sterrors.ErrCodeMalformedTopology, ErrMalformedTopology, format, args...)
}

func depthExceeded(format string, args ...any) error {
	return sterrors.Wrap(sterrors.ErrCodeDepthExceeded, ErrDepthExceeded, format, args...)
}

func invalidStack(format string, args ...any) error {
	return sterrors.Wrap(sterrors.ErrCodeInvalidStack, ErrInvalidStack, format, args...)
}

func invalidInput(format string, args ...any) error {
	return sterrors.Wrap(sterrors.ErrCodeInvalidInput, ErrInvalidInput, format, args...)
}

func checkIndex(what string, v, n int) error {
	if v < 0 || v >= n {
		return invalidIndex("%s %d not in [0,%d)", what, v, n)
	}
	return nil
}
