package drainage

import "context"

// Network is a receiver array together with its traversal roots.
type Network struct {
	Receivers []int `json:"receivers" toml:"receivers"`
	Roots     []int `json:"roots,omitempty" toml:"roots,omitempty"`
}

// Len returns the number of nodes.
func (n *Network) Len() int { return len(n.Receivers) }

// ResolvedRoots returns Roots, or the network's self-loops in ascending order
// when no roots were given.
func (n *Network) ResolvedRoots() []int {
	if len(n.Roots) > 0 {
		return n.Roots
	}
	return BaseLevels(n.Receivers)
}

// Order computes the stack order of the network. See [Order].
func (n *Network) Order(ctx context.Context, opts Options) (*Result, error) {
	return Order(ctx, n.Receivers, n.ResolvedRoots(), opts)
}

// Verify checks a stack against the network. See [Verify].
func (n *Network) Verify(stack []int) error {
	return Verify(n.Receivers, n.ResolvedRoots(), stack)
}
