package drainage

// StackRecursive writes the depth-first preorder of the subtree rooted at root
// into stack starting at position inc and returns the next free position.
//
// Each node is written before its donors, and donors are visited in ascending
// id order, each donor's whole subtree before the next sibling's. The root's
// self-loop is skipped.
//
// Recursion depth equals the longest flow path into root. A positive maxDepth
// bounds it: longer paths fail fast with [ErrDepthExceeded]. A maxDepth <= 0
// leaves the depth unbounded, limited only by the goroutine stack. Writing
// past the end of stack fails with [ErrMalformedTopology]. On error the
// written region is unspecified.
//
// Use [Donors.StackIterative] for networks whose flow paths may be arbitrarily
// long.
func (d *Donors) StackRecursive(root int, stack []int, inc, maxDepth int) (int, error) {
	if err := checkIndex("root", root, d.Len()); err != nil {
		return inc, err
	}
	return d.stackRecursive(root, root, stack, inc, 1, maxDepth)
}

func (d *Donors) stackRecursive(root, n int, stack []int, inc, depth, maxDepth int) (int, error) {
	if maxDepth > 0 && depth > maxDepth {
		return inc, depthExceeded("root %d: flow path deeper than %d at node %d", root, maxDepth, n)
	}
	if inc >= len(stack) {
		return inc, malformed("root %d: subtree larger than its %d-slot block at node %d", root, len(stack), n)
	}
	stack[inc] = n
	inc++

	var err error
	for _, m := range d.Of(n) {
		if m == n || m == root {
			continue
		}
		if inc, err = d.stackRecursive(root, m, stack, inc, depth+1, maxDepth); err != nil {
			return inc, err
		}
	}
	return inc, nil
}
