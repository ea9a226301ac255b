package drainage

// StackIterative writes the same preorder as [Donors.StackRecursive] using a
// fixed number of state variables instead of recursion.
//
// The walk starts at root. At each node it scans the donor segment in
// ascending order for the first donor not yet stamped with root. If there is
// one it ascends: the donor is stamped, written at stack[inc], and becomes the
// current node. Otherwise the subtree of the current node is complete and the
// walk descends to its receiver, writing nothing. The walk ends when the root
// itself has no unvisited donor left.
//
// Donor segments are rescanned every time the walk backtracks through a node,
// so the constant factor is larger than the recursive variant's, but the call
// depth is constant whatever the flow-path length.
//
// receivers must be the array the donors were built from, and stamps must have
// one cell per node. Cells of the visited subtree end up holding root. Writing
// past the end of stack fails with [ErrMalformedTopology]; this happens when
// the subtree overlaps nodes already stamped by another root.
func (d *Donors) StackIterative(root int, receivers []int, stack []int, inc int, stamps *Stamps) (int, error) {
	n := d.Len()
	if err := checkIndex("root", root, n); err != nil {
		return inc, err
	}
	if len(receivers) != n || stamps.Len() != n {
		return inc, invalidInput("donors cover %d nodes, receivers %d, stamps %d", n, len(receivers), stamps.Len())
	}
	if inc >= len(stack) {
		return inc, malformed("root %d: no room in a %d-slot block", root, len(stack))
	}

	stamps.Stamp(root, root)
	stack[inc] = root
	inc++

	node := root
	for {
		next := -1
		for _, m := range d.Of(node) {
			if !stamps.Is(m, root) {
				next = m
				break
			}
		}

		if next >= 0 {
			if inc >= len(stack) {
				return inc, malformed("root %d: subtree larger than its %d-slot block at node %d", root, len(stack), next)
			}
			stamps.Stamp(next, root)
			stack[inc] = next
			inc++
			node = next
			continue
		}

		if node == root {
			return inc, nil
		}
		node = receivers[node]
	}
}
