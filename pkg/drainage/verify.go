package drainage

// Verify checks that stack is a valid stack order for receivers with the given
// base-level roots:
//
//   - stack is a permutation of [0,N);
//   - every node other than a root or self-loop appears after its receiver;
//   - every node and all nodes upstream of it form one contiguous block that
//     starts at the node's own position.
//
// Nodes listed in roots are treated as outlets even when they are not their
// own receivers, matching [Order]. Verify runs in O(N) and returns an
// [ErrInvalidStack] error describing the first violation found.
func Verify(receivers, roots, stack []int) error {
	n := len(receivers)
	if len(stack) != n {
		return invalidStack("stack has %d entries, network has %d nodes", len(stack), n)
	}

	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	for p, v := range stack {
		if err := checkIndex("stack entry", v, n); err != nil {
			return err
		}
		if pos[v] >= 0 {
			return invalidStack("node %d appears at positions %d and %d", v, pos[v], p)
		}
		pos[v] = p
	}

	outlet := make([]bool, n)
	for _, b := range roots {
		if err := checkIndex("root", b, n); err != nil {
			return err
		}
		outlet[b] = true
	}
	for i, r := range receivers {
		if err := checkIndex("receiver", r, n); err != nil {
			return err
		}
		if r == i {
			outlet[i] = true
		}
	}

	for i, r := range receivers {
		if outlet[i] {
			continue
		}
		if pos[r] > pos[i] {
			return invalidStack("node %d at position %d precedes its receiver %d at position %d", i, pos[i], r, pos[r])
		}
	}

	// Receivers precede donors, so a backward sweep sees every donor before
	// its receiver.
	size := make([]int, n)
	for p := n - 1; p >= 0; p-- {
		v := stack[p]
		size[v]++
		if !outlet[v] {
			size[receivers[v]] += size[v]
		}
	}

	// A node's block nested in its receiver's block, for every node, makes
	// every block hold exactly the node's subtree.
	for i, r := range receivers {
		if outlet[i] {
			continue
		}
		if pos[i]+size[i] > pos[r]+size[r] {
			return invalidStack("subtree of node %d at [%d,%d) leaves the block of its receiver %d at [%d,%d)",
				i, pos[i], pos[i]+size[i], r, pos[r], pos[r]+size[r])
		}
	}

	return nil
}
