package drainage

// Basins assigns every node to the base-level root it drains to.
type Basins struct {
	// Of maps each node to its root.
	Of []int

	size []int
}

// Size returns the number of nodes draining to root, root included.
// It returns 0 for nodes that are not roots.
func (b *Basins) Size(root int) int { return b.size[root] }

const inProgress = -2

// ResolveBasins follows every node's receiver chain down to a root and
// records which root it reaches. Roots are terminal whether or not they are
// self-loops.
//
// Each node is walked at most twice, so the cost is O(N) and no recursion is
// involved. The walk doubles as the forest check the traversals rely on:
//
//   - a receiver outside [0,N) fails with [ErrInvalidIndex];
//   - a root outside [0,N) or listed twice fails with [ErrInvalidIndex] or
//     [ErrInvalidInput];
//   - a chain that reaches a self-loop not listed among roots fails with
//     [ErrInvalidInput] (an uncovered outlet);
//   - a chain that loops back on itself fails with [ErrMalformedTopology].
func ResolveBasins(receivers, roots []int) (*Basins, error) {
	n := len(receivers)
	of := make([]int, n)
	for i := range of {
		of[i] = NoStamp
	}
	for _, b := range roots {
		if err := checkIndex("root", b, n); err != nil {
			return nil, err
		}
		if of[b] != NoStamp {
			return nil, invalidInput("root %d listed more than once", b)
		}
		of[b] = b
	}

	for i := range n {
		if of[i] != NoStamp {
			continue
		}

		j := i
		for of[j] == NoStamp {
			r := receivers[j]
			if r < 0 || r >= n {
				return nil, invalidIndex("node %d: receiver %d not in [0,%d)", j, r, n)
			}
			if r == j {
				return nil, invalidInput("node %d drains to base-level node %d, which is not a root", i, j)
			}
			of[j] = inProgress
			j = r
		}
		if of[j] == inProgress {
			return nil, malformed("cycle through node %d does not reach a base-level node", j)
		}

		root := of[j]
		for k := i; of[k] == inProgress; k = receivers[k] {
			of[k] = root
		}
	}

	size := make([]int, n)
	for _, root := range of {
		size[root]++
	}
	return &Basins{Of: of, size: size}, nil
}

// BaseLevels returns the nodes that are their own receivers, in ascending
// order. Receivers outside [0,N) are ignored.
func BaseLevels(receivers []int) []int {
	var roots []int
	for i, r := range receivers {
		if r == i {
			roots = append(roots, i)
		}
	}
	return roots
}
