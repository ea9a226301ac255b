// Package drainage computes stack orders for single-flow-direction drainage
// networks.
//
// # Overview
//
// A drainage network over a mesh of N nodes is described by a receiver array:
// receivers[i] is the single node immediately downstream of node i. Outlets
// (base-level nodes) drain out of the domain and are their own receivers.
// Excluding those self-loops, the receiver relation forms a forest.
//
// The stack order is a permutation S of [0,N) with two properties:
//
//  1. Every node appears after its receiver.
//  2. The nodes upstream of any node n, together with n, occupy one contiguous
//     block of S starting at n's own position.
//
// Visiting S front to back therefore processes every receiver before its
// donors; visiting it back to front processes every donor before its receiver,
// which is what a downstream accumulation pass needs.
//
// # Building Blocks
//
// [BuildDonors] inverts the receiver array into a compact, grouped-by-receiver
// donor list using a counting sort. Donors of each receiver are stored in
// ascending node-id order. This ordering is the tie-break both traversals rely
// on, and is part of the contract.
//
// Two traversals turn the donor list into a stack:
//
//   - [Donors.StackRecursive]: depth-first preorder by recursion, bounded by a
//     configurable maximum depth.
//   - [Donors.StackIterative]: the same preorder with an explicit walk that
//     ascends into the first unvisited donor or descends to the receiver. Its
//     call depth is constant regardless of flow-path length.
//
// Both produce identical output for the same input.
//
// # Driver
//
// [Order] validates the input, builds the donor list once, resolves every
// node to the base-level root it drains to ([ResolveBasins]), and traverses
// each root in caller order. Each root's subtree lands in its own contiguous
// block of the stack. With [Options.Workers] greater than one, roots are
// traversed in parallel; since basins are disjoint, each worker owns its block
// of the stack and the stamps of its own basin, and the output is identical to
// the serial run.
//
//	res, err := drainage.Order(ctx, receivers, roots, drainage.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, n := range slices.Backward(res.Stack) {
//	    // every donor of n has already been visited
//	}
//
// # Errors
//
// Errors are [github.com/matzehuels/drainstack/pkg/errors.Error] values
// carrying a machine-readable code and wrapping one of the package sentinels,
// so both errors.Is(err, [ErrInvalidIndex]) and
// errors.Is(err, errors.ErrCodeInvalidIndex) style checks work.
//
// # Concurrency
//
// [Donors] is immutable after construction and safe for concurrent reads.
// [Stamps] is not synchronized; concurrent traversals must stamp disjoint
// node sets.
package drainage
