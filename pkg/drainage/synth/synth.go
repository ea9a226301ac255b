// Package synth generates synthetic drainage networks for tests, benchmarks
// and the generate command.
//
// All generators return well-formed forests: every node drains to one of the
// returned roots, and roots are self-loops.
package synth

import (
	"container/heap"
	"math/rand/v2"

	"github.com/matzehuels/drainstack/pkg/drainage"
)

// Chain returns a single flow path of n nodes: node i drains to i-1 and node 0
// is the outlet. The flow path is n nodes long, the worst case for recursion.
func Chain(n int) drainage.Network {
	r := make([]int, n)
	for i := 1; i < n; i++ {
		r[i] = i - 1
	}
	return drainage.Network{Receivers: r, Roots: []int{0}}
}

// Comb returns a spine of the given length draining to node 0, with a tooth of
// the given length hanging off every spine node.
func Comb(spine, tooth int) drainage.Network {
	n := spine * (tooth + 1)
	r := make([]int, n)
	for s := 1; s < spine; s++ {
		r[s] = s - 1
	}
	next := spine
	for s := range spine {
		prev := s
		for range tooth {
			r[next] = prev
			prev = next
			next++
		}
	}
	return drainage.Network{Receivers: r, Roots: []int{0}}
}

// BinaryTree returns a complete binary tree of n nodes in heap layout: node i
// drains to (i-1)/2, node 0 is the outlet.
func BinaryTree(n int) drainage.Network {
	r := make([]int, n)
	for i := 1; i < n; i++ {
		r[i] = (i - 1) / 2
	}
	return drainage.Network{Receivers: r, Roots: []int{0}}
}

// Grid returns a D8-style network on a rows×cols raster with row-major ids.
//
// A random tilted surface is generated from seed, depressions are filled by
// priority flood from the border, and each interior cell drains to the
// neighbour the flood reached it from. Border cells are the outlets, listed in
// ascending id order. The same seed always produces the same network.
func Grid(rows, cols int, seed uint64) drainage.Network {
	n := rows * cols
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	elev := make([]float64, n)
	for i := range elev {
		row, col := i/cols, i%cols
		elev[i] = 0.01*float64(row+col) + rng.Float64()
	}

	r := make([]int, n)
	done := make([]bool, n)
	var roots []int
	q := &floodQueue{}
	for i := range n {
		row, col := i/cols, i%cols
		if row == 0 || col == 0 || row == rows-1 || col == cols-1 {
			r[i] = i
			done[i] = true
			roots = append(roots, i)
			heap.Push(q, cell{id: i, z: elev[i]})
		}
	}

	for q.Len() > 0 {
		c := heap.Pop(q).(cell)
		row, col := c.id/cols, c.id%cols
		for _, d := range neighbours {
			nr, nc := row+d[0], col+d[1]
			if nr < 0 || nc < 0 || nr >= rows || nc >= cols {
				continue
			}
			nb := nr*cols + nc
			if done[nb] {
				continue
			}
			done[nb] = true
			r[nb] = c.id
			heap.Push(q, cell{id: nb, z: max(elev[nb], c.z)})
		}
	}

	return drainage.Network{Receivers: r, Roots: roots}
}

var neighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

type cell struct {
	id int
	z  float64
}

// floodQueue is a min-heap on elevation, ties broken by id for determinism.
type floodQueue []cell

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].z != q[j].z {
		return q[i].z < q[j].z
	}
	return q[i].id < q[j].id
}
func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *floodQueue) Push(x any)   { *q = append(*q, x.(cell)) }
func (q *floodQueue) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}
