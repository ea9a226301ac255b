package synth

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/drainstack/pkg/drainage"
)

func TestGenerators(t *testing.T) {
	tests := []struct {
		name      string
		nw        drainage.Network
		wantNodes int
		wantRoots int
	}{
		{"chain", Chain(100), 100, 1},
		{"comb", Comb(10, 4), 50, 1},
		{"tree", BinaryTree(127), 127, 1},
		{"grid", Grid(12, 15, 1), 180, 2*12 + 2*15 - 4},
		{"grid single row", Grid(1, 8, 1), 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.nw.Len() != tt.wantNodes {
				t.Errorf("Len() = %d, want %d", tt.nw.Len(), tt.wantNodes)
			}
			if len(tt.nw.Roots) != tt.wantRoots {
				t.Errorf("len(Roots) = %d, want %d", len(tt.nw.Roots), tt.wantRoots)
			}
			if !slices.IsSorted(tt.nw.Roots) {
				t.Errorf("Roots not ascending: %v", tt.nw.Roots)
			}
			for _, b := range tt.nw.Roots {
				if tt.nw.Receivers[b] != b {
					t.Errorf("root %d is not a self-loop", b)
				}
			}
			if _, err := drainage.ResolveBasins(tt.nw.Receivers, tt.nw.Roots); err != nil {
				t.Errorf("ResolveBasins() error: %v", err)
			}
		})
	}
}

func TestComb_Layout(t *testing.T) {
	nw := Comb(3, 2)
	// Spine 0<-1<-2, teeth 3,4 on 0; 5,6 on 1; 7,8 on 2.
	want := []int{0, 0, 1, 0, 3, 1, 5, 2, 7}
	if !slices.Equal(want, nw.Receivers) {
		t.Errorf("Receivers = %v, want %v", nw.Receivers, want)
	}
}

func TestGrid_Deterministic(t *testing.T) {
	a := Grid(25, 25, 9)
	b := Grid(25, 25, 9)
	if !slices.Equal(a.Receivers, b.Receivers) {
		t.Error("Grid() with the same seed produced different networks")
	}
	c := Grid(25, 25, 10)
	if slices.Equal(a.Receivers, c.Receivers) {
		t.Error("Grid() with different seeds produced identical networks")
	}
}

func TestGrid_D8Neighbours(t *testing.T) {
	const rows, cols = 20, 30
	nw := Grid(rows, cols, 4)
	for i, r := range nw.Receivers {
		dr := i/cols - r/cols
		dc := i%cols - r%cols
		if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
			t.Fatalf("node %d drains to non-neighbour %d", i, r)
		}
	}
}

func TestGenerators_Order(t *testing.T) {
	nw := Grid(40, 40, 2)
	res, err := nw.Order(context.Background(), drainage.Options{})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if err := nw.Verify(res.Stack); err != nil {
		t.Errorf("Verify() error: %v", err)
	}
}
