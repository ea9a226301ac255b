package drainage_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/drainage/synth"
	sterrors "github.com/matzehuels/drainstack/pkg/errors"
)

var builders = []drainage.Builder{drainage.BuilderIterative, drainage.BuilderRecursive}

func TestOrder_Canonical(t *testing.T) {
	for _, b := range builders {
		t.Run(b.String(), func(t *testing.T) {
			res, err := drainage.Order(context.Background(), canonical, []int{4}, drainage.Options{Builder: b})
			if err != nil {
				t.Fatalf("Order() error: %v", err)
			}
			if diff := cmp.Diff(canonicalStack, res.Stack); diff != "" {
				t.Errorf("stack mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(slices.Repeat([]int{4}, 10), res.Basins); diff != "" {
				t.Errorf("basins mismatch (-want +got):\n%s", diff)
			}
			if res.Builder != b {
				t.Errorf("Builder = %v, want %v", res.Builder, b)
			}
		})
	}
}

func TestOrder_SingleNode(t *testing.T) {
	for _, b := range builders {
		res, err := drainage.Order(context.Background(), []int{0}, []int{0}, drainage.Options{Builder: b})
		if err != nil {
			t.Fatalf("Order(%v) error: %v", b, err)
		}
		if diff := cmp.Diff([]int{0}, res.Stack); diff != "" {
			t.Errorf("Order(%v) stack mismatch (-want +got):\n%s", b, diff)
		}
	}
}

func TestOrder_RootOrderDefinesBlocks(t *testing.T) {
	// Basin of 0 is {0,1,2,5}, basin of 3 is {3,4}.
	receivers := []int{0, 0, 1, 3, 3, 1}

	tests := []struct {
		name  string
		roots []int
		want  []int
		block [][2]int
	}{
		{"ascending", []int{0, 3}, []int{0, 1, 2, 5, 3, 4}, [][2]int{{0, 4}, {4, 6}}},
		{"descending", []int{3, 0}, []int{3, 4, 0, 1, 2, 5}, [][2]int{{0, 2}, {2, 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := drainage.Order(context.Background(), receivers, tt.roots, drainage.Options{})
			if err != nil {
				t.Fatalf("Order() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, res.Stack); diff != "" {
				t.Errorf("stack mismatch (-want +got):\n%s", diff)
			}
			for k, want := range tt.block {
				lo, hi := res.Block(k)
				if lo != want[0] || hi != want[1] {
					t.Errorf("Block(%d) = [%d,%d), want [%d,%d)", k, lo, hi, want[0], want[1])
				}
				if res.Stack[lo] != tt.roots[k] {
					t.Errorf("block %d starts with %d, want root %d", k, res.Stack[lo], tt.roots[k])
				}
			}
		})
	}
}

func TestOrder_DesignatedRootIsNotSelfLoop(t *testing.T) {
	// Node 5 drains to 4 but is designated a root: its link is cut.
	input := slices.Clone(canonical)

	tests := []struct {
		roots []int
		want  []int
	}{
		{[]int{4, 5}, []int{4, 1, 0, 2, 7, 9, 5, 6, 3, 8}},
		{[]int{5, 4}, []int{5, 6, 3, 8, 4, 1, 0, 2, 7, 9}},
	}

	for _, tt := range tests {
		for _, b := range builders {
			res, err := drainage.Order(context.Background(), input, tt.roots, drainage.Options{Builder: b})
			if err != nil {
				t.Fatalf("Order(%v, %v) error: %v", tt.roots, b, err)
			}
			if diff := cmp.Diff(tt.want, res.Stack); diff != "" {
				t.Errorf("Order(%v, %v) stack mismatch (-want +got):\n%s", tt.roots, b, diff)
			}
			if err := drainage.Verify(input, tt.roots, res.Stack); err != nil {
				t.Errorf("Verify() error: %v", err)
			}
		}
	}
	if diff := cmp.Diff(canonical, input); diff != "" {
		t.Errorf("Order modified its input (-want +got):\n%s", diff)
	}
}

func TestOrder_Equivalence(t *testing.T) {
	networks := map[string]drainage.Network{
		"comb": synth.Comb(50, 20),
		"tree": synth.BinaryTree(4095),
		"grid": synth.Grid(64, 48, 3),
	}

	for name, nw := range networks {
		t.Run(name, func(t *testing.T) {
			var stacks [][]int
			for _, b := range builders {
				for _, workers := range []int{1, 4} {
					res, err := nw.Order(context.Background(), drainage.Options{Builder: b, Workers: workers, MaxDepth: -1})
					if err != nil {
						t.Fatalf("Order(%v, workers=%d) error: %v", b, workers, err)
					}
					stacks = append(stacks, res.Stack)
				}
			}
			for i := 1; i < len(stacks); i++ {
				if diff := cmp.Diff(stacks[0], stacks[i]); diff != "" {
					t.Errorf("run %d differs from run 0 (-want +got):\n%s", i, diff)
				}
			}
			if err := nw.Verify(stacks[0]); err != nil {
				t.Errorf("Verify() error: %v", err)
			}
		})
	}
}

func TestOrder_Deterministic(t *testing.T) {
	nw := synth.Grid(30, 30, 11)
	first, err := nw.Order(context.Background(), drainage.Options{Workers: 8})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	for range 5 {
		again, err := nw.Order(context.Background(), drainage.Options{Workers: 8})
		if err != nil {
			t.Fatalf("Order() error: %v", err)
		}
		if !slices.Equal(first.Stack, again.Stack) {
			t.Fatal("repeated Order() calls produced different stacks")
		}
	}
}

func TestOrder_BasinsMatchStamps(t *testing.T) {
	nw := synth.Grid(20, 25, 5)
	it, err := nw.Order(context.Background(), drainage.Options{Builder: drainage.BuilderIterative})
	if err != nil {
		t.Fatalf("Order(iterative) error: %v", err)
	}
	rec, err := nw.Order(context.Background(), drainage.Options{Builder: drainage.BuilderRecursive})
	if err != nil {
		t.Fatalf("Order(recursive) error: %v", err)
	}
	if diff := cmp.Diff(rec.Basins, it.Basins); diff != "" {
		t.Errorf("basins differ (-recursive +iterative):\n%s", diff)
	}
	for k, root := range it.Roots {
		lo, hi := it.Block(k)
		for _, n := range it.Stack[lo:hi] {
			if it.Basins[n] != root {
				t.Fatalf("node %d in block of root %d has basin %d", n, root, it.Basins[n])
			}
		}
	}
}

func TestOrder_LongChain(t *testing.T) {
	nw := synth.Chain(50_000)

	res, err := nw.Order(context.Background(), drainage.Options{})
	if err != nil {
		t.Fatalf("Order(iterative) error: %v", err)
	}
	if err := nw.Verify(res.Stack); err != nil {
		t.Errorf("Verify() error: %v", err)
	}

	_, err = nw.Order(context.Background(), drainage.Options{Builder: drainage.BuilderRecursive})
	if !sterrors.Is(err, sterrors.ErrCodeDepthExceeded) {
		t.Errorf("Order(recursive) error = %v, want %s", err, sterrors.ErrCodeDepthExceeded)
	}
}

func TestOrder_Errors(t *testing.T) {
	tests := []struct {
		name      string
		receivers []int
		roots     []int
		sentinel  error
		code      sterrors.Code
	}{
		{"empty network", nil, []int{0}, drainage.ErrInvalidInput, sterrors.ErrCodeInvalidInput},
		{"no roots", []int{0}, nil, drainage.ErrInvalidInput, sterrors.ErrCodeInvalidInput},
		{"root out of range", []int{0, 0}, []int{2}, drainage.ErrInvalidIndex, sterrors.ErrCodeInvalidIndex},
		{"receiver out of range", []int{0, 5, 0}, []int{0}, drainage.ErrInvalidIndex, sterrors.ErrCodeInvalidIndex},
		{"negative receiver", []int{0, -1}, []int{0}, drainage.ErrInvalidIndex, sterrors.ErrCodeInvalidIndex},
		{"duplicate root", []int{0, 0}, []int{0, 0}, drainage.ErrInvalidInput, sterrors.ErrCodeInvalidInput},
		{"uncovered outlet", []int{0, 1, 1}, []int{0}, drainage.ErrInvalidInput, sterrors.ErrCodeInvalidInput},
		{"cycle", []int{0, 2, 3, 1}, []int{0}, drainage.ErrMalformedTopology, sterrors.ErrCodeMalformedTopology},
		{"two-cycle", []int{0, 2, 1}, []int{0}, drainage.ErrMalformedTopology, sterrors.ErrCodeMalformedTopology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, b := range builders {
				res, err := drainage.Order(context.Background(), tt.receivers, tt.roots, drainage.Options{Builder: b})
				if res != nil {
					t.Errorf("Order(%v) returned a partial result", b)
				}
				if !errors.Is(err, tt.sentinel) {
					t.Errorf("Order(%v) error = %v, want %v", b, err, tt.sentinel)
				}
				if got := sterrors.GetCode(err); got != tt.code {
					t.Errorf("Order(%v) code = %v, want %v", b, got, tt.code)
				}
			}
		})
	}
}

func TestOrder_RootOnCycle(t *testing.T) {
	// 0 and 1 drain to each other; designating 0 a root cuts the cycle.
	for _, b := range builders {
		res, err := drainage.Order(context.Background(), []int{1, 0}, []int{0}, drainage.Options{Builder: b})
		if err != nil {
			t.Fatalf("Order(%v) error: %v", b, err)
		}
		if diff := cmp.Diff([]int{0, 1}, res.Stack); diff != "" {
			t.Errorf("Order(%v) stack mismatch (-want +got):\n%s", b, diff)
		}
	}
}

func TestOrder_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nw := synth.Grid(10, 10, 1)
	for _, workers := range []int{1, 4} {
		_, err := nw.Order(ctx, drainage.Options{Workers: workers})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Order(workers=%d) error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestParseBuilder(t *testing.T) {
	tests := []struct {
		in      string
		want    drainage.Builder
		wantErr bool
	}{
		{"", drainage.BuilderIterative, false},
		{"iterative", drainage.BuilderIterative, false},
		{"recursive", drainage.BuilderRecursive, false},
		{"bfs", 0, true},
	}

	for _, tt := range tests {
		got, err := drainage.ParseBuilder(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBuilder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBuilder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuilderText(t *testing.T) {
	var b drainage.Builder
	if err := b.UnmarshalText([]byte("recursive")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	text, err := b.MarshalText()
	if err != nil || string(text) != "recursive" {
		t.Errorf("MarshalText() = %q, %v, want recursive", text, err)
	}
	if got := drainage.Builder(7).String(); got != "Builder(7)" {
		t.Errorf("String() = %q, want Builder(7)", got)
	}
}

func BenchmarkOrder(b *testing.B) {
	nw := synth.Grid(500, 500, 42)
	for _, workers := range []int{1, 4} {
		b.Run(map[int]string{1: "serial", 4: "parallel"}[workers], func(b *testing.B) {
			for range b.N {
				if _, err := nw.Order(context.Background(), drainage.Options{Workers: workers}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
