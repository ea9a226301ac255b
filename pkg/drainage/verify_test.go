package drainage

import (
	"errors"
	"testing"

	sterrors "github.com/matzehuels/drainstack/pkg/errors"
)

func TestVerify_Valid(t *testing.T) {
	stack := []int{4, 1, 0, 2, 5, 6, 3, 8, 7, 9}
	if err := Verify(canonical, []int{4}, stack); err != nil {
		t.Errorf("Verify() error: %v", err)
	}
	// Sibling order is free as long as subtrees stay contiguous.
	other := []int{4, 7, 9, 5, 6, 8, 3, 1, 2, 0}
	if err := Verify(canonical, []int{4}, other); err != nil {
		t.Errorf("Verify() with reordered siblings error: %v", err)
	}
}

func TestVerify_Violations(t *testing.T) {
	tests := []struct {
		name  string
		stack []int
		want  error
	}{
		{"too short", []int{4, 1, 0}, ErrInvalidStack},
		{"duplicate", []int{4, 1, 0, 2, 5, 6, 3, 8, 7, 7}, ErrInvalidStack},
		{"out of range", []int{4, 1, 0, 2, 5, 6, 3, 8, 7, 10}, ErrInvalidIndex},
		{"donor before receiver", []int{1, 4, 0, 2, 5, 6, 3, 8, 7, 9}, ErrInvalidStack},
		{"subtree split", []int{4, 1, 0, 5, 2, 6, 3, 8, 7, 9}, ErrInvalidStack},
		{"subtree split deep", []int{4, 5, 6, 3, 1, 0, 2, 8, 7, 9}, ErrInvalidStack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(canonical, []int{4}, tt.stack)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVerify_Code(t *testing.T) {
	err := Verify(canonical, []int{4}, []int{1, 4, 0, 2, 5, 6, 3, 8, 7, 9})
	if !sterrors.Is(err, sterrors.ErrCodeInvalidStack) {
		t.Errorf("code = %v, want %v", sterrors.GetCode(err), sterrors.ErrCodeInvalidStack)
	}
}

func TestVerify_Cycle(t *testing.T) {
	// 1 and 2 drain to each other; no order can satisfy both.
	if err := Verify([]int{0, 2, 1}, []int{0}, []int{0, 1, 2}); !errors.Is(err, ErrInvalidStack) {
		t.Errorf("Verify() error = %v, want ErrInvalidStack", err)
	}
}
