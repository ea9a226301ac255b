package pipeline

import (
	"testing"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Builder != DefaultBuilder {
		t.Errorf("Builder = %q, want %q", opts.Builder, DefaultBuilder)
	}
	if opts.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", opts.Workers, DefaultWorkers)
	}
	if opts.MaxDepth != 0 {
		t.Errorf("MaxDepth = %d, want 0 for iterative", opts.MaxDepth)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsRecursiveDefaults(t *testing.T) {
	opts := Options{Builder: "recursive"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.MaxDepth != drainage.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", opts.MaxDepth, drainage.DefaultMaxDepth)
	}
	d := opts.DrainageOptions()
	if d.Builder != drainage.BuilderRecursive {
		t.Errorf("DrainageOptions().Builder = %v, want recursive", d.Builder)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown builder", Options{Builder: "bfs"}},
		{"negative workers", Options{Workers: -1}},
		{"too many workers", Options{Workers: MaxWorkers + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Workers: 4}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Builder != first.Builder || opts.Workers != first.Workers || opts.MaxDepth != first.MaxDepth {
		t.Errorf("second call changed options: %+v -> %+v", first, opts)
	}
}

func TestOrderKeyOpts(t *testing.T) {
	it := Options{MaxDepth: 5}
	if err := it.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if k := it.OrderKeyOpts([]int{4}); k.MaxDepth != 0 {
		t.Errorf("iterative key MaxDepth = %d, want 0", k.MaxDepth)
	}

	rec := Options{Builder: "recursive", MaxDepth: 5}
	if err := rec.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if k := rec.OrderKeyOpts([]int{4}); k.MaxDepth != 5 || k.Builder != "recursive" {
		t.Errorf("recursive key = %+v", k)
	}
}

func TestRenderOptionsDefaults(t *testing.T) {
	var ro RenderOptions
	if err := ro.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if ro.Format != FormatSVG {
		t.Errorf("Format = %q, want svg", ro.Format)
	}
	bad := RenderOptions{Format: "pdf"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("pdf error = %v, want INVALID_FORMAT", err)
	}
}
