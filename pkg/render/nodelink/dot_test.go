package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
)

func canonical() *drainage.Network {
	return &drainage.Network{Receivers: []int{1, 4, 1, 6, 4, 4, 5, 4, 6, 7}}
}

func TestToDOT(t *testing.T) {
	dot, err := ToDOT(canonical(), nil, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	for _, want := range []string{
		"digraph G {",
		"0 -> 1;",
		"9 -> 7;",
		`4 [label="4", fillcolor="#cfe8ff", penwidth=2];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "4 -> 4") {
		t.Error("DOT should not draw the root self-loop")
	}
	if got := strings.Count(dot, "->"); got != 9 {
		t.Errorf("edge count = %d, want 9", got)
	}
}

func TestToDOTWithResult(t *testing.T) {
	nw := canonical()
	res, err := nw.Order(context.Background(), drainage.Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	dot, err := ToDOT(nw, res, Options{Detailed: true, Clusters: true})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(dot, "subgraph cluster_4 {") {
		t.Errorf("DOT missing basin cluster:\n%s", dot)
	}
	if !strings.Contains(dot, `label="8\npos: 7\nbasin: 4"`) {
		t.Errorf("DOT missing detailed label for node 8:\n%s", dot)
	}
}

func TestToDOTErrors(t *testing.T) {
	tests := []struct {
		name string
		nw   *drainage.Network
		res  *drainage.Result
		opts Options
		code errors.Code
	}{
		{
			name: "too large",
			nw:   canonical(),
			opts: Options{MaxNodes: 5},
			code: errors.ErrCodeUnsupported,
		},
		{
			name: "receiver out of range",
			nw:   &drainage.Network{Receivers: []int{0, 7}},
			code: errors.ErrCodeInvalidIndex,
		},
		{
			name: "result size mismatch",
			nw:   canonical(),
			res:  &drainage.Result{Stack: []int{0}},
			code: errors.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToDOT(tt.nw, tt.res, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("ToDOT() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := normalizeViewBox(in)
	if !bytes.Contains(out, []byte(`viewBox="0 0 62.00 116.00" width="62" height="116"`)) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !bytes.HasSuffix(out, []byte("<g/></svg>")) {
		t.Errorf("normalizeViewBox() dropped content: %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s, want unchanged", got)
	}
}

func TestRenderSVG(t *testing.T) {
	dot, err := ToDOT(canonical(), nil, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("RenderSVG output is not SVG: %.80s", svg)
	}
}
