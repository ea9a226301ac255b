package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
)

// DefaultMaxNodes is the largest network ToDOT renders by default.
const DefaultMaxNodes = 2000

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the stack position and basin to node labels.
	// Ignored when no result is given.
	Detailed bool
	// Clusters groups each basin into its own Graphviz cluster.
	// Ignored when no result is given.
	Clusters bool
	// MaxNodes overrides DefaultMaxNodes.
	MaxNodes int
}

// ToDOT converts a network to Graphviz DOT source. res may be nil; when
// given it must be the stack order of nw.
func ToDOT(nw *drainage.Network, res *drainage.Result, opts Options) (string, error) {
	limit := opts.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}
	n := nw.Len()
	if n > limit {
		return "", errors.New(errors.ErrCodeUnsupported, "network too large to render: %d nodes (max %d)", n, limit)
	}
	if res != nil && len(res.Stack) != n {
		return "", errors.New(errors.ErrCodeInvalidInput, "result has %d nodes, network has %d", len(res.Stack), n)
	}
	for i, r := range nw.Receivers {
		if err := errors.ValidateIndex(fmt.Sprintf("receiver of node %d", i), r, n); err != nil {
			return "", err
		}
	}

	isRoot := make([]bool, n)
	for _, r := range nw.ResolvedRoots() {
		if r >= 0 && r < n {
			isRoot[r] = true
		}
	}

	var pos []int
	if res != nil {
		pos = make([]int, n)
		for i, node := range res.Stack {
			pos[node] = i
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	writeNode := func(indent string, i int) {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(i, pos, res, opts.Detailed))}
		if isRoot[i] {
			attrs = append(attrs, "fillcolor=\"#cfe8ff\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "%s%d [%s];\n", indent, i, strings.Join(attrs, ", "))
	}

	if res != nil && opts.Clusters {
		for k, root := range res.Roots {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", root)
			fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("basin %d", root))
			buf.WriteString("    style=dashed;\n")
			lo, hi := res.Block(k)
			for _, node := range res.Stack[lo:hi] {
				writeNode("    ", node)
			}
			buf.WriteString("  }\n")
		}
	} else {
		for i := range n {
			writeNode("  ", i)
		}
	}

	buf.WriteString("\n")
	for i, r := range nw.Receivers {
		if r == i || isRoot[i] {
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d;\n", i, r)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(i int, pos []int, res *drainage.Result, detailed bool) string {
	id := strconv.Itoa(i)
	if !detailed || res == nil {
		return id
	}
	return fmt.Sprintf("%s\npos: %d\nbasin: %d", id, pos[i], res.Basins[i])
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// zero-origin viewBox so the output scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
