// Package nodelink renders drainage networks as node-link diagrams.
//
// # Overview
//
// Each node is a box and each receiver link is an arrow from donor to
// receiver, so water flows down the page and the roots sit at the bottom.
// When a stack order is supplied, labels carry each node's stack position
// and the basins are grouped into Graphviz clusters.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(nw, res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Size
//
// Graphviz layout is superlinear, so [ToDOT] refuses networks larger than
// Options.MaxNodes ([DefaultMaxNodes] when unset). Use the order command for
// large meshes and render small samples or subnetworks.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
