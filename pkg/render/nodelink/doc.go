// Package nodelink renders flow networks as pinned node diagrams.
//
// # Overview
//
// Every node is drawn as a small circle at its generated (x, y) position:
// the source is green, sinks are magenta, ordinary nodes are white. The
// generator emits no edges, so the diagram is a scatter of the lattice that
// makes the brick offset and the jitter easy to eyeball.
//
// # Usage
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Layout
//
// Positions are passed as pinned pos attributes ("x,y!") and rendered with
// the neato engine, so Graphviz does not move any node. [Options.Scale]
// converts layout units to points.
package nodelink
