// Package render converts rendered flow network diagrams between formats.
//
// The [nodelink] subpackage draws a network as pinned Graphviz nodes and
// produces SVG. [ToPDF] and [ToPNG] convert that SVG with the external
// rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(net, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/flowgrid/pkg/render/nodelink
package render
