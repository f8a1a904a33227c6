package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/render"
)

// DefaultScale is the number of points drawn per unit of layout size.
const DefaultScale = 36.0

// Fill colors per role.
const (
	fillOrdinary = "white"
	fillSource   = "#7fc97f"
	fillSink     = "#f0027f"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is the number of points per layout unit. Zero means DefaultScale.
	Scale float64

	// Labels adds the rate to source and sink labels.
	// When false, only the node id is shown.
	Labels bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return DefaultScale
	}
	return o.Scale
}

// ToDOT converts a network to Graphviz DOT source with every node pinned at
// its generated position. The network has no edges, so none are emitted.
//
// Graphviz's y axis points up; the generated y coordinate is used as is, so
// row 0 sits at the bottom of the picture with later columns above it.
func ToDOT(net grid.Network, opts Options) string {
	scale := opts.scale()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, width=0.35, fontsize=9];\n")
	buf.WriteString("\n")

	for _, n := range net.Nodes {
		attrs := fmtAttrs(n, opts.Labels, scale)
		fmt.Fprintf(&buf, "  %q [%s];\n", strconv.Itoa(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n grid.Node, labels bool, scale float64) []string {
	pos := fmt.Sprintf("%s,%s!", fmtPoint(n.X*scale), fmtPoint(n.Y*scale))
	attrs := []string{fmt.Sprintf("pos=%q", pos), fmt.Sprintf("label=%q", fmtLabel(n, labels))}

	switch n.Role {
	case grid.Source:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fillSource), "penwidth=2")
	case grid.Sink:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fillSink), "fontcolor=white")
	}
	return attrs
}

func fmtLabel(n grid.Node, labels bool) string {
	id := strconv.Itoa(n.ID)
	if !labels || !n.HasRate() {
		return id
	}
	if n.Rate > 0 {
		return id + "\n+" + strconv.Itoa(n.Rate)
	}
	return id + "\n" + strconv.Itoa(n.Rate)
}

func fmtPoint(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders DOT source to SVG using Graphviz's neato engine, which
// keeps pinned positions.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one whose viewBox
// starts at the origin and whose width and height match it.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
