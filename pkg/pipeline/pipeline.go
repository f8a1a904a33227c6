// Package pipeline runs network generation and rendering for the CLI and
// the HTTP server.
//
// Both entry points go through a [Runner] so that seeding, caching, logging
// and observability hooks behave the same everywhere:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	summary, err := runner.Generate(ctx, os.Stdout, params, seed)
//
//	net, _ := io.ImportText("nodes.txt")
//	svg, cached, err := runner.Render(ctx, net, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"slices"
	"strings"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/render/nodelink"
)

// Output formats.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists every supported render format.
var Formats = []string{FormatSVG, FormatDOT, FormatJSON, FormatText, FormatPDF, FormatPNG}

// DefaultPNGScale is the rasterization factor for PNG output.
const DefaultPNGScale = 2.0

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	Format  string  // one of Formats
	Scale   float64 // points per layout unit; zero means nodelink.DefaultScale
	Labels  bool    // show rates in node labels
	Refresh bool    // skip cache reads, still write the result
}

// SetDefaults fills unset fields.
func (o *RenderOptions) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.Scale <= 0 {
		o.Scale = nodelink.DefaultScale
	}
}

// Validate checks the format.
func (o RenderOptions) Validate() error {
	return ValidateFormat(o.Format)
}

// ValidateFormat reports an INVALID_INPUT error for unknown formats.
func ValidateFormat(f string) error {
	if !slices.Contains(Formats, f) {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "invalid format: %s (must be one of %s)", f, strings.Join(Formats, ", "))
	}
	return nil
}

// FormatFromPath infers a format from a file extension, returning "" when
// the extension is not a known format.
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	ext := strings.ToLower(path[i+1:])
	if slices.Contains(Formats, ext) {
		return ext
	}
	return ""
}
