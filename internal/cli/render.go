package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
	"github.com/matzehuels/flowgrid/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file; derived from the input when empty, "-" for stdout
	format  string  // svg, pdf, png, dot, json or txt; inferred from output when empty
	scale   float64 // points per layout unit
	labels  bool    // show rates in node labels
	noCache bool    // bypass the artifact cache entirely
	refresh bool    // re-render even when cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: nodelink.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a node list as a diagram",
		Long: `Render draws every node of a node list at its position with Graphviz,
colouring the source and the sinks. Use "-" to read from stdin.

PDF and PNG output require rsvg-convert (librsvg).`,
		Example: `  flowgrid render net.txt
  flowgrid render net.txt -o net.png --labels
  flowgrid generate | flowgrid render - -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: input name with the format extension)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(pipeline.Formats, ", ")+" (default: from --output, else svg)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "points per layout unit")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "show rates in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if a cached result exists")

	return cmd
}

// resolveFormat picks the explicit format, then the output extension, then svg.
func resolveFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if f := pipeline.FormatFromPath(output); f != "" {
		return f
	}
	return pipeline.FormatSVG
}

// basePath derives the output path stem from the input file path.
// Reading from stdin yields "network".
func basePath(input string) string {
	if input == "-" {
		return "network"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func (c *CLI) runRender(ctx context.Context, input string, stdin io.Reader, stdout io.Writer, opts renderOpts) (err error) {
	logger := loggerFromContext(ctx)

	format := resolveFormat(opts.format, opts.output)
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	if err := ferrors.ValidateOutputPath(opts.output); err != nil {
		return err
	}

	net, err := loadNetwork(input, stdin)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d nodes from %s", len(net.Nodes), input)

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Rendering "+format)
	spin.Start()
	data, cached, err := runner.Render(ctx, net, pipeline.RenderOptions{
		Format:  format,
		Scale:   opts.scale,
		Labels:  opts.labels,
		Refresh: opts.refresh,
	})
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()

	path := opts.output
	if path == "" {
		path = basePath(input) + "." + format
	}
	out, err := openOutput(path, stdout)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "open %s", path)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = ferrors.Wrap(ferrors.ErrCodeIO, cerr, "close %s", path)
		}
	}()
	if _, err := out.Write(data); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "write %s", path)
	}

	if path != "-" {
		printSuccess("Rendered %s", format)
		printFile(path)
		printStats(len(net.Nodes), len(net.Sinks()), cached)
	}
	return nil
}
