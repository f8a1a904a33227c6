package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// generateOpts holds the resolved inputs of the generate command.
type generateOpts struct {
	output string
	params grid.Params
	seed   uint64
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts
	def := grid.DefaultParams()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a flow network node list",
		Long: `Generate lays out about --nodes nodes on a square grid spanning --size
units, jitters each one, and writes the node list. Node 0 is the source
producing --production-rate; nodes 1..--sinks of row 0 absorb equal
shares of it.

Only floor(sqrt(nodes))² nodes are emitted; the header still carries the
requested count.`,
		Example: `  flowgrid generate -n 100 -s 20 -d 3 -o net.txt
  flowgrid generate --seed 42 | flowgrid render - -f svg -o net.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := c.generateParams()
			if err != nil {
				return err
			}
			opts.params = params
			if !cmd.Flags().Changed("seed") {
				opts.seed = uint64(time.Now().UnixNano())
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntP("production-rate", "p", def.ProductionRate, "rate produced by the source")
	cmd.Flags().IntP("nodes", "n", def.NodeCount, "requested number of nodes")
	cmd.Flags().Float64P("size", "s", def.Size, "side length of the square area")
	cmd.Flags().IntP("sinks", "d", def.SinkCount, "number of sinks")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default: time-based)")

	c.bindFlags(cmd.Flags(), map[string]string{
		keyProductionRate: "production-rate",
		keyNodes:          "nodes",
		keySize:           "size",
		keySinks:          "sinks",
	})
	return cmd
}

// runGenerate writes one network. Output is buffered and always flushed and
// closed; a partially written file is left in place on failure.
func (c *CLI) runGenerate(ctx context.Context, stdout io.Writer, opts generateOpts) (err error) {
	logger := loggerFromContext(ctx)

	if err := ferrors.ValidateOutputPath(opts.output); err != nil {
		return err
	}
	if err := opts.params.Validate(); err != nil {
		return err
	}

	out, err := openOutput(opts.output, stdout)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "open %s", opts.output)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = ferrors.Wrap(ferrors.ErrCodeIO, cerr, "close %s", opts.output)
		}
	}()

	bw := bufio.NewWriter(out)
	summary, err := pipeline.NewRunner(nil, logger).Generate(ctx, bw, opts.params, opts.seed)
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = ferrors.Wrap(ferrors.ErrCodeIO, ferr, "flush")
	}
	if err != nil {
		return err
	}

	logger.Debug("generate done", "seed", opts.seed, "summary", summary.String())
	if summary.Truncated() {
		logger.Debugf("emitting %d of %d requested nodes", summary.Emitted, summary.Requested)
	}
	if opts.output != "" {
		printSuccess("Generated %s", summary)
		printFile(opts.output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method so stdout can be
// handled like a file.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty
// or "-". Existing files are overwritten.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
