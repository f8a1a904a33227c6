package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/pkg/grid"
	nodeio "github.com/matzehuels/flowgrid/pkg/io"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize a node list",
		Long: `Inspect reads a node list (text, or JSON when the file ends in .json) and
reports its declared and emitted node counts, the source, the sinks and the
rate balance. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded network", "file", args[0], "nodes", len(net.Nodes))
			printNetworkReport(args[0], net)
			return nil
		},
	}
}

// loadNetwork reads a node list from path, or from stdin when path is "-".
// Files ending in .json are decoded as JSON.
func loadNetwork(path string, stdin io.Reader) (grid.Network, error) {
	switch {
	case path == "-":
		return nodeio.ReadNodes(stdin)
	case pipeline.FormatFromPath(path) == pipeline.FormatJSON:
		return nodeio.ImportJSON(path)
	default:
		return nodeio.ImportText(path)
	}
}

func printNetworkReport(name string, net grid.Network) {
	printTitle(name)

	emitted := len(net.Nodes)
	count := styleNumber.Render(fmt.Sprint(emitted))
	if net.Declared != emitted {
		count += styleDim.Render(fmt.Sprintf(" of %d declared", net.Declared))
	}
	printKeyValue("nodes", count)

	if k := grid.Side(emitted); k*k == emitted && k > 0 {
		printKeyValue("grid", fmt.Sprintf("%d×%d", k, k))
	}

	if src, ok := net.Source(); ok {
		printKeyValue("source", styleSource.Render(fmt.Sprintf("#%d", src.ID))+styleDim.Render(fmt.Sprintf(" +%d", src.Rate)))
	} else {
		printKeyValue("source", styleDim.Render("none"))
	}

	sinks := net.Sinks()
	if len(sinks) == 0 {
		printKeyValue("sinks", styleDim.Render("none"))
	} else {
		ids := make([]string, len(sinks))
		for i, s := range sinks {
			ids[i] = fmt.Sprintf("#%d", s.ID)
		}
		printKeyValue("sinks", styleSink.Render(strings.Join(ids, " "))+styleDim.Render(fmt.Sprintf(" %d each", sinks[0].Rate)))
	}

	padded := 0
	for _, n := range net.Nodes {
		if n.Padded {
			padded++
		}
	}
	printKeyValue("padded", fmt.Sprint(padded))

	balance := net.Balance()
	printKeyValue("balance", fmt.Sprintf("%+d", balance))
	if balance != 0 && len(sinks) > 0 {
		printDetail("sinks absorb %d of %d produced", -sumRates(sinks), balance-sumRates(sinks))
	}
}

func sumRates(nodes []grid.Node) int {
	total := 0
	for _, n := range nodes {
		total += n.Rate
	}
	return total
}
