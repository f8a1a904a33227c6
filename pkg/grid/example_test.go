package grid_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

func ExampleGenerate() {
	p := grid.Params{Size: 9, ProductionRate: 90, NodeCount: 10, SinkCount: 2}

	var buf bytes.Buffer
	if err := grid.Generate(&buf, p, grid.NewRand(42)); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Coordinates are random; print the header and the rate column only.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	fmt.Println("header:", lines[0])
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 4 {
			fmt.Printf("node %s rate %s\n", fields[0], fields[3])
		}
	}
	fmt.Println("data lines:", len(lines)-1)
	// Output:
	// header: 10
	// node 0 rate 90
	// node 1 rate -45
	// node 2 rate -45
	// data lines: 9
}

func ExampleSummarize() {
	s := grid.Summarize(grid.Params{Size: 9, ProductionRate: 90, NodeCount: 9, SinkCount: 2})
	fmt.Println(s)
	// Output:
	// 9/9 nodes (3x3, pitch 3), 2 sinks absorbing 90
}

func ExampleNodes() {
	p := grid.Params{Size: 4, ProductionRate: 12, NodeCount: 4, SinkCount: 1}
	for n := range grid.Nodes(p, grid.NewRand(1)) {
		fmt.Printf("id=%d row=%d col=%d role=%s rate=%d\n", n.ID, n.Row, n.Col, n.Role, n.Rate)
	}
	// Output:
	// id=0 row=0 col=0 role=source rate=12
	// id=1 row=0 col=1 role=sink rate=-12
	// id=2 row=1 col=0 role=ordinary rate=0
	// id=3 row=1 col=1 role=ordinary rate=0
}
