package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

func TestReadNodesRoundTrip(t *testing.T) {
	params := []grid.Params{
		grid.DefaultParams(),
		{Size: 9, ProductionRate: 90, NodeCount: 9, SinkCount: 2},
		{Size: 1, ProductionRate: 100, NodeCount: 17, SinkCount: 0},
		{Size: 250, ProductionRate: 7, NodeCount: 120, SinkCount: 30},
		{Size: 3, ProductionRate: 100, NodeCount: 0, SinkCount: 4},
	}

	for _, p := range params {
		var generated bytes.Buffer
		require.NoError(t, grid.Generate(&generated, p, grid.NewRand(9)))

		net, err := ReadNodes(bytes.NewReader(generated.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, p.NodeCount, net.Declared)
		assert.Equal(t, grid.Build(p, grid.NewRand(9)).Nodes, net.Nodes)

		var rewritten bytes.Buffer
		require.NoError(t, WriteText(&rewritten, net))
		assert.Equal(t, generated.String(), rewritten.String())
	}
}

func TestReadNodesDeclaredMismatch(t *testing.T) {
	p := grid.Params{Size: 9, ProductionRate: 90, NodeCount: 10, SinkCount: 2}
	var buf bytes.Buffer
	require.NoError(t, grid.Generate(&buf, p, grid.NewRand(1)))

	net, err := ReadNodes(&buf)
	require.NoError(t, err)
	assert.Equal(t, 10, net.Declared)
	require.Len(t, net.Nodes, 9)

	last := net.Nodes[8]
	assert.Equal(t, 2, last.Row)
	assert.Equal(t, 2, last.Col)
}

func TestReadNodesRoles(t *testing.T) {
	input := "4\n" +
		"0 0.1 -0.2 100\n" +
		"1 0.05 1.1 -50\n" +
		"2 1.2 0.4 \n" +
		"3 1 1.5\n"

	net, err := ReadNodes(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, net.Nodes, 4)

	assert.Equal(t, grid.Node{ID: 0, X: 0.1, Y: -0.2, Role: grid.Source, Rate: 100, Padded: true}, net.Nodes[0])
	assert.Equal(t, grid.Node{ID: 1, Col: 1, X: 0.05, Y: 1.1, Role: grid.Sink, Rate: -50, Padded: true}, net.Nodes[1])
	assert.Equal(t, grid.Node{ID: 2, Row: 1, X: 1.2, Y: 0.4, Padded: true}, net.Nodes[2])
	assert.Equal(t, grid.Node{ID: 3, Row: 1, Col: 1, X: 1, Y: 1.5}, net.Nodes[3])
	assert.Equal(t, 50, net.Balance())
}

func TestReadNodesTolerance(t *testing.T) {
	net, err := ReadNodes(strings.NewReader("2\r\n0 0 0 8\r\n\r\n1 0 1 \r\n"))
	require.NoError(t, err)
	require.Len(t, net.Nodes, 2)
	assert.True(t, net.Nodes[1].Padded)
	// Two lines is not a square grid, so cells stay unset.
	assert.Equal(t, 0, net.Nodes[1].Col)
}

func TestReadNodesErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", "missing header"},
		{"bad header", "fifty\n", "line 1"},
		{"too few fields", "1\n0 1.5\n", "line 2"},
		{"too many fields", "1\n0 1 2 3 4\n", "line 2"},
		{"double space", "1\n0  1 2\n", "line 2"},
		{"bad id", "1\nzero 1 2\n", "line 2"},
		{"bad x", "1\n0 x 2\n", "line 2"},
		{"bad rate", "1\n0 1 2 lots\n", "line 2"},
		{"positive sink", "2\n0 1 2 10\n1 1 2 10\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNodes(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidFormat), "code = %s", ferrors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestImportText(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportText(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeFileNotFound))

	path := filepath.Join(dir, "nodes.txt")
	var buf bytes.Buffer
	require.NoError(t, grid.Generate(&buf, grid.DefaultParams(), grid.NewRand(3)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	net, err := ImportText(path)
	require.NoError(t, err)
	assert.Equal(t, 50, net.Declared)
	assert.Len(t, net.Nodes, 49)
}

func TestJSONRoundTrip(t *testing.T) {
	net := grid.Build(grid.Params{Size: 9, ProductionRate: 90, NodeCount: 9, SinkCount: 2}, grid.NewRand(5))
	path := filepath.Join(t.TempDir(), "net.json")

	require.NoError(t, ExportJSON(net, path))
	got, err := ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, net, got)
}

func TestWriteJSONShape(t *testing.T) {
	net := grid.Network{
		Declared: 2,
		Nodes: []grid.Node{
			{ID: 0, X: 0.5, Y: 0.25, Role: grid.Source, Rate: 10, Padded: true},
			{ID: 1, Col: 1, X: 0.5, Y: 1.25},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, net))

	want := `{
  "declared": 2,
  "nodes": [
    {
      "id": 0,
      "row": 0,
      "col": 0,
      "x": 0.5,
      "y": 0.25,
      "role": "source",
      "rate": 10,
      "padded": true
    },
    {
      "id": 1,
      "row": 0,
      "col": 1,
      "x": 0.5,
      "y": 1.25
    }
  ]
}
`
	assert.Equal(t, want, buf.String())
}

func TestReadJSONUnknownRole(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"declared":1,"nodes":[{"id":0,"role":"pump","rate":3}]}`))
	require.Error(t, err)
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidFormat))
	assert.Contains(t, err.Error(), "pump")
}
