package io

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strconv"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

type network struct {
	Declared int    `json:"declared"`
	Nodes    []node `json:"nodes"`
}

type node struct {
	ID     int     `json:"id"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Role   string  `json:"role,omitempty"`
	Rate   *int    `json:"rate,omitempty"`
	Padded bool    `json:"padded,omitempty"`
}

// WriteText encodes net in the node list format.
func WriteText(w io.Writer, net grid.Network) error {
	bw := bufio.NewWriter(w)
	buf := strconv.AppendInt(make([]byte, 0, 64), int64(net.Declared), 10)
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "write header")
	}
	for _, n := range net.Nodes {
		buf = append(n.AppendText(buf[:0]), '\n')
		if _, err := bw.Write(buf); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeIO, err, "write node %d", n.ID)
		}
	}
	if err := bw.Flush(); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "flush")
	}
	return nil
}

// WriteJSON encodes net as indented JSON.
func WriteJSON(w io.Writer, net grid.Network) error {
	out := network{Declared: net.Declared, Nodes: make([]node, len(net.Nodes))}
	for i, n := range net.Nodes {
		nd := node{ID: n.ID, Row: n.Row, Col: n.Col, X: n.X, Y: n.Y, Padded: n.Padded}
		if n.HasRate() {
			rate := n.Rate
			nd.Role = n.Role.String()
			nd.Rate = &rate
		}
		out.Nodes[i] = nd
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "encode")
	}
	return nil
}

// ExportJSON writes net to a JSON file at path.
func ExportJSON(net grid.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "create %s", path)
	}
	if err := WriteJSON(f, net); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
