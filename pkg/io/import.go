package io

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

// ReadNodes parses a node list from r.
//
// ReadNodes returns an INVALID_FORMAT error naming the line number when the
// header is not an integer, a line has the wrong number of fields, a number
// does not parse, or a non-source node carries a rate not written as a sink
// share. Read failures are returned as IO_ERROR. ReadNodes does not close r.
func ReadNodes(r io.Reader) (grid.Network, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeIO, err, "read header")
		}
		return grid.Network{}, ferrors.New(ferrors.ErrCodeInvalidFormat, "empty input: missing header line")
	}
	declared, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "line 1: header is not a node count")
	}

	net := grid.Network{Declared: declared}
	for lineNo := 2; sc.Scan(); lineNo++ {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		n, err := parseNode(line)
		if err != nil {
			return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		net.Nodes = append(net.Nodes, n)
	}
	if err := sc.Err(); err != nil {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeIO, err, "read nodes")
	}

	assignCells(net.Nodes)
	return net, nil
}

// ImportText reads the node list file at path.
func ImportText(path string) (grid.Network, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadNodes(f)
}

func parseNode(line string) (grid.Node, error) {
	fields := strings.Split(line, " ")
	var n grid.Node

	switch len(fields) {
	case 3:
	case 4:
		n.Padded = true
	default:
		return n, errors.New("expected \"<id> <x> <y>[ ][<rate>]\", got " + strconv.Quote(line))
	}

	var err error
	if n.ID, err = strconv.Atoi(fields[0]); err != nil {
		return n, err
	}
	if n.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return n, err
	}
	if n.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return n, err
	}

	if len(fields) == 4 && fields[3] != "" {
		n.Role, n.Rate, err = parseRate(n.ID, fields[3])
	}
	return n, err
}

// parseRate decodes the fourth field. Node 0 is the source and its rate is
// written verbatim; every other rate is "-" followed by the sink share.
func parseRate(id int, field string) (grid.Role, int, error) {
	if id == 0 {
		rate, err := strconv.Atoi(field)
		return grid.Source, rate, err
	}
	share, ok := strings.CutPrefix(field, "-")
	if !ok {
		return grid.Ordinary, 0, errors.New("node " + strconv.Itoa(id) + ": only node 0 may carry a positive rate")
	}
	v, err := strconv.Atoi(share)
	return grid.Sink, -v, err
}

// assignCells recovers row and column from ids on square grids.
func assignCells(nodes []grid.Node) {
	k := grid.Side(len(nodes))
	if k == 0 || k*k != len(nodes) {
		return
	}
	for i := range nodes {
		nodes[i].Row = nodes[i].ID / k
		nodes[i].Col = nodes[i].ID % k
	}
}

// ReadJSON decodes a JSON network from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (grid.Network, error) {
	var data network
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode")
	}

	net := grid.Network{Declared: data.Declared, Nodes: make([]grid.Node, len(data.Nodes))}
	for i, nd := range data.Nodes {
		n := grid.Node{ID: nd.ID, Row: nd.Row, Col: nd.Col, X: nd.X, Y: nd.Y, Padded: nd.Padded}
		if nd.Role != "" {
			role, ok := grid.ParseRole(nd.Role)
			if !ok {
				return grid.Network{}, ferrors.New(ferrors.ErrCodeInvalidFormat, "node %d: unknown role %q", nd.ID, nd.Role)
			}
			n.Role = role
		}
		if nd.Rate != nil {
			n.Rate = *nd.Rate
		}
		net.Nodes[i] = n
	}
	return net, nil
}

// ImportJSON reads a JSON network file at path.
func ImportJSON(path string) (grid.Network, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return grid.Network{}, ferrors.Wrap(ferrors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
