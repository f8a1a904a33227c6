package grid

import "strconv"

// Role classifies a node in the flow network.
type Role int

const (
	Ordinary Role = iota
	Source
	Sink
)

var roleNames = [...]string{
	Ordinary: "ordinary",
	Source:   "source",
	Sink:     "sink",
}

// String returns the lowercase role name.
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "Role(" + strconv.Itoa(int(r)) + ")"
	}
	return roleNames[r]
}

// ParseRole is the inverse of [Role.String].
func ParseRole(s string) (Role, bool) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), true
		}
	}
	return Ordinary, false
}

// Node is one emitted grid cell.
//
// Rate is only meaningful for Source (positive) and Sink (negative) nodes.
// Padded is set for every node whose row is <= the sink count and makes the
// encoded line carry a trailing space after y.
type Node struct {
	ID     int
	Row    int
	Col    int
	X      float64
	Y      float64
	Role   Role
	Rate   int
	Padded bool
}

// HasRate reports whether the node carries a rate field.
func (n Node) HasRate() bool { return n.Role != Ordinary }

// AppendText appends the node's data line, without a newline, to b.
//
// Sinks are written as "-" followed by ProductionRate/SinkCount, which is
// -Rate.
func (n Node) AppendText(b []byte) []byte {
	b = strconv.AppendInt(b, int64(n.ID), 10)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, n.X, 'f', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, n.Y, 'f', -1, 64)
	if n.Padded {
		b = append(b, ' ')
	}
	switch n.Role {
	case Source:
		b = strconv.AppendInt(b, int64(n.Rate), 10)
	case Sink:
		b = append(b, '-')
		b = strconv.AppendInt(b, -int64(n.Rate), 10)
	}
	return b
}

// String returns the node's data line.
func (n Node) String() string {
	return string(n.AppendText(make([]byte, 0, 48)))
}

// Network is a generated node list: the declared header count and the
// emitted nodes in row-major order.
type Network struct {
	Declared int
	Nodes    []Node
}

// Source returns the source node, if the network has one.
func (n Network) Source() (Node, bool) {
	for _, nd := range n.Nodes {
		if nd.Role == Source {
			return nd, true
		}
	}
	return Node{}, false
}

// Sinks returns the sink nodes in emission order.
func (n Network) Sinks() []Node {
	var out []Node
	for _, nd := range n.Nodes {
		if nd.Role == Sink {
			out = append(out, nd)
		}
	}
	return out
}

// Balance returns the sum of all rates. It is zero only when the sink count
// divides the production rate and every sink fits in row 0.
func (n Network) Balance() int {
	total := 0
	for _, nd := range n.Nodes {
		total += nd.Rate
	}
	return total
}
