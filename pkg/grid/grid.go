package grid

import (
	"io"
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
)

// jitter is the full width of the random perturbation as a fraction of the
// pitch; coordinates move by at most jitter/2 in either direction.
const jitter = 0.3

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Side returns k = floor(sqrt(n)), the side length of the lattice built for
// a requested node count n. Non-positive counts yield 0.
func Side(n int) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Sqrt(float64(n)))
	// Compare by division so k*k never overflows near math.MaxInt.
	for k > n/k {
		k--
	}
	for k+1 <= n/(k+1) {
		k++
	}
	return k
}

// Pitch returns the spacing between adjacent rows and columns.
func Pitch(size float64, k int) float64 {
	return size / float64(k)
}

// Nodes yields the network's nodes in row-major order (row outer, column
// inner). Each node draws two values from rng, x first.
func Nodes(p Params, rng *rand.Rand) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		k := Side(p.NodeCount)
		pitch := Pitch(p.Size, k)
		for i := range k {
			offset := 0.0
			if i%2 == 1 {
				offset = pitch / 2
			}
			for j := range k {
				n := Node{ID: i*k + j, Row: i, Col: j}
				n.X = float64(i)*pitch + jitter*pitch*(rng.Float64()-0.5)
				n.Y = float64(j)*pitch + jitter*pitch*(rng.Float64()-0.5) + offset
				n.Role, n.Rate = p.role(i, j)
				n.Padded = i <= p.SinkCount
				if !yield(n) {
					return
				}
			}
		}
	}
}

// Build collects a whole network in memory.
func Build(p Params, rng *rand.Rand) Network {
	return Network{
		Declared: p.NodeCount,
		Nodes:    slices.Collect(Nodes(p, rng)),
	}
}

// Generate writes the node list for p to w: the requested node count as a
// header line, then one line per node.
//
// Each line is written as soon as its node is computed. The first failed
// write aborts generation and is returned as an IO_ERROR; lines already
// written are not retracted.
func Generate(w io.Writer, p Params, rng *rand.Rand) error {
	buf := make([]byte, 0, 64)
	buf = strconv.AppendInt(buf, int64(p.NodeCount), 10)
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "write header")
	}

	for n := range Nodes(p, rng) {
		buf = append(n.AppendText(buf[:0]), '\n')
		if _, err := w.Write(buf); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeIO, err, "write node %d", n.ID)
		}
	}
	return nil
}
