// Package grid generates toy flow networks laid out on a jittered square grid.
//
// # Overview
//
// A generated network is a node list meant as test input for network-flow
// algorithms. The requested node count N is truncated to a k × k lattice with
// k = floor(sqrt(N)). Each node sits near its lattice point, with every odd
// row shifted by half a pitch so the lattice forms a brick pattern, and each
// coordinate independently jittered by up to ±15% of the pitch.
//
// Exactly one node, the corner (0,0), is the source and carries the
// production rate. Row-0 nodes in columns 1..SinkCount are sinks that each
// absorb ProductionRate/SinkCount (truncating division).
//
// # Text Format
//
// [Generate] writes the requested count as a header line, then one line per
// node in row-major order:
//
//	<node_count>
//	<id> <x> <y>[ ][<rate>]
//
// The header carries the requested count, not k*k. Every node in a row
// i <= SinkCount gets a trailing space after y, whether or not a rate follows.
// Downstream readers depend on both quirks, so they are kept as is.
//
// # Randomness
//
// The caller owns the *rand.Rand. Two runs with the same seed produce
// byte-identical output; runs with different seeds produce the same structure
// (line count, ids, roles, header) with different coordinates.
//
//	rng := grid.NewRand(42)
//	err := grid.Generate(os.Stdout, grid.DefaultParams(), rng)
package grid
