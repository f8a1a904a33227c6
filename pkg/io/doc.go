// Package io reads and writes generated flow networks.
//
// # Overview
//
// Two encodings are supported:
//
//   - The line-oriented node list produced by [grid.Generate], for feeding
//     flow solvers and for reading files back for inspection or rendering.
//   - An indented JSON document for external tools that prefer structured
//     input.
//
// # Node List Format
//
//	<declared node count>
//	<id> <x> <y>[ ][<rate>]
//
// [ReadNodes] accepts exactly what the generator writes. A line with three
// fields is an ordinary node; a trailing space marks a padded line; a fourth
// field is the rate. Node 0 is the source; any other rate must be written as
// "-" followed by the sink's share. [WriteText] re-encodes a parsed network
// byte-for-byte.
//
// Rows and columns are not stored in the file. They are recovered from the
// ids when the number of data lines is a perfect square.
//
// # JSON Format
//
//	{
//	  "declared": 9,
//	  "nodes": [
//	    {"id": 0, "row": 0, "col": 0, "x": 0.1, "y": -0.2, "role": "source", "rate": 90, "padded": true},
//	    {"id": 1, "row": 0, "col": 1, "x": 0.0, "y": 3.1, "role": "sink", "rate": -45, "padded": true},
//	    {"id": 3, "row": 1, "col": 0, "x": 3.2, "y": 1.4}
//	  ]
//	}
//
// Ordinary nodes omit role and rate.
//
// [grid.Generate]: github.com/matzehuels/flowgrid/pkg/grid.Generate
package io
