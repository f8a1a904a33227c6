// Package pkg holds the flowgrid libraries.
//
// # Overview
//
// Flowgrid generates toy flow networks: nodes on a jittered square grid with
// one source and a few sinks, written as a plain node list. The packages are:
//
//  1. [grid] - the generator and the network model
//  2. [io] - node-list and JSON codecs
//  3. [render] - Graphviz diagrams of a network
//  4. [pipeline] - generation and rendering with caching and hooks
//  5. [cache], [observability], [errors], [buildinfo] - supporting infrastructure
//
// # Data flow
//
//	grid.Params + seed
//	         ↓
//	    [grid] Generate / Build
//	         ↓
//	    node list  ──→  [io] ReadNodes  ──→  [render/nodelink] ToDOT
//	                                                ↓
//	                                      SVG / PDF / PNG
//
// # Quick Start
//
//	rng := grid.NewRand(42)
//	if err := grid.Generate(os.Stdout, grid.DefaultParams(), rng); err != nil {
//	    log.Fatal(err)
//	}
package pkg
