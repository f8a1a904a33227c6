package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

func sampleNetwork() grid.Network {
	return grid.Network{
		Declared: 4,
		Nodes: []grid.Node{
			{ID: 0, X: 0.1, Y: -0.1, Role: grid.Source, Rate: 90, Padded: true},
			{ID: 1, Col: 1, X: 0, Y: 2, Role: grid.Sink, Rate: -90, Padded: true},
			{ID: 2, Row: 1, X: 2, Y: 1},
			{ID: 3, Row: 1, Col: 1, X: 2, Y: 3},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleNetwork(), Options{Scale: 10})

	if !strings.HasPrefix(dot, "graph G {\n") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("ToDOT should produce an undirected graph, got:\n%s", dot)
	}
	if strings.Contains(dot, "--") || strings.Contains(dot, "->") {
		t.Error("ToDOT should not emit edges")
	}

	wants := []string{
		`"0" [pos="1.00,-1.00!", label="0", fillcolor="#7fc97f", penwidth=2];`,
		`"1" [pos="0.00,20.00!", label="1", fillcolor="#f0027f", fontcolor=white];`,
		`"2" [pos="20.00,10.00!", label="2"];`,
		`"3" [pos="20.00,30.00!", label="3"];`,
	}
	for _, want := range wants {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT missing %s\n%s", want, dot)
		}
	}
}

func TestToDOTLabels(t *testing.T) {
	dot := ToDOT(sampleNetwork(), Options{Labels: true})

	if !strings.Contains(dot, `label="0\n+90"`) {
		t.Errorf("source label should carry its rate:\n%s", dot)
	}
	if !strings.Contains(dot, `label="1\n-90"`) {
		t.Errorf("sink label should carry its rate:\n%s", dot)
	}
	if !strings.Contains(dot, `label="2"`) {
		t.Errorf("ordinary label should be the id:\n%s", dot)
	}
}

func TestToDOTDefaultScale(t *testing.T) {
	net := grid.Network{Nodes: []grid.Node{{ID: 5, X: 1, Y: 2}}}
	dot := ToDOT(net, Options{})
	if !strings.Contains(dot, `pos="36.00,72.00!"`) {
		t.Errorf("zero scale should fall back to DefaultScale:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() =\n%s\nwant\n%s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox should leave SVGs without a viewBox untouched")
	}
}
