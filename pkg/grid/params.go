package grid

import (
	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
)

// Defaults used by the CLI when no flag or config value is given.
const (
	DefaultSize           = 10.0
	DefaultProductionRate = 100
	DefaultNodeCount      = 50
	DefaultSinkCount      = 4
)

// Params are the inputs of a single generation pass.
type Params struct {
	Size           float64 `json:"size" toml:"size"`                       // side length of the layout box
	ProductionRate int     `json:"production_rate" toml:"production_rate"` // units produced by the source
	NodeCount      int     `json:"node_count" toml:"nodes"`                // requested population, truncated to k*k
	SinkCount      int     `json:"sink_count" toml:"sinks"`                // boundary nodes sharing the sink role
}

// DefaultParams returns the parameters used when nothing else is given.
func DefaultParams() Params {
	return Params{
		Size:           DefaultSize,
		ProductionRate: DefaultProductionRate,
		NodeCount:      DefaultNodeCount,
		SinkCount:      DefaultSinkCount,
	}
}

// Validate reports the first parameter that [Generate] cannot accept.
// The generator itself does not call Validate; callers at the input
// boundary do.
func (p Params) Validate() error {
	if err := ferrors.ValidateSize(p.Size); err != nil {
		return err
	}
	if err := ferrors.ValidateCount("node count", p.NodeCount); err != nil {
		return err
	}
	return ferrors.ValidateCount("sink count", p.SinkCount)
}

// role classifies the node at row i, column j.
// The sink branch divides by SinkCount only when SinkCount >= j >= 1.
func (p Params) role(i, j int) (Role, int) {
	switch {
	case i+j == 0:
		return Source, p.ProductionRate
	case i == 0 && i+j <= p.SinkCount:
		return Sink, -(p.ProductionRate / p.SinkCount)
	default:
		return Ordinary, 0
	}
}
