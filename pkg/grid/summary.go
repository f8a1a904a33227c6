package grid

import "fmt"

// Summary describes the structure [Generate] produces for a set of
// parameters. It depends only on the parameters, never on the random draws.
type Summary struct {
	Requested int     `json:"requested"`
	Emitted   int     `json:"emitted"`
	Side      int     `json:"side"`
	Pitch     float64 `json:"pitch"`
	Sinks     int     `json:"sinks"`      // sinks that fit in row 0
	SinkShare int     `json:"sink_share"` // ProductionRate/SinkCount, 0 without sinks
	Absorbed  int     `json:"absorbed"`   // Sinks * SinkShare
	Padded    int     `json:"padded"`     // lines carrying a trailing space
}

// Summarize computes the structural summary for p.
func Summarize(p Params) Summary {
	k := Side(p.NodeCount)
	s := Summary{
		Requested: p.NodeCount,
		Emitted:   k * k,
		Side:      k,
	}
	if k == 0 {
		return s
	}
	s.Pitch = Pitch(p.Size, k)
	s.Sinks = min(p.SinkCount, k-1)
	if p.SinkCount > 0 {
		s.SinkShare = p.ProductionRate / p.SinkCount
	}
	s.Absorbed = s.Sinks * s.SinkShare
	s.Padded = (min(p.SinkCount, k-1) + 1) * k
	return s
}

// Truncated reports whether fewer nodes are emitted than were requested.
func (s Summary) Truncated() bool { return s.Emitted < s.Requested }

// String returns a one-line description for logs.
func (s Summary) String() string {
	return fmt.Sprintf("%d/%d nodes (%dx%d, pitch %.4g), %d sinks absorbing %d",
		s.Emitted, s.Requested, s.Side, s.Side, s.Pitch, s.Sinks, s.Absorbed)
}
