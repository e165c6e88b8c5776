package spring

import "gonum.org/v1/gonum/spatial/r2"

// Link is a spring resolved to indices into Snapshot.Points.
type Link struct {
	From, To   int
	Extension  float64
	StringMode bool
}

// Snapshot is a read-only view of the network for renderers.
type Snapshot struct {
	Points []r2.Vec
	Masses []float64
	Held   []bool
	Links  []Link
}

func (n *Network) Snapshot() Snapshot {
	s := Snapshot{
		Points: make([]r2.Vec, len(n.nodes)),
		Masses: make([]float64, len(n.nodes)),
		Held:   make([]bool, len(n.nodes)),
		Links:  make([]Link, len(n.springs)),
	}
	for i, node := range n.nodes {
		s.Points[i] = node.Pos
		s.Masses[i] = node.mass
		s.Held[i] = node.held
	}
	for i, sp := range n.springs {
		ia, ib := n.index[sp.A], n.index[sp.B]
		s.Links[i] = Link{
			From:       ia,
			To:         ib,
			Extension:  sp.Extension(n.nodes[ia], n.nodes[ib]),
			StringMode: sp.StringMode,
		}
	}
	return s
}

// Bounds returns the axis-aligned box around every point.
func (s Snapshot) Bounds() (lo, hi r2.Vec) {
	if len(s.Points) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	lo, hi = s.Points[0], s.Points[0]
	for _, p := range s.Points[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}
