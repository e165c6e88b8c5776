package spring

import "gonum.org/v1/gonum/spatial/r2"

// NodeID is a stable handle into a Network. The zero value never names a node.
type NodeID uint32

// Node is a point mass. Acc holds the pending acceleration accumulated by
// springs; it decays between frames.
type Node struct {
	ID   NodeID
	Pos  r2.Vec
	Vel  r2.Vec
	Acc  r2.Vec
	mass float64
	held bool
}

func (n *Node) Mass() float64 { return n.mass }

// SetMass ignores non-positive values and keeps the previous mass.
func (n *Node) SetMass(m float64) {
	if m <= 0 {
		return
	}
	n.mass = m
}

// Held reports whether the node is pinned by a drag.
func (n *Node) Held() bool { return n.held }
