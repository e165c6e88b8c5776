// Package geometry generates ready-made spring network topologies.
//
// Generators are pure: they return a [Topology] of node and spring specs in
// local indices. [Topology.AddTo] loads one into a network.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/spring"
)

type NodeSpec struct {
	Pos  r2.Vec
	Mass float64
}

// SpringSpec joins Nodes[A] and Nodes[B]. Rest is always resolved.
type SpringSpec struct {
	A, B      int
	Rest      float64
	Stiffness float64
}

type Topology struct {
	Nodes   []NodeSpec
	Springs []SpringSpec
}

func (t *Topology) node(x, y, m float64) int {
	t.Nodes = append(t.Nodes, NodeSpec{Pos: r2.Vec{X: x, Y: y}, Mass: m})
	return len(t.Nodes) - 1
}

// link adds a spring; rest <= 0 takes the current distance.
func (t *Topology) link(a, b int, rest, k float64) {
	if rest <= 0 {
		rest = r2.Norm(r2.Sub(t.Nodes[b].Pos, t.Nodes[a].Pos))
	}
	t.Springs = append(t.Springs, SpringSpec{A: a, B: b, Rest: rest, Stiffness: k})
}

// Pendulum is two nodes joined by one spring.
func Pendulum(p1 r2.Vec, m1 float64, p2 r2.Vec, m2 float64, rest, k float64) Topology {
	var t Topology
	a := t.node(p1.X, p1.Y, m1)
	b := t.node(p2.X, p2.Y, m2)
	t.link(a, b, rest, k)
	return t
}

// Mesh is a w×h grid starting one cell right of and below origin, with
// horizontal and vertical springs at rest and two diagonal passes at diagRest.
func Mesh(origin r2.Vec, w, h int, dx, dy, m, rest, diagRest, k float64) Topology {
	var t Topology
	if w <= 0 || h <= 0 {
		return t
	}
	for y := 1; y <= h; y++ {
		for x := 1; x <= w; x++ {
			t.node(origin.X+float64(x)*dx, origin.Y+float64(y)*dy, m)
		}
	}

	for i := 0; i < w-1; i++ {
		for j := 0; j < h; j++ {
			t.link(i+w*j, i+1+w*j, rest, k)
		}
	}
	for i := 0; i < h-1; i++ {
		for j := 0; j < w; j++ {
			t.link(i*w+j, (i+1)*w+j, rest, k)
		}
	}

	// \
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			t.link(x+y*w, x+(y+1)*w+1, diagRest, k)
		}
	}
	// /
	for y := 0; y < h-1; y++ {
		for x := 1; x < w; x++ {
			t.link(x+y*w, x+(y+1)*w-1, diagRest, k)
		}
	}
	return t
}

// Circle is count rim nodes around a centre node. The centre is the last node.
func Circle(center r2.Vec, r float64, count int, centerMass, m, spokeRest, rimRest, k float64) Topology {
	var t Topology
	if count <= 0 {
		return t
	}
	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		th := float64(i) * step
		t.node(center.X+r*math.Sin(th), center.Y+r*math.Cos(th), m)
	}
	hub := t.node(center.X, center.Y, centerMass)

	for i := 0; i < count-1; i++ {
		t.link(i, i+1, rimRest, k)
	}
	for i := 0; i < count; i++ {
		t.link(i, hub, spokeRest, k)
	}
	if count > 1 {
		t.link(0, count-1, rimRest, k)
	}
	return t
}

// AddTo loads the topology into net and returns the IDs of its nodes in order.
// Edits are applied immediately.
func (t Topology) AddTo(net *spring.Network, damping float64, stringMode bool) ([]spring.NodeID, error) {
	ids := make([]spring.NodeID, len(t.Nodes))
	for i, n := range t.Nodes {
		id, err := net.AddNode(n.Pos, n.Mass)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		ids[i] = id
	}
	for i, s := range t.Springs {
		opts := spring.SpringOptions{Rest: s.Rest, Stiffness: s.Stiffness, Damping: damping, StringMode: stringMode}
		if err := net.AddSpring(ids[s.A], ids[s.B], opts); err != nil {
			return nil, fmt.Errorf("spring %d: %w", i, err)
		}
	}
	return ids, net.Apply()
}
