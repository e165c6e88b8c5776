package spring

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/integrators"
)

type editKind uint8

const (
	editAddNode editKind = iota
	editRemoveNode
	editAddSpring
	editRemoveSpring
)

type edit struct {
	kind   editKind
	node   *Node
	id     NodeID
	spring Spring
	opts   SpringOptions
}

// Network is an insertion-ordered collection of nodes and springs.
type Network struct {
	nodes   []*Node
	index   map[NodeID]int
	springs []*Spring
	nextID  NodeID
	pending []edit
	integ   dynamo.PointIntegrator
}

func NewNetwork() *Network {
	return &Network{
		index: make(map[NodeID]int),
		integ: integrators.NewDampedEuler(),
	}
}

// SetIntegrator replaces the node update rule.
func (n *Network) SetIntegrator(integ dynamo.PointIntegrator) { n.integ = integ }

// AddNode queues a new node and returns the ID it will have once applied.
func (n *Network) AddNode(pos r2.Vec, mass float64) (NodeID, error) {
	if !(mass > 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}
	n.nextID++
	node := &Node{ID: n.nextID, Pos: pos, mass: mass}
	n.pending = append(n.pending, edit{kind: editAddNode, node: node})
	return node.ID, nil
}

// RemoveNode queues removal of a node and every spring attached to it.
func (n *Network) RemoveNode(id NodeID) {
	n.pending = append(n.pending, edit{kind: editRemoveNode, id: id})
}

// AddSpring queues a spring between a and b. Both may be nodes that are
// themselves still queued.
func (n *Network) AddSpring(a, b NodeID, opts SpringOptions) error {
	if a == b {
		return ErrSameEndpoint
	}
	n.pending = append(n.pending, edit{kind: editAddSpring, spring: Spring{A: a, B: b}, opts: opts})
	return nil
}

// RemoveSpring queues removal of every spring joining a and b, in either direction.
func (n *Network) RemoveSpring(a, b NodeID) {
	n.pending = append(n.pending, edit{kind: editRemoveSpring, spring: Spring{A: a, B: b}})
}

// Pending reports the number of queued structural edits.
func (n *Network) Pending() int { return len(n.pending) }

// Apply flushes the edit queue in order. Rejected edits are skipped and
// reported together.
func (n *Network) Apply() error {
	var errs []error
	for _, e := range n.pending {
		if err := n.apply(e); err != nil {
			errs = append(errs, err)
		}
	}
	n.pending = n.pending[:0]
	return errors.Join(errs...)
}

func (n *Network) apply(e edit) error {
	switch e.kind {
	case editAddNode:
		n.index[e.node.ID] = len(n.nodes)
		n.nodes = append(n.nodes, e.node)
	case editRemoveNode:
		i, ok := n.index[e.id]
		if !ok {
			return fmt.Errorf("remove node %d: %w", e.id, ErrUnknownNode)
		}
		n.nodes = append(n.nodes[:i], n.nodes[i+1:]...)
		n.reindex()
		n.dropSprings(func(s *Spring) bool { return s.A == e.id || s.B == e.id })
	case editAddSpring:
		return n.attach(e.spring.A, e.spring.B, e.opts)
	case editRemoveSpring:
		a, b := e.spring.A, e.spring.B
		n.dropSprings(func(s *Spring) bool {
			return (s.A == a && s.B == b) || (s.A == b && s.B == a)
		})
	}
	return nil
}

func (n *Network) attach(a, b NodeID, opts SpringOptions) error {
	na, ok := n.Node(a)
	if !ok {
		return fmt.Errorf("add spring %d-%d: %w", a, b, ErrUnknownNode)
	}
	nb, ok := n.Node(b)
	if !ok {
		return fmt.Errorf("add spring %d-%d: %w", a, b, ErrUnknownNode)
	}

	rest := opts.Rest
	if rest <= 0 {
		rest = r2.Norm(r2.Sub(nb.Pos, na.Pos))
	}
	if !(rest > 0) {
		return fmt.Errorf("add spring %d-%d: %w", a, b, ErrInvalidRestLength)
	}

	n.springs = append(n.springs, &Spring{
		A:          a,
		B:          b,
		Rest:       rest,
		Stiffness:  opts.Stiffness,
		Damping:    opts.Damping,
		StringMode: opts.StringMode,
	})
	return nil
}

func (n *Network) dropSprings(match func(*Spring) bool) {
	kept := n.springs[:0]
	for _, s := range n.springs {
		if !match(s) {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(n.springs); i++ {
		n.springs[i] = nil
	}
	n.springs = kept
}

func (n *Network) reindex() {
	clear(n.index)
	for i, node := range n.nodes {
		n.index[node.ID] = i
	}
}

// Step advances the network one frame: accumulate spring forces, apply queued
// edits, then integrate. dt is accepted for the host loop's benefit; the
// update rule is per frame.
func (n *Network) Step(dt float64) error {
	n.accumulate()
	err := n.Apply()
	n.integrate()
	return err
}

func (n *Network) accumulate() {
	for _, s := range n.springs {
		a, b := n.nodes[n.index[s.A]], n.nodes[n.index[s.B]]
		f, ok := s.Force(a, b)
		if !ok {
			continue
		}
		a.Acc = r2.Add(a.Acc, r2.Scale(1/a.mass, f))
		b.Acc = r2.Sub(b.Acc, r2.Scale(1/b.mass, f))
	}
}

func (n *Network) integrate() {
	for _, node := range n.nodes {
		if node.held {
			node.Vel, node.Acc = r2.Vec{}, r2.Vec{}
			continue
		}
		n.integ.Advance(&node.Pos, &node.Vel, &node.Acc)
	}
}

// Node looks up a live node.
func (n *Network) Node(id NodeID) (*Node, bool) {
	i, ok := n.index[id]
	if !ok {
		return nil, false
	}
	return n.nodes[i], true
}

// Nearest returns the first node, in insertion order, closer than radius to p.
func (n *Network) Nearest(p r2.Vec, radius float64) (NodeID, bool) {
	for _, node := range n.nodes {
		if r2.Norm(r2.Sub(node.Pos, p)) < radius {
			return node.ID, true
		}
	}
	return 0, false
}

// Hold pins a node at p with zero velocity and acceleration until Release.
func (n *Network) Hold(id NodeID, p r2.Vec) bool {
	node, ok := n.Node(id)
	if !ok {
		return false
	}
	node.held = true
	node.Pos = p
	node.Vel, node.Acc = r2.Vec{}, r2.Vec{}
	return true
}

func (n *Network) Release(id NodeID) {
	if node, ok := n.Node(id); ok {
		node.held = false
	}
}

// SetStiffness writes k to every spring.
func (n *Network) SetStiffness(k float64) {
	for _, s := range n.springs {
		s.Stiffness = k
	}
}

// SetStringMode writes mode to every spring.
func (n *Network) SetStringMode(mode bool) {
	for _, s := range n.springs {
		s.StringMode = mode
	}
}

// Clear drops every node, spring and queued edit. IDs are not reused.
func (n *Network) Clear() {
	n.nodes = nil
	n.springs = nil
	n.pending = nil
	clear(n.index)
}

func (n *Network) NodeCount() int   { return len(n.nodes) }
func (n *Network) SpringCount() int { return len(n.springs) }

// Nodes returns copies of the live nodes in insertion order.
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	for i, node := range n.nodes {
		out[i] = *node
	}
	return out
}

// Springs returns copies of the live springs in insertion order.
func (n *Network) Springs() []Spring {
	out := make([]Spring, len(n.springs))
	for i, s := range n.springs {
		out[i] = *s
	}
	return out
}

// State flattens node positions as x0, y0, x1, y1, ...
func (n *Network) State() dynamo.State {
	x := make(dynamo.State, 0, 2*len(n.nodes))
	for _, node := range n.nodes {
		x = append(x, node.Pos.X, node.Pos.Y)
	}
	return x
}

// Energy is the total kinetic energy of the nodes.
func (n *Network) Energy() float64 {
	e := 0.0
	for _, node := range n.nodes {
		e += 0.5 * node.mass * r2.Dot(node.Vel, node.Vel)
	}
	return e
}
