// Package lab drives a spring network from polled user input.
//
// A [Lab] owns one network plus the interactive state around it: the shared
// stiffness knob, string mode, pause, the node held by the primary button and
// the node a secondary drag starts from. The host calls [Lab.Update] once per
// frame with that frame's [Input]; every structural edit it makes goes through
// the network's edit queue.
package lab

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/geometry"
	"github.com/san-kum/springlab/internal/spring"
)

// Scene builds the topologies loaded on reset. k is the signed spring
// stiffness for the current knob value.
type Scene func(k float64) []geometry.Topology

// TwoPendulums is the default scene: two heavy anchors with light bobs.
func TwoPendulums(k float64) []geometry.Topology {
	return []geometry.Topology{
		geometry.Pendulum(r2.Vec{X: 200, Y: 180}, 100, r2.Vec{X: 200, Y: 280}, 10, 50, k),
		geometry.Pendulum(r2.Vec{X: 400, Y: 180}, 100, r2.Vec{X: 400, Y: 280}, 10, 50, k),
	}
}

type Lab struct {
	opts  Options
	scene Scene
	net   *spring.Network

	stiffness  float64
	stringMode bool
	paused     bool

	clock   float64
	pointer r2.Vec

	selected    spring.NodeID
	lastPress   float64
	lastPressAt r2.Vec

	linkFrom    spring.NodeID
	linkPressAt r2.Vec
}

func New(opts Options, scene Scene) (*Lab, error) {
	if scene == nil {
		scene = TwoPendulums
	}
	l := &Lab{
		opts:      opts,
		scene:     scene,
		net:       spring.NewNetwork(),
		lastPress: -opts.DoubleClickWindow - 1,
	}
	if err := l.Reset(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reset discards the network and rebuilds the scene with default knobs.
func (l *Lab) Reset() error {
	l.net.Clear()
	l.stiffness = dynamo.Clamp(l.opts.Stiffness, l.opts.MinStiffness, l.opts.MaxStiffness)
	l.stringMode = l.opts.StringMode
	l.paused = false
	l.selected, l.linkFrom = 0, 0

	for i, topo := range l.scene(-l.stiffness) {
		if _, err := topo.AddTo(l.net, l.opts.Damping, l.stringMode); err != nil {
			return fmt.Errorf("scene topology %d: %w", i, err)
		}
	}
	return nil
}

// Update consumes one frame of input and then steps the network unless paused.
func (l *Lab) Update(in Input, dt float64) error {
	l.clock += dt
	l.pointer = in.Pointer

	if in.ToggleString {
		l.ToggleStringMode()
	}
	if in.StiffnessUp {
		l.AdjustStiffness(l.opts.StiffnessStep)
	} else if in.StiffnessDown {
		l.AdjustStiffness(-l.opts.StiffnessStep)
	}

	var errs []error

	switch {
	case in.Primary.Pressed:
		l.press(in.Pointer)
	case in.Primary.Held:
		l.DragTo(in.Pointer)
	case in.Primary.Released:
		l.Release()
	}

	switch {
	case in.Secondary.Pressed:
		l.linkPressAt = in.Pointer
		l.linkFrom, _ = l.Pick(in.Pointer)
	case in.Secondary.Released:
		errs = append(errs, l.drop(in.Pointer))
	}

	if in.Wheel != 0 && l.selected != 0 {
		l.AdjustMass(l.selected, in.Wheel/l.opts.WheelMassScale)
	}

	if in.TogglePause {
		l.paused = !l.paused
	}
	if in.Reset {
		return errors.Join(append(errs, l.Reset())...)
	}

	if l.paused && !in.StepOnce {
		errs = append(errs, l.net.Apply())
		return errors.Join(errs...)
	}
	errs = append(errs, l.net.Step(dt))
	return errors.Join(errs...)
}

func (l *Lab) press(p r2.Vec) {
	doubled := l.clock-l.lastPress < l.opts.DoubleClickWindow &&
		r2.Norm(r2.Sub(p, l.lastPressAt)) < l.opts.DoubleClickDistance
	l.lastPress = l.clock
	l.lastPressAt = p

	id, ok := l.Grab(p)
	if ok && doubled {
		l.DeleteNode(id)
	}
}

// Grab selects the node under p and pins it there.
func (l *Lab) Grab(p r2.Vec) (spring.NodeID, bool) {
	l.Release()
	id, ok := l.Pick(p)
	if !ok {
		l.selected = 0
		return 0, false
	}
	l.selected = id
	l.net.Hold(id, p)
	return id, true
}

// DragTo moves the grabbed node to p.
func (l *Lab) DragTo(p r2.Vec) {
	if l.selected != 0 {
		l.net.Hold(l.selected, p)
	}
}

// Release lets the grabbed node go. It stays selected for mass edits.
func (l *Lab) Release() {
	if l.selected != 0 {
		l.net.Release(l.selected)
	}
}

func (l *Lab) drop(p r2.Vec) error {
	from := l.linkFrom
	l.linkFrom = 0

	dist := r2.Norm(r2.Sub(p, l.linkPressAt))
	switch {
	case from == 0 && dist < l.opts.ClickDistance:
		_, err := l.CreateNode(p)
		return err
	case from != 0 && dist > l.opts.LinkDistance:
		return l.Link(from, p)
	}
	return nil
}

// Pick returns the first node within the pick radius of p.
func (l *Lab) Pick(p r2.Vec) (spring.NodeID, bool) {
	return l.net.Nearest(p, l.opts.PickRadius)
}

// CreateNode queues an isolated node of the default mass at p.
func (l *Lab) CreateNode(p r2.Vec) (spring.NodeID, error) {
	return l.net.AddNode(p, l.opts.NodeMass)
}

// DeleteNode queues removal of a node and its springs.
func (l *Lab) DeleteNode(id spring.NodeID) {
	if l.selected == id {
		l.net.Release(id)
		l.selected = 0
	}
	l.net.RemoveNode(id)
}

// Link connects from to the node under p, creating one there if the spot is
// empty. The spring starts pre-stretched at LinkRestRatio of the separation.
func (l *Lab) Link(from spring.NodeID, p r2.Vec) error {
	origin, ok := l.net.Node(from)
	if !ok {
		return fmt.Errorf("link from %d: %w", from, spring.ErrUnknownNode)
	}

	target, ok := l.Pick(p)
	targetPos := p
	if ok {
		n, _ := l.net.Node(target)
		targetPos = n.Pos
	} else {
		id, err := l.CreateNode(p)
		if err != nil {
			return err
		}
		target = id
	}

	rest := r2.Norm(r2.Sub(targetPos, origin.Pos)) * l.opts.LinkRestRatio
	return l.net.AddSpring(target, from, spring.SpringOptions{
		Rest:       rest,
		Stiffness:  -l.stiffness,
		Damping:    l.opts.Damping,
		StringMode: l.stringMode,
	})
}

// AdjustStiffness moves the shared knob, clamps it and writes it to every spring.
func (l *Lab) AdjustStiffness(delta float64) {
	l.SetStiffness(l.stiffness + delta)
}

func (l *Lab) SetStiffness(k float64) {
	l.stiffness = dynamo.Clamp(k, l.opts.MinStiffness, l.opts.MaxStiffness)
	l.net.SetStiffness(-l.stiffness)
}

func (l *Lab) ToggleStringMode() {
	l.stringMode = !l.stringMode
	l.net.SetStringMode(l.stringMode)
}

// AdjustMass adds delta to a node's mass; results that are not positive are ignored.
func (l *Lab) AdjustMass(id spring.NodeID, delta float64) {
	if n, ok := l.net.Node(id); ok {
		n.SetMass(n.Mass() + delta)
	}
}

func (l *Lab) SetPaused(p bool) { l.paused = p }

// Step advances the network regardless of pause, for headless runs.
func (l *Lab) Step(dt float64) error {
	l.clock += dt
	return l.net.Step(dt)
}

func (l *Lab) State() dynamo.State { return l.net.State() }
func (l *Lab) Energy() float64     { return l.net.Energy() }

func (l *Lab) Network() *spring.Network { return l.net }
func (l *Lab) Stiffness() float64       { return l.stiffness }
func (l *Lab) StringMode() bool         { return l.stringMode }
func (l *Lab) Paused() bool             { return l.paused }
func (l *Lab) Pointer() r2.Vec          { return l.pointer }

// Selected returns the node last picked by the primary button.
func (l *Lab) Selected() (spring.NodeID, bool) { return l.selected, l.selected != 0 }

// LinkOrigin returns the node a secondary drag started from, if any.
func (l *Lab) LinkOrigin() (spring.NodeID, bool) { return l.linkFrom, l.linkFrom != 0 }
