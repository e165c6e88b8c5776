package lab

import "gonum.org/v1/gonum/spatial/r2"

// Button is the per-frame state of a pointer button.
type Button struct {
	Pressed  bool // went down this frame
	Held     bool // down this frame and the previous one
	Released bool // went up this frame
}

// Input is one polled frame from the host's input source.
type Input struct {
	Pointer   r2.Vec
	Primary   Button
	Secondary Button
	Wheel     float64

	StiffnessUp   bool
	StiffnessDown bool

	ToggleString bool
	TogglePause  bool
	StepOnce     bool
	Reset        bool
}
