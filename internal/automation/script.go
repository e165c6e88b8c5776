package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springlab/internal/lab"
)

// Actions understood in a script event.
const (
	ActionMove         = "move"
	ActionPress        = "press"
	ActionRelease      = "release"
	ActionRightPress   = "right_press"
	ActionRightRelease = "right_release"
	ActionWheel        = "wheel"
	ActionStiffer      = "stiffer"
	ActionSofter       = "softer"
	ActionToggleString = "string"
	ActionTogglePause  = "pause"
	ActionStep         = "step"
	ActionReset        = "reset"
)

var knownActions = []string{
	ActionMove, ActionPress, ActionRelease, ActionRightPress, ActionRightRelease,
	ActionWheel, ActionStiffer, ActionSofter, ActionToggleString, ActionTogglePause,
	ActionStep, ActionReset,
}

var ErrUnknownAction = errors.New("automation: unknown action")

// Script is a recorded interactive session: pointer and key events keyed by
// the frame they happen on.
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Scenario    string  `yaml:"scenario"`
	Frames      int     `yaml:"frames"`
	Events      []Event `yaml:"events"`
}

// Event is one input on one frame. X and Y move the pointer for every action;
// Amount is the wheel delta.
type Event struct {
	Frame  int     `yaml:"frame"`
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Amount float64 `yaml:"amount,omitempty"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(s.Events, func(a, b Event) int { return a.Frame - b.Frame })
	return &s, nil
}

func (s *Script) Validate() error {
	var errs []error
	for i, e := range s.Events {
		if !slices.Contains(knownActions, e.Action) {
			errs = append(errs, fmt.Errorf("event %d: %w: %q", i, ErrUnknownAction, e.Action))
		}
		if e.Frame < 0 {
			errs = append(errs, fmt.Errorf("event %d: negative frame %d", i, e.Frame))
		}
	}
	return errors.Join(errs...)
}

// Length is the number of frames a replay runs: Frames, or one past the last
// event if that is later.
func (s *Script) Length() int {
	n := s.Frames
	for _, e := range s.Events {
		n = max(n, e.Frame+1)
	}
	return n
}

// Inputs expands the events into one lab.Input per frame. The pointer keeps
// its last position and a pressed button reports Held until released.
func (s *Script) Inputs() []lab.Input {
	out := make([]lab.Input, s.Length())
	var (
		pointer         r2.Vec
		primary, second bool
		next            int
	)
	for f := range out {
		in := lab.Input{
			Pointer:   pointer,
			Primary:   lab.Button{Held: primary},
			Secondary: lab.Button{Held: second},
		}
		for ; next < len(s.Events) && s.Events[next].Frame == f; next++ {
			e := s.Events[next]
			pointer = r2.Vec{X: e.X, Y: e.Y}
			in.Pointer = pointer
			switch e.Action {
			case ActionPress:
				in.Primary = lab.Button{Pressed: true}
				primary = true
			case ActionRelease:
				in.Primary = lab.Button{Released: true}
				primary = false
			case ActionRightPress:
				in.Secondary = lab.Button{Pressed: true}
				second = true
			case ActionRightRelease:
				in.Secondary = lab.Button{Released: true}
				second = false
			case ActionWheel:
				in.Wheel += e.Amount
			case ActionStiffer:
				in.StiffnessUp = true
			case ActionSofter:
				in.StiffnessDown = true
			case ActionToggleString:
				in.ToggleString = true
			case ActionTogglePause:
				in.TogglePause = true
			case ActionStep:
				in.StepOnce = true
			case ActionReset:
				in.Reset = true
			}
		}
		out[f] = in
	}
	return out
}

// Replay feeds the script into l one frame at a time. onFrame, if set, sees
// the lab after every frame.
func Replay(ctx context.Context, l *lab.Lab, s *Script, dt float64, onFrame func(frame int, l *lab.Lab)) error {
	for f, in := range s.Inputs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Update(in, dt); err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		if onFrame != nil {
			onFrame(f, l)
		}
	}
	return nil
}
