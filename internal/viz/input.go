package viz

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/springlab/internal/lab"
)

const frameRate = 60

// WheelNotch is the wheel delta reported per scroll step, matching the usual
// desktop value so mass edits feel the same in a terminal.
const WheelNotch = 120.0

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// buttonTracker turns press and release events arriving between ticks into
// per-frame button states. A press and release inside one frame are
// reported over two frames so neither is lost.
type buttonTracker struct {
	down, pressed, released bool
}

func (b *buttonTracker) press() {
	b.down = true
	b.pressed = true
}

func (b *buttonTracker) release() {
	if b.down || b.pressed {
		b.down = false
		b.released = true
	}
}

func (b *buttonTracker) frame() lab.Button {
	switch {
	case b.pressed:
		b.pressed = false
		return lab.Button{Pressed: true}
	case b.released:
		b.released = false
		return lab.Button{Released: true}
	case b.down:
		return lab.Button{Held: true}
	}
	return lab.Button{}
}
