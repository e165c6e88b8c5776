package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/lab"
)

const historyCapacity = 300

// LabModel is the interactive spring network front end.
type LabModel struct {
	lab   *lab.Lab
	dt    float64
	view  Viewport
	theme Theme

	canvas  *Canvas
	pending lab.Input
	primary buttonTracker
	second  buttonTracker

	energyHistory []float64
	lastErr       error
}

// NewLabModel renders l into a cols x rows canvas covering world.
func NewLabModel(l *lab.Lab, world r2.Vec, cols, rows int, dt float64) LabModel {
	return LabModel{
		lab:    l,
		dt:     dt,
		view:   Viewport{World: world, Cols: cols, Rows: rows},
		theme:  Themes[0],
		canvas: NewCanvas(cols, rows),
	}
}

func (m LabModel) Init() tea.Cmd { return tick() }

func (m LabModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.pending.StiffnessUp = true
		case "down", "j":
			m.pending.StiffnessDown = true
		case " ":
			m.pending.ToggleString = true
		case "p":
			m.pending.TogglePause = true
		case "right", "l":
			m.pending.StepOnce = true
		case "r", "f5":
			m.pending.Reset = true
		case "t":
			m.theme = NextTheme(m.theme.Name)
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		m.frame()
		return m, tick()
	}
	return m, nil
}

func (m *LabModel) mouse(msg tea.MouseMsg) {
	if msg.X < m.view.Cols && msg.Y < m.view.Rows {
		m.pending.Pointer = m.view.Cell(msg.X, msg.Y)
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.primary.press()
		case tea.MouseButtonRight:
			m.second.press()
		case tea.MouseButtonWheelUp:
			m.pending.Wheel += WheelNotch
		case tea.MouseButtonWheelDown:
			m.pending.Wheel -= WheelNotch
		}
	case tea.MouseActionRelease:
		// Most terminals do not say which button went up.
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.primary.release()
		case tea.MouseButtonRight:
			m.second.release()
		default:
			m.primary.release()
			m.second.release()
		}
	}
}

// frame hands the input gathered since the last tick to the lab.
func (m *LabModel) frame() {
	in := m.pending
	in.Primary = m.primary.frame()
	in.Secondary = m.second.frame()
	m.pending = lab.Input{Pointer: in.Pointer}

	m.lastErr = m.lab.Update(in, m.dt)

	m.energyHistory = append(m.energyHistory, m.lab.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[len(m.energyHistory)-historyCapacity:]
	}
}

func (m *LabModel) draw() {
	m.canvas.Clear()
	snap := m.lab.Network().Snapshot()

	for _, l := range snap.Links {
		x0, y0 := m.view.Pixel(snap.Points[l.From])
		x1, y1 := m.view.Pixel(snap.Points[l.To])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for i, p := range snap.Points {
		x, y := m.view.Pixel(p)
		r := 1 + int(math.Log10(1+snap.Masses[i]))
		m.canvas.DrawDisc(x, y, r)
	}

	if id, ok := m.lab.Selected(); ok {
		if n, ok := m.lab.Network().Node(id); ok {
			x, y := m.view.Pixel(n.Pos)
			m.canvas.DrawLine(x-4, y-4, x+4, y-4)
			m.canvas.DrawLine(x-4, y+4, x+4, y+4)
		}
	}
	if id, ok := m.lab.LinkOrigin(); ok {
		if n, ok := m.lab.Network().Node(id); ok {
			x0, y0 := m.view.Pixel(n.Pos)
			x1, y1 := m.view.Pixel(m.lab.Pointer())
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}
}

func (m LabModel) View() string {
	m.draw()
	canvasView := lipgloss.NewStyle().Foreground(m.theme.Primary).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("SPRING LAB") + "\n")
	if m.lab.Paused() {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	}

	net := m.lab.Network()
	opts := lab.DefaultOptions()
	s.WriteString(row("Nodes", fmt.Sprintf("%d", net.NodeCount())))
	s.WriteString(row("Springs", fmt.Sprintf("%d", net.SpringCount())))
	s.WriteString(row("Stiffness", fmt.Sprintf("%.2f ", m.lab.Stiffness())+
		KnobBar(m.lab.Stiffness(), opts.MinStiffness, opts.MaxStiffness, 10)))
	s.WriteString(row("String", fmt.Sprintf("%v", m.lab.StringMode())))
	if id, ok := m.lab.Selected(); ok {
		if n, ok := net.Node(id); ok {
			s.WriteString(row("Mass", fmt.Sprintf("%.2f", n.Mass())))
		}
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.lastErr != nil {
		s.WriteString(StatusError.Render(m.lastErr.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("L:Drag L2:Delete R:Node/Link\n↑↓:Stiffness SP:String P:Pause\n→:Step R:Reset T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// RunLab opens the lab in the alternate screen with mouse reporting.
func RunLab(m LabModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
