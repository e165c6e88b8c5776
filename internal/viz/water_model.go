package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/water"
)

const flashDuration = 0.6

// WaterModel is the interactive water surface front end.
type WaterModel struct {
	scene *water.Scene
	dt    float64
	view  Viewport
	theme Theme

	canvas *Canvas

	pointer, prev r2.Vec
	throws        []throw

	splashes int
	flash    *gween.Tween
	glow     float32

	lastErr error
}

type throw struct{ from, to r2.Vec }

func NewWaterModel(s *water.Scene, cols, rows int, dt float64) WaterModel {
	opts := s.Options()
	return WaterModel{
		scene:  s,
		dt:     dt,
		view:   Viewport{World: r2.Vec{X: opts.Width, Y: opts.Height}, Cols: cols, Rows: rows},
		theme:  ThemeOcean,
		canvas: NewCanvas(cols, rows),
	}
}

func (m WaterModel) Init() tea.Cmd { return tick() }

func (m WaterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := m.scene.Field()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "q":
			f.Tune(water.Tension, water.TuneFactor)
		case "w":
			f.Tune(water.Tension, 1/water.TuneFactor)
		case "a":
			f.Tune(water.Dampening, water.TuneFactor)
		case "s":
			f.Tune(water.Dampening, 1/water.TuneFactor)
		case "z":
			f.Tune(water.Spread, water.TuneFactor)
		case "x":
			f.Tune(water.Spread, 1/water.TuneFactor)
		case "r":
			m.scene.Reset()
			m.flash, m.glow = nil, 0
		case "t":
			m.theme = NextTheme(m.theme.Name)
		}
	case tea.MouseMsg:
		if msg.X < m.view.Cols && msg.Y < m.view.Rows {
			m.prev, m.pointer = m.pointer, m.view.Cell(msg.X, msg.Y)
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.throws = append(m.throws, throw{from: m.prev, to: m.pointer})
		}
	case TickMsg:
		m.frame()
		return m, tick()
	}
	return m, nil
}

func (m *WaterModel) frame() {
	for _, t := range m.throws {
		m.scene.Throw(t.from, t.to)
	}
	m.throws = m.throws[:0]
	m.prev = m.pointer

	m.lastErr = m.scene.Step(m.dt)

	if n := m.scene.Splashes(); n > m.splashes {
		m.splashes = n
		m.flash = gween.New(1, 0, flashDuration, ease.OutQuad)
	}
	if m.flash != nil {
		var done bool
		m.glow, done = m.flash.Update(float32(m.dt))
		if done {
			m.flash = nil
		}
	}
}

func (m *WaterModel) draw() {
	m.canvas.Clear()
	f := m.scene.Field()

	width := m.view.Cols * 2
	for x := 0; x < width; x++ {
		wx := (float64(x) + 0.5) / float64(width) * f.Width()
		_, y := m.view.Pixel(r2.Vec{X: wx, Y: f.SurfaceAt(wx)})
		m.canvas.FillBelow(x, y)
	}
	for _, b := range m.scene.Bodies() {
		x, y := m.view.Pixel(b.Pos)
		m.canvas.DrawDisc(x, y, 2)
	}
}

func (m WaterModel) View() string {
	m.draw()
	color := m.theme.Primary
	if m.glow > 0.5 {
		color = m.theme.Flash
	}
	canvasView := lipgloss.NewStyle().Foreground(color).Render(m.canvas.String())

	f := m.scene.Field()
	var s strings.Builder
	s.WriteString(headerStyle.Render("WATER") + "\n")
	s.WriteString(row("Time", fmt.Sprintf("%.2f", f.Time())))
	s.WriteString(row("Rocks", fmt.Sprintf("%d", len(m.scene.Bodies()))))
	s.WriteString(row("Splashes", fmt.Sprintf("%d", m.splashes)))
	s.WriteString(row("Energy", fmt.Sprintf("%.2f", m.scene.Energy())))
	s.WriteString("\n")
	s.WriteString(row("Tension", fmt.Sprintf("%.4f ", f.Tension())+
		KnobBar(f.Tension(), water.MinTension, water.MaxTension, 10)))
	s.WriteString(row("Dampening", fmt.Sprintf("%.4f ", f.Dampening())+
		KnobBar(f.Dampening(), water.MinDampening, water.MaxDampening, 10)))
	s.WriteString(row("Spread", fmt.Sprintf("%.4f ", f.Spread())+
		KnobBar(f.Spread(), water.MinSpread, water.MaxSpread, 10)))
	if m.lastErr != nil {
		s.WriteString(StatusError.Render(m.lastErr.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("Click:Rock R:Reset T:Theme Esc:Quit\nQ/W:Tension A/S:Dampening Z/X:Spread"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func RunWater(m WaterModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
