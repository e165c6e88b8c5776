package analysis

import (
	"strings"

	"github.com/san-kum/springlab/internal/dynamo"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// PhasePortrait pairs state components xIdx and yIdx of a recorded run.
func PhasePortrait(states []dynamo.State, xIdx, yIdx int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}
	for _, x := range states {
		if xIdx >= len(x) || yIdx >= len(x) {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: x[xIdx], Y: x[yIdx]})
	}
	return portrait
}

// PhasePortraitToASCII plots the portrait on a width x height character grid,
// with 10% padding and axes drawn where zero is in range.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := portrait.Points[0], portrait.Points[0]
	for _, p := range portrait.Points[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	spanX, spanY := padded(lo.X, hi.X), padded(lo.Y, hi.Y)
	lo.X -= spanX / 12
	lo.Y -= spanY / 12

	col := func(x float64) int { return int((x - lo.X) / spanX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-lo.Y)/spanY*float64(height-1)) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	if c := col(0); c >= 0 && c < width {
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if r := row(0); r >= 0 && r < height {
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}
	for _, p := range portrait.Points {
		if r, c := row(p.Y), col(p.X); r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// padded widens a range by a tenth on each side; a flat range becomes 1.
func padded(lo, hi float64) float64 {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return span * 1.2
}
