package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/spring"
)

const (
	background  = "#0a0a0a"
	stretched   = "#ff5f5f"
	compressed  = "#5fafff"
	slackString = "#5f5f5f"
	nodeFill    = "#e0e0e0"
	heldFill    = "#ffd75f"
	waterFill   = "#1f5f9f"
	surfaceLine = "#5fd7ff"
)

// frame maps world points into a width x height picture, keeping aspect ratio.
type frame struct {
	lo     r2.Vec
	scale  float64
	offset r2.Vec
}

func fit(lo, hi r2.Vec, width, height int) frame {
	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% padding on every side
	lo = r2.Sub(lo, r2.Vec{X: rangeX * 0.1, Y: rangeY * 0.1})
	rangeX *= 1.2
	rangeY *= 1.2

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	return frame{
		lo:    lo,
		scale: scale,
		offset: r2.Vec{
			X: (float64(width) - rangeX*scale) / 2,
			Y: (float64(height) - rangeY*scale) / 2,
		},
	}
}

func (f frame) at(p r2.Vec) r2.Vec {
	return r2.Add(f.offset, r2.Scale(f.scale, r2.Sub(p, f.lo)))
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// NetworkToSVG draws springs as lines coloured by extension and nodes as
// circles sized by mass. World y already points down, as in SVG.
func NetworkToSVG(snap spring.Snapshot, width, height int) string {
	if len(snap.Points) == 0 {
		return ""
	}
	lo, hi := snap.Bounds()
	f := fit(lo, hi, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString("<g stroke-width=\"1.5\">\n")
	for _, l := range snap.Links {
		a, b := f.at(snap.Points[l.From]), f.at(snap.Points[l.To])
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, a.X, a.Y, b.X, b.Y, linkColor(l))
	}
	sb.WriteString("</g>\n")

	for i, p := range snap.Points {
		c := f.at(p)
		fill := nodeFill
		if snap.Held[i] {
			fill = heldFill
		}
		r := 2 + math.Log1p(snap.Masses[i])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c.X, c.Y, r, fill)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func linkColor(l spring.Link) string {
	switch {
	case l.StringMode && l.Extension < 0:
		return slackString
	case l.Extension < 0:
		return compressed
	default:
		return stretched
	}
}

// SurfaceToSVG draws a water column field as a filled surface in world units:
// columns span [0, width] and the undisturbed surface sits at level.
func SurfaceToSVG(heights []float64, level, width, height float64) string {
	if len(heights) < 2 || width <= 0 || height <= 0 {
		return ""
	}
	w, h := int(math.Ceil(width)), int(math.Ceil(height))

	var sb strings.Builder
	header(&sb, w, h)

	spacing := width / float64(len(heights)-1)
	var path strings.Builder
	fmt.Fprintf(&path, "M0,%.1f", height)
	for i, dh := range heights {
		fmt.Fprintf(&path, " L%.1f,%.1f", float64(i)*spacing, level+dh)
	}
	fmt.Fprintf(&path, " L%.1f,%.1f Z", width, height)

	fmt.Fprintf(&sb, `<path fill="%s" stroke="%s" stroke-width="1" d="%s"/>
</svg>`, waterFill, surfaceLine, path.String())
	return sb.String()
}
