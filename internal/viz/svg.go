package viz

import (
	"fmt"
	"strings"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG draws every lit braille dot as a circle, scale units apart.
func CanvasToSVG(c *Canvas, scale float64, fill string) string {
	if c == nil {
		return ""
	}
	w := int(float64(c.PixelWidth()) * scale)
	h := int(float64(c.PixelHeight()) * scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h)
	fmt.Fprintf(&sb, "<g fill=%q>\n", fill)

	r := scale * 0.4
	for y := 0; y < c.PixelHeight(); y++ {
		for x := 0; x < c.PixelWidth(); x++ {
			if c.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SceneToSVG renders a scene as vector graphics: node domains as lines and
// particles as dots.
func SceneToSVG(sc Scene, cam *Camera, width, height int, t Theme) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)

	fmt.Fprintf(&sb, "<g stroke=%q stroke-width=\"0.6\" fill=\"none\">\n", string(t.Muted))
	for _, box := range sc.Boxes {
		for _, e := range BoxEdges(box) {
			x0, y0, _, ok0 := cam.Project(e.A, width, height)
			x1, y1, _, ok1 := cam.Project(e.B, width, height)
			if ok0 || ok1 {
				fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", x0, y0, x1, y1)
			}
		}
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, "<g fill=%q>\n", string(t.Secondary))
	for _, p := range sc.Points {
		if x, y, _, ok := cam.Project(p, width, height); ok {
			fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"1.5\"/>\n", x, y)
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
