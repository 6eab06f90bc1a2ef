package dxf

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const (
	canvasWidth  = 600
	canvasHeight = 500
	strokeColor  = "#ff0000"
	maxScale     = 2.0
)

// RenderSVG draws the entities onto a fixed 600x500 preview card. The drawing
// is centered and scaled to fit a 400x300 area, never magnified beyond 2x.
func RenderSVG(d *Drawing, filename string) string {
	var body strings.Builder
	b := newBounds()

	for i := range d.Entities {
		renderEntity(&body, &d.Entities[i], b)
	}

	transform := `translate(50, 50)`
	if b.valid() {
		w := b.maxX - b.minX
		h := b.maxY - b.minY
		scale := math.Min(math.Min(400/w, 300/h), maxScale)
		cx := (b.minX + b.maxX) / 2
		cy := (b.minY + b.maxY) / 2
		transform = fmt.Sprintf("translate(300, 250) scale(%s) translate(%s, %s)",
			fnum(scale), fnum(-cx), fnum(-cy))
	}

	if len(d.Entities) == 0 {
		body.WriteString(`<text x="300" y="250" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" fill="#65676b">No drawing entities found</text>`)
	}

	var svg strings.Builder
	svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`,
		canvasWidth, canvasHeight, canvasWidth, canvasHeight))
	svg.WriteString(`<rect width="100%" height="100%" fill="#ffffff" stroke="#e4e6ea" stroke-width="2" rx="12"/>`)
	svg.WriteString(fmt.Sprintf(`<g transform="%s">`, transform))
	svg.WriteString(body.String())
	svg.WriteString(`</g>`)
	svg.WriteString(`<text x="300" y="420" text-anchor="middle" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="#1c1e21">DXF File Preview</text>`)
	svg.WriteString(fmt.Sprintf(`<text x="300" y="440" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="#65676b">%s</text>`, html.EscapeString(filename)))
	svg.WriteString(`<circle cx="540" cy="40" r="8" fill="#28a745"/>`)
	svg.WriteString(`</svg>`)
	return svg.String()
}

// FallbackSVG is served when a drawing cannot be read or parsed.
func FallbackSVG(filename string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, canvasWidth, canvasHeight) +
		`<rect width="100%" height="100%" fill="#ffffff" stroke="#e4e6ea" stroke-width="2" rx="12"/>` +
		`<text x="300" y="250" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" fill="#65676b">Unable to load DXF file</text>` +
		fmt.Sprintf(`<text x="300" y="270" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="#888">%s</text>`, html.EscapeString(filename)) +
		`</svg>`
}

func renderEntity(w *strings.Builder, e *Entity, b *bounds) {
	switch e.Type {
	case "LINE":
		if len(e.Points) < 2 {
			return
		}
		p1, p2 := e.Points[0], e.Points[1]
		b.add(p1.X, p1.Y)
		b.add(p2.X, p2.Y)
		fmt.Fprintf(w, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`,
			fnum(p1.X), fnum(p1.Y), fnum(p2.X), fnum(p2.Y), strokeColor)

	case "CIRCLE":
		if e.Radius == 0 {
			return
		}
		b.add(e.Center.X-e.Radius, e.Center.Y-e.Radius)
		b.add(e.Center.X+e.Radius, e.Center.Y+e.Radius)
		fmt.Fprintf(w, `<circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			fnum(e.Center.X), fnum(e.Center.Y), fnum(e.Radius), strokeColor)

	case "ARC":
		if e.Radius == 0 {
			return
		}
		b.add(e.Center.X-e.Radius, e.Center.Y-e.Radius)
		b.add(e.Center.X+e.Radius, e.Center.Y+e.Radius)
		start := e.StartAngle * math.Pi / 180
		end := e.EndAngle * math.Pi / 180
		x1 := e.Center.X + e.Radius*math.Cos(start)
		y1 := e.Center.Y + e.Radius*math.Sin(start)
		x2 := e.Center.X + e.Radius*math.Cos(end)
		y2 := e.Center.Y + e.Radius*math.Sin(end)
		largeArc := 0
		if math.Abs(end-start) > math.Pi {
			largeArc = 1
		}
		fmt.Fprintf(w, `<path d="M %s %s A %s %s 0 %d 1 %s %s" fill="none" stroke="%s" stroke-width="2"/>`,
			fnum(x1), fnum(y1), fnum(e.Radius), fnum(e.Radius), largeArc, fnum(x2), fnum(y2), strokeColor)

	case "POLYLINE", "LWPOLYLINE":
		if len(e.Points) < 2 {
			return
		}
		var path strings.Builder
		fmt.Fprintf(&path, "M %s %s", fnum(e.Points[0].X), fnum(e.Points[0].Y))
		b.add(e.Points[0].X, e.Points[0].Y)
		for _, p := range e.Points[1:] {
			fmt.Fprintf(&path, " L %s %s", fnum(p.X), fnum(p.Y))
			b.add(p.X, p.Y)
		}
		fmt.Fprintf(w, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`, path.String(), strokeColor)

	case "TEXT":
		if e.Text == "" {
			return
		}
		b.add(e.Position.X, e.Position.Y)
		b.add(e.Position.X+float64(len(e.Text))*10, e.Position.Y+20)
		fmt.Fprintf(w, `<text x="%s" y="%s" font-family="Arial, sans-serif" font-size="12" fill="%s">%s</text>`,
			fnum(e.Position.X), fnum(e.Position.Y), strokeColor, html.EscapeString(e.Text))
	}
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func newBounds() *bounds {
	return &bounds{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

func (b *bounds) valid() bool {
	return !math.IsInf(b.minX, 1) && b.maxX > b.minX && b.maxY > b.minY
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
