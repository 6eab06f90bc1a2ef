// Package dxf reads the ASCII DXF drawings sellers upload and renders a
// preview as SVG. It understands the entity types the CAD exports in the
// wild actually use: LINE, CIRCLE, ARC, POLYLINE, LWPOLYLINE and TEXT.
package dxf

// Point is a 2D coordinate. DXF z values are dropped.
type Point struct {
	X float64
	Y float64
}

// Entity is one drawing element from the ENTITIES section.
type Entity struct {
	Type string // LINE, CIRCLE, ARC, POLYLINE, LWPOLYLINE, TEXT

	// LINE endpoints or polyline vertices.
	Points []Point

	// CIRCLE and ARC geometry; angles in degrees.
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64

	// TEXT placement and content.
	Position Point
	Text     string
}

// Drawing holds the parsed entities of a DXF file.
type Drawing struct {
	Entities []Entity
}
