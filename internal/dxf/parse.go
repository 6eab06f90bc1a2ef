package dxf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads an ASCII DXF stream and returns its ENTITIES section. Unknown
// entity types and group codes are skipped, so a partially understood file
// still yields the entities we can draw.
func Parse(r io.Reader) (*Drawing, error) {
	pairs, err := readPairs(r)
	if err != nil {
		return nil, err
	}

	d := &Drawing{}
	i := findEntitiesSection(pairs)
	if i < 0 {
		return d, nil
	}

	var current *Entity
	var pendingPoint *Point // holds an x (code 10/11) waiting for its y

	flush := func() {
		if current != nil {
			d.Entities = append(d.Entities, *current)
			current = nil
		}
		pendingPoint = nil
	}

	for ; i < len(pairs); i++ {
		p := pairs[i]

		if p.code == 0 {
			switch p.value {
			case "ENDSEC":
				flush()
				return d, nil
			case "LINE", "CIRCLE", "ARC", "LWPOLYLINE", "TEXT", "POLYLINE":
				flush()
				current = &Entity{Type: p.value}
			case "VERTEX":
				// Vertices fold into the enclosing POLYLINE.
				if current == nil || current.Type != "POLYLINE" {
					flush()
				}
				pendingPoint = nil
			case "SEQEND":
				// Terminates a POLYLINE's vertex run; keep the entity open
				// until the next code 0 flushes it.
				pendingPoint = nil
			default:
				flush()
			}
			continue
		}
		if current == nil {
			continue
		}

		switch p.code {
		case 10:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			pendingPoint = &Point{X: v}
		case 20:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			if pendingPoint == nil {
				continue
			}
			pendingPoint.Y = v
			switch current.Type {
			case "CIRCLE", "ARC":
				current.Center = *pendingPoint
			case "TEXT":
				current.Position = *pendingPoint
			default:
				current.Points = append(current.Points, *pendingPoint)
			}
			pendingPoint = nil
		case 11:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			pendingPoint = &Point{X: v}
		case 21:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			if pendingPoint == nil {
				continue
			}
			pendingPoint.Y = v
			if current.Type == "LINE" {
				current.Points = append(current.Points, *pendingPoint)
			}
			pendingPoint = nil
		case 40:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			current.Radius = v
		case 50:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			current.StartAngle = v
		case 51:
			v, err := parseFloat(p.value)
			if err != nil {
				return nil, err
			}
			current.EndAngle = v
		case 1:
			if current.Type == "TEXT" {
				current.Text = p.value
			}
		}
	}
	flush()
	return d, nil
}

type pair struct {
	code  int
	value string
}

// readPairs scans the alternating group-code / value lines of an ASCII DXF.
func readPairs(r io.Reader) ([]pair, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pairs []pair
	for sc.Scan() {
		codeLine := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			return nil, fmt.Errorf("dxf: group code %q has no value line", codeLine)
		}
		code, err := strconv.Atoi(codeLine)
		if err != nil {
			return nil, fmt.Errorf("dxf: invalid group code %q", codeLine)
		}
		pairs = append(pairs, pair{code: code, value: strings.TrimSpace(sc.Text())})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dxf: read: %w", err)
	}
	return pairs, nil
}

// findEntitiesSection returns the index of the first pair after
// "0 SECTION / 2 ENTITIES", or -1 when the file has no such section.
func findEntitiesSection(pairs []pair) int {
	for i := 0; i+1 < len(pairs); i++ {
		if pairs[i].code == 0 && pairs[i].value == "SECTION" &&
			pairs[i+1].code == 2 && pairs[i+1].value == "ENTITIES" {
			return i + 2
		}
	}
	return -1
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("dxf: invalid number %q", s)
	}
	return v, nil
}
