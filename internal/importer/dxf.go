package importer

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SlabTile/internal/geometry"
	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
)

const (
	// rectangularity is the minimum outline-to-bounding-box area ratio for an
	// outline to count as a rectangle.
	rectangularity = 0.999

	// joinTolerance is the largest gap between two edge ends that still joins them.
	joinTolerance = 0.01

	arcSteps    = 32
	circleSteps = 64
)

// ImportDXF reads a room from a DXF drawing. Closed shapes are collected from
// LWPOLYLINE and CIRCLE entities and from loops of connected LINEs and ARCs;
// the largest one becomes the room, using its bounding box as the enclosure.
// The room keeps the drawing's coordinates so exports line up with the plan.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var sc shapeCollector
	for _, ent := range entities {
		sc.add(ent)
	}
	if sc.shortPolylines > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d LWPOLYLINE(s) with fewer than 3 vertices", sc.shortPolylines))
	}

	outlines := sc.outlines()
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].Area() > outlines[j].Area()
	})
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Using the largest of %d closed shapes as the room", len(outlines)))
	}

	room, warning, err := roomFromOutline(outlines[0], strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.Rooms = append(result.Rooms, room)

	logging.Logger().Debug("imported DXF room",
		"path", path, "width", room.Width, "height", room.Height, "shapes", len(outlines))
	return result
}

// roomFromOutline returns the enclosure covering outline's bounding box and
// a warning when the outline is not itself a rectangle.
func roomFromOutline(outline model.Outline, label string) (model.Enclosure, string, error) {
	lo, hi := outline.BoundingBox()
	size := hi.Sub(lo)
	if size.X < joinTolerance || size.Y < joinTolerance {
		return model.Enclosure{}, "", fmt.Errorf("Room outline is degenerate (%.2f x %.2f)", size.X, size.Y)
	}

	var warning string
	if deg, ok := rotatedRectangle(outline); ok {
		warning = fmt.Sprintf("Room outline is a rectangle rotated by %.1f degrees, using its %.0f x %.0f bounding box", deg, size.X, size.Y)
	} else if outline.Area() < rectangularity*size.X*size.Y {
		warning = fmt.Sprintf("Room outline is not rectangular, using its %.0f x %.0f bounding box", size.X, size.Y)
	}

	room := model.NewEnclosure(label, size.X, size.Y)
	room.Origin = lo
	return room, warning, nil
}

// rotatedRectangle reports whether the outline is a rectangle whose sides
// are not axis aligned, with its rotation folded into [0, 90) degrees.
func rotatedRectangle(o model.Outline) (float64, bool) {
	if len(o) != 4 {
		return 0, false
	}
	for i := range o {
		u := o[(i+1)%4].Sub(o[i])
		v := o[(i+2)%4].Sub(o[(i+1)%4])
		if !geometry.IsOrthogonal(u, v) {
			return 0, false
		}
	}
	side := o[1].Sub(o[0])
	axis := model.Point2D{X: 1}
	if geometry.IsParallel(side, axis) || geometry.IsOrthogonal(side, axis) {
		return 0, false
	}
	deg := math.Mod(math.Atan2(side.Y, side.X)*180/math.Pi, 90)
	if deg < 0 {
		deg += 90
	}
	return deg, true
}

// edge is a straight piece of a LINE or a sampled ARC, waiting to be joined
// into a closed loop.
type edge struct {
	a, b model.Point2D
}

// shapeCollector sorts drawing entities into ready outlines and loose edges.
type shapeCollector struct {
	closed         []model.Outline
	loose          []edge
	shortPolylines int
}

func (sc *shapeCollector) add(ent entity.Entity) {
	switch e := ent.(type) {
	case *entity.LwPolyline:
		if outline := polylineOutline(e); len(outline) >= 3 {
			sc.closed = append(sc.closed, outline)
		} else {
			sc.shortPolylines++
		}

	case *entity.Circle:
		center := model.Point2D{X: e.Center[0], Y: e.Center[1]}
		ring := sweep(center, e.Radius, 0, 2*math.Pi, circleSteps)
		sc.closed = append(sc.closed, model.Outline(ring[:circleSteps]))

	case *entity.Arc:
		center := model.Point2D{X: e.Circle.Center[0], Y: e.Circle.Center[1]}
		from := e.Angle[0] * math.Pi / 180
		span := e.Angle[1]*math.Pi/180 - from
		if span <= 0 {
			span += 2 * math.Pi
		}
		pts := sweep(center, e.Circle.Radius, from, span, arcSteps)
		for i := 1; i < len(pts); i++ {
			sc.loose = append(sc.loose, edge{a: pts[i-1], b: pts[i]})
		}

	case *entity.Line:
		sc.loose = append(sc.loose, edge{
			a: model.Point2D{X: e.Start[0], Y: e.Start[1]},
			b: model.Point2D{X: e.End[0], Y: e.End[1]},
		})
	}
}

// outlines returns every closed shape found, polylines and circles first.
func (sc *shapeCollector) outlines() []model.Outline {
	out := append([]model.Outline(nil), sc.closed...)
	return append(out, joinEdges(sc.loose, joinTolerance)...)
}

// polylineOutline flattens an LWPOLYLINE, replacing bulged spans with arcs.
func polylineOutline(lw *entity.LwPolyline) model.Outline {
	n := len(lw.Vertices)
	outline := make(model.Outline, 0, n)
	for i, v := range lw.Vertices {
		p := model.Point2D{X: v[0], Y: v[1]}
		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) <= 1e-9 {
			outline = append(outline, p)
			continue
		}
		w := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(p, model.Point2D{X: w[0], Y: w[1]}, lw.Bulges[i], arcSteps)
		outline = append(outline, arc[:len(arc)-1]...)
	}
	return outline
}

// bulgeArcPoints samples the arc from p to q described by a DXF bulge, the
// tangent of a quarter of the included angle. Positive bulges turn
// counter-clockwise. The result holds steps+1 points from p to q.
func bulgeArcPoints(p, q model.Point2D, bulge float64, steps int) []model.Point2D {
	chord := q.Sub(p)
	c := math.Hypot(chord.X, chord.Y)
	if c < 1e-9 {
		return []model.Point2D{p, q}
	}

	theta := 4 * math.Atan(bulge)
	half := theta / 2
	// Distance from the chord midpoint to the centre, positive to the left of p->q.
	h := (c / 2) * math.Cos(half) / math.Sin(half)
	left := model.Point2D{X: -chord.Y / c, Y: chord.X / c}
	center := model.Point2D{
		X: (p.X+q.X)/2 + left.X*h,
		Y: (p.Y+q.Y)/2 + left.Y*h,
	}

	radius := (c / 2) / math.Abs(math.Sin(half))
	from := math.Atan2(p.Y-center.Y, p.X-center.X)
	return sweep(center, radius, from, theta, steps)
}

// sweep samples steps+1 points on a circle, starting at angle from and
// turning by span radians.
func sweep(center model.Point2D, radius, from, span float64, steps int) []model.Point2D {
	pts := make([]model.Point2D, steps+1)
	for i := range pts {
		sin, cos := math.Sincos(from + span*float64(i)/float64(steps))
		pts[i] = model.Point2D{X: center.X + radius*cos, Y: center.Y + radius*sin}
	}
	return pts
}

// joinEdges links edges end to end and returns the loops that close within
// tol. Open chains are dropped.
func joinEdges(edges []edge, tol float64) []model.Outline {
	rest := append([]edge(nil), edges...)
	var loops []model.Outline

	for len(rest) > 0 {
		loop := []model.Point2D{rest[0].a, rest[0].b}
		rest = rest[1:]

		for {
			i, next, ok := nextEdge(rest, loop[len(loop)-1], tol)
			if !ok {
				break
			}
			loop = append(loop, next)
			rest = append(rest[:i], rest[i+1:]...)
		}

		if len(loop) > 3 && near(loop[0], loop[len(loop)-1], tol) {
			loops = append(loops, model.Outline(loop[:len(loop)-1]))
		}
	}
	return loops
}

// nextEdge finds an edge touching tail and returns its index and far end.
func nextEdge(edges []edge, tail model.Point2D, tol float64) (int, model.Point2D, bool) {
	for i, e := range edges {
		switch {
		case near(tail, e.a, tol):
			return i, e.b, true
		case near(tail, e.b, tol):
			return i, e.a, true
		}
	}
	return -1, model.Point2D{}, false
}

func near(a, b model.Point2D, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}
