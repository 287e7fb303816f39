package geometry

import (
	"math"
	"sort"

	"github.com/piwi3910/SlabTile/internal/model"
)

const angleTieTolerance = 1e-9

// ClockwiseSort orders an unordered bag of convex polygon vertices clockwise
// in a y-up frame. The output starts at the lowest point (leftmost on ties);
// the remaining points follow by ascending atan2(dx, dy) about it.
// Near-identical points are dropped. The input is not modified.
func ClockwiseSort(points []model.Point2D) []model.Point2D {
	pts := dedup(points)
	if len(pts) < 2 {
		return pts
	}

	eps := pointTolerance(pts)
	anchor := 0
	for i := 1; i < len(pts); i++ {
		p, a := pts[i], pts[anchor]
		if p.Y < a.Y-eps || (math.Abs(p.Y-a.Y) <= eps && p.X < a.X) {
			anchor = i
		}
	}
	pts[0], pts[anchor] = pts[anchor], pts[0]
	origin := pts[0]
	rest := pts[1:]

	type keyed struct {
		p     model.Point2D
		angle float64
		dist  float64
	}
	items := make([]keyed, len(rest))
	maxAngle := math.Inf(-1)
	for i, p := range rest {
		d := p.Sub(origin)
		items[i] = keyed{p: p, angle: math.Atan2(d.X, d.Y), dist: dot(d, d)}
		maxAngle = math.Max(maxAngle, items[i].angle)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if math.Abs(a.angle-b.angle) > angleTieTolerance {
			return a.angle < b.angle
		}
		// Points on the closing ray walk back toward the anchor.
		if math.Abs(a.angle-maxAngle) <= angleTieTolerance {
			return a.dist > b.dist
		}
		return a.dist < b.dist
	})

	out := make([]model.Point2D, 0, len(pts))
	out = append(out, origin)
	for _, it := range items {
		out = append(out, it.p)
	}
	return out
}

// Reverse returns the points in reverse order.
func Reverse(points []model.Point2D) []model.Point2D {
	out := make([]model.Point2D, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// pointTolerance scales the point-identity tolerance to the coordinates in use.
func pointTolerance(points []model.Point2D) float64 {
	scale := 1.0
	for _, p := range points {
		scale = math.Max(scale, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return zeroTolerance * scale
}

func dedup(points []model.Point2D) []model.Point2D {
	eps := pointTolerance(points)
	out := make([]model.Point2D, 0, len(points))
next:
	for _, p := range points {
		for _, q := range out {
			if math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}
