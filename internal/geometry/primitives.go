// Package geometry holds the 2-D primitives the layout engine is built on:
// segment intersection, containment helpers, polygon area, angular
// ordering and the rigid grid transform.
package geometry

import (
	"math"

	"github.com/piwi3910/SlabTile/internal/model"
)

const (
	// angleTolerance bounds |sin| between two unit directions that are
	// treated as parallel, or |cos| for orthogonal ones.
	angleTolerance = 1e-6

	// relTolerance is the relative tolerance of NearlyEqual.
	relTolerance = 1e-4

	// zeroTolerance is the absolute tolerance used when both operands are near zero.
	zeroTolerance = 1e-9
)

func dot(u, v model.Point2D) float64   { return u.X*v.X + u.Y*v.Y }
func cross(u, v model.Point2D) float64 { return u.X*v.Y - u.Y*v.X }
func length(u model.Point2D) float64   { return math.Hypot(u.X, u.Y) }

func unit(u model.Point2D) (model.Point2D, bool) {
	l := length(u)
	if l == 0 {
		return model.Point2D{}, false
	}
	return model.Point2D{X: u.X / l, Y: u.Y / l}, true
}

// SegmentIntersection returns the point where segment a1-a2 crosses
// segment b1-b2. Each segment is written in normal form (unit normal n and
// offset n·start) and the resulting 2x2 system is solved. Parallel and
// coincident segments report no intersection.
func SegmentIntersection(a1, a2, b1, b2 model.Point2D) (model.Point2D, bool) {
	da, okA := unit(a2.Sub(a1))
	db, okB := unit(b2.Sub(b1))
	if !okA || !okB || IsParallel(da, db) {
		return model.Point2D{}, false
	}

	na := model.Point2D{X: -da.Y, Y: da.X}
	nb := model.Point2D{X: -db.Y, Y: db.X}
	ca := dot(na, a1)
	cb := dot(nb, b1)

	det := na.X*nb.Y - na.Y*nb.X
	p := model.Point2D{
		X: (ca*nb.Y - na.Y*cb) / det,
		Y: (na.X*cb - ca*nb.X) / det,
	}

	if !IsBetween(a1, a2, p) || !IsBetween(b1, b2, p) {
		return model.Point2D{}, false
	}
	return p, true
}

// SegmentsIntersect reports whether the two segments cross.
// The result does not depend on the order of the segments.
func SegmentsIntersect(a1, a2, b1, b2 model.Point2D) bool {
	_, ok := SegmentIntersection(a1, a2, b1, b2)
	return ok
}

// IsParallel reports whether u and v point along the same line, in the
// same or opposite direction. A zero vector is parallel to everything.
func IsParallel(u, v model.Point2D) bool {
	uu, okU := unit(u)
	vv, okV := unit(v)
	if !okU || !okV {
		return true
	}
	return math.Abs(cross(uu, vv)) < angleTolerance
}

// IsOrthogonal reports whether u and v are perpendicular.
func IsOrthogonal(u, v model.Point2D) bool {
	uu, okU := unit(u)
	vv, okV := unit(v)
	if !okU || !okV {
		return false
	}
	return math.Abs(dot(uu, vv)) < angleTolerance
}

// IsBetween reports whether c, assumed collinear with a and b, lies on the
// segment a-b. Squared lengths are compared with a small tolerance.
func IsBetween(a, b, c model.Point2D) bool {
	ab := b.Sub(a)
	ac := c.Sub(a)
	abLen2 := dot(ab, ab)
	eps := zeroTolerance * math.Max(1, abLen2)

	if dot(ab, ac) < -eps {
		return false
	}
	return dot(ac, ac) <= abLen2+eps
}

// SignedArea returns the shoelace area of the closed polygon. It is positive
// for counter-clockwise winding in a y-up frame.
func SignedArea(vertices []model.Point2D) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
	}
	return sum / 2
}

// NearlyEqual compares a and b with a relative tolerance of 1e-4.
// Values that are both close to zero compare equal.
func NearlyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if diff <= zeroTolerance {
		return true
	}
	return diff <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}
