package engine

import (
	"github.com/piwi3910/SlabTile/internal/geometry"
	"github.com/piwi3910/SlabTile/internal/model"
)

// clipper computes the footprint of one grid cell inside the enclosure.
// All returned points are in the tile-local frame of the cell.
type clipper struct {
	enclosure  model.Enclosure
	encCorners [4]model.Point2D
	encSides   [4][2]model.Point2D
	corners    [4]model.Point2D // tile-local, same winding as the enclosure corners
	width      float64
	height     float64
	tr         geometry.Transform
	eps        float64
}

func newClipper(e model.Enclosure, s model.GridSettings, tr geometry.Transform) *clipper {
	return &clipper{
		enclosure:  e,
		encCorners: e.Corners(),
		encSides:   e.Sides(),
		corners: [4]model.Point2D{
			{X: 0, Y: 0},
			{X: 0, Y: s.TileHeight},
			{X: s.TileWidth, Y: s.TileHeight},
			{X: s.TileWidth, Y: 0},
		},
		width:  s.TileWidth,
		height: s.TileHeight,
		tr:     tr,
		eps:    1e-9 * max(s.TileWidth, s.TileHeight),
	}
}

// worldCorners returns the unclipped tile corners of the cell at seed in world coordinates.
func (c *clipper) worldCorners(seed model.Point2D) [4]model.Point2D {
	var w [4]model.Point2D
	for i, p := range c.corners {
		w[i] = c.tr.TileToWorld(p, seed)
	}
	return w
}

// insideTile reports whether a tile-local point lies on the tile rectangle, boundary included.
func (c *clipper) insideTile(p model.Point2D) bool {
	return p.X >= -c.eps && p.X <= c.width+c.eps &&
		p.Y >= -c.eps && p.Y <= c.height+c.eps
}

// Clip returns the unordered vertices of the cell footprint clipped to the
// enclosure: tile corners inside the enclosure, tile side by enclosure side
// crossings, and enclosure corners inside the tile.
func (c *clipper) Clip(seed model.Point2D) []model.Point2D {
	world := c.worldCorners(seed)
	bag := make([]model.Point2D, 0, 12)

	for i, w := range world {
		if c.enclosure.Contains(w) {
			bag = append(bag, c.corners[i])
		}
	}

	for i := range world {
		a1, a2 := world[i], world[(i+1)%4]
		for _, side := range c.encSides {
			if p, ok := geometry.SegmentIntersection(a1, a2, side[0], side[1]); ok {
				bag = append(bag, c.tr.WorldToTile(p, seed))
			}
		}
	}

	for _, ec := range c.encCorners {
		local := c.tr.WorldToTile(ec, seed)
		if c.insideTile(local) {
			bag = append(bag, local)
		}
	}
	return bag
}

// Overlaps reports whether the cell at seed touches the enclosure at all.
func (c *clipper) Overlaps(seed model.Point2D) bool {
	world := c.worldCorners(seed)
	for _, w := range world {
		if c.enclosure.Contains(w) {
			return true
		}
	}
	for _, ec := range c.encCorners {
		if c.insideTile(c.tr.WorldToTile(ec, seed)) {
			return true
		}
	}
	for i := range world {
		a1, a2 := world[i], world[(i+1)%4]
		for _, side := range c.encSides {
			if geometry.SegmentsIntersect(a1, a2, side[0], side[1]) {
				return true
			}
		}
	}
	return false
}
