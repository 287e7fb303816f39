package geometry

import (
	"math"

	"github.com/piwi3910/SlabTile/internal/model"
)

// Transform is the rigid mapping between world (enclosure) coordinates and
// the rotated grid frame. Angle is in degrees; Pivot is the world point the
// grid rotates about.
type Transform struct {
	Angle float64
	Pivot model.Point2D
}

// NewTransform builds the transform for a layout run.
func NewTransform(s model.GridSettings, e model.Enclosure) Transform {
	return Transform{Angle: s.Angle, Pivot: s.PivotFor(e)}
}

// ToGrid maps a world point into the grid frame by rotating it +Angle about Pivot.
func (t Transform) ToGrid(world model.Point2D) model.Point2D {
	return t.rotate(world, t.Angle)
}

// ToWorld maps a grid-frame point back to world coordinates.
func (t Transform) ToWorld(grid model.Point2D) model.Point2D {
	return t.rotate(grid, -t.Angle)
}

// TileToWorld maps a tile-local point of the tile at seed into world coordinates.
func (t Transform) TileToWorld(local, seed model.Point2D) model.Point2D {
	return t.ToWorld(local.Add(seed))
}

// WorldToTile maps a world point into the local frame of the tile at seed.
func (t Transform) WorldToTile(world, seed model.Point2D) model.Point2D {
	return t.ToGrid(world).Sub(seed)
}

func (t Transform) rotate(p model.Point2D, degrees float64) model.Point2D {
	if degrees == 0 {
		return p
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	d := p.Sub(t.Pivot)
	return model.Point2D{
		X: t.Pivot.X + d.X*cos - d.Y*sin,
		Y: t.Pivot.Y + d.X*sin + d.Y*cos,
	}
}
