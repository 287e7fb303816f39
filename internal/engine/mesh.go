package engine

import (
	"fmt"

	"github.com/piwi3910/SlabTile/internal/model"
)

// BuildMesh triangulates a convex tile polygon as a fan around its first
// vertex. UVs map the tile rectangle onto the unit square.
func BuildMesh(polygon []model.Point2D, tileWidth, tileHeight float64) (model.Mesh, error) {
	n := len(polygon)
	if n < 3 {
		return model.Mesh{}, fmt.Errorf("cannot build mesh from %d vertices", n)
	}
	if tileWidth <= 0 || tileHeight <= 0 {
		return model.Mesh{}, fmt.Errorf("%w: tile size %gx%g", ErrInvalidConfig, tileWidth, tileHeight)
	}

	mesh := model.Mesh{
		Vertices:  make([]model.Point2D, n),
		Triangles: make([]int, 0, 3*(n-2)),
		UVs:       make([]model.Point2D, n),
	}
	copy(mesh.Vertices, polygon)
	for i, p := range polygon {
		mesh.UVs[i] = model.Point2D{X: p.X / tileWidth, Y: p.Y / tileHeight}
	}
	for i := 2; i < n; i++ {
		mesh.Triangles = append(mesh.Triangles, 0, i-1, i)
	}
	return mesh, nil
}
