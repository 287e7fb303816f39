package model

import (
	"math"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate in layout units (mm by default).
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D { return Point2D{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D { return Point2D{X: p.X - q.X, Y: p.Y - q.Y} }

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = o[0]
	max = o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Rotate rotates all points about the origin by angle radians (counter-clockwise).
func (o Outline) Rotate(angle float64) Outline {
	sin, cos := math.Sincos(angle)
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	return result
}

// Area returns the absolute polygon area using the shoelace formula.
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

// Perimeter returns the length of the closed outline.
func (o Outline) Perimeter() float64 {
	n := len(o)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += math.Hypot(o[j].X-o[i].X, o[j].Y-o[i].Y)
	}
	return total
}

// Enclosure is the axis-aligned room rectangle that tiles are clipped against.
type Enclosure struct {
	ID     string  `json:"id" yaml:"id,omitempty"`
	Label  string  `json:"label" yaml:"label"`
	Origin Point2D `json:"origin" yaml:"origin"`
	Width  float64 `json:"width" yaml:"width"`   // mm
	Height float64 `json:"height" yaml:"height"` // mm
}

// NewEnclosure creates a room at the origin with a fresh ID.
func NewEnclosure(label string, w, h float64) Enclosure {
	return Enclosure{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// Corners returns the four enclosure corners in the same winding as tile corners:
// origin, top-left, top-right, bottom-right.
func (e Enclosure) Corners() [4]Point2D {
	o := e.Origin
	return [4]Point2D{
		o,
		{X: o.X, Y: o.Y + e.Height},
		{X: o.X + e.Width, Y: o.Y + e.Height},
		{X: o.X + e.Width, Y: o.Y},
	}
}

// Sides returns the four boundary segments, corner[i] to corner[i+1].
func (e Enclosure) Sides() [4][2]Point2D {
	c := e.Corners()
	var sides [4][2]Point2D
	for i := range c {
		sides[i] = [2]Point2D{c[i], c[(i+1)%4]}
	}
	return sides
}

// Contains reports whether p lies inside the enclosure, boundary included.
func (e Enclosure) Contains(p Point2D) bool {
	return p.X >= e.Origin.X && p.X <= e.Origin.X+e.Width &&
		p.Y >= e.Origin.Y && p.Y <= e.Origin.Y+e.Height
}

// Area returns the enclosure area.
func (e Enclosure) Area() float64 {
	return e.Width * e.Height
}

// Outline returns the enclosure boundary as an outline.
func (e Enclosure) Outline() Outline {
	c := e.Corners()
	return Outline{c[0], c[1], c[2], c[3]}
}

// GridSettings holds the immutable parameters of one layout run.
type GridSettings struct {
	TileWidth  float64  `json:"tile_width" yaml:"tile_width"`   // mm
	TileHeight float64  `json:"tile_height" yaml:"tile_height"` // mm
	Seam       float64  `json:"seam" yaml:"seam"`               // Gap between tiles in mm
	Bias       float64  `json:"bias" yaml:"bias"`               // Horizontal shift per row in mm
	Angle      float64  `json:"angle" yaml:"angle"`             // Grid rotation in degrees
	Pivot      *Point2D `json:"pivot,omitempty" yaml:"pivot,omitempty"`
	Offset     Point2D  `json:"offset" yaml:"offset"` // Grid start shift in the rotated frame
	MaxCells   int      `json:"max_cells,omitempty" yaml:"max_cells,omitempty"`
}

// DefaultMaxCells bounds a single layout run.
const DefaultMaxCells = 1_000_000

// DefaultGridSettings returns 300 x 300 tiles with a 3 unit seam on a straight grid.
func DefaultGridSettings() GridSettings {
	return GridSettings{
		TileWidth:  300,
		TileHeight: 300,
		Seam:       3,
		Bias:       0,
		Angle:      0,
		MaxCells:   DefaultMaxCells,
	}
}

// PivotFor returns the rotation pivot, defaulting to the enclosure origin.
func (s GridSettings) PivotFor(e Enclosure) Point2D {
	if s.Pivot != nil {
		return *s.Pivot
	}
	return e.Origin
}

// CellLimit returns the effective visited-cell ceiling.
func (s GridSettings) CellLimit() int {
	if s.MaxCells <= 0 {
		return DefaultMaxCells
	}
	return s.MaxCells
}

// TileArea returns the nominal area of one unclipped tile.
func (s GridSettings) TileArea() float64 {
	return s.TileWidth * s.TileHeight
}

// Mesh is the triangulated surface of one tile.
type Mesh struct {
	Vertices  []Point2D `json:"vertices"`
	Triangles []int     `json:"triangles"`
	UVs       []Point2D `json:"uvs"`
}

// Tile is one emitted grid cell, clipped to the enclosure.
type Tile struct {
	Index int     `json:"index"`
	Seed  Point2D `json:"seed"`  // Unclipped origin in the rotated grid frame
	Local Outline `json:"local"` // Clockwise polygon in tile-local coordinates
	World Outline `json:"world"` // Same polygon in enclosure coordinates
	Mesh  Mesh    `json:"mesh"`
	Area  float64 `json:"area"`
	Cut   bool    `json:"cut"` // True when the tile was clipped by the enclosure
}

// LayoutResult holds the outcome of one layout run.
type LayoutResult struct {
	ID           string       `json:"id"`
	Enclosure    Enclosure    `json:"enclosure"`
	Settings     GridSettings `json:"settings"`
	Tiles        []Tile       `json:"tiles"`
	Area         float64      `json:"area"`
	VisitedCells int          `json:"visited_cells"`
}

// FullTiles returns the number of unclipped tiles.
func (r LayoutResult) FullTiles() int {
	n := 0
	for _, t := range r.Tiles {
		if !t.Cut {
			n++
		}
	}
	return n
}

// CutTiles returns the number of tiles that need cutting.
func (r LayoutResult) CutTiles() int {
	return len(r.Tiles) - r.FullTiles()
}

// NominalTileArea returns the area of whole tiles consumed by the layout.
func (r LayoutResult) NominalTileArea() float64 {
	return float64(len(r.Tiles)) * r.Settings.TileArea()
}

// Coverage returns the covered area as a percentage of the enclosure area.
func (r LayoutResult) Coverage() float64 {
	ea := r.Enclosure.Area()
	if ea == 0 {
		return 0
	}
	return r.Area / ea * 100.0
}

// CutWaste returns the percentage of consumed tile material that is cut away.
func (r LayoutResult) CutWaste() float64 {
	nominal := r.NominalTileArea()
	if nominal == 0 {
		return 0
	}
	return (nominal - r.Area) / nominal * 100.0
}

// Project ties everything together for save/load.
type Project struct {
	Name      string        `json:"name" yaml:"name"`
	Enclosure Enclosure     `json:"enclosure" yaml:"enclosure"`
	Settings  GridSettings  `json:"settings" yaml:"settings"`
	Result    *LayoutResult `json:"result,omitempty" yaml:"-"`
}

// NewProject returns an untitled project with a default room and grid.
func NewProject() Project {
	return Project{
		Name:      "Untitled",
		Enclosure: NewEnclosure("Room", 3000, 2000),
		Settings:  DefaultGridSettings(),
	}
}
