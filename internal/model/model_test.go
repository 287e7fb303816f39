package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns an axis-aligned square outline with its origin at (x, y).
func square(x, y, size float64) Outline {
	return Outline{{X: x, Y: y}, {X: x, Y: y + size}, {X: x + size, Y: y + size}, {X: x + size, Y: y}}
}

// buildTestResult creates a 2x1 room covered by one full and one cut tile.
func buildTestResult() LayoutResult {
	settings := DefaultGridSettings()
	settings.TileWidth = 1
	settings.TileHeight = 1
	settings.Seam = 0
	return LayoutResult{
		ID:        "r1",
		Enclosure: Enclosure{Label: "Strip", Width: 1.5, Height: 1},
		Settings:  settings,
		Tiles: []Tile{
			{Index: 0, Local: square(0, 0, 1), World: square(0, 0, 1), Area: 1},
			{
				Index: 1,
				Seed:  Point2D{X: 1},
				Local: Outline{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0.5, Y: 1}, {X: 0.5, Y: 0}},
				World: Outline{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1.5, Y: 1}, {X: 1.5, Y: 0}},
				Area:  0.5,
				Cut:   true,
			},
		},
		Area: 1.5,
	}
}

func TestOutlineBoundingBox(t *testing.T) {
	o := Outline{{X: 3, Y: -1}, {X: -2, Y: 4}, {X: 1, Y: 1}}
	min, max := o.BoundingBox()
	assert.Equal(t, Point2D{X: -2, Y: -1}, min)
	assert.Equal(t, Point2D{X: 3, Y: 4}, max)

	min, max = Outline{}.BoundingBox()
	assert.Equal(t, Point2D{}, min)
	assert.Equal(t, Point2D{}, max)
}

func TestOutlineAreaAndPerimeter(t *testing.T) {
	o := square(0, 0, 2)
	assert.InDelta(t, 4.0, o.Area(), 1e-12)
	assert.InDelta(t, 8.0, o.Perimeter(), 1e-12)
	assert.Zero(t, Outline{{X: 0, Y: 0}, {X: 1, Y: 1}}.Area())
}

func TestOutlineRotateQuarterTurn(t *testing.T) {
	r := Outline{{X: 1, Y: 0}}.Rotate(math.Pi / 2)
	require.Len(t, r, 1)
	assert.InDelta(t, 0.0, r[0].X, 1e-12)
	assert.InDelta(t, 1.0, r[0].Y, 1e-12)
}

func TestEnclosureCornersAndContains(t *testing.T) {
	e := Enclosure{Origin: Point2D{X: 1, Y: 2}, Width: 4, Height: 2}
	c := e.Corners()
	assert.Equal(t, Point2D{X: 1, Y: 2}, c[0])
	assert.Equal(t, Point2D{X: 1, Y: 4}, c[1])
	assert.Equal(t, Point2D{X: 5, Y: 4}, c[2])
	assert.Equal(t, Point2D{X: 5, Y: 2}, c[3])

	sides := e.Sides()
	assert.Equal(t, c[3], sides[2][1])
	assert.Equal(t, c[0], sides[3][1])

	assert.True(t, e.Contains(Point2D{X: 1, Y: 2}), "boundary is inside")
	assert.True(t, e.Contains(Point2D{X: 5, Y: 4}), "far corner is inside")
	assert.False(t, e.Contains(Point2D{X: 5.01, Y: 3}))
	assert.Equal(t, 8.0, e.Area())
}

func TestNewEnclosureAssignsID(t *testing.T) {
	a := NewEnclosure("Kitchen", 3000, 2000)
	b := NewEnclosure("Kitchen", 3000, 2000)
	assert.Len(t, a.ID, 8)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGridSettingsPivotDefaultsToOrigin(t *testing.T) {
	e := Enclosure{Origin: Point2D{X: 10, Y: 20}, Width: 1, Height: 1}
	s := DefaultGridSettings()
	assert.Equal(t, e.Origin, s.PivotFor(e))

	s.Pivot = &Point2D{X: 5, Y: 5}
	assert.Equal(t, Point2D{X: 5, Y: 5}, s.PivotFor(e))
}

func TestGridSettingsCellLimit(t *testing.T) {
	s := GridSettings{}
	assert.Equal(t, DefaultMaxCells, s.CellLimit())
	s.MaxCells = 12
	assert.Equal(t, 12, s.CellLimit())
}

func TestLayoutResultStatistics(t *testing.T) {
	r := buildTestResult()
	assert.Equal(t, 1, r.FullTiles())
	assert.Equal(t, 1, r.CutTiles())
	assert.InDelta(t, 2.0, r.NominalTileArea(), 1e-12)
	assert.InDelta(t, 100.0, r.Coverage(), 1e-9)
	assert.InDelta(t, 25.0, r.CutWaste(), 1e-9)
}

func TestLayoutResultEmpty(t *testing.T) {
	var r LayoutResult
	assert.Zero(t, r.Coverage())
	assert.Zero(t, r.CutWaste())
}
