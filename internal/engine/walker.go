package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/piwi3910/SlabTile/internal/geometry"
	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
)

// Engine lays a tile grid over rectangular enclosures.
type Engine struct {
	Settings model.GridSettings
}

// New returns an engine that lays tiles with the given grid settings.
func New(settings model.GridSettings) *Engine {
	return &Engine{Settings: settings}
}

// cellKey identifies a grid cell by its seed rounded to two decimals.
type cellKey struct{ x, y int64 }

func keyOf(seed model.Point2D) cellKey {
	return cellKey{x: int64(math.Round(seed.X * 100)), y: int64(math.Round(seed.Y * 100))}
}

func roundSeed(seed model.Point2D) model.Point2D {
	return model.Point2D{X: math.Round(seed.X*100) / 100, Y: math.Round(seed.Y*100) / 100}
}

// Layout walks the tile grid depth-first over the enclosure, starting from
// the cell at the enclosure origin, and returns every tile clipped to it.
// The run is synchronous; ctx is checked between cells.
func (e *Engine) Layout(ctx context.Context, enclosure model.Enclosure) (model.LayoutResult, error) {
	s := e.Settings
	if err := validate(s, enclosure); err != nil {
		return model.LayoutResult{}, err
	}

	log := logging.Logger()
	tr := geometry.NewTransform(s, enclosure)
	clip := newClipper(enclosure, s, tr)

	stepX := s.TileWidth + s.Seam
	stepY := s.TileHeight + s.Seam
	tileArea := s.TileArea()
	bias := foldBias(s.Bias, stepX)
	offset := foldOffset(s.Offset, s.Bias, stepX, stepY)
	limit := s.CellLimit()

	result := model.LayoutResult{
		ID:        uuid.New().String()[:8],
		Enclosure: enclosure,
		Settings:  s,
	}

	log.Debug("layout started",
		"enclosure", enclosure.Label,
		"width", enclosure.Width,
		"height", enclosure.Height,
		"tile_width", s.TileWidth,
		"tile_height", s.TileHeight,
		"angle", s.Angle)

	start := tr.ToGrid(enclosure.Origin).Add(offset)
	visited := make(map[cellKey]struct{})
	stack := []model.Point2D{start}

	for len(stack) > 0 {
		seed := roundSeed(stack[len(stack)-1])
		stack = stack[:len(stack)-1]

		key := keyOf(seed)
		if _, seen := visited[key]; seen {
			continue
		}
		if err := ctx.Err(); err != nil {
			return model.LayoutResult{}, err
		}
		if len(visited) >= limit {
			log.Warn("layout aborted", "visited", len(visited), "limit", limit)
			return model.LayoutResult{}, fmt.Errorf("%w: %d cells", ErrCellLimit, limit)
		}
		visited[key] = struct{}{}

		if tile, ok := e.buildTile(clip, tr, seed, tileArea); ok {
			tile.Index = len(result.Tiles)
			result.Tiles = append(result.Tiles, tile)
			result.Area += tile.Area
		}

		neighbours := [4]model.Point2D{
			{X: seed.X - stepX, Y: seed.Y},
			{X: seed.X + bias, Y: seed.Y + stepY},
			{X: seed.X + stepX, Y: seed.Y},
			{X: seed.X - bias, Y: seed.Y - stepY},
		}
		// Pushed in reverse so cells are explored left, up, right, down.
		for i := len(neighbours) - 1; i >= 0; i-- {
			n := roundSeed(neighbours[i])
			if _, seen := visited[keyOf(n)]; seen {
				continue
			}
			if clip.Overlaps(n) {
				stack = append(stack, n)
			}
		}
	}

	result.VisitedCells = len(visited)
	log.Debug("layout finished",
		"tiles", len(result.Tiles),
		"cut", result.CutTiles(),
		"area", result.Area,
		"visited", result.VisitedCells)
	return result, nil
}

// foldBias reduces a row shift to (-stepX/2, stepX/2]. Shifts differing by
// whole tile pitches describe the same lattice.
func foldBias(bias, stepX float64) float64 {
	if bias > -stepX/2 && bias <= stepX/2 {
		return bias
	}
	return bias - stepX*math.Ceil(bias/stepX-0.5)
}

// foldOffset reduces a grid offset to [0, stepX) x [0, stepY). Whole rows
// are removed together with their row shift so the lattice is unchanged.
func foldOffset(off model.Point2D, bias, stepX, stepY float64) model.Point2D {
	rows := math.Floor(off.Y / stepY)
	x := math.Mod(off.X-rows*bias, stepX)
	if x < 0 {
		x += stepX
	}
	return model.Point2D{X: x, Y: off.Y - rows*stepY}
}

// buildTile clips the cell at seed and turns the footprint into a tile.
// Footprints with fewer than three distinct vertices or no area are skipped.
func (e *Engine) buildTile(clip *clipper, tr geometry.Transform, seed model.Point2D, tileArea float64) (model.Tile, bool) {
	local := geometry.ClockwiseSort(clip.Clip(seed))
	if len(local) < 3 {
		return model.Tile{}, false
	}
	area := geometry.SignedArea(geometry.Reverse(local))
	if area <= 1e-9*tileArea {
		return model.Tile{}, false
	}

	mesh, err := BuildMesh(local, e.Settings.TileWidth, e.Settings.TileHeight)
	if err != nil {
		return model.Tile{}, false
	}

	world := make(model.Outline, len(local))
	for i, p := range local {
		world[i] = tr.TileToWorld(p, seed)
	}

	return model.Tile{
		Seed:  seed,
		Local: model.Outline(local),
		World: world,
		Mesh:  mesh,
		Area:  area,
		Cut:   !geometry.NearlyEqual(area, tileArea),
	}, true
}

// validate rejects settings and enclosures that cannot produce a layout.
func validate(s model.GridSettings, e model.Enclosure) error {
	finite := map[string]float64{
		"tile width":  s.TileWidth,
		"tile height": s.TileHeight,
		"seam":        s.Seam,
		"bias":        s.Bias,
		"angle":       s.Angle,
		"offset x":    s.Offset.X,
		"offset y":    s.Offset.Y,
		"width":       e.Width,
		"height":      e.Height,
		"origin x":    e.Origin.X,
		"origin y":    e.Origin.Y,
	}
	if s.Pivot != nil {
		finite["pivot x"] = s.Pivot.X
		finite["pivot y"] = s.Pivot.Y
	}
	for name, v := range finite {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, name)
		}
	}

	switch {
	case s.TileWidth <= 0 || s.TileHeight <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %gx%g", ErrInvalidConfig, s.TileWidth, s.TileHeight)
	case s.Seam < 0:
		return fmt.Errorf("%w: seam must not be negative, got %g", ErrInvalidConfig, s.Seam)
	case e.Width <= 0 || e.Height <= 0:
		return fmt.Errorf("%w: enclosure size must be positive, got %gx%g", ErrInvalidConfig, e.Width, e.Height)
	case s.TileWidth+s.Seam < 0.01 || s.TileHeight+s.Seam < 0.01:
		return fmt.Errorf("%w: tile pitch below the 0.01 grid resolution", ErrInvalidConfig)
	}
	return nil
}
