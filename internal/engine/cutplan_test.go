package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SlabTile/internal/model"
)

func rectTile(index int, w, h float64, cut bool) model.Tile {
	return model.Tile{
		Index: index,
		Local: model.Outline{{X: 0, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}, {X: w, Y: 0}},
		Area:  w * h,
		Cut:   cut,
	}
}

func TestPlanCutsSharesStockTiles(t *testing.T) {
	r := model.LayoutResult{
		Settings: unitSettings(),
		Tiles: []model.Tile{
			rectTile(0, 1, 1, false),
			rectTile(1, 0.5, 1, true),
			rectTile(2, 0.3, 0.3, true),
			rectTile(3, 0.5, 1, true),
		},
	}
	plan := PlanCuts(r, CutPlanOptions{})

	assert.Equal(t, 3, plan.CutTiles)
	assert.Equal(t, 2, plan.TilesUsed())
	assert.Equal(t, 1, plan.Saved)
	require.Len(t, plan.Stock[0].Pieces, 2)
	assert.InDelta(t, 1.0, plan.Stock[0].UsedArea(), 1e-12)
	assert.Equal(t, 2, plan.Stock[1].Pieces[0].TileIndex)
}

func TestPlanCutsNoSharingWhenTooWide(t *testing.T) {
	r := model.LayoutResult{
		Settings: unitSettings(),
		Tiles:    []model.Tile{rectTile(0, 0.6, 1, true), rectTile(1, 0.6, 1, true)},
	}
	plan := PlanCuts(r, CutPlanOptions{AllowRotate: true})
	assert.Equal(t, 2, plan.TilesUsed())
	assert.Zero(t, plan.Saved)
}

func TestPlanCutsRotatesPieces(t *testing.T) {
	r := model.LayoutResult{
		Settings: unitSettings(),
		Tiles:    []model.Tile{rectTile(0, 0.6, 0.4, true), rectTile(1, 0.6, 0.4, true)},
	}
	plan := PlanCuts(r, CutPlanOptions{AllowRotate: true})
	require.Equal(t, 1, plan.TilesUsed())
	require.Len(t, plan.Stock[0].Pieces, 2)
	assert.False(t, plan.Stock[0].Pieces[0].Rotated)
	assert.True(t, plan.Stock[0].Pieces[1].Rotated)
}

func TestPlanCutsKerfSeparatesPieces(t *testing.T) {
	r := model.LayoutResult{
		Settings: unitSettings(),
		Tiles:    []model.Tile{rectTile(0, 0.5, 1, true), rectTile(1, 0.5, 1, true)},
	}
	assert.Equal(t, 1, PlanCuts(r, CutPlanOptions{}).TilesUsed())
	assert.Equal(t, 2, PlanCuts(r, CutPlanOptions{Kerf: 0.01}).TilesUsed())
}

func TestPlanCutsFromLayout(t *testing.T) {
	s := unitSettings()
	s.Offset = model.Point2D{X: 0.5}
	r, err := New(s).Layout(context.Background(), room(3, 1))
	require.NoError(t, err)
	require.Equal(t, 2, r.CutTiles())

	plan := PlanCuts(r, CutPlanOptions{})
	assert.Equal(t, 1, plan.TilesUsed(), "two half tiles come from one whole tile")
}

func TestPruneContainedKeepsOneOfIdentical(t *testing.T) {
	rects := []rect{{0, 0, 1, 1}, {0, 0, 1, 1}, {0.1, 0.1, 0.5, 0.5}}
	assert.Equal(t, []rect{{0, 0, 1, 1}}, pruneContained(rects))
}

func TestStockBinFitPrefersLeastWaste(t *testing.T) {
	b := &stockBin{free: []rect{{0, 0, 1, 1}, {2, 0, 0.5, 0.5}}}
	idx, waste := b.fit(0.4, 0.4)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.25-0.16, waste, 1e-12)

	idx, _ = b.fit(2, 2)
	assert.Equal(t, -1, idx)
}

func TestRectOverlapIgnoresTouchingEdges(t *testing.T) {
	a := rect{0, 0, 1, 1}
	assert.False(t, a.overlaps(rect{1, 0, 1, 1}))
	assert.True(t, a.overlaps(rect{0.5, 0.5, 1, 1}))
	assert.True(t, a.contains(rect{0.2, 0.2, 0.5, 0.5}))
	assert.False(t, a.contains(rect{0.6, 0.6, 0.5, 0.5}))
}
