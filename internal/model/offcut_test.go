package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOffcutsOnlyCutTiles(t *testing.T) {
	offcuts := DetectOffcuts(buildTestResult(), DefaultReusableFraction)
	require.Len(t, offcuts, 1)
	assert.Equal(t, 1, offcuts[0].TileIndex)
	assert.InDelta(t, 0.5, offcuts[0].Area, 1e-12)
	assert.InDelta(t, 0.5, offcuts[0].Fraction, 1e-12)
	assert.True(t, offcuts[0].Reusable)
}

func TestDetectOffcutsSmallRemnantNotReusable(t *testing.T) {
	r := buildTestResult()
	r.Tiles[1].Area = 0.9
	offcuts := DetectOffcuts(r, DefaultReusableFraction)
	require.Len(t, offcuts, 1)
	assert.False(t, offcuts[0].Reusable)
	assert.Empty(t, ReusableOffcuts(offcuts))
}

func TestDetectOffcutsSortedLargestFirst(t *testing.T) {
	r := buildTestResult()
	r.Tiles = append(r.Tiles, Tile{Index: 2, Area: 0.2, Cut: true})
	offcuts := DetectOffcuts(r, DefaultReusableFraction)
	require.Len(t, offcuts, 2)
	assert.Equal(t, 2, offcuts[0].TileIndex)
	assert.InDelta(t, 1.3, TotalOffcutArea(offcuts), 1e-12)
}

func TestDetectOffcutsZeroTileArea(t *testing.T) {
	r := buildTestResult()
	r.Settings.TileWidth = 0
	assert.Nil(t, DetectOffcuts(r, DefaultReusableFraction))
}
