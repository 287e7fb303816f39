package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePurchaseEstimateBasic(t *testing.T) {
	r := buildTestResult()
	est := CalculatePurchaseEstimate(r, 0, 0, 0, "m")

	assert.Equal(t, 1, est.FullTiles)
	assert.Equal(t, 1, est.CutTiles)
	assert.Equal(t, 2, est.TilesNeeded)
	assert.Equal(t, 2, est.TilesWithWaste)
	assert.Zero(t, est.Boxes, "no box size means tiles are sold individually")
	assert.InDelta(t, 1.5, est.CoveredAreaSqM, 1e-12)
	assert.InDelta(t, 2.0, est.PurchasedAreaSq, 1e-12)
}

func TestCalculatePurchaseEstimateWasteRoundsUp(t *testing.T) {
	r := buildTestResult()
	est := CalculatePurchaseEstimate(r, 10, 0, 0, "m")
	// 2 tiles * 1.1 = 2.2 -> 3
	assert.Equal(t, 3, est.TilesWithWaste)
}

func TestCalculatePurchaseEstimateBoxes(t *testing.T) {
	r := buildTestResult()
	est := CalculatePurchaseEstimate(r, 50, 2, 19.5, "m")

	assert.Equal(t, 3, est.TilesWithWaste)
	assert.Equal(t, 2, est.Boxes)
	assert.InDelta(t, 39.0, est.EstimatedCost, 1e-9)
}

func TestCalculatePurchaseEstimateMillimetres(t *testing.T) {
	r := buildTestResult()
	r.Settings.TileWidth = 1000
	r.Settings.TileHeight = 1000
	r.Area = 1.5e6
	est := CalculatePurchaseEstimate(r, 0, 0, 0, "mm")
	assert.InDelta(t, 1.5, est.CoveredAreaSqM, 1e-9)
	assert.InDelta(t, 2.0, est.PurchasedAreaSq, 1e-9)
}
