package model

import "math"

// PurchaseEstimate holds the results of a tile purchasing calculation.
type PurchaseEstimate struct {
	FullTiles       int     `json:"full_tiles"`
	CutTiles        int     `json:"cut_tiles"`
	TilesNeeded     int     `json:"tiles_needed"`      // Every cut tile consumes a whole tile
	TilesWithWaste  int     `json:"tiles_with_waste"`  // Recommended tiles including waste factor
	WastePercent    float64 `json:"waste_percent"`     // Waste factor applied (e.g., 10 for 10%)
	TilesPerBox     int     `json:"tiles_per_box"`     // 0 when sold individually
	Boxes           int     `json:"boxes"`             // Boxes to buy
	CoveredAreaSqM  float64 `json:"covered_area_sq_m"` // Clipped area in square metres
	PurchasedAreaSq float64 `json:"purchased_area_sq_m"`
	EstimatedCost   float64 `json:"estimated_cost"` // Total cost if pricing available
	PricePerBox     float64 `json:"price_per_box"`
}

// CalculatePurchaseEstimate computes how many tiles and boxes to buy for a layout.
// Units names the layout unit ("mm", "cm", "m") used for the area conversion.
func CalculatePurchaseEstimate(result LayoutResult, wastePercent float64, tilesPerBox int, pricePerBox float64, units string) PurchaseEstimate {
	full := result.FullTiles()
	cut := result.CutTiles()
	needed := full + cut

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(float64(needed) * wasteFactor))
	if withWaste < needed {
		withWaste = needed
	}

	upm := UnitsPerMeter(units)
	sqUnitsPerSqM := upm * upm

	est := PurchaseEstimate{
		FullTiles:       full,
		CutTiles:        cut,
		TilesNeeded:     needed,
		TilesWithWaste:  withWaste,
		WastePercent:    wastePercent,
		TilesPerBox:     tilesPerBox,
		CoveredAreaSqM:  result.Area / sqUnitsPerSqM,
		PurchasedAreaSq: float64(withWaste) * result.Settings.TileArea() / sqUnitsPerSqM,
		PricePerBox:     pricePerBox,
	}

	if tilesPerBox > 0 {
		est.Boxes = int(math.Ceil(float64(withWaste) / float64(tilesPerBox)))
		est.EstimatedCost = float64(est.Boxes) * pricePerBox
	}
	return est
}
