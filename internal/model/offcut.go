package model

import "sort"

// Offcut is the part of a whole tile that is cut away when laying a cut tile.
type Offcut struct {
	TileIndex int     `json:"tile_index"` // Index of the cut tile in the layout
	Seed      Point2D `json:"seed"`
	Area      float64 `json:"area"`     // Square layout units
	Fraction  float64 `json:"fraction"` // Share of a whole tile
	Reusable  bool    `json:"reusable"` // Large enough to cut another piece from
}

// DefaultReusableFraction is the tile share an offcut needs to be kept.
const DefaultReusableFraction = 0.25

// DetectOffcuts returns the offcut of every cut tile, largest first.
// An offcut is reusable when it is at least minFraction of a whole tile.
func DetectOffcuts(result LayoutResult, minFraction float64) []Offcut {
	tileArea := result.Settings.TileArea()
	if tileArea <= 0 {
		return nil
	}

	var offcuts []Offcut
	for _, t := range result.Tiles {
		if !t.Cut {
			continue
		}
		area := tileArea - t.Area
		if area <= 0 {
			continue
		}
		frac := area / tileArea
		offcuts = append(offcuts, Offcut{
			TileIndex: t.Index,
			Seed:      t.Seed,
			Area:      area,
			Fraction:  frac,
			Reusable:  frac >= minFraction,
		})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area > offcuts[j].Area
	})
	return offcuts
}

// TotalOffcutArea returns the total area of all offcuts.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area
	}
	return total
}

// ReusableOffcuts filters the offcuts that can be reused.
func ReusableOffcuts(offcuts []Offcut) []Offcut {
	var out []Offcut
	for _, o := range offcuts {
		if o.Reusable {
			out = append(out, o)
		}
	}
	return out
}
