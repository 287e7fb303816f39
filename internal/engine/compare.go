package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/SlabTile/internal/model"
)

// ComparisonScenario defines a named set of grid settings to compare.
type ComparisonScenario struct {
	Name     string             `json:"name"`
	Settings model.GridSettings `json:"settings"`
}

// ComparisonResult holds the layout and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario `json:"scenario"`
	Result       model.LayoutResult `json:"-"`
	Tiles        int                `json:"tiles"`
	FullTiles    int                `json:"full_tiles"`
	CutTiles     int                `json:"cut_tiles"`
	CoveredArea  float64            `json:"covered_area"`
	WastePercent float64            `json:"waste_percent"`
	Err          error              `json:"-"`
}

// CompareScenarios lays out the enclosure once per scenario and returns the
// results in scenario order. A scenario that fails keeps its error in Err
// and does not stop the others.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, enclosure model.Enclosure) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := New(scenario.Settings).Layout(ctx, enclosure)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Result:       result,
			Tiles:        len(result.Tiles),
			FullTiles:    result.FullTiles(),
			CutTiles:     result.CutTiles(),
			CoveredArea:  result.Area,
			WastePercent: result.CutWaste(),
		})
	}

	return results
}

// BestScenario returns the index of the successful result with the fewest
// tiles, breaking ties on fewer cut tiles. It returns -1 when every scenario failed.
func BestScenario(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 || r.Tiles < results[best].Tiles ||
			(r.Tiles == results[best].Tiles && r.CutTiles < results[best].CutTiles) {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying the laying pattern to show what-if alternatives.
func BuildDefaultScenarios(base model.GridSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current",
			Settings: base,
		},
	}

	// Scenario: the other bond
	bond := base
	if base.Bias == 0 {
		bond.Bias = (base.TileWidth + base.Seam) / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Half bond",
			Settings: bond,
		})
	} else {
		bond.Bias = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Stack bond",
			Settings: bond,
		})
	}

	// Scenario: rotate the grid
	turned := base
	if base.Angle != 45 {
		turned.Angle = 45
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Diagonal 45°",
			Settings: turned,
		})
	} else {
		turned.Angle = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Straight 0°",
			Settings: turned,
		})
	}

	// Scenario: butt-jointed tiles
	if base.Seam > 0 {
		noSeam := base
		noSeam.Seam = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No seam",
			Settings: noSeam,
		})
	}

	// Scenario: larger format tile
	if base.TileWidth > 0 && base.TileHeight > 0 {
		large := base
		large.TileWidth = base.TileWidth * 2
		large.TileHeight = base.TileHeight * 2
		large.Bias = base.Bias * 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Tile %gx%g", large.TileWidth, large.TileHeight),
			Settings: large,
		})
	}

	return scenarios
}
