package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabTile/internal/model"
)

// Sheet names of the tile schedule workbook.
const (
	SheetTiles   = "Tiles"
	SheetSummary = "Summary"
)

var tileHeaders = []interface{}{
	"Tile", "Seed X", "Seed Y", "Cut", "Area", "Corners", "Width", "Height", "Vertices",
}

// ExportXLSX writes a tile schedule workbook: one row per tile on the Tiles
// sheet and the layout quantities on the Summary sheet.
func ExportXLSX(path string, result model.LayoutResult, cfg model.AppConfig) error {
	if len(result.Tiles) == 0 {
		return fmt.Errorf("no tiles to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTiles); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := f.SetSheetRow(SheetTiles, "A1", &tileHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(SheetTiles, "A1", "I1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, t := range result.Tiles {
		min, max := t.Local.BoundingBox()
		row := []interface{}{
			t.Index + 1, t.Seed.X, t.Seed.Y, t.Cut, t.Area, len(t.Local),
			max.X - min.X, max.Y - min.Y, formatVertices(t.World),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetTiles, cell, &row); err != nil {
			return fmt.Errorf("failed to write tile %d: %w", t.Index, err)
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	for i, kv := range summaryRows(result, cfg) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &kv); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summaryRows(result, cfg))), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	return f.SaveAs(path)
}

// summaryRows returns the label/value pairs of the Summary sheet.
func summaryRows(result model.LayoutResult, cfg model.AppConfig) [][]interface{} {
	est := model.CalculatePurchaseEstimate(result, cfg.WastePercent, cfg.TilesPerBox, cfg.PricePerBox, cfg.Units)
	s := result.Settings
	return [][]interface{}{
		{"Room", result.Enclosure.Label},
		{"Room width", result.Enclosure.Width},
		{"Room height", result.Enclosure.Height},
		{"Tile width", s.TileWidth},
		{"Tile height", s.TileHeight},
		{"Seam", s.Seam},
		{"Bias", s.Bias},
		{"Angle", s.Angle},
		{"Tiles", len(result.Tiles)},
		{"Full tiles", result.FullTiles()},
		{"Cut tiles", result.CutTiles()},
		{"Covered area", result.Area},
		{"Coverage %", result.Coverage()},
		{"Cut waste %", result.CutWaste()},
		{"Tiles incl. waste", est.TilesWithWaste},
		{"Boxes", est.Boxes},
		{"Estimated cost", est.EstimatedCost},
	}
}

func formatVertices(o model.Outline) string {
	parts := make([]string, len(o))
	for i, p := range o {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, "; ")
}
