package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/SlabTile/internal/model"
)

// DXF layer names.
const (
	LayerEnclosure = "ENCLOSURE"
	LayerFull      = "FULL"
	LayerCut       = "CUT"
)

// ExportDXF writes the room outline and every tile as closed LWPOLYLINEs in
// world coordinates. Full and cut tiles go to separate layers so a CAD user
// can hide either set.
func ExportDXF(path string, result model.LayoutResult) error {
	if len(result.Tiles) == 0 {
		return fmt.Errorf("no tiles to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerFull, color.Green, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerFull, err)
	}
	if _, err := d.AddLayer(LayerCut, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerCut, err)
	}
	if _, err := d.AddLayer(LayerEnclosure, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerEnclosure, err)
	}

	if _, err := d.LwPolyline(true, outlineVertices(result.Enclosure.Outline())...); err != nil {
		return fmt.Errorf("failed to write enclosure: %w", err)
	}

	for _, layer := range []string{LayerFull, LayerCut} {
		if err := d.ChangeLayer(layer); err != nil {
			return fmt.Errorf("failed to select layer %s: %w", layer, err)
		}
		for _, t := range result.Tiles {
			if t.Cut != (layer == LayerCut) {
				continue
			}
			if _, err := d.LwPolyline(true, outlineVertices(t.World)...); err != nil {
				return fmt.Errorf("failed to write tile %d: %w", t.Index, err)
			}
		}
	}

	return d.SaveAs(path)
}

func outlineVertices(o model.Outline) [][]float64 {
	vs := make([][]float64, len(o))
	for i, p := range o {
		vs[i] = []float64{p.X, p.Y}
	}
	return vs
}
