// Package export writes tile layouts to PDF, DXF, XLSX and PNG files and
// prints QR-coded labels for cut tiles.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlabTile/internal/model"
)

// tileColor represents an RGB color for a tile.
type tileColor struct {
	R, G, B int
}

var (
	fullTileColor = tileColor{R: 76, G: 175, B: 80}   // green
	cutTileColor  = tileColor{R: 255, G: 152, B: 0}   // orange
	roomColor     = tileColor{R: 230, G: 226, B: 218} // grout grey
)

// colorFor returns the fill color of a tile.
func colorFor(t model.Tile) tileColor {
	if t.Cut {
		return cutTileColor
	}
	return fullTileColor
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ReportOptions controls the quantities printed on the summary page.
type ReportOptions struct {
	Config     model.AppConfig
	JointDepth float64 // Grout joint depth in layout units, 0 skips the grout section
}

// DefaultReportOptions returns options built from the default app config.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{Config: model.DefaultAppConfig(), JointDepth: 8}
}

// ExportPDF generates a PDF document for a layout: a scaled drawing of the
// room with every tile, followed by a summary page with quantities.
func ExportPDF(path string, result model.LayoutResult, opts ReportOptions) error {
	if len(result.Tiles) == 0 {
		return fmt.Errorf("no tiles to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result, opts.Config.Units)

	pdf.AddPage()
	renderSummaryPage(pdf, result, opts)

	return pdf.OutputFileAndClose(path)
}

// pageMapper maps layout coordinates onto the drawing area of a page.
// The layout frame is y-up; the page frame is y-down.
type pageMapper struct {
	origin           model.Point2D
	scale            float64
	offsetX, offsetY float64
	canvasW, canvasH float64
}

func newPageMapper(e model.Enclosure, drawWidth, drawHeight float64) pageMapper {
	scale := math.Min(drawWidth/e.Width, drawHeight/e.Height)
	canvasW := e.Width * scale
	canvasH := e.Height * scale
	return pageMapper{
		origin:  e.Origin,
		scale:   scale,
		offsetX: marginLeft + (drawWidth-canvasW)/2,
		offsetY: drawAreaTop,
		canvasW: canvasW,
		canvasH: canvasH,
	}
}

func (m pageMapper) point(p model.Point2D) fpdf.PointType {
	return fpdf.PointType{
		X: m.offsetX + (p.X-m.origin.X)*m.scale,
		Y: m.offsetY + m.canvasH - (p.Y-m.origin.Y)*m.scale,
	}
}

func (m pageMapper) polygon(o model.Outline) []fpdf.PointType {
	pts := make([]fpdf.PointType, len(o))
	for i, p := range o {
		pts[i] = m.point(p)
	}
	return pts
}

// renderLayoutPage draws the room and its tiles on the current PDF page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.LayoutResult, units string) {
	e := result.Enclosure

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%.0f x %.0f %s)", e.Label, e.Width, e.Height, units)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	s := result.Settings
	stats := fmt.Sprintf("Tiles: %d (full %d, cut %d) | Tile %.0fx%.0f | Seam %.1f | Bias %.1f | Angle %.1f\xb0 | Coverage %.1f%%",
		len(result.Tiles), result.FullTiles(), result.CutTiles(),
		s.TileWidth, s.TileHeight, s.Seam, s.Bias, s.Angle, result.Coverage())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	m := newPageMapper(e, drawWidth, drawHeight)

	// Room background shows through the seams
	pdf.SetFillColor(roomColor.R, roomColor.G, roomColor.B)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(m.offsetX, m.offsetY, m.canvasW, m.canvasH, "FD")

	for _, t := range result.Tiles {
		col := colorFor(t)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Polygon(m.polygon(t.World), "FD")

		// Number cut tiles so they can be matched with their labels
		if !t.Cut {
			continue
		}
		min, max := t.World.BoundingBox()
		w := (max.X - min.X) * m.scale
		h := (max.Y - min.Y) * m.scale
		if w > 6 && h > 4 {
			pdf.SetFont("Helvetica", "", labelFontSize(w, h))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("%d", t.Index+1)
			lw := pdf.GetStringWidth(label)
			c := m.point(model.Point2D{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2})
			pdf.SetXY(c.X-lw/2, c.Y-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, e, units, m)
	drawLegend(pdf, result, m.offsetY+m.canvasH+6)
}

// drawDimensionAnnotations adds width and height dimension labels outside the room rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, e model.Enclosure, units string, m pageMapper) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the room)
	widthLabel := fmt.Sprintf("%.0f %s", e.Width, units)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(m.offsetX+(m.canvasW-wLabelW)/2, m.offsetY+m.canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left of the room, rotated)
	heightLabel := fmt.Sprintf("%.0f %s", e.Height, units)
	pdf.TransformBegin()
	pdf.TransformRotate(90, m.offsetX-3, m.offsetY+m.canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(m.offsetX-3-hLabelW/2, m.offsetY+m.canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders the full/cut colour key below the drawing.
func drawLegend(pdf *fpdf.Fpdf, result model.LayoutResult, y float64) {
	entries := []struct {
		col   tileColor
		label string
	}{
		{fullTileColor, fmt.Sprintf("Full tiles (%d)", result.FullTiles())},
		{cutTileColor, fmt.Sprintf("Cut tiles (%d)", result.CutTiles())},
	}

	pdf.SetFont("Helvetica", "", 8)
	x := marginLeft
	for _, en := range entries {
		pdf.SetFillColor(en.col.R, en.col.G, en.col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(en.label) + 2
		pdf.CellFormat(w, 4, en.label, "", 0, "L", false, 0, "")
		x += w + 8
	}
}

// renderSummaryPage draws the final summary page with quantities.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.LayoutResult, opts ReportOptions) {
	cfg := opts.Config
	units := cfg.Units

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Tiling Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	est := model.CalculatePurchaseEstimate(result, cfg.WastePercent, cfg.TilesPerBox, cfg.PricePerBox, units)
	offcuts := model.DetectOffcuts(result, model.DefaultReusableFraction)

	sections := []struct {
		title string
		items [][2]string
	}{
		{
			title: "Layout",
			items: [][2]string{
				{"Room", fmt.Sprintf("%.0f x %.0f %s", result.Enclosure.Width, result.Enclosure.Height, units)},
				{"Tiles laid", fmt.Sprintf("%d", len(result.Tiles))},
				{"Full / cut tiles", fmt.Sprintf("%d / %d", result.FullTiles(), result.CutTiles())},
				{"Covered area", fmt.Sprintf("%.2f m\xb2", est.CoveredAreaSqM)},
				{"Cut waste", fmt.Sprintf("%.1f%%", result.CutWaste())},
			},
		},
		{
			title: "Purchase",
			items: [][2]string{
				{"Tiles incl. waste", fmt.Sprintf("%d (+%.0f%%)", est.TilesWithWaste, est.WastePercent)},
				{"Boxes", fmt.Sprintf("%d x %d tiles", est.Boxes, est.TilesPerBox)},
				{"Purchased area", fmt.Sprintf("%.2f m\xb2", est.PurchasedAreaSq)},
				{"Estimated cost", fmt.Sprintf("%.2f", est.EstimatedCost)},
			},
		},
		{
			title: "Offcuts",
			items: [][2]string{
				{"Offcuts", fmt.Sprintf("%d", len(offcuts))},
				{"Reusable", fmt.Sprintf("%d", len(model.ReusableOffcuts(offcuts)))},
			},
		},
	}

	if opts.JointDepth > 0 && result.Settings.Seam > 0 {
		g := model.CalculateGrout(result, opts.JointDepth, cfg.WastePercent, units)
		sections = append(sections, struct {
			title string
			items [][2]string
		}{
			title: "Grout",
			items: [][2]string{
				{"Joint length", fmt.Sprintf("%.2f m", g.JointLengthM)},
				{"Joint size", fmt.Sprintf("%.1f x %.1f %s", g.JointWidth, g.JointDepth, units)},
				{"Grout", fmt.Sprintf("%.2f l / %.1f kg", g.VolumeLitres, g.MassKg)},
			},
		})
	}

	for _, sec := range sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, sec.title, "", 0, "L", false, 0, "")
		y += 9

		pdf.SetFont("Helvetica", "", 10)
		for _, item := range sec.items {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(60, 6, item[0]+":", "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(60, 6, item[1], "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			y += 7
		}
		y += 3
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SlabTile - Tile Layout Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
