package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SlabTile/internal/model"
)

// LabelInfo is the payload of a cut tile label. It is also what the QR code
// on the label encodes, as JSON.
type LabelInfo struct {
	Number  int     `json:"tile"` // 1-based, matches the layout drawing
	Room    string  `json:"room"`
	Width   float64 `json:"width"` // piece bounding box in tile-local units
	Height  float64 `json:"height"`
	Area    float64 `json:"area"`
	Corners int     `json:"corners"`
	X       float64 `json:"x"` // lower-left of the piece in the room
	Y       float64 `json:"y"`

	Shape model.Outline `json:"-"`
}

// ErrNoCutTiles is returned when a layout has nothing to label.
var ErrNoCutTiles = errors.New("no cut tiles to generate labels for")

// labelSheet describes a sheet of adhesive labels in millimetres.
type labelSheet struct {
	top, left     float64
	width, height float64
	cols, rows    int
}

// avery5160 is the 3 x 10 address label sheet on US Letter.
var avery5160 = labelSheet{top: 12.7, left: 4.8, width: 66.7, height: 25.4, cols: 3, rows: 10}

func (s labelSheet) perPage() int { return s.cols * s.rows }

// slot returns the top-left corner of the i-th label on its page.
func (s labelSheet) slot(i int) (x, y float64) {
	i %= s.perPage()
	return s.left + float64(i%s.cols)*s.width, s.top + float64(i/s.cols)*s.height
}

const (
	qrSize       = 20.0
	labelPadding = 2.0
	sketchSize   = 8.0
)

// CollectLabelInfos returns one label per cut tile, in layout order.
func CollectLabelInfos(result model.LayoutResult) []LabelInfo {
	var labels []LabelInfo
	for _, t := range result.Tiles {
		if !t.Cut {
			continue
		}
		lo, hi := t.Local.BoundingBox()
		at, _ := t.World.BoundingBox()
		labels = append(labels, LabelInfo{
			Number:  t.Index + 1,
			Room:    result.Enclosure.Label,
			Width:   hi.X - lo.X,
			Height:  hi.Y - lo.Y,
			Area:    t.Area,
			Corners: len(t.Local),
			X:       at.X,
			Y:       at.Y,
			Shape:   t.Local,
		})
	}
	return labels
}

// ExportLabels writes a PDF of QR-coded labels, one per cut tile, on
// Avery 5160 sheets.
func ExportLabels(path string, result model.LayoutResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return ErrNoCutTiles
	}

	sheet := avery5160
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, info := range labels {
		if i%sheet.perPage() == 0 {
			pdf.AddPage()
		}
		x, y := sheet.slot(i)
		if err := drawLabel(pdf, sheet, x, y, info); err != nil {
			return fmt.Errorf("label for tile %d: %w", info.Number, err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

// labelLine is one line of label text.
type labelLine struct {
	style  string
	size   float64
	height float64
	gray   int
	text   string
}

func labelLines(info LabelInfo) []labelLine {
	title := fmt.Sprintf("Tile %d", info.Number)
	if info.Room != "" {
		title += " - " + info.Room
	}
	lines := []labelLine{
		{style: "B", size: 9, height: 5, text: title},
		{size: 7, height: 4, text: fmt.Sprintf("%.0f x %.0f", info.Width, info.Height)},
		{size: 6, height: 3.5, gray: 100, text: fmt.Sprintf("@ (%.0f, %.0f)", info.X, info.Y)},
	}
	if info.Corners != 4 {
		lines = append(lines, labelLine{style: "I", size: 6, height: 3.5, gray: 100, text: fmt.Sprintf("%d-sided cut", info.Corners)})
	}
	return lines
}

func drawLabel(pdf *fpdf.Fpdf, sheet labelSheet, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, sheet.width, sheet.height, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode QR code: %w", err)
	}
	name := fmt.Sprintf("qr_tile_%d", info.Number)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x+sheet.width-qrSize-labelPadding, y+(sheet.height-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textW := sheet.width - qrSize - sketchSize - 4*labelPadding
	cy := y + labelPadding
	for _, l := range labelLines(info) {
		pdf.SetFont("Helvetica", l.style, l.size)
		pdf.SetTextColor(l.gray, l.gray, l.gray)
		pdf.SetXY(x+labelPadding, cy)
		pdf.CellFormat(textW, l.height, fitText(pdf, l.text, textW), "", 0, "L", false, 0, "")
		cy += l.height
	}
	pdf.SetTextColor(0, 0, 0)

	drawSketch(pdf, info.Shape, x+labelPadding+textW+labelPadding, y+(sheet.height-sketchSize)/2)
	return nil
}

// fitText shortens s with an ellipsis until it fits in w.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// drawSketch draws the piece outline scaled into a sketchSize square at
// (x, y), with the y axis flipped to page orientation.
func drawSketch(pdf *fpdf.Fpdf, shape model.Outline, x, y float64) {
	if len(shape) < 3 {
		return
	}
	lo, hi := shape.BoundingBox()
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if w <= 0 || h <= 0 {
		return
	}
	scale := sketchSize / max(w, h)
	pts := make([]fpdf.PointType, len(shape))
	for i, p := range shape {
		pts[i] = fpdf.PointType{X: x + (p.X-lo.X)*scale, Y: y + sketchSize - (p.Y-lo.Y)*scale}
	}
	pdf.SetDrawColor(80, 80, 80)
	pdf.SetFillColor(235, 235, 235)
	pdf.SetLineWidth(0.2)
	pdf.Polygon(pts, "FD")
}
