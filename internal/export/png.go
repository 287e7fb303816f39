package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"

	"github.com/piwi3910/SlabTile/internal/model"
)

// PreviewOptions controls the PNG preview size.
type PreviewOptions struct {
	MaxSize int     // Longest image side in pixels
	Margin  int     // Border around the room in pixels
	Stroke  float64 // Tile outline width in pixels
}

// DefaultPreviewOptions returns a 1200 px preview.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{MaxSize: 1200, Margin: 20, Stroke: 1}
}

// RenderPNG writes a PNG preview of the layout to w.
func RenderPNG(w io.Writer, result model.LayoutResult, opts PreviewOptions) error {
	e := result.Enclosure
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("invalid room size %gx%g", e.Width, e.Height)
	}
	if opts.MaxSize <= 2*opts.Margin {
		return fmt.Errorf("preview size %d too small for margin %d", opts.MaxSize, opts.Margin)
	}

	drawable := float64(opts.MaxSize - 2*opts.Margin)
	scale := drawable / math.Max(e.Width, e.Height)
	width := int(math.Ceil(e.Width*scale)) + 2*opts.Margin
	height := int(math.Ceil(e.Height*scale)) + 2*opts.Margin
	margin := float64(opts.Margin)

	// Image rows grow downward; the layout frame is y-up.
	px := func(p model.Point2D) (float64, float64) {
		return margin + (p.X-e.Origin.X)*scale, float64(height) - margin - (p.Y-e.Origin.Y)*scale
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)

	dc.SetRGB(rgb(roomColor))
	dc.DrawRectangle(margin, margin, e.Width*scale, e.Height*scale)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("failed to draw room: %w", err)
	}

	for _, t := range result.Tiles {
		if len(t.World) < 3 {
			continue
		}
		tracePolygon(dc, t.World, px)
		dc.SetRGB(rgb(colorFor(t)))
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("failed to fill tile %d: %w", t.Index, err)
		}
		dc.SetRGB(0.12, 0.12, 0.12)
		dc.SetLineWidth(opts.Stroke)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to stroke tile %d: %w", t.Index, err)
		}
	}

	tracePolygon(dc, e.Outline(), px)
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(2 * opts.Stroke)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw room outline: %w", err)
	}

	return dc.EncodePNG(w)
}

// ExportPNG renders the layout preview into a file.
func ExportPNG(path string, result model.LayoutResult, opts PreviewOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := RenderPNG(f, result, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func tracePolygon(dc *gg.Context, o model.Outline, px func(model.Point2D) (float64, float64)) {
	x, y := px(o[0])
	dc.MoveTo(x, y)
	for _, p := range o[1:] {
		x, y = px(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
}

func rgb(c tileColor) (float64, float64, float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}
