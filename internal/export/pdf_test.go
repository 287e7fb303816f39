package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlabTile/internal/engine"
	"github.com/piwi3910/SlabTile/internal/model"
)

// rectTile builds a tile whose world and local outlines are the same rectangle.
func rectTile(index int, x, y, w, h float64, cut bool) model.Tile {
	world := model.Outline{{X: x, Y: y}, {X: x, Y: y + h}, {X: x + w, Y: y + h}, {X: x + w, Y: y}}
	return model.Tile{
		Index: index,
		Seed:  model.Point2D{X: x, Y: y},
		Local: world.Translate(-x, -y),
		World: world,
		Area:  w * h,
		Cut:   cut,
	}
}

// buildTestResult creates a 900x600 room covered by one full and one cut 600 mm tile.
func buildTestResult() model.LayoutResult {
	return model.LayoutResult{
		ID:        "test0001",
		Enclosure: model.Enclosure{ID: "r1", Label: "Hallway", Width: 900, Height: 600},
		Settings:  model.GridSettings{TileWidth: 600, TileHeight: 600, Seam: 3},
		Tiles: []model.Tile{
			rectTile(0, 0, 0, 600, 600, false),
			rectTile(1, 603, 0, 297, 600, true),
		},
		Area: 600*600 + 297*600,
	}
}

// buildEngineResult lays out a real room so the exports see many cut tiles.
func buildEngineResult(t *testing.T) model.LayoutResult {
	t.Helper()
	settings := model.DefaultGridSettings()
	settings.Bias = 150
	result, err := engine.New(settings).Layout(context.Background(), model.NewEnclosure("Kitchen", 3050, 2050))
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	return result
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.pdf")

	err := ExportPDF(path, buildTestResult(), DefaultReportOptions())
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	// Layout page plus summary page
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportPDF(path, model.LayoutResult{}, DefaultReportOptions())
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty result")
	}
}

func TestExportPDF_EngineLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kitchen.pdf")

	result := buildEngineResult(t)
	if result.CutTiles() == 0 {
		t.Fatal("expected the kitchen layout to contain cut tiles")
	}

	opts := DefaultReportOptions()
	opts.Config.PricePerBox = 45
	if err := ExportPDF(path, result, opts); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportPDF_RotatedLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagonal.pdf")

	settings := model.DefaultGridSettings()
	settings.Angle = 45
	result, err := engine.New(settings).Layout(context.Background(), model.NewEnclosure("Bath", 1800, 1200))
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}

	if err := ExportPDF(path, result, DefaultReportOptions()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_NoGroutSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "no_grout.pdf")

	result := buildTestResult()
	result.Settings.Seam = 0
	opts := DefaultReportOptions()
	opts.JointDepth = 0

	if err := ExportPDF(path, result, opts); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_InvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.pdf")
	if err := ExportPDF(path, buildTestResult(), DefaultReportOptions()); err == nil {
		t.Fatal("expected error for unwritable path, got nil")
	}
}

func TestNewPageMapper_FlipsY(t *testing.T) {
	e := model.Enclosure{Width: 200, Height: 100}
	m := newPageMapper(e, 100, 100)

	bottomLeft := m.point(model.Point2D{X: 0, Y: 0})
	topLeft := m.point(model.Point2D{X: 0, Y: 100})

	if topLeft.Y >= bottomLeft.Y {
		t.Errorf("room top should be drawn above room bottom: top %.2f, bottom %.2f", topLeft.Y, bottomLeft.Y)
	}
	if got := bottomLeft.Y - topLeft.Y; got < 49.99 || got > 50.01 {
		t.Errorf("expected 50 mm drawn height at scale 0.5, got %.2f", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	if labelFontSize(2, 2) >= labelFontSize(200, 200) {
		t.Error("small tiles should get a smaller label font than large tiles")
	}
}
