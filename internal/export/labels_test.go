package export

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlabTile/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	err := ExportLabels(path, buildTestResult())
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportLabels(path, model.LayoutResult{})
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportLabels_NoCutTiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "no_cuts.pdf")

	result := model.LayoutResult{
		Enclosure: model.Enclosure{Label: "Closet", Width: 600, Height: 600},
		Settings:  model.GridSettings{TileWidth: 600, TileHeight: 600},
		Tiles:     []model.Tile{rectTile(0, 0, 0, 600, 600, false)},
		Area:      600 * 600,
	}
	if err := ExportLabels(path, result); !errors.Is(err, ErrNoCutTiles) {
		t.Fatalf("expected ErrNoCutTiles, got %v", err)
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestResult())

	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}

	l := labels[0]
	if l.Number != 2 {
		t.Errorf("expected tile number 2, got %d", l.Number)
	}
	if l.Room != "Hallway" {
		t.Errorf("expected room 'Hallway', got %q", l.Room)
	}
	if l.Width != 297 || l.Height != 600 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 297x600", l.Width, l.Height)
	}
	if l.Corners != 4 {
		t.Errorf("expected 4 corners, got %d", l.Corners)
	}
	if l.X != 603 || l.Y != 0 {
		t.Errorf("wrong position: got (%.0f, %.0f), want (603, 0)", l.X, l.Y)
	}
	if len(l.Shape) != 4 {
		t.Errorf("expected the piece outline on the label, got %d points", len(l.Shape))
	}
}

func TestCollectLabelInfos_SkipsFullTiles(t *testing.T) {
	result := buildTestResult()
	result.Tiles[1].Cut = false
	if labels := CollectLabelInfos(result); len(labels) != 0 {
		t.Errorf("expected no labels, got %d", len(labels))
	}
}

func TestLabelInfo_QRPayload(t *testing.T) {
	info := LabelInfo{Number: 7, Room: "Bath", Width: 120, Height: 300, Area: 36000, Corners: 5}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if payload["tile"] != float64(7) {
		t.Errorf("expected tile key 7, got %v", payload["tile"])
	}
	if payload["room"] != "Bath" {
		t.Errorf("expected room key 'Bath', got %v", payload["room"])
	}
}

func TestExportLabels_ManyCutTiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	// 35 cut strips span two label pages
	tiles := make([]model.Tile, 35)
	for i := range tiles {
		tiles[i] = rectTile(i, float64(i)*100, 0, 50+float64(i), 100, true)
	}
	result := model.LayoutResult{
		Enclosure: model.Enclosure{Label: "Long Corridor", Width: 3600, Height: 100},
		Settings:  model.GridSettings{TileWidth: 100, TileHeight: 100},
		Tiles:     tiles,
	}

	err := ExportLabels(path, result)
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestLabelSheet_Slot(t *testing.T) {
	tests := []struct {
		index int
		x, y  float64
	}{
		{0, 4.8, 12.7},
		{2, 4.8 + 2*66.7, 12.7},
		{3, 4.8, 12.7 + 25.4},
		{29, 4.8 + 2*66.7, 12.7 + 9*25.4},
		{30, 4.8, 12.7}, // next page
	}
	for _, tt := range tests {
		x, y := avery5160.slot(tt.index)
		if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 {
			t.Errorf("slot(%d) = (%.2f, %.2f), want (%.2f, %.2f)", tt.index, x, y, tt.x, tt.y)
		}
	}
}

func TestLabelLines_MarksIrregularPieces(t *testing.T) {
	if n := len(labelLines(LabelInfo{Number: 1, Corners: 4})); n != 3 {
		t.Errorf("expected 3 lines for a rectangular piece, got %d", n)
	}
	lines := labelLines(LabelInfo{Number: 1, Room: "Bath", Corners: 5})
	if len(lines) != 4 || lines[3].text != "5-sided cut" {
		t.Errorf("unexpected lines: %+v", lines)
	}
	if lines[0].text != "Tile 1 - Bath" {
		t.Errorf("unexpected title %q", lines[0].text)
	}
}

func TestFitText(t *testing.T) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetFont("Helvetica", "B", 9)

	if got := fitText(pdf, "Tile 1", 50); got != "Tile 1" {
		t.Errorf("short text changed: %q", got)
	}
	got := fitText(pdf, "Tile 12 - A very long room name that will not fit", 20)
	if !strings.HasSuffix(got, "...") || pdf.GetStringWidth(got) > 20 {
		t.Errorf("text not fitted: %q", got)
	}
}
