package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := map[rune]string{
		',':  "Room,Width,Height\nKitchen,3600,2800\nBath,2400,1800\n",
		';':  "Room;Width;Height\nKitchen;3600;2800\nBath;2400;1800\n",
		'\t': "Room\tWidth\tHeight\nKitchen\t3600\t2800\nBath\t2400\t1800\n",
		'|':  "Room|Width|Height\nKitchen|3600|2800\nBath|2400|1800\n",
	}
	for want, data := range tests {
		t.Run(delimiterNames[want], func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(data)); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestDetectCSVDelimiter_SingleColumnFallsBackToComma(t *testing.T) {
	if got := DetectCSVDelimiter([]byte("Kitchen\nBath\n")); got != ',' {
		t.Errorf("expected comma fallback, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Label", "Width", "Height", "X", "Y"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.X != 3 || mapping.Y != 4 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Room", "Length", "Depth"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.X != -1 || mapping.Y != -1 {
		t.Errorf("expected origin columns to be absent, got %+v", mapping)
	}
}

func TestDetectColumns_CaseInsensitiveReordered(t *testing.T) {
	mapping, ok := DetectColumns([]string{" HEIGHT ", "w", "NAME"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	if mapping.Height != 0 || mapping.Width != 1 || mapping.Label != 2 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Kitchen", "3600", "2800"})
	if ok {
		t.Error("expected no header for numeric row")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.X != 3 || mapping.Y != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Room,Width,Height,X,Y\nKitchen,3600,2800,0,0\nBath,2400,1800,3600,500\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}

	kitchen := result.Rooms[0]
	if kitchen.Label != "Kitchen" {
		t.Errorf("expected label 'Kitchen', got '%s'", kitchen.Label)
	}
	if kitchen.Width != 3600 || kitchen.Height != 2800 {
		t.Errorf("expected 3600x2800, got %.0fx%.0f", kitchen.Width, kitchen.Height)
	}
	if kitchen.ID == "" {
		t.Error("expected imported room to get an ID")
	}

	bath := result.Rooms[1]
	if bath.Origin.X != 3600 || bath.Origin.Y != 500 {
		t.Errorf("expected origin (3600, 500), got (%.0f, %.0f)", bath.Origin.X, bath.Origin.Y)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Kitchen,3600,2800\nBath,2400,1800\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[1].Label != "Bath" || result.Rooms[1].Width != 2400 {
		t.Errorf("unexpected second room: %+v", result.Rooms[1])
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Zone,Breite,Tiefe\nKitchen,3600,2800\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about the skipped header row")
	}
}

func TestImportCSVFromReader_SemicolonDecimalComma(t *testing.T) {
	data := "Room;Width;Height\nHall;1200,5;900\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(result.Rooms))
	}
	if result.Rooms[0].Width != 1200.5 {
		t.Errorf("expected width 1200.5, got %f", result.Rooms[0].Width)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"invalid width", "Hall,abc,900", "Invalid width"},
		{"invalid height", "Hall,1200,xyz", "Invalid height"},
		{"missing height", "Hall,1200,", "Missing height"},
		{"negative", "Hall,-1200,900", "must be positive"},
		{"zero", "Hall,1200,0", "must be positive"},
		{"invalid origin", "Hall,1200,900,left", "Invalid x"},
		{"infinite", "Hall,Inf,900", "Invalid width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Room,Width,Height,X\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')
			if len(result.Rooms) != 0 {
				t.Errorf("expected no rooms, got %d", len(result.Rooms))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Room,Width,Height\nKitchen,3600,2800\nBad,abc,100\nBath,2400,1800\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 2 {
		t.Errorf("expected 2 valid rooms, got %d", len(result.Rooms))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 3") {
		t.Errorf("expected error to name line 3, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyRowsAndLabels(t *testing.T) {
	data := "Room,Width,Height\n,3600,2800\n\n,,\n,2400,1800\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
	if result.Rooms[0].Label != "Room 1" || result.Rooms[1].Label != "Room 2" {
		t.Errorf("expected generated labels, got %q and %q", result.Rooms[0].Label, result.Rooms[1].Label)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Room,Width\nKitchen,3600\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Required columns not found") && strings.Contains(e, "Height") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Required columns not found' error, got: %v", result.Errors)
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Room,Width,Height\n"), ',')
	if len(result.Rooms) != 0 {
		t.Errorf("expected 0 rooms, got %d", len(result.Rooms))
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.csv")
	content := "Room;Width;Height\nKitchen;3600;2800\nBath;2400;1800\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Rooms) != 2 {
		t.Errorf("expected 2 rooms, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}

	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/rooms.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "X", "Y"},
		{"Kitchen", 3600, 2800, 0, 0},
		{"Bath", 2400.5, 1800, 3600, 0},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(result.Rooms))
	}
	if result.Rooms[1].Width != 2400.5 {
		t.Errorf("expected width 2400.5, got %f", result.Rooms[1].Width)
	}
	if result.Rooms[1].Origin.X != 3600 {
		t.Errorf("expected origin x 3600, got %f", result.Rooms[1].Origin.X)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Kitchen", 3600, 2800},
	})

	result := ImportExcel(path)
	if len(result.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d (errors: %v)", len(result.Rooms), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/rooms.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Room", "Width", "Height"},
		{"Kitchen", "wide", 2800},
	})

	result := ImportExcel(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for invalid width")
	}
	if !strings.Contains(result.Errors[0], "Row 2") {
		t.Errorf("expected error to name row 2, got %q", result.Errors[0])
	}
}
