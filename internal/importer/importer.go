// Package importer reads room lists from CSV and Excel files and room
// outlines from DXF drawings. Column headers are matched case-insensitively
// against a set of aliases; files without a header are read positionally.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
)

// ImportResult holds the results of an import operation. Bad rows are
// reported in Errors and skipped; the remaining rooms are still returned.
type ImportResult struct {
	Rooms    []model.Enclosure
	Errors   []string
	Warnings []string
}

func failure(format string, args ...any) ImportResult {
	return ImportResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

// ColumnMapping holds the column index of each room field, -1 when absent.
type ColumnMapping struct {
	Label  int
	Width  int
	Height int
	X      int
	Y      int
}

// positional is the column order assumed for files without a header.
var positional = ColumnMapping{Label: 0, Width: 1, Height: 2, X: 3, Y: 4}

// headerAliases lists the accepted header names per field, lowercase.
var headerAliases = map[string][]string{
	"label":  {"label", "name", "room", "room name", "description", "desc", "area"},
	"width":  {"width", "w", "length", "len"},
	"height": {"height", "h", "depth", "d"},
	"x":      {"x", "origin x", "x0", "left"},
	"y":      {"y", "origin y", "y0", "bottom"},
}

var aliasField = func() map[string]string {
	m := make(map[string]string)
	for field, aliases := range headerAliases {
		for _, a := range aliases {
			m[a] = field
		}
	}
	return m
}()

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// that splits the data into the most consistent number of columns. Column
// count breaks ties; comma wins when nothing splits.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		rows, err := readCSV(bytes.NewReader(data), d)
		if err != nil || len(rows) == 0 || len(rows[0]) < 2 {
			continue
		}
		width := len(rows[0])
		consistent := 0
		for _, r := range rows {
			if len(r) == width {
				consistent++
			}
		}
		if score := consistent*10 + width; score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// DetectColumns maps a header row to column indices. It returns the
// positional mapping and false when no cell names a known field.
func DetectColumns(row []string) (ColumnMapping, bool) {
	found := make(map[string]int)
	for i, c := range row {
		field, ok := aliasField[strings.ToLower(strings.TrimSpace(c))]
		if !ok {
			continue
		}
		if _, dup := found[field]; !dup {
			found[field] = i
		}
	}
	if len(found) == 0 {
		return positional, false
	}

	index := func(field string) int {
		if i, ok := found[field]; ok {
			return i
		}
		return -1
	}
	return ColumnMapping{
		Label:  index("label"),
		Width:  index("width"),
		Height: index("height"),
		X:      index("x"),
		Y:      index("y"),
	}, true
}

// ImportCSV imports rooms from a CSV file with a detected delimiter.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure("Cannot open file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return failure("File is empty")
	}

	delimiter := DetectCSVDelimiter(data)
	result := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	if delimiter != ',' {
		note := fmt.Sprintf("Detected %s delimiter", delimiterNames[delimiter])
		result.Warnings = append([]string{note}, result.Warnings...)
	}

	logging.Logger().Debug("imported rooms", "path", path, "rooms", len(result.Rooms), "errors", len(result.Errors))
	return result
}

// ImportCSVFromReader imports rooms from CSV data with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	rows, err := readCSV(reader, delimiter)
	if err != nil {
		return failure("Cannot read CSV: %v", err)
	}
	if len(rows) == 0 {
		return failure("File is empty")
	}
	return importFromRows(rows, "Line")
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

// ImportExcel imports rooms from the first sheet of an .xlsx file.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return failure("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return failure("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return failure("Cannot read Excel data: %v", err)
	}
	if len(rows) == 0 {
		return failure("Sheet is empty")
	}

	result := importFromRows(rows, "Row")
	logging.Logger().Debug("imported rooms", "path", path, "rooms", len(result.Rooms), "errors", len(result.Errors))
	return result
}

// importFromRows turns table rows into rooms. rowName prefixes the
// one-based row numbers in messages.
func importFromRows(rows [][]string, rowName string) ImportResult {
	var result ImportResult
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, skipFirst, problem := readHeader(rows[0])
	if problem != "" {
		result.Errors = append(result.Errors, problem)
		return result
	}
	start := 0
	if skipFirst {
		start = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := start; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		room, problem := parseRow(rows[i], mapping, len(result.Rooms))
		if problem != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %d: %s", rowName, i+1, problem))
			continue
		}
		result.Rooms = append(result.Rooms, room)
	}
	return result
}

// readHeader decides how to read the first row: as a known header, as an
// unknown header whose width cell is not a number, or as data.
func readHeader(first []string) (mapping ColumnMapping, skip bool, problem string) {
	mapping, ok := DetectColumns(first)
	if ok {
		var missing []string
		if mapping.Width < 0 {
			missing = append(missing, "Width")
		}
		if mapping.Height < 0 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			return mapping, true, "Required columns not found in header: " + strings.Join(missing, ", ")
		}
		return mapping, true, ""
	}

	if len(first) >= 3 {
		if _, err := parseNumber(cell(first, positional.Width)); err != nil {
			return mapping, true, ""
		}
	}
	return mapping, false, ""
}

// parseRow builds a room from one row. roomCount numbers unlabelled rooms.
func parseRow(row []string, mapping ColumnMapping, roomCount int) (model.Enclosure, string) {
	width, problem := required(row, mapping.Width, "width")
	if problem != "" {
		return model.Enclosure{}, problem
	}
	height, problem := required(row, mapping.Height, "height")
	if problem != "" {
		return model.Enclosure{}, problem
	}
	if width <= 0 || height <= 0 {
		return model.Enclosure{}, "Width and height must be positive"
	}

	label := cell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Room %d", roomCount+1)
	}
	room := model.NewEnclosure(label, width, height)

	if room.Origin.X, problem = optional(row, mapping.X, "x"); problem != "" {
		return model.Enclosure{}, problem
	}
	if room.Origin.Y, problem = optional(row, mapping.Y, "y"); problem != "" {
		return model.Enclosure{}, problem
	}
	return room, ""
}

func required(row []string, idx int, name string) (float64, string) {
	s := cell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("Missing %s value", name)
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, fmt.Sprintf("Invalid %s '%s'", name, s)
	}
	return v, ""
}

func optional(row []string, idx int, name string) (float64, string) {
	s := cell(row, idx)
	if s == "" {
		return 0, ""
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, fmt.Sprintf("Invalid %s '%s'", name, s)
	}
	return v, ""
}

// parseNumber parses a finite dimension, accepting a decimal comma.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// cell returns the trimmed cell at idx, or "" when idx is out of range.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	return strings.TrimSpace(strings.Join(row, "")) == ""
}
