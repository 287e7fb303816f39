package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SlabTile/internal/engine"
	"github.com/piwi3910/SlabTile/internal/export"
	"github.com/piwi3910/SlabTile/internal/gcode"
	"github.com/piwi3910/SlabTile/internal/importer"
	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
	"github.com/piwi3910/SlabTile/internal/project"
)

type layoutOptions struct {
	room string
	json bool
	save string
}

type optimizeOptions struct {
	room           string
	population     int
	generations    int
	seed           int64
	minCutFraction float64
}

func defaultOptimizeOptions() optimizeOptions {
	cfg := engine.DefaultGeneticConfig()
	return optimizeOptions{
		population:     cfg.PopulationSize,
		generations:    cfg.Generations,
		seed:           cfg.Seed,
		minCutFraction: cfg.MinCutFraction,
	}
}

type exportOptions struct {
	outDir  string
	room    string
	profile string

	pdf, labels, dxf, xlsx, png, gcode, cutPlan bool
}

// all reports whether no format was selected, which exports every format.
func (o exportOptions) all() bool {
	return !o.pdf && !o.labels && !o.dxf && !o.xlsx && !o.png && !o.gcode && !o.cutPlan
}

// selectRooms returns the room spec entries matching key by label or ID, or all
// rooms when key is empty.
func selectRooms(spec *project.Spec, key string) ([]model.Enclosure, error) {
	if key == "" {
		return spec.Rooms, nil
	}
	for _, r := range spec.Rooms {
		if r.Label == key || r.ID == key {
			return []model.Enclosure{r}, nil
		}
	}
	return nil, fmt.Errorf("spec %q has no room %q", spec.Name, key)
}

// layoutRooms lays out the selected rooms with the room spec settings.
func layoutRooms(ctx context.Context, spec *project.Spec, key string) ([]model.LayoutResult, error) {
	rooms, err := selectRooms(spec, key)
	if err != nil {
		return nil, err
	}

	eng := engine.New(spec.Settings)
	results := make([]model.LayoutResult, 0, len(rooms))
	for _, room := range rooms {
		result, err := eng.Layout(ctx, room)
		if err != nil {
			return nil, fmt.Errorf("laying out %s: %w", room.Label, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func runLayout(ctx context.Context, w io.Writer, configPath, specPath string, opts layoutOptions) error {
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	spec, err := project.LoadSpec(specPath)
	if err != nil {
		return err
	}

	results, err := layoutRooms(ctx, spec, opts.room)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "%s: %d room(s), tile %gx%g, seam %g\n\n",
			spec.Name, len(results), spec.Settings.TileWidth, spec.Settings.TileHeight, spec.Settings.Seam)
		for _, result := range results {
			printLayout(w, result, cfg)
		}
		if len(results) > 1 {
			printTotals(w, results, cfg)
		}
	}

	if opts.save == "" {
		return nil
	}
	byID := make(map[string]model.Project, len(spec.Rooms))
	for _, p := range spec.Projects() {
		byID[p.Enclosure.ID] = p
	}
	for _, result := range results {
		p := byID[result.Enclosure.ID]
		p.Result = &result
		path := filepath.Join(opts.save, fileStem(result.Enclosure.Label)+project.FileExtension)
		if err := project.Save(path, p); err != nil {
			return err
		}
		project.AddRecentProject(&cfg, path, 10)
		logging.Logger().Info("saved project", "path", path)
	}
	return project.SaveAppConfig(configPath, cfg)
}

func runCompare(ctx context.Context, w io.Writer, specPath, room string) error {
	spec, err := project.LoadSpec(specPath)
	if err != nil {
		return err
	}
	rooms, err := selectRooms(spec, room)
	if err != nil {
		return err
	}

	scenarios := engine.BuildDefaultScenarios(spec.Settings)
	for _, r := range rooms {
		printComparison(w, r, engine.CompareScenarios(ctx, scenarios, r))
	}
	return nil
}

func runOptimize(ctx context.Context, w io.Writer, specPath string, opts optimizeOptions) error {
	spec, err := project.LoadSpec(specPath)
	if err != nil {
		return err
	}
	rooms, err := selectRooms(spec, opts.room)
	if err != nil {
		return err
	}

	cfg := engine.DefaultGeneticConfig()
	cfg.PopulationSize = opts.population
	cfg.Generations = opts.generations
	cfg.Seed = opts.seed
	cfg.MinCutFraction = opts.minCutFraction

	eng := engine.New(spec.Settings)
	for _, r := range rooms {
		res, err := eng.OptimizeOffset(ctx, r, cfg)
		if err != nil {
			return fmt.Errorf("optimizing %s: %w", r.Label, err)
		}
		printOptimize(w, r, res)
	}
	return nil
}

func runExport(ctx context.Context, w io.Writer, g *globalFlags, specPath string, opts exportOptions) error {
	cfg, err := project.LoadAppConfig(g.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	spec, err := project.LoadSpec(specPath)
	if err != nil {
		return err
	}
	results, err := layoutRooms(ctx, spec, opts.room)
	if err != nil {
		return err
	}

	cutter := spec.CutterOrDefault(cfg.Cutter)
	if opts.profile != "" {
		cutter.Profile = opts.profile
	}
	custom, err := project.LoadCustomProfiles(g.profilesPath())
	if err != nil {
		return fmt.Errorf("loading GCode profiles: %w", err)
	}
	gen := gcode.New(cutter, custom...)

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	all := opts.all()
	report := export.ReportOptions{Config: cfg, JointDepth: export.DefaultReportOptions().JointDepth}

	for _, result := range results {
		base := filepath.Join(opts.outDir, fileStem(result.Enclosure.Label))
		hasCuts := result.CutTiles() > 0
		var written []string

		if all || opts.pdf {
			path := base + ".pdf"
			if err := export.ExportPDF(path, result, report); err != nil {
				return err
			}
			written = append(written, path)
		}
		if (all || opts.labels) && hasCuts {
			path := base + "_labels.pdf"
			if err := export.ExportLabels(path, result); err != nil {
				return err
			}
			written = append(written, path)
		}
		if all || opts.dxf {
			path := base + ".dxf"
			if err := export.ExportDXF(path, result); err != nil {
				return err
			}
			written = append(written, path)
		}
		if all || opts.xlsx {
			path := base + ".xlsx"
			if err := export.ExportXLSX(path, result, cfg); err != nil {
				return err
			}
			written = append(written, path)
		}
		if all || opts.png {
			path := base + ".png"
			if err := export.ExportPNG(path, result, export.DefaultPreviewOptions()); err != nil {
				return err
			}
			written = append(written, path)
		}
		if (all || opts.gcode) && hasCuts {
			files, err := gen.WriteAll(base+"_gcode", result)
			if err != nil {
				return err
			}
			written = append(written, files...)
		}
		if all || opts.cutPlan {
			path := base + "_cutplan.json"
			plan := engine.PlanCuts(result, engine.CutPlanOptions{Kerf: cutter.ToolDiameter})
			if err := writeJSONFile(path, plan); err != nil {
				return err
			}
			written = append(written, path)
		}

		if !hasCuts {
			logging.Logger().Info("no cut tiles, skipping labels and GCode", "room", result.Enclosure.Label)
		}
		printWritten(w, result.Enclosure.Label, written)
	}
	return nil
}

func runImport(in io.Reader, w io.Writer, configPath, path, out string) error {
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		if path != "-" {
			return fmt.Errorf("cannot tell the file type of %q", path)
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		res = importer.ImportCSVFromReader(bytes.NewReader(data), importer.DetectCSVDelimiter(data))
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(path)
	case ".dxf":
		res = importer.ImportDXF(path)
	default:
		return fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	printImport(w, res)
	if len(res.Rooms) == 0 {
		return fmt.Errorf("no rooms imported from %s", path)
	}
	if out == "" {
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if path == "-" {
		name = "Imported rooms"
	}
	spec := project.Spec{Name: name, Rooms: res.Rooms}
	cfg.ApplyToSettings(&spec.Settings)
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("encoding spec: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing spec: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\n", out)
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fileStem turns a room label into a lowercase file name stem.
func fileStem(label string) string {
	stem := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, strings.TrimSpace(label))
	if strings.Trim(stem, "_") == "" {
		return "room"
	}
	return stem
}
