package main

import (
	"fmt"
	"io"

	"github.com/piwi3910/SlabTile/internal/engine"
	"github.com/piwi3910/SlabTile/internal/export"
	"github.com/piwi3910/SlabTile/internal/importer"
	"github.com/piwi3910/SlabTile/internal/model"
)

func printLayout(w io.Writer, r model.LayoutResult, cfg model.AppConfig) {
	e := r.Enclosure
	fmt.Fprintf(w, "%s (%gx%g %s)\n", e.Label, e.Width, e.Height, cfg.Units)
	fmt.Fprintf(w, "  Tiles:        %d (%d full, %d cut)\n", len(r.Tiles), r.FullTiles(), r.CutTiles())
	fmt.Fprintf(w, "  Coverage:     %.1f%%\n", r.Coverage())
	fmt.Fprintf(w, "  Cut waste:    %.1f%%\n", r.CutWaste())

	est := model.CalculatePurchaseEstimate(r, cfg.WastePercent, cfg.TilesPerBox, cfg.PricePerBox, cfg.Units)
	fmt.Fprintf(w, "  Area:         %.2f m²\n", est.CoveredAreaSqM)
	fmt.Fprintf(w, "  To buy:       %d tiles (+%.0f%%)", est.TilesWithWaste, est.WastePercent)
	if est.Boxes > 0 {
		fmt.Fprintf(w, ", %d boxes", est.Boxes)
	}
	if est.EstimatedCost > 0 {
		fmt.Fprintf(w, ", %.2f", est.EstimatedCost)
	}
	fmt.Fprintln(w)

	if r.Settings.Seam > 0 {
		grout := model.CalculateGrout(r, export.DefaultReportOptions().JointDepth, cfg.WastePercent, cfg.Units)
		fmt.Fprintf(w, "  Grout:        %.1f m joints, %.2f kg\n", grout.JointLengthM, grout.MassKg)
	}

	offcuts := model.DetectOffcuts(r, model.DefaultReusableFraction)
	if len(offcuts) > 0 {
		fmt.Fprintf(w, "  Offcuts:      %d (%d reusable), %.2f m²\n", len(offcuts), len(model.ReusableOffcuts(offcuts)),
			model.TotalOffcutArea(offcuts)/(model.UnitsPerMeter(cfg.Units)*model.UnitsPerMeter(cfg.Units)))
	}

	if r.CutTiles() > 0 {
		plan := engine.PlanCuts(r, engine.CutPlanOptions{Kerf: cfg.Cutter.ToolDiameter})
		fmt.Fprintf(w, "  Cut plan:     %d cut pieces from %d tiles (%d saved)\n",
			plan.CutTiles, plan.TilesUsed(), plan.Saved)
	}
	fmt.Fprintln(w)
}

func printTotals(w io.Writer, results []model.LayoutResult, cfg model.AppConfig) {
	var tiles, full, cut int
	var area float64
	for _, r := range results {
		tiles += len(r.Tiles)
		full += r.FullTiles()
		cut += r.CutTiles()
		area += r.Area
	}
	fmt.Fprintf(w, "TOTAL: %d tiles (%d full, %d cut), %.2f m²\n",
		tiles, full, cut, area/(model.UnitsPerMeter(cfg.Units)*model.UnitsPerMeter(cfg.Units)))
}

func printComparison(w io.Writer, room model.Enclosure, results []engine.ComparisonResult) {
	best := engine.BestScenario(results)

	fmt.Fprintf(w, "%s (%gx%g)\n", room.Label, room.Width, room.Height)
	fmt.Fprintf(w, "  %-16s %7s %7s %7s %8s\n", "Scenario", "Tiles", "Full", "Cut", "Waste")
	for i, r := range results {
		marker := " "
		if i == best {
			marker = "*"
		}
		if r.Err != nil {
			fmt.Fprintf(w, "%s %-16s %s\n", marker, r.Scenario.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s %-16s %7d %7d %7d %7.1f%%\n",
			marker, r.Scenario.Name, r.Tiles, r.FullTiles, r.CutTiles, r.WastePercent)
	}
	fmt.Fprintln(w)
}

func printOptimize(w io.Writer, room model.Enclosure, res engine.OffsetResult) {
	fmt.Fprintf(w, "%s (%gx%g)\n", room.Label, room.Width, room.Height)
	fmt.Fprintf(w, "  Offset:       %.2f, %.2f\n", res.Offset.X, res.Offset.Y)
	fmt.Fprintf(w, "  Tiles:        %d (%d full, %d cut, %d slivers)\n",
		len(res.Result.Tiles), res.Result.FullTiles(), res.Result.CutTiles(), res.Slivers)
	fmt.Fprintf(w, "  Fitness:      %.0f (zero offset %.0f)\n", res.Fitness, res.Baseline)
	fmt.Fprintf(w, "  Evaluations:  %d\n\n", res.Evaluations)
}

func printWritten(w io.Writer, room string, files []string) {
	fmt.Fprintf(w, "%s: %d file(s)\n", room, len(files))
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f)
	}
}

func printImport(w io.Writer, res importer.ImportResult) {
	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		fmt.Fprintln(w)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(res.Warnings))
		for _, wn := range res.Warnings {
			fmt.Fprintf(w, "  %s\n", wn)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "ROOMS (%d):\n", len(res.Rooms))
	for _, r := range res.Rooms {
		fmt.Fprintf(w, "  %-20s %gx%g at %g,%g\n", r.Label, r.Width, r.Height, r.Origin.X, r.Origin.Y)
	}
}

func printTemplates(w io.Writer, store model.TemplateStore) {
	for _, t := range store.Templates {
		fmt.Fprintf(w, "%-10s %-12s bias %.2f  angle %g  %s\n", t.ID, t.Name, t.BiasFraction, t.Angle, t.Description)
	}
}
