// Package gcode produces cut programs for the clipped tiles of a layout.
// Each cut tile gets its own program that traces the piece outline in
// tile-local coordinates, so the whole tile is clamped at the machine origin.
package gcode

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/model"
)

// Generator produces GCode for cut tiles.
type Generator struct {
	Settings model.CutterSettings
	profile  model.GCodeProfile
}

// Program is the cut program of one tile.
type Program struct {
	TileIndex int
	Name      string
	Code      string
}

// New creates a generator. Custom profiles take precedence over the
// built-in ones when looking up Settings.Profile.
func New(settings model.CutterSettings, custom ...model.GCodeProfile) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.Profile, custom...),
	}
}

// Profile returns the GCode profile in use.
func (g *Generator) Profile() model.GCodeProfile {
	return g.profile
}

// GenerateTile produces the cut program for one tile.
func (g *Generator) GenerateTile(t model.Tile, room string) string {
	var b strings.Builder

	g.writeHeader(&b, t, room)
	g.writePiece(&b, t)
	g.writeFooter(&b)

	return b.String()
}

// GenerateAll produces one program per cut tile, in layout order.
func (g *Generator) GenerateAll(result model.LayoutResult) []Program {
	var programs []Program
	for _, t := range result.Tiles {
		if !t.Cut {
			continue
		}
		programs = append(programs, Program{
			TileIndex: t.Index,
			Name:      fmt.Sprintf("tile_%03d.gcode", t.Index+1),
			Code:      g.GenerateTile(t, result.Enclosure.Label),
		})
	}
	return programs
}

// WriteAll writes every cut program into dir and returns the file paths.
func (g *Generator) WriteAll(dir string, result model.LayoutResult) ([]string, error) {
	programs := g.GenerateAll(result)
	if len(programs) == 0 {
		return nil, fmt.Errorf("no cut tiles to generate GCode for")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(programs))
	for _, p := range programs {
		path := filepath.Join(dir, p.Name)
		if err := os.WriteFile(path, []byte(p.Code), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", p.Name, err)
		}
		paths = append(paths, path)
	}

	logging.Logger().Debug("wrote cut programs", "dir", dir, "programs", len(paths), "profile", g.profile.Name)
	return paths, nil
}

func (g *Generator) writeHeader(b *strings.Builder, t model.Tile, room string) {
	p := g.profile
	min, max := t.Local.BoundingBox()

	b.WriteString(g.comment(fmt.Sprintf("SlabTile GCode - Tile %d (%s)", t.Index+1, room)))
	b.WriteString(g.comment(fmt.Sprintf("Piece: %.1f x %.1f mm, %d corners, area %.0f", max.X-min.X, max.Y-min.Y, len(t.Local), t.Area)))
	b.WriteString(g.comment(fmt.Sprintf("Tool: %.1fmm, Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
	b.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %.1fmm passes", g.Settings.CutDepth, g.Settings.PassDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment("=== Job complete ==="))

	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}

	if p.SpindleStop != "" && !containsCode(p.EndCode, p.SpindleStop) {
		b.WriteString(p.SpindleStop + "\n")
	}
}

// writePiece traces the piece outline, offset outward by the tool radius,
// once per depth pass.
func (g *Generator) writePiece(b *strings.Builder, t model.Tile) {
	if len(t.Local) < 3 {
		b.WriteString(g.comment("WARNING: outline has fewer than 3 points, skipping"))
		return
	}

	path := offsetOutline(t.Local, g.Settings.ToolDiameter/2.0)
	numPasses := g.Settings.Passes()

	for pass := 1; pass <= numPasses; pass++ {
		depth := math.Min(float64(pass)*g.Settings.PassDepth, g.Settings.CutDepth)
		if numPasses == 1 {
			depth = g.Settings.CutDepth
		}

		b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, numPasses, depth)))

		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove,
			g.format(path[0].X), g.format(path[0].Y)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove,
			g.format(-depth), g.format(g.Settings.PlungeRate)))

		for i := 1; i < len(path); i++ {
			b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
				g.format(path[i].X), g.format(path[i].Y),
				g.format(g.Settings.FeedRate)))
		}
		// Close the loop back to the first point
		b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
			g.format(path[0].X), g.format(path[0].Y),
			g.format(g.Settings.FeedRate)))

		b.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}

	b.WriteString("\n")
}

// offsetOutline shifts every vertex of a clockwise outline outward by dist
// along the bisector of its two edge normals. The shift is scaled so both
// adjacent edges move by exactly dist.
func offsetOutline(outline model.Outline, dist float64) model.Outline {
	n := len(outline)
	if n < 3 || dist == 0 {
		return outline
	}

	result := make(model.Outline, n)
	for i := 0; i < n; i++ {
		prev := outline[(i-1+n)%n]
		curr := outline[i]
		next := outline[(i+1)%n]

		// Left of travel is outside for a clockwise outline
		n1x, n1y := normalize(-(curr.Y - prev.Y), curr.X-prev.X)
		n2x, n2y := normalize(-(next.Y - curr.Y), next.X-curr.X)

		nx, ny := normalize(n1x+n2x, n1y+n2y)
		scale := dist
		if cos := nx*n1x + ny*n1y; cos > 0.1 {
			scale = dist / cos
		}

		result[i] = model.Point2D{
			X: curr.X + nx*scale,
			Y: curr.Y + ny*scale,
		}
	}
	return result
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	s := fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// normalize returns a unit vector in the given direction.
func normalize(x, y float64) (float64, float64) {
	length := math.Sqrt(x*x + y*y)
	if length < 1e-9 {
		return 0, 0
	}
	return x / length, y / length
}
