package model

import "math"

// GroutSummary holds the calculated grout requirements for a layout.
type GroutSummary struct {
	JointLength   float64 `json:"joint_length"`   // Total joint length in layout units
	JointLengthM  float64 `json:"joint_length_m"` // Total joint length in metres
	JointWidth    float64 `json:"joint_width"`    // Seam width in layout units
	JointDepth    float64 `json:"joint_depth"`    // Joint depth (tile thickness) in layout units
	VolumeLitres  float64 `json:"volume_litres"`  // Grout volume without waste
	WastePercent  float64 `json:"waste_percent"`  // Waste percentage applied
	MassKg        float64 `json:"mass_kg"`        // Grout mass including waste
	DensityKgPerL float64 `json:"density_kg_per_l"`
}

// DefaultGroutDensity is a typical cement grout density in kg per litre.
const DefaultGroutDensity = 1.6

// CalculateGrout computes the joint length and grout quantity for a layout.
// Tile edges lying on the enclosure boundary have no joint; every other edge
// borders a joint shared by two tiles.
func CalculateGrout(result LayoutResult, jointDepth, wastePercent float64, units string) GroutSummary {
	var perimeter, boundary float64
	for _, t := range result.Tiles {
		perimeter += t.World.Perimeter()
		boundary += boundaryLength(t.World, result.Enclosure)
	}

	length := (perimeter - boundary) / 2
	if length < 0 {
		length = 0
	}

	upm := UnitsPerMeter(units)
	lengthM := length / upm
	widthM := result.Settings.Seam / upm
	depthM := jointDepth / upm
	litres := lengthM * widthM * depthM * 1000.0

	wasteFactor := 1.0 + (wastePercent / 100.0)

	return GroutSummary{
		JointLength:   length,
		JointLengthM:  lengthM,
		JointWidth:    result.Settings.Seam,
		JointDepth:    jointDepth,
		VolumeLitres:  litres,
		WastePercent:  wastePercent,
		MassKg:        math.Ceil(litres*DefaultGroutDensity*wasteFactor*10) / 10, // Round up to 100 g
		DensityKgPerL: DefaultGroutDensity,
	}
}

// boundaryLength sums the outline edges that run along an enclosure side.
func boundaryLength(o Outline, e Enclosure) float64 {
	tol := 1e-6 * math.Max(e.Width, e.Height)
	minX, maxX := e.Origin.X, e.Origin.X+e.Width
	minY, maxY := e.Origin.Y, e.Origin.Y+e.Height

	onLine := func(a, b, v float64) bool {
		return math.Abs(a-v) <= tol && math.Abs(b-v) <= tol
	}

	var total float64
	n := len(o)
	for i := 0; i < n; i++ {
		p, q := o[i], o[(i+1)%n]
		if onLine(p.X, q.X, minX) || onLine(p.X, q.X, maxX) ||
			onLine(p.Y, q.Y, minY) || onLine(p.Y, q.Y, maxY) {
			total += math.Hypot(q.X-p.X, q.Y-p.Y)
		}
	}
	return total
}
