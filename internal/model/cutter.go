package model

// CutterSettings holds the machine parameters for cutting tile pieces on a
// CNC bridge saw or router.
type CutterSettings struct {
	ToolDiameter float64 `json:"tool_diameter" yaml:"tool_diameter"` // mm
	FeedRate     float64 `json:"feed_rate" yaml:"feed_rate"`         // mm/min
	PlungeRate   float64 `json:"plunge_rate" yaml:"plunge_rate"`     // mm/min
	SpindleSpeed int     `json:"spindle_speed" yaml:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z" yaml:"safe_z"`               // Retract height
	CutDepth     float64 `json:"cut_depth" yaml:"cut_depth"`         // Tile thickness plus breakthrough
	PassDepth    float64 `json:"pass_depth" yaml:"pass_depth"`       // Depth per pass
	Profile      string  `json:"profile" yaml:"profile"`             // GCode profile name
}

func DefaultCutterSettings() CutterSettings {
	return CutterSettings{
		ToolDiameter: 3.0,
		FeedRate:     600.0,
		PlungeRate:   150.0,
		SpindleSpeed: 12000,
		SafeZ:        5.0,
		CutDepth:     10.0,
		PassDepth:    2.5,
		Profile:      "Generic",
	}
}

// Passes returns the number of depth passes needed to reach CutDepth.
func (c CutterSettings) Passes() int {
	if c.PassDepth <= 0 || c.PassDepth >= c.CutDepth {
		return 1
	}
	n := int(c.CutDepth / c.PassDepth)
	if float64(n)*c.PassDepth < c.CutDepth-1e-9 {
		n++
	}
	return n
}

// GCodeProfile defines a post-processor configuration for different CNC controllers.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"

	StartCode    []string `json:"start_code"`    // Commands at start of file
	SpindleStart string   `json:"spindle_start"` // Spindle on command (e.g., "M3 S%d")
	SpindleStop  string   `json:"spindle_stop"`

	RapidMove string `json:"rapid_move"` // G0 or equivalent
	FeedMove  string `json:"feed_move"`  // G1 or equivalent

	EndCode []string `json:"end_code"` // [SafeZ] is replaced by the retract height

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"` // e.g. ")" for parenthesised comments

	DecimalPlaces int `json:"decimal_places"`
}

// Built-in GCode profiles. Generic must stay last.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Standard Grbl configuration (Arduino CNC shields)",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M5", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "M5", "G0 X0 Y0", "M2"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a GCode profile by name, searching custom profiles
// first. Unknown names fall back to the Generic profile.
func GetProfile(name string, custom ...GCodeProfile) GCodeProfile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all built-in profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range GCodeProfiles {
		names = append(names, p.Name)
	}
	return names
}
