package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default grid settings applied to new projects
	DefaultTileWidth  float64 `json:"default_tile_width"`
	DefaultTileHeight float64 `json:"default_tile_height"`
	DefaultSeam       float64 `json:"default_seam"`
	DefaultBias       float64 `json:"default_bias"`
	DefaultAngle      float64 `json:"default_angle"`
	MaxCells          int     `json:"max_cells"`

	// Purchasing
	WastePercent float64 `json:"waste_percent"`
	TilesPerBox  int     `json:"tiles_per_box"`
	PricePerBox  float64 `json:"price_per_box"`

	// Cutting
	Cutter CutterSettings `json:"cutter"`

	// Display
	Units     string  `json:"units"`      // "mm", "cm" or "m"
	AreaScale float64 `json:"area_scale"` // multiplier from square units to displayed area

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultGridSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultGridSettings()
	return AppConfig{
		DefaultTileWidth:  defaults.TileWidth,
		DefaultTileHeight: defaults.TileHeight,
		DefaultSeam:       defaults.Seam,
		DefaultBias:       defaults.Bias,
		DefaultAngle:      defaults.Angle,
		MaxCells:          defaults.MaxCells,
		WastePercent:      10,
		TilesPerBox:       10,
		PricePerBox:       0,
		Cutter:            DefaultCutterSettings(),
		Units:             "mm",
		AreaScale:         1e-6, // mm² to m²
		RecentProjects:    []string{},
		Theme:             "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a GridSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *GridSettings) {
	s.TileWidth = c.DefaultTileWidth
	s.TileHeight = c.DefaultTileHeight
	s.Seam = c.DefaultSeam
	s.Bias = c.DefaultBias
	s.Angle = c.DefaultAngle
	s.MaxCells = c.MaxCells
}

// UnitsPerMeter returns how many layout units make one metre.
func UnitsPerMeter(units string) float64 {
	switch units {
	case "m":
		return 1
	case "cm":
		return 100
	default:
		return 1000
	}
}
