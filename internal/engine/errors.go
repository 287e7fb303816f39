package engine

import "errors"

var (
	// ErrInvalidConfig is returned before any walking when the grid settings
	// or the enclosure cannot produce a layout.
	ErrInvalidConfig = errors.New("invalid layout configuration")

	// ErrCellLimit is returned when a run visits more grid cells than
	// GridSettings.MaxCells allows.
	ErrCellLimit = errors.New("grid cell limit exceeded")
)
