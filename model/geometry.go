package model

import "math"

// WindowGeometry is the persisted inner size of the main window
type WindowGeometry struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// DefaultGeometry is used when nothing is stored or the window size is unknown
var DefaultGeometry = WindowGeometry{Width: 600, Height: 400}

// Valid reports whether both dimensions are non-zero
func (g WindowGeometry) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// Size is an outer window or tray icon size
type Size struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Position is a screen coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a screen rectangle, used for tray icon bounds
type Rect struct {
	Position
	Size
}

// TrayGap is the vertical distance between the tray icon and the window
const TrayGap = 5

// PositionBelowTray centers a window of the given size under the tray icon
func PositionBelowTray(tray Rect, window Size) Position {
	return Position{
		X: tray.X + int(tray.Width)/2 - int(window.Width)/2,
		Y: tray.Y + int(tray.Height) + TrayGap,
	}
}

// Opacity bounds supported by the host platforms
const (
	MinOpacity = 0.1
	MaxOpacity = 1.0
)

// ClampOpacity limits an opacity value to [MinOpacity, MaxOpacity]
func ClampOpacity(v float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return MaxOpacity
	case v < MinOpacity:
		return MinOpacity
	case v > MaxOpacity:
		return MaxOpacity
	}
	return v
}
