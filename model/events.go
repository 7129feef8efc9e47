package model

// MouseButton identifies the tray icon button
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// KeyPhase is the phase of a key or button event
type KeyPhase string

const (
	PhasePressed  KeyPhase = "pressed"
	PhaseReleased KeyPhase = "released"
)

// TrayEvent is a click on the tray icon
type TrayEvent struct {
	Button MouseButton
	Phase  KeyPhase
}

// Directive actions sent to the attached frontend
const (
	ActionShow        = "show"
	ActionHide        = "hide"
	ActionFocus       = "focus"
	ActionSetPosition = "set_position"
	ActionSetSize     = "set_size"
	ActionSetOpacity  = "set_opacity"
	ActionShowWindow  = "show_window"
	ActionEmit        = "emit"
)

// Directive is a command from the controller to the frontend window
type Directive struct {
	ID       string    `json:"id"`
	Action   string    `json:"action"`
	Position *Position `json:"position,omitempty"`
	Size     *Size     `json:"size,omitempty"`
	Opacity  *float64  `json:"opacity,omitempty"`
	Label    string    `json:"label,omitempty"`
	Event    string    `json:"event,omitempty"`
}

// Frontend window event types
const (
	WindowEventResized    = "resized"
	WindowEventMoved      = "moved"
	WindowEventFocus      = "focus"
	WindowEventVisibility = "visibility"
)

// WindowEvent is reported by the frontend when its window changes
type WindowEvent struct {
	Type    string `json:"type" binding:"required"`
	Width   uint32 `json:"width,omitempty"`
	Height  uint32 `json:"height,omitempty"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Focused bool   `json:"focused,omitempty"`
	Visible bool   `json:"visible,omitempty"`
	Outer   *Size  `json:"outer,omitempty"`
}
