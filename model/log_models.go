package model

import "time"

// RequestLog records every HTTP request
type RequestLog struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Command    string    `json:"command,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	StatusCode int       `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	ClientIP   string    `json:"client_ip"`
	Error      string    `json:"error,omitempty"`
}

// ControllerEvent records a visibility, persistence or shortcut event
type ControllerEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Trigger   string    `json:"trigger,omitempty"`
	Width     uint32    `json:"width,omitempty"`
	Height    uint32    `json:"height,omitempty"`
	Shortcut  string    `json:"shortcut,omitempty"`
	Opacity   float64   `json:"opacity,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Controller event types
const (
	EventToggle           = "toggle"
	EventShown            = "shown"
	EventHidden           = "hidden"
	EventPlatformFailure  = "platform_failure"
	EventGeometrySaved    = "geometry_saved"
	EventResizeSuppressed = "resize_suppressed"
	EventShortcutBound    = "shortcut_bound"
	EventShortcutFallback = "shortcut_fallback"
	EventBadgeChanged     = "badge_changed"
	EventOpacityChanged   = "opacity_changed"
	EventSettingsReloaded = "settings_reloaded"
)

// MetricsLog records controller counters at regular intervals
type MetricsLog struct {
	Timestamp         time.Time `json:"timestamp"`
	Visible           bool      `json:"visible"`
	FrontendsAttached int       `json:"frontends_attached"`
	Toggles           int64     `json:"toggles_last_min"`
	GeometryWrites    int64     `json:"geometry_writes_last_min"`
	ResizesSuppressed int64     `json:"resizes_suppressed_last_min"`
	PlatformFailures  int64     `json:"platform_failures_last_min"`
	ShortcutFallbacks int64     `json:"shortcut_fallbacks_last_min"`
	FailedRequests    int64     `json:"failed_requests_last_min"`
	TotalRequests     int64     `json:"requests_last_min"`
}
