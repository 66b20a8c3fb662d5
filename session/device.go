package session

import "clementus360/intent-tracker/types"

// Viewport width thresholds for device classification.
const (
	mobileMaxWidth = 768
	tabletMaxWidth = 1024
)

// DeviceHints is the environment information available when a session
// starts.
type DeviceHints struct {
	UserAgent    string
	ScreenWidth  int
	ScreenHeight int
	Referrer     string
}

// ClassifyDevice maps a viewport width to a device type. Unknown widths
// (zero or negative) fall back to desktop.
func ClassifyDevice(width int) string {
	switch {
	case width <= 0:
		return types.DeviceDesktop
	case width < mobileMaxWidth:
		return types.DeviceMobile
	case width < tabletMaxWidth:
		return types.DeviceTablet
	default:
		return types.DeviceDesktop
	}
}
