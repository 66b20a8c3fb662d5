package intent

import (
	"strings"

	"clementus360/intent-tracker/types"
)

// searchDomains are referrer fragments treated as search-engine traffic.
var searchDomains = []string{
	"google.",
	"bing.",
	"duckduckgo.",
	"yahoo.",
	"baidu.",
	"yandex.",
	"search",
}

// evalIndicators reports which indicators fire for a snapshot. A missing
// optional signal simply never fires; it is not an error.
func evalIndicators(snap types.Snapshot, th Thresholds) map[string]bool {
	fired := make(map[string]bool, len(Indicators))

	fired[IndicatorLongDwellTime] = float64(snap.TimeOnPageSeconds) >= th.LongDwellSeconds

	// Click rate floors elapsed time at one second so an immediate click
	// burst still registers instead of dividing by zero.
	if snap.ClickCount > 0 {
		elapsed := float64(snap.TimeOnPageSeconds)
		if elapsed < 1 {
			elapsed = 1
		}
		fired[IndicatorHighClickRate] = float64(snap.ClickCount)/elapsed >= th.HighClickRatePerSecond
	}

	fired[IndicatorHighScrollDepth] = float64(snap.ScrollDepthPercent) >= th.HighScrollDepthPercent
	fired[IndicatorMobileDevice] = snap.DeviceType == types.DeviceMobile
	fired[IndicatorSearchReferrer] = isSearchReferrer(snap.Referrer)
	fired[IndicatorDirectReferrer] = snap.Referrer == ""

	return fired
}

func isSearchReferrer(referrer string) bool {
	if referrer == "" {
		return false
	}
	lower := strings.ToLower(referrer)
	for _, domain := range searchDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// validateSnapshot enforces the scorer's input contract. Unknown device
// types are rejected; an empty device type means "no signal".
func validateSnapshot(snap types.Snapshot) error {
	if snap.TimeOnPageSeconds < 0 {
		return invalidInput("time_on_page_seconds", "must not be negative")
	}
	if snap.ClickCount < 0 {
		return invalidInput("click_count", "must not be negative")
	}
	if snap.PageViews < 0 {
		return invalidInput("page_views", "must not be negative")
	}
	if snap.ScrollDepthPercent < 0 || snap.ScrollDepthPercent > 100 {
		return invalidInput("scroll_depth_percent", "must be between 0 and 100")
	}
	switch snap.DeviceType {
	case "", types.DeviceMobile, types.DeviceTablet, types.DeviceDesktop:
	default:
		return invalidInput("device_type", "must be one of mobile, tablet, desktop")
	}
	return nil
}
