package intent

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Intent categories, in canonical order. The order doubles as the
// tie-break rule: when two categories score identically the one listed
// first wins.
const (
	IntentInformation   = "Information"
	IntentResearch      = "Research"
	IntentPurchase      = "Purchase"
	IntentLearning      = "Learning"
	IntentEntertainment = "Entertainment"
	IntentNavigation    = "Navigation"
	IntentSupport       = "Support"
	IntentComparison    = "Comparison"
)

// Categories is the canonical ordering used for scoring and tie-breaks.
var Categories = []string{
	IntentInformation,
	IntentResearch,
	IntentPurchase,
	IntentLearning,
	IntentEntertainment,
	IntentNavigation,
	IntentSupport,
	IntentComparison,
}

// Recognised scoring indicators.
const (
	IndicatorLongDwellTime   = "longDwellTime"
	IndicatorHighClickRate   = "highClickRate"
	IndicatorHighScrollDepth = "highScrollDepth"
	IndicatorMobileDevice    = "mobileDevice"
	IndicatorSearchReferrer  = "searchReferrer"
	IndicatorDirectReferrer  = "directReferrer"
)

// Indicators is the canonical ordering of scoring indicators, used for
// checksums and for breaking ties between equally-weighted factors.
var Indicators = []string{
	IndicatorLongDwellTime,
	IndicatorHighClickRate,
	IndicatorHighScrollDepth,
	IndicatorMobileDevice,
	IndicatorSearchReferrer,
	IndicatorDirectReferrer,
}

// Thresholds decide when an indicator fires for a snapshot.
type Thresholds struct {
	LongDwellSeconds       float64 `yaml:"long_dwell_seconds"`
	HighClickRatePerSecond float64 `yaml:"high_click_rate_per_second"`
	HighScrollDepthPercent float64 `yaml:"high_scroll_depth_percent"`
}

// Config is the scoring policy: which thresholds trip each indicator and
// how much each fired indicator contributes to each category. It is the
// only tunable part of the scorer; everything else is fixed mechanics.
//
// A Config is treated as immutable once handed to NewEngine. Reloading
// means building a new Engine from a new Config, never mutating in place.
type Config struct {
	Version    string                        `yaml:"version"`
	Thresholds Thresholds                    `yaml:"thresholds"`
	Weights    map[string]map[string]float64 `yaml:"weights"`

	// Source records where the config came from (path or "defaults").
	Source string `yaml:"-"`
}

// DefaultConfig returns the built-in scoring policy. Callers get a fresh
// copy each time so nothing can mutate shared state.
func DefaultConfig() Config {
	return Config{
		Version: "v1.0.0",
		Source:  "defaults",
		Thresholds: Thresholds{
			LongDwellSeconds:       120,
			HighClickRatePerSecond: 0.2,
			HighScrollDepthPercent: 70,
		},
		Weights: map[string]map[string]float64{
			IntentInformation: {
				IndicatorLongDwellTime:   5,
				IndicatorHighClickRate:   5,
				IndicatorHighScrollDepth: 10,
				IndicatorMobileDevice:    10,
				IndicatorSearchReferrer:  25,
			},
			IntentResearch: {
				IndicatorLongDwellTime:   30,
				IndicatorHighScrollDepth: 25,
				IndicatorSearchReferrer:  30,
			},
			IntentPurchase: {
				IndicatorLongDwellTime:   10,
				IndicatorHighClickRate:   28,
				IndicatorHighScrollDepth: 8,
				IndicatorMobileDevice:    8,
				IndicatorSearchReferrer:  8,
			},
			IntentLearning: {
				IndicatorLongDwellTime:   28,
				IndicatorHighScrollDepth: 22,
				IndicatorSearchReferrer:  10,
			},
			IntentEntertainment: {
				IndicatorLongDwellTime:   12,
				IndicatorHighClickRate:   12,
				IndicatorHighScrollDepth: 5,
				IndicatorMobileDevice:    20,
			},
			IntentNavigation: {
				IndicatorHighClickRate: 30,
				IndicatorMobileDevice:  18,
			},
			IntentSupport: {
				IndicatorLongDwellTime:  8,
				IndicatorHighClickRate:  8,
				IndicatorMobileDevice:   5,
				IndicatorSearchReferrer: 5,
			},
			IntentComparison: {
				IndicatorLongDwellTime:   15,
				IndicatorHighClickRate:   10,
				IndicatorHighScrollDepth: 18,
				IndicatorSearchReferrer:  15,
			},
		},
	}
}

// Validate checks the config for unknown categories or indicators,
// negative weights, and non-positive thresholds.
func (c Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("model config: version must not be empty")
	}
	if c.Thresholds.LongDwellSeconds <= 0 {
		return fmt.Errorf("model config: long_dwell_seconds must be positive, got %g", c.Thresholds.LongDwellSeconds)
	}
	if c.Thresholds.HighClickRatePerSecond <= 0 {
		return fmt.Errorf("model config: high_click_rate_per_second must be positive, got %g", c.Thresholds.HighClickRatePerSecond)
	}
	if c.Thresholds.HighScrollDepthPercent <= 0 {
		return fmt.Errorf("model config: high_scroll_depth_percent must be positive, got %g", c.Thresholds.HighScrollDepthPercent)
	}

	known := make(map[string]bool, len(Indicators))
	for _, ind := range Indicators {
		known[ind] = true
	}
	for category, row := range c.Weights {
		if !isCategory(category) {
			return fmt.Errorf("model config: unknown category %q", category)
		}
		for indicator, weight := range row {
			if !known[indicator] {
				return fmt.Errorf("model config: unknown indicator %q in category %q", indicator, category)
			}
			if weight < 0 {
				return fmt.Errorf("model config: negative weight %g for %s.%s", weight, category, indicator)
			}
		}
	}
	return nil
}

// Checksum fingerprints the scoring policy. Two configs producing the
// same predictions have the same checksum, regardless of map iteration
// order or where they were loaded from.
func (c Config) Checksum() string {
	h := sha256.New()
	fmt.Fprintf(h, "version=%s\n", c.Version)
	fmt.Fprintf(h, "thresholds=%g,%g,%g\n",
		c.Thresholds.LongDwellSeconds,
		c.Thresholds.HighClickRatePerSecond,
		c.Thresholds.HighScrollDepthPercent,
	)
	for _, category := range Categories {
		for _, indicator := range Indicators {
			fmt.Fprintf(h, "%s.%s=%g\n", category, indicator, c.Weights[category][indicator])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// weight returns the configured weight for a (category, indicator) pair,
// zero when absent.
func (c Config) weight(category, indicator string) float64 {
	row, ok := c.Weights[category]
	if !ok {
		return 0
	}
	return row[indicator]
}

func isCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// copyConfig deep-copies a Config so the engine owns its policy outright.
func copyConfig(c Config) Config {
	out := c
	out.Weights = make(map[string]map[string]float64, len(c.Weights))
	for category, row := range c.Weights {
		dst := make(map[string]float64, len(row))
		for indicator, weight := range row {
			dst[indicator] = weight
		}
		out.Weights[category] = dst
	}
	return out
}
