package intent

import (
	"fmt"
	"sort"
	"strings"

	"clementus360/intent-tracker/types"
)

// factorNames maps indicators to the short factor labels shown to users.
var factorNames = map[string]string{
	IndicatorLongDwellTime:   "Time Patterns",
	IndicatorHighClickRate:   "Interaction Level",
	IndicatorHighScrollDepth: "Content Engagement",
	IndicatorMobileDevice:    "Device Context",
	IndicatorSearchReferrer:  "Traffic Source",
	IndicatorDirectReferrer:  "Traffic Source",
}

// buildFactors explains the winning category: the 1-3 indicators that
// contributed the most weight, each with a description and a coarse tier
// from its share of the winning raw score.
func buildFactors(snap types.Snapshot, fired map[string]bool, cfg Config, winner string, winnerRaw float64) []types.Factor {
	type contribution struct {
		indicator string
		weight    float64
		order     int
	}

	contributions := make([]contribution, 0, len(Indicators))
	for i, indicator := range Indicators {
		if !fired[indicator] {
			continue
		}
		w := cfg.weight(winner, indicator)
		if w <= 0 {
			continue
		}
		contributions = append(contributions, contribution{indicator: indicator, weight: w, order: i})
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		if contributions[i].weight != contributions[j].weight {
			return contributions[i].weight > contributions[j].weight
		}
		return contributions[i].order < contributions[j].order
	})

	if len(contributions) > 3 {
		contributions = contributions[:3]
	}

	factors := make([]types.Factor, 0, len(contributions))
	for _, c := range contributions {
		factors = append(factors, types.Factor{
			Factor:      factorNames[c.indicator],
			Description: describeIndicator(c.indicator, snap, winner),
			Weight:      weightTier(c.weight, winnerRaw),
		})
	}
	return factors
}

// weightTier buckets an indicator's share of the winning raw score.
func weightTier(weight, winnerRaw float64) string {
	if winnerRaw <= 0 {
		return types.WeightLow
	}
	share := weight / winnerRaw
	switch {
	case share >= 1.0/3.0:
		return types.WeightHigh
	case share >= 1.0/6.0:
		return types.WeightMedium
	default:
		return types.WeightLow
	}
}

func describeIndicator(indicator string, snap types.Snapshot, winner string) string {
	lowered := strings.ToLower(winner)
	switch indicator {
	case IndicatorLongDwellTime:
		return fmt.Sprintf("Extended session duration (%ds) indicates focused %s behavior", snap.TimeOnPageSeconds, lowered)
	case IndicatorHighClickRate:
		return fmt.Sprintf("High interaction rate (%d clicks in %ds) indicates engaged %s behavior", snap.ClickCount, snap.TimeOnPageSeconds, lowered)
	case IndicatorHighScrollDepth:
		return fmt.Sprintf("Deep scrolling (%d%%) shows strong interest in page content", snap.ScrollDepthPercent)
	case IndicatorMobileDevice:
		return "Mobile device usage often indicates on-the-go, task-focused visits"
	case IndicatorSearchReferrer:
		return "Arrival from a search engine suggests the visitor came with a question in mind"
	case IndicatorDirectReferrer:
		return "Direct visit without a referrer suggests a returning or habitual visitor"
	default:
		return fmt.Sprintf("Signal %s contributed to the %s score", indicator, lowered)
	}
}
