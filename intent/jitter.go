package intent

import (
	"math/rand"

	"clementus360/intent-tracker/types"
)

// DisplayJitter perturbs a prediction's confidences for UI liveliness.
// The output is display-only and must never be stored or fed back into
// scoring; stored predictions stay deterministic.
//
// Confidences are shifted by up to ±amplitude, clamped to [0, 100], and
// re-clamped so the ranking never changes: each entry stays at or below
// the one before it.
func DisplayJitter(p types.Prediction, amplitude float64, rng *rand.Rand) types.Prediction {
	if amplitude <= 0 || rng == nil {
		return p
	}

	out := p
	out.SecondaryIntents = make([]types.SecondaryIntent, len(p.SecondaryIntents))
	copy(out.SecondaryIntents, p.SecondaryIntents)
	out.Factors = make([]types.Factor, len(p.Factors))
	copy(out.Factors, p.Factors)

	jitter := func(v float64) float64 {
		v += (rng.Float64()*2 - 1) * amplitude
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		return round1(v)
	}

	out.Confidence = jitter(p.Confidence)
	ceiling := out.Confidence
	for i := range out.SecondaryIntents {
		v := jitter(out.SecondaryIntents[i].Confidence)
		if v > ceiling {
			v = ceiling
		}
		out.SecondaryIntents[i].Confidence = v
		ceiling = v
	}
	return out
}
