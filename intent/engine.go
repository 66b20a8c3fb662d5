package intent

import (
	"fmt"
	"math"
	"sort"

	"clementus360/intent-tracker/types"
)

// Engine scores behavioral snapshots against a fixed policy. It holds no
// mutable state, so one instance serves any number of concurrent callers
// without locking. Swapping policy means building a new Engine.
type Engine struct {
	cfg      Config
	checksum string
}

// NewEngine validates the config and returns an engine that owns a private
// copy of it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build scoring engine: %w", err)
	}
	owned := copyConfig(cfg)
	return &Engine{cfg: owned, checksum: owned.Checksum()}, nil
}

// Version returns the model version string of the active policy.
func (e *Engine) Version() string { return e.cfg.Version }

// Checksum returns the fingerprint of the active policy.
func (e *Engine) Checksum() string { return e.checksum }

// Config returns a copy of the active policy for introspection.
func (e *Engine) Config() Config { return copyConfig(e.cfg) }

type scoredCategory struct {
	category string
	raw      float64
}

// Score maps a snapshot to a ranked intent prediction. Identical input
// always yields identical output: no randomness, no clock reads, map
// iteration replaced by canonical ordering throughout.
//
// The returned prediction carries no prediction or session id; callers
// that persist it attach those.
func (e *Engine) Score(snap types.Snapshot) (types.Prediction, error) {
	if err := validateSnapshot(snap); err != nil {
		return types.Prediction{}, err
	}

	fired := evalIndicators(snap, e.cfg.Thresholds)

	scored := make([]scoredCategory, 0, len(Categories))
	var total float64
	for _, category := range Categories {
		var raw float64
		for _, indicator := range Indicators {
			if fired[indicator] {
				raw += e.cfg.weight(category, indicator)
			}
		}
		scored = append(scored, scoredCategory{category: category, raw: raw})
		total += raw
	}

	if total == 0 {
		return e.uniformPrediction(), nil
	}

	// Stable sort over canonically-ordered input: equal raw scores keep
	// canonical order, which is exactly the tie-break rule.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].raw > scored[j].raw
	})

	winner := scored[0]
	secondaries := make([]types.SecondaryIntent, 0, len(scored)-1)
	for _, s := range scored[1:] {
		secondaries = append(secondaries, types.SecondaryIntent{
			Intent:     s.category,
			Confidence: round1(s.raw / total * 100),
		})
	}

	return types.Prediction{
		PrimaryIntent:    winner.category,
		Confidence:       round1(winner.raw / total * 100),
		SecondaryIntents: secondaries,
		Factors:          buildFactors(snap, fired, e.cfg, winner.category, winner.raw),
		ModelVersion:     e.cfg.Version,
	}, nil
}

// uniformPrediction covers the no-signal case: a brand-new session with
// nothing recorded still gets a renderable, well-formed prediction.
func (e *Engine) uniformPrediction() types.Prediction {
	share := round1(100.0 / float64(len(Categories)))
	secondaries := make([]types.SecondaryIntent, 0, len(Categories)-1)
	for _, category := range Categories[1:] {
		secondaries = append(secondaries, types.SecondaryIntent{Intent: category, Confidence: share})
	}
	return types.Prediction{
		PrimaryIntent:    Categories[0],
		Confidence:       share,
		SecondaryIntents: secondaries,
		Factors: []types.Factor{{
			Factor:      "No Interaction Signal",
			Description: "No measurable activity recorded yet, returning a uniform baseline across all intents",
			Weight:      types.WeightLow,
		}},
		ModelVersion: e.cfg.Version,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
