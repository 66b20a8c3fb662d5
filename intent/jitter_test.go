package intent

import (
	"math/rand"
	"reflect"
	"testing"

	"clementus360/intent-tracker/types"
)

func TestDisplayJitterPreservesRanking(t *testing.T) {
	engine := newTestEngine(t)
	pred, err := engine.Score(types.Snapshot{
		TimeOnPageSeconds:  600,
		ClickCount:         1,
		ScrollDepthPercent: 90,
		DeviceType:         types.DeviceDesktop,
		Referrer:           "https://google.com/search?q=x",
	})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	for seed := int64(0); seed < 20; seed++ {
		jittered := DisplayJitter(pred, 5, rand.New(rand.NewSource(seed)))

		if jittered.PrimaryIntent != pred.PrimaryIntent {
			t.Fatalf("seed %d: jitter changed primary intent", seed)
		}
		prev := jittered.Confidence
		for _, s := range jittered.SecondaryIntents {
			if s.Confidence > prev {
				t.Fatalf("seed %d: ranking broken, %q at %g above %g", seed, s.Intent, s.Confidence, prev)
			}
			if s.Confidence < 0 || s.Confidence > 100 {
				t.Fatalf("seed %d: confidence %g out of range", seed, s.Confidence)
			}
			prev = s.Confidence
		}
	}
}

func TestDisplayJitterDoesNotMutateInput(t *testing.T) {
	engine := newTestEngine(t)
	pred, err := engine.Score(types.Snapshot{TimeOnPageSeconds: 300, ClickCount: 2, ScrollDepthPercent: 85})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	before, _ := engine.Score(types.Snapshot{TimeOnPageSeconds: 300, ClickCount: 2, ScrollDepthPercent: 85})
	DisplayJitter(pred, 10, rand.New(rand.NewSource(1)))

	if !reflect.DeepEqual(pred, before) {
		t.Error("DisplayJitter mutated its input prediction")
	}
}

func TestDisplayJitterZeroAmplitudeIsIdentity(t *testing.T) {
	engine := newTestEngine(t)
	pred, err := engine.Score(types.Snapshot{TimeOnPageSeconds: 300})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	out := DisplayJitter(pred, 0, rand.New(rand.NewSource(1)))
	if !reflect.DeepEqual(out, pred) {
		t.Error("zero amplitude should return the prediction unchanged")
	}
}
